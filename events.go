package classfile

import (
	"github.com/Earthcomputer/classfile/access"
	"github.com/Earthcomputer/classfile/opcodes"
)

// AnnotationEntry pairs a decoded Annotation with its RuntimeVisible vs
// RuntimeInvisible origin.
type AnnotationEntry struct {
	Visible    bool
	Annotation Annotation
}

// TypeAnnotationEntry pairs a decoded TypeAnnotation with its
// RuntimeVisible vs RuntimeInvisible origin.
type TypeAnnotationEntry struct {
	Visible        bool
	TypeAnnotation TypeAnnotation
}

// InnerClassEntry is one entry of the class-level InnerClasses attribute.
type InnerClassEntry struct {
	InnerName     string
	OuterName     string
	HasOuterName  bool
	InnerSimpleName string
	HasInnerSimpleName bool
	Access        access.Flags
}

// ClassEventKind discriminates the payload carried by a ClassEvent.
type ClassEventKind int

const (
	ClassHeader ClassEventKind = iota
	ClassSynthetic
	ClassDeprecated
	ClassSource
	ClassModule
	ClassNestHost
	ClassOuterClass
	ClassAnnotations
	ClassTypeAnnotations
	ClassCustomAttributes
	ClassNestMembers
	ClassPermittedSubclasses
	ClassInnerClasses
	ClassRecordComponents
	ClassFields
	ClassMethods
	ClassEnd
)

// ClassEvent is one item in the class-level event sequence described in
// §4.4: only the fields relevant to Kind are populated.
type ClassEvent struct {
	Kind ClassEventKind

	// ClassHeader
	MinorVersion uint16
	MajorVersion uint16
	Access       access.Flags
	Name         string
	SuperName    string
	HasSuperName bool
	Interfaces   []string

	// ClassSource
	SourceFile        string
	HasSourceFile     bool
	SourceDebugExtension []byte
	HasSourceDebugExtension bool

	// ClassModule
	Module ModuleInfo

	// ClassNestHost
	NestHost string

	// ClassOuterClass
	OuterOwner string
	OuterName  string
	OuterDesc  string
	HasOuterMethod bool

	// ClassAnnotations / ClassTypeAnnotations
	Annotations     []AnnotationEntry
	TypeAnnotations []TypeAnnotationEntry

	// ClassCustomAttributes
	CustomAttributes []UnknownAttribute

	// ClassNestMembers / ClassPermittedSubclasses
	ClassNames []string

	// ClassInnerClasses
	InnerClasses []InnerClassEntry

	// ClassRecordComponents
	RecordComponents *RecordComponentIterator

	// ClassFields
	Fields *FieldIterator

	// ClassMethods
	Methods *MethodIterator
}

// ModuleInfo is the header of a module-info class's Module attribute; its
// requires/exports/opens/uses/provides lists are walked via ModuleIterator.
type ModuleInfo struct {
	Name          string
	Access        access.Flags
	Version       string
	HasVersion    bool
	MainClass     string
	HasMainClass  bool
	Packages      []string
	Iterator      *ModuleIterator
}

// FieldEventKind discriminates the payload carried by a FieldEvent.
type FieldEventKind int

const (
	FieldHeader FieldEventKind = iota
	FieldConstantValue
	FieldSynthetic
	FieldDeprecated
	FieldSignature
	FieldAnnotations
	FieldTypeAnnotations
	FieldCustomAttributes
	FieldEnd
)

// FieldValue is a field's ConstantValue attribute payload.
type FieldValue struct {
	Tag         ConstantPoolTag
	IntValue    int32
	FloatValue  float32
	LongValue   int64
	DoubleValue float64
	StringValue string
}

// FieldEvent is one item in a field's event sequence.
type FieldEvent struct {
	Kind FieldEventKind

	Access access.Flags
	Name   string
	Desc   string

	ConstantValue FieldValue

	Signature string

	Annotations      []AnnotationEntry
	TypeAnnotations  []TypeAnnotationEntry
	CustomAttributes []UnknownAttribute
}

// RecordComponentEventKind discriminates the payload of a record
// component's events.
type RecordComponentEventKind int

const (
	RecordComponentHeader RecordComponentEventKind = iota
	RecordComponentSignature
	RecordComponentAnnotations
	RecordComponentTypeAnnotations
	RecordComponentCustomAttributes
	RecordComponentEnd
)

// RecordComponentEvent is one item in a record component's event sequence.
type RecordComponentEvent struct {
	Kind RecordComponentEventKind

	Access access.Flags
	Name   string
	Desc   string

	Signature string

	Annotations      []AnnotationEntry
	TypeAnnotations  []TypeAnnotationEntry
	CustomAttributes []UnknownAttribute
}

// ModuleRequireEntry is one `requires` directive.
type ModuleRequireEntry struct {
	Module  string
	Access  access.Flags
	Version string
	HasVersion bool
}

// ModuleRelationEntry is one `exports`/`opens` directive: a package plus an
// optional list of modules it is restricted to.
type ModuleRelationEntry struct {
	Package string
	Access  access.Flags
	To      []string
}

// ModuleProvidesEntry is one `provides ... with ...` directive.
type ModuleProvidesEntry struct {
	Service string
	With    []string
}

// ModuleEventKind discriminates the payload of a module subevent.
type ModuleEventKind int

const (
	ModuleRequire ModuleEventKind = iota
	ModuleExports
	ModuleOpens
	ModuleUses
	ModuleProvides
)

// ModuleEvent is one item in a module-info class's requires/exports/
// opens/uses/provides sequence, in declaration order.
type ModuleEvent struct {
	Kind ModuleEventKind

	Require  ModuleRequireEntry
	Relation ModuleRelationEntry
	Use      string
	Provides ModuleProvidesEntry
}

// FrameKind discriminates a stack map frame's encoding shape.
type FrameKind int

const (
	FrameFull FrameKind = iota
	FrameAppend
	FrameChop
	FrameSame
	FrameSame1
)

// FrameValue is one verification type in a stack map frame's locals or
// stack lists.
type FrameValue struct {
	Tag           byte // Top=0 Integer=1 Float=2 Double=3 Long=4 Null=5 UninitializedThis=6 Class=7 Uninitialized=8
	ClassName     string
	Uninitialized Label
}

// Frame is a decoded stack-map-frame entry, anchored to an instruction
// offset in the owning instruction metadata table. Locals/Stack hold
// exactly what the compressed encoding spelled out for this frame: Full
// carries both in full, Append carries only the newly-appended locals,
// Same/Same1 carry at most one stack value, and Chop carries neither —
// ChopCount names how many trailing locals the verifier would drop.
type Frame struct {
	Kind      FrameKind
	Locals    []FrameValue
	Stack     []FrameValue
	ChopCount int
}

// InstructionKind discriminates the operand shape of a decoded instruction.
type InstructionKind int

const (
	InsnPlain InstructionKind = iota
	InsnBipush
	InsnSipush
	InsnNewarray
	InsnVar
	InsnType
	InsnField
	InsnMethod
	InsnInvokeDynamic
	InsnJump
	InsnLdc
	InsnIinc
	InsnTableSwitch
	InsnLookupSwitch
	InsnMultiANewArray
)

// LdcConstant is the resolved constant an ldc/ldc_w/ldc2_w instruction
// loads, shaped by the pool entry's tag. For Tag == TagDynamic, Dynamic
// carries the raw name/descriptor/bootstrap-index and
// BootstrapMethodHandle/BootstrapMethodArguments carry the resolved
// bootstrap method, exactly as an invokedynamic Instruction does.
type LdcConstant struct {
	Tag                  ConstantPoolTag
	IntValue             int32
	FloatValue           float32
	LongValue            int64
	DoubleValue          float64
	StringValue          string
	ClassDescriptor      string
	MethodTypeDescriptor string
	Handle               Handle
	Dynamic              DynamicEntry

	BootstrapMethodHandle    Handle
	BootstrapMethodArguments []BootstrapArgument
}

// Instruction is a single decoded bytecode instruction. Only the fields
// relevant to Kind are populated.
type Instruction struct {
	Kind   InstructionKind
	Opcode opcodes.Opcode

	IntOperand   int32 // bipush/sipush
	VarIndex     int
	NewarrayType opcodes.NewarrayType

	TypeName string // new/anewarray/checkcast/instanceof

	Owner       string // field/method instructions
	Name        string
	Desc        string
	IsInterface bool

	BootstrapMethodHandle    Handle
	BootstrapMethodArguments []BootstrapArgument

	Jump Label

	Ldc LdcConstant

	IincIndex     int
	IincIncrement int

	TableSwitchLow     int32
	TableSwitchHigh    int32
	TableSwitchDefault Label
	TableSwitchLabels  []Label

	LookupSwitchDefault Label
	LookupSwitchKeys    []int32
	LookupSwitchLabels  []Label

	MultiANewArrayDesc       string
	MultiANewArrayDimensions byte
}

// MethodParameter is one entry of the MethodParameters attribute.
type MethodParameter struct {
	Name    string
	HasName bool
	Access  access.Flags
}

// LocalVariableEntry is one entry of the LocalVariableTable, optionally
// enriched by a matching LocalVariableTypeTable signature.
type LocalVariableEntry struct {
	Name         string
	Desc         string
	Signature    string
	HasSignature bool
	Start        Label
	End          Label
	Index        int
}

// LocalVarRange is one (start, end, index) triple a LocalVariableAnnotation
// attaches to.
type LocalVarRange struct {
	Start Label
	End   Label
	Index int
}

// LocalVariableAnnotationEntry is a type annotation targeting one or more
// local variable live ranges.
type LocalVariableAnnotationEntry struct {
	Visible        bool
	TypeAnnotation TypeAnnotation
	Ranges         []LocalVarRange
}

// TryCatchEntry is one entry of the Code attribute's exception table.
type TryCatchEntry struct {
	Start      Label
	End        Label
	Handler    Label
	CatchType  string
	HasCatchType bool
}

// TryCatchAnnotationEntry is a type annotation targeting one exception
// table entry by index.
type TryCatchAnnotationEntry struct {
	Visible        bool
	TypeAnnotation TypeAnnotation
	TryCatchIndex  int
}

// MethodEventKind discriminates the payload carried by a MethodEvent.
type MethodEventKind int

const (
	MethodHeader MethodEventKind = iota
	MethodDeprecated
	MethodParameters
	MethodAnnotationDefault
	MethodAnnotations
	MethodTypeAnnotations
	MethodAnnotableParameterCount
	MethodParameterAnnotations
	MethodCustomAttributes
	MethodCodeStart
	MethodFrame
	MethodInsn
	MethodLabel
	MethodLineNumber
	MethodLocalVariable
	MethodLocalVariableAnnotation
	MethodTryCatchBlock
	MethodTryCatchAnnotation
	MethodCodeCustomAttributes
	MethodMaxs
	MethodEnd
)

// MethodEvent is one item in a method's event sequence, including its full
// code pipeline. Only the fields relevant to Kind are populated.
type MethodEvent struct {
	Kind MethodEventKind

	// MethodHeader
	Access access.Flags
	Name   string
	Desc   string

	// MethodParameters
	Parameters []MethodParameter

	// MethodAnnotationDefault
	AnnotationDefault ElementValue

	// MethodAnnotations / MethodTypeAnnotations
	Annotations     []AnnotationEntry
	TypeAnnotations []TypeAnnotationEntry

	// MethodAnnotableParameterCount
	VisibleAnnotableParameterCount   int
	InvisibleAnnotableParameterCount int

	// MethodParameterAnnotations: index = parameter index
	ParameterAnnotations [][]AnnotationEntry
	ParameterAnnotationsVisible bool

	// MethodCustomAttributes / MethodCodeCustomAttributes
	CustomAttributes []UnknownAttribute

	// MethodCodeStart
	Labels    *LabelFactory
	MaxStack  int
	MaxLocals int

	// MethodFrame / MethodInsn / MethodLabel / MethodLineNumber: anchored at PC
	PC         int
	Frame      Frame
	Instruction Instruction
	LabelValue Label
	Line       int

	// MethodLocalVariable
	LocalVariable LocalVariableEntry

	// MethodLocalVariableAnnotation
	LocalVariableAnnotation LocalVariableAnnotationEntry

	// MethodTryCatchBlock
	TryCatch TryCatchEntry

	// MethodTryCatchAnnotation
	TryCatchAnnotation TryCatchAnnotationEntry

	// MethodMaxs is carried on MaxStack/MaxLocals above.
}
