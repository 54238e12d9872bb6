package classfile

import (
	"fmt"

	"github.com/Earthcomputer/classfile/opcodes"
)

// Kind distinguishes the taxonomy of errors this package returns, mirroring
// the structural/encoding/resource grouping of the underlying format's
// error conditions.
type Kind int

const (
	_ Kind = iota
	ErrBadMagic
	ErrUnsupportedVersion
	ErrOutOfBounds
	ErrCodeOffsetOutOfBounds
	ErrBadCodeSize
	ErrBadConstantPoolTag
	ErrBadConstantPoolIndex
	ErrBadConstantPoolIndexNoEntry
	ErrBadConstantPoolType
	ErrUTF8
	ErrBadHandleKind
	ErrBadOpcode
	ErrBadWideOpcode
	ErrBadNewArrayType
	ErrBadFrameType
	ErrBadFrameValueTag
	ErrBadAnnotationTag
	ErrBadTypeAnnotationTarget
	ErrTableSwitchBoundsWrongOrder
	ErrTooDeepAnnotationNesting
	ErrBootstrapMethodOutOfBounds
	ErrBootstrapMethodCircularDependency
)

// Error is the single error type returned from every decoding function in
// this package. Callers should switch on Kind rather than compare messages.
type Error struct {
	Kind Kind

	// Payload fields; which are populated depends on Kind.
	Index    int
	Len      int
	Major    uint16
	N        int
	Tag      byte
	Expected ConstantPoolTag
	Actual   ConstantPoolTag
	Opcode   opcodes.Opcode
	Low      int32
	High     int32
	Wrapped  error
}

func (e *Error) Unwrap() error { return e.Wrapped }

func (e *Error) Error() string {
	switch e.Kind {
	case ErrBadMagic:
		return "bad magic number"
	case ErrUnsupportedVersion:
		return fmt.Sprintf("unsupported class file version %d", e.Major)
	case ErrOutOfBounds:
		return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Len)
	case ErrCodeOffsetOutOfBounds:
		return fmt.Sprintf("code offset %d out of bounds for length %d", e.Index, e.Len)
	case ErrBadCodeSize:
		return fmt.Sprintf("bad code size %d", e.N)
	case ErrBadConstantPoolTag:
		return fmt.Sprintf("bad constant pool tag %d", e.Tag)
	case ErrBadConstantPoolIndex:
		return fmt.Sprintf("constant pool index %d out of bounds for length %d", e.Index, e.Len)
	case ErrBadConstantPoolIndexNoEntry:
		return fmt.Sprintf("constant pool index %d has no entry", e.Index)
	case ErrBadConstantPoolType:
		return fmt.Sprintf("expected constant pool tag %v, got %v", e.Expected, e.Actual)
	case ErrUTF8:
		return fmt.Sprintf("invalid modified utf-8: %v", e.Wrapped)
	case ErrBadHandleKind:
		return fmt.Sprintf("bad method handle kind %d", e.Tag)
	case ErrBadOpcode:
		return fmt.Sprintf("bad opcode %d", e.Tag)
	case ErrBadWideOpcode:
		return fmt.Sprintf("opcode %v cannot be widened", e.Opcode)
	case ErrBadNewArrayType:
		return fmt.Sprintf("bad newarray type %d", e.Tag)
	case ErrBadFrameType:
		return fmt.Sprintf("bad stack map frame type %d", e.Tag)
	case ErrBadFrameValueTag:
		return fmt.Sprintf("bad stack map frame value tag %d", e.Tag)
	case ErrBadAnnotationTag:
		return fmt.Sprintf("bad annotation element tag %d", e.Tag)
	case ErrBadTypeAnnotationTarget:
		return fmt.Sprintf("bad type annotation target type %d", e.Tag)
	case ErrTableSwitchBoundsWrongOrder:
		return fmt.Sprintf("tableswitch low %d is greater than high %d", e.Low, e.High)
	case ErrTooDeepAnnotationNesting:
		return "annotation value nested too deeply"
	case ErrBootstrapMethodOutOfBounds:
		return fmt.Sprintf("bootstrap method index %d out of bounds for length %d", e.Index, e.Len)
	case ErrBootstrapMethodCircularDependency:
		return "circular bootstrap method dependency"
	default:
		return "unknown classfile error"
	}
}

func errOutOfBounds(index, length int) error {
	return &Error{Kind: ErrOutOfBounds, Index: index, Len: length}
}

func errBadConstantPoolType(expected, actual ConstantPoolTag) error {
	return &Error{Kind: ErrBadConstantPoolType, Expected: expected, Actual: actual}
}
