package classfile

// TypeReferenceKind is the target_type byte of a type annotation, selecting
// which kind of type use is annotated and therefore which further fields
// follow it.
type TypeReferenceKind byte

const (
	ClassTypeParameter               TypeReferenceKind = 0x00
	MethodTypeParameter              TypeReferenceKind = 0x01
	ClassExtends                     TypeReferenceKind = 0x10
	ClassTypeParameterBound          TypeReferenceKind = 0x11
	MethodTypeParameterBound         TypeReferenceKind = 0x12
	Field                            TypeReferenceKind = 0x13
	MethodReturn                     TypeReferenceKind = 0x14
	MethodReceiver                   TypeReferenceKind = 0x15
	MethodFormalParameter            TypeReferenceKind = 0x16
	Throws                           TypeReferenceKind = 0x17
	LocalVariable                    TypeReferenceKind = 0x40
	ResourceVariable                 TypeReferenceKind = 0x41
	ExceptionParameter               TypeReferenceKind = 0x42
	Instanceof                       TypeReferenceKind = 0x43
	New                              TypeReferenceKind = 0x44
	ConstructorReference             TypeReferenceKind = 0x45
	MethodReference                  TypeReferenceKind = 0x46
	Cast                             TypeReferenceKind = 0x47
	ConstructorInvocationTypeArgument TypeReferenceKind = 0x48
	MethodInvocationTypeArgument     TypeReferenceKind = 0x49
	ConstructorReferenceTypeArgument TypeReferenceKind = 0x4A
	MethodReferenceTypeArgument     TypeReferenceKind = 0x4B
)

// TypeReference describes the target of a type annotation. Only the fields
// relevant to Kind are populated. ExceptionParameter deliberately carries no
// payload here: its exception-table index lives on the code location that
// the annotation attaches to, not on the reference itself, matching the
// later-draft shape where the discriminant is kindless and the index is
// tracked by the caller's code-location bookkeeping.
type TypeReference struct {
	Kind TypeReferenceKind

	TypeParameterIndex byte // ClassTypeParameter, MethodTypeParameter, *Bound
	BoundIndex         byte // ClassTypeParameterBound, MethodTypeParameterBound

	// InterfaceIndex is set when Kind == ClassExtends and the reference
	// names an implemented interface rather than the superclass.
	InterfaceIndex   uint16
	IsSuperclass     bool // ClassExtends: true when the reference is to the superclass, not an interface
	FormalParameterIndex byte   // MethodFormalParameter
	ThrowsIndex          uint16 // Throws

	TypeArgumentIndex byte // Cast and the four *TypeArgument kinds
}

// codeLocationKind discriminates where, within a method's code, a
// code-level type annotation attaches.
type codeLocationKind byte

const (
	codeLocationNone codeLocationKind = iota
	codeLocationPC
	codeLocationLocalVarRanges
	codeLocationTryCatchIndex
)

// rawLocalVarRange is a (start_pc, length, index) triple as read from the
// class file, before start/end labels have been minted.
type rawLocalVarRange struct {
	StartPC int
	Length  int
	Index   int
}

// codeLocation is where a code-level type annotation attaches: a single
// instruction offset, a set of local variable live ranges, or a try-catch
// block index (for ExceptionParameter, per the Open Question resolution
// above).
type codeLocation struct {
	Kind          codeLocationKind
	PC            int
	Ranges        []rawLocalVarRange
	TryCatchIndex int
}

// readTypeReference reads the target_type byte and its target-specific
// fields, returning the resolved reference plus the raw (unlabeled) code
// location, if the kind is one that uses code offsets.
func readTypeReference(cursor byteCursor, offset int) (TypeReference, codeLocation, int, error) {
	targetType, err := cursor.u8(offset)
	if err != nil {
		return TypeReference{}, codeLocation{}, 0, err
	}
	kind := TypeReferenceKind(targetType)
	pos := offset + 1

	ref := TypeReference{Kind: kind}
	loc := codeLocation{}

	switch kind {
	case ClassTypeParameter, MethodTypeParameter:
		v, err := cursor.u8(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		ref.TypeParameterIndex = v
		pos++
	case ClassExtends:
		v, err := cursor.u16(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		if v == 0xFFFF {
			ref.IsSuperclass = true
		} else {
			ref.InterfaceIndex = v
		}
		pos += 2
	case ClassTypeParameterBound, MethodTypeParameterBound:
		tpi, err := cursor.u8(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		bi, err := cursor.u8(pos + 1)
		if err != nil {
			return ref, loc, 0, err
		}
		ref.TypeParameterIndex = tpi
		ref.BoundIndex = bi
		pos += 2
	case Field, MethodReturn, MethodReceiver:
		// no further fields
	case MethodFormalParameter:
		v, err := cursor.u8(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		ref.FormalParameterIndex = v
		pos++
	case Throws:
		v, err := cursor.u16(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		ref.ThrowsIndex = v
		pos += 2
	case LocalVariable, ResourceVariable:
		count, err := cursor.u16(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		pos += 2
		ranges := make([]rawLocalVarRange, count)
		for i := 0; i < int(count); i++ {
			startPC, err := cursor.u16(pos)
			if err != nil {
				return ref, loc, 0, err
			}
			length, err := cursor.u16(pos + 2)
			if err != nil {
				return ref, loc, 0, err
			}
			index, err := cursor.u16(pos + 4)
			if err != nil {
				return ref, loc, 0, err
			}
			ranges[i] = rawLocalVarRange{StartPC: int(startPC), Length: int(length), Index: int(index)}
			pos += 6
		}
		loc = codeLocation{Kind: codeLocationLocalVarRanges, Ranges: ranges}
	case ExceptionParameter:
		v, err := cursor.u16(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		loc = codeLocation{Kind: codeLocationTryCatchIndex, TryCatchIndex: int(v)}
		pos += 2
	case Instanceof, New, ConstructorReference, MethodReference:
		v, err := cursor.u16(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		loc = codeLocation{Kind: codeLocationPC, PC: int(v)}
		pos += 2
	case Cast, ConstructorInvocationTypeArgument, MethodInvocationTypeArgument,
		ConstructorReferenceTypeArgument, MethodReferenceTypeArgument:
		v, err := cursor.u16(pos)
		if err != nil {
			return ref, loc, 0, err
		}
		tai, err := cursor.u8(pos + 2)
		if err != nil {
			return ref, loc, 0, err
		}
		ref.TypeArgumentIndex = tai
		loc = codeLocation{Kind: codeLocationPC, PC: int(v)}
		pos += 3
	default:
		return ref, loc, 0, &Error{Kind: ErrBadTypeAnnotationTarget, Tag: targetType}
	}

	return ref, loc, pos, nil
}
