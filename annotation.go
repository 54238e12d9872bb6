package classfile

// maxAnnotationDepth bounds recursion through nested annotations and
// annotation arrays; exceeding it fails with TooDeepAnnotationNesting
// rather than overflowing the Go call stack on adversarial input.
const maxAnnotationDepth = 128

// ElementValue is one value in an annotation's (name, value) list. It is a
// recursive tree: Tag selects which of the other fields holds the payload.
type ElementValue struct {
	Tag byte

	IntValue        int64
	FloatValue      float32
	DoubleValue     float64
	StringValue     string
	EnumType        string
	EnumConst       string
	ClassDescriptor string
	Annotation      *Annotation
	Array           []ElementValue
}

// ElementValuePair is one (name, value) entry of an annotation.
type ElementValuePair struct {
	Name  string
	Value ElementValue
}

// Annotation is a single `@Descriptor(name=value, ...)` use.
type Annotation struct {
	Descriptor string
	Values     []ElementValuePair
}

// TypeAnnotation is an Annotation additionally targeted at a specific use
// of a type, via a TypeReference and a TypePath walk into that type.
type TypeAnnotation struct {
	Target     TypeReference
	Path       TypePath
	Annotation Annotation
}

func readAnnotation(cursor byteCursor, cp *ConstantPool, offset int, depth int) (Annotation, int, error) {
	if depth > maxAnnotationDepth {
		return Annotation{}, 0, &Error{Kind: ErrTooDeepAnnotationNesting}
	}

	descIndex, err := cursor.u16(offset)
	if err != nil {
		return Annotation{}, 0, err
	}
	descriptor, err := cp.Utf8(descIndex)
	if err != nil {
		return Annotation{}, 0, err
	}
	pairCount, err := cursor.u16(offset + 2)
	if err != nil {
		return Annotation{}, 0, err
	}

	pos := offset + 4
	pairs := make([]ElementValuePair, pairCount)
	for i := 0; i < int(pairCount); i++ {
		nameIndex, err := cursor.u16(pos)
		if err != nil {
			return Annotation{}, 0, err
		}
		name, err := cp.Utf8(nameIndex)
		if err != nil {
			return Annotation{}, 0, err
		}
		value, next, err := readElementValue(cursor, cp, pos+2, depth+1)
		if err != nil {
			return Annotation{}, 0, err
		}
		pairs[i] = ElementValuePair{Name: name, Value: value}
		pos = next
	}

	return Annotation{Descriptor: descriptor, Values: pairs}, pos, nil
}

func readElementValue(cursor byteCursor, cp *ConstantPool, offset int, depth int) (ElementValue, int, error) {
	if depth > maxAnnotationDepth {
		return ElementValue{}, 0, &Error{Kind: ErrTooDeepAnnotationNesting}
	}

	tag, err := cursor.u8(offset)
	if err != nil {
		return ElementValue{}, 0, err
	}
	pos := offset + 1

	switch tag {
	case 'B', 'C', 'I', 'S', 'Z':
		index, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		v, err := cp.Integer(index)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, IntValue: int64(v)}, pos + 2, nil
	case 'J':
		index, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		v, err := cp.Long(index)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, IntValue: v}, pos + 2, nil
	case 'F':
		index, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		v, err := cp.Float(index)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, FloatValue: v}, pos + 2, nil
	case 'D':
		index, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		v, err := cp.Double(index)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, DoubleValue: v}, pos + 2, nil
	case 's':
		index, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		v, err := cp.Utf8(index)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, StringValue: v}, pos + 2, nil
	case 'e':
		typeIndex, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		constIndex, err := cursor.u16(pos + 2)
		if err != nil {
			return ElementValue{}, 0, err
		}
		enumType, err := cp.Utf8(typeIndex)
		if err != nil {
			return ElementValue{}, 0, err
		}
		enumConst, err := cp.Utf8(constIndex)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, EnumType: enumType, EnumConst: enumConst}, pos + 4, nil
	case 'c':
		index, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		v, err := cp.Utf8(index)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, ClassDescriptor: v}, pos + 2, nil
	case '@':
		nested, next, err := readAnnotation(cursor, cp, pos, depth+1)
		if err != nil {
			return ElementValue{}, 0, err
		}
		return ElementValue{Tag: tag, Annotation: &nested}, next, nil
	case '[':
		count, err := cursor.u16(pos)
		if err != nil {
			return ElementValue{}, 0, err
		}
		pos += 2
		values := make([]ElementValue, count)
		for i := 0; i < int(count); i++ {
			v, next, err := readElementValue(cursor, cp, pos, depth+1)
			if err != nil {
				return ElementValue{}, 0, err
			}
			values[i] = v
			pos = next
		}
		return ElementValue{Tag: tag, Array: values}, pos, nil
	default:
		return ElementValue{}, 0, &Error{Kind: ErrBadAnnotationTag, Tag: tag}
	}
}

// readAnnotationList reads a RuntimeVisible/InvisibleAnnotations attribute
// payload: a u16 count followed by that many annotations.
func readAnnotationList(cursor byteCursor, cp *ConstantPool, offset int) ([]Annotation, error) {
	count, err := cursor.u16(offset)
	if err != nil {
		return nil, err
	}
	anns := make([]Annotation, count)
	pos := offset + 2
	for i := range anns {
		a, next, err := readAnnotation(cursor, cp, pos, 0)
		if err != nil {
			return nil, err
		}
		anns[i] = a
		pos = next
	}
	return anns, nil
}

// readTypeAnnotationList reads a RuntimeVisible/InvisibleTypeAnnotations
// attribute payload, returning each annotation alongside its (possibly
// empty) raw code location.
func readTypeAnnotationList(cursor byteCursor, cp *ConstantPool, offset int) ([]TypeAnnotation, []codeLocation, error) {
	count, err := cursor.u16(offset)
	if err != nil {
		return nil, nil, err
	}
	anns := make([]TypeAnnotation, count)
	locs := make([]codeLocation, count)
	pos := offset + 2
	for i := range anns {
		a, loc, next, err := readTypeAnnotation(cursor, cp, pos)
		if err != nil {
			return nil, nil, err
		}
		anns[i] = a
		locs[i] = loc
		pos = next
	}
	return anns, locs, nil
}

// readTypeAnnotation reads one RuntimeVisible/InvisibleTypeAnnotations
// entry: a target reference, a type path, and a regular annotation body.
func readTypeAnnotation(cursor byteCursor, cp *ConstantPool, offset int) (TypeAnnotation, codeLocation, int, error) {
	ref, loc, pos, err := readTypeReference(cursor, offset)
	if err != nil {
		return TypeAnnotation{}, codeLocation{}, 0, err
	}
	path, pos, err := readTypePath(cursor, pos)
	if err != nil {
		return TypeAnnotation{}, codeLocation{}, 0, err
	}
	ann, pos, err := readAnnotation(cursor, cp, pos, 0)
	if err != nil {
		return TypeAnnotation{}, codeLocation{}, 0, err
	}
	return TypeAnnotation{Target: ref, Path: path, Annotation: ann}, loc, pos, nil
}
