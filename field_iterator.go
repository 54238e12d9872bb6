package classfile

import "github.com/Earthcomputer/classfile/access"

var recognizedFieldAttributes = map[string]bool{
	"ConstantValue": true, "Deprecated": true, "Signature": true, "Synthetic": true,
	"RuntimeVisibleAnnotations": true, "RuntimeInvisibleAnnotations": true,
	"RuntimeVisibleTypeAnnotations": true, "RuntimeInvisibleTypeAnnotations": true,
}

const (
	fieldStateLoad = iota
	fieldStateHeader
	fieldStateConstantValue
	fieldStateSynthetic
	fieldStateDeprecated
	fieldStateSignature
	fieldStateAnnotations
	fieldStateTypeAnnotations
	fieldStateCustomAttributes
	fieldStateEnd
)

// FieldIterator walks a class's field list, emitting each field's own
// event sequence before moving to the next field record.
type FieldIterator struct {
	reader    *Reader
	remaining uint16
	pos       int
	subState  int

	access access.Flags
	name   string
	desc   string
	idx    *attributeIndex
}

func newFieldIterator(r *Reader) *FieldIterator {
	return &FieldIterator{reader: r, remaining: r.fieldsCount, pos: r.fieldsOffset, subState: fieldStateLoad}
}

func fieldConstantValueTag(desc string) ConstantPoolTag {
	if len(desc) == 0 {
		return 0
	}
	switch desc[0] {
	case 'J':
		return TagLong
	case 'F':
		return TagFloat
	case 'D':
		return TagDouble
	case 'L':
		return TagString
	default: // I C S B Z
		return TagInteger
	}
}

// Next returns the next field-level event, or ok=false once every field
// has been fully emitted.
func (it *FieldIterator) Next() (FieldEvent, bool, error) {
	r := it.reader
	cursor, cp := r.cursor, r.cp

	for {
		switch it.subState {
		case fieldStateLoad:
			if it.remaining == 0 {
				return FieldEvent{}, false, nil
			}
			accessFlags, err := cursor.u16(it.pos)
			if err != nil {
				return FieldEvent{}, false, err
			}
			nameIndex, err := cursor.u16(it.pos + 2)
			if err != nil {
				return FieldEvent{}, false, err
			}
			descIndex, err := cursor.u16(it.pos + 4)
			if err != nil {
				return FieldEvent{}, false, err
			}
			attrCount, err := cursor.u16(it.pos + 6)
			if err != nil {
				return FieldEvent{}, false, err
			}
			name, err := cp.Utf8(nameIndex)
			if err != nil {
				return FieldEvent{}, false, err
			}
			desc, err := cp.Utf8(descIndex)
			if err != nil {
				return FieldEvent{}, false, err
			}
			idx, err := scanAttributes(cursor, cp, it.pos+8, attrCount, recognizedFieldAttributes, nil)
			if err != nil {
				return FieldEvent{}, false, err
			}

			it.access, it.name, it.desc, it.idx = access.Flags(accessFlags), name, desc, idx
			it.pos = idx.end
			it.remaining--
			it.subState = fieldStateHeader

		case fieldStateHeader:
			it.subState = fieldStateConstantValue
			return FieldEvent{Kind: FieldHeader, Access: it.access, Name: it.name, Desc: it.desc}, true, nil

		case fieldStateConstantValue:
			it.subState = fieldStateSynthetic
			if slot, ok := it.idx.slot("ConstantValue"); ok {
				index, err := cursor.u16(slot.offset)
				if err != nil {
					return FieldEvent{}, false, err
				}
				value, err := decodeFieldConstant(cp, index, it.desc)
				if err != nil {
					return FieldEvent{}, false, err
				}
				return FieldEvent{Kind: FieldConstantValue, ConstantValue: value}, true, nil
			}

		case fieldStateSynthetic:
			it.subState = fieldStateDeprecated
			_, syntheticAttr := it.idx.slot("Synthetic")
			if it.access.Any(access.Synthetic) || syntheticAttr {
				return FieldEvent{Kind: FieldSynthetic}, true, nil
			}

		case fieldStateDeprecated:
			it.subState = fieldStateSignature
			if _, ok := it.idx.slot("Deprecated"); ok {
				return FieldEvent{Kind: FieldDeprecated}, true, nil
			}

		case fieldStateSignature:
			it.subState = fieldStateAnnotations
			if slot, ok := it.idx.slot("Signature"); ok {
				sigIndex, err := cursor.u16(slot.offset)
				if err != nil {
					return FieldEvent{}, false, err
				}
				sig, err := cp.Utf8(sigIndex)
				if err != nil {
					return FieldEvent{}, false, err
				}
				return FieldEvent{Kind: FieldSignature, Signature: sig}, true, nil
			}

		case fieldStateAnnotations:
			it.subState = fieldStateTypeAnnotations
			anns, err := combinedAnnotations(cursor, cp, it.idx)
			if err != nil {
				return FieldEvent{}, false, err
			}
			if len(anns) > 0 {
				return FieldEvent{Kind: FieldAnnotations, Annotations: anns}, true, nil
			}

		case fieldStateTypeAnnotations:
			it.subState = fieldStateCustomAttributes
			anns, _, err := combinedTypeAnnotations(cursor, cp, it.idx)
			if err != nil {
				return FieldEvent{}, false, err
			}
			if len(anns) > 0 {
				return FieldEvent{Kind: FieldTypeAnnotations, TypeAnnotations: anns}, true, nil
			}

		case fieldStateCustomAttributes:
			it.subState = fieldStateEnd
			attrs, err := it.idx.unknownAttributes(cursor)
			if err != nil {
				return FieldEvent{}, false, err
			}
			if len(attrs) > 0 {
				return FieldEvent{Kind: FieldCustomAttributes, CustomAttributes: attrs}, true, nil
			}

		case fieldStateEnd:
			it.subState = fieldStateLoad
			return FieldEvent{Kind: FieldEnd}, true, nil
		}
	}
}

func decodeFieldConstant(cp *ConstantPool, index uint16, desc string) (FieldValue, error) {
	tag := fieldConstantValueTag(desc)
	switch tag {
	case TagLong:
		v, err := cp.Long(index)
		return FieldValue{Tag: tag, LongValue: v}, err
	case TagFloat:
		v, err := cp.Float(index)
		return FieldValue{Tag: tag, FloatValue: v}, err
	case TagDouble:
		v, err := cp.Double(index)
		return FieldValue{Tag: tag, DoubleValue: v}, err
	case TagString:
		v, err := cp.String(index)
		return FieldValue{Tag: tag, StringValue: v}, err
	default:
		v, err := cp.Integer(index)
		return FieldValue{Tag: tag, IntValue: v}, err
	}
}
