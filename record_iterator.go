package classfile

import "github.com/Earthcomputer/classfile/access"

var recognizedRecordComponentAttributes = map[string]bool{
	"Signature": true,
	"RuntimeVisibleAnnotations": true, "RuntimeInvisibleAnnotations": true,
	"RuntimeVisibleTypeAnnotations": true, "RuntimeInvisibleTypeAnnotations": true,
}

const (
	recordStateLoad = iota
	recordStateHeader
	recordStateSignature
	recordStateAnnotations
	recordStateTypeAnnotations
	recordStateCustomAttributes
	recordStateEnd
)

// RecordComponentIterator walks a class's Record attribute, emitting each
// component's own event sequence before moving to the next.
type RecordComponentIterator struct {
	reader    *Reader
	remaining uint16
	pos       int
	subState  int

	access access.Flags
	name   string
	desc   string
	idx    *attributeIndex
}

func newRecordComponentIterator(r *Reader, payloadOffset int) *RecordComponentIterator {
	count, _ := r.cursor.u16(payloadOffset)
	return &RecordComponentIterator{reader: r, remaining: count, pos: payloadOffset + 2, subState: recordStateLoad}
}

// Next returns the next record-component-level event, or ok=false once
// every component has been fully emitted.
func (it *RecordComponentIterator) Next() (RecordComponentEvent, bool, error) {
	r := it.reader
	cursor, cp := r.cursor, r.cp

	for {
		switch it.subState {
		case recordStateLoad:
			if it.remaining == 0 {
				return RecordComponentEvent{}, false, nil
			}
			accessFlags, err := cursor.u16(it.pos)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			nameIndex, err := cursor.u16(it.pos + 2)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			descIndex, err := cursor.u16(it.pos + 4)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			attrCount, err := cursor.u16(it.pos + 6)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			name, err := cp.Utf8(nameIndex)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			desc, err := cp.Utf8(descIndex)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			idx, err := scanAttributes(cursor, cp, it.pos+8, attrCount, recognizedRecordComponentAttributes, nil)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			it.access, it.name, it.desc, it.idx = access.Flags(accessFlags), name, desc, idx
			it.pos = idx.end
			it.remaining--
			it.subState = recordStateHeader

		case recordStateHeader:
			it.subState = recordStateSignature
			return RecordComponentEvent{Kind: RecordComponentHeader, Access: it.access, Name: it.name, Desc: it.desc}, true, nil

		case recordStateSignature:
			it.subState = recordStateAnnotations
			if slot, ok := it.idx.slot("Signature"); ok {
				sigIndex, err := cursor.u16(slot.offset)
				if err != nil {
					return RecordComponentEvent{}, false, err
				}
				sig, err := cp.Utf8(sigIndex)
				if err != nil {
					return RecordComponentEvent{}, false, err
				}
				return RecordComponentEvent{Kind: RecordComponentSignature, Signature: sig}, true, nil
			}

		case recordStateAnnotations:
			it.subState = recordStateTypeAnnotations
			anns, err := combinedAnnotations(cursor, cp, it.idx)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			if len(anns) > 0 {
				return RecordComponentEvent{Kind: RecordComponentAnnotations, Annotations: anns}, true, nil
			}

		case recordStateTypeAnnotations:
			it.subState = recordStateCustomAttributes
			anns, _, err := combinedTypeAnnotations(cursor, cp, it.idx)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			if len(anns) > 0 {
				return RecordComponentEvent{Kind: RecordComponentTypeAnnotations, TypeAnnotations: anns}, true, nil
			}

		case recordStateCustomAttributes:
			it.subState = recordStateEnd
			attrs, err := it.idx.unknownAttributes(cursor)
			if err != nil {
				return RecordComponentEvent{}, false, err
			}
			if len(attrs) > 0 {
				return RecordComponentEvent{Kind: RecordComponentCustomAttributes, CustomAttributes: attrs}, true, nil
			}

		case recordStateEnd:
			it.subState = recordStateLoad
			return RecordComponentEvent{Kind: RecordComponentEnd}, true, nil
		}
	}
}
