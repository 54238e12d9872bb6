package classfile

import "github.com/Earthcomputer/classfile/access"

var recognizedMethodAttributes = map[string]bool{
	"AnnotationDefault": true, "Code": true, "Deprecated": true, "Exceptions": true,
	"MethodParameters": true, "Signature": true, "Synthetic": true,
	"RuntimeVisibleAnnotations": true, "RuntimeInvisibleAnnotations": true,
	"RuntimeVisibleTypeAnnotations": true, "RuntimeInvisibleTypeAnnotations": true,
	"RuntimeVisibleParameterAnnotations": true, "RuntimeInvisibleParameterAnnotations": true,
}

func (r *Reader) methodSkipSet() map[string]bool {
	skip := map[string]bool{}
	if r.flags&SkipDebug != 0 {
		skip["MethodParameters"] = true
	}
	if r.flags&SkipCode != 0 {
		skip["Code"] = true
	}
	return skip
}

const (
	methodStateLoad = iota
	methodStateHeader
	methodStateDeprecated
	methodStateParameters
	methodStateAnnotationDefault
	methodStateAnnotations
	methodStateTypeAnnotations
	methodStateAnnotableParameterCount
	methodStateParameterAnnotations
	methodStateCustomAttributes
	methodStateCodeStart
	methodStateCodeBody
	methodStateEnd
)

// MethodIterator walks a class's method list, emitting each method's own
// event sequence — including, when present and not skipped, the full code
// pipeline — before moving to the next method record.
type MethodIterator struct {
	reader    *Reader
	remaining uint16
	pos       int
	subState  int

	access access.Flags
	name   string
	desc   string
	idx    *attributeIndex

	pending    []MethodEvent
	pendingIdx int

	invisibleParamAnnotationsPending bool
}

func newMethodIterator(r *Reader) *MethodIterator {
	return &MethodIterator{reader: r, remaining: r.methodsCount, pos: r.methodsOffset, subState: methodStateLoad}
}

// Next returns the next method-level event, or ok=false once every method
// has been fully emitted.
func (it *MethodIterator) Next() (MethodEvent, bool, error) {
	r := it.reader
	cursor, cp := r.cursor, r.cp

	for {
		switch it.subState {
		case methodStateLoad:
			if it.remaining == 0 {
				return MethodEvent{}, false, nil
			}
			accessFlags, err := cursor.u16(it.pos)
			if err != nil {
				return MethodEvent{}, false, err
			}
			nameIndex, err := cursor.u16(it.pos + 2)
			if err != nil {
				return MethodEvent{}, false, err
			}
			descIndex, err := cursor.u16(it.pos + 4)
			if err != nil {
				return MethodEvent{}, false, err
			}
			attrCount, err := cursor.u16(it.pos + 6)
			if err != nil {
				return MethodEvent{}, false, err
			}
			name, err := cp.Utf8(nameIndex)
			if err != nil {
				return MethodEvent{}, false, err
			}
			desc, err := cp.Utf8(descIndex)
			if err != nil {
				return MethodEvent{}, false, err
			}
			idx, err := scanAttributes(cursor, cp, it.pos+8, attrCount, recognizedMethodAttributes, r.methodSkipSet())
			if err != nil {
				return MethodEvent{}, false, err
			}

			it.access, it.name, it.desc, it.idx = access.Flags(accessFlags), name, desc, idx
			it.pos = idx.end
			it.remaining--
			it.subState = methodStateHeader

		case methodStateHeader:
			it.subState = methodStateDeprecated
			return MethodEvent{Kind: MethodHeader, Access: it.access, Name: it.name, Desc: it.desc}, true, nil

		case methodStateDeprecated:
			it.subState = methodStateParameters
			if _, ok := it.idx.slot("Deprecated"); ok {
				return MethodEvent{Kind: MethodDeprecated}, true, nil
			}

		case methodStateParameters:
			it.subState = methodStateAnnotationDefault
			if slot, ok := it.idx.slot("MethodParameters"); ok {
				count, err := cursor.u8(slot.offset)
				if err != nil {
					return MethodEvent{}, false, err
				}
				params := make([]MethodParameter, count)
				pos := slot.offset + 1
				for i := 0; i < int(count); i++ {
					nameIndex, err := cursor.u16(pos)
					if err != nil {
						return MethodEvent{}, false, err
					}
					flags, err := cursor.u16(pos + 2)
					if err != nil {
						return MethodEvent{}, false, err
					}
					p := MethodParameter{Access: access.Flags(flags)}
					if nameIndex != 0 {
						p.Name, err = cp.Utf8(nameIndex)
						if err != nil {
							return MethodEvent{}, false, err
						}
						p.HasName = true
					}
					params[i] = p
					pos += 4
				}
				return MethodEvent{Kind: MethodParameters, Parameters: params}, true, nil
			}

		case methodStateAnnotationDefault:
			it.subState = methodStateAnnotations
			if slot, ok := it.idx.slot("AnnotationDefault"); ok {
				v, _, err := readElementValue(cursor, cp, slot.offset, 0)
				if err != nil {
					return MethodEvent{}, false, err
				}
				return MethodEvent{Kind: MethodAnnotationDefault, AnnotationDefault: v}, true, nil
			}

		case methodStateAnnotations:
			it.subState = methodStateTypeAnnotations
			anns, err := combinedAnnotations(cursor, cp, it.idx)
			if err != nil {
				return MethodEvent{}, false, err
			}
			if len(anns) > 0 {
				return MethodEvent{Kind: MethodAnnotations, Annotations: anns}, true, nil
			}

		case methodStateTypeAnnotations:
			it.subState = methodStateAnnotableParameterCount
			anns, _, err := combinedTypeAnnotations(cursor, cp, it.idx)
			if err != nil {
				return MethodEvent{}, false, err
			}
			if len(anns) > 0 {
				return MethodEvent{Kind: MethodTypeAnnotations, TypeAnnotations: anns}, true, nil
			}

		case methodStateAnnotableParameterCount:
			it.subState = methodStateParameterAnnotations
			visSlot, hasVis := it.idx.slot("RuntimeVisibleParameterAnnotations")
			invisSlot, hasInvis := it.idx.slot("RuntimeInvisibleParameterAnnotations")
			if !hasVis && !hasInvis {
				continue
			}
			ev := MethodEvent{Kind: MethodAnnotableParameterCount}
			if hasVis {
				n, err := cursor.u8(visSlot.offset)
				if err != nil {
					return MethodEvent{}, false, err
				}
				ev.VisibleAnnotableParameterCount = int(n)
			}
			if hasInvis {
				n, err := cursor.u8(invisSlot.offset)
				if err != nil {
					return MethodEvent{}, false, err
				}
				ev.InvisibleAnnotableParameterCount = int(n)
			}
			return ev, true, nil

		case methodStateParameterAnnotations:
			_, hasInvis := it.idx.slot("RuntimeInvisibleParameterAnnotations")
			if visSlot, ok := it.idx.slot("RuntimeVisibleParameterAnnotations"); ok {
				it.invisibleParamAnnotationsPending = hasInvis
				it.subState = methodStateCustomAttributes
				params, err := readPerParameterAnnotations(cursor, cp, visSlot.offset, true)
				if err != nil {
					return MethodEvent{}, false, err
				}
				return MethodEvent{Kind: MethodParameterAnnotations, ParameterAnnotations: params, ParameterAnnotationsVisible: true}, true, nil
			}
			it.subState = methodStateCustomAttributes
			if invisSlot, ok := it.idx.slot("RuntimeInvisibleParameterAnnotations"); ok {
				params, err := readPerParameterAnnotations(cursor, cp, invisSlot.offset, false)
				if err != nil {
					return MethodEvent{}, false, err
				}
				return MethodEvent{Kind: MethodParameterAnnotations, ParameterAnnotations: params, ParameterAnnotationsVisible: false}, true, nil
			}

		case methodStateCustomAttributes:
			if it.invisibleParamAnnotationsPending {
				it.invisibleParamAnnotationsPending = false
				if invisSlot, ok := it.idx.slot("RuntimeInvisibleParameterAnnotations"); ok {
					params, err := readPerParameterAnnotations(cursor, cp, invisSlot.offset, false)
					if err != nil {
						return MethodEvent{}, false, err
					}
					return MethodEvent{Kind: MethodParameterAnnotations, ParameterAnnotations: params, ParameterAnnotationsVisible: false}, true, nil
				}
			}

			it.subState = methodStateCodeStart
			attrs, err := it.idx.unknownAttributes(cursor)
			if err != nil {
				return MethodEvent{}, false, err
			}
			if len(attrs) > 0 {
				return MethodEvent{Kind: MethodCustomAttributes, CustomAttributes: attrs}, true, nil
			}

		case methodStateCodeStart:
			slot, ok := it.idx.slot("Code")
			if !ok {
				it.subState = methodStateEnd
				continue
			}
			events, err := buildCodeEvents(r, slot.offset)
			if err != nil {
				return MethodEvent{}, false, err
			}
			it.pending = events
			it.pendingIdx = 0
			it.subState = methodStateCodeBody
			continue

		case methodStateCodeBody:
			if it.pendingIdx < len(it.pending) {
				ev := it.pending[it.pendingIdx]
				it.pendingIdx++
				return ev, true, nil
			}
			it.pending = nil
			it.subState = methodStateEnd

		case methodStateEnd:
			it.subState = methodStateLoad
			return MethodEvent{Kind: MethodEnd}, true, nil
		}
	}
}

func readPerParameterAnnotations(cursor byteCursor, cp *ConstantPool, offset int, visible bool) ([][]AnnotationEntry, error) {
	count, err := cursor.u8(offset)
	if err != nil {
		return nil, err
	}
	out := make([][]AnnotationEntry, count)
	pos := offset + 1
	for i := 0; i < int(count); i++ {
		annCount, err := cursor.u16(pos)
		if err != nil {
			return nil, err
		}
		entries := make([]AnnotationEntry, annCount)
		p := pos + 2
		for j := 0; j < int(annCount); j++ {
			a, next, err := readAnnotation(cursor, cp, p, 0)
			if err != nil {
				return nil, err
			}
			entries[j] = AnnotationEntry{Visible: visible, Annotation: a}
			p = next
		}
		out[i] = entries
		pos = p
	}
	return out, nil
}
