package classfile

// attrSlot records where a single recognized attribute's payload begins
// and how long it is, once found during a scope's attribute scan.
type attrSlot struct {
	present bool
	offset  int
	length  int
}

// customAttribute is the 6-byte-back base offset of one attribute this
// library does not itself recognize; it is surfaced as an UnknownAttribute
// on demand (registered attribute readers are not consulted).
type customAttribute struct {
	name   string
	offset int
	length int
}

// attributeIndex is the result of one scope's attribute scan: known names
// resolved to attrSlots, everything else collected as custom attributes.
type attributeIndex struct {
	slots  map[string]attrSlot
	custom []customAttribute
	end    int
}

func (idx *attributeIndex) slot(name string) (attrSlot, bool) {
	s, ok := idx.slots[name]
	return s, ok && s.present
}

// scanAttributes walks count attribute entries starting at offset. Names in
// recognized are recorded as slots unless also present in skip, in which
// case the attribute is parsed over (to find the next one) but never
// surfaced — the skip-flag mechanism operates entirely here, keeping the
// downstream event emission free of skip-flag branching.
func scanAttributes(cursor byteCursor, cp *ConstantPool, offset int, count uint16, recognized, skip map[string]bool) (*attributeIndex, error) {
	idx := &attributeIndex{slots: make(map[string]attrSlot, len(recognized))}
	pos := offset
	for i := 0; i < int(count); i++ {
		nameIndex, err := cursor.u16(pos)
		if err != nil {
			return nil, err
		}
		length, err := cursor.u32(pos + 2)
		if err != nil {
			return nil, err
		}
		payloadOffset := pos + 6

		name, err := cp.Utf8(nameIndex)
		if err != nil {
			return nil, err
		}

		if recognized[name] {
			if !skip[name] {
				slotOffset := payloadOffset
				if name == "SourceDebugExtension" {
					// Quirk preserved intentionally: this offset points at
					// the length field, not the payload, because the
					// payload itself has no further length prefix to skip.
					slotOffset = pos + 2
				}
				idx.slots[name] = attrSlot{present: true, offset: slotOffset, length: int(length)}
			}
		} else {
			idx.custom = append(idx.custom, customAttribute{name: name, offset: pos, length: int(length)})
		}

		pos = payloadOffset + int(length)
	}
	idx.end = pos
	return idx, nil
}

// UnknownAttribute is surfaced for any attribute this library doesn't
// recognize and that the caller hasn't registered a reader for.
type UnknownAttribute struct {
	Name string
	Data []byte
}

func (idx *attributeIndex) unknownAttributes(cursor byteCursor) ([]UnknownAttribute, error) {
	out := make([]UnknownAttribute, 0, len(idx.custom))
	for _, c := range idx.custom {
		data, err := cursor.bytes(c.offset+6, c.length)
		if err != nil {
			return nil, err
		}
		out = append(out, UnknownAttribute{Name: c.name, Data: data})
	}
	return out, nil
}
