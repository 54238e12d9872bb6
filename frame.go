package classfile

// readVerificationType reads one stack-map verification-type entry: a tag
// byte, plus (for Class and Uninitialized) a further operand. Uninitialized
// targets a code offset, materializing a label there the same way a branch
// instruction would.
func readVerificationType(cursor byteCursor, cp *ConstantPool, pos int, labels *LabelFactory, slots []codeSlot) (FrameValue, int, error) {
	tag, err := cursor.u8(pos)
	if err != nil {
		return FrameValue{}, 0, err
	}
	switch tag {
	case 0, 1, 2, 3, 4, 5, 6:
		return FrameValue{Tag: tag}, pos + 1, nil
	case 7:
		index, err := cursor.u16(pos + 1)
		if err != nil {
			return FrameValue{}, 0, err
		}
		name, err := cp.Class(index)
		if err != nil {
			return FrameValue{}, 0, err
		}
		return FrameValue{Tag: tag, ClassName: name}, pos + 3, nil
	case 8:
		pc, err := cursor.u16(pos + 1)
		if err != nil {
			return FrameValue{}, 0, err
		}
		return FrameValue{Tag: tag, Uninitialized: ensureLabel(labels, slots, int(pc))}, pos + 3, nil
	default:
		return FrameValue{}, 0, &Error{Kind: ErrBadFrameValueTag, Tag: tag}
	}
}

func frameDeltaToOffset(prevOffset, delta int) int {
	if prevOffset < 0 {
		return delta
	}
	return prevOffset + delta + 1
}

// decodeStackMapTable decodes a compressed StackMapTable attribute,
// attaching each resulting Frame to the instruction metadata slot at its
// code offset.
func decodeStackMapTable(cursor byteCursor, cp *ConstantPool, offset int, labels *LabelFactory, slots []codeSlot) error {
	count, err := cursor.u16(offset)
	if err != nil {
		return err
	}
	pos := offset + 2
	prevOffset := -1

	for i := 0; i < int(count); i++ {
		frameType, err := cursor.u8(pos)
		if err != nil {
			return err
		}
		pos++

		var frame Frame
		var codeOffset int

		switch {
		case frameType <= 63:
			frame.Kind = FrameSame
			codeOffset = frameDeltaToOffset(prevOffset, int(frameType))

		case frameType <= 127:
			codeOffset = frameDeltaToOffset(prevOffset, int(frameType)-64)
			v, next, err := readVerificationType(cursor, cp, pos, labels, slots)
			if err != nil {
				return err
			}
			pos = next
			frame.Kind = FrameSame1
			frame.Stack = []FrameValue{v}

		case frameType == 247:
			delta, err := cursor.u16(pos)
			if err != nil {
				return err
			}
			pos += 2
			codeOffset = frameDeltaToOffset(prevOffset, int(delta))
			v, next, err := readVerificationType(cursor, cp, pos, labels, slots)
			if err != nil {
				return err
			}
			pos = next
			frame.Kind = FrameSame1
			frame.Stack = []FrameValue{v}

		case frameType >= 248 && frameType <= 250:
			delta, err := cursor.u16(pos)
			if err != nil {
				return err
			}
			pos += 2
			codeOffset = frameDeltaToOffset(prevOffset, int(delta))
			frame.Kind = FrameChop
			frame.ChopCount = 251 - int(frameType)

		case frameType == 251:
			delta, err := cursor.u16(pos)
			if err != nil {
				return err
			}
			pos += 2
			codeOffset = frameDeltaToOffset(prevOffset, int(delta))
			frame.Kind = FrameSame

		case frameType >= 252 && frameType <= 254:
			delta, err := cursor.u16(pos)
			if err != nil {
				return err
			}
			pos += 2
			codeOffset = frameDeltaToOffset(prevOffset, int(delta))
			n := int(frameType) - 251
			locals := make([]FrameValue, n)
			for j := 0; j < n; j++ {
				v, next, err := readVerificationType(cursor, cp, pos, labels, slots)
				if err != nil {
					return err
				}
				locals[j] = v
				pos = next
			}
			frame.Kind = FrameAppend
			frame.Locals = locals

		case frameType == 255:
			delta, err := cursor.u16(pos)
			if err != nil {
				return err
			}
			pos += 2
			codeOffset = frameDeltaToOffset(prevOffset, int(delta))

			numLocals, err := cursor.u16(pos)
			if err != nil {
				return err
			}
			pos += 2
			locals := make([]FrameValue, numLocals)
			for j := range locals {
				v, next, err := readVerificationType(cursor, cp, pos, labels, slots)
				if err != nil {
					return err
				}
				locals[j] = v
				pos = next
			}

			numStack, err := cursor.u16(pos)
			if err != nil {
				return err
			}
			pos += 2
			stack := make([]FrameValue, numStack)
			for j := range stack {
				v, next, err := readVerificationType(cursor, cp, pos, labels, slots)
				if err != nil {
					return err
				}
				stack[j] = v
				pos = next
			}

			frame.Kind = FrameFull
			frame.Locals = locals
			frame.Stack = stack

		default:
			return &Error{Kind: ErrBadFrameType, Tag: frameType}
		}

		if codeOffset < 0 || codeOffset >= len(slots) {
			return &Error{Kind: ErrCodeOffsetOutOfBounds, Index: codeOffset, Len: len(slots)}
		}
		slots[codeOffset].hasFrame = true
		slots[codeOffset].frame = frame
		prevOffset = codeOffset
	}
	return nil
}

// decodeLegacyStackMap decodes the pre-JSR202 StackMap attribute: every
// frame is implicitly full-form, and code offsets are absolute rather than
// delta-encoded.
func decodeLegacyStackMap(cursor byteCursor, cp *ConstantPool, offset int, labels *LabelFactory, slots []codeSlot) error {
	count, err := cursor.u16(offset)
	if err != nil {
		return err
	}
	pos := offset + 2

	for i := 0; i < int(count); i++ {
		codeOffsetU, err := cursor.u16(pos)
		if err != nil {
			return err
		}
		pos += 2
		codeOffset := int(codeOffsetU)

		numLocals, err := cursor.u16(pos)
		if err != nil {
			return err
		}
		pos += 2
		locals := make([]FrameValue, numLocals)
		for j := range locals {
			v, next, err := readVerificationType(cursor, cp, pos, labels, slots)
			if err != nil {
				return err
			}
			locals[j] = v
			pos = next
		}

		numStack, err := cursor.u16(pos)
		if err != nil {
			return err
		}
		pos += 2
		stack := make([]FrameValue, numStack)
		for j := range stack {
			v, next, err := readVerificationType(cursor, cp, pos, labels, slots)
			if err != nil {
				return err
			}
			stack[j] = v
			pos = next
		}

		if codeOffset < 0 || codeOffset >= len(slots) {
			return &Error{Kind: ErrCodeOffsetOutOfBounds, Index: codeOffset, Len: len(slots)}
		}
		slots[codeOffset].hasFrame = true
		slots[codeOffset].frame = Frame{Kind: FrameFull, Locals: locals, Stack: stack}
	}
	return nil
}
