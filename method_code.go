package classfile

import "github.com/Earthcomputer/classfile/opcodes"

var recognizedCodeAttributes = map[string]bool{
	"LineNumberTable": true, "LocalVariableTable": true, "LocalVariableTypeTable": true,
	"StackMap": true, "StackMapTable": true,
	"RuntimeVisibleTypeAnnotations": true, "RuntimeInvisibleTypeAnnotations": true,
}

func (r *Reader) codeSkipSet() map[string]bool {
	skip := map[string]bool{}
	if r.flags&SkipDebug != 0 {
		skip["LineNumberTable"] = true
		skip["LocalVariableTable"] = true
		skip["LocalVariableTypeTable"] = true
	}
	if r.flags&SkipFrames != 0 {
		skip["StackMap"] = true
		skip["StackMapTable"] = true
	}
	return skip
}

// codeSlot is one entry of the instruction metadata table described in §3:
// per byte-offset, optional decoded instruction, label, line number, frame,
// and code-level type annotations. The slice has one entry per code byte
// offset plus a one-past-end sentinel used for local-variable end labels.
type codeSlot struct {
	hasInsn bool
	insn    Instruction

	hasLabel bool
	label    Label

	hasLine bool
	line    int

	hasFrame bool
	frame    Frame

	typeAnns []TypeAnnotationEntry
}

// switchEntryCount validates a tableswitch/lookupswitch entry count read
// from untrusted input: it must be non-negative and its entries (entrySize
// bytes each) must fit between pos and the code attribute's end, so a
// crafted count can never drive an oversized make() before the bounds
// check that would otherwise catch it entry-by-entry.
func switchEntryCount(n, entrySize, pos, codeEnd int) (int, error) {
	if n < 0 || entrySize <= 0 || n > (codeEnd-pos)/entrySize {
		return 0, errOutOfBounds(pos+n*entrySize, codeEnd)
	}
	return n, nil
}

func ensureLabel(labels *LabelFactory, slots []codeSlot, rel int) Label {
	if rel < 0 || rel >= len(slots) {
		return labels.create()
	}
	if !slots[rel].hasLabel {
		slots[rel].hasLabel = true
		slots[rel].label = labels.create()
	}
	return slots[rel].label
}

// resolveLdc resolves the pool entry an ldc/ldc_w/ldc2_w instruction loads,
// shaping the result by the entry's own tag. A TagDynamic entry (condy)
// resolves its bootstrap method through bootstrap the same way an
// invokedynamic instruction does, including cycle detection.
func resolveLdc(cp *ConstantPool, bootstrap *bootstrapTable, index uint16) (LdcConstant, error) {
	tag, err := cp.Tag(index)
	if err != nil {
		return LdcConstant{}, err
	}
	switch tag {
	case TagInteger:
		v, err := cp.Integer(index)
		return LdcConstant{Tag: tag, IntValue: v}, err
	case TagFloat:
		v, err := cp.Float(index)
		return LdcConstant{Tag: tag, FloatValue: v}, err
	case TagLong:
		v, err := cp.Long(index)
		return LdcConstant{Tag: tag, LongValue: v}, err
	case TagDouble:
		v, err := cp.Double(index)
		return LdcConstant{Tag: tag, DoubleValue: v}, err
	case TagString:
		v, err := cp.String(index)
		return LdcConstant{Tag: tag, StringValue: v}, err
	case TagClass:
		v, err := cp.Class(index)
		return LdcConstant{Tag: tag, ClassDescriptor: v}, err
	case TagMethodType:
		v, err := cp.MethodType(index)
		return LdcConstant{Tag: tag, MethodTypeDescriptor: v}, err
	case TagMethodHandle:
		v, err := cp.MethodHandle(index)
		return LdcConstant{Tag: tag, Handle: v}, err
	case TagDynamic:
		v, err := cp.Dynamic(index)
		if err != nil {
			return LdcConstant{}, err
		}
		if bootstrap == nil {
			return LdcConstant{}, &Error{Kind: ErrBootstrapMethodOutOfBounds, Index: int(v.BootstrapMethodAttrIndex), Len: 0}
		}
		bm, err := bootstrap.resolve(v.BootstrapMethodAttrIndex)
		if err != nil {
			return LdcConstant{}, err
		}
		return LdcConstant{Tag: tag, Dynamic: v, BootstrapMethodHandle: bm.Handle, BootstrapMethodArguments: bm.Arguments}, nil
	default:
		return LdcConstant{}, errBadConstantPoolType(TagString, tag)
	}
}

// decodeInstructions performs the single linear pass over a Code
// attribute's instruction bytes described in §4.5, filling insn/label
// entries of slots as it goes. codeStart/codeEnd are absolute cursor
// offsets; rel indices into slots are code-relative (0 at codeStart).
func decodeInstructions(cursor byteCursor, cp *ConstantPool, bootstrap *bootstrapTable, codeStart, codeEnd int, labels *LabelFactory, slots []codeSlot) error {
	rel := 0
	length := codeEnd - codeStart

	for rel < length {
		abs := codeStart + rel
		opByte, err := cursor.u8(abs)
		if err != nil {
			return err
		}
		op := opcodes.Opcode(opByte)
		insn := Instruction{Kind: InsnPlain, Opcode: op}
		width := 1

		switch op {
		case opcodes.BIPUSH:
			v, err := cursor.i8(abs + 1)
			if err != nil {
				return err
			}
			insn.Kind, insn.IntOperand, width = InsnBipush, int32(v), 2

		case opcodes.SIPUSH:
			v, err := cursor.i16(abs + 1)
			if err != nil {
				return err
			}
			insn.Kind, insn.IntOperand, width = InsnSipush, int32(v), 3

		case opcodes.LDC:
			idx, err := cursor.u8(abs + 1)
			if err != nil {
				return err
			}
			insn.Ldc, err = resolveLdc(cp, bootstrap, uint16(idx))
			if err != nil {
				return err
			}
			insn.Kind, width = InsnLdc, 2

		case opcodes.LDC_W, opcodes.LDC2_W:
			idx, err := cursor.u16(abs + 1)
			if err != nil {
				return err
			}
			insn.Ldc, err = resolveLdc(cp, bootstrap, idx)
			if err != nil {
				return err
			}
			insn.Kind, width = InsnLdc, 3

		case opcodes.ILOAD, opcodes.LLOAD, opcodes.FLOAD, opcodes.DLOAD, opcodes.ALOAD,
			opcodes.ISTORE, opcodes.LSTORE, opcodes.FSTORE, opcodes.DSTORE, opcodes.ASTORE, opcodes.RET:
			idx, err := cursor.u8(abs + 1)
			if err != nil {
				return err
			}
			insn.Kind, insn.VarIndex, width = InsnVar, int(idx), 2

		case opcodes.ILOAD_0, opcodes.ILOAD_1, opcodes.ILOAD_2, opcodes.ILOAD_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.ILOAD_0)
		case opcodes.LLOAD_0, opcodes.LLOAD_1, opcodes.LLOAD_2, opcodes.LLOAD_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.LLOAD_0)
		case opcodes.FLOAD_0, opcodes.FLOAD_1, opcodes.FLOAD_2, opcodes.FLOAD_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.FLOAD_0)
		case opcodes.DLOAD_0, opcodes.DLOAD_1, opcodes.DLOAD_2, opcodes.DLOAD_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.DLOAD_0)
		case opcodes.ALOAD_0, opcodes.ALOAD_1, opcodes.ALOAD_2, opcodes.ALOAD_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.ALOAD_0)
		case opcodes.ISTORE_0, opcodes.ISTORE_1, opcodes.ISTORE_2, opcodes.ISTORE_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.ISTORE_0)
		case opcodes.LSTORE_0, opcodes.LSTORE_1, opcodes.LSTORE_2, opcodes.LSTORE_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.LSTORE_0)
		case opcodes.FSTORE_0, opcodes.FSTORE_1, opcodes.FSTORE_2, opcodes.FSTORE_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.FSTORE_0)
		case opcodes.DSTORE_0, opcodes.DSTORE_1, opcodes.DSTORE_2, opcodes.DSTORE_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.DSTORE_0)
		case opcodes.ASTORE_0, opcodes.ASTORE_1, opcodes.ASTORE_2, opcodes.ASTORE_3:
			insn.Kind, insn.VarIndex = InsnVar, int(op-opcodes.ASTORE_0)

		case opcodes.IINC:
			idx, err := cursor.u8(abs + 1)
			if err != nil {
				return err
			}
			inc, err := cursor.i8(abs + 2)
			if err != nil {
				return err
			}
			insn.Kind, insn.IincIndex, insn.IincIncrement, width = InsnIinc, int(idx), int(inc), 3

		case opcodes.NEWARRAY:
			t, err := cursor.u8(abs + 1)
			if err != nil {
				return err
			}
			if t < byte(opcodes.NewarrayBoolean) || t > byte(opcodes.NewarrayLong) {
				return &Error{Kind: ErrBadNewArrayType, Tag: t}
			}
			insn.Kind, insn.NewarrayType, width = InsnNewarray, opcodes.NewarrayType(t), 2

		case opcodes.NEW, opcodes.ANEWARRAY, opcodes.CHECKCAST, opcodes.INSTANCEOF:
			idx, err := cursor.u16(abs + 1)
			if err != nil {
				return err
			}
			name, err := cp.Class(idx)
			if err != nil {
				return err
			}
			insn.Kind, insn.TypeName, width = InsnType, name, 3

		case opcodes.GETSTATIC, opcodes.PUTSTATIC, opcodes.GETFIELD, opcodes.PUTFIELD:
			idx, err := cursor.u16(abs + 1)
			if err != nil {
				return err
			}
			ref, err := cp.FieldRef(idx)
			if err != nil {
				return err
			}
			insn.Kind, insn.Owner, insn.Name, insn.Desc, width = InsnField, ref.Owner, ref.Name, ref.Desc, 3

		case opcodes.INVOKEVIRTUAL, opcodes.INVOKESPECIAL, opcodes.INVOKESTATIC:
			idx, err := cursor.u16(abs + 1)
			if err != nil {
				return err
			}
			refTag, err := cp.Tag(idx)
			if err != nil {
				return err
			}
			var ref MemberRef
			isInterface := refTag == TagInterfaceMethodRef
			if isInterface {
				ref, err = cp.InterfaceMethodRef(idx)
			} else {
				ref, err = cp.MethodRef(idx)
			}
			if err != nil {
				return err
			}
			insn.Kind, insn.Owner, insn.Name, insn.Desc, insn.IsInterface = InsnMethod, ref.Owner, ref.Name, ref.Desc, isInterface
			width = 3

		case opcodes.INVOKEINTERFACE:
			idx, err := cursor.u16(abs + 1)
			if err != nil {
				return err
			}
			ref, err := cp.InterfaceMethodRef(idx)
			if err != nil {
				return err
			}
			insn.Kind, insn.Owner, insn.Name, insn.Desc, insn.IsInterface = InsnMethod, ref.Owner, ref.Name, ref.Desc, true
			width = 5

		case opcodes.INVOKEDYNAMIC:
			idx, err := cursor.u16(abs + 1)
			if err != nil {
				return err
			}
			dyn, err := cp.InvokeDynamic(idx)
			if err != nil {
				return err
			}
			if bootstrap == nil {
				return &Error{Kind: ErrBootstrapMethodOutOfBounds, Index: int(dyn.BootstrapMethodAttrIndex), Len: 0}
			}
			bm, err := bootstrap.resolve(dyn.BootstrapMethodAttrIndex)
			if err != nil {
				return err
			}
			insn.Kind = InsnInvokeDynamic
			insn.Name, insn.Desc = dyn.Name, dyn.Desc
			insn.BootstrapMethodHandle = bm.Handle
			insn.BootstrapMethodArguments = bm.Arguments
			width = 5

		case opcodes.IFEQ, opcodes.IFNE, opcodes.IFLT, opcodes.IFGE, opcodes.IFGT, opcodes.IFLE,
			opcodes.IF_ICMPEQ, opcodes.IF_ICMPNE, opcodes.IF_ICMPLT, opcodes.IF_ICMPGE, opcodes.IF_ICMPGT, opcodes.IF_ICMPLE,
			opcodes.IF_ACMPEQ, opcodes.IF_ACMPNE, opcodes.GOTO, opcodes.JSR, opcodes.IFNULL, opcodes.IFNONNULL:
			off, err := cursor.i16(abs + 1)
			if err != nil {
				return err
			}
			insn.Kind, insn.Jump, width = InsnJump, ensureLabel(labels, slots, rel+int(off)), 3

		case opcodes.GOTO_W, opcodes.JSR_W:
			off, err := cursor.i32(abs + 1)
			if err != nil {
				return err
			}
			insn.Kind, insn.Jump, width = InsnJump, ensureLabel(labels, slots, rel+int(off)), 5

		case opcodes.TABLESWITCH:
			padPos := abs + 1
			for (padPos-codeStart)%4 != 0 {
				padPos++
			}
			def, err := cursor.i32(padPos)
			if err != nil {
				return err
			}
			low, err := cursor.i32(padPos + 4)
			if err != nil {
				return err
			}
			high, err := cursor.i32(padPos + 8)
			if err != nil {
				return err
			}
			if low > high {
				return &Error{Kind: ErrTableSwitchBoundsWrongOrder, Low: low, High: high}
			}
			pos := padPos + 12
			n, err := switchEntryCount(int(int64(high)-int64(low)+1), 4, pos, codeEnd)
			if err != nil {
				return err
			}
			lbls := make([]Label, n)
			for i := 0; i < n; i++ {
				off, err := cursor.i32(pos)
				if err != nil {
					return err
				}
				lbls[i] = ensureLabel(labels, slots, rel+int(off))
				pos += 4
			}
			insn.Kind = InsnTableSwitch
			insn.TableSwitchLow, insn.TableSwitchHigh = low, high
			insn.TableSwitchDefault = ensureLabel(labels, slots, rel+int(def))
			insn.TableSwitchLabels = lbls
			width = pos - abs

		case opcodes.LOOKUPSWITCH:
			padPos := abs + 1
			for (padPos-codeStart)%4 != 0 {
				padPos++
			}
			def, err := cursor.i32(padPos)
			if err != nil {
				return err
			}
			rawNpairs, err := cursor.i32(padPos + 4)
			if err != nil {
				return err
			}
			pos := padPos + 8
			npairs, err := switchEntryCount(int(rawNpairs), 8, pos, codeEnd)
			if err != nil {
				return err
			}
			keys := make([]int32, npairs)
			lbls := make([]Label, npairs)
			for i := 0; i < npairs; i++ {
				key, err := cursor.i32(pos)
				if err != nil {
					return err
				}
				off, err := cursor.i32(pos + 4)
				if err != nil {
					return err
				}
				keys[i] = key
				lbls[i] = ensureLabel(labels, slots, rel+int(off))
				pos += 8
			}
			insn.Kind = InsnLookupSwitch
			insn.LookupSwitchDefault = ensureLabel(labels, slots, rel+int(def))
			insn.LookupSwitchKeys = keys
			insn.LookupSwitchLabels = lbls
			width = pos - abs

		case opcodes.MULTIANEWARRAY:
			idx, err := cursor.u16(abs + 1)
			if err != nil {
				return err
			}
			dims, err := cursor.u8(abs + 3)
			if err != nil {
				return err
			}
			desc, err := cp.Class(idx)
			if err != nil {
				return err
			}
			insn.Kind, insn.MultiANewArrayDesc, insn.MultiANewArrayDimensions, width = InsnMultiANewArray, desc, dims, 4

		case opcodes.WIDE:
			inner, err := cursor.u8(abs + 1)
			if err != nil {
				return err
			}
			switch opcodes.Opcode(inner) {
			case opcodes.IINC:
				idx, err := cursor.u16(abs + 2)
				if err != nil {
					return err
				}
				inc, err := cursor.i16(abs + 4)
				if err != nil {
					return err
				}
				insn.Opcode, insn.Kind, insn.IincIndex, insn.IincIncrement, width = opcodes.IINC, InsnIinc, int(idx), int(inc), 6
			case opcodes.ILOAD, opcodes.LLOAD, opcodes.FLOAD, opcodes.DLOAD, opcodes.ALOAD,
				opcodes.ISTORE, opcodes.LSTORE, opcodes.FSTORE, opcodes.DSTORE, opcodes.ASTORE, opcodes.RET:
				idx, err := cursor.u16(abs + 2)
				if err != nil {
					return err
				}
				insn.Opcode, insn.Kind, insn.VarIndex, width = opcodes.Opcode(inner), InsnVar, int(idx), 4
			default:
				return &Error{Kind: ErrBadWideOpcode, Opcode: opcodes.Opcode(inner)}
			}

		case opcodes.NOP, opcodes.ACONST_NULL, opcodes.ICONST_M1, opcodes.ICONST_0, opcodes.ICONST_1, opcodes.ICONST_2,
			opcodes.ICONST_3, opcodes.ICONST_4, opcodes.ICONST_5, opcodes.LCONST_0, opcodes.LCONST_1, opcodes.FCONST_0,
			opcodes.FCONST_1, opcodes.FCONST_2, opcodes.DCONST_0, opcodes.DCONST_1, opcodes.IALOAD, opcodes.LALOAD,
			opcodes.FALOAD, opcodes.DALOAD, opcodes.AALOAD, opcodes.BALOAD, opcodes.CALOAD, opcodes.SALOAD,
			opcodes.IASTORE, opcodes.LASTORE, opcodes.FASTORE, opcodes.DASTORE, opcodes.AASTORE, opcodes.BASTORE,
			opcodes.CASTORE, opcodes.SASTORE, opcodes.POP, opcodes.POP2, opcodes.DUP, opcodes.DUP_X1, opcodes.DUP_X2,
			opcodes.DUP2, opcodes.DUP2_X1, opcodes.DUP2_X2, opcodes.SWAP, opcodes.IADD, opcodes.LADD, opcodes.FADD,
			opcodes.DADD, opcodes.ISUB, opcodes.LSUB, opcodes.FSUB, opcodes.DSUB, opcodes.IMUL, opcodes.LMUL,
			opcodes.FMUL, opcodes.DMUL, opcodes.IDIV, opcodes.LDIV, opcodes.FDIV, opcodes.DDIV, opcodes.IREM,
			opcodes.LREM, opcodes.FREM, opcodes.DREM, opcodes.INEG, opcodes.LNEG, opcodes.FNEG, opcodes.DNEG,
			opcodes.ISHL, opcodes.LSHL, opcodes.ISHR, opcodes.LSHR, opcodes.IUSHR, opcodes.LUSHR, opcodes.IAND,
			opcodes.LAND, opcodes.IOR, opcodes.LOR, opcodes.IXOR, opcodes.LXOR, opcodes.I2L, opcodes.I2F, opcodes.I2D,
			opcodes.L2I, opcodes.L2F, opcodes.L2D, opcodes.F2I, opcodes.F2L, opcodes.F2D, opcodes.D2I, opcodes.D2L,
			opcodes.D2F, opcodes.I2B, opcodes.I2C, opcodes.I2S, opcodes.LCMP, opcodes.FCMPL, opcodes.FCMPG,
			opcodes.DCMPL, opcodes.DCMPG, opcodes.IRETURN, opcodes.LRETURN, opcodes.FRETURN, opcodes.DRETURN,
			opcodes.ARETURN, opcodes.RETURN, opcodes.ARRAYLENGTH, opcodes.ATHROW, opcodes.MONITORENTER, opcodes.MONITOREXIT:
			// plain, no operand

		default:
			return &Error{Kind: ErrBadOpcode, Tag: opByte}
		}

		slots[rel].hasInsn = true
		slots[rel].insn = insn
		rel += width
	}
	return nil
}

// buildCodeEvents decodes the entirety of one method's Code attribute,
// returning its full event sequence in the order described in §4.5:
// MethodCodeStart, then per offset a label/line/frame/instruction/type
// annotations, then local variables, local-variable annotations, try/catch
// blocks, try/catch annotations, custom code attributes, and Maxs.
func buildCodeEvents(r *Reader, offset int) ([]MethodEvent, error) {
	cursor, cp := r.cursor, r.cp

	maxStack, err := cursor.u16(offset)
	if err != nil {
		return nil, err
	}
	maxLocals, err := cursor.u16(offset + 2)
	if err != nil {
		return nil, err
	}
	codeLength, err := cursor.u32(offset + 4)
	if err != nil {
		return nil, err
	}
	if codeLength == 0 || codeLength > 65535 {
		return nil, &Error{Kind: ErrBadCodeSize, N: int(codeLength)}
	}
	codeStart := offset + 8
	codeEnd := codeStart + int(codeLength)

	labels := newLabelFactory()
	slots := make([]codeSlot, int(codeLength)+1)

	bootstrap, err := r.bootstrapTableFor()
	if err != nil {
		return nil, err
	}

	if err := decodeInstructions(cursor, cp, bootstrap, codeStart, codeEnd, labels, slots); err != nil {
		return nil, err
	}

	pos := codeEnd
	excCount, err := cursor.u16(pos)
	if err != nil {
		return nil, err
	}
	pos += 2
	tryCatches := make([]TryCatchEntry, excCount)
	for i := range tryCatches {
		startPC, err := cursor.u16(pos)
		if err != nil {
			return nil, err
		}
		endPC, err := cursor.u16(pos + 2)
		if err != nil {
			return nil, err
		}
		handlerPC, err := cursor.u16(pos + 4)
		if err != nil {
			return nil, err
		}
		catchIndex, err := cursor.u16(pos + 6)
		if err != nil {
			return nil, err
		}
		entry := TryCatchEntry{
			Start:   ensureLabel(labels, slots, int(startPC)),
			End:     ensureLabel(labels, slots, int(endPC)),
			Handler: ensureLabel(labels, slots, int(handlerPC)),
		}
		if catchIndex != 0 {
			entry.CatchType, err = cp.Class(catchIndex)
			if err != nil {
				return nil, err
			}
			entry.HasCatchType = true
		}
		tryCatches[i] = entry
		pos += 8
	}

	attrCount, err := cursor.u16(pos)
	if err != nil {
		return nil, err
	}
	idx, err := scanAttributes(cursor, cp, pos+2, attrCount, recognizedCodeAttributes, r.codeSkipSet())
	if err != nil {
		return nil, err
	}

	if slot, ok := idx.slot("LineNumberTable"); ok {
		count, err := cursor.u16(slot.offset)
		if err != nil {
			return nil, err
		}
		p := slot.offset + 2
		for i := 0; i < int(count); i++ {
			startPC, err := cursor.u16(p)
			if err != nil {
				return nil, err
			}
			line, err := cursor.u16(p + 2)
			if err != nil {
				return nil, err
			}
			if int(startPC) < len(slots) {
				slots[startPC].hasLine = true
				slots[startPC].line = int(line)
			}
			p += 4
		}
	}

	var localVars []LocalVariableEntry
	type lvKey struct{ startPC, index int }
	lvByKey := map[lvKey]int{}
	if slot, ok := idx.slot("LocalVariableTable"); ok {
		count, err := cursor.u16(slot.offset)
		if err != nil {
			return nil, err
		}
		p := slot.offset + 2
		localVars = make([]LocalVariableEntry, count)
		for i := 0; i < int(count); i++ {
			startPC, err := cursor.u16(p)
			if err != nil {
				return nil, err
			}
			length, err := cursor.u16(p + 2)
			if err != nil {
				return nil, err
			}
			nameIndex, err := cursor.u16(p + 4)
			if err != nil {
				return nil, err
			}
			descIndex, err := cursor.u16(p + 6)
			if err != nil {
				return nil, err
			}
			varIndex, err := cursor.u16(p + 8)
			if err != nil {
				return nil, err
			}
			name, err := cp.Utf8(nameIndex)
			if err != nil {
				return nil, err
			}
			desc, err := cp.Utf8(descIndex)
			if err != nil {
				return nil, err
			}
			localVars[i] = LocalVariableEntry{
				Name:  name,
				Desc:  desc,
				Start: ensureLabel(labels, slots, int(startPC)),
				End:   ensureLabel(labels, slots, int(startPC)+int(length)),
				Index: int(varIndex),
			}
			lvByKey[lvKey{int(startPC), int(varIndex)}] = i
			p += 10
		}
	}

	if slot, ok := idx.slot("LocalVariableTypeTable"); ok {
		count, err := cursor.u16(slot.offset)
		if err != nil {
			return nil, err
		}
		p := slot.offset + 2
		for i := 0; i < int(count); i++ {
			startPC, err := cursor.u16(p)
			if err != nil {
				return nil, err
			}
			_, err = cursor.u16(p + 2) // length, unused in the fixup match
			if err != nil {
				return nil, err
			}
			_, err = cursor.u16(p + 4) // name_index, unused in the fixup match
			if err != nil {
				return nil, err
			}
			sigIndex, err := cursor.u16(p + 6)
			if err != nil {
				return nil, err
			}
			varIndex, err := cursor.u16(p + 8)
			if err != nil {
				return nil, err
			}
			if j, ok := lvByKey[lvKey{int(startPC), int(varIndex)}]; ok {
				sig, err := cp.Utf8(sigIndex)
				if err != nil {
					return nil, err
				}
				localVars[j].Signature = sig
				localVars[j].HasSignature = true
			}
			p += 10
		}
	}

	if slot, ok := idx.slot("StackMapTable"); ok {
		if err := decodeStackMapTable(cursor, cp, slot.offset, labels, slots); err != nil {
			return nil, err
		}
	} else if slot, ok := idx.slot("StackMap"); ok {
		if err := decodeLegacyStackMap(cursor, cp, slot.offset, labels, slots); err != nil {
			return nil, err
		}
	}

	var localVarAnns []LocalVariableAnnotationEntry
	var tryCatchAnns []TryCatchAnnotationEntry
	anns, locs, err := combinedTypeAnnotations(cursor, cp, idx)
	if err != nil {
		return nil, err
	}
	for i, entry := range anns {
		loc := locs[i]
		switch loc.Kind {
		case codeLocationPC:
			if loc.PC >= 0 && loc.PC < len(slots) {
				slots[loc.PC].typeAnns = append(slots[loc.PC].typeAnns, entry)
			}
		case codeLocationLocalVarRanges:
			ranges := make([]LocalVarRange, len(loc.Ranges))
			for j, rawRange := range loc.Ranges {
				ranges[j] = LocalVarRange{
					Start: ensureLabel(labels, slots, rawRange.StartPC),
					End:   ensureLabel(labels, slots, rawRange.StartPC+rawRange.Length),
					Index: rawRange.Index,
				}
			}
			localVarAnns = append(localVarAnns, LocalVariableAnnotationEntry{
				Visible: entry.Visible, TypeAnnotation: entry.TypeAnnotation, Ranges: ranges,
			})
		case codeLocationTryCatchIndex:
			tryCatchAnns = append(tryCatchAnns, TryCatchAnnotationEntry{
				Visible: entry.Visible, TypeAnnotation: entry.TypeAnnotation, TryCatchIndex: loc.TryCatchIndex,
			})
		}
	}

	customCodeAttrs, err := idx.unknownAttributes(cursor)
	if err != nil {
		return nil, err
	}

	events := make([]MethodEvent, 0, 2*len(slots))
	events = append(events, MethodEvent{Kind: MethodCodeStart, Labels: labels, MaxStack: int(maxStack), MaxLocals: int(maxLocals)})

	for pc := 0; pc <= int(codeLength); pc++ {
		s := &slots[pc]
		if s.hasLabel {
			events = append(events, MethodEvent{Kind: MethodLabel, PC: pc, LabelValue: s.label})
		}
		if s.hasLine {
			events = append(events, MethodEvent{Kind: MethodLineNumber, PC: pc, Line: s.line})
		}
		if s.hasFrame {
			events = append(events, MethodEvent{Kind: MethodFrame, PC: pc, Frame: s.frame})
		}
		if s.hasInsn {
			events = append(events, MethodEvent{Kind: MethodInsn, PC: pc, Instruction: s.insn})
		}
		if len(s.typeAnns) > 0 {
			events = append(events, MethodEvent{Kind: MethodTypeAnnotations, PC: pc, TypeAnnotations: s.typeAnns})
		}
	}

	for _, lv := range localVars {
		events = append(events, MethodEvent{Kind: MethodLocalVariable, LocalVariable: lv})
	}
	for _, lva := range localVarAnns {
		events = append(events, MethodEvent{Kind: MethodLocalVariableAnnotation, LocalVariableAnnotation: lva})
	}
	for _, tc := range tryCatches {
		events = append(events, MethodEvent{Kind: MethodTryCatchBlock, TryCatch: tc})
	}
	for _, tca := range tryCatchAnns {
		events = append(events, MethodEvent{Kind: MethodTryCatchAnnotation, TryCatchAnnotation: tca})
	}
	if len(customCodeAttrs) > 0 {
		events = append(events, MethodEvent{Kind: MethodCodeCustomAttributes, CustomAttributes: customCodeAttrs})
	}
	events = append(events, MethodEvent{Kind: MethodMaxs, MaxStack: int(maxStack), MaxLocals: int(maxLocals)})

	return events, nil
}
