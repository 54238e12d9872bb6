package classfile

import (
	"errors"
	"strings"
	"unicode/utf16"

	"github.com/Earthcomputer/classfile/opcodes"
)

// ConstantPoolTag identifies the kind of a constant pool entry.
type ConstantPoolTag byte

const (
	TagUtf8               ConstantPoolTag = 1
	TagInteger            ConstantPoolTag = 3
	TagFloat              ConstantPoolTag = 4
	TagLong               ConstantPoolTag = 5
	TagDouble             ConstantPoolTag = 6
	TagClass              ConstantPoolTag = 7
	TagString             ConstantPoolTag = 8
	TagFieldRef           ConstantPoolTag = 9
	TagMethodRef          ConstantPoolTag = 10
	TagInterfaceMethodRef ConstantPoolTag = 11
	TagNameAndType        ConstantPoolTag = 12
	TagMethodHandle       ConstantPoolTag = 15
	TagMethodType         ConstantPoolTag = 16
	TagDynamic            ConstantPoolTag = 17
	TagInvokeDynamic      ConstantPoolTag = 18
	TagModule             ConstantPoolTag = 19
	TagPackage            ConstantPoolTag = 20
)

func (t ConstantPoolTag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldRef:
		return "Fieldref"
	case TagMethodRef:
		return "Methodref"
	case TagInterfaceMethodRef:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	default:
		return "Unknown"
	}
}

// NameAndType is the resolved form of a CONSTANT_NameAndType_info entry.
type NameAndType struct {
	Name string
	Desc string
}

// MemberRef is the resolved form of a field/method/interface-method
// reference: an owning class name plus a name-and-type pair.
type MemberRef struct {
	Owner string
	Name  string
	Desc  string
}

// DynamicEntry is the resolved form of a CONSTANT_Dynamic_info or
// CONSTANT_InvokeDynamic_info entry; the bootstrap method itself is
// resolved lazily through the owning Reader's bootstrap method table.
type DynamicEntry struct {
	BootstrapMethodAttrIndex uint16
	Name                     string
	Desc                     string
}

// Handle is the resolved form of a CONSTANT_MethodHandle_info entry.
type Handle struct {
	Kind        opcodes.HandleKind
	Owner       string
	Name        string
	Desc        string
	IsInterface bool
}

// ConstantPool is the one-pass-built, random-access index over a class
// file's constant pool section. Index 0 always means "absent" wherever an
// optional reference is accepted.
type ConstantPool struct {
	cursor  byteCursor
	offsets []int // offsets[i] is the absolute offset of entry i's tag byte, or 0 for a hole/unused slot.
}

// newConstantPool builds the pool starting at the count field (offset 8 of
// the class file) and returns the pool plus the offset immediately after
// the last entry, where access_flags begins.
func newConstantPool(cursor byteCursor, countOffset int) (*ConstantPool, int, error) {
	count, err := cursor.u16(countOffset)
	if err != nil {
		return nil, 0, err
	}

	offsets := make([]int, count)
	pos := countOffset + 2
	for i := 1; i < int(count); i++ {
		offsets[i] = pos
		tag, err := cursor.u8(pos)
		if err != nil {
			return nil, 0, err
		}
		switch ConstantPoolTag(tag) {
		case TagClass, TagMethodType, TagModule, TagPackage, TagString:
			pos += 3
		case TagMethodHandle:
			pos += 4
		case TagDynamic, TagFieldRef, TagFloat, TagInteger, TagInterfaceMethodRef,
			TagInvokeDynamic, TagMethodRef, TagNameAndType:
			pos += 5
		case TagLong, TagDouble:
			pos += 9
			i++ // the following slot is an unusable hole
		case TagUtf8:
			length, err := cursor.u16(pos + 1)
			if err != nil {
				return nil, 0, err
			}
			pos += 3 + int(length)
		default:
			return nil, 0, &Error{Kind: ErrBadConstantPoolTag, Tag: tag}
		}
	}
	return &ConstantPool{cursor: cursor, offsets: offsets}, pos, nil
}

func (cp *ConstantPool) indexToOffset(index uint16) (int, error) {
	if int(index) >= len(cp.offsets) {
		return 0, &Error{Kind: ErrBadConstantPoolIndex, Index: int(index), Len: len(cp.offsets)}
	}
	offset := cp.offsets[index]
	if offset == 0 {
		return 0, &Error{Kind: ErrBadConstantPoolIndexNoEntry, Index: int(index)}
	}
	return offset, nil
}

// Tag returns the tag byte of the entry at index.
func (cp *ConstantPool) Tag(index uint16) (ConstantPoolTag, error) {
	offset, err := cp.indexToOffset(index)
	if err != nil {
		return 0, err
	}
	tag, err := cp.cursor.u8(offset)
	return ConstantPoolTag(tag), err
}

func (cp *ConstantPool) expect(index uint16, want ConstantPoolTag) (int, error) {
	offset, err := cp.indexToOffset(index)
	if err != nil {
		return 0, err
	}
	tagByte, err := cp.cursor.u8(offset)
	if err != nil {
		return 0, err
	}
	if ConstantPoolTag(tagByte) != want {
		return 0, errBadConstantPoolType(want, ConstantPoolTag(tagByte))
	}
	return offset, nil
}

// Utf8 decodes the Modified-UTF-8 entry at index.
func (cp *ConstantPool) Utf8(index uint16) (string, error) {
	offset, err := cp.expect(index, TagUtf8)
	if err != nil {
		return "", err
	}
	length, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return "", err
	}
	raw, err := cp.cursor.bytes(offset+3, int(length))
	if err != nil {
		return "", err
	}
	s, err := decodeModifiedUTF8(raw)
	if err != nil {
		return "", &Error{Kind: ErrUTF8, Wrapped: err}
	}
	return s, nil
}

// Class resolves a CONSTANT_Class_info entry to its binary class name.
func (cp *ConstantPool) Class(index uint16) (string, error) {
	offset, err := cp.expect(index, TagClass)
	if err != nil {
		return "", err
	}
	nameIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return "", err
	}
	return cp.Utf8(nameIndex)
}

// OptionalClass is Class, but treats index 0 as "absent" instead of an error.
func (cp *ConstantPool) OptionalClass(index uint16) (string, bool, error) {
	if index == 0 {
		return "", false, nil
	}
	name, err := cp.Class(index)
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// String resolves a CONSTANT_String_info entry to its backing text.
func (cp *ConstantPool) String(index uint16) (string, error) {
	offset, err := cp.expect(index, TagString)
	if err != nil {
		return "", err
	}
	strIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return "", err
	}
	return cp.Utf8(strIndex)
}

// Integer resolves a CONSTANT_Integer_info entry.
func (cp *ConstantPool) Integer(index uint16) (int32, error) {
	offset, err := cp.expect(index, TagInteger)
	if err != nil {
		return 0, err
	}
	return cp.cursor.i32(offset + 1)
}

// Float resolves a CONSTANT_Float_info entry.
func (cp *ConstantPool) Float(index uint16) (float32, error) {
	offset, err := cp.expect(index, TagFloat)
	if err != nil {
		return 0, err
	}
	return cp.cursor.f32(offset + 1)
}

// Long resolves a CONSTANT_Long_info entry.
func (cp *ConstantPool) Long(index uint16) (int64, error) {
	offset, err := cp.expect(index, TagLong)
	if err != nil {
		return 0, err
	}
	return cp.cursor.i64(offset + 1)
}

// Double resolves a CONSTANT_Double_info entry.
func (cp *ConstantPool) Double(index uint16) (float64, error) {
	offset, err := cp.expect(index, TagDouble)
	if err != nil {
		return 0, err
	}
	return cp.cursor.f64(offset + 1)
}

func (cp *ConstantPool) memberRef(index uint16, want ConstantPoolTag) (MemberRef, error) {
	offset, err := cp.expect(index, want)
	if err != nil {
		return MemberRef{}, err
	}
	classIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return MemberRef{}, err
	}
	natIndex, err := cp.cursor.u16(offset + 3)
	if err != nil {
		return MemberRef{}, err
	}
	owner, err := cp.Class(classIndex)
	if err != nil {
		return MemberRef{}, err
	}
	nat, err := cp.NameAndType(natIndex)
	if err != nil {
		return MemberRef{}, err
	}
	return MemberRef{Owner: owner, Name: nat.Name, Desc: nat.Desc}, nil
}

// FieldRef resolves a CONSTANT_Fieldref_info entry.
func (cp *ConstantPool) FieldRef(index uint16) (MemberRef, error) {
	return cp.memberRef(index, TagFieldRef)
}

// MethodRef resolves a CONSTANT_Methodref_info entry.
func (cp *ConstantPool) MethodRef(index uint16) (MemberRef, error) {
	return cp.memberRef(index, TagMethodRef)
}

// InterfaceMethodRef resolves a CONSTANT_InterfaceMethodref_info entry.
func (cp *ConstantPool) InterfaceMethodRef(index uint16) (MemberRef, error) {
	return cp.memberRef(index, TagInterfaceMethodRef)
}

// NameAndType resolves a CONSTANT_NameAndType_info entry.
func (cp *ConstantPool) NameAndType(index uint16) (NameAndType, error) {
	offset, err := cp.expect(index, TagNameAndType)
	if err != nil {
		return NameAndType{}, err
	}
	nameIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return NameAndType{}, err
	}
	descIndex, err := cp.cursor.u16(offset + 3)
	if err != nil {
		return NameAndType{}, err
	}
	name, err := cp.Utf8(nameIndex)
	if err != nil {
		return NameAndType{}, err
	}
	desc, err := cp.Utf8(descIndex)
	if err != nil {
		return NameAndType{}, err
	}
	return NameAndType{Name: name, Desc: desc}, nil
}

// MethodType resolves a CONSTANT_MethodType_info entry to its descriptor.
func (cp *ConstantPool) MethodType(index uint16) (string, error) {
	offset, err := cp.expect(index, TagMethodType)
	if err != nil {
		return "", err
	}
	descIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return "", err
	}
	return cp.Utf8(descIndex)
}

// Module resolves a CONSTANT_Module_info entry to its name.
func (cp *ConstantPool) Module(index uint16) (string, error) {
	offset, err := cp.expect(index, TagModule)
	if err != nil {
		return "", err
	}
	nameIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return "", err
	}
	return cp.Utf8(nameIndex)
}

// Package resolves a CONSTANT_Package_info entry to its name.
func (cp *ConstantPool) Package(index uint16) (string, error) {
	offset, err := cp.expect(index, TagPackage)
	if err != nil {
		return "", err
	}
	nameIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return "", err
	}
	return cp.Utf8(nameIndex)
}

func (cp *ConstantPool) dynamicEntry(index uint16, want ConstantPoolTag) (DynamicEntry, error) {
	offset, err := cp.expect(index, want)
	if err != nil {
		return DynamicEntry{}, err
	}
	bsmIndex, err := cp.cursor.u16(offset + 1)
	if err != nil {
		return DynamicEntry{}, err
	}
	natIndex, err := cp.cursor.u16(offset + 3)
	if err != nil {
		return DynamicEntry{}, err
	}
	nat, err := cp.NameAndType(natIndex)
	if err != nil {
		return DynamicEntry{}, err
	}
	return DynamicEntry{BootstrapMethodAttrIndex: bsmIndex, Name: nat.Name, Desc: nat.Desc}, nil
}

// Dynamic resolves a CONSTANT_Dynamic_info entry.
func (cp *ConstantPool) Dynamic(index uint16) (DynamicEntry, error) {
	return cp.dynamicEntry(index, TagDynamic)
}

// InvokeDynamic resolves a CONSTANT_InvokeDynamic_info entry.
func (cp *ConstantPool) InvokeDynamic(index uint16) (DynamicEntry, error) {
	return cp.dynamicEntry(index, TagInvokeDynamic)
}

// MethodHandle resolves a CONSTANT_MethodHandle_info entry, dispatching by
// handle kind to a field-ref, method-ref, or interface-method-ref entry.
// InvokeStatic and InvokeSpecial accept either a method-ref or an
// interface-method-ref, recording which via IsInterface.
func (cp *ConstantPool) MethodHandle(index uint16) (Handle, error) {
	offset, err := cp.expect(index, TagMethodHandle)
	if err != nil {
		return Handle{}, err
	}
	kindByte, err := cp.cursor.u8(offset + 1)
	if err != nil {
		return Handle{}, err
	}
	kind := opcodes.HandleKind(kindByte)
	refIndex, err := cp.cursor.u16(offset + 2)
	if err != nil {
		return Handle{}, err
	}

	var ref MemberRef
	var isInterface bool
	switch kind {
	case opcodes.HGetField, opcodes.HGetStatic, opcodes.HPutField, opcodes.HPutStatic:
		ref, err = cp.FieldRef(refIndex)
	case opcodes.HInvokeVirtual, opcodes.HNewInvokeSpecial:
		ref, err = cp.MethodRef(refIndex)
	case opcodes.HInvokeStatic, opcodes.HInvokeSpecial:
		refTag, tagErr := cp.Tag(refIndex)
		if tagErr != nil {
			return Handle{}, tagErr
		}
		if refTag == TagInterfaceMethodRef {
			ref, err = cp.InterfaceMethodRef(refIndex)
			isInterface = true
		} else {
			ref, err = cp.MethodRef(refIndex)
		}
	case opcodes.HInvokeInterface:
		ref, err = cp.InterfaceMethodRef(refIndex)
		isInterface = true
	default:
		return Handle{}, &Error{Kind: ErrBadHandleKind, Tag: kindByte}
	}
	if err != nil {
		return Handle{}, err
	}
	return Handle{Kind: kind, Owner: ref.Owner, Name: ref.Name, Desc: ref.Desc, IsInterface: isInterface}, nil
}

// All returns a push iterator over every present entry, skipping
// Long/Double hole slots: call it with a yield callback, which receives each
// index, its tag, and any error, and returns false to stop. Its yield takes
// three values, so it cannot be used with a range statement.
func (cp *ConstantPool) All() func(yield func(uint16, ConstantPoolTag, error) bool) {
	return func(yield func(uint16, ConstantPoolTag, error) bool) {
		for i := 1; i < len(cp.offsets); i++ {
			if cp.offsets[i] == 0 {
				continue
			}
			tag, err := cp.Tag(uint16(i))
			if !yield(uint16(i), tag, err) {
				return
			}
		}
	}
}

// Count returns one past the highest valid constant pool index.
func (cp *ConstantPool) Count() uint16 {
	return uint16(len(cp.offsets))
}

// decodeModifiedUTF8 decodes the JVM's Modified UTF-8 encoding: the null
// character is encoded as two bytes (0xC0 0x80) and characters outside the
// basic multilingual plane are encoded as a surrogate pair, each encoded as
// its own three-byte sequence.
func decodeModifiedUTF8(b []byte) (string, error) {
	var out strings.Builder
	out.Grow(len(b))

	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c&0x80 == 0:
			out.WriteByte(c)
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return "", errShortModifiedUTF8()
			}
			c2 := b[i+1]
			r := rune(c&0x1F)<<6 | rune(c2&0x3F)
			out.WriteRune(r)
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return "", errShortModifiedUTF8()
			}
			c2, c3 := b[i+1], b[i+2]
			r := rune(c&0x0F)<<12 | rune(c2&0x3F)<<6 | rune(c3&0x3F)
			if utf16.IsSurrogate(r) && i+5 < len(b) && b[i+3] == 0xED {
				c5, c6 := b[i+4], b[i+5]
				r2 := rune(b[i+3]&0x0F)<<12 | rune(c5&0x3F)<<6 | rune(c6&0x3F)
				combined := utf16.DecodeRune(r, r2)
				out.WriteRune(combined)
				i += 6
				continue
			}
			out.WriteRune(r)
			i += 3
		default:
			return "", errShortModifiedUTF8()
		}
	}
	return out.String(), nil
}

var errShortModifiedUTF8Value = errors.New("truncated modified utf-8 sequence")

func errShortModifiedUTF8() error {
	return errShortModifiedUTF8Value
}
