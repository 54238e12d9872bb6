package classfile

import "encoding/binary"

// classBuilder assembles minimal class file byte fixtures by hand, the Go
// analogue of a javac-driven fixture: every edge case (bad magic, truncated
// data, specific constant pool shapes) is reachable without an external
// compiler.
type classBuilder struct {
	major, minor uint16
	pool         [][]byte // pool[0] is unused; entries already include their tag byte
	access       uint16
	thisClass    uint16
	superClass   uint16
	interfaces   []uint16
	fields       []memberFixture
	methods      []memberFixture
	classAttrs   []attrFixture
}

type attrFixture struct {
	nameIndex uint16
	data      []byte
}

type memberFixture struct {
	access, nameIndex, descIndex uint16
	attrs                        []attrFixture
}

func newClassBuilder() *classBuilder {
	return &classBuilder{major: 65, minor: 0, pool: [][]byte{nil}, access: 0x0021}
}

func (b *classBuilder) addUtf8(s string) uint16 {
	buf := make([]byte, 3+len(s))
	buf[0] = byte(TagUtf8)
	binary.BigEndian.PutUint16(buf[1:], uint16(len(s)))
	copy(buf[3:], s)
	return b.add(buf)
}

func (b *classBuilder) addClass(name string) uint16 {
	nameIdx := b.addUtf8(name)
	buf := make([]byte, 3)
	buf[0] = byte(TagClass)
	binary.BigEndian.PutUint16(buf[1:], nameIdx)
	return b.add(buf)
}

func (b *classBuilder) addNameAndType(name, desc string) uint16 {
	nameIdx := b.addUtf8(name)
	descIdx := b.addUtf8(desc)
	buf := make([]byte, 5)
	buf[0] = byte(TagNameAndType)
	binary.BigEndian.PutUint16(buf[1:], nameIdx)
	binary.BigEndian.PutUint16(buf[3:], descIdx)
	return b.add(buf)
}

func (b *classBuilder) addMemberRef(tag ConstantPoolTag, owner, name, desc string) uint16 {
	classIdx := b.addClass(owner)
	natIdx := b.addNameAndType(name, desc)
	buf := make([]byte, 5)
	buf[0] = byte(tag)
	binary.BigEndian.PutUint16(buf[1:], classIdx)
	binary.BigEndian.PutUint16(buf[3:], natIdx)
	return b.add(buf)
}

func (b *classBuilder) addInteger(v int32) uint16 {
	buf := make([]byte, 5)
	buf[0] = byte(TagInteger)
	binary.BigEndian.PutUint32(buf[1:], uint32(v))
	return b.add(buf)
}

func (b *classBuilder) add(entry []byte) uint16 {
	b.pool = append(b.pool, entry)
	return uint16(len(b.pool) - 1)
}

func (b *classBuilder) setThis(name string) {
	b.thisClass = b.addClass(name)
}

func (b *classBuilder) setSuper(name string) {
	b.superClass = b.addClass(name)
}

func (b *classBuilder) addMethod(access uint16, name, desc string, attrs ...attrFixture) {
	b.methods = append(b.methods, memberFixture{
		access:    access,
		nameIndex: b.addUtf8(name),
		descIndex: b.addUtf8(desc),
		attrs:     attrs,
	})
}

func (b *classBuilder) codeAttr(maxStack, maxLocals int, code []byte, exceptions []byte, subAttrs []attrFixture) attrFixture {
	var body []byte
	body = append(body, u16bytes(uint16(maxStack))...)
	body = append(body, u16bytes(uint16(maxLocals))...)
	body = append(body, u32bytes(uint32(len(code)))...)
	body = append(body, code...)
	if exceptions == nil {
		body = append(body, u16bytes(0)...)
	} else {
		body = append(body, exceptions...)
	}
	body = append(body, u16bytes(uint16(len(subAttrs)))...)
	for _, a := range subAttrs {
		body = append(body, u16bytes(a.nameIndex)...)
		body = append(body, u32bytes(uint32(len(a.data)))...)
		body = append(body, a.data...)
	}
	return attrFixture{nameIndex: b.addUtf8("Code"), data: body}
}

func u16bytes(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

func u32bytes(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// build serializes the whole fixture into a well-formed class file.
func (b *classBuilder) build() []byte {
	var out []byte
	out = append(out, 0xCA, 0xFE, 0xBA, 0xBE)
	out = append(out, u16bytes(b.minor)...)
	out = append(out, u16bytes(b.major)...)

	out = append(out, u16bytes(uint16(len(b.pool)))...)
	for i := 1; i < len(b.pool); i++ {
		entry := b.pool[i]
		out = append(out, entry...)
		if ConstantPoolTag(entry[0]) == TagLong || ConstantPoolTag(entry[0]) == TagDouble {
			i++
		}
	}

	out = append(out, u16bytes(b.access)...)
	out = append(out, u16bytes(b.thisClass)...)
	out = append(out, u16bytes(b.superClass)...)

	out = append(out, u16bytes(uint16(len(b.interfaces)))...)
	for _, iface := range b.interfaces {
		out = append(out, u16bytes(iface)...)
	}

	out = append(out, u16bytes(uint16(len(b.fields)))...)
	for _, f := range b.fields {
		out = append(out, serializeMember(f)...)
	}

	out = append(out, u16bytes(uint16(len(b.methods)))...)
	for _, m := range b.methods {
		out = append(out, serializeMember(m)...)
	}

	out = append(out, u16bytes(uint16(len(b.classAttrs)))...)
	for _, a := range b.classAttrs {
		out = append(out, u16bytes(a.nameIndex)...)
		out = append(out, u32bytes(uint32(len(a.data)))...)
		out = append(out, a.data...)
	}
	return out
}

func serializeMember(m memberFixture) []byte {
	var out []byte
	out = append(out, u16bytes(m.access)...)
	out = append(out, u16bytes(m.nameIndex)...)
	out = append(out, u16bytes(m.descIndex)...)
	out = append(out, u16bytes(uint16(len(m.attrs)))...)
	for _, a := range m.attrs {
		out = append(out, u16bytes(a.nameIndex)...)
		out = append(out, u32bytes(uint32(len(a.data)))...)
		out = append(out, a.data...)
	}
	return out
}
