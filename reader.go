package classfile

// latestMajorVersion is the highest class file major version this library
// understands (Java SE 21).
const latestMajorVersion = 65

// ReaderFlags controls which parts of a class file Reader decodes.
type ReaderFlags uint32

const (
	// SkipCode omits Code attribute decoding entirely; method iteration
	// never emits MethodCodeStart or any instruction-level event.
	SkipCode ReaderFlags = 1 << iota
	// SkipDebug omits LineNumberTable, LocalVariableTable,
	// LocalVariableTypeTable, SourceFile, SourceDebugExtension, and
	// MethodParameters.
	SkipDebug
	// SkipFrames omits StackMap/StackMapTable decoding.
	SkipFrames
	// ExpandFrames is accepted but not consulted by the decoder: frames are
	// always emitted in the shape their StackMap/StackMapTable encoding
	// spells out, never expanded to full form.
	ExpandFrames
)

// AttributeReader decodes a custom (unrecognized) attribute's payload.
// Implementations may read further from reader's constant pool.
type AttributeReader func(reader *Reader, name string, data []byte) (any, error)

// Reader is a parsed class file: its constant pool is built eagerly; every
// other construct is discovered lazily by walking the iterator returned
// from Events.
type Reader struct {
	cursor byteCursor
	cp     *ConstantPool
	flags  ReaderFlags

	metadataStart int

	fieldsOffset  int
	fieldsCount   uint16
	methodsOffset int
	methodsCount  uint16

	classAttrs *attributeIndex

	bootstrap     *bootstrapTable
	bootstrapOnce bool

	customReaders map[string]AttributeReader
}

// NewReader validates the class file header and eagerly builds the
// constant pool index. It does not yet look at fields, methods, or the
// class-level attribute list — that happens on the first call to Events.
func NewReader(data []byte, flags ReaderFlags) (*Reader, error) {
	cursor := newByteCursor(data)

	magic, err := cursor.u32(0)
	if err != nil {
		return nil, err
	}
	if magic != 0xCAFEBABE {
		return nil, &Error{Kind: ErrBadMagic}
	}

	major, err := cursor.u16(6)
	if err != nil {
		return nil, err
	}
	if major > latestMajorVersion {
		return nil, &Error{Kind: ErrUnsupportedVersion, Major: major}
	}

	cp, metadataStart, err := newConstantPool(cursor, 8)
	if err != nil {
		return nil, err
	}

	return &Reader{cursor: cursor, cp: cp, flags: flags, metadataStart: metadataStart}, nil
}

// ConstantPool returns the reader's constant pool index.
func (r *Reader) ConstantPool() *ConstantPool { return r.cp }

// MajorVersion returns the class file's major version.
func (r *Reader) MajorVersion() (uint16, error) { return r.cursor.u16(6) }

// MinorVersion returns the class file's minor version.
func (r *Reader) MinorVersion() (uint16, error) { return r.cursor.u16(4) }

// RegisterAttributeReader stores a decoder for a custom attribute name. The
// event iterators do not invoke stored decoders: every unrecognized
// attribute, registered or not, surfaces as an UnknownAttribute.
func (r *Reader) RegisterAttributeReader(name string, fn AttributeReader) {
	if r.customReaders == nil {
		r.customReaders = make(map[string]AttributeReader)
	}
	r.customReaders[name] = fn
}

var classLevelAttributes = map[string]bool{
	"BootstrapMethods": true, "Deprecated": true, "EnclosingMethod": true,
	"InnerClasses": true, "Module": true, "ModuleMainClass": true,
	"ModulePackages": true, "NestHost": true, "NestMembers": true,
	"PermittedSubclasses": true, "Record": true, "Signature": true,
	"SourceDebugExtension": true, "SourceFile": true, "Synthetic": true,
	"RuntimeVisibleAnnotations": true, "RuntimeInvisibleAnnotations": true,
	"RuntimeVisibleTypeAnnotations": true, "RuntimeInvisibleTypeAnnotations": true,
}

func (r *Reader) classSkipSet() map[string]bool {
	if r.flags&SkipDebug == 0 {
		return nil
	}
	return map[string]bool{"SourceFile": true, "SourceDebugExtension": true}
}

// Events performs the single top-level attribute-scan pass described in
// §4.3: it walks past the interfaces, then the fields and methods lists
// (recording only where each begins and how many there are — per-field and
// per-method attribute detail is discovered lazily by FieldIterator and
// MethodIterator), then scans the class-level attribute list. It returns
// the root ClassIterator.
func (r *Reader) Events() (*ClassIterator, error) {
	interfaceCount, err := r.cursor.u16(r.metadataStart + 6)
	if err != nil {
		return nil, err
	}
	pos := r.metadataStart + 8 + 2*int(interfaceCount)

	fieldsCount, err := r.cursor.u16(pos)
	if err != nil {
		return nil, err
	}
	fieldsOffset := pos + 2
	pos, err = skipMemberList(r.cursor, r.cp, fieldsOffset, fieldsCount)
	if err != nil {
		return nil, err
	}

	methodsCount, err := r.cursor.u16(pos)
	if err != nil {
		return nil, err
	}
	methodsOffset := pos + 2
	pos, err = skipMemberList(r.cursor, r.cp, methodsOffset, methodsCount)
	if err != nil {
		return nil, err
	}

	classAttrCount, err := r.cursor.u16(pos)
	if err != nil {
		return nil, err
	}
	idx, err := scanAttributes(r.cursor, r.cp, pos+2, classAttrCount, classLevelAttributes, r.classSkipSet())
	if err != nil {
		return nil, err
	}

	r.fieldsOffset = fieldsOffset
	r.fieldsCount = fieldsCount
	r.methodsOffset = methodsOffset
	r.methodsCount = methodsCount
	r.classAttrs = idx

	return &ClassIterator{reader: r}, nil
}

// skipMemberList walks count field-or-method records (each an 8-byte
// header followed by an attribute list) and returns the offset immediately
// following the list, without retaining any per-record detail.
func skipMemberList(cursor byteCursor, cp *ConstantPool, offset int, count uint16) (int, error) {
	pos := offset
	for i := 0; i < int(count); i++ {
		attrCount, err := cursor.u16(pos + 6)
		if err != nil {
			return 0, err
		}
		pos += 8
		for j := 0; j < int(attrCount); j++ {
			length, err := cursor.u32(pos + 2)
			if err != nil {
				return 0, err
			}
			pos += 6 + int(length)
		}
	}
	return pos, nil
}

// bootstrapTableFor lazily builds the class-scope bootstrap method table on
// first access, caching it for every subsequent method iterator. A nil
// table with a nil error means the class has no BootstrapMethods attribute;
// a failed build is not cached, so every later call returns the same error.
func (r *Reader) bootstrapTableFor() (*bootstrapTable, error) {
	if r.bootstrapOnce {
		return r.bootstrap, nil
	}
	slot, ok := r.classAttrs.slot("BootstrapMethods")
	if !ok {
		r.bootstrapOnce = true
		return nil, nil
	}
	t, err := newBootstrapTable(r.cursor, r.cp, slot.offset)
	if err != nil {
		return nil, err
	}
	r.bootstrapOnce = true
	r.bootstrap = t
	return t, nil
}

func (r *Reader) customAttributeReader(name string) (AttributeReader, bool) {
	fn, ok := r.customReaders[name]
	return fn, ok
}
