package classfile

// BootstrapArgument is one constant pool reference in a bootstrap method's
// argument list. Index is the raw constant pool index; callers resolve it
// through the owning ConstantPool's typed accessor matching Tag.
type BootstrapArgument struct {
	Tag   ConstantPoolTag
	Index uint16
}

// BootstrapMethod is a resolved entry of the class-level BootstrapMethods
// attribute: the handle invokedynamic/constant-dynamic defers to, plus its
// static argument list.
type BootstrapMethod struct {
	Handle    Handle
	Arguments []BootstrapArgument
}

type bootstrapState byte

const (
	bootstrapUnresolved bootstrapState = iota
	bootstrapResolving
	bootstrapResolved
)

// bootstrapTable is the class-scope, lazily-resolved, cycle-detecting cache
// over the BootstrapMethods attribute. One table is shared by every method
// iterator of the same class scan.
type bootstrapTable struct {
	cursor  byteCursor
	cp      *ConstantPool
	offsets []int // absolute offset of each bootstrap method entry
	state   []bootstrapState
	cache   []*BootstrapMethod
	cached  []error
}

func newBootstrapTable(cursor byteCursor, cp *ConstantPool, offset int) (*bootstrapTable, error) {
	count, err := cursor.u16(offset)
	if err != nil {
		return nil, err
	}
	offsets := make([]int, count)
	pos := offset + 2
	for i := 0; i < int(count); i++ {
		offsets[i] = pos
		numArgs, err := cursor.u16(pos + 2)
		if err != nil {
			return nil, err
		}
		pos += 4 + 2*int(numArgs)
	}
	return &bootstrapTable{
		cursor:  cursor,
		cp:      cp,
		offsets: offsets,
		state:   make([]bootstrapState, count),
		cache:   make([]*BootstrapMethod, count),
		cached:  make([]error, count),
	}, nil
}

// resolve returns the bootstrap method at index, decoding and caching it on
// first access. A cycle through constant-dynamic arguments is reported as
// BootstrapMethodCircularDependency; a prior failure is replayed to later
// callers rather than re-attempted.
func (t *bootstrapTable) resolve(index uint16) (*BootstrapMethod, error) {
	if int(index) >= len(t.offsets) {
		return nil, &Error{Kind: ErrBootstrapMethodOutOfBounds, Index: int(index), Len: len(t.offsets)}
	}

	switch t.state[index] {
	case bootstrapResolved:
		return t.cache[index], t.cached[index]
	case bootstrapResolving:
		return nil, &Error{Kind: ErrBootstrapMethodCircularDependency}
	}

	t.state[index] = bootstrapResolving

	bm, err := t.decode(index)
	if err != nil {
		t.state[index] = bootstrapResolved
		t.cached[index] = err
		return nil, err
	}

	t.state[index] = bootstrapResolved
	t.cache[index] = bm
	return bm, nil
}

func (t *bootstrapTable) decode(index uint16) (*BootstrapMethod, error) {
	entryOffset := t.offsets[index]

	handleIndex, err := t.cursor.u16(entryOffset)
	if err != nil {
		return nil, err
	}
	handle, err := t.cp.MethodHandle(handleIndex)
	if err != nil {
		return nil, err
	}

	numArgs, err := t.cursor.u16(entryOffset + 2)
	if err != nil {
		return nil, err
	}

	args := make([]BootstrapArgument, numArgs)
	for i := 0; i < int(numArgs); i++ {
		argIndex, err := t.cursor.u16(entryOffset + 4 + 2*i)
		if err != nil {
			return nil, err
		}
		tag, err := t.cp.Tag(argIndex)
		if err != nil {
			return nil, err
		}

		switch tag {
		case TagInteger, TagFloat, TagLong, TagDouble, TagString, TagClass, TagMethodHandle, TagMethodType:
			// plain loadable constants, nothing further to resolve
		case TagDynamic:
			dyn, err := t.cp.Dynamic(argIndex)
			if err != nil {
				return nil, err
			}
			if _, err := t.resolve(dyn.BootstrapMethodAttrIndex); err != nil {
				return nil, err
			}
		default:
			return nil, errBadConstantPoolType(TagDynamic, tag)
		}

		args[i] = BootstrapArgument{Tag: tag, Index: argIndex}
	}

	return &BootstrapMethod{Handle: handle, Arguments: args}, nil
}
