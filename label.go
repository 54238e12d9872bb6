package classfile

import "sync/atomic"

// Label is an opaque, monotonically increasing identifier for a code
// offset, minted at most once per offset by a method's LabelFactory. Labels
// carry no semantics beyond identity: two labels are the same code location
// iff they compare equal.
type Label struct {
	id uint32
}

// LabelFactory mints Labels for a single method's code. It is shared (by
// pointer) between the code decoder, which mints labels, and the metadata
// table the caller eventually reads labels back out of, the same way the
// underlying format's reference-counted label creator is shared between a
// decoder and its caller.
type LabelFactory struct {
	next uint32
}

func newLabelFactory() *LabelFactory {
	return &LabelFactory{}
}

// create mints a new, never-before-issued label.
func (f *LabelFactory) create() Label {
	return Label{id: atomic.AddUint32(&f.next, 1) - 1}
}
