package classfile

import (
	"testing"

	"github.com/Earthcomputer/classfile/opcodes"
)

func buildMinimalMethodClass(t *testing.T, code []byte) (*Reader, *ClassIterator) {
	t.Helper()
	b := newClassBuilder()
	b.setThis("com/example/Minimal")
	b.setSuper("java/lang/Object")
	b.addMethod(0x0009, "run", "()V", b.codeAttr(1, 1, code, nil, nil))
	data := b.build()

	r, err := NewReader(data, 0)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	it, err := r.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	return r, it
}

func methodsIteratorOf(t *testing.T, it *ClassIterator) *MethodIterator {
	t.Helper()
	for {
		ev, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			t.Fatal("ClassMethods event never arrived")
		}
		if ev.Kind == ClassMethods {
			return ev.Methods
		}
	}
}

func TestMethodReturnInstruction(t *testing.T) {
	_, it := buildMinimalMethodClass(t, []byte{byte(opcodes.RETURN)})
	methods := methodsIteratorOf(t, it)

	var sawInsn, sawMaxs bool
	for {
		ev, ok, err := methods.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		switch ev.Kind {
		case MethodInsn:
			if ev.Instruction.Opcode != opcodes.RETURN {
				t.Errorf("got opcode %v, want RETURN", ev.Instruction.Opcode)
			}
			sawInsn = true
		case MethodMaxs:
			if ev.MaxStack != 1 || ev.MaxLocals != 1 {
				t.Errorf("got maxStack=%d maxLocals=%d", ev.MaxStack, ev.MaxLocals)
			}
			sawMaxs = true
		}
	}
	if !sawInsn {
		t.Error("never saw MethodInsn")
	}
	if !sawMaxs {
		t.Error("never saw MethodMaxs")
	}
}

func TestTableSwitchBoundsWrongOrder(t *testing.T) {
	code := []byte{
		byte(opcodes.TABLESWITCH),
		0, 0, 0, // padding to a 4-byte boundary
		0, 0, 0, 0, // default offset
		0, 0, 0, 5, // low = 5
		0, 0, 0, 0, // high = 0 (low > high)
	}
	_, it := buildMinimalMethodClass(t, code)
	methods := methodsIteratorOf(t, it)

	var err error
	for {
		var ev MethodEvent
		var ok bool
		ev, ok, err = methods.Next()
		if err != nil || !ok {
			_ = ev
			break
		}
	}
	if err == nil {
		t.Fatal("expected ErrTableSwitchBoundsWrongOrder")
	}
	cfErr, ok := err.(*Error)
	if !ok || cfErr.Kind != ErrTableSwitchBoundsWrongOrder {
		t.Fatalf("got %v, want ErrTableSwitchBoundsWrongOrder", err)
	}
}

func TestBadOpcode(t *testing.T) {
	_, it := buildMinimalMethodClass(t, []byte{0xFE}) // 254 is unassigned
	methods := methodsIteratorOf(t, it)

	var err error
	for {
		_, ok, e := methods.Next()
		err = e
		if err != nil || !ok {
			break
		}
	}
	cfErr, ok := err.(*Error)
	if !ok || cfErr.Kind != ErrBadOpcode {
		t.Fatalf("got %v, want ErrBadOpcode", err)
	}
}
