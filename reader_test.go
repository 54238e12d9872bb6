package classfile

import "testing"

func TestNewReaderBadMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0, 0, 0, 65}
	_, err := NewReader(data, 0)
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
	cfErr, ok := err.(*Error)
	if !ok || cfErr.Kind != ErrBadMagic {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestNewReaderUnsupportedVersion(t *testing.T) {
	b := newClassBuilder()
	b.major = latestMajorVersion + 1
	b.setThis("Unsupported")
	data := b.build()

	_, err := NewReader(data, 0)
	cfErr, ok := err.(*Error)
	if !ok || cfErr.Kind != ErrUnsupportedVersion {
		t.Fatalf("got %v, want ErrUnsupportedVersion", err)
	}
}

func TestMinimalClassHeader(t *testing.T) {
	b := newClassBuilder()
	b.setThis("com/example/Minimal")
	b.setSuper("java/lang/Object")
	data := b.build()

	r, err := NewReader(data, 0)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	it, err := r.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}

	ev, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("Next: %v, ok=%v", err, ok)
	}
	if ev.Kind != ClassHeader {
		t.Fatalf("got kind %v, want ClassHeader", ev.Kind)
	}
	if ev.Name != "com/example/Minimal" {
		t.Errorf("got name %q", ev.Name)
	}
	if !ev.HasSuperName || ev.SuperName != "java/lang/Object" {
		t.Errorf("got super %q (has=%v)", ev.SuperName, ev.HasSuperName)
	}
	if ev.MajorVersion != 65 {
		t.Errorf("got major version %d", ev.MajorVersion)
	}
}

func TestMinimalClassWalksToEnd(t *testing.T) {
	b := newClassBuilder()
	b.setThis("com/example/Minimal")
	b.setSuper("java/lang/Object")
	data := b.build()

	r, err := NewReader(data, 0)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	it, err := r.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}

	var sawEnd bool
	for {
		ev, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		if ev.Kind == ClassFields {
			if _, ok, err := ev.Fields.Next(); err != nil || ok {
				t.Errorf("expected no fields, got ok=%v err=%v", ok, err)
			}
		}
		if ev.Kind == ClassMethods {
			if _, ok, err := ev.Methods.Next(); err != nil || ok {
				t.Errorf("expected no methods, got ok=%v err=%v", ok, err)
			}
		}
		if ev.Kind == ClassEnd {
			sawEnd = true
		}
	}
	if !sawEnd {
		t.Fatal("never saw ClassEnd")
	}
}
