package classfile

import "testing"

func TestParseFieldDescriptor(t *testing.T) {
	cases := []struct {
		desc string
		want FieldType
	}{
		{"I", FieldType{Primitive: 'I'}},
		{"Ljava/lang/String;", FieldType{ClassName: "java/lang/String"}},
		{"[[I", FieldType{Dimensions: 2, Primitive: 'I'}},
		{"[Ljava/lang/String;", FieldType{Dimensions: 1, ClassName: "java/lang/String"}},
	}
	for _, c := range cases {
		got, err := ParseFieldDescriptor(c.desc)
		if err != nil {
			t.Errorf("%q: %v", c.desc, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: got %+v, want %+v", c.desc, got, c.want)
		}
	}
}

func TestParseFieldDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "Q", "Ljava/lang/String", "I garbage"} {
		if _, err := ParseFieldDescriptor(desc); err == nil {
			t.Errorf("%q: expected error", desc)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	got, err := ParseMethodDescriptor("(ILjava/lang/String;)V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if len(got.Parameters) != 2 {
		t.Fatalf("got %d parameters, want 2", len(got.Parameters))
	}
	if got.Parameters[0].Primitive != 'I' {
		t.Errorf("got first parameter %+v", got.Parameters[0])
	}
	if got.Parameters[1].ClassName != "java/lang/String" {
		t.Errorf("got second parameter %+v", got.Parameters[1])
	}
	if got.Return.Primitive != 'V' {
		t.Errorf("got return type %+v, want void", got.Return)
	}
}

func TestParseMethodDescriptorWithReturnValue(t *testing.T) {
	got, err := ParseMethodDescriptor("()[I")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if len(got.Parameters) != 0 {
		t.Fatalf("got %d parameters, want 0", len(got.Parameters))
	}
	if got.Return.Dimensions != 1 || got.Return.Primitive != 'I' {
		t.Errorf("got return type %+v", got.Return)
	}
}
