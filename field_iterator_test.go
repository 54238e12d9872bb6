package classfile

import "testing"

func TestFieldAnnotationRoundTrip(t *testing.T) {
	b := newClassBuilder()
	b.setThis("com/example/Minimal")
	b.setSuper("java/lang/Object")

	descIdx := b.addUtf8("Lcom/example/Flag;")
	nameIdx := b.addUtf8("value")
	intIdx := b.addInteger(42)

	var annBody []byte
	annBody = append(annBody, u16bytes(descIdx)...)
	annBody = append(annBody, u16bytes(1)...) // one element-value pair
	annBody = append(annBody, u16bytes(nameIdx)...)
	annBody = append(annBody, 'I')
	annBody = append(annBody, u16bytes(intIdx)...)

	var attrBody []byte
	attrBody = append(attrBody, u16bytes(1)...) // one annotation
	attrBody = append(attrBody, annBody...)

	attrNameIdx := b.addUtf8("RuntimeVisibleAnnotations")
	b.fields = append(b.fields, memberFixture{
		access:    0x0001,
		nameIndex: b.addUtf8("flagged"),
		descIndex: b.addUtf8("I"),
		attrs:     []attrFixture{{nameIndex: attrNameIdx, data: attrBody}},
	})

	data := b.build()
	r, err := NewReader(data, 0)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	it, err := r.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}

	var fields *FieldIterator
	for fields == nil {
		ev, ok, err := it.Next()
		if err != nil || !ok {
			t.Fatalf("Next: err=%v ok=%v", err, ok)
		}
		if ev.Kind == ClassFields {
			fields = ev.Fields
		}
	}

	var sawAnnotation bool
	for {
		ev, ok, err := fields.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		if ev.Kind == FieldAnnotations {
			if len(ev.Annotations) != 1 {
				t.Fatalf("got %d annotations, want 1", len(ev.Annotations))
			}
			entry := ev.Annotations[0]
			if !entry.Visible {
				t.Error("expected RuntimeVisibleAnnotations entry to be visible")
			}
			if entry.Annotation.Descriptor != "Lcom/example/Flag;" {
				t.Errorf("got descriptor %q", entry.Annotation.Descriptor)
			}
			if len(entry.Annotation.Values) != 1 || entry.Annotation.Values[0].Name != "value" {
				t.Fatalf("got values %+v", entry.Annotation.Values)
			}
			if entry.Annotation.Values[0].Value.IntValue != 42 {
				t.Errorf("got int value %d, want 42", entry.Annotation.Values[0].Value.IntValue)
			}
			sawAnnotation = true
		}
	}
	if !sawAnnotation {
		t.Fatal("never saw FieldAnnotations event")
	}
}
