package classfile

import (
	"fmt"
	"strings"
)

// FieldType is a single parsed JVM field descriptor: a primitive, a class
// type, or an array of some element type.
type FieldType struct {
	Dimensions int    // 0 for a non-array type
	ClassName  string // binary name, set when the element type is a class
	Primitive  byte   // B C D F I J S Z, set when the element type is a primitive
}

func (t FieldType) String() string {
	var b strings.Builder
	for i := 0; i < t.Dimensions; i++ {
		b.WriteString("[]")
	}
	if t.ClassName != "" {
		b.WriteString(t.ClassName)
	} else {
		b.WriteByte(t.Primitive)
	}
	return b.String()
}

// ParseFieldDescriptor parses a single JVM field descriptor such as
// "[[Ljava/lang/String;" or "I".
func ParseFieldDescriptor(desc string) (FieldType, error) {
	t, rest, err := parseFieldType(desc)
	if err != nil {
		return FieldType{}, err
	}
	if rest != "" {
		return FieldType{}, fmt.Errorf("trailing data in field descriptor %q", desc)
	}
	return t, nil
}

func parseFieldType(desc string) (FieldType, string, error) {
	dims := 0
	for len(desc) > 0 && desc[0] == '[' {
		dims++
		desc = desc[1:]
	}
	if len(desc) == 0 {
		return FieldType{}, "", fmt.Errorf("empty field descriptor")
	}
	switch desc[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return FieldType{Dimensions: dims, Primitive: desc[0]}, desc[1:], nil
	case 'L':
		end := strings.IndexByte(desc, ';')
		if end < 0 {
			return FieldType{}, "", fmt.Errorf("unterminated class type in descriptor %q", desc)
		}
		return FieldType{Dimensions: dims, ClassName: desc[1:end]}, desc[end+1:], nil
	default:
		return FieldType{}, "", fmt.Errorf("bad field descriptor character %q", desc[0])
	}
}

// MethodType is a parsed JVM method descriptor: its parameter types in
// order, and its return type (Primitive == 'V' with zero dimensions for
// void).
type MethodType struct {
	Parameters []FieldType
	Return     FieldType
}

// ParseMethodDescriptor parses a method descriptor such as
// "(ILjava/lang/String;)V".
func ParseMethodDescriptor(desc string) (MethodType, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return MethodType{}, fmt.Errorf("method descriptor %q missing leading (", desc)
	}
	rest := desc[1:]
	var params []FieldType
	for len(rest) > 0 && rest[0] != ')' {
		t, next, err := parseFieldType(rest)
		if err != nil {
			return MethodType{}, err
		}
		params = append(params, t)
		rest = next
	}
	if len(rest) == 0 {
		return MethodType{}, fmt.Errorf("method descriptor %q missing closing )", desc)
	}
	rest = rest[1:]
	if rest == "V" {
		return MethodType{Parameters: params, Return: FieldType{Primitive: 'V'}}, nil
	}
	ret, tail, err := parseFieldType(rest)
	if err != nil {
		return MethodType{}, err
	}
	if tail != "" {
		return MethodType{}, fmt.Errorf("trailing data in method descriptor %q", desc)
	}
	return MethodType{Parameters: params, Return: ret}, nil
}
