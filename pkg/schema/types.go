package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Type parses one raw string value.
type Type interface {
	// Name returns the type string, e.g. "int" or "[string]".
	Name() string
	// Parse converts raw into the typed value.
	Parse(raw string) (any, error)
}

// StringType accepts any value.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Parse(raw string) (any, error) { return raw, nil }

// IntType parses base 10 integers.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Parse(raw string) (any, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expected int")
	}
	return v, nil
}

// FloatType parses floating-point numbers.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Parse(raw string) (any, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("expected float")
	}
	return v, nil
}

// BoolType parses the forms strconv.ParseBool accepts.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Parse(raw string) (any, error) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("expected bool")
	}
	return v, nil
}

// SliceType parses comma separated elements.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Parse(raw string) (any, error) {
	if raw == "" {
		return []any{}, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		v, err := t.elemType.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// OptionalType marks a field that may be absent.
type OptionalType struct {
	Type
}

func (t *OptionalType) Name() string { return t.Type.Name() + "?" }

// CustomType applies a user-defined parser.
type CustomType struct {
	name  string
	parse func(string) (any, error)
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Parse(raw string) (any, error) { return t.parse(raw) }

// String creates a string type.
func String() Type { return &StringType{} }

// Int creates an integer type.
func Int() Type { return &IntType{} }

// Float creates a float type.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// Slice creates a list type for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Optional lets the field be absent.
func Optional(t Type) Type {
	if _, ok := t.(*OptionalType); ok {
		return t
	}
	return &OptionalType{Type: t}
}

// Custom creates a type with a user-defined parser.
func Custom(name string, parse func(string) (any, error)) Type {
	return &CustomType{name: name, parse: parse}
}

func isOptional(t Type) bool {
	_, ok := t.(*OptionalType)
	return ok
}

// ParseType converts a type string to a Type.
// Supports "string", "int", "float", "bool", "[T]" and a trailing "?".
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)
	if base, ok := strings.CutSuffix(typeStr, "?"); ok {
		t, err := ParseType(base)
		if err != nil {
			return nil, err
		}
		return Optional(t), nil
	}

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		if isOptional(elemType) {
			return nil, fmt.Errorf("unsupported type: %s", typeStr)
		}
		return Slice(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema, len(typeMap))
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
