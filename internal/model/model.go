package model

// FieldKind classifies where a field's type comes from.
type FieldKind string

const (
	KindScalar FieldKind = "scalar"
	KindEnum   FieldKind = "enum"
	KindObject FieldKind = "object"
)

// Scalar type tags understood by the base-type resolver and the method table.
const (
	TypeString   = "String"
	TypeInt      = "Int"
	TypeBigInt   = "BigInt"
	TypeFloat    = "Float"
	TypeDecimal  = "Decimal"
	TypeBoolean  = "Boolean"
	TypeDateTime = "DateTime"
	TypeJSON     = "Json"
	TypeBytes    = "Bytes"
)

type Field struct {
	Name          string    `json:"name" yaml:"name"`
	Type          string    `json:"type" yaml:"type"`          // scalar tag, enum name or model name
	Kind          FieldKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	IsRequired    bool      `json:"isRequired" yaml:"isRequired"`
	IsList        bool      `json:"isList" yaml:"isList"`
	Documentation string    `json:"documentation,omitempty" yaml:"documentation,omitempty"` // raw doc text, may span lines
}

type Model struct {
	Name          string   `json:"name" yaml:"name"`
	Documentation string   `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Fields        []*Field `json:"fields" yaml:"fields"`
}

type Enum struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// IsNumeric reports whether the tag is one of the numeric scalars.
func IsNumeric(fieldType string) bool {
	switch fieldType {
	case TypeInt, TypeBigInt, TypeFloat, TypeDecimal:
		return true
	}
	return false
}

// IsScalar reports whether the tag is a built-in scalar.
func IsScalar(fieldType string) bool {
	switch fieldType {
	case TypeString, TypeInt, TypeBigInt, TypeFloat, TypeDecimal,
		TypeBoolean, TypeDateTime, TypeJSON, TypeBytes:
		return true
	}
	return false
}
