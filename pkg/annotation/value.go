package annotation

import "fmt"

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindUndefined
	KindBool
	KindInt
	KindFloat
	KindString
	KindRegex
	KindArray
	KindObject
	KindRawExpression    // constructor calls and other expressions, emitted verbatim
	KindRawObjectLiteral // object literals that are not valid JSON, emitted verbatim
)

var kindNames = [...]string{
	KindNull:             "null",
	KindUndefined:        "undefined",
	KindBool:             "bool",
	KindInt:              "int",
	KindFloat:            "float",
	KindString:           "string",
	KindRegex:            "regex",
	KindArray:            "array",
	KindObject:           "object",
	KindRawExpression:    "expression",
	KindRawObjectLiteral: "object literal",
}

func (k ValueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Member is one key of an Object value. Objects keep source order.
type Member struct {
	Key   string
	Value Value
}

// Value is a parsed annotation parameter. Only the fields matching Kind are
// meaningful.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Int     int64
	Float   float64
	Str     string // string contents, regex pattern, or raw passthrough text
	Flags   string // regex flags
	Items   []Value
	Members []Member
}

func Null() Value                       { return Value{Kind: KindNull} }
func Undefined() Value                  { return Value{Kind: KindUndefined} }
func Bool(b bool) Value                 { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value                 { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value             { return Value{Kind: KindFloat, Float: f} }
func Str(s string) Value                { return Value{Kind: KindString, Str: s} }
func Regex(pattern, flags string) Value { return Value{Kind: KindRegex, Str: pattern, Flags: flags} }
func Array(items ...Value) Value        { return Value{Kind: KindArray, Items: items} }
func Object(members ...Member) Value    { return Value{Kind: KindObject, Members: members} }
func RawExpression(s string) Value      { return Value{Kind: KindRawExpression, Str: s} }
func RawObjectLiteral(s string) Value   { return Value{Kind: KindRawObjectLiteral, Str: s} }

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// Number returns the numeric value of an Int or Float.
func (v Value) Number() float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Float
}

// Get returns the member value for key in an Object.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

func (v Value) String() string {
	return formatValue(v)
}
