package tabjson

import "strconv"

// Kind discriminates the scalar value variants.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	default:
		return "unknown"
	}
}

// Value is a decoded JSON scalar. Only the field matching the kind is
// valid; string values have escape sequences already resolved.
type Value struct {
	kind     Kind
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
}

// Null creates a null value.
func Null() Value { return Value{kind: KindNull} }

// Bool creates a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, boolVal: v} }

// Int creates an integer value.
func Int(v int64) Value { return Value{kind: KindInt, intVal: v} }

// Float creates a float value.
func Float(v float64) Value { return Value{kind: KindFloat, floatVal: v} }

// Str creates a string value.
func Str(v string) Value { return Value{kind: KindStr, strVal: v} }

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true for the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean value, false if the kind does not match.
func (v Value) AsBool() (bool, bool) { return v.boolVal, v.kind == KindBool }

// AsInt returns the integer value, false if the kind does not match.
func (v Value) AsInt() (int64, bool) { return v.intVal, v.kind == KindInt }

// AsFloat returns the float value, false if the kind does not match.
func (v Value) AsFloat() (float64, bool) { return v.floatVal, v.kind == KindFloat }

// AsStr returns the string value, false if the kind does not match.
func (v Value) AsStr() (string, bool) { return v.strVal, v.kind == KindStr }

// Number returns a numeric value as float64 if int or float.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.intVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// Text renders any non-null scalar as its canonical text form.
// Used when a value lands in a Utf8 column.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.boolVal), true
	case KindInt:
		return strconv.FormatInt(v.intVal, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64), true
	case KindStr:
		return v.strVal, true
	default:
		return "", false
	}
}
