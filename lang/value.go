package lang

import (
	"math"
	"strconv"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeCallable

	// TypeUninitialized marks a declared variable that was never assigned.
	// It never escapes a variable read.
	TypeUninitialized
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeCallable:
		return "callable"
	case TypeUninitialized:
		return "uninitialized"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Null is the language's null value.
var Null = Value{Type: TypeNull}

// Uninitialized is bound by var declarations without an initializer.
var Uninitialized = Value{Type: TypeUninitialized}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// NumberValue constructs a numeric Value.
func NumberValue(f float64) Value {
	return Value{Type: TypeNumber, payload: f}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// CallableValue wraps a user function or native built-in.
func CallableValue(c Callable) Value {
	return Value{Type: TypeCallable, payload: c}
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Number() float64 {
	if f, ok := v.payload.(float64); ok {
		return f
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

func (v Value) Callable() Callable {
	if c, ok := v.payload.(Callable); ok {
		return c
	}
	return nil
}

func (v Value) String() string {
	return Stringify(v)
}

// IsTruthy maps any value to a condition: null and false are false,
// everything else (including 0 and "") is true.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeNull:
		return false
	case TypeBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares two values. Values of different types are never equal;
// callables compare by identity.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNull, TypeUninitialized:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeNumber:
		return a.Number() == b.Number()
	case TypeString:
		return a.Str() == b.Str()
	case TypeCallable:
		return a.Callable() == b.Callable()
	default:
		return false
	}
}

// Stringify renders a value the way print shows it. Integral numbers drop
// their fractional part: 3.0 prints as 3.
func Stringify(v Value) string {
	switch v.Type {
	case TypeNull:
		return "null"
	case TypeBool:
		return strconv.FormatBool(v.Bool())
	case TypeNumber:
		return formatNumber(v.Number())
	case TypeString:
		return v.Str()
	case TypeCallable:
		if c := v.Callable(); c != nil {
			return c.String()
		}
		return "<fn>"
	case TypeUninitialized:
		return "<uninitialized>"
	default:
		return "<unknown>"
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); f == 0 || (abs >= 1e-4 && abs < 1e16) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}
