package object

import (
	"math"
	"strconv"
)

// IsImplicitInt reports whether a binding name follows the legacy
// implicit-integer convention: names beginning with i through n hold
// integers.
func IsImplicitInt(name string) bool {
	if name == "" {
		return false
	}
	return name[0] >= 'i' && name[0] <= 'n'
}

// AutoConvert applies the implicit-integer policy for a store to the given
// name. For implicit-integer names, digit-only strings are parsed, floats
// are truncated, and booleans become 0/1; everything else passes through
// unchanged. It runs on every store site (declaration, assignment,
// attribute assignment), never just the first.
func AutoConvert(name string, val Object) Object {
	if !IsImplicitInt(name) {
		return val
	}
	switch v := val.(type) {
	case *String:
		if n, ok := parseDigits(v.Value); ok {
			return &Integer{Value: n}
		}
	case *Float:
		return &Integer{Value: int64(v.Value)}
	case *Boolean:
		if v.Value {
			return &Integer{Value: 1}
		}
		return &Integer{Value: 0}
	}
	return val
}

func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Truthy is false only for nil and false; every other value, including 0 and
// the empty string, is true.
func Truthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return obj.Value
	default:
		return true
	}
}

// NumericValue extracts the float64 behind either numeric representation.
func NumericValue(obj Object) (float64, bool) {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value), true
	case *Float:
		return obj.Value, true
	default:
		return 0, false
	}
}

// IsWholeNumber reports whether obj is a number holding an integral
// quantity. This feeds the integral-collapsing rule for binary arithmetic.
func IsWholeNumber(obj Object) bool {
	switch obj := obj.(type) {
	case *Integer:
		return true
	case *Float:
		return obj.Value == math.Trunc(obj.Value) && !math.IsInf(obj.Value, 0) && !math.IsNaN(obj.Value)
	default:
		return false
	}
}
