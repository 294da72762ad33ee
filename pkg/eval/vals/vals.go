// Package vals contains basic facilities for manipulating values used in the
// MinRuby runtime.
//
// MinRuby values are native Go values from a closed set:
//
//   - nil is Ruby's nil
//   - bool is true and false
//   - int is an Integer that fits in a machine word; larger Integers are
//     *big.Int, and results are always normalized back to int when they fit
//   - float64 is a Float
//   - string is a String
//   - *Array is an Array
//   - *Map is a Hash
//
// Arrays and hashes are reference values: copying one shares the underlying
// storage.
package vals

import (
	"fmt"
	"math/big"
)

// Kind returns the Ruby class name of the value.
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "NilClass"
	case bool:
		if v {
			return "TrueClass"
		}
		return "FalseClass"
	case int, *big.Int:
		return "Integer"
	case float64:
		return "Float"
	case string:
		return "String"
	case *Array:
		return "Array"
	case *Map:
		return "Hash"
	default:
		return fmt.Sprintf("!!%T", v)
	}
}

// Bool converts a value to bool. Only nil and false are falsy; every other
// value, including 0, "" and empty containers, is truthy.
func Bool(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}
