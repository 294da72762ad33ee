package vals

import (
	"math/big"
)

// Equal reports whether two values are equal in the sense of Ruby's ==.
// Numbers compare by numeric value across Integer and Float, arrays and
// hashes compare element by element, and values of other different kinds are
// never equal.
//
// Like in Ruby, a pair of containers that is compared again while its own
// comparison is in progress is considered equal, so recursive containers
// compare without overflowing the stack.
func Equal(x, y any) bool {
	return equal(x, y, false, nil)
}

// Eql reports whether two values are the same hash key, in the sense of
// Ruby's eql?. Unlike Equal, it never considers an Integer and a Float equal.
// Two values that are Eql have the same Hash.
func Eql(x, y any) bool {
	return equal(x, y, true, nil)
}

// A pair of containers being compared.
type comparing struct{ x, y any }

func equal(x, y any, strict bool, visiting []comparing) bool {
	if !strict && isNum(x) && isNum(y) {
		c, ok := cmpNum(x, y)
		return ok && c == 0
	}
	switch x := x.(type) {
	case nil:
		return y == nil
	case bool:
		y, ok := y.(bool)
		return ok && x == y
	case int:
		y, ok := y.(int)
		return ok && x == y
	case *big.Int:
		y, ok := y.(*big.Int)
		return ok && x.Cmp(y) == 0
	case float64:
		y, ok := y.(float64)
		return ok && x == y
	case string:
		y, ok := y.(string)
		return ok && x == y
	case *Array:
		y, ok := y.(*Array)
		if !ok {
			return false
		}
		if x == y || isComparing(visiting, x, y) {
			return true
		}
		if x.Len() != y.Len() {
			return false
		}
		visiting = append(visiting, comparing{x, y})
		for i := range x.elems {
			if !equal(x.elems[i], y.elems[i], strict, visiting) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := y.(*Map)
		if !ok {
			return false
		}
		if x == y || isComparing(visiting, x, y) {
			return true
		}
		if x.Len() != y.Len() {
			return false
		}
		visiting = append(visiting, comparing{x, y})
		eq := true
		x.Each(func(k, vx any) bool {
			vy, ok := y.Index(k)
			eq = ok && equal(vx, vy, strict, visiting)
			return eq
		})
		return eq
	default:
		return false
	}
}

func isComparing(visiting []comparing, x, y any) bool {
	for _, p := range visiting {
		if p.x == x && p.y == y {
			return true
		}
	}
	return false
}
