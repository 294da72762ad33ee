package vals

import (
	"math"
	"math/big"
	"strings"

	"src.minruby.dev/pkg/eval/errs"
)

// Numbers are int, *big.Int or float64. Integer results are always
// normalized: a *big.Int is only used when the value does not fit in an int.
//
// When the two operands of an arithmetic operation are both Integers, the
// result is an Integer, and division and modulo truncate toward zero. When
// either operand is a Float, the other is converted to a Float.

type numType uint8

// Precedence used for unifying number types.
const (
	fixInt numType = iota
	bigInt
	float
)

func isNum(v any) bool {
	switch v.(type) {
	case int, *big.Int, float64:
		return true
	}
	return false
}

func getNumType(n any) numType {
	switch n.(type) {
	case int:
		return fixInt
	case *big.Int:
		return bigInt
	default:
		return float
	}
}

func toBig(n any) *big.Int {
	switch n := n.(type) {
	case int:
		return big.NewInt(int64(n))
	case *big.Int:
		return n
	default:
		panic("unreachable")
	}
}

func toFloat(n any) float64 {
	switch n := n.(type) {
	case int:
		return float64(n)
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f
	case float64:
		return n
	default:
		panic("unreachable")
	}
}

// NormalizeBig returns an int if z fits in one, and z otherwise.
func NormalizeBig(z *big.Int) any {
	if z.IsInt64() {
		i64 := z.Int64()
		if i := int(i64); int64(i) == i64 {
			return i
		}
	}
	return z
}

// Arith applies one of the arithmetic operators + - * / % to two values.
//
// Besides numbers, + concatenates two strings or two arrays, and * repeats a
// string or an array a non-negative Integer number of times. No other
// combination of operands is supported; in particular numbers are never
// converted to or from strings.
func Arith(op string, a, b any) (any, error) {
	if isNum(a) && isNum(b) {
		return numArith(op, a, b)
	}
	switch a := a.(type) {
	case string:
		switch op {
		case "+":
			if b, ok := b.(string); ok {
				return a + b, nil
			}
		case "*":
			if n, ok := b.(int); ok {
				if err := checkRepeat(len(a), n); err != nil {
					return nil, err
				}
				if a == "" || n == 0 {
					return "", nil
				}
				return strings.Repeat(a, n), nil
			}
		}
	case *Array:
		switch op {
		case "+":
			if b, ok := b.(*Array); ok {
				return NewArray(append(a.Elems(), b.elems...)...), nil
			}
		case "*":
			if n, ok := b.(int); ok {
				if err := checkRepeat(len(a.elems), n); err != nil {
					return nil, err
				}
				if len(a.elems) == 0 || n == 0 {
					return NewArray(), nil
				}
				elems := make([]any, 0, len(a.elems)*n)
				for i := 0; i < n; i++ {
					elems = append(elems, a.elems...)
				}
				return NewArray(elems...), nil
			}
		}
	}
	return nil, errs.BadOperand{Op: op, Left: Kind(a), Right: Kind(b)}
}

// MaxRepeatLen is the largest length of the result of repeating a string (in
// bytes) or an array (in elements) with *.
const MaxRepeatLen = 1 << 30

// Checks the count of a repetition of something of length l.
func checkRepeat(l, n int) error {
	if n < 0 {
		return errs.BadArgument{Fn: "*", Want: "non-negative count", Got: Repr(n)}
	}
	if l > 0 && n > MaxRepeatLen/l {
		return errs.BadArgument{Fn: "*", Want: "count with a result of at most 2**30", Got: Repr(n)}
	}
	return nil
}

func numArith(op string, a, b any) (any, error) {
	typ := getNumType(a)
	if t := getNumType(b); t > typ {
		typ = t
	}
	switch typ {
	case fixInt:
		return intArith(op, a.(int), b.(int))
	case bigInt:
		return bigArith(op, toBig(a), toBig(b))
	default:
		return floatArith(op, toFloat(a), toFloat(b))
	}
}

// Operates on ints, falling back to *big.Int on overflow.
func intArith(op string, a, b int) (any, error) {
	switch op {
	case "+":
		if c := a + b; (c > a) == (b > 0) {
			return c, nil
		}
	case "-":
		if c := a - b; (c < a) == (b > 0) {
			return c, nil
		}
	case "*":
		if a == 0 || b == 0 {
			return 0, nil
		}
		if c := a * b; c/b == a && !(a == math.MinInt && b == -1) {
			return c, nil
		}
	case "/":
		if b == 0 {
			return nil, errs.ZeroDivision{}
		}
		if !(a == math.MinInt && b == -1) {
			return a / b, nil
		}
	case "%":
		if b == 0 {
			return nil, errs.ZeroDivision{}
		}
		if b == -1 {
			return 0, nil
		}
		return a % b, nil
	}
	return bigArith(op, big.NewInt(int64(a)), big.NewInt(int64(b)))
}

func bigArith(op string, a, b *big.Int) (any, error) {
	z := new(big.Int)
	switch op {
	case "+":
		z.Add(a, b)
	case "-":
		z.Sub(a, b)
	case "*":
		z.Mul(a, b)
	case "/":
		if b.Sign() == 0 {
			return nil, errs.ZeroDivision{}
		}
		z.Quo(a, b)
	case "%":
		if b.Sign() == 0 {
			return nil, errs.ZeroDivision{}
		}
		z.Rem(a, b)
	default:
		return nil, errs.BadOperand{Op: op, Left: "Integer", Right: "Integer"}
	}
	return NormalizeBig(z), nil
}

// Float arithmetic follows IEEE 754, so division by zero yields an infinity
// or NaN rather than an error.
func floatArith(op string, a, b float64) (any, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		return a / b, nil
	case "%":
		return math.Mod(a, b), nil
	default:
		return nil, errs.BadOperand{Op: op, Left: "Float", Right: "Float"}
	}
}

// Returns -1, 0 or 1 comparing two numbers. The second return value is false
// when the comparison is undefined, which happens when NaN is involved.
func cmpNum(a, b any) (int, bool) {
	typ := getNumType(a)
	if t := getNumType(b); t > typ {
		typ = t
	}
	switch typ {
	case fixInt:
		return cmpInt(a.(int), b.(int)), true
	case bigInt:
		return toBig(a).Cmp(toBig(b)), true
	default:
		x, y := toFloat(a), toFloat(b)
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		case x == y:
			return 0, true
		default:
			return 0, false
		}
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare applies one of the comparison operators == != > >= < <= to two
// values.
//
// == and != work on any two values, using Equal. The ordering operators work
// on two numbers or two strings; other operands are an error.
func Compare(op string, a, b any) (bool, error) {
	switch op {
	case "==":
		return Equal(a, b), nil
	case "!=":
		return !Equal(a, b), nil
	}
	var c int
	if isNum(a) && isNum(b) {
		var ok bool
		c, ok = cmpNum(a, b)
		if !ok {
			// Every ordering involving NaN is false.
			return false, nil
		}
	} else if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return false, errs.BadCompare{Left: Kind(a), Right: Kind(b)}
		}
		c = strings.Compare(sa, sb)
	} else {
		return false, errs.BadCompare{Left: Kind(a), Right: Kind(b)}
	}
	switch op {
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	default:
		return false, errs.BadOperand{Op: op, Left: Kind(a), Right: Kind(b)}
	}
}
