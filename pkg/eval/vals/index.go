package vals

import (
	"math/big"
	"strconv"
	"unicode/utf8"

	"src.minruby.dev/pkg/eval/errs"
)

// Index returns the element of a container at the given key, as ary_ref does.
//
// For an *Array, the key must be an Integer (a Float is truncated). Negative
// indices count from the end. An index outside the array yields nil. For a
// *Map, the value associated with the key is returned, or nil if there is
// none. For a string, the character at the index is returned as a string, or
// nil if the index is outside the string.
func Index(a, k any) (any, error) {
	switch a := a.(type) {
	case *Array:
		i, ok, err := arrayIndex(k, a.Len())
		if err != nil || !ok {
			return nil, err
		}
		return a.elems[i], nil
	case *Map:
		v, _ := a.Index(k)
		return v, nil
	case string:
		n := utf8.RuneCountInString(a)
		i, ok, err := arrayIndex(k, n)
		if err != nil || !ok {
			return nil, err
		}
		for j, r := range []rune(a) {
			if j == i {
				return string(r), nil
			}
		}
		return nil, nil
	default:
		return nil, errs.NotIndexable{Kind: Kind(a)}
	}
}

// Assoc stores v in a container at the given key, as ary_assign does.
//
// For an *Array, writing at or beyond the end extends the array with nil so
// that its length becomes index+1; a negative index counts from the end and
// must not reach before the start. For a *Map, the key is inserted or
// overwritten.
func Assoc(a, k, v any) error {
	switch a := a.(type) {
	case *Array:
		if z, ok := k.(*big.Int); ok {
			return errs.OutOfRange{What: "array index",
				ValidLow: -a.Len(), ValidHigh: maxArrayIndex, Actual: z.String()}
		}
		i, err := intIndex(k)
		if err != nil {
			return err
		}
		if i > maxArrayIndex {
			return errs.OutOfRange{What: "array index",
				ValidLow: -a.Len(), ValidHigh: maxArrayIndex, Actual: strconv.Itoa(i)}
		}
		if i < 0 {
			if i < -a.Len() {
				return errs.OutOfRange{What: "array index",
					ValidLow: -a.Len(), ValidHigh: maxArrayIndex, Actual: strconv.Itoa(i)}
			}
			i += a.Len()
		}
		a.Set(i, v)
		return nil
	case *Map:
		a.Set(k, v)
		return nil
	default:
		return errs.NotIndexable{Kind: Kind(a)}
	}
}

// Upper bound of indices accepted by Assoc, to keep a single assignment from
// exhausting memory.
const maxArrayIndex = 1<<31 - 1

// Resolves an index for a sequence of length n. The second return value is
// false if the index is out of range.
func arrayIndex(k any, n int) (int, bool, error) {
	if _, ok := k.(*big.Int); ok {
		// Too large for any sequence.
		return 0, false, nil
	}
	i, err := intIndex(k)
	if err != nil {
		return 0, false, err
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false, nil
	}
	return i, true, nil
}

func intIndex(k any) (int, error) {
	switch k := k.(type) {
	case int:
		return k, nil
	case float64:
		if i, err := ToInt(k); err == nil {
			if i, ok := i.(int); ok {
				return i, nil
			}
		}
	}
	return 0, errs.BadIndex{Kind: Kind(k)}
}
