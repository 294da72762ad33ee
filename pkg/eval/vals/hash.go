package vals

import (
	"math"
	"math/big"

	"github.com/xiaq/persistent/hash"
)

// Hash returns the 32-bit hash of a value, consistent with Eql. A container
// nested inside itself contributes a fixed value at the point of recursion.
func Hash(v any) uint32 {
	return hashOf(v, nil)
}

// Fixed hashes of a container reached again while it is being hashed.
const (
	recursiveArrayHash uint32 = 3
	recursiveMapHash   uint32 = 4
)

func hashOf(v any, visiting []any) uint32 {
	switch v := v.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 2
		}
		return 1
	case int:
		return hash.UIntPtr(uintptr(v))
	case *big.Int:
		h := hash.DJBCombine(hash.DJBInit, uint32(v.Sign()))
		for _, word := range v.Bits() {
			h = hash.DJBCombine(h, hash.UIntPtr(uintptr(word)))
		}
		return h
	case float64:
		if v == 0 {
			// 0.0 and -0.0 are Eql.
			v = 0
		}
		return hash.UInt64(math.Float64bits(v))
	case string:
		return hash.String(v)
	case *Array:
		if isVisiting(visiting, v) {
			return recursiveArrayHash
		}
		visiting = append(visiting, v)
		h := hash.DJBInit
		for _, e := range v.elems {
			h = hash.DJBCombine(h, hashOf(e, visiting))
		}
		return h
	case *Map:
		// Combine the entries by summing, so that the result does not depend
		// on the insertion order.
		if isVisiting(visiting, v) {
			return recursiveMapHash
		}
		visiting = append(visiting, v)
		var h uint32
		v.Each(func(k, e any) bool {
			h += hash.DJB(hashOf(k, visiting), hashOf(e, visiting))
			return true
		})
		return h
	default:
		return 0
	}
}
