package vals

// Array is a mutable, ordered sequence of values.
type Array struct {
	elems []any
}

// NewArray returns an Array holding the given elements. The slice is used as
// the storage of the Array.
func NewArray(elems ...any) *Array {
	return &Array{elems}
}

// MakeArray returns an Array of the given length, with all elements nil.
func MakeArray(n int) *Array {
	return &Array{make([]any, n)}
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// Get returns the element at i, which must be within [0, Len()).
func (a *Array) Get(i int) any { return a.elems[i] }

// Set stores v at index i. If i is at or beyond the end, the array is
// extended, filling the gap with nil, so that its length becomes i+1.
func (a *Array) Set(i int, v any) {
	if i >= len(a.elems) {
		a.elems = append(a.elems, make([]any, i+1-len(a.elems))...)
	}
	a.elems[i] = v
}

// Elems returns a copy of the elements.
func (a *Array) Elems() []any {
	return append([]any(nil), a.elems...)
}
