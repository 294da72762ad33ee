package vals

import (
	"github.com/xiaq/persistent/hashmap"
)

// Map is a mutable mapping from values to values, with keys compared by Eql.
// It remembers the order in which keys were first inserted, which is the order
// Repr shows them in.
type Map struct {
	m    hashmap.Map
	keys []any
}

var emptyMap = hashmap.New(Eql, Hash)

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{m: emptyMap}
}

// Len returns the number of entries.
func (m *Map) Len() int { return m.m.Len() }

// Index returns the value associated with k and whether there is one.
func (m *Map) Index(k any) (any, bool) {
	return m.m.Index(k)
}

// Set associates k with v, replacing any earlier value.
func (m *Map) Set(k, v any) {
	if _, ok := m.m.Index(k); !ok {
		m.keys = append(m.keys, k)
	}
	m.m = m.m.Assoc(k, v)
}

// Each calls f for each entry in insertion order, stopping when f returns
// false.
func (m *Map) Each(f func(k, v any) bool) {
	for _, k := range m.keys {
		v, _ := m.m.Index(k)
		if !f(k, v) {
			return
		}
	}
}
