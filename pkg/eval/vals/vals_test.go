package vals

import (
	"math"
	"math/big"
	"testing"

	"src.minruby.dev/pkg/eval/errs"
)

func bigIntOf(s string) *big.Int {
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int " + s)
	}
	return z
}

func mapOf(kvs ...any) *Map {
	m := NewMap()
	for i := 0; i < len(kvs); i += 2 {
		m.Set(kvs[i], kvs[i+1])
	}
	return m
}

func TestKindAndBool(t *testing.T) {
	TestValue(t, nil).Kind("NilClass").Bool(false)
	TestValue(t, false).Kind("FalseClass").Bool(false)
	TestValue(t, true).Kind("TrueClass").Bool(true)
	TestValue(t, 0).Kind("Integer").Bool(true)
	TestValue(t, bigIntOf("100000000000000000000")).Kind("Integer").Bool(true)
	TestValue(t, 0.0).Kind("Float").Bool(true)
	TestValue(t, "").Kind("String").Bool(true)
	TestValue(t, NewArray()).Kind("Array").Bool(true)
	TestValue(t, NewMap()).Kind("Hash").Bool(true)
}

func TestEqual(t *testing.T) {
	TestValue(t, 1).Equal(1, 1.0).NotEqual(2, "1", nil, true)
	TestValue(t, 1.5).Equal(1.5).NotEqual(1)
	TestValue(t, "a").Equal("a").NotEqual("b", NewArray("a"))
	TestValue(t, nil).Equal(nil).NotEqual(false, 0)
	TestValue(t, NewArray(1, "x")).Equal(NewArray(1.0, "x")).NotEqual(NewArray(1), NewArray(1, "y"))
	TestValue(t, mapOf("a", 1)).Equal(mapOf("a", 1.0)).NotEqual(mapOf("a", 2), mapOf("b", 1), NewMap())
	TestValue(t, math.NaN()).NotEqual(math.NaN())
}

func TestEql(t *testing.T) {
	TestValue(t, 1).Eql(1).NotEql(1.0, "1")
	TestValue(t, bigIntOf("100000000000000000000")).Eql(bigIntOf("100000000000000000000")).NotEql(1)
	TestValue(t, 0.0).Eql(0.0, math.Copysign(0, -1))
	TestValue(t, "a").Eql("a")
	TestValue(t, NewArray(1, NewArray("x"))).Eql(NewArray(1, NewArray("x"))).NotEql(NewArray(1.0, NewArray("x")))
	TestValue(t, mapOf("a", 1, "b", 2)).Eql(mapOf("b", 2, "a", 1))
}

func TestEqual_RecursiveContainers(t *testing.T) {
	a, b := NewArray(nil), NewArray(nil)
	a.Set(0, a)
	b.Set(0, b)
	TestValue(t, a).Equal(b).Eql(b).NotEqual(NewArray(1))

	m, n := NewMap(), NewMap()
	m.Set("self", m)
	n.Set("self", n)
	TestValue(t, m).Equal(n).Eql(n).NotEql(mapOf("self", 1))

	// A recursive container and a different one of the same shape.
	c := NewArray(nil, 1)
	c.Set(0, c)
	TestValue(t, a).NotEqual(c)
}

func TestRepr(t *testing.T) {
	TestValue(t, nil).Repr("nil")
	TestValue(t, true).Repr("true")
	TestValue(t, -42).Repr("-42")
	TestValue(t, bigIntOf("-100000000000000000000")).Repr("-100000000000000000000")
	TestValue(t, "tab\there \"q\" \\ #{x} #y \x01 é").Repr(`"tab\there \"q\" \\ \#{x} #y \u0001 é"`)
	TestValue(t, "\xff").Repr(`"\xFF"`)
	TestValue(t, NewArray(1, "a", nil, NewArray())).Repr(`[1, "a", nil, []]`)
	TestValue(t, mapOf("a", 1, 2, NewArray(true))).Repr(`{"a"=>1, 2=>[true]}`)
	TestValue(t, NewMap()).Repr("{}")

	self := NewArray(1)
	self.Set(1, self)
	TestValue(t, self).Repr("[1, [...]]")
}

var floatReprTests = []struct {
	f    float64
	want string
}{
	{1, "1.0"},
	{-0.5, "-0.5"},
	{0, "0.0"},
	{math.Copysign(0, -1), "-0.0"},
	{100.25, "100.25"},
	{1e15, "1000000000000000.0"},
	{1e16, "1.0e+16"},
	{1.5e20, "1.5e+20"},
	{0.0001, "0.0001"},
	{0.00001, "1.0e-05"},
	{math.Inf(1), "Infinity"},
	{math.Inf(-1), "-Infinity"},
	{math.NaN(), "NaN"},
}

func TestRepr_Float(t *testing.T) {
	for _, test := range floatReprTests {
		if got := Repr(test.f); got != test.want {
			t.Errorf("Repr(%v) = %q, want %q", test.f, got, test.want)
		}
	}
}

func TestArray_SetExtendsWithNil(t *testing.T) {
	a := NewArray()
	a.Set(4, "x")
	TestValue(t, a).Repr(`[nil, nil, nil, nil, "x"]`)
	if a.Len() != 5 {
		t.Errorf("Len() = %d, want 5", a.Len())
	}
}

func TestMap_LastSetWinsAndKeepsFirstPosition(t *testing.T) {
	m := mapOf("a", 1, "b", 2, "a", 3)
	TestValue(t, m).Repr(`{"a"=>3, "b"=>2}`)
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestMap_IntegerAndFloatKeysAreDistinct(t *testing.T) {
	m := mapOf(1, "int", 1.0, "float")
	TestValue(t, m).Index(1, "int").Index(1.0, "float")
}

func TestIndex(t *testing.T) {
	a := NewArray("x", "y")
	TestValue(t, a).
		Index(0, "x").Index(1, "y").Index(-1, "y").Index(-2, "x").
		Index(2, nil).Index(10, nil).Index(-3, nil).
		Index(1.9, "y").
		Index(bigIntOf("100000000000000000000"), nil).
		IndexError("0", errs.BadIndex{Kind: "String"}).
		IndexError(nil, errs.BadIndex{Kind: "NilClass"})

	TestValue(t, mapOf("k", "v", NewArray(1), "ary")).
		Index("k", "v").Index("missing", nil).Index(NewArray(1), "ary")

	TestValue(t, "héllo").Index(1, "é").Index(-1, "o").Index(5, nil)

	TestValue(t, 42).IndexError(0, errs.NotIndexable{Kind: "Integer"})
	TestValue(t, nil).IndexError(0, errs.NotIndexable{Kind: "NilClass"})
}

func TestAssoc(t *testing.T) {
	a := NewArray(1, 2)
	if err := Assoc(a, -1, "last"); err != nil {
		t.Errorf("Assoc(-1) -> %v", err)
	}
	if err := Assoc(a, 3, "far"); err != nil {
		t.Errorf("Assoc(3) -> %v", err)
	}
	TestValue(t, a).Repr(`[1, "last", nil, "far"]`)

	err := Assoc(a, -5, 0)
	if _, ok := err.(errs.OutOfRange); !ok {
		t.Errorf("Assoc(-5) -> %v, want OutOfRange", err)
	}
	err = Assoc(a, bigIntOf("100000000000000000000"), 0)
	if _, ok := err.(errs.OutOfRange); !ok {
		t.Errorf("Assoc(huge) -> %v, want OutOfRange", err)
	}
	if err := Assoc(a, "x", 0); err != (errs.BadIndex{Kind: "String"}) {
		t.Errorf("Assoc(\"x\") -> %v, want BadIndex", err)
	}

	m := NewMap()
	if err := Assoc(m, "k", 1); err != nil {
		t.Errorf("Assoc on map -> %v", err)
	}
	TestValue(t, m).Index("k", 1)

	if err := Assoc("str", 0, "x"); err != (errs.NotIndexable{Kind: "String"}) {
		t.Errorf("Assoc on string -> %v, want NotIndexable", err)
	}
}

func TestArraysAndMapsAreSharedByReference(t *testing.T) {
	a := NewArray(1)
	alias := any(a)
	Assoc(alias, 0, 2)
	TestValue(t, a).Index(0, 2)
}
