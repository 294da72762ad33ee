package vals

import (
	"testing"
)

// Tester is a helper for testing properties of a value.
type Tester struct {
	t *testing.T
	v any
}

// TestValue returns a ValueTester.
func TestValue(t *testing.T, v any) Tester {
	return Tester{t, v}
}

// Kind tests the Kind of the value.
func (vt Tester) Kind(wantKind string) Tester {
	vt.t.Helper()
	kind := Kind(vt.v)
	if kind != wantKind {
		vt.t.Errorf("Kind(v) = %s, want %s", kind, wantKind)
	}
	return vt
}

// Bool tests the Bool of the value.
func (vt Tester) Bool(wantBool bool) Tester {
	vt.t.Helper()
	b := Bool(vt.v)
	if b != wantBool {
		vt.t.Errorf("Bool(v) = %v, want %v", b, wantBool)
	}
	return vt
}

// Repr tests the Repr of the value.
func (vt Tester) Repr(wantRepr string) Tester {
	vt.t.Helper()
	repr := Repr(vt.v)
	if repr != wantRepr {
		vt.t.Errorf("Repr(v) = %s, want %s", repr, wantRepr)
	}
	return vt
}

// Equal tests that the value is Equal to every of the given values.
func (vt Tester) Equal(others ...any) Tester {
	vt.t.Helper()
	for _, other := range others {
		if !Equal(vt.v, other) {
			vt.t.Errorf("Equal(v, %v) = false, want true", Repr(other))
		}
	}
	return vt
}

// NotEqual tests that the value is not Equal to any of the given values.
func (vt Tester) NotEqual(others ...any) Tester {
	vt.t.Helper()
	for _, other := range others {
		if Equal(vt.v, other) {
			vt.t.Errorf("Equal(v, %v) = true, want false", Repr(other))
		}
	}
	return vt
}

// Eql tests that the value is Eql to, and has the same Hash as, every of the
// given values.
func (vt Tester) Eql(others ...any) Tester {
	vt.t.Helper()
	for _, other := range others {
		if !Eql(vt.v, other) {
			vt.t.Errorf("Eql(v, %v) = false, want true", Repr(other))
		}
		if Hash(vt.v) != Hash(other) {
			vt.t.Errorf("Hash(v) = %v, Hash(%v) = %v, want equal",
				Hash(vt.v), Repr(other), Hash(other))
		}
	}
	return vt
}

// NotEql tests that the value is not Eql to any of the given values.
func (vt Tester) NotEql(others ...any) Tester {
	vt.t.Helper()
	for _, other := range others {
		if Eql(vt.v, other) {
			vt.t.Errorf("Eql(v, %v) = true, want false", Repr(other))
		}
	}
	return vt
}

// Index tests that Index'ing the value with the given key returns the wanted
// value and no error.
func (vt Tester) Index(key, wantVal any) Tester {
	vt.t.Helper()
	got, err := Index(vt.v, key)
	if err != nil {
		vt.t.Errorf("Index(v, %v) -> err %v, want nil", Repr(key), err)
	}
	if !Eql(got, wantVal) {
		vt.t.Errorf("Index(v, %v) -> %v, want %v", Repr(key), Repr(got), Repr(wantVal))
	}
	return vt
}

// IndexError tests that Index'ing the value with the given key returns the
// given error.
func (vt Tester) IndexError(key any, wantErr error) Tester {
	vt.t.Helper()
	_, err := Index(vt.v, key)
	if err != wantErr {
		vt.t.Errorf("Index(v, %v) -> err %v, want %v", Repr(key), err, wantErr)
	}
	return vt
}
