package ast

import (
	"errors"
	"math/big"
	"testing"

	"src.minruby.dev/pkg/diag"
	"src.minruby.dev/pkg/must"
)

func lit(v any) Node { return must.OK1(NewLit(v)) }

func TestNewLit_RejectsTypesOutsideTheValueSet(t *testing.T) {
	for _, v := range []any{nil, true, 1, big.NewInt(1), 1.5, "x"} {
		if _, err := NewLit(v); err != nil {
			t.Errorf("NewLit(%v) -> error %v, want nil", v, err)
		}
	}
	for _, v := range []any{int64(1), []int{1}, struct{}{}} {
		_, err := NewLit(v)
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) || shapeErr.Tag != TagLit {
			t.Errorf("NewLit(%T) -> error %v, want *ShapeError for lit", v, err)
		}
	}
}

func TestNewBinary(t *testing.T) {
	for _, op := range ArithOps {
		n := must.OK1(NewBinary(op, lit(1), lit(2)))
		if a, ok := n.(*Arith); !ok || a.Kind() != op {
			t.Errorf("NewBinary(%q) -> %#v, want *Arith", op, n)
		}
	}
	for _, op := range CompareOps {
		n := must.OK1(NewBinary(op, lit(1), lit(2)))
		if c, ok := n.(*Compare); !ok || c.Kind() != op {
			t.Errorf("NewBinary(%q) -> %#v, want *Compare", op, n)
		}
	}
	if _, err := NewBinary("**", lit(1), lit(2)); err == nil {
		t.Errorf("NewBinary(**) -> nil error, want error")
	}
	if _, err := NewBinary("+", lit(1), nil); err == nil {
		t.Errorf("NewBinary with missing operand -> nil error, want error")
	}
}

var shapeErrorTests = []struct {
	name string
	f    func() error
}{
	{"stmts with nil", func() error { _, err := NewStmts(lit(1), nil); return err }},
	{"var_assign without value", func() error { _, err := NewVarAssign("x", nil); return err }},
	{"if without condition", func() error { _, err := NewIf(nil, lit(1), nil); return err }},
	{"while without body", func() error { _, err := NewWhile(lit(true), nil); return err }},
	{"func_call without name", func() error { _, err := NewFuncCall("", lit(1)); return err }},
	{"func_def with duplicated params", func() error {
		_, err := NewFuncDef("f", []string{"a", "a"}, lit(nil))
		return err
	}},
	{"ary_ref without index", func() error { _, err := NewAryRef(lit(nil), nil); return err }},
	{"ary_assign without value", func() error { _, err := NewAryAssign(lit(nil), lit(0), nil); return err }},
	{"hash_new with odd operands", func() error { _, err := NewHashNew(lit("a")); return err }},
}

func TestConstructors_ReportShapeErrors(t *testing.T) {
	for _, test := range shapeErrorTests {
		t.Run(test.name, func(t *testing.T) {
			err := test.f()
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Errorf("got error %v, want *ShapeError", err)
			}
		})
	}
}

func TestIf_AllowsMissingBranches(t *testing.T) {
	n := must.OK1(NewIf(lit(true), nil, nil))
	if n.Then != nil || n.Else != nil {
		t.Errorf("branches = %v, %v, want nil, nil", n.Then, n.Else)
	}
}

func TestAt(t *testing.T) {
	n := NewVarRef("x")
	if n.Range() != diag.NoRanging {
		t.Errorf("fresh node has range %v, want %v", n.Range(), diag.NoRanging)
	}
	At(diag.Ranging{From: 3, To: 4}, n)
	if want := (diag.Ranging{From: 3, To: 4}); n.Range() != want {
		t.Errorf("range after At = %v, want %v", n.Range(), want)
	}
}

func TestDump(t *testing.T) {
	body := must.OK1(NewBinary("+", NewVarRef("a"), lit(1.0)))
	def := must.OK1(NewFuncDef("inc", []string{"a"}, body))
	call := must.OK1(NewFuncCall("p", must.OK1(NewFuncCall("inc", lit(41)))))
	ary := must.OK1(NewAryNew(lit(nil), lit(true), lit("s\n")))
	hash := must.OK1(NewHashNew(lit("k"), lit(big.NewInt(7))))
	cond := must.OK1(NewIf(lit(false), ary, nil))
	unknown := NewUnknown("yield", lit(1), []string{"x"})
	stmts := must.OK1(NewStmts(def, call, hash, cond, unknown))

	want := `["stmts", ` +
		`["func_def", "inc", ["a"], ["+", ["var_ref", "a"], ["lit", 1.0]]], ` +
		`["func_call", "p", ["func_call", "inc", ["lit", 41]]], ` +
		`["hash_new", ["lit", "k"], ["lit", 7]], ` +
		`["if", ["lit", false], ["ary_new", ["lit", nil], ["lit", true], ["lit", "s\n"]], nil], ` +
		`["yield", ["lit", 1], ["x"]]]`
	if got := Dump(stmts); got != want {
		t.Errorf("Dump ->\n%s\nwant\n%s", got, want)
	}
}
