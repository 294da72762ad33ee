package parse_test

import (
	"math/big"
	"testing"

	"src.minruby.dev/pkg/ast"
	"src.minruby.dev/pkg/diag"
	. "src.minruby.dev/pkg/parse"
	"src.minruby.dev/pkg/tt"
)

// Parses code and returns the dump of the tree, or the message of the error.
func dump(p Parser, code string) (string, string) {
	n, err := p.Parse(Source{Name: "[test]", Code: code})
	if err != nil {
		return "", err.(*Error).Message
	}
	return ast.Dump(n), ""
}

func dumpSexp(code string) (string, string) { return dump(Sexp, code) }

func TestSexp(t *testing.T) {
	tt.Test(t, tt.Fn("dumpSexp", dumpSexp), tt.Table{
		// Literals
		tt.Args(`["lit", 1]`).Rets(`["lit", 1]`, ""),
		tt.Args(`["lit", -3]`).Rets(`["lit", -3]`, ""),
		tt.Args(`["lit", 1.5]`).Rets(`["lit", 1.5]`, ""),
		tt.Args(`["lit", "foo"]`).Rets(`["lit", "foo"]`, ""),
		tt.Args(`["lit", "a\nb"]`).Rets(`["lit", "a\nb"]`, ""),
		tt.Args(`["lit", true]`).Rets(`["lit", true]`, ""),
		tt.Args(`["lit", false]`).Rets(`["lit", false]`, ""),
		tt.Args(`["lit", 100000000000000000000]`).
			Rets(`["lit", 100000000000000000000]`, ""),
		// All spellings of nil.
		tt.Args(`["lit", nil]`).Rets(`["lit", nil]`, ""),
		tt.Args(`["lit", null]`).Rets(`["lit", nil]`, ""),
		tt.Args(`["lit", ~]`).Rets(`["lit", nil]`, ""),
		// Quoted scalars are always strings.
		tt.Args(`["lit", "nil"]`).Rets(`["lit", "nil"]`, ""),
		tt.Args(`["lit", "1"]`).Rets(`["lit", "1"]`, ""),

		// Operators
		tt.Args(`["+", ["lit", 1], ["lit", 2]]`).
			Rets(`["+", ["lit", 1], ["lit", 2]]`, ""),
		tt.Args(`["<=", ["var_ref", "x"], ["lit", 2]]`).
			Rets(`["<=", ["var_ref", "x"], ["lit", 2]]`, ""),

		// Statements and control flow
		tt.Args(`["stmts"]`).Rets(`["stmts"]`, ""),
		tt.Args(`["stmts", ["var_assign", "x", ["lit", 1]], ["var_ref", "x"]]`).
			Rets(`["stmts", ["var_assign", "x", ["lit", 1]], ["var_ref", "x"]]`, ""),
		tt.Args(`["if", ["lit", true], ["lit", 1], nil]`).
			Rets(`["if", ["lit", true], ["lit", 1], nil]`, ""),
		tt.Args(`["if", ["lit", true], ["lit", 1]]`).
			Rets(`["if", ["lit", true], ["lit", 1], nil]`, ""),
		tt.Args(`["while", ["lit", false], ["stmts"]]`).
			Rets(`["while", ["lit", false], ["stmts"]]`, ""),

		// Functions
		tt.Args(`["func_call", "p", ["lit", 1], ["lit", 2]]`).
			Rets(`["func_call", "p", ["lit", 1], ["lit", 2]]`, ""),
		tt.Args(`["func_def", "f", ["a", "b"], ["var_ref", "a"]]`).
			Rets(`["func_def", "f", ["a", "b"], ["var_ref", "a"]]`, ""),
		tt.Args(`["func_def", "f", [], ["stmts"]]`).
			Rets(`["func_def", "f", [], ["stmts"]]`, ""),

		// Containers
		tt.Args(`["ary_new", ["lit", 1], ["lit", 2]]`).
			Rets(`["ary_new", ["lit", 1], ["lit", 2]]`, ""),
		tt.Args(`["ary_ref", ["var_ref", "a"], ["lit", 0]]`).
			Rets(`["ary_ref", ["var_ref", "a"], ["lit", 0]]`, ""),
		tt.Args(`["ary_assign", ["var_ref", "a"], ["lit", 0], ["lit", 5]]`).
			Rets(`["ary_assign", ["var_ref", "a"], ["lit", 0], ["lit", 5]]`, ""),
		tt.Args(`["hash_new", ["lit", "k"], ["lit", 1]]`).
			Rets(`["hash_new", ["lit", "k"], ["lit", 1]]`, ""),

		// Unknown tags are kept, not rejected.
		tt.Args(`["while2", ["lit", 1], ["lit", 2]]`).
			Rets(`["while2", ["lit", 1], ["lit", 2]]`, ""),
		tt.Args(`["foo", 1, "x", [1, 2]]`).
			Rets(`["foo", 1, "x", [1, 2]]`, ""),

		// Block style YAML works too.
		tt.Args("- func_call\n- p\n- - lit\n  - 1\n").
			Rets(`["func_call", "p", ["lit", 1]]`, ""),
		// Empty input is an empty program.
		tt.Args("").Rets(`["stmts"]`, ""),

		// Errors
		tt.Args(`["lit"]`).Rets("", "lit node should have 1 operands, got 0"),
		tt.Args(`["+", ["lit", 1]]`).Rets("", "+ node should have 2 operands, got 1"),
		tt.Args(`["if", ["lit", 1]]`).Rets("", "if node should have 2 to 3 operands, got 1"),
		tt.Args(`["func_call"]`).Rets("", "func_call node should have a name"),
		tt.Args(`["var_ref", ["lit", 1]]`).Rets("", "should be a string, got list"),
		tt.Args(`[]`).Rets("", "should be a node, got empty list"),
		tt.Args(`1`).Rets("", `should be a node, got scalar "1"`),
		tt.Args(`["stmts", nil]`).Rets("", "should be a node, got nil"),
		tt.Args(`["lit", [1]]`).Rets("", "should be a literal, got list"),
		tt.Args(`["hash_new", ["lit", 1]]`).
			Rets("", "malformed hash_new node: odd number of key/value operands (1)"),
		tt.Args(`["func_def", "f", ["a", "a"], ["stmts"]]`).
			Rets("", "malformed func_def node: duplicated parameter a"),
	})
}

func TestSexp_BigIntLiteral(t *testing.T) {
	n, err := Sexp.Parse(Source{Name: "[test]", Code: `["lit", 18446744073709551616]`})
	if err != nil {
		t.Fatal(err)
	}
	want := new(big.Int).Lsh(big.NewInt(1), 64)
	if got := n.(*ast.Lit).Value; got.(*big.Int).Cmp(want) != 0 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSexp_Ranges(t *testing.T) {
	code := "[\"stmts\",\n  [\"func_call\", \"p\", [\"lit\", 1]]]"
	n, err := Sexp.Parse(Source{Name: "[test]", Code: code})
	if err != nil {
		t.Fatal(err)
	}
	call := n.(*ast.Stmts).Body[0]
	if got := code[call.Range().From:call.Range().To]; got != `["func_call", "p", ["lit", 1]]` {
		t.Errorf("call spans %q", got)
	}
	lit := call.(*ast.FuncCall).Args[0]
	if got := code[lit.Range().From:lit.Range().To]; got != `["lit", 1]` {
		t.Errorf("lit spans %q", got)
	}
}

func TestSexp_ErrorContext(t *testing.T) {
	code := "[\"stmts\",\n  [\"lit\"]]"
	_, err := Sexp.Parse(Source{Name: "a.json", Code: code})
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("got error %v, want *Error", err)
	}
	if e.Type != "parse error" {
		t.Errorf("got type %q", e.Type)
	}
	if got := e.Context.Describe(); got != "a.json:2:3" {
		t.Errorf("got position %q, want a.json:2:3", got)
	}
	if got := e.Range(); got != (diag.Ranging{From: 12, To: 19}) {
		t.Errorf("got range %v", got)
	}
}

func TestSexp_SyntaxError(t *testing.T) {
	_, err := Sexp.Parse(Source{Name: "[test]", Code: `["lit", 1`})
	if _, ok := err.(*Error); !ok {
		t.Errorf("got error %v, want *Error", err)
	}
}
