package errs

import (
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{
		UnknownNode{Kind: "yield", Node: `["yield"]`, Env: "{}"},
		"unknown node: yield",
	},
	{
		UnknownCall{Name: "puts"},
		"unknown builtin function: puts",
	},
	{
		ZeroDivision{},
		"divided by 0",
	},
	{
		BadOperand{Op: "+", Left: "Integer", Right: "String"},
		"unsupported operand kinds for +: Integer and String",
	},
	{
		BadCompare{Left: "Integer", Right: "NilClass"},
		"comparison of Integer with NilClass failed",
	},
	{
		NotIndexable{Kind: "Integer"},
		"Integer is not indexable",
	},
	{
		BadIndex{Kind: "String"},
		"no implicit conversion of String into Integer",
	},
	{
		OutOfRange{What: "array index", ValidLow: -2, ValidHigh: 1, Actual: "-3"},
		"out of range: array index must be from -2 to 1, but is -3",
	},
	{
		OutOfRange{What: "array index", ValidLow: 0, ValidHigh: -1, Actual: "-1"},
		"out of range: array index has no valid value, but is -1",
	},
	{
		BadArgument{Fn: "Integer", Want: "number, string or nil", Got: "Array"},
		"bad argument to Integer: need number, string or nil, got Array",
	},
	{
		ArityMismatch{What: "arguments of fizzbuzz", ValidLow: 1, ValidHigh: 1, Actual: 2},
		"arity mismatch: arguments of fizzbuzz must be 1 value, but is 2 values",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: -1, Actual: 1},
		"arity mismatch: arguments must be 2 or more values, but is 1 value",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 3, Actual: 1},
		"arity mismatch: arguments must be 2 to 3 values, but is 1 value",
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}
