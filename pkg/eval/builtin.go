package eval

import (
	"fmt"

	"src.minruby.dev/pkg/eval/errs"
	"src.minruby.dev/pkg/eval/vals"
)

// Builtin is a function implemented in Go. It is called with the values of
// the arguments, already evaluated from left to right.
type Builtin func(ev *Evaler, args []any) (any, error)

// The builtin functions. User-defined functions with the same name take
// precedence.
var builtins = map[string]Builtin{
	"p":        p,
	"Integer":  integer,
	"fizzbuzz": fizzbuzz,
}

// IsBuiltin reports whether name is a builtin function.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Writes the inspect form of each argument on its own line. Like in Ruby, it
// returns nil when called without arguments, the argument when called with
// one, and an array of the arguments otherwise.
func p(ev *Evaler, args []any) (any, error) {
	for _, arg := range args {
		if _, err := fmt.Fprintln(ev.Stdout, vals.Repr(arg)); err != nil {
			return nil, err
		}
	}
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		return args[0], nil
	default:
		return vals.NewArray(args...), nil
	}
}

func integer(ev *Evaler, args []any) (any, error) {
	if err := checkArity("Integer", args, 1); err != nil {
		return nil, err
	}
	return vals.ToInt(args[0])
}

func fizzbuzz(ev *Evaler, args []any) (any, error) {
	if err := checkArity("fizzbuzz", args, 1); err != nil {
		return nil, err
	}
	n := args[0]
	if vals.Kind(n) != "Integer" {
		return nil, errs.BadArgument{Fn: "fizzbuzz", Want: "Integer", Got: vals.Kind(n)}
	}
	divisible := func(d int) bool {
		r, _ := vals.Arith("%", n, d)
		return r == 0
	}
	switch {
	case divisible(15):
		return "fizzbuzz", nil
	case divisible(3):
		return "fizz", nil
	case divisible(5):
		return "buzz", nil
	default:
		return n, nil
	}
}

func checkArity(fn string, args []any, n int) error {
	if len(args) != n {
		return errs.ArityMismatch{
			What: "arguments of " + fn, ValidLow: n, ValidHigh: n, Actual: len(args)}
	}
	return nil
}
