package eval

import (
	"maps"
	"slices"
	"strings"

	"src.minruby.dev/pkg/eval/vals"
)

// Env maps variable names to their values. The top level of a program has one
// Env, and every call of a user-defined function gets a fresh one that holds
// only its parameters.
//
// Looking up an absent name gives nil, which is the value of an unassigned
// variable.
type Env map[string]any

// Dump returns a representation of the variables in env, sorted by name, in
// the form of a Ruby hash like {"x"=>1, "y"=>nil}.
func (env Env) Dump() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range slices.Sorted(maps.Keys(env)) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(vals.Repr(name) + "=>" + vals.Repr(env[name]))
	}
	sb.WriteString("}")
	return sb.String()
}
