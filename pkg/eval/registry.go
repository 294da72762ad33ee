package eval

import (
	"maps"
	"slices"

	"src.minruby.dev/pkg/ast"
)

// FuncDef is a user-defined function.
type FuncDef struct {
	Name   string
	Params []string
	Body   ast.Node
}

// Registry holds the user-defined functions of one run of a program. It is
// only written by evaluating func_def nodes, and is shared by all the calls
// made during the run.
type Registry struct {
	fns map[string]*FuncDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{map[string]*FuncDef{}}
}

// Define adds a function, replacing any earlier definition with the same
// name. It reports whether a definition was replaced.
func (r *Registry) Define(fn *FuncDef) bool {
	_, replaced := r.fns[fn.Name]
	r.fns[fn.Name] = fn
	return replaced
}

// Lookup finds a function by name.
func (r *Registry) Lookup(name string) (*FuncDef, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns the names of all defined functions, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.fns))
}
