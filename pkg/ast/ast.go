// Package ast defines the abstract syntax tree of MinRuby programs.
//
// The tree uses a closed vocabulary of node kinds. Each kind has its own
// struct with typed fields, and the constructors check the shape of a node
// once, so that the evaluator can dispatch on the node type without further
// validation. Front ends are free to attach source ranges with At.
//
// Trees are immutable once built.
package ast

import (
	"fmt"
	"math/big"

	"src.minruby.dev/pkg/diag"
)

// Node is a node of the AST. The set of implementations is closed; all of
// them are defined in this package.
type Node interface {
	diag.Ranger
	// Kind returns the tag of the node, like "lit" or "func_call".
	Kind() string
	setRange(diag.Ranging)
}

// Embedded in all node types.
type base struct{ diag.Ranging }

func (b *base) setRange(r diag.Ranging) { b.Ranging = r }

func newBase() base { return base{diag.NoRanging} }

// At sets the source range of n and returns it.
func At[N Node](r diag.Ranger, n N) N {
	n.setRange(r.Range())
	return n
}

// Tags of all the node kinds.
const (
	TagLit       = "lit"
	TagStmts     = "stmts"
	TagVarRef    = "var_ref"
	TagVarAssign = "var_assign"
	TagIf        = "if"
	TagWhile     = "while"
	TagFuncCall  = "func_call"
	TagFuncDef   = "func_def"
	TagAryNew    = "ary_new"
	TagAryRef    = "ary_ref"
	TagAryAssign = "ary_assign"
	TagHashNew   = "hash_new"
)

// ArithOps and CompareOps list the binary operators, which double as the
// tags of Arith and Compare nodes.
var (
	ArithOps   = []string{"+", "-", "*", "/", "%"}
	CompareOps = []string{"==", "!=", ">", ">=", "<", "<="}
)

// IsArithOp reports whether op is an arithmetic operator.
func IsArithOp(op string) bool { return contains(ArithOps, op) }

// IsCompareOp reports whether op is a comparison operator.
func IsCompareOp(op string) bool { return contains(CompareOps, op) }

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// ShapeError is returned by the constructors when the operands of a node
// do not have the required shape.
type ShapeError struct {
	Tag    string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed %s node: %s", e.Tag, e.Reason)
}

func shapeErrorf(tag, format string, args ...any) error {
	return &ShapeError{tag, fmt.Sprintf(format, args...)}
}

func requireChildren(tag string, names []string, nodes ...Node) error {
	for i, n := range nodes {
		if n == nil {
			return shapeErrorf(tag, "missing %s", names[i])
		}
	}
	return nil
}

// Lit is a literal. Value is one of nil, bool, int, *big.Int, float64 and
// string.
type Lit struct {
	base
	Value any
}

// NewLit returns a literal node.
func NewLit(v any) (*Lit, error) {
	switch v.(type) {
	case nil, bool, int, *big.Int, float64, string:
		return &Lit{newBase(), v}, nil
	default:
		return nil, shapeErrorf(TagLit, "unsupported literal type %T", v)
	}
}

// Arith is a binary arithmetic operation.
type Arith struct {
	base
	Op          string
	Left, Right Node
}

// Compare is a binary comparison.
type Compare struct {
	base
	Op          string
	Left, Right Node
}

// NewBinary returns an *Arith or *Compare node depending on op.
func NewBinary(op string, left, right Node) (Node, error) {
	if err := requireChildren(op, []string{"left operand", "right operand"}, left, right); err != nil {
		return nil, err
	}
	switch {
	case IsArithOp(op):
		return &Arith{newBase(), op, left, right}, nil
	case IsCompareOp(op):
		return &Compare{newBase(), op, left, right}, nil
	default:
		return nil, shapeErrorf(op, "unknown operator")
	}
}

// Stmts is a sequence of statements.
type Stmts struct {
	base
	Body []Node
}

// NewStmts returns a statement sequence.
func NewStmts(body ...Node) (*Stmts, error) {
	for i, n := range body {
		if n == nil {
			return nil, shapeErrorf(TagStmts, "statement %d is missing", i)
		}
	}
	return &Stmts{newBase(), body}, nil
}

// VarRef reads a variable.
type VarRef struct {
	base
	Name string
}

// NewVarRef returns a variable reference.
func NewVarRef(name string) *VarRef { return &VarRef{newBase(), name} }

// VarAssign writes a variable.
type VarAssign struct {
	base
	Name  string
	Value Node
}

// NewVarAssign returns a variable assignment.
func NewVarAssign(name string, value Node) (*VarAssign, error) {
	if err := requireChildren(TagVarAssign, []string{"value"}, value); err != nil {
		return nil, err
	}
	return &VarAssign{newBase(), name, value}, nil
}

// If is a conditional. Then and Else may be nil, standing for a branch that
// evaluates to nil.
type If struct {
	base
	Cond       Node
	Then, Else Node
}

// NewIf returns a conditional.
func NewIf(cond, then, els Node) (*If, error) {
	if err := requireChildren(TagIf, []string{"condition"}, cond); err != nil {
		return nil, err
	}
	return &If{newBase(), cond, then, els}, nil
}

// While is a loop.
type While struct {
	base
	Cond, Body Node
}

// NewWhile returns a loop.
func NewWhile(cond, body Node) (*While, error) {
	if err := requireChildren(TagWhile, []string{"condition", "body"}, cond, body); err != nil {
		return nil, err
	}
	return &While{newBase(), cond, body}, nil
}

// FuncCall calls a user-defined or builtin function.
type FuncCall struct {
	base
	Name string
	Args []Node
}

// NewFuncCall returns a function call.
func NewFuncCall(name string, args ...Node) (*FuncCall, error) {
	if name == "" {
		return nil, shapeErrorf(TagFuncCall, "empty function name")
	}
	for i, n := range args {
		if n == nil {
			return nil, shapeErrorf(TagFuncCall, "argument %d is missing", i)
		}
	}
	return &FuncCall{newBase(), name, args}, nil
}

// FuncDef defines a function.
type FuncDef struct {
	base
	Name   string
	Params []string
	Body   Node
}

// NewFuncDef returns a function definition. Parameter names must be unique.
func NewFuncDef(name string, params []string, body Node) (*FuncDef, error) {
	if name == "" {
		return nil, shapeErrorf(TagFuncDef, "empty function name")
	}
	if err := requireChildren(TagFuncDef, []string{"body"}, body); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p] {
			return nil, shapeErrorf(TagFuncDef, "duplicated parameter %s", p)
		}
		seen[p] = true
	}
	return &FuncDef{newBase(), name, params, body}, nil
}

// AryNew builds an array.
type AryNew struct {
	base
	Elems []Node
}

// NewAryNew returns an array constructor.
func NewAryNew(elems ...Node) (*AryNew, error) {
	for i, n := range elems {
		if n == nil {
			return nil, shapeErrorf(TagAryNew, "element %d is missing", i)
		}
	}
	return &AryNew{newBase(), elems}, nil
}

// AryRef reads an element of an array or a hash.
type AryRef struct {
	base
	Ary, Index Node
}

// NewAryRef returns an element reference.
func NewAryRef(ary, index Node) (*AryRef, error) {
	if err := requireChildren(TagAryRef, []string{"receiver", "index"}, ary, index); err != nil {
		return nil, err
	}
	return &AryRef{newBase(), ary, index}, nil
}

// AryAssign writes an element of an array or a hash.
type AryAssign struct {
	base
	Ary, Index, Value Node
}

// NewAryAssign returns an element assignment.
func NewAryAssign(ary, index, value Node) (*AryAssign, error) {
	if err := requireChildren(TagAryAssign, []string{"receiver", "index", "value"}, ary, index, value); err != nil {
		return nil, err
	}
	return &AryAssign{newBase(), ary, index, value}, nil
}

// HashNew builds a hash. Pairs holds keys and values alternately.
type HashNew struct {
	base
	Pairs []Node
}

// NewHashNew returns a hash constructor.
func NewHashNew(pairs ...Node) (*HashNew, error) {
	if len(pairs)%2 != 0 {
		return nil, shapeErrorf(TagHashNew, "odd number of key/value operands (%d)", len(pairs))
	}
	for i, n := range pairs {
		if n == nil {
			return nil, shapeErrorf(TagHashNew, "operand %d is missing", i)
		}
	}
	return &HashNew{newBase(), pairs}, nil
}

// Unknown is a node whose tag is outside the vocabulary. Front ends produce
// it instead of failing, so that the problem is reported only when the
// evaluator actually reaches the node. Fields holds the raw operands, which
// may be literals, Nodes or []string.
type Unknown struct {
	base
	Tag    string
	Fields []any
}

// NewUnknown returns a node with an unrecognized tag.
func NewUnknown(tag string, fields ...any) *Unknown {
	return &Unknown{newBase(), tag, fields}
}

func (*Lit) Kind() string       { return TagLit }
func (n *Arith) Kind() string   { return n.Op }
func (n *Compare) Kind() string { return n.Op }
func (*Stmts) Kind() string     { return TagStmts }
func (*VarRef) Kind() string    { return TagVarRef }
func (*VarAssign) Kind() string { return TagVarAssign }
func (*If) Kind() string        { return TagIf }
func (*While) Kind() string     { return TagWhile }
func (*FuncCall) Kind() string  { return TagFuncCall }
func (*FuncDef) Kind() string   { return TagFuncDef }
func (*AryNew) Kind() string    { return TagAryNew }
func (*AryRef) Kind() string    { return TagAryRef }
func (*AryAssign) Kind() string { return TagAryAssign }
func (*HashNew) Kind() string   { return TagHashNew }
func (n *Unknown) Kind() string { return n.Tag }
