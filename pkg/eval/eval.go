// Package eval implements the MinRuby evaluator.
//
// Evaluation is a direct walk of the AST. Run state lives in two values that
// are passed explicitly: an Env holding the variables of the current scope,
// and a Registry holding the user-defined functions. An Evaler only carries
// configuration, so any number of them can be used in one process.
package eval

import (
	"io"

	"src.minruby.dev/pkg/ast"
	"src.minruby.dev/pkg/diag"
	"src.minruby.dev/pkg/eval/errs"
	"src.minruby.dev/pkg/eval/vals"
	"src.minruby.dev/pkg/logutil"
	"src.minruby.dev/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// Evaler is used to evaluate MinRuby programs.
type Evaler struct {
	// Stdout receives the output of p.
	Stdout   io.Writer
	builtins map[string]Builtin
}

// NewEvaler creates a new Evaler that writes program output to stdout.
func NewEvaler(stdout io.Writer) *Evaler {
	return &Evaler{Stdout: stdout, builtins: builtins}
}

// Eval evaluates n with the variables in env and the functions in reg, and
// returns its value. Assignments at the top level of n are visible in env
// afterwards, and function definitions in reg. env must not be nil.
//
// Errors are always of type Exception.
func (ev *Evaler) Eval(n ast.Node, env Env, reg *Registry) (any, error) {
	return ev.EvalIn(parse.Source{Name: "[eval]"}, n, env, reg)
}

// EvalIn is like Eval, but takes the source that n was parsed from, which is
// used in the stack traces of exceptions.
func (ev *Evaler) EvalIn(src parse.Source, n ast.Node, env Env, reg *Registry) (any, error) {
	fm := &frame{ev, src, env, reg, nil}
	return fm.eval(n)
}

// Run parses src with p and evaluates the resulting program with a fresh
// environment and registry. Parse errors are returned as they are.
func (ev *Evaler) Run(src parse.Source, p parse.Parser) (any, error) {
	n, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	return ev.EvalIn(src, n, Env{}, NewRegistry())
}

// A frame holds the state of one function call, or of the top level.
type frame struct {
	ev        *Evaler
	src       parse.Source
	env       Env
	reg       *Registry
	traceback *StackTrace
}

func (fm *frame) context(r diag.Ranger) *diag.Context {
	return diag.NewContext(fm.src.Name, fm.src.Code, r)
}

// Wraps err in an Exception raised at n, unless it is already one.
func (fm *frame) wrap(n ast.Node, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(Exception); ok {
		return err
	}
	return NewException(err, &StackTrace{Head: fm.context(n), Next: fm.traceback})
}

func (fm *frame) eval(n ast.Node) (any, error) {
	switch n := n.(type) {
	case *ast.Lit:
		return n.Value, nil
	case *ast.Arith:
		a, b, err := fm.evalPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		v, err := vals.Arith(n.Op, a, b)
		return v, fm.wrap(n, err)
	case *ast.Compare:
		a, b, err := fm.evalPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		v, err := vals.Compare(n.Op, a, b)
		if err != nil {
			return nil, fm.wrap(n, err)
		}
		return v, nil
	case *ast.Stmts:
		var last any
		for _, s := range n.Body {
			v, err := fm.eval(s)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	case *ast.VarRef:
		return fm.env[n.Name], nil
	case *ast.VarAssign:
		v, err := fm.eval(n.Value)
		if err != nil {
			return nil, err
		}
		fm.env[n.Name] = v
		return v, nil
	case *ast.If:
		cond, err := fm.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if vals.Bool(cond) {
			return fm.evalOpt(n.Then)
		}
		return fm.evalOpt(n.Else)
	case *ast.While:
		for {
			cond, err := fm.eval(n.Cond)
			if err != nil {
				return nil, err
			}
			if !vals.Bool(cond) {
				return nil, nil
			}
			if _, err := fm.eval(n.Body); err != nil {
				return nil, err
			}
		}
	case *ast.FuncCall:
		return fm.call(n)
	case *ast.FuncDef:
		if fm.reg.Define(&FuncDef{n.Name, n.Params, n.Body}) {
			logger.Printf("function %s redefined", n.Name)
		} else {
			logger.Printf("function %s defined", n.Name)
		}
		return nil, nil
	case *ast.AryNew:
		elems := make([]any, len(n.Elems))
		for i, e := range n.Elems {
			v, err := fm.eval(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return vals.NewArray(elems...), nil
	case *ast.AryRef:
		a, i, err := fm.evalPair(n.Ary, n.Index)
		if err != nil {
			return nil, err
		}
		v, err := vals.Index(a, i)
		return v, fm.wrap(n, err)
	case *ast.AryAssign:
		a, i, err := fm.evalPair(n.Ary, n.Index)
		if err != nil {
			return nil, err
		}
		v, err := fm.eval(n.Value)
		if err != nil {
			return nil, err
		}
		if err := vals.Assoc(a, i, v); err != nil {
			return nil, fm.wrap(n, err)
		}
		return v, nil
	case *ast.HashNew:
		m := vals.NewMap()
		for i := 0; i+1 < len(n.Pairs); i += 2 {
			k, v, err := fm.evalPair(n.Pairs[i], n.Pairs[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	default:
		return nil, fm.wrap(n, errs.UnknownNode{
			Kind: n.Kind(), Node: ast.Dump(n), Env: fm.env.Dump()})
	}
}

// Evaluates a node that may be absent, like the branches of an if.
func (fm *frame) evalOpt(n ast.Node) (any, error) {
	if n == nil {
		return nil, nil
	}
	return fm.eval(n)
}

// Evaluates two nodes from left to right.
func (fm *frame) evalPair(m, n ast.Node) (any, any, error) {
	a, err := fm.eval(m)
	if err != nil {
		return nil, nil, err
	}
	b, err := fm.eval(n)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (fm *frame) call(n *ast.FuncCall) (any, error) {
	args := make([]any, len(n.Args))
	for i, arg := range n.Args {
		v, err := fm.eval(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if fn, ok := fm.reg.Lookup(n.Name); ok {
		env := make(Env, len(fn.Params))
		for i, param := range fn.Params {
			if i < len(args) {
				env[param] = args[i]
			} else {
				env[param] = nil
			}
		}
		callee := &frame{fm.ev, fm.src, env, fm.reg,
			&StackTrace{Head: fm.context(n), Next: fm.traceback}}
		return callee.eval(fn.Body)
	}

	if builtin, ok := fm.ev.builtins[n.Name]; ok {
		v, err := builtin(fm.ev, args)
		return v, fm.wrap(n, err)
	}

	logger.Printf("no function named %s", n.Name)
	return nil, fm.wrap(n, errs.UnknownCall{Name: n.Name})
}
