package parse

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"src.minruby.dev/pkg/ast"
	"src.minruby.dev/pkg/diag"
	"src.minruby.dev/pkg/must"
)

// Sexp decodes the nested-array dump of a MinRuby AST, like
//
//	["stmts", ["func_call", "p", ["+", ["lit", 1], ["lit", 2]]]]
//
// Both the output of Ruby's pp and JSON are accepted, since both are flow
// style YAML. A plain nil, null or ~ stands for the nil literal; quoted
// scalars are always strings.
var Sexp Parser = sexpParser{}

type sexpParser struct{}

func (sexpParser) Parse(src Source) (ast.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src.Code), &doc); err != nil {
		return nil, newError(src, diag.PointRanging(0),
			strings.TrimPrefix(err.Error(), "yaml: "))
	}
	d := &sexpDecoder{src, lineStarts(src.Code)}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// An empty document is an empty program.
		return ast.At(diag.PointRanging(0), must.OK1(ast.NewStmts())), nil
	}
	return d.node(doc.Content[0])
}

type sexpDecoder struct {
	src   Source
	lines []int
}

func (d *sexpDecoder) errorf(y *yaml.Node, format string, args ...any) *Error {
	return newError(d.src, d.ranging(y), fmt.Sprintf(format, args...))
}

// Decodes a node that must be present.
func (d *sexpDecoder) node(y *yaml.Node) (ast.Node, error) {
	n, err := d.optNode(y)
	if err == nil && n == nil {
		return nil, d.errorf(y, "should be a node, got nil")
	}
	return n, err
}

// Decodes a node that may be nil, like a missing else branch.
func (d *sexpDecoder) optNode(y *yaml.Node) (ast.Node, error) {
	y = resolve(y)
	if y.Kind == yaml.ScalarNode && isNil(y) {
		return nil, nil
	}
	if y.Kind != yaml.SequenceNode || len(y.Content) == 0 {
		return nil, d.errorf(y, "should be a node, got %s", describe(y))
	}
	tag, err := d.str(y.Content[0])
	if err != nil {
		return nil, err
	}
	ops := y.Content[1:]
	n, err := d.build(y, tag, ops)
	if err != nil {
		return nil, err
	}
	return ast.At(d.ranging(y), n), nil
}

func (d *sexpDecoder) build(y *yaml.Node, tag string, ops []*yaml.Node) (ast.Node, error) {
	arity := func(lo, hi int) error {
		if len(ops) < lo || len(ops) > hi {
			if lo == hi {
				return d.errorf(y, "%s node should have %d operands, got %d", tag, lo, len(ops))
			}
			return d.errorf(y, "%s node should have %d to %d operands, got %d", tag, lo, hi, len(ops))
		}
		return nil
	}
	wrap := func(n ast.Node, err error) (ast.Node, error) {
		if err != nil {
			return nil, shapeError(d.src, d.ranging(y), err)
		}
		return n, nil
	}

	switch {
	case tag == ast.TagLit:
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		v, err := d.literal(ops[0])
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewLit(v))
	case ast.IsArithOp(tag) || ast.IsCompareOp(tag):
		if err := arity(2, 2); err != nil {
			return nil, err
		}
		nodes, err := d.nodes(ops)
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewBinary(tag, nodes[0], nodes[1]))
	case tag == ast.TagStmts:
		nodes, err := d.nodes(ops)
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewStmts(nodes...))
	case tag == ast.TagVarRef:
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		name, err := d.str(ops[0])
		if err != nil {
			return nil, err
		}
		return ast.NewVarRef(name), nil
	case tag == ast.TagVarAssign:
		if err := arity(2, 2); err != nil {
			return nil, err
		}
		name, err := d.str(ops[0])
		if err != nil {
			return nil, err
		}
		value, err := d.node(ops[1])
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewVarAssign(name, value))
	case tag == ast.TagIf:
		if err := arity(2, 3); err != nil {
			return nil, err
		}
		cond, err := d.node(ops[0])
		if err != nil {
			return nil, err
		}
		then, err := d.optNode(ops[1])
		if err != nil {
			return nil, err
		}
		var els ast.Node
		if len(ops) == 3 {
			els, err = d.optNode(ops[2])
			if err != nil {
				return nil, err
			}
		}
		return wrap(ast.NewIf(cond, then, els))
	case tag == ast.TagWhile:
		if err := arity(2, 2); err != nil {
			return nil, err
		}
		nodes, err := d.nodes(ops)
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewWhile(nodes[0], nodes[1]))
	case tag == ast.TagFuncCall:
		if len(ops) == 0 {
			return nil, d.errorf(y, "func_call node should have a name")
		}
		name, err := d.str(ops[0])
		if err != nil {
			return nil, err
		}
		args, err := d.nodes(ops[1:])
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewFuncCall(name, args...))
	case tag == ast.TagFuncDef:
		if err := arity(3, 3); err != nil {
			return nil, err
		}
		name, err := d.str(ops[0])
		if err != nil {
			return nil, err
		}
		params, err := d.strs(ops[1])
		if err != nil {
			return nil, err
		}
		body, err := d.node(ops[2])
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewFuncDef(name, params, body))
	case tag == ast.TagAryNew:
		nodes, err := d.nodes(ops)
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewAryNew(nodes...))
	case tag == ast.TagAryRef:
		if err := arity(2, 2); err != nil {
			return nil, err
		}
		nodes, err := d.nodes(ops)
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewAryRef(nodes[0], nodes[1]))
	case tag == ast.TagAryAssign:
		if err := arity(3, 3); err != nil {
			return nil, err
		}
		nodes, err := d.nodes(ops)
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewAryAssign(nodes[0], nodes[1], nodes[2]))
	case tag == ast.TagHashNew:
		nodes, err := d.nodes(ops)
		if err != nil {
			return nil, err
		}
		return wrap(ast.NewHashNew(nodes...))
	default:
		return ast.NewUnknown(tag, d.rawFields(ops)...), nil
	}
}

func (d *sexpDecoder) nodes(ys []*yaml.Node) ([]ast.Node, error) {
	nodes := make([]ast.Node, len(ys))
	for i, y := range ys {
		n, err := d.node(y)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// Operands of unknown nodes are kept as faithfully as possible, without
// failing: sequences that decode as nodes become nodes, other sequences
// become []any, and scalars become literals.
func (d *sexpDecoder) rawFields(ys []*yaml.Node) []any {
	fields := make([]any, len(ys))
	for i, y := range ys {
		fields[i] = d.rawField(y)
	}
	return fields
}

func (d *sexpDecoder) rawField(y *yaml.Node) any {
	y = resolve(y)
	switch y.Kind {
	case yaml.SequenceNode:
		if len(y.Content) > 0 && resolve(y.Content[0]).ShortTag() == "!!str" {
			if n, err := d.optNode(y); err == nil {
				return n
			}
		}
		return d.rawFields(y.Content)
	case yaml.ScalarNode:
		if v, err := d.literal(y); err == nil {
			return v
		}
		return y.Value
	default:
		return describe(y)
	}
}

func (d *sexpDecoder) str(y *yaml.Node) (string, error) {
	y = resolve(y)
	if y.Kind != yaml.ScalarNode || isNil(y) {
		return "", d.errorf(y, "should be a string, got %s", describe(y))
	}
	return y.Value, nil
}

func (d *sexpDecoder) strs(y *yaml.Node) ([]string, error) {
	y = resolve(y)
	if y.Kind != yaml.SequenceNode {
		return nil, d.errorf(y, "should be a list of names, got %s", describe(y))
	}
	ss := make([]string, len(y.Content))
	for i, c := range y.Content {
		s, err := d.str(c)
		if err != nil {
			return nil, err
		}
		ss[i] = s
	}
	return ss, nil
}

// Decodes the operand of a lit node.
func (d *sexpDecoder) literal(y *yaml.Node) (any, error) {
	y = resolve(y)
	if y.Kind != yaml.ScalarNode {
		return nil, d.errorf(y, "should be a literal, got %s", describe(y))
	}
	if isNil(y) {
		return nil, nil
	}
	if y.Style == 0 && decimalInt.MatchString(y.Value) {
		// YAML resolves integers that do not fit in 64 bits as floats.
		return parseInt(y.Value), nil
	}
	switch y.ShortTag() {
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, d.errorf(y, "%v", err)
		}
		return b, nil
	case "!!int":
		var i int
		if err := y.Decode(&i); err == nil {
			return i, nil
		}
		z, ok := new(big.Int).SetString(strings.ReplaceAll(y.Value, "_", ""), 0)
		if !ok {
			return nil, d.errorf(y, "bad integer literal %s", y.Value)
		}
		return z, nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, d.errorf(y, "%v", err)
		}
		return f, nil
	case "!!str":
		return y.Value, nil
	default:
		return nil, d.errorf(y, "unsupported literal %s", y.Value)
	}
}

var decimalInt = regexp.MustCompile(`^[-+]?[0-9][0-9_]*$`)

func parseInt(s string) any {
	s = strings.ReplaceAll(s, "_", "")
	if i, err := strconv.ParseInt(s, 10, 0); err == nil {
		return int(i)
	}
	z, _ := new(big.Int).SetString(s, 10)
	return z
}

func resolve(y *yaml.Node) *yaml.Node {
	for y.Kind == yaml.AliasNode && y.Alias != nil {
		y = y.Alias
	}
	return y
}

// Reports whether a scalar is the nil literal. Ruby's pp writes nil, JSON
// null and YAML additionally ~.
func isNil(y *yaml.Node) bool {
	if y.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return false
	}
	return y.ShortTag() == "!!null" || y.Value == "nil"
}

func describe(y *yaml.Node) string {
	switch y.Kind {
	case yaml.ScalarNode:
		if isNil(y) {
			return "nil"
		}
		return "scalar " + strconv.Quote(y.Value)
	case yaml.SequenceNode:
		if len(y.Content) == 0 {
			return "empty list"
		}
		return "list"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "unexpected YAML"
	}
}

func (d *sexpDecoder) ranging(y *yaml.Node) diag.Ranging {
	if y.Line <= 0 || y.Line > len(d.lines) {
		return diag.NoRanging
	}
	from := d.lines[y.Line-1] + y.Column - 1
	if from > len(d.src.Code) {
		return diag.NoRanging
	}
	return diag.Ranging{From: from, To: spanEnd(d.src.Code, from)}
}

// Returns the byte offsets at which lines start.
func lineStarts(code string) []int {
	starts := []int{0}
	for i := 0; i < len(code); i++ {
		if code[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Finds the end of the flow sequence or scalar starting at from, for
// highlighting in diagnostics. Brackets inside quoted strings are skipped.
func spanEnd(code string, from int) int {
	depth := 0
	var quote byte
	for i := from; i < len(code); i++ {
		c := code[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
				if depth == 0 {
					return i + 1
				}
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			if depth == 0 {
				return i
			}
			depth--
			if depth == 0 {
				return i + 1
			}
		case depth == 0 && (c == ',' || c == '\n'):
			return i
		}
	}
	return len(code)
}
