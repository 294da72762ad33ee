package parse

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"src.minruby.dev/pkg/ast"
	"src.minruby.dev/pkg/diag"
)

// Ruby parses MinRuby source code with the tree-sitter Ruby grammar and
// lowers the concrete syntax tree into the same node vocabulary that
// minruby_parse produces. Constructs outside that vocabulary become Unknown
// nodes tagged with the grammar's node kind, or the operator for unsupported
// binary operators.
var Ruby Parser = rubyParser{}

type rubyParser struct{}

var rubyLanguage = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_ruby.Language())
})

func (rubyParser) Parse(src Source) (ast.Node, error) {
	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(rubyLanguage()); err != nil {
		return nil, newError(src, diag.NoRanging, fmt.Sprintf("cannot load Ruby grammar: %v", err))
	}
	code := []byte(src.Code)
	tree := p.Parse(code, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, newError(src, diag.NoRanging, "no syntax tree")
	}
	if root.HasError() {
		return nil, syntaxError(src, root)
	}
	lw := &lowerer{src: src, code: code, locals: map[string]bool{}}
	return lw.block(root)
}

func syntaxError(src Source, root *sitter.Node) *Error {
	missing := findFirst(root, (*sitter.Node).IsMissing)
	culprit := missing
	if culprit == nil {
		culprit = findFirst(root, (*sitter.Node).IsError)
	}
	if culprit == nil {
		culprit = root
	}
	msg := "syntax error"
	if missing != nil {
		msg = "syntax error, missing " + describeKind(missing.Kind())
	}
	return newError(src, nodeRange(culprit), msg)
}

// Finds the leftmost node in a preorder walk that satisfies pred.
func findFirst(root *sitter.Node, pred func(*sitter.Node) bool) *sitter.Node {
	var best *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if pred(n) && (best == nil || n.StartByte() < best.StartByte()) {
			best = n
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if c := n.Child(i); c != nil {
				walk(c)
			}
		}
	}
	walk(root)
	return best
}

func describeKind(kind string) string {
	for _, r := range kind {
		if unicode.IsLetter(r) {
			return strings.ReplaceAll(kind, "_", " ")
		}
	}
	return "'" + kind + "'"
}

func nodeRange(n *sitter.Node) diag.Ranging {
	return diag.Ranging{From: int(n.StartByte()), To: int(n.EndByte())}
}

// Lowers a tree-sitter syntax tree to an AST. Local variables are tracked
// per method body, so that a bare identifier can be told apart from a call
// of a function without arguments, like Ruby itself does.
type lowerer struct {
	src    Source
	code   []byte
	locals map[string]bool
}

func (lw *lowerer) text(n *sitter.Node) string {
	return string(lw.code[n.StartByte():n.EndByte()])
}

func (lw *lowerer) errorf(n *sitter.Node, format string, args ...any) *Error {
	return newError(lw.src, nodeRange(n), fmt.Sprintf(format, args...))
}

// Returns a function that attaches the range of n to the result of an ast
// constructor, or converts its error into a parse error.
func (lw *lowerer) at(n *sitter.Node) func(ast.Node, error) (ast.Node, error) {
	return func(node ast.Node, err error) (ast.Node, error) {
		if err != nil {
			return nil, shapeError(lw.src, nodeRange(n), err)
		}
		return ast.At(nodeRange(n), node), nil
	}
}

// Returns the named children of n that carry meaning, flattening statement
// lists.
func statements(n *sitter.Node) []*sitter.Node {
	var nodes []*sitter.Node
	if n == nil {
		return nodes
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "comment", "empty_statement":
		case "statements":
			nodes = append(nodes, statements(c)...)
		default:
			nodes = append(nodes, c)
		}
	}
	return nodes
}

// Lowers the statements under n to a stmts node. A nil n gives an empty
// stmts node.
func (lw *lowerer) block(n *sitter.Node) (ast.Node, error) {
	return lw.blockOf(n, statements(n))
}

func (lw *lowerer) blockOf(n *sitter.Node, children []*sitter.Node) (ast.Node, error) {
	body := make([]ast.Node, len(children))
	for i, c := range children {
		s, err := lw.expr(c)
		if err != nil {
			return nil, err
		}
		body[i] = s
	}
	if n == nil {
		stmts, err := ast.NewStmts(body...)
		if err != nil {
			return nil, shapeError(lw.src, diag.NoRanging, err)
		}
		return stmts, nil
	}
	return lw.at(n)(ast.NewStmts(body...))
}

func (lw *lowerer) exprs(ns []*sitter.Node) ([]ast.Node, error) {
	nodes := make([]ast.Node, len(ns))
	for i, n := range ns {
		node, err := lw.expr(n)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}

func (lw *lowerer) field(n *sitter.Node, name string) (ast.Node, error) {
	c := n.ChildByFieldName(name)
	if c == nil {
		return nil, lw.errorf(n, "%s without %s", describeKind(n.Kind()), name)
	}
	return lw.expr(c)
}

func (lw *lowerer) expr(n *sitter.Node) (ast.Node, error) {
	switch n.Kind() {
	case "integer", "float", "string", "true", "false", "nil":
		v, err := lw.literal(n)
		if err != nil {
			return nil, err
		}
		if u, ok := v.(*ast.Unknown); ok {
			return ast.At(nodeRange(n), u), nil
		}
		return lw.at(n)(ast.NewLit(v))
	case "identifier":
		name := lw.text(n)
		if lw.locals[name] {
			return ast.At(nodeRange(n), ast.NewVarRef(name)), nil
		}
		return lw.at(n)(ast.NewFuncCall(name))
	case "parenthesized_statements":
		children := statements(n)
		if len(children) == 1 {
			return lw.expr(children[0])
		}
		return lw.blockOf(n, children)
	case "binary":
		return lw.binary(n)
	case "unary":
		return lw.unary(n)
	case "assignment":
		return lw.assignment(n)
	case "operator_assignment":
		return lw.operatorAssignment(n)
	case "if", "elsif", "unless":
		return lw.ifNode(n)
	case "if_modifier", "unless_modifier":
		return lw.ifModifier(n)
	case "conditional":
		return lw.conditional(n)
	case "while":
		cond, err := lw.field(n, "condition")
		if err != nil {
			return nil, err
		}
		body, err := lw.block(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return lw.at(n)(ast.NewWhile(cond, body))
	case "while_modifier":
		cond, err := lw.field(n, "condition")
		if err != nil {
			return nil, err
		}
		body, err := lw.field(n, "body")
		if err != nil {
			return nil, err
		}
		return lw.at(n)(ast.NewWhile(cond, body))
	case "method":
		return lw.method(n)
	case "call":
		return lw.call(n)
	case "element_reference":
		ary, index, err := lw.elementReference(n)
		if err != nil {
			return nil, err
		}
		return lw.at(n)(ast.NewAryRef(ary, index))
	case "array":
		elems, err := lw.exprs(statements(n))
		if err != nil {
			return nil, err
		}
		return lw.at(n)(ast.NewAryNew(elems...))
	case "hash":
		return lw.hash(n)
	default:
		return lw.unknown(n)
	}
}

func (lw *lowerer) unknown(n *sitter.Node) (ast.Node, error) {
	return ast.At(nodeRange(n), ast.NewUnknown(n.Kind(), lw.text(n))), nil
}

// Returns the value of a literal node. Strings with interpolation cannot be
// represented as literals and are returned as *ast.Unknown.
func (lw *lowerer) literal(n *sitter.Node) (any, error) {
	text := lw.text(n)
	switch n.Kind() {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "nil":
		return nil, nil
	case "integer":
		v, ok := parseRubyInt(text)
		if !ok {
			return nil, lw.errorf(n, "bad integer literal %s", text)
		}
		return v, nil
	case "float":
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			return nil, lw.errorf(n, "bad float literal %s", text)
		}
		return f, nil
	default:
		return lw.str(n)
	}
}

func parseRubyInt(text string) (any, bool) {
	s := strings.ToLower(strings.ReplaceAll(text, "_", ""))
	if strings.HasPrefix(s, "0d") {
		s = s[2:]
	} else if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		// Ruby octal like 017.
		s = "0o" + s[1:]
	}
	if i, err := strconv.ParseInt(s, 0, 0); err == nil {
		return int(i), true
	}
	z, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, false
	}
	return z, true
}

func (lw *lowerer) str(n *sitter.Node) (any, error) {
	singleQuoted := strings.HasPrefix(lw.text(n), "'")
	var sb strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "string_content":
			if singleQuoted {
				sb.WriteString(unescapeSingle(lw.text(c)))
			} else {
				sb.WriteString(lw.text(c))
			}
		case "escape_sequence":
			s, ok := unescape(lw.text(c))
			if !ok {
				return nil, lw.errorf(c, "invalid escape sequence %s", lw.text(c))
			}
			sb.WriteString(s)
		default:
			// Interpolation.
			return ast.NewUnknown("dstr", lw.text(n)), nil
		}
	}
	return sb.String(), nil
}

func unescapeSingle(s string) string {
	return strings.NewReplacer(`\\`, `\`, `\'`, `'`).Replace(s)
}

var simpleEscapes = map[byte]string{
	'n': "\n", 't': "\t", 'r': "\r", 's': " ", '0': "\x00", 'e': "\x1b",
	'a': "\a", 'b': "\b", 'f': "\f", 'v': "\v",
}

// Decodes a single escape sequence of a double-quoted Ruby string.
func unescape(esc string) (string, bool) {
	if len(esc) < 2 || esc[0] != '\\' {
		return "", false
	}
	body := esc[1:]
	switch {
	case len(body) == 1 && simpleEscapes[body[0]] != "":
		return simpleEscapes[body[0]], true
	case body[0] == 'x':
		b, err := strconv.ParseUint(body[1:], 16, 8)
		return string([]byte{byte(b)}), err == nil
	case body[0] == 'u':
		hex := strings.Trim(body[1:], "{}")
		var sb strings.Builder
		for _, h := range strings.Fields(hex) {
			r, err := strconv.ParseUint(h, 16, 32)
			if err != nil || !utf8.ValidRune(rune(r)) {
				return "", false
			}
			sb.WriteRune(rune(r))
		}
		return sb.String(), true
	case body[0] >= '0' && body[0] <= '7':
		b, err := strconv.ParseUint(body, 8, 8)
		return string([]byte{byte(b)}), err == nil
	default:
		// Unknown escapes like \" or \# stand for the character itself.
		return body, true
	}
}

func (lw *lowerer) binary(n *sitter.Node) (ast.Node, error) {
	opNode := n.ChildByFieldName("operator")
	if opNode == nil {
		return nil, lw.errorf(n, "binary expression without operator")
	}
	op := lw.text(opNode)
	left, err := lw.field(n, "left")
	if err != nil {
		return nil, err
	}
	right, err := lw.field(n, "right")
	if err != nil {
		return nil, err
	}
	if !ast.IsArithOp(op) && !ast.IsCompareOp(op) {
		return ast.At(nodeRange(n), ast.NewUnknown(op, left, right)), nil
	}
	return lw.at(n)(ast.NewBinary(op, left, right))
}

func (lw *lowerer) unary(n *sitter.Node) (ast.Node, error) {
	opNode := n.ChildByFieldName("operator")
	operandNode := n.ChildByFieldName("operand")
	if opNode == nil || operandNode == nil {
		return lw.unknown(n)
	}
	op := lw.text(opNode)
	switch op {
	case "+":
		return lw.expr(operandNode)
	case "-":
		switch operandNode.Kind() {
		case "integer", "float":
			v, err := lw.literal(operandNode)
			if err != nil {
				return nil, err
			}
			return lw.at(n)(ast.NewLit(negate(v)))
		}
		operand, err := lw.expr(operandNode)
		if err != nil {
			return nil, err
		}
		zero, _ := ast.NewLit(0)
		return lw.at(n)(ast.NewBinary("-", zero, operand))
	default:
		operand, err := lw.expr(operandNode)
		if err != nil {
			return nil, err
		}
		return ast.At(nodeRange(n), ast.NewUnknown(op, operand)), nil
	}
}

func negate(v any) any {
	switch v := v.(type) {
	case int:
		return -v
	case *big.Int:
		z := new(big.Int).Neg(v)
		if z.IsInt64() && int64(int(z.Int64())) == z.Int64() {
			return int(z.Int64())
		}
		return z
	case float64:
		return -v
	}
	return v
}

func (lw *lowerer) assignment(n *sitter.Node) (ast.Node, error) {
	left := n.ChildByFieldName("left")
	rightNode := n.ChildByFieldName("right")
	if left == nil || rightNode == nil {
		return lw.unknown(n)
	}
	switch left.Kind() {
	case "identifier":
		name := lw.text(left)
		// The variable is visible on the right-hand side already, like in
		// Ruby.
		lw.locals[name] = true
		right, err := lw.expr(rightNode)
		if err != nil {
			return nil, err
		}
		return lw.at(n)(ast.NewVarAssign(name, right))
	case "element_reference":
		ary, index, err := lw.elementReference(left)
		if err != nil {
			return nil, err
		}
		right, err := lw.expr(rightNode)
		if err != nil {
			return nil, err
		}
		return lw.at(n)(ast.NewAryAssign(ary, index, right))
	default:
		return lw.unknown(n)
	}
}

// Lowers x op= y to x = x op y for local variables.
func (lw *lowerer) operatorAssignment(n *sitter.Node) (ast.Node, error) {
	left := n.ChildByFieldName("left")
	opNode := n.ChildByFieldName("operator")
	rightNode := n.ChildByFieldName("right")
	if left == nil || opNode == nil || rightNode == nil || left.Kind() != "identifier" {
		return lw.unknown(n)
	}
	op := strings.TrimSuffix(lw.text(opNode), "=")
	if !ast.IsArithOp(op) {
		return lw.unknown(n)
	}
	name := lw.text(left)
	lw.locals[name] = true
	right, err := lw.expr(rightNode)
	if err != nil {
		return nil, err
	}
	ref := ast.At(nodeRange(left), ast.NewVarRef(name))
	value, err := lw.at(n)(ast.NewBinary(op, ref, right))
	if err != nil {
		return nil, err
	}
	return lw.at(n)(ast.NewVarAssign(name, value))
}

func (lw *lowerer) ifNode(n *sitter.Node) (ast.Node, error) {
	cond, err := lw.field(n, "condition")
	if err != nil {
		return nil, err
	}
	then, err := lw.optBlock(n.ChildByFieldName("consequence"))
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if alt.Kind() == "elsif" {
			els, err = lw.ifNode(alt)
		} else {
			els, err = lw.block(alt)
		}
		if err != nil {
			return nil, err
		}
	}
	if n.Kind() == "unless" {
		then, els = els, then
	}
	return lw.at(n)(ast.NewIf(cond, then, els))
}

func (lw *lowerer) optBlock(n *sitter.Node) (ast.Node, error) {
	if n == nil {
		return nil, nil
	}
	return lw.block(n)
}

func (lw *lowerer) ifModifier(n *sitter.Node) (ast.Node, error) {
	cond, err := lw.field(n, "condition")
	if err != nil {
		return nil, err
	}
	body, err := lw.field(n, "body")
	if err != nil {
		return nil, err
	}
	if n.Kind() == "unless_modifier" {
		return lw.at(n)(ast.NewIf(cond, nil, body))
	}
	return lw.at(n)(ast.NewIf(cond, body, nil))
}

func (lw *lowerer) conditional(n *sitter.Node) (ast.Node, error) {
	cond, err := lw.field(n, "condition")
	if err != nil {
		return nil, err
	}
	then, err := lw.field(n, "consequence")
	if err != nil {
		return nil, err
	}
	els, err := lw.field(n, "alternative")
	if err != nil {
		return nil, err
	}
	return lw.at(n)(ast.NewIf(cond, then, els))
}

func (lw *lowerer) method(n *sitter.Node) (ast.Node, error) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return lw.unknown(n)
	}
	var params []string
	paramsNode := n.ChildByFieldName("parameters")
	if paramsNode != nil {
		for i := uint(0); i < paramsNode.NamedChildCount(); i++ {
			p := paramsNode.NamedChild(i)
			if p.Kind() == "comment" {
				continue
			}
			if p.Kind() != "identifier" {
				return nil, lw.errorf(p, "unsupported parameter kind %s", describeKind(p.Kind()))
			}
			params = append(params, lw.text(p))
		}
	}

	outer := lw.locals
	lw.locals = make(map[string]bool, len(params))
	for _, p := range params {
		lw.locals[p] = true
	}
	defer func() { lw.locals = outer }()

	var body ast.Node
	var err error
	if bodyNode := n.ChildByFieldName("body"); bodyNode != nil {
		body, err = lw.block(bodyNode)
	} else {
		// Older versions of the grammar put the body statements directly
		// under the method node.
		var children []*sitter.Node
		for _, c := range statements(n) {
			if !sameNode(c, nameNode) && (paramsNode == nil || !sameNode(c, paramsNode)) {
				children = append(children, c)
			}
		}
		body, err = lw.blockOf(nil, children)
	}
	if err != nil {
		return nil, err
	}
	return lw.at(n)(ast.NewFuncDef(lw.text(nameNode), params, body))
}

func sameNode(a, b *sitter.Node) bool {
	return a.Kind() == b.Kind() && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// Lowers a call. Only calls without a receiver or a block are part of
// MinRuby.
func (lw *lowerer) call(n *sitter.Node) (ast.Node, error) {
	if n.ChildByFieldName("receiver") != nil || n.ChildByFieldName("block") != nil {
		return lw.unknown(n)
	}
	methodNode := n.ChildByFieldName("method")
	if methodNode == nil {
		return lw.unknown(n)
	}
	args, err := lw.exprs(statements(n.ChildByFieldName("arguments")))
	if err != nil {
		return nil, err
	}
	return lw.at(n)(ast.NewFuncCall(lw.text(methodNode), args...))
}

func (lw *lowerer) elementReference(n *sitter.Node) (ary, index ast.Node, err error) {
	objectNode := n.ChildByFieldName("object")
	if objectNode == nil {
		return nil, nil, lw.errorf(n, "element reference without receiver")
	}
	var indices []*sitter.Node
	for _, c := range statements(n) {
		if !sameNode(c, objectNode) {
			indices = append(indices, c)
		}
	}
	if len(indices) != 1 {
		return nil, nil, lw.errorf(n, "element reference should have exactly one index, got %d", len(indices))
	}
	ary, err = lw.expr(objectNode)
	if err != nil {
		return nil, nil, err
	}
	index, err = lw.expr(indices[0])
	if err != nil {
		return nil, nil, err
	}
	return ary, index, nil
}

func (lw *lowerer) hash(n *sitter.Node) (ast.Node, error) {
	var pairs []ast.Node
	for _, c := range statements(n) {
		if c.Kind() != "pair" {
			return lw.unknown(n)
		}
		k, err := lw.field(c, "key")
		if err != nil {
			return nil, err
		}
		v, err := lw.field(c, "value")
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, k, v)
	}
	return lw.at(n)(ast.NewHashNew(pairs...))
}
