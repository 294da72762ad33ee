package ast

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Dump returns a structural dump of the node, in the same nested-array form
// that minruby_parse produces and the s-expression front end reads, like
// ["+", ["lit", 1], ["var_ref", "x"]].
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	sb.WriteString("[" + strconv.Quote(n.Kind()))
	field := func(f any) {
		sb.WriteString(", ")
		dumpField(sb, f)
	}
	switch n := n.(type) {
	case *Lit:
		field(n.Value)
	case *Arith:
		field(n.Left)
		field(n.Right)
	case *Compare:
		field(n.Left)
		field(n.Right)
	case *Stmts:
		for _, s := range n.Body {
			field(s)
		}
	case *VarRef:
		field(n.Name)
	case *VarAssign:
		field(n.Name)
		field(n.Value)
	case *If:
		field(n.Cond)
		field(n.Then)
		field(n.Else)
	case *While:
		field(n.Cond)
		field(n.Body)
	case *FuncCall:
		field(n.Name)
		for _, a := range n.Args {
			field(a)
		}
	case *FuncDef:
		field(n.Name)
		field(n.Params)
		field(n.Body)
	case *AryNew:
		for _, e := range n.Elems {
			field(e)
		}
	case *AryRef:
		field(n.Ary)
		field(n.Index)
	case *AryAssign:
		field(n.Ary)
		field(n.Index)
		field(n.Value)
	case *HashNew:
		for _, p := range n.Pairs {
			field(p)
		}
	case *Unknown:
		for _, f := range n.Fields {
			field(f)
		}
	}
	sb.WriteString("]")
}

func dumpField(sb *strings.Builder, f any) {
	switch f := f.(type) {
	case nil:
		sb.WriteString("nil")
	case Node:
		dump(sb, f)
	case []string:
		sb.WriteString("[")
		for i, s := range f {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(s))
		}
		sb.WriteString("]")
	case []any:
		sb.WriteString("[")
		for i, x := range f {
			if i > 0 {
				sb.WriteString(", ")
			}
			dumpField(sb, x)
		}
		sb.WriteString("]")
	case string:
		sb.WriteString(strconv.Quote(f))
	case bool:
		sb.WriteString(strconv.FormatBool(f))
	case int:
		sb.WriteString(strconv.Itoa(f))
	case *big.Int:
		sb.WriteString(f.String())
	case float64:
		sb.WriteString(formatFloat(f))
	default:
		fmt.Fprintf(sb, "%v", f)
	}
}

// Formats a float so that it reads back as a float.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
