// Package parse turns MinRuby program text into an AST.
//
// There are two front ends. Sexp decodes the nested-array dump that
// minruby_parse produces (as printed by Ruby's pp, or as JSON); Ruby parses
// MinRuby source directly. Both produce trees built from the constructors of
// package ast, so they agree on the node vocabulary.
package parse

import (
	"fmt"
	"path/filepath"
	"strings"

	"src.minruby.dev/pkg/ast"
	"src.minruby.dev/pkg/diag"
	"src.minruby.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[parse] ")

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Parser turns a Source into the root node of a program. The error, when not
// nil, is always an *Error.
type Parser interface {
	Parse(src Source) (ast.Node, error)
}

// Format names a front end.
type Format string

// Known formats. Auto picks a front end from the file name.
const (
	Auto     Format = "auto"
	RubyCode Format = "ruby"
	SexpDump Format = "sexp"
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Auto, RubyCode, SexpDump:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q, should be auto, ruby or sexp", s)
}

var sexpExts = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".sexp": true,
}

// ForName returns the front end suitable for the named file. Files with a
// .json, .yaml, .yml or .sexp extension hold AST dumps; everything else is
// treated as Ruby source.
func ForName(name string) Parser {
	if sexpExts[strings.ToLower(filepath.Ext(name))] {
		logger.Printf("using the sexp front end for %s", name)
		return Sexp
	}
	logger.Printf("using the ruby front end for %s", name)
	return Ruby
}

// ForFormat returns the front end for f, falling back to ForName for Auto.
func ForFormat(f Format, name string) Parser {
	switch f {
	case RubyCode:
		return Ruby
	case SexpDump:
		return Sexp
	default:
		return ForName(name)
	}
}

// Error is a parse error.
type Error = diag.Error

const errorType = "parse error"

func newError(src Source, r diag.Ranger, msg string) *Error {
	return &Error{
		Type:    errorType,
		Message: msg,
		Context: *diag.NewContext(src.Name, src.Code, r),
	}
}

// Converts an error from an ast constructor into a parse error at r.
func shapeError(src Source, r diag.Ranger, err error) *Error {
	return newError(src, r, err.Error())
}
