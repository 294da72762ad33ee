// Package script implements the subprogram that runs a MinRuby script.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"src.minruby.dev/pkg/ast"
	"src.minruby.dev/pkg/diag"
	"src.minruby.dev/pkg/eval"
	"src.minruby.dev/pkg/logutil"
	"src.minruby.dev/pkg/parse"
	"src.minruby.dev/pkg/prog"
)

var logger = logutil.GetLogger("[script] ")

// Program is the script subprogram. It takes exactly one argument, the path
// of the script; "-" reads the script from stdin.
var Program prog.Program = program{}

type program struct{}

// Name used for a script read from stdin.
const stdinName = "[stdin]"

func (program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	switch len(args) {
	case 0:
		return prog.BadUsage("no script given")
	case 1:
	default:
		return prog.BadUsage(fmt.Sprintf("want one script, got %d arguments", len(args)))
	}
	format, err := parse.ParseFormat(f.Format)
	if err != nil {
		return prog.BadUsage(err.Error())
	}

	src, err := readSource(fds[0], args[0])
	if err != nil {
		fmt.Fprintf(fds[2], "cannot read script %q: %v\n", args[0], err)
		return prog.Exit(2)
	}

	logger.Printf("running %s as %s", src.Name, format)
	n, err := parse.ForFormat(format, src.Name).Parse(src)
	if err != nil {
		return showError(fds, f, err)
	}
	if f.DumpAST {
		fmt.Fprintln(fds[1], ast.Dump(n))
		return nil
	}

	ev := eval.NewEvaler(fds[1])
	if _, err := ev.EvalIn(src, n, eval.Env{}, eval.NewRegistry()); err != nil {
		logger.Printf("%s failed: %v", src.Name, err)
		return showError(fds, f, err)
	}
	logger.Printf("%s finished", src.Name)
	return nil
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readSource(stdin io.Reader, path string) (parse.Source, error) {
	var bytes []byte
	var err error
	name := path
	if path == "-" {
		name = stdinName
		bytes, err = io.ReadAll(stdin)
	} else {
		bytes, err = os.ReadFile(path)
	}
	if err != nil {
		return parse.Source{}, err
	}
	if !utf8.Valid(bytes) {
		return parse.Source{}, errSourceNotUTF8
	}
	return parse.Source{Name: name, Code: string(bytes)}, nil
}

func showError(fds [3]*os.File, f *prog.Flags, err error) error {
	if f.JSON {
		fmt.Fprintf(fds[2], "%s\n", errorToJSON(err))
	} else {
		diag.ShowError(fds[2], err)
	}
	return prog.Exit(2)
}

// An auxiliary struct for converting errors with diagnostics information to
// JSON.
type errorInJSON struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Stack   []string `json:"stack"`
}

// Converts a parse error or an exception into JSON. Each entry of the stack is
// a "name:line:col" position, innermost first.
func errorToJSON(err error) []byte {
	converted := errorInJSON{Type: "error", Message: err.Error(), Stack: []string{}}
	switch err := err.(type) {
	case *parse.Error:
		converted.Type = err.Type
		converted.Message = err.Message
		converted.Stack = append(converted.Stack, err.Context.Describe())
	case eval.Exception:
		converted.Type = "exception"
		converted.Message = err.Reason().Error()
		for tb := err.StackTrace(); tb != nil; tb = tb.Next {
			converted.Stack = append(converted.Stack, tb.Head.Describe())
		}
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`{"message":"Unable to convert the error to JSON"}`)
	}
	return jsonError
}
