// Package evaltest provides a framework for testing MinRuby programs.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//		That(`["+", ["lit", 1], ["lit", 2]]`).Puts(3),
//		That(`["func_call", "p", ["lit", "x"]]`).Prints("\"x\"\n"))
//
// That takes the AST dump accepted by parse.Sexp; ThatRuby takes Ruby source.
package evaltest

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.minruby.dev/pkg/eval"
	"src.minruby.dev/pkg/eval/vals"
	"src.minruby.dev/pkg/parse"
	"src.minruby.dev/pkg/tt"
)

// Case is a test case that can be used in Test.
type Case struct {
	code   string
	parser parse.Parser
	setup  func(env eval.Env, reg *eval.Registry)
	verify func(t *testing.T, env eval.Env, reg *eval.Registry)
	want   result
}

type result struct {
	Value     any
	HasValue  bool
	Stdout    []byte
	Exception error
}

// That returns a new Case with the specified AST dump. Multiple arguments are
// joined with newlines.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that 1 + 2 evaluates to 3 reads:
//
//	That(`["+", ["lit", 1], ["lit", 2]]`).Puts(3)
func That(lines ...string) Case {
	return Case{code: strings.Join(lines, "\n"), parser: parse.Sexp}
}

// ThatRuby is like That, but takes MinRuby source code.
func ThatRuby(lines ...string) Case {
	return Case{code: strings.Join(lines, "\n"), parser: parse.Ruby}
}

// WithSetup returns a new Case with the given setup function executed on the
// top-level environment and the registry before the code is evaluated.
func (c Case) WithSetup(f func(eval.Env, *eval.Registry)) Case {
	c.setup = f
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any side effects, for example:
//
//	That(`["stmts"]`).DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification
// function, with the top-level environment and the registry after evaluation.
func (c Case) Passes(f func(t *testing.T, env eval.Env, reg *eval.Registry)) Case {
	c.verify = f
	return c
}

// Puts returns an altered Case that requires the program to evaluate to the
// given value. The value may be a ValueMatcher.
func (c Case) Puts(v any) Case {
	c.want.Value = v
	c.want.HasValue = true
	return c
}

// Prints returns an altered Case that requires the program to write the given
// text to stdout.
func (c Case) Prints(s string) Case {
	c.want.Stdout = []byte(s)
	return c
}

// Throws returns an altered Case that requires the program to raise an
// exception with the given reason. The reason supports special matcher values
// constructed by functions like ErrorWithMessage.
//
// If at least one stacktrace string is given, the exception must also have a
// stacktrace matching the given source fragments, frame by frame (innermost
// frame first). If no stacktrace string is given, the stack trace of the
// exception is not checked.
func (c Case) Throws(reason error, stacks ...string) Case {
	c.want.Exception = exc{reason, stacks}
	return c
}

// Test runs test cases. For each test case, a new Evaler, Env and Registry
// are created.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			t.Helper()
			env, reg := eval.Env{}, eval.NewRegistry()
			if tc.setup != nil {
				tc.setup(env, reg)
			}

			r := evalAndCollect(tc.parser, tc.code, env, reg)

			if tc.verify != nil {
				tc.verify(t, env, reg)
			}
			if tc.want.HasValue && !match(r.Value, tc.want.Value) {
				t.Errorf("got value (-want +got):\n%s",
					cmp.Diff(tc.want.Value, r.Value, tt.CommonCmpOpt))
			}
			if !bytes.Equal(tc.want.Stdout, r.Stdout) {
				t.Errorf("got stdout %q, want %q", r.Stdout, tc.want.Stdout)
			}
			if !matchErr(tc.want.Exception, r.Exception) {
				t.Errorf("unexpected exception")
				if exc, ok := r.Exception.(eval.Exception); ok {
					// For an eval.Exception report the type of the underlying error.
					t.Logf("got: %T: %v", exc.Reason(), exc)
					t.Logf("stack trace: %#v", getStackTexts(exc.StackTrace()))
				} else {
					t.Logf("got: %T: %v", r.Exception, r.Exception)
				}
				t.Errorf("want: %v", tc.want.Exception)
			}
		})
	}
}

func evalAndCollect(p parse.Parser, code string, env eval.Env, reg *eval.Registry) result {
	var r result
	var stdout bytes.Buffer
	src := parse.Source{Name: "[test]", Code: code}
	n, err := p.Parse(src)
	if err != nil {
		r.Exception = err
		return r
	}
	ev := eval.NewEvaler(&stdout)
	r.Value, r.Exception = ev.EvalIn(src, n, env, reg)
	r.Stdout = stdout.Bytes()
	return r
}

func match(got, want any) bool {
	if matcher, ok := want.(ValueMatcher); ok {
		return matcher.matchValue(got)
	}
	if got, ok := got.(float64); ok {
		// Special-case float64 to correctly handle NaN.
		if want, ok := want.(float64); ok {
			return matchFloat64(got, want, 0)
		}
	}
	return vals.Eql(got, want)
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}
