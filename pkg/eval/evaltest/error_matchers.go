package evaltest

import (
	"fmt"
	"reflect"

	"src.minruby.dev/pkg/eval"
	"src.minruby.dev/pkg/parse"
)

type errorMatcher interface{ matchError(error) bool }

// An errorMatcher for exceptions.
type exc struct {
	reason error
	stacks []string
}

func (e exc) Error() string {
	if len(e.stacks) == 0 {
		return fmt.Sprintf("exception with reason %v", e.reason)
	}
	return fmt.Sprintf("exception with reason %v and stacks %v", e.reason, e.stacks)
}

func (e exc) matchError(e2 error) bool {
	if e2, ok := e2.(eval.Exception); ok {
		return matchErr(e.reason, e2.Reason()) &&
			(len(e.stacks) == 0 ||
				reflect.DeepEqual(e.stacks, getStackTexts(e2.StackTrace())))
	}
	return false
}

func getStackTexts(tb *eval.StackTrace) []string {
	texts := []string{}
	for tb != nil {
		ctx := tb.Head
		if ctx.From < 0 || ctx.To > len(ctx.Source) {
			texts = append(texts, "")
		} else {
			texts = append(texts, ctx.Source[ctx.From:ctx.To])
		}
		tb = tb.Next
	}
	return texts
}

// AnyParseError is an error that can be passed to Test as the exception of a
// Case to match any parse error. Use it with ThrowsParseError.
var AnyParseError error = anyParseError{}

type anyParseError struct{}

func (anyParseError) Error() string { return "any parse error" }

func (anyParseError) matchError(e error) bool {
	_, ok := e.(*parse.Error)
	return ok
}

// ThrowsParseError returns an altered Case that requires the code to fail to
// parse.
func (c Case) ThrowsParseError() Case {
	c.want.Exception = AnyParseError
	return c
}

// ErrorWithType returns an error that can be passed to the Case.Throws to match
// any error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}

// ErrorWithMessage returns an error that can be passed to Case.Throws to match
// any error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}
