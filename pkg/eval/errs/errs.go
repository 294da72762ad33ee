// Package errs declares types for the errors the evaluator may produce.
//
// The error types only carry strings and numbers, so that this package does
// not depend on the value model.
package errs

import (
	"fmt"
	"strconv"
)

// UnknownNode is raised when the evaluator meets a node whose kind is not in
// the vocabulary. Node is a structural dump of the node, and Env is a dump of
// the variables in scope.
type UnknownNode struct {
	Kind string
	Node string
	Env  string
}

func (e UnknownNode) Error() string {
	return "unknown node: " + e.Kind
}

// UnknownCall is raised when a called name is neither a user-defined function
// nor a builtin.
type UnknownCall struct {
	Name string
}

func (e UnknownCall) Error() string {
	return "unknown builtin function: " + e.Name
}

// ZeroDivision is raised when an integer is divided by 0, or when the
// modulo by 0 is taken.
type ZeroDivision struct{}

func (ZeroDivision) Error() string { return "divided by 0" }

// BadOperand is raised when an operator does not support the kinds of its
// operands.
type BadOperand struct {
	Op    string
	Left  string
	Right string
}

func (e BadOperand) Error() string {
	return fmt.Sprintf("unsupported operand kinds for %s: %s and %s", e.Op, e.Left, e.Right)
}

// BadCompare is raised when two values cannot be ordered.
type BadCompare struct {
	Left  string
	Right string
}

func (e BadCompare) Error() string {
	return fmt.Sprintf("comparison of %s with %s failed", e.Left, e.Right)
}

// NotIndexable is raised when ary_ref or ary_assign is applied to a value that
// is neither an array nor a hash.
type NotIndexable struct {
	Kind string
}

func (e NotIndexable) Error() string {
	return e.Kind + " is not indexable"
}

// BadIndex is raised when an array is indexed with a non-integer.
type BadIndex struct {
	Kind string
}

func (e BadIndex) Error() string {
	return "no implicit conversion of " + e.Kind + " into Integer"
}

// OutOfRange is raised when a negative index reaches before the start of an
// array in an assignment.
type OutOfRange struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    string
}

func (e OutOfRange) Error() string {
	if e.ValidHigh < e.ValidLow {
		return fmt.Sprintf("out of range: %v has no valid value, but is %v",
			e.What, e.Actual)
	}
	return fmt.Sprintf("out of range: %s must be from %d to %d, but is %s",
		e.What, e.ValidLow, e.ValidHigh, e.Actual)
}

// BadArgument is raised when a builtin receives an argument of an
// unsupported kind or value.
type BadArgument struct {
	Fn   string
	Want string
	Got  string
}

func (e BadArgument) Error() string {
	return fmt.Sprintf("bad argument to %s: need %s, got %s", e.Fn, e.Want, e.Got)
}

// ArityMismatch is raised when a builtin is called with the wrong number of
// arguments. A negative ValidHigh means no upper limit.
type ArityMismatch struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    int
}

func (e ArityMismatch) Error() string {
	switch {
	case e.ValidHigh == e.ValidLow:
		return fmt.Sprintf("arity mismatch: %v must be %v, but is %v",
			e.What, nValues(e.ValidLow), nValues(e.Actual))
	case e.ValidHigh == -1:
		return fmt.Sprintf("arity mismatch: %v must be %v or more values, but is %v",
			e.What, e.ValidLow, nValues(e.Actual))
	default:
		return fmt.Sprintf("arity mismatch: %v must be %v to %v values, but is %v",
			e.What, e.ValidLow, e.ValidHigh, nValues(e.Actual))
	}
}

func nValues(n int) string {
	if n == 1 {
		return "1 value"
	}
	return strconv.Itoa(n) + " values"
}
