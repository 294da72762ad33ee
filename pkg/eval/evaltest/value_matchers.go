package evaltest

import (
	"math"
	"math/big"
	"regexp"

	"src.minruby.dev/pkg/eval/vals"
)

// ValueMatcher is a value that can be passed to [Case.Puts] and has its own
// matching semantics.
type ValueMatcher interface{ matchValue(any) bool }

// Anything matches anything. It is useful when the value contains information
// that is useful when the test fails.
var Anything ValueMatcher = anything{}

type anything struct{}

func (anything) matchValue(any) bool { return true }

// AnyInteger matches any integer.
var AnyInteger ValueMatcher = anyInteger{}

type anyInteger struct{}

func (anyInteger) matchValue(x any) bool {
	switch x.(type) {
	case int, *big.Int:
		return true
	default:
		return false
	}
}

// ApproximatelyThreshold defines the threshold for matching float64 values when
// using [Approximately].
const ApproximatelyThreshold = 1e-15

// Approximately matches a float64 within the threshold defined by
// [ApproximatelyThreshold].
func Approximately(f float64) ValueMatcher { return approximately{f} }

type approximately struct{ value float64 }

func (a approximately) matchValue(value any) bool {
	if value, ok := value.(float64); ok {
		return matchFloat64(a.value, value, ApproximatelyThreshold)
	}
	return false
}

func matchFloat64(a, b, threshold float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if math.IsInf(a, 0) && math.IsInf(b, 0) &&
		math.Signbit(a) == math.Signbit(b) {
		return true
	}
	return math.Abs(a-b) <= threshold
}

// StringMatching matches any string matching a regexp pattern. If the pattern
// is not a valid regexp, the function panics.
func StringMatching(p string) ValueMatcher { return stringMatching{regexp.MustCompile(p)} }

type stringMatching struct{ pattern *regexp.Regexp }

func (s stringMatching) matchValue(value any) bool {
	if value, ok := value.(string); ok {
		return s.pattern.MatchString(value)
	}
	return false
}

// HashContaining matches any hash that contains all the given key-value
// pairs. The values can also be [ValueMatcher]s.
func HashContaining(pairs ...any) ValueMatcher {
	if len(pairs)%2 != 0 {
		panic("odd number of arguments to HashContaining")
	}
	return hashContaining{pairs}
}

type hashContaining struct{ pairs []any }

func (m hashContaining) matchValue(value any) bool {
	got, ok := value.(*vals.Map)
	if !ok {
		return false
	}
	for i := 0; i < len(m.pairs); i += 2 {
		gotValue, ok := got.Index(m.pairs[i])
		if !ok || !match(gotValue, m.pairs[i+1]) {
			return false
		}
	}
	return true
}

// Reprs returns a ValueMatcher that matches any value whose inspect form is
// s. It is a convenient way to match arrays and hashes.
func Reprs(s string) ValueMatcher { return reprs{s} }

type reprs struct{ s string }

func (r reprs) matchValue(value any) bool { return vals.Repr(value) == r.s }
