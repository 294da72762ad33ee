package vals

import (
	"math"
	"math/big"
	"strings"

	"src.minruby.dev/pkg/eval/errs"
)

// ToInt converts a value to an Integer the way Ruby's to_i does.
//
// Integers are returned unchanged, Floats are truncated toward zero, and nil
// becomes 0. A string is read from its leading whitespace-trimmed prefix
// consisting of an optional sign and decimal digits, which may be separated by
// single underscores; the rest is ignored, and a string without such a prefix
// becomes 0.
func ToInt(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case int, *big.Int:
		return v, nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, errs.BadArgument{Fn: "Integer", Want: "finite number", Got: formatFloat(v)}
		}
		z, _ := big.NewFloat(math.Trunc(v)).Int(nil)
		return NormalizeBig(z), nil
	case string:
		return parseIntPrefix(v), nil
	default:
		return nil, errs.BadArgument{Fn: "Integer", Want: "number, string or nil", Got: Kind(v)}
	}
}

func parseIntPrefix(s string) any {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	var sb strings.Builder
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sb.WriteByte('-')
		}
		s = s[1:]
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if '0' <= c && c <= '9' {
			sb.WriteByte(c)
			digits++
		} else if c == '_' && digits > 0 && i+1 < len(s) && '0' <= s[i+1] && s[i+1] <= '9' {
			continue
		} else {
			break
		}
	}
	if digits == 0 {
		return 0
	}
	z, _ := new(big.Int).SetString(sb.String(), 10)
	return NormalizeBig(z)
}
