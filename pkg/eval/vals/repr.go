package vals

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Repr returns the representation of a value, the same text Ruby's inspect
// produces for it. This is what the p builtin prints.
//
// Arrays and hashes that contain themselves are shown with [...] and {...}
// at the point of recursion.
func Repr(v any) string {
	var sb strings.Builder
	writeRepr(&sb, v, nil)
	return sb.String()
}

func writeRepr(sb *strings.Builder, v any, visiting []any) {
	switch v := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int:
		sb.WriteString(strconv.Itoa(v))
	case *big.Int:
		sb.WriteString(v.String())
	case float64:
		sb.WriteString(formatFloat(v))
	case string:
		sb.WriteString(quote(v))
	case *Array:
		if isVisiting(visiting, v) {
			sb.WriteString("[...]")
			return
		}
		visiting = append(visiting, v)
		sb.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRepr(sb, e, visiting)
		}
		sb.WriteByte(']')
	case *Map:
		if isVisiting(visiting, v) {
			sb.WriteString("{...}")
			return
		}
		visiting = append(visiting, v)
		sb.WriteByte('{')
		first := true
		v.Each(func(k, e any) bool {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			writeRepr(sb, k, visiting)
			sb.WriteString("=>")
			writeRepr(sb, e, visiting)
			return true
		})
		sb.WriteByte('}')
	default:
		fmt.Fprintf(sb, "#<unknown %v>", v)
	}
}

func isVisiting(visiting []any, v any) bool {
	for _, w := range visiting {
		if w == v {
			return true
		}
	}
	return false
}

// Formats a float64 the way Ruby's Float#inspect does: the shortest
// representation that reads back to the same value, always with a fractional
// part, switching to scientific notation for exponents below -4 or from 16 up.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	if e < -4 || e >= 16 {
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		return mantissa + "e" + exp
	}
	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Quotes a string the way Ruby's String#inspect does.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, "\\x%02X", s[i])
			i++
			continue
		}
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		case '\b':
			sb.WriteString(`\b`)
		case '\a':
			sb.WriteString(`\a`)
		case 0x1b:
			sb.WriteString(`\e`)
		case '#':
			// Escape what would otherwise start an interpolation.
			if next := s[i+size:]; next != "" && strings.ContainsRune("{$@", rune(next[0])) {
				sb.WriteString(`\#`)
			} else {
				sb.WriteByte('#')
			}
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			} else if r < 0x10000 {
				fmt.Fprintf(&sb, "\\u%04X", r)
			} else {
				fmt.Fprintf(&sb, "\\u{%X}", r)
			}
		}
		i += size
	}
	sb.WriteByte('"')
	return sb.String()
}
