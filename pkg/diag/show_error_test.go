package diag

import (
	"errors"
	"strings"
	"testing"
)

type showerError struct{}

func (showerError) Error() string { return "error" }

func (showerError) Show(_ string) string { return "\033[1mshow\033[m" }

var showErrorTests = []struct {
	name    string
	err     error
	wantBuf string
}{
	{"A Shower error", showerError{}, "show\n"},
	{"A errors.New error", errors.New("ERROR"), "ERROR\n"},
}

func TestShowError_StripsStyleForNonTerminal(t *testing.T) {
	for _, test := range showErrorTests {
		t.Run(test.name, func(t *testing.T) {
			sb := &strings.Builder{}
			ShowError(sb, test.err)
			if sb.String() != test.wantBuf {
				t.Errorf("Wrote %q, want %q", sb.String(), test.wantBuf)
			}
		})
	}
}

func TestComplainf(t *testing.T) {
	sb := &strings.Builder{}
	Complainf(sb, "cannot read %q", "a.rb")
	if want := "cannot read \"a.rb\"\n"; sb.String() != want {
		t.Errorf("Wrote %q, want %q", sb.String(), want)
	}
}

func TestStripStyle(t *testing.T) {
	got := StripStyle("\033[31;1mred\033[m and \033[1;4mbold\033[m")
	if want := "red and bold"; got != want {
		t.Errorf("StripStyle -> %q, want %q", got, want)
	}
}
