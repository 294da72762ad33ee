package diag

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"src.minruby.dev/pkg/sys"
)

var sgrSequence = regexp.MustCompile("\033\\[[0-9;]*m")

// ShowError shows an error to w. It uses the Show method if the error
// implements Shower, and uses Complain to print the error message otherwise.
//
// Styling is kept only when w is a terminal.
func ShowError(w io.Writer, err error) {
	var s string
	if shower, ok := err.(Shower); ok {
		s = shower.Show("")
	} else {
		s = messageStart + err.Error() + messageEnd
	}
	fmt.Fprintln(w, maybeStrip(w, s))
}

// Complain prints a message to w in bold and red, adding a trailing newline.
func Complain(w io.Writer, msg string) {
	fmt.Fprintln(w, maybeStrip(w, messageStart+msg+messageEnd))
}

// Complainf is like Complain, but accepts a format string and arguments.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}

// StripStyle removes terminal styling sequences from s.
func StripStyle(s string) string {
	return sgrSequence.ReplaceAllString(s, "")
}

func maybeStrip(w io.Writer, s string) string {
	if f, ok := w.(*os.File); ok && sys.IsATTY(f.Fd()) {
		return s
	}
	return StripStyle(s)
}
