package ui

import (
	"fmt"
	"io"
)

// OK prints a success line to w.
func (t Theme) OK(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line to w.
func (t Theme) Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// Hint prints a muted line to w.
func (t Theme) Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Muted.Render(msg))
}
