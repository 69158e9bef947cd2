package logger

import (
	"io"
	"os"

	"golang.org/x/term"
)

// colorCapable reports whether w is a terminal that can render ANSI colors.
func colorCapable(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
