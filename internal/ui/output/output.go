// Package output builds the termenv outputs vrog writes through.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// Profile picks the color profile for w. NO_COLOR always wins. Terminals get
// whatever they advertise; pipes and CI logs get plain 16-color ANSI.
func Profile(w io.Writer) termenv.Profile {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case IsTerminal(w):
		return termenv.EnvColorProfile()
	default:
		return termenv.ANSI
	}
}

// New returns a termenv.Output for w, or for stderr when w is nil.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	opts = append(opts, termenv.WithProfile(Profile(w)), termenv.WithTTY(true))
	return termenv.NewOutput(w, opts...)
}
