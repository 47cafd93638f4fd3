// Package main implements fixterm, a one-shot terminal repair command.
//
// fixterm writes a fixed block of ANSI reset codes to stdout to recover a
// terminal that a misbehaving full-screen application (texrboard included)
// left with mouse tracking, a hidden cursor, or the alternate screen buffer
// still enabled. It takes no arguments, reads nothing, and always exits 0.
package main

import (
	"os"

	"github.com/bitplane/texrboard/internal/term"
)

func main() {
	// No flag parsing on purpose: running `fixterm --anything` must behave
	// exactly like `fixterm`, because the user's terminal may be too broken
	// to render a usage message.
	_ = term.Restore(os.Stdout)
	_ = os.Stdout.Sync()
}
