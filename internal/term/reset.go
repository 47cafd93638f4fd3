// Package term restores a terminal left in a corrupted mode by a
// full-screen application that exited without cleaning up.
package term

import (
	"io"
	"strings"
)

// Sequence is a named ANSI/VT100 control sequence.
type Sequence struct {
	Name string
	Code string
}

// Sequences is the ordered table of control codes written by Reset.
// Every entry sets an absolute terminal state rather than toggling one,
// so emitting the table any number of times is safe.
var Sequences = []Sequence{
	{"disable mouse tracking (1000)", "\x1b[?1000l"},
	{"disable button-event mouse tracking (1002)", "\x1b[?1002l"},
	{"disable any-event mouse tracking (1003)", "\x1b[?1003l"},
	{"disable SGR extended mouse mode (1006)", "\x1b[?1006l"},
	{"disable URXVT mouse mode (1015)", "\x1b[?1015l"},
	{"show cursor", "\x1b[?25h"},
	{"reset colors and attributes", "\x1b[0m"},
	{"disable alternate screen buffer (1049)", "\x1b[?1049l"},
	{"clear scrollback buffer", "\x1b[3J"},
	{"clear visible screen", "\x1b[2J"},
	{"move cursor to home position", "\x1b[H"},
}

// ResetMessage is the confirmation line printed by Restore.
const ResetMessage = "Terminal state reset complete"

// resetCodes is the concatenation of every sequence in table order,
// built once at startup.
var resetCodes = func() string {
	var b strings.Builder
	for _, s := range Sequences {
		b.WriteString(s.Code)
	}
	return b.String()
}()

// ResetString returns the concatenated reset codes without writing them.
func ResetString() string {
	return resetCodes
}

// Reset writes the full reset-code block to w in a single write.
// The hosting terminal emulator is expected to interpret the codes;
// no capability detection or state querying is performed.
func Reset(w io.Writer) error {
	_, err := io.WriteString(w, resetCodes)
	return err
}

// Restore resets the terminal and prints the confirmation line.
// This is the whole behavior of the fixterm command.
func Restore(w io.Writer) error {
	if err := Reset(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ResetMessage+"\n")
	return err
}
