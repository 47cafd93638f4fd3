// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"golang.org/x/term"

	"charm.land/log/v2"
)

// Setup routes the default logger to a file under the XDG state directory.
// When stdout is not a terminal (output piped somewhere), log lines are
// mirrored there as well; when the TUI owns the terminal they must not be.
// The returned closer flushes and closes the log file.
func Setup(debug bool) (func(), error) {
	path, err := xdg.StateFile("texrboard/texrboard.log")
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	var w io.Writer = f
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		w = io.MultiWriter(f, os.Stdout)
	}

	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	log.SetDefault(logger)

	log.Debug("logging configured", "file", path, "debug", debug)
	return func() { _ = f.Close() }, nil
}
