package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J\x1b[H"
	cursorHome  = "\x1b[H"
	clearToEnd  = "\x1b[J"
)

// Terminal holds a terminal in raw mode.
type Terminal struct {
	fd    int
	state *term.State
	out   io.Writer
	log   *HeldLog
}

// Open switches in to raw mode. Diagnostics written to Log are held until
// Restore and then go to errOut.
func Open(in *os.File, out, errOut io.Writer) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	if _, err := io.WriteString(out, hideCursor+clearScreen); err != nil {
		_ = term.Restore(fd, state)
		return nil, err
	}
	return &Terminal{fd: fd, state: state, out: out, log: NewHeldLog(errOut)}, nil
}

// Log returns the writer for diagnostics raised while raw.
func (t *Terminal) Log() io.Writer {
	return t.log
}

// Restore leaves raw mode and releases held diagnostics.
func (t *Terminal) Restore() error {
	if _, err := io.WriteString(t.out, showCursor+"\r\n"); err != nil {
		_ = err
	}
	err := term.Restore(t.fd, t.state)
	if ferr := t.log.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
