package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	KEY_INTERRUPT = 0x03 // Ctrl-C
	KEY_RETURN    = '\r'
	KEY_DELETE    = 0x7f
	KEY_BACKSPACE = 0x08
)

// terminal puts stdin into raw mode for character at a time console input.
type terminal struct {
	fd     int
	state  *term.State
	cancel context.CancelFunc
}

// openTerminal enables raw mode if stdin is a terminal. cancel is called
// when Ctrl-C is read.
func openTerminal(cancel context.CancelFunc) (tty *terminal, err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	tty = &terminal{fd: fd, state: state, cancel: cancel}
	return
}

// Restore the terminal mode.
func (tty *terminal) Close() error {
	return term.Restore(tty.fd, tty.state)
}

// Read stdin, translating keys for the console.
func (tty *terminal) Read(buf []byte) (n int, err error) {
	n, err = os.Stdin.Read(buf)
	for i := range n {
		switch buf[i] {
		case KEY_INTERRUPT:
			tty.cancel()
			return i, io.EOF
		case KEY_RETURN:
			buf[i] = '\n'
		case KEY_DELETE:
			buf[i] = KEY_BACKSPACE
		}
	}

	return
}
