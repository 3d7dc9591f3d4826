package io

import (
	"io"
	"iter"
	"maps"

	"github.com/ezrec/i8080/cpu"
)

const (
	PORT_CONSOLE_DATA   = 0x84 // Character in/out.
	PORT_CONSOLE_STATUS = 0x85 // Reads CONSOLE_READY.

	CONSOLE_READY = 0x01
	CONSOLE_ESC   = 0x1b // Dropped on output.

	CONSOLE_EMPTY_READS = 100 // Consecutive empty reads treated as end of input.
)

var _console_defines = map[string]int32{
	"PORT_CONSOLE_DATA":   PORT_CONSOLE_DATA,
	"PORT_CONSOLE_STATUS": PORT_CONSOLE_STATUS,
	"CONSOLE_READY":       CONSOLE_READY,
}

// Console is a character terminal on the CPU's I/O ports.
// Characters written to PORT_CONSOLE_DATA go to Writer, and reads from it
// return the next byte of Reader, or 0 once Reader is exhausted.
type Console struct {
	Reader io.Reader
	Writer io.Writer
	CRLF   bool // Expand '\n' to "\r\n" on output.

	eof bool
}

var _ cpu.Port = (*Console)(nil)

// Defines returns an iter of defines for the console.
func (con *Console) Defines() iter.Seq2[string, int32] {
	return maps.All(_console_defines)
}

// Rewind forgets a previous end of input.
func (con *Console) Rewind() {
	con.eof = false
}

// Output writes a character when port is PORT_CONSOLE_DATA.
func (con *Console) Output(port uint8, value uint8) {
	if port != PORT_CONSOLE_DATA || con.Writer == nil {
		return
	}

	switch value {
	case CONSOLE_ESC:
		return
	case '\n':
		if con.CRLF {
			con.Writer.Write([]byte{'\r', '\n'})
			return
		}
	}

	con.Writer.Write([]byte{value})
}

// Input reads a port.
func (con *Console) Input(port uint8) (value uint8) {
	switch port {
	case PORT_CONSOLE_DATA:
		value = con.read()
	case PORT_CONSOLE_STATUS:
		value = CONSOLE_READY
	default:
		value = cpu.PORT_UNMAPPED
	}

	return
}

func (con *Console) read() uint8 {
	if con.Reader == nil || con.eof {
		return 0
	}

	var one [1]byte
	for range CONSOLE_EMPTY_READS {
		n, err := con.Reader.Read(one[:])
		if n == 1 {
			return one[0]
		}
		if err != nil {
			break
		}
	}

	con.eof = true
	return 0
}
