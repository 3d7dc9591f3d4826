package asm

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/ezrec/i8080/cpu"
)

// Statement is a source line that emitted bytes.
type Statement struct {
	LineNo int    // Source line number.
	Addr   int    // Address of the first emitted byte.
	Size   int    // Number of emitted bytes.
	Text   string // Source text, after macro parameter substitution.
	Macro  string // Name of the expanding macro, if any.
}

// Program is the result of an assembly.
type Program struct {
	Memory     cpu.Memory       // Assembled memory image.
	Statements []Statement      // Statements, in emission order.
	Symbols    map[string]int32 // Global symbols.
}

// Debug locates a statement and the offset of an address within it.
type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement that emitted the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(addr) >= st.Addr && int(addr) < st.Addr+st.Size {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr) - st.Addr,
			}
			break
		}
	}

	return
}

// Binary returns a copy of the whole memory image.
func (prog *Program) Binary() (bins []byte) {
	return slices.Clone(prog.Memory[:])
}

// Codes iterates over every emitted byte, in emission order.
func (prog *Program) Codes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, code byte) bool) {
		for _, st := range prog.Statements {
			for n := range st.Size {
				addr := uint16(st.Addr + n)
				if !yield(addr, prog.Memory[addr]) {
					return
				}
			}
		}
	}
}

// Listing writes an address/bytes/source listing of the program.
func (prog *Program) Listing(w io.Writer) (err error) {
	for _, st := range prog.Statements {
		var hex strings.Builder
		for n := range st.Size {
			if n == 4 {
				hex.WriteString("...")
				break
			}
			fmt.Fprintf(&hex, "%02X", prog.Memory[uint16(st.Addr+n)])
		}
		_, err = fmt.Fprintf(w, "%5d  %04X  %-11s  %s\n", st.LineNo, st.Addr, hex.String(), st.Text)
		if err != nil {
			return
		}
	}

	return
}
