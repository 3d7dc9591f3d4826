// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"iter"
	"log"
	"maps"

	"github.com/ezrec/i8080/asm"
	"github.com/ezrec/i8080/cpu"
	"github.com/ezrec/i8080/internal"
	"github.com/ezrec/i8080/io"
)

var _emulator_defines = map[string]int32{
	"MAX_CYCLES_LIMIT": MAX_CYCLES_LIMIT,
}

// Emulator state. CPU + program listing + console + firmware.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.

	Console  io.Console // Console on the CPU's ports.
	Firmware io.Rom     // Firmware overlaid onto the program at reset.
	StackTop uint16     // If non-zero, SP after reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(nil),
		Program: &asm.Program{},
	}

	emu.Cpu.Port = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, int32] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Console.Defines(),
		emu.Firmware.Defines(),
	)
}

// Predefine seeds an assembler with the emulator defines.
func (emu *Emulator) Predefine(assembler *asm.Assembler) {
	for name, value := range emu.Defines() {
		assembler.Predefine(name, value)
	}
}

// Reset the emulator state.
// - Copies the program image into CPU memory.
// - Overlays the firmware, if any.
// - Resets the CPU and the console.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Memory = emu.Program.Memory
	if len(emu.Firmware.Data) != 0 {
		err = emu.Firmware.Merge(&emu.Cpu.Memory)
		if err != nil {
			return
		}
	}

	emu.Console.Rewind()
	emu.Cpu.Reset()

	if emu.StackTop != 0 {
		emu.Cpu.SP = emu.StackTop
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %d statements, firmware %d bytes at %04Xh",
			len(emu.Program.Statements), len(emu.Firmware.Data), emu.Firmware.Origin)
	}

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Step executes one instruction, and returns its cycle cost.
func (emu *Emulator) Step() (cycles int, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.PC
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Addr: pc, Err: err}
		}
	}()

	return emu.Cpu.Step()
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted {
		done = true
		return
	}

	_, err = emu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	return
}
