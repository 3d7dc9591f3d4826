package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/i8080/asm"
	"github.com/ezrec/i8080/cpu"
	"github.com/ezrec/i8080/io"
)

var helloProgram = []string{
	"        ORG 0",
	"START:  LXI H,MSG",
	"LOOP:   MOV A,M",
	"        CPI 0",
	"        JZ DONE",
	"        OUT PORT_CONSOLE_DATA",
	"        INX H",
	"        JMP LOOP",
	"DONE:   HLT",
	"MSG:    DB 'HELLO',0",
}

func assemble(emu *Emulator, program []string, t *testing.T) {
	assembler := &asm.Assembler{}
	emu.Predefine(assembler)
	prog, err := assembler.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog
}

func doRun(emu *Emulator, program []string, input []byte, t *testing.T) (output []byte) {
	assert := assert.New(t)

	assemble(emu, program, t)

	output_buffer := &bytes.Buffer{}
	emu.Console.Reader = bytes.NewReader(input)
	emu.Console.Writer = output_buffer

	err := emu.Reset()
	assert.NoError(err)

	var done bool
	for !done {
		line := emu.LineNo()
		done, err = emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("line %d: %v", line, err)
		}
	}

	output = output_buffer.Bytes()
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(&emu.Console, emu.Cpu.Port)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	defines := map[string]int32{}
	for name, value := range emu.Defines() {
		defines[name] = value
	}

	assert.Equal(int32(io.PORT_CONSOLE_DATA), defines["PORT_CONSOLE_DATA"])
	assert.Equal(int32(cpu.STACK_TOP), defines["STACK_TOP"])
	assert.Equal(int32(MAX_CYCLES_LIMIT), defines["MAX_CYCLES_LIMIT"])
}

func TestEmulatorHello(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doRun(emu, helloProgram, nil, t)

	assert.Equal("HELLO", string(output))
	assert.True(emu.Cpu.Halted)
	assert.Equal(9, emu.Program.Debug(emu.Cpu.PC-1).LineNo)
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(emu, helloProgram, t)
	emu.Console.Writer = &bytes.Buffer{}
	assert.NoError(emu.Reset())

	table := []int{2, 3, 4, 5, 6, 7, 8, 3}
	for _, lineno := range table {
		assert.Equal(lineno, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}
}

func TestEmulatorEcho(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LOOP:   IN PORT_CONSOLE_DATA",
		"        ORA A",
		"        JZ DONE",
		"        ADI 1",
		"        OUT PORT_CONSOLE_DATA",
		"        JMP LOOP",
		"DONE:   HLT",
	}

	emu := NewEmulator()
	output := doRun(emu, program, []byte("HAL"), t)
	assert.Equal("IBM", string(output))
}

func TestEmulatorFirmware(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Firmware = io.Rom{
		Origin: 0xf000,
		Data:   []byte{0x3e, '!', 0xd3, 0x84, 0x76}, // MVI A,'!'; OUT 84H; HLT
	}
	emu.StackTop = 0x8000

	program := []string{
		"        JMP ROM_ORIGIN",
	}
	assemble(emu, program, t)

	out := &bytes.Buffer{}
	emu.Console.Writer = out
	assert.NoError(emu.Reset())
	assert.Equal(uint16(0x8000), emu.Cpu.SP)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(uint16(0xf000), emu.Cpu.PC)
	assert.Equal(0, emu.LineNo())

	for !done {
		done, err = emu.Tick()
		assert.NoError(err)
	}
	assert.Equal("!", out.String())

	emu.Firmware.Origin = 0xffff
	assert.ErrorIs(emu.Reset(), io.ErrRomOverflow)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doRun(emu, []string{"NOP", "HLT"}, nil, t)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	_, err = emu.Step()
	assert.ErrorIs(err, cpu.ErrHalted)

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(uint16(2), re.Addr)
		assert.Equal(0, re.LineNo)
	}
}
