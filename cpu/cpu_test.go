package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// load creates a CPU with program at address 0.
func load(program ...uint8) *Cpu {
	var mem Memory
	copy(mem[:], program)
	return NewCpu(&mem)
}

type recordPort struct {
	ports  []uint8
	values []uint8
	input  uint8
}

func (rp *recordPort) Output(port uint8, value uint8) {
	rp.ports = append(rp.ports, port)
	rp.values = append(rp.values, value)
}

func (rp *recordPort) Input(port uint8) uint8 {
	rp.ports = append(rp.ports, port)
	return rp.input
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := load(0x3e, 0x12, 0x76) // MVI A,12H; HLT
	assert.NoError(cpu.Run())
	assert.True(cpu.Halted)
	assert.Equal(uint8(0x12), cpu.A)

	cpu.InterruptsEnabled = true
	cpu.Reset()
	assert.Equal(State{Flags: FLAGS_RESET, SP: 0x0FFF}, cpu.Snapshot())
	assert.Equal(uint8(0x3e), cpu.Memory[0])
}

func TestNewCpu_Copies(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	mem[0x10] = 0xaa
	cpu := NewCpu(&mem)
	mem[0x10] = 0x55
	assert.Equal(uint8(0xaa), cpu.Memory[0x10])
}

func TestHalted(t *testing.T) {
	assert := assert.New(t)

	cpu := load(0x76)
	cycles, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(7, cycles)
	assert.True(cpu.Halted)

	cycles, err = cpu.Step()
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(0, cycles)
	assert.Equal(uint64(7), cpu.Cycles)
}

func TestFlags(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []uint8
		a       uint8
		set     uint8
		clear   uint8
	}){
		{"add-ac", []uint8{0x3e, 0x0f, 0x06, 0x01, 0x80}, 0x10, FLAG_AC, FLAG_C | FLAG_Z},
		{"add-carry", []uint8{0x3e, 0xff, 0xc6, 0x01}, 0x00, FLAG_C | FLAG_Z | FLAG_AC | FLAG_P, FLAG_S},
		{"sub-equal", []uint8{0x3e, 0x42, 0x06, 0x42, 0x90}, 0x00, FLAG_Z | FLAG_P, FLAG_C | FLAG_S | FLAG_AC},
		{"sub-borrow", []uint8{0x3e, 0x01, 0xd6, 0x02}, 0xff, FLAG_C | FLAG_S | FLAG_P | FLAG_AC, FLAG_Z},
		{"cmp", []uint8{0x3e, 0x05, 0xfe, 0x09}, 0x05, FLAG_C | FLAG_S, FLAG_Z},
		{"adc", []uint8{0x37, 0x3e, 0x0e, 0xce, 0x01}, 0x10, FLAG_AC, FLAG_C},
		{"sbb", []uint8{0x37, 0x3e, 0x00, 0xde, 0xff}, 0x00, FLAG_C | FLAG_Z | FLAG_AC, FLAG_S},
		{"ana", []uint8{0x37, 0x3e, 0xf0, 0xe6, 0x3c}, 0x30, FLAG_AC | FLAG_P, FLAG_C | FLAG_Z},
		{"ora", []uint8{0x37, 0x3e, 0x80, 0xf6, 0x01}, 0x81, FLAG_S | FLAG_P, FLAG_C | FLAG_AC},
		{"xra", []uint8{0x3e, 0x55, 0xaf}, 0x00, FLAG_Z | FLAG_P, FLAG_C | FLAG_AC | FLAG_S},
		{"daa", []uint8{0x3e, 0x9b, 0x27}, 0x01, FLAG_C | FLAG_AC, FLAG_Z | FLAG_S},
		{"daa-bcd", []uint8{0x3e, 0x19, 0xc6, 0x28, 0x27}, 0x47, 0, FLAG_C},
		{"inr", []uint8{0x37, 0x3e, 0x0f, 0x3c}, 0x10, FLAG_AC | FLAG_C, FLAG_Z},
		{"inr-wrap", []uint8{0x3e, 0xff, 0x3c}, 0x00, FLAG_Z | FLAG_AC, FLAG_C},
		{"dcr", []uint8{0x3e, 0x10, 0x3d}, 0x0f, FLAG_AC, FLAG_Z | FLAG_C},
		{"dcr-zero", []uint8{0x3e, 0x01, 0x3d}, 0x00, FLAG_Z, FLAG_AC},
		{"rlc", []uint8{0x3e, 0x81, 0x07}, 0x03, FLAG_C, 0},
		{"rrc", []uint8{0x3e, 0x81, 0x0f}, 0xc0, FLAG_C, 0},
		{"ral", []uint8{0x37, 0x3e, 0x40, 0x17}, 0x81, 0, FLAG_C},
		{"rar", []uint8{0x37, 0x3e, 0x02, 0x1f}, 0x81, 0, FLAG_C},
		{"cma", []uint8{0x3e, 0x0f, 0x2f}, 0xf0, 0, 0},
		{"cmc", []uint8{0x37, 0x3f}, 0x00, 0, FLAG_C},
	}

	for _, entry := range table {
		cpu := load(append(entry.program, 0x76)...)
		err := cpu.Run()
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(entry.a, cpu.A, entry.name)
		assert.Equal(entry.set, cpu.Flags&entry.set, entry.name)
		assert.Equal(uint8(0), cpu.Flags&entry.clear, entry.name)
		assert.Equal(FLAG_ONE, cpu.Flags&(FLAG_ONE|FLAG_UNUSED), entry.name)
	}
}

func TestDad(t *testing.T) {
	assert := assert.New(t)

	// LXI H,0FFFFH; LXI B,2; DAD B; HLT
	cpu := load(0x21, 0xff, 0xff, 0x01, 0x02, 0x00, 0x09, 0x76)
	cpu.Flags |= FLAG_Z
	assert.NoError(cpu.Run())
	assert.Equal(uint16(0x0001), cpu.HL())
	assert.True(cpu.Flag(FLAG_C))
	assert.True(cpu.Flag(FLAG_Z))
}

func TestCallReturn(t *testing.T) {
	assert := assert.New(t)

	// 0000: CALL 0010H
	// 0003: HLT
	// 0010: RET
	cpu := load(0xcd, 0x10, 0x00, 0x76)
	cpu.Memory[0x10] = 0xc9

	cycles, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(17, cycles)
	assert.Equal(uint16(0x0010), cpu.PC)
	assert.Equal(uint16(0x0003), cpu.Peek())
	assert.Equal(uint16(STACK_TOP-2), cpu.SP)

	cycles, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(10, cycles)
	assert.Equal(uint16(0x0003), cpu.PC)
	assert.Equal(uint16(STACK_TOP), cpu.SP)

	assert.NoError(cpu.Run())
	assert.Equal(uint64(17+10+7), cpu.Cycles)
}

func TestRestart(t *testing.T) {
	assert := assert.New(t)

	table := []uint8{0xc7, 0xcf, 0xd7, 0xdf, 0xe7, 0xef, 0xf7, 0xff}

	for n, op := range table {
		cpu := load()
		cpu.PC = 0x1234
		cpu.Memory[0x1234] = op

		cycles, err := cpu.Step()
		assert.NoError(err)
		assert.Equal(11, cycles)
		assert.Equal(uint16(n*8), cpu.PC)
		assert.Equal(uint16(0x1235), cpu.Pop())
	}
}

func TestConditional(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		op     uint8
		flags  uint8
		pc     uint16
		cycles int
	}){
		{"jnz-taken", 0xc2, 0, 0x2000, 10},
		{"jnz-skipped", 0xc2, FLAG_Z, 0x1003, 10},
		{"jc-taken", 0xda, FLAG_C, 0x2000, 10},
		{"jpo-taken", 0xe2, 0, 0x2000, 10},
		{"jpe-skipped", 0xea, 0, 0x1003, 10},
		{"jm-taken", 0xfa, FLAG_S, 0x2000, 10},
		{"cz-taken", 0xcc, FLAG_Z, 0x2000, CYCLES_CALL_TAKEN},
		{"cz-skipped", 0xcc, 0, 0x1003, CYCLES_CALL_SKIPPED},
		{"cp-taken", 0xf4, 0, 0x2000, 17},
		{"rnc-taken", 0xd0, 0, 0x3000, 11},
		{"rnc-skipped", 0xd0, FLAG_C, 0x1001, CYCLES_RET_SKIPPED},
		{"rm-skipped", 0xf8, 0, 0x1001, CYCLES_RET_SKIPPED},
	}

	for _, entry := range table {
		cpu := load()
		cpu.Push(0x3000)
		cpu.PC = 0x1000
		cpu.Flags |= entry.flags
		cpu.Memory[0x1000] = entry.op
		cpu.Memory.SetWord(0x1001, 0x2000)

		cycles, err := cpu.Step()
		assert.NoError(err, entry.name)
		assert.Equal(entry.pc, cpu.PC, entry.name)
		assert.Equal(entry.cycles, cycles, entry.name)
	}
}

func TestMemoryOps(t *testing.T) {
	assert := assert.New(t)

	cpu := load(
		0x21, 0x00, 0x80, // LXI H,8000H
		0x36, 0x5a,       // MVI M,5AH
		0x7e,             // MOV A,M
		0x32, 0x01, 0x80, // STA 8001H
		0x22, 0x10, 0x80, // SHLD 8010H
		0x11, 0x01, 0x80, // LXI D,8001H
		0x1a,             // LDAX D
		0x34,             // INR M
		0xeb,             // XCHG
		0x2a, 0x10, 0x80, // LHLD 8010H
		0xe5,             // PUSH H
		0xc1,             // POP B
		0x76,             // HLT
	)
	assert.NoError(cpu.Run())

	assert.Equal(uint8(0x5b), cpu.Memory[0x8000])
	assert.Equal(uint8(0x5a), cpu.Memory[0x8001])
	assert.Equal(uint16(0x8000), cpu.Memory.Word(0x8010))
	assert.Equal(uint8(0x5a), cpu.A)
	assert.Equal(uint16(0x8000), cpu.DE())
	assert.Equal(uint16(0x8000), cpu.HL())
	assert.Equal(uint16(0x8000), cpu.BC())
	assert.Equal(uint16(STACK_TOP), cpu.SP)
}

func TestPort(t *testing.T) {
	assert := assert.New(t)

	// MVI A,41H; OUT 84H; IN 85H; HLT
	cpu := load(0x3e, 0x41, 0xd3, 0x84, 0xdb, 0x85, 0x76)
	port := &recordPort{input: 0x33}
	cpu.Port = port

	assert.NoError(cpu.Run())
	assert.Equal([]uint8{0x84, 0x85}, port.ports)
	assert.Equal([]uint8{0x41}, port.values)
	assert.Equal(uint8(0x33), cpu.A)

	// Without a port, reads are unmapped.
	cpu = load(0xdb, 0x10, 0x76)
	assert.NoError(cpu.Run())
	assert.Equal(uint8(PORT_UNMAPPED), cpu.A)
}

func TestUndocumented(t *testing.T) {
	assert := assert.New(t)

	table := []uint8{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38, 0xcb, 0xd9, 0xdd, 0xed, 0xfd}

	for _, op := range table {
		cpu := load(op)
		cycles, err := cpu.Step()
		assert.NoError(err)
		assert.Equal(4, cycles)
		assert.Equal(uint16(1), cpu.PC)
		assert.Equal(uint16(STACK_TOP), cpu.SP)
	}
}

func TestErrOpcode(t *testing.T) {
	assert := assert.New(t)

	var err error = ErrOpcode(0xcb)
	assert.True(errors.Is(err, ErrOpcode(0)))
	assert.Contains(err.Error(), "0xcb")
}

func TestInterrupts(t *testing.T) {
	assert := assert.New(t)

	cpu := load(0xfb, 0xf3)
	assert.False(cpu.InterruptsEnabled)
	cpu.Step()
	assert.True(cpu.InterruptsEnabled)
	cpu.Step()
	assert.False(cpu.InterruptsEnabled)
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	cpu := load(0x3e, 0x9b, 0x27, 0x76)
	assert.NoError(cpu.Run())

	text := cpu.String()
	assert.Contains(text, "     a: 01\n")
	assert.Contains(text, "    pc: 0004\n")
	assert.Contains(text, " flags: szxAxpxC\n")
	assert.Contains(text, "halted\n")
}

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	cpu := load(0xc3, 0x34, 0x12)
	assert.Equal("JMP 01234H", cpu.Trace())
}
