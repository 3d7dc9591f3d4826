// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]int32{
	"MEMORY_SIZE": MEMORY_SIZE,
	"STACK_TOP":   STACK_TOP,
}

// State is the register file of the CPU.
type State struct {
	A, B, C, D, E, H, L uint8 // General purpose registers.

	Flags uint8  // Flag register (see FLAG_*)
	SP    uint16 // Stack pointer.
	PC    uint16 // Program counter.

	Halted            bool   // Set by HLT.
	InterruptsEnabled bool   // Set by EI, cleared by DI.
	Cycles            uint64 // Machine cycles since reset.
}

// Cpu is the simulation context of an 8080 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	State
	Memory Memory // Private address space.
	Port   Port   // I/O bridge; nil reads as NullPort.
}

// NewCpu creates a reset CPU, with a copy of image as its memory.
func NewCpu(image *Memory) (cpu *Cpu) {
	cpu = &Cpu{}
	if image != nil {
		cpu.Memory = *image
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, int32] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers.
// - Sets SP to STACK_TOP, and PC to 0.
// - Disables interrupts, and leaves the halted state.
// - Zeros the cycle counter.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.State = State{
		Flags: FLAGS_RESET,
		SP:    STACK_TOP,
	}
}

// Snapshot returns a copy of the register file.
func (cpu *Cpu) Snapshot() State {
	return cpu.State
}

// BC returns the B:C register pair.
func (cpu *Cpu) BC() uint16 {
	return uint16(cpu.B)<<8 | uint16(cpu.C)
}

// DE returns the D:E register pair.
func (cpu *Cpu) DE() uint16 {
	return uint16(cpu.D)<<8 | uint16(cpu.E)
}

// HL returns the H:L register pair, the address of the M operand.
func (cpu *Cpu) HL() uint16 {
	return uint16(cpu.H)<<8 | uint16(cpu.L)
}

// SetHL sets the H:L register pair.
func (cpu *Cpu) SetHL(value uint16) {
	cpu.H, cpu.L = uint8(value>>8), uint8(value)
}

func (cpu *Cpu) reg(r Reg) uint8 {
	switch r {
	case REG_B:
		return cpu.B
	case REG_C:
		return cpu.C
	case REG_D:
		return cpu.D
	case REG_E:
		return cpu.E
	case REG_H:
		return cpu.H
	case REG_L:
		return cpu.L
	case REG_M:
		return cpu.Memory[cpu.HL()]
	default:
		return cpu.A
	}
}

func (cpu *Cpu) setReg(r Reg, value uint8) {
	switch r {
	case REG_B:
		cpu.B = value
	case REG_C:
		cpu.C = value
	case REG_D:
		cpu.D = value
	case REG_E:
		cpu.E = value
	case REG_H:
		cpu.H = value
	case REG_L:
		cpu.L = value
	case REG_M:
		cpu.Memory[cpu.HL()] = value
	default:
		cpu.A = value
	}
}

func (cpu *Cpu) pair(rp RegPair) uint16 {
	switch rp {
	case PAIR_B:
		return cpu.BC()
	case PAIR_D:
		return cpu.DE()
	case PAIR_H:
		return cpu.HL()
	default:
		return cpu.SP
	}
}

func (cpu *Cpu) setPair(rp RegPair, value uint16) {
	hi, lo := uint8(value>>8), uint8(value)
	switch rp {
	case PAIR_B:
		cpu.B, cpu.C = hi, lo
	case PAIR_D:
		cpu.D, cpu.E = hi, lo
	case PAIR_H:
		cpu.H, cpu.L = hi, lo
	default:
		cpu.SP = value
	}
}

func (cpu *Cpu) port() Port {
	if cpu.Port == nil {
		return NullPort{}
	}
	return cpu.Port
}

func (cpu *Cpu) fetch() (value uint8) {
	value = cpu.Memory[cpu.PC]
	cpu.PC++
	return
}

func (cpu *Cpu) fetchWord() (value uint16) {
	value = cpu.Memory.Word(cpu.PC)
	cpu.PC += 2
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.State.String()
}

// String returns the register file as a string.
func (st State) String() (text string) {
	flags := []byte("szxaxpxc")
	for n := range flags {
		if st.Flags&(0x80>>n) != 0 && flags[n] != 'x' {
			flags[n] -= 'a' - 'A'
		}
	}

	regs := []struct {
		name  string
		value string
	}{
		{"a", fmt.Sprintf("%02X", st.A)},
		{"bc", fmt.Sprintf("%02X%02X", st.B, st.C)},
		{"de", fmt.Sprintf("%02X%02X", st.D, st.E)},
		{"hl", fmt.Sprintf("%02X%02X", st.H, st.L)},
		{"sp", fmt.Sprintf("%04X", st.SP)},
		{"pc", fmt.Sprintf("%04X", st.PC)},
		{"flags", string(flags)},
		{"cycles", fmt.Sprintf("%d", st.Cycles)},
	}
	for _, reg := range regs {
		text += fmt.Sprintf("% 6s: %v\n", reg.name, reg.value)
	}
	if st.Halted {
		text += "halted\n"
	}

	return
}

// Trace returns the disassembly of the instruction at PC.
func (cpu *Cpu) Trace() string {
	pc := cpu.PC
	return Disassemble(cpu.Memory[pc], cpu.Memory[pc+1], cpu.Memory[pc+2])
}

// Run steps the CPU until it halts.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		_, err = cpu.Step()
		if err != nil {
			return
		}
	}

	return
}

// Step executes a single instruction, and returns its cycle cost.
func (cpu *Cpu) Step() (cycles int, err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.PC
	if cpu.Verbose {
		log.Printf("cpu: %04X: %v", pc, cpu.Trace())
	}

	op := cpu.fetch()
	cycles, err = cpu.execute(op)
	if err != nil {
		cpu.PC = pc
		return
	}

	cpu.normalizeFlags()
	cpu.Cycles += uint64(cycles)

	return
}

// execute runs a fetched opcode.
func (cpu *Cpu) execute(op uint8) (cycles int, err error) {
	cycles = Cycles(op)

	switch {
	case op == OP_HLT:
		cpu.Halted = true
	case op&0xc0 == OP_MOV:
		cpu.setReg(Reg(op>>3&7), cpu.reg(Reg(op&7)))
	case op&0xc0 == OP_ALU:
		cpu.alu(AluOp(op>>3&7), cpu.reg(Reg(op&7)))
	case op < 0x40:
		cpu.executeLow(op)
	default:
		cycles, err = cpu.executeHigh(op, cycles)
	}

	return
}

// executeLow runs opcodes 0x00 through 0x3f.
func (cpu *Cpu) executeLow(op uint8) {
	r := Reg(op >> 3 & 7)
	rp := RegPair(op >> 4 & 3)

	switch {
	case op&0x07 == 0x00:
		// NOP, and its undocumented aliases.
	case op&0xcf == OP_LXI:
		cpu.setPair(rp, cpu.fetchWord())
	case op&0xcf == OP_INX:
		cpu.setPair(rp, cpu.pair(rp)+1)
	case op&0xcf == OP_DCX:
		cpu.setPair(rp, cpu.pair(rp)-1)
	case op&0xcf == OP_DAD:
		cpu.dad(cpu.pair(rp))
	case op&0xc7 == OP_INR:
		cpu.setReg(r, cpu.inr(cpu.reg(r)))
	case op&0xc7 == OP_DCR:
		cpu.setReg(r, cpu.dcr(cpu.reg(r)))
	case op&0xc7 == OP_MVI:
		cpu.setReg(r, cpu.fetch())
	case op == OP_STAX, op == OP_STAX|0x10:
		cpu.Memory[cpu.pair(rp)] = cpu.A
	case op == OP_LDAX, op == OP_LDAX|0x10:
		cpu.A = cpu.Memory[cpu.pair(rp)]
	case op == OP_SHLD:
		cpu.Memory.SetWord(cpu.fetchWord(), cpu.HL())
	case op == OP_LHLD:
		cpu.SetHL(cpu.Memory.Word(cpu.fetchWord()))
	case op == OP_STA:
		cpu.Memory[cpu.fetchWord()] = cpu.A
	case op == OP_LDA:
		cpu.A = cpu.Memory[cpu.fetchWord()]
	case op == OP_RLC, op == OP_RRC, op == OP_RAL, op == OP_RAR:
		cpu.rotate(op)
	case op == OP_DAA:
		cpu.daa()
	case op == OP_CMA:
		cpu.A = ^cpu.A
	case op == OP_STC:
		cpu.setFlag(FLAG_C, true)
	case op == OP_CMC:
		cpu.setFlag(FLAG_C, !cpu.Flag(FLAG_C))
	}
}

// executeHigh runs opcodes 0xc0 through 0xff.
func (cpu *Cpu) executeHigh(op uint8, base int) (cycles int, err error) {
	cycles = base
	cond := Cond(op >> 3 & 7)
	rp := RegPair(op >> 4 & 3)

	switch {
	case op&0xc7 == OP_RCC:
		if cpu.test(cond) {
			cpu.PC = cpu.Pop()
			cycles = CYCLES_RET_TAKEN
		} else {
			cycles = CYCLES_RET_SKIPPED
		}
	case op&0xc7 == OP_JCC:
		addr := cpu.fetchWord()
		if cpu.test(cond) {
			cpu.PC = addr
		}
	case op&0xc7 == OP_CCC:
		addr := cpu.fetchWord()
		if cpu.test(cond) {
			cpu.Push(cpu.PC)
			cpu.PC = addr
			cycles = CYCLES_CALL_TAKEN
		} else {
			cycles = CYCLES_CALL_SKIPPED
		}
	case op&0xc7 == OP_ALI:
		cpu.alu(AluOp(op>>3&7), cpu.fetch())
	case op&0xc7 == OP_RST:
		cpu.Push(cpu.PC)
		cpu.PC = uint16(op & 0x38)
	case op == OP_POP|0x30:
		cpu.popPsw()
	case op&0xcf == OP_POP:
		cpu.setPair(rp, cpu.Pop())
	case op == OP_PUSH|0x30:
		cpu.pushPsw()
	case op&0xcf == OP_PUSH:
		cpu.Push(cpu.pair(rp))
	case op == OP_JMP:
		cpu.PC = cpu.fetchWord()
	case op == OP_CALL:
		addr := cpu.fetchWord()
		cpu.Push(cpu.PC)
		cpu.PC = addr
	case op == OP_RET:
		cpu.PC = cpu.Pop()
	case op == OP_OUT:
		cpu.port().Output(cpu.fetch(), cpu.A)
	case op == OP_IN:
		cpu.A = cpu.port().Input(cpu.fetch())
	case op == OP_XTHL:
		cpu.xthl()
	case op == OP_PCHL:
		cpu.PC = cpu.HL()
	case op == OP_SPHL:
		cpu.SP = cpu.HL()
	case op == OP_XCHG:
		cpu.D, cpu.H = cpu.H, cpu.D
		cpu.E, cpu.L = cpu.L, cpu.E
	case op == OP_DI:
		cpu.InterruptsEnabled = false
	case op == OP_EI:
		cpu.InterruptsEnabled = true
	case op == 0xcb, op == 0xd9, op&0xcf == 0xcd:
		// Undocumented aliases, executed as NOP.
	default:
		err = ErrOpcode(op)
	}

	return
}
