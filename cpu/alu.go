package cpu

import (
	"math/bits"
)

// Flag register bits.
const (
	FLAG_C  = uint8(0x01) // Carry
	FLAG_P  = uint8(0x04) // Parity (even)
	FLAG_AC = uint8(0x10) // Auxiliary carry
	FLAG_Z  = uint8(0x40) // Zero
	FLAG_S  = uint8(0x80) // Sign

	FLAG_ONE    = uint8(0x02) // Always set.
	FLAG_UNUSED = uint8(0x28) // Always clear.
)

// Flag reports whether a flag bit is set.
func (cpu *Cpu) Flag(flag uint8) bool {
	return cpu.Flags&flag != 0
}

func (cpu *Cpu) setFlag(flag uint8, on bool) {
	if on {
		cpu.Flags |= flag
	} else {
		cpu.Flags &^= flag
	}
}

func (cpu *Cpu) carry() uint8 {
	return cpu.Flags & FLAG_C
}

// setZSP sets zero, sign and parity from a result byte.
func (cpu *Cpu) setZSP(value uint8) {
	cpu.setFlag(FLAG_Z, value == 0)
	cpu.setFlag(FLAG_S, value&0x80 != 0)
	cpu.setFlag(FLAG_P, bits.OnesCount8(value)%2 == 0)
}

func (cpu *Cpu) normalizeFlags() {
	cpu.Flags = (cpu.Flags | FLAG_ONE) &^ FLAG_UNUSED
}

func (cpu *Cpu) add(value uint8, carry uint8) (result uint8) {
	a := cpu.A
	sum := uint(a) + uint(value) + uint(carry)
	result = uint8(sum)

	cpu.setFlag(FLAG_C, sum > 0xff)
	cpu.setFlag(FLAG_AC, (a&0xf)+(value&0xf)+carry > 0xf)
	cpu.setZSP(result)
	return
}

func (cpu *Cpu) sub(value uint8, borrow uint8) (result uint8) {
	a := cpu.A
	diff := int(a) - int(value) - int(borrow)
	result = uint8(diff)

	cpu.setFlag(FLAG_C, diff < 0)
	cpu.setFlag(FLAG_AC, int(a&0xf) < int(value&0xf)+int(borrow))
	cpu.setZSP(result)
	return
}

func (cpu *Cpu) logic(result uint8, ac bool) {
	cpu.A = result
	cpu.setFlag(FLAG_C, false)
	cpu.setFlag(FLAG_AC, ac)
	cpu.setZSP(result)
}

// alu applies an accumulator operation with value as the second operand.
func (cpu *Cpu) alu(op AluOp, value uint8) {
	switch op {
	case ALU_ADD:
		cpu.A = cpu.add(value, 0)
	case ALU_ADC:
		cpu.A = cpu.add(value, cpu.carry())
	case ALU_SUB:
		cpu.A = cpu.sub(value, 0)
	case ALU_SBB:
		cpu.A = cpu.sub(value, cpu.carry())
	case ALU_ANA:
		cpu.logic(cpu.A&value, true)
	case ALU_XRA:
		cpu.logic(cpu.A^value, false)
	case ALU_ORA:
		cpu.logic(cpu.A|value, false)
	case ALU_CMP:
		cpu.sub(value, 0)
	}
}

func (cpu *Cpu) inr(value uint8) (result uint8) {
	result = value + 1
	cpu.setFlag(FLAG_AC, value&0xf == 0xf)
	cpu.setZSP(result)
	return
}

func (cpu *Cpu) dcr(value uint8) (result uint8) {
	result = value - 1
	cpu.setFlag(FLAG_AC, value&0xf == 0)
	cpu.setZSP(result)
	return
}

func (cpu *Cpu) dad(value uint16) {
	sum := uint32(cpu.HL()) + uint32(value)
	cpu.SetHL(uint16(sum))
	cpu.setFlag(FLAG_C, sum > 0xffff)
}

// daa applies the two nibble BCD correction to the accumulator.
func (cpu *Cpu) daa() {
	a := cpu.A
	carry := cpu.Flag(FLAG_C)

	var correction uint8
	if a&0xf > 9 || cpu.Flag(FLAG_AC) {
		correction |= 0x06
	}
	if a > 0x99 || carry {
		correction |= 0x60
		carry = true
	}

	sum := uint(a) + uint(correction)
	cpu.A = uint8(sum)
	cpu.setFlag(FLAG_C, carry || sum > 0xff)
	cpu.setFlag(FLAG_AC, (a&0xf)+(correction&0xf) > 0xf)
	cpu.setZSP(cpu.A)
}

func (cpu *Cpu) rotate(op uint8) {
	a := cpu.A
	switch op {
	case OP_RLC:
		cpu.A = bits.RotateLeft8(a, 1)
		cpu.setFlag(FLAG_C, a&0x80 != 0)
	case OP_RRC:
		cpu.A = bits.RotateLeft8(a, -1)
		cpu.setFlag(FLAG_C, a&0x01 != 0)
	case OP_RAL:
		cpu.A = a<<1 | cpu.carry()
		cpu.setFlag(FLAG_C, a&0x80 != 0)
	case OP_RAR:
		cpu.A = a>>1 | cpu.carry()<<7
		cpu.setFlag(FLAG_C, a&0x01 != 0)
	}
}

// test reports whether a branch condition holds.
func (cpu *Cpu) test(cond Cond) (ok bool) {
	switch cond &^ 1 {
	case COND_NZ:
		ok = cpu.Flag(FLAG_Z)
	case COND_NC:
		ok = cpu.Flag(FLAG_C)
	case COND_PO:
		ok = cpu.Flag(FLAG_P)
	case COND_P:
		ok = cpu.Flag(FLAG_S)
	}

	// Odd conditions test for the flag set.
	if cond&1 == 0 {
		ok = !ok
	}
	return
}
