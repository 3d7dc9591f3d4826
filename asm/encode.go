package asm

import (
	"github.com/ezrec/i8080/cpu"
)

// registerMap maps register names to their encodings.
var registerMap = map[string]cpu.Reg{
	"B": cpu.REG_B,
	"C": cpu.REG_C,
	"D": cpu.REG_D,
	"E": cpu.REG_E,
	"H": cpu.REG_H,
	"L": cpu.REG_L,
	"M": cpu.REG_M,
	"A": cpu.REG_A,
}

// pairMap maps register pair names to their encodings. SP and PSW are
// handled separately.
var pairMap = map[string]cpu.RegPair{
	"B":  cpu.PAIR_B,
	"BC": cpu.PAIR_B,
	"D":  cpu.PAIR_D,
	"DE": cpu.PAIR_D,
	"H":  cpu.PAIR_H,
	"HL": cpu.PAIR_H,
}

// impliedMap holds the instructions that take no operands.
var impliedMap = map[string]byte{
	"NOP":  cpu.OP_NOP,
	"HLT":  cpu.OP_HLT,
	"STC":  cpu.OP_STC,
	"CMC":  cpu.OP_CMC,
	"CMA":  cpu.OP_CMA,
	"DAA":  cpu.OP_DAA,
	"RLC":  cpu.OP_RLC,
	"RRC":  cpu.OP_RRC,
	"RAL":  cpu.OP_RAL,
	"RAR":  cpu.OP_RAR,
	"XCHG": cpu.OP_XCHG,
	"XTHL": cpu.OP_XTHL,
	"SPHL": cpu.OP_SPHL,
	"PCHL": cpu.OP_PCHL,
	"RET":  cpu.OP_RET,
	"EI":   cpu.OP_EI,
	"DI":   cpu.OP_DI,
}

// absoluteMap holds the instructions that take a 16-bit address.
var absoluteMap = map[string]byte{
	"JMP":  cpu.OP_JMP,
	"CALL": cpu.OP_CALL,
	"STA":  cpu.OP_STA,
	"LDA":  cpu.OP_LDA,
	"SHLD": cpu.OP_SHLD,
	"LHLD": cpu.OP_LHLD,
}

var (
	aluMap        = map[string]cpu.AluOp{} // ADD B, ...
	aluImmMap     = map[string]cpu.AluOp{} // ADI 5, ...
	jumpCondMap   = map[string]cpu.Cond{}  // JNZ addr, ...
	callCondMap   = map[string]cpu.Cond{}  // CNZ addr, ...
	returnCondMap = map[string]cpu.Cond{}  // RNZ, ...
)

func init() {
	for op := cpu.ALU_ADD; op <= cpu.ALU_CMP; op++ {
		aluMap[op.String()] = op
		aluImmMap[op.Immediate()] = op
	}

	for cc := cpu.COND_NZ; cc <= cpu.COND_M; cc++ {
		jumpCondMap["J"+cc.String()] = cc
		callCondMap["C"+cc.String()] = cc
		returnCondMap["R"+cc.String()] = cc
	}
}

// parseRegister parses a register name, or its numeric encoding.
func parseRegister(operand string) (reg cpu.Reg, err error) {
	reg, ok := registerMap[operand]
	if ok {
		return
	}

	value, err := ParseNumber(operand)
	if err != nil || value < 0 || value > 7 {
		err = &ErrInvalidToken{Token: operand, Kind: TOKEN_OPERAND, Err: ErrRegisterInvalid}
		return
	}

	reg = cpu.Reg(value)
	return
}

// parseRegisterPair parses a register pair name. 'alt' is the name
// accepted for the fourth pair, SP or PSW.
func parseRegisterPair(operand string, alt string) (pair cpu.RegPair, err error) {
	if operand == alt {
		pair = cpu.PAIR_SP
		return
	}

	pair, ok := pairMap[operand]
	if !ok {
		err = &ErrInvalidToken{Token: operand, Kind: TOKEN_OPERAND, Err: ErrRegisterPair}
		return
	}

	return
}

// expectOperands checks the operand count of an instruction.
func expectOperands(instruction string, operands []string, count int) (err error) {
	switch {
	case len(operands) < count:
		err = &ErrInvalidToken{Token: instruction, Kind: TOKEN_OPERAND, Err: ErrOperandMissing}
	case len(operands) > count:
		err = &ErrInvalidToken{Token: instruction, Kind: TOKEN_OPERAND, Err: ErrOperandExtra}
	}
	return
}

// encode translates one machine instruction into its bytes. Operand
// expressions that refer to undefined symbols are queued for resolution
// at the end of the source and encoded as zero.
func (asm *Assembler) encode(instruction string, operands []string) (codes []byte, err error) {
	if op, ok := impliedMap[instruction]; ok {
		err = expectOperands(instruction, operands, 0)
		codes = []byte{op}
		return
	}

	if op, ok := absoluteMap[instruction]; ok {
		return asm.encodeAddress(instruction, op, operands)
	}

	if cc, ok := jumpCondMap[instruction]; ok {
		return asm.encodeAddress(instruction, cpu.OP_JCC|byte(cc)<<3, operands)
	}

	if cc, ok := callCondMap[instruction]; ok {
		return asm.encodeAddress(instruction, cpu.OP_CCC|byte(cc)<<3, operands)
	}

	if cc, ok := returnCondMap[instruction]; ok {
		err = expectOperands(instruction, operands, 0)
		codes = []byte{cpu.OP_RCC | byte(cc)<<3}
		return
	}

	if op, ok := aluMap[instruction]; ok {
		err = expectOperands(instruction, operands, 1)
		if err != nil {
			return
		}
		var reg cpu.Reg
		reg, err = parseRegister(operands[0])
		if err != nil {
			return
		}
		codes = []byte{cpu.OP_ALU | byte(op)<<3 | byte(reg)}
		return
	}

	if op, ok := aluImmMap[instruction]; ok {
		return asm.encodeImmediate(instruction, cpu.OP_ALI|byte(op)<<3, operands)
	}

	switch instruction {
	case "MOV":
		err = expectOperands(instruction, operands, 2)
		if err != nil {
			return
		}
		var dst, src cpu.Reg
		dst, err = parseRegister(operands[0])
		if err != nil {
			return
		}
		src, err = parseRegister(operands[1])
		if err != nil {
			return
		}
		if dst == cpu.REG_M && src == cpu.REG_M {
			// That encoding is HLT.
			err = &ErrInvalidToken{Token: operands[0] + "," + operands[1], Kind: TOKEN_OPERAND, Err: ErrRegisterInvalid}
			return
		}
		codes = []byte{cpu.OP_MOV | byte(dst)<<3 | byte(src)}
	case "MVI":
		err = expectOperands(instruction, operands, 2)
		if err != nil {
			return
		}
		var reg cpu.Reg
		reg, err = parseRegister(operands[0])
		if err != nil {
			return
		}
		var value byte
		value, err = asm.operand8(operands[1], 1)
		if err != nil {
			return
		}
		codes = []byte{cpu.OP_MVI | byte(reg)<<3, value}
	case "INR", "DCR":
		err = expectOperands(instruction, operands, 1)
		if err != nil {
			return
		}
		var reg cpu.Reg
		reg, err = parseRegister(operands[0])
		if err != nil {
			return
		}
		op := byte(cpu.OP_INR)
		if instruction == "DCR" {
			op = cpu.OP_DCR
		}
		codes = []byte{op | byte(reg)<<3}
	case "LXI":
		err = expectOperands(instruction, operands, 2)
		if err != nil {
			return
		}
		var pair cpu.RegPair
		pair, err = parseRegisterPair(operands[0], "SP")
		if err != nil {
			return
		}
		var value uint16
		value, err = asm.operand16(operands[1], 1)
		if err != nil {
			return
		}
		codes = []byte{cpu.OP_LXI | byte(pair)<<4, byte(value), byte(value >> 8)}
	case "DAD", "INX", "DCX", "PUSH", "POP":
		err = expectOperands(instruction, operands, 1)
		if err != nil {
			return
		}
		alt := "SP"
		if instruction == "PUSH" || instruction == "POP" {
			alt = "PSW"
		}
		var pair cpu.RegPair
		pair, err = parseRegisterPair(operands[0], alt)
		if err != nil {
			return
		}
		op := map[string]byte{
			"DAD":  cpu.OP_DAD,
			"INX":  cpu.OP_INX,
			"DCX":  cpu.OP_DCX,
			"PUSH": cpu.OP_PUSH,
			"POP":  cpu.OP_POP,
		}[instruction]
		codes = []byte{op | byte(pair)<<4}
	case "STAX", "LDAX":
		err = expectOperands(instruction, operands, 1)
		if err != nil {
			return
		}
		var pair cpu.RegPair
		pair, err = parseRegisterPair(operands[0], "")
		if err != nil {
			return
		}
		if pair != cpu.PAIR_B && pair != cpu.PAIR_D {
			err = &ErrInvalidToken{Token: operands[0], Kind: TOKEN_OPERAND, Err: ErrRegisterPair}
			return
		}
		op := byte(cpu.OP_STAX)
		if instruction == "LDAX" {
			op = cpu.OP_LDAX
		}
		codes = []byte{op | byte(pair)<<4}
	case "RST":
		err = expectOperands(instruction, operands, 1)
		if err != nil {
			return
		}
		var value int32
		value, err = asm.evalNow(operands[0])
		if err != nil {
			return
		}
		if value < 0 || value > 7 {
			err = &ErrInvalidToken{Token: operands[0], Kind: TOKEN_OPERAND, Err: ErrRestartInvalid}
			return
		}
		codes = []byte{cpu.OP_RST | byte(value)<<3}
	case "IN":
		return asm.encodeImmediate(instruction, cpu.OP_IN, operands)
	case "OUT":
		return asm.encodeImmediate(instruction, cpu.OP_OUT, operands)
	default:
		err = &ErrInvalidToken{Token: instruction, Kind: TOKEN_INSTRUCTION}
	}

	return
}

// encodeAddress encodes an opcode followed by a 16-bit operand.
func (asm *Assembler) encodeAddress(instruction string, op byte, operands []string) (codes []byte, err error) {
	err = expectOperands(instruction, operands, 1)
	if err != nil {
		return
	}

	value, err := asm.operand16(operands[0], 1)
	if err != nil {
		return
	}

	codes = []byte{op, byte(value), byte(value >> 8)}
	return
}

// encodeImmediate encodes an opcode followed by an 8-bit operand.
func (asm *Assembler) encodeImmediate(instruction string, op byte, operands []string) (codes []byte, err error) {
	err = expectOperands(instruction, operands, 1)
	if err != nil {
		return
	}

	value, err := asm.operand8(operands[0], 1)
	if err != nil {
		return
	}

	codes = []byte{op, value}
	return
}
