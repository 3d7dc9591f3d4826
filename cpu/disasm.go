package cpu

import (
	"fmt"
)

var impliedName = map[uint8]string{
	OP_NOP:  "NOP",
	OP_RLC:  "RLC",
	OP_RRC:  "RRC",
	OP_RAL:  "RAL",
	OP_RAR:  "RAR",
	OP_DAA:  "DAA",
	OP_CMA:  "CMA",
	OP_STC:  "STC",
	OP_CMC:  "CMC",
	OP_HLT:  "HLT",
	OP_RET:  "RET",
	OP_XTHL: "XTHL",
	OP_PCHL: "PCHL",
	OP_XCHG: "XCHG",
	OP_DI:   "DI",
	OP_SPHL: "SPHL",
	OP_EI:   "EI",
}

var absoluteName = map[uint8]string{
	OP_SHLD: "SHLD",
	OP_LHLD: "LHLD",
	OP_STA:  "STA",
	OP_LDA:  "LDA",
	OP_JMP:  "JMP",
	OP_CALL: "CALL",
}

func hex8(value uint8) string {
	return fmt.Sprintf("0%02XH", value)
}

func hex16(value uint16) string {
	return fmt.Sprintf("0%04XH", value)
}

// Disassemble returns the assembler source for the instruction starting with
// op. lo and hi are the bytes following op, ignored when the instruction is
// shorter. Opcodes with no mnemonic disassemble as a DB statement.
func Disassemble(op, lo, hi uint8) (text string) {
	r := Reg(op >> 3 & 7)
	rp := RegPair(op >> 4 & 3)
	cc := Cond(op >> 3 & 7)
	word := hex16(uint16(hi)<<8 | uint16(lo))

	if name, ok := impliedName[op]; ok {
		return name
	}

	if name, ok := absoluteName[op]; ok {
		return name + " " + word
	}

	switch {
	case op&0xc0 == OP_MOV:
		text = fmt.Sprintf("MOV %v,%v", r, Reg(op&7))
	case op&0xc0 == OP_ALU:
		text = fmt.Sprintf("%v %v", AluOp(op>>3&7), Reg(op&7))
	case op&0xcf == OP_LXI:
		text = fmt.Sprintf("LXI %v,%v", rp, word)
	case op&0xcf == OP_INX:
		text = fmt.Sprintf("INX %v", rp)
	case op&0xcf == OP_DCX:
		text = fmt.Sprintf("DCX %v", rp)
	case op&0xcf == OP_DAD:
		text = fmt.Sprintf("DAD %v", rp)
	case op == OP_STAX, op == OP_STAX|0x10:
		text = fmt.Sprintf("STAX %v", rp)
	case op == OP_LDAX, op == OP_LDAX|0x10:
		text = fmt.Sprintf("LDAX %v", rp)
	case op < 0x40 && op&0xc7 == OP_INR:
		text = fmt.Sprintf("INR %v", r)
	case op < 0x40 && op&0xc7 == OP_DCR:
		text = fmt.Sprintf("DCR %v", r)
	case op < 0x40 && op&0xc7 == OP_MVI:
		text = fmt.Sprintf("MVI %v,%v", r, hex8(lo))
	case op&0xc7 == OP_RCC:
		text = fmt.Sprintf("R%v", cc)
	case op&0xc7 == OP_JCC:
		text = fmt.Sprintf("J%v %v", cc, word)
	case op&0xc7 == OP_CCC:
		text = fmt.Sprintf("C%v %v", cc, word)
	case op&0xc7 == OP_ALI:
		text = fmt.Sprintf("%v %v", AluOp(op>>3&7).Immediate(), hex8(lo))
	case op&0xc7 == OP_RST:
		text = fmt.Sprintf("RST %d", op>>3&7)
	case op == OP_POP|0x30:
		text = "POP PSW"
	case op&0xcf == OP_POP:
		text = fmt.Sprintf("POP %v", rp)
	case op == OP_PUSH|0x30:
		text = "PUSH PSW"
	case op&0xcf == OP_PUSH:
		text = fmt.Sprintf("PUSH %v", rp)
	case op == OP_OUT:
		text = "OUT " + hex8(lo)
	case op == OP_IN:
		text = "IN " + hex8(lo)
	default:
		text = "DB " + hex8(op)
	}

	return
}
