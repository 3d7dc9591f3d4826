package cpu

// Reg is an 8-bit register operand, as encoded in an opcode.
type Reg int

//go:generate go tool stringer -linecomment -type=Reg
const (
	REG_B = Reg(0) // B
	REG_C = Reg(1) // C
	REG_D = Reg(2) // D
	REG_E = Reg(3) // E
	REG_H = Reg(4) // H
	REG_L = Reg(5) // L
	REG_M = Reg(6) // M
	REG_A = Reg(7) // A
)

// RegPair is a 16-bit register pair operand, as encoded in an opcode.
type RegPair int

//go:generate go tool stringer -linecomment -type=RegPair
const (
	PAIR_B  = RegPair(0) // B
	PAIR_D  = RegPair(1) // D
	PAIR_H  = RegPair(2) // H
	PAIR_SP = RegPair(3) // SP
)

// PAIR_PSW shares the encoding of PAIR_SP in PUSH and POP.
const PAIR_PSW = PAIR_SP

// Cond is a branch condition code.
type Cond int

//go:generate go tool stringer -linecomment -type=Cond
const (
	COND_NZ = Cond(0) // NZ
	COND_Z  = Cond(1) // Z
	COND_NC = Cond(2) // NC
	COND_C  = Cond(3) // C
	COND_PO = Cond(4) // PO
	COND_PE = Cond(5) // PE
	COND_P  = Cond(6) // P
	COND_M  = Cond(7) // M
)

// AluOp is an accumulator operation.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_ADD = AluOp(0) // ADD
	ALU_ADC = AluOp(1) // ADC
	ALU_SUB = AluOp(2) // SUB
	ALU_SBB = AluOp(3) // SBB
	ALU_ANA = AluOp(4) // ANA
	ALU_XRA = AluOp(5) // XRA
	ALU_ORA = AluOp(6) // ORA
	ALU_CMP = AluOp(7) // CMP
)

// Immediate returns the mnemonic of the immediate form of the operation.
func (op AluOp) Immediate() string {
	return [...]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}[op&7]
}

// Opcode base values. Operand fields are OR'd in by the encoder.
const (
	OP_NOP  = 0x00
	OP_LXI  = 0x01 // | rp<<4
	OP_STAX = 0x02 // | rp<<4
	OP_INX  = 0x03 // | rp<<4
	OP_INR  = 0x04 // | r<<3
	OP_DCR  = 0x05 // | r<<3
	OP_MVI  = 0x06 // | r<<3
	OP_RLC  = 0x07
	OP_DAD  = 0x09 // | rp<<4
	OP_LDAX = 0x0a // | rp<<4
	OP_DCX  = 0x0b // | rp<<4
	OP_RRC  = 0x0f
	OP_RAL  = 0x17
	OP_RAR  = 0x1f
	OP_SHLD = 0x22
	OP_DAA  = 0x27
	OP_LHLD = 0x2a
	OP_CMA  = 0x2f
	OP_STA  = 0x32
	OP_STC  = 0x37
	OP_LDA  = 0x3a
	OP_CMC  = 0x3f
	OP_MOV  = 0x40 // | d<<3 | s
	OP_HLT  = 0x76
	OP_ALU  = 0x80 // | op<<3 | r
	OP_RCC  = 0xc0 // | cc<<3
	OP_POP  = 0xc1 // | rp<<4
	OP_JCC  = 0xc2 // | cc<<3
	OP_JMP  = 0xc3
	OP_CCC  = 0xc4 // | cc<<3
	OP_PUSH = 0xc5 // | rp<<4
	OP_ALI  = 0xc6 // | op<<3
	OP_RST  = 0xc7 // | n<<3
	OP_RET  = 0xc9
	OP_CALL = 0xcd
	OP_OUT  = 0xd3
	OP_IN   = 0xdb
	OP_XTHL = 0xe3
	OP_PCHL = 0xe9
	OP_XCHG = 0xeb
	OP_DI   = 0xf3
	OP_SPHL = 0xf9
	OP_EI   = 0xfb
)

// Cycle costs of instructions whose timing is not uniform within their
// opcode group.
const (
	CYCLES_CALL_TAKEN   = 17
	CYCLES_CALL_SKIPPED = 11
	CYCLES_RET_TAKEN    = 11
	CYCLES_RET_SKIPPED  = 5
)

// cycleTable is the base cycle cost of every opcode. Conditional calls and
// returns list the not-taken cost.
var cycleTable = [256]uint8{
	//      x0  x1  x2  x3  x4  x5  x6  x7  x8  x9  xA  xB  xC  xD  xE  xF
	/* 0x */ 4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	/* 1x */ 4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	/* 2x */ 4, 10, 16, 5, 5, 5, 7, 4, 4, 10, 16, 5, 5, 5, 7, 4,
	/* 3x */ 4, 10, 13, 5, 10, 10, 10, 4, 4, 10, 13, 5, 5, 5, 7, 4,
	/* 4x */ 5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	/* 5x */ 5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	/* 6x */ 5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	/* 7x */ 7, 7, 7, 7, 7, 7, 7, 7, 5, 5, 5, 5, 5, 5, 7, 5,
	/* 8x */ 4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	/* 9x */ 4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	/* Ax */ 4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	/* Bx */ 4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	/* Cx */ 5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 4, 11, 17, 7, 11,
	/* Dx */ 5, 10, 10, 10, 11, 11, 7, 11, 5, 4, 10, 10, 11, 4, 7, 11,
	/* Ex */ 5, 10, 10, 18, 11, 11, 7, 11, 5, 5, 10, 5, 11, 4, 7, 11,
	/* Fx */ 5, 10, 10, 4, 11, 11, 7, 11, 5, 5, 10, 4, 11, 4, 7, 11,
}

// Cycles returns the base cycle cost of an opcode.
func Cycles(op uint8) int {
	return int(cycleTable[op])
}

// sizeTable is the length in bytes of every opcode's instruction.
var sizeTable = [256]uint8{
	//      x0 x1 x2 x3 x4 x5 x6 x7 x8 x9 xA xB xC xD xE xF
	/* 0x */ 1, 3, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	/* 1x */ 1, 3, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	/* 2x */ 1, 3, 3, 1, 1, 1, 2, 1, 1, 1, 3, 1, 1, 1, 2, 1,
	/* 3x */ 1, 3, 3, 1, 1, 1, 2, 1, 1, 1, 3, 1, 1, 1, 2, 1,
	/* 4x */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* 5x */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* 6x */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* 7x */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* 8x */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* 9x */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* Ax */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* Bx */ 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	/* Cx */ 1, 1, 3, 3, 3, 1, 2, 1, 1, 1, 3, 1, 3, 3, 2, 1,
	/* Dx */ 1, 1, 3, 2, 3, 1, 2, 1, 1, 1, 3, 2, 3, 1, 2, 1,
	/* Ex */ 1, 1, 3, 1, 3, 1, 2, 1, 1, 1, 3, 1, 3, 1, 2, 1,
	/* Fx */ 1, 1, 3, 1, 3, 1, 2, 1, 1, 1, 3, 1, 3, 1, 2, 1,
}

// InstructionSize returns the length in bytes of the instruction that
// starts with the opcode.
func InstructionSize(op uint8) int {
	return int(sizeTable[op])
}
