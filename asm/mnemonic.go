package asm

import (
	"slices"
)

// Instructions are the 8080 machine instruction mnemonics.
var Instructions = []string{
	"STC", "CMC", "INR", "DCR", "CMA", "DAA", "NOP", "MOV", "STAX", "LDAX",
	"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP", "RLC", "RRC",
	"RAL", "RAR", "PUSH", "POP", "DAD", "INX", "DCX", "XCHG", "XTHL", "SPHL",
	"LXI", "MVI", "ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI",
	"STA", "LDA", "SHLD", "LHLD", "PCHL", "JMP", "JC", "JNC", "JZ", "JNZ",
	"JP", "JM", "JPE", "JPO", "CALL", "CC", "CNC", "CZ", "CNZ", "CP",
	"CM", "CPE", "CPO", "RET", "RC", "RNC", "RZ", "RNZ", "RM", "RP",
	"RPE", "RPO", "RST", "EI", "DI", "IN", "OUT", "HLT",
}

// PseudoOps are the assembler directives.
var PseudoOps = []string{"ORG", "EQU", "SET", "END", "IF", "ENDIF", "MACRO", "ENDM"}

// DataStatements emit or reserve memory.
var DataStatements = []string{"DB", "DW", "DS"}

// Keywords are the expression operator words.
var Keywords = []string{"HERE", "MOD", "NOT", "AND", "OR", "XOR", "SHL", "SHR"}

func IsInstruction(word string) bool {
	return slices.Contains(Instructions, word)
}

func IsPseudoOp(word string) bool {
	return slices.Contains(PseudoOps, word)
}

func IsDataStatement(word string) bool {
	return slices.Contains(DataStatements, word)
}

// IsReserved returns true if the word may not be used as a symbol name.
func IsReserved(word string) bool {
	return IsInstruction(word) || IsPseudoOp(word) || IsDataStatement(word) ||
		slices.Contains(Keywords, word)
}
