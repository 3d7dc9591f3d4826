// Package cpu implements a cycle counting Intel 8080 interpreter.
//
// The Cpu owns a private copy of the 64KiB address space, the seven 8-bit
// registers, the flag register, SP and PC. Step executes one instruction
// and returns its machine cycle cost; Run steps until HLT.
//
// Port I/O is delegated to a Port. The package also carries the opcode
// tables shared with the assembler: cycle costs, instruction sizes, operand
// encodings and a disassembler whose output the assembler accepts.
package cpu
