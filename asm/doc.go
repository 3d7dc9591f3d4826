// Package asm implements a macro assembler for the Intel 8080.
//
// Source is read line by line. Each line holds an optional label, an
// instruction, pseudo-op, data statement or macro invocation, and comma
// separated operands; a ';' starts a comment. Labels end in ':' except on
// EQU, SET and MACRO lines, where the label names the symbol or macro.
//
// Operands are expressions over numeric literals (with O, Q, B, H or D
// radix suffixes), quoted characters, symbols, HERE (or $) and the
// operators + - * / MOD NOT AND OR XOR SHL SHR. Operand expressions may
// refer to symbols defined later in the source; these are resolved once
// the whole source has been read.
//
// Labels defined inside a macro body are local to each expansion, unless
// they end in '::'.
package asm
