package asm

import (
	"strconv"
	"strings"
)

// radixSuffix maps the single trailing radix character of a literal.
var radixSuffix = map[byte]int{
	'O': 8,
	'Q': 8,
	'B': 2,
	'H': 16,
	'D': 10,
}

// ParseNumber parses an Intel style numeric literal.
//
// A single trailing radix letter selects the base (O or Q octal, B binary,
// H hexadecimal, D decimal); without one the literal is decimal. An
// optional leading '-' negates the value.
func ParseNumber(token string) (value int32, err error) {
	digits := strings.ToUpper(token)
	radix := 10

	if len(digits) > 0 {
		base, ok := radixSuffix[digits[len(digits)-1]]
		if ok {
			radix = base
			digits = digits[:len(digits)-1]
		}
	}

	if len(digits) == 0 || digits[0] == '+' || digits == "-" {
		err = ErrParseNumber(token)
		return
	}

	v64, err := strconv.ParseInt(digits, radix, 32)
	if err != nil {
		err = ErrParseNumber(token)
		return
	}

	value = int32(v64)
	return
}

// ParseByte parses a numeric literal that must fit in a byte, either
// signed or unsigned.
func ParseByte(token string) (value uint8, err error) {
	v32, err := ParseNumber(token)
	if err != nil {
		return
	}

	if v32 < -128 || v32 > 255 {
		err = &ErrInvalidToken{Token: token, Kind: TOKEN_OPERAND, Err: ErrOperandRange}
		return
	}

	value = uint8(v32)
	return
}

// isNumberStart returns true if the token should be read as a numeric
// literal rather than a symbol.
func isNumberStart(token string) bool {
	if len(token) > 1 && token[0] == '-' {
		token = token[1:]
	}
	return len(token) > 0 && token[0] >= '0' && token[0] <= '9'
}
