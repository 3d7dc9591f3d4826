package asm

import (
	"strings"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	Name   string   // Name of the macro.
	LineNo int      // Line number of the macro definition.
	Params []string // Formal parameter names.
	Lines  []string // Lines of macro text to expand.
}

// isIdentChar returns true for characters that may form a parameter token.
func isIdentChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') || c == '_' || c == '@' || c == '?'
}

// ReplaceParam replaces every whole identifier token equal to param in
// line by value. Text inside single quotes is left alone.
func ReplaceParam(line string, param string, value string) string {
	if len(param) == 0 {
		return line
	}

	var out strings.Builder
	quoted := false
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		token := line[start:end]
		if strings.EqualFold(token, param) {
			out.WriteString(value)
		} else {
			out.WriteString(token)
		}
		start = -1
	}

	for n := 0; n < len(line); n++ {
		c := line[n]
		switch {
		case c == '\'':
			flush(n)
			quoted = !quoted
			out.WriteByte(c)
		case quoted:
			out.WriteByte(c)
		case isIdentChar(c):
			if start < 0 {
				start = n
			}
		default:
			flush(n)
			out.WriteByte(c)
		}
	}
	flush(len(line))

	return out.String()
}

// Expand returns the macro body with the actual arguments substituted for
// the formal parameters.
func (m *Macro) Expand(args []string) (lines []string, err error) {
	if len(args) != len(m.Params) {
		err = &ErrInvalidToken{Token: m.Name, Kind: TOKEN_OPERAND, Err: ErrMacroArgs}
		return
	}

	lines = make([]string, 0, len(m.Lines))
	for _, line := range m.Lines {
		for n, param := range m.Params {
			line = ReplaceParam(line, param, args[n])
		}
		lines = append(lines, line)
	}

	return
}
