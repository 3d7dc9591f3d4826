// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/i8080/cpu"
)

const (
	MACRO_DEPTH_LIMIT = 64 // Maximum nesting of macro expansions.
)

// pending is an operand expression waiting for a symbol defined later in
// the source.
type pending struct {
	addr   int    // Address of the operand bytes.
	width  int    // 1 or 2 bytes.
	expr   Expr   // Parsed expression.
	scope  Scope  // Scope the expression is evaluated in.
	lineNo int    // Source line number.
	line   string // Source text.
}

// Assembler is a two-phase macro assembler for the 8080: a single pass
// over the source, followed by resolution of forward references.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Symbols SymbolTable       // Symbol table.
	Macro   map[string]*Macro // Map of macros.

	predefine map[string]int32 // Predefines

	memory     cpu.Memory
	pointer    int
	pending    []pending
	statements []Statement
	ifStack    []bool
	defining   *Macro
	scope      Scope
	depth      int
	expansions int
	stopped    bool
	lineNo     int
	line       string
}

// Predefine defines a global symbol before the first source line.
func (asm *Assembler) Predefine(name string, value int32) {
	if asm.predefine == nil {
		asm.predefine = map[string]int32{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// reset prepares the assembler for a new source.
func (asm *Assembler) reset() (err error) {
	clear(asm.memory[:])
	asm.pointer = 0
	asm.pending = nil
	asm.statements = nil
	asm.ifStack = nil
	asm.defining = nil
	asm.scope = Scope{}
	asm.depth = 0
	asm.expansions = 0
	asm.stopped = false
	asm.lineNo = 0
	asm.line = ""

	asm.Macro = make(map[string]*Macro)
	asm.Symbols.Reset()
	for _, name := range slices.Sorted(maps.Keys(asm.predefine)) {
		upper := strings.ToUpper(name)
		err = ValidateName(upper)
		if err != nil {
			return
		}
		err = asm.Symbols.Define(upper, asm.predefine[name], SYMBOL_EQU, Scope{}, 0)
		if err != nil {
			return
		}
	}

	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var line string

	defer func() {
		if err != nil {
			var se *ErrSyntax
			if !errors.As(err, &se) {
				err = &ErrSyntax{LineNo: asm.lineNo, Line: line, Err: err}
			}
		}
	}()

	err = asm.reset()
	if err != nil {
		return
	}

	scanner := bufio.NewScanner(input)
	for !asm.stopped && scanner.Scan() {
		asm.lineNo++
		line = strings.TrimSpace(scanner.Text())

		if asm.Verbose {
			log.Printf("%v: %v\n", asm.lineNo, line)
		}

		err = asm.parseLine(line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.defining != nil {
		asm.lineNo = asm.defining.LineNo
		line = asm.defining.Name
		err = ErrMacroLonely
		return
	}

	if len(asm.ifStack) != 0 {
		line = ""
		err = ErrIfLonely
		return
	}

	err = asm.resolve()
	if err != nil {
		return
	}

	prog = &Program{
		Memory:     asm.memory,
		Statements: slices.Clone(asm.statements),
		Symbols:    make(map[string]int32),
	}
	for name, value := range asm.Symbols.Globals() {
		prog.Symbols[name] = value
	}

	return
}

// resolve evaluates every pending expression against the final symbol
// table.
func (asm *Assembler) resolve() (err error) {
	for _, p := range asm.pending {
		var value int32
		value, err = p.expr.Eval(asm.Symbols.Resolver(p.scope))
		if err == nil {
			err = asm.store(p.addr, p.width, value, p.expr.String())
		}
		if err != nil {
			err = &ErrSyntax{LineNo: p.lineNo, Line: p.line, Err: err}
			return
		}
	}

	asm.pending = nil
	return
}

// store writes a resolved operand of the given width at addr.
func (asm *Assembler) store(addr int, width int, value int32, token string) (err error) {
	switch width {
	case 1:
		var b byte
		b, err = narrow8(value, token)
		if err != nil {
			return
		}
		asm.memory[addr] = b
	case 2:
		var w uint16
		w, err = narrow16(value, token)
		if err != nil {
			return
		}
		asm.memory.SetWord(uint16(addr), w)
	}

	return
}

// narrow8 checks that a value fits in a signed or unsigned byte.
func narrow8(value int32, token string) (b byte, err error) {
	if value < -128 || value > 255 {
		err = &ErrInvalidToken{Token: token, Kind: TOKEN_OPERAND, Err: ErrOperandRange}
		return
	}
	b = byte(value)
	return
}

// narrow16 checks that a value fits in a signed or unsigned word.
func narrow16(value int32, token string) (w uint16, err error) {
	if value < -32768 || value > 65535 {
		err = &ErrInvalidToken{Token: token, Kind: TOKEN_OPERAND, Err: ErrOperandRange}
		return
	}
	w = uint16(value)
	return
}

// compiling returns true when every enclosing IF is true.
func (asm *Assembler) compiling() bool {
	return !slices.Contains(asm.ifStack, false)
}

// isKeyword returns true for words that start a statement.
func (asm *Assembler) isKeyword(word string) bool {
	if IsInstruction(word) || IsPseudoOp(word) || IsDataStatement(word) {
		return true
	}
	_, ok := asm.Macro[word]
	return ok
}

// parseLine processes one line of source or of a macro expansion.
func (asm *Assembler) parseLine(line string) (err error) {
	if len(line) == 0 {
		return
	}

	asm.line = line

	for n := 0; n < len(line); n++ {
		if line[n] >= 0x80 {
			err = ErrNonAscii
			return
		}
	}

	code := stripComment(line)
	label, instruction, operands := asm.fields(code)

	if asm.defining != nil {
		switch instruction {
		case "ENDM":
			asm.Macro[asm.defining.Name] = asm.defining
			asm.defining = nil
		case "MACRO":
			err = ErrMacroNesting
		default:
			if len(code) > 0 {
				asm.defining.Lines = append(asm.defining.Lines, code)
			}
		}
		return
	}

	switch instruction {
	case "IF":
		if !asm.compiling() {
			asm.ifStack = append(asm.ifStack, false)
			return
		}
		err = expectOperands(instruction, operands, 1)
		if err != nil {
			return
		}
		var value int32
		value, err = asm.evalNow(operands[0])
		if err != nil {
			return
		}
		asm.ifStack = append(asm.ifStack, value != 0)
		return
	case "ENDIF":
		if len(asm.ifStack) == 0 {
			err = ErrEndifLonely
			return
		}
		asm.ifStack = asm.ifStack[:len(asm.ifStack)-1]
		return
	}

	if !asm.compiling() {
		return
	}

	named := instruction == "EQU" || instruction == "SET" || instruction == "MACRO"
	switch {
	case named:
		label = strings.TrimRight(label, ":")
		if len(label) == 0 {
			if instruction == "MACRO" {
				err = ErrMacroName
				return
			}
			err = &ErrInvalidToken{Token: instruction, Kind: TOKEN_LABEL, Err: ErrSymbolInvalid}
			return
		}
	case len(label) == 0:
	case strings.HasSuffix(label, ":"):
		err = asm.defineLabel(label)
		if err != nil {
			return
		}
	default:
		err = &ErrInvalidToken{Token: label, Kind: TOKEN_LABEL, Err: ErrLabelUnexpected}
		return
	}

	if len(instruction) == 0 {
		return
	}

	switch {
	case IsDataStatement(instruction):
		err = asm.dataStatement(line, instruction, operands)
	case IsPseudoOp(instruction):
		err = asm.pseudoOp(label, instruction, operands)
	case asm.Macro[instruction] != nil:
		err = asm.expand(asm.Macro[instruction], operands)
	default:
		var codes []byte
		codes, err = asm.encode(instruction, operands)
		if err != nil {
			return
		}
		err = asm.emit(line, codes)
	}

	return
}

// stripComment removes a trailing ';' comment, ignoring quoted text.
func stripComment(line string) string {
	quoted := false
	for n := 0; n < len(line); n++ {
		switch line[n] {
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				return strings.TrimSpace(line[:n])
			}
		}
	}

	return strings.TrimSpace(line)
}

// nextWord splits off the first whitespace delimited word.
func nextWord(text string) (word string, rest string) {
	text = strings.TrimLeft(text, " \t")
	end := strings.IndexAny(text, " \t")
	if end < 0 {
		return text, ""
	}
	return text[:end], strings.TrimLeft(text[end:], " \t")
}

// splitOperands splits an operand field at commas that are not quoted,
// converting unquoted text to upper case.
func splitOperands(text string) (operands []string) {
	if len(text) == 0 {
		return
	}

	var field strings.Builder
	quoted := false
	for n := 0; n < len(text); n++ {
		c := text[n]
		switch {
		case c == '\'':
			quoted = !quoted
			field.WriteByte(c)
		case quoted:
			field.WriteByte(c)
		case c == ',':
			operands = append(operands, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			field.WriteByte(c)
		}
	}
	operands = append(operands, strings.TrimSpace(field.String()))

	return
}

// fields splits a comment free line into label, instruction and operands.
// The first word is the instruction if it is a known keyword or macro,
// otherwise it is the label.
func (asm *Assembler) fields(code string) (label string, instruction string, operands []string) {
	word, rest := nextWord(code)
	word = strings.ToUpper(word)
	if len(word) == 0 {
		return
	}

	_, redefine := asm.Macro[word]
	if redefine {
		next, _ := nextWord(rest)
		switch strings.ToUpper(next) {
		case "MACRO", "EQU", "SET":
		default:
			redefine = false
		}
	}

	if asm.isKeyword(word) && !redefine {
		instruction = word
	} else {
		label = word
		instruction, rest = nextWord(rest)
		instruction = strings.ToUpper(instruction)
	}

	operands = splitOperands(rest)
	return
}

// checkName validates a new symbol or macro name.
func (asm *Assembler) checkName(name string) (err error) {
	err = ValidateName(name)
	if err != nil {
		return
	}

	_, ok := asm.Macro[name]
	if ok {
		err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrSymbolMacro}
		return
	}

	return
}

// defineLabel defines a 'NAME:' or 'NAME::' label at the current address.
func (asm *Assembler) defineLabel(label string) (err error) {
	scope := asm.scope
	name, global := strings.CutSuffix(label, "::")
	if global {
		if scope.IsGlobal() {
			err = &ErrInvalidToken{Token: label, Kind: TOKEN_LABEL, Err: ErrLabelGlobal}
			return
		}
		scope = Scope{}
	} else {
		name = strings.TrimSuffix(label, ":")
	}

	err = asm.checkName(name)
	if err != nil {
		return
	}

	return asm.Symbols.Define(name, int32(asm.pointer), SYMBOL_LABEL, scope, asm.lineNo)
}

// pseudoOp handles the assembler directives.
func (asm *Assembler) pseudoOp(name string, instruction string, operands []string) (err error) {
	switch instruction {
	case "ORG":
		var value int32
		value, err = asm.evalPositive(instruction, operands)
		if err != nil {
			return
		}
		if int(value) > cpu.MEMORY_SIZE {
			err = ErrOverflow
			return
		}
		asm.pointer = int(value)
	case "END":
		asm.stopped = true
	case "EQU", "SET":
		err = asm.checkName(name)
		if err != nil {
			return
		}
		err = expectOperands(instruction, operands, 1)
		if err != nil {
			return
		}
		var value int32
		value, err = asm.evalNow(operands[0])
		if err != nil {
			return
		}
		kind := SYMBOL_EQU
		if instruction == "SET" {
			kind = SYMBOL_SET
		}
		err = asm.Symbols.Define(name, value, kind, asm.scope, asm.lineNo)
	case "MACRO":
		err = asm.defineMacro(name, operands)
	case "ENDM":
		err = ErrMacroLonelyEndm
	default:
		err = &ErrInvalidToken{Token: instruction, Kind: TOKEN_INSTRUCTION}
	}

	return
}

// defineMacro starts capturing a macro body.
func (asm *Assembler) defineMacro(name string, params []string) (err error) {
	_, ok := asm.Macro[name]
	if ok {
		err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrMacroDuplicate}
		return
	}

	err = ValidateName(name)
	if err != nil {
		return
	}

	_, ok = asm.Symbols.Get(name, Scope{})
	if ok {
		err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrSymbolMacro}
		return
	}

	for _, param := range params {
		err = ValidateName(param)
		if err != nil {
			return
		}
	}

	asm.defining = &Macro{
		Name:   name,
		LineNo: asm.lineNo,
		Params: params,
	}

	return
}

// expand runs a macro body in a fresh local scope.
func (asm *Assembler) expand(macro *Macro, operands []string) (err error) {
	if asm.depth >= MACRO_DEPTH_LIMIT {
		err = ErrMacroDepth
		return
	}

	lines, err := macro.Expand(operands)
	if err != nil {
		return
	}

	asm.expansions++
	outer := asm.scope
	asm.scope = Scope{Macro: macro.Name, Id: asm.expansions}
	asm.depth++
	defer func() {
		asm.scope = outer
		asm.depth--
	}()

	for n, line := range lines {
		if asm.stopped {
			break
		}

		if asm.Verbose {
			log.Printf("%v: %v+%v: %v\n", asm.lineNo, macro.Name, n+1, line)
		}

		err = asm.parseLine(line)
		if err != nil {
			err = &ErrMacro{Macro: macro.Name, Line: macro.LineNo + 1 + n, Err: err}
			return
		}
	}

	return
}

// dataStatement handles DB, DW and DS.
func (asm *Assembler) dataStatement(line string, instruction string, operands []string) (err error) {
	var values []byte

	switch instruction {
	case "DB":
		if len(operands) == 0 {
			err = &ErrInvalidToken{Token: instruction, Kind: TOKEN_OPERAND, Err: ErrOperandMissing}
			return
		}
		for _, operand := range operands {
			if len(operand) > 3 && operand[0] == '\'' && operand[len(operand)-1] == '\'' {
				values = append(values, operand[1:len(operand)-1]...)
				continue
			}
			var value byte
			value, err = asm.operand8(operand, len(values))
			if err != nil {
				return
			}
			values = append(values, value)
		}
	case "DW":
		if len(operands) == 0 {
			err = &ErrInvalidToken{Token: instruction, Kind: TOKEN_OPERAND, Err: ErrOperandMissing}
			return
		}
		for _, operand := range operands {
			var value uint16
			value, err = asm.operand16(operand, len(values))
			if err != nil {
				return
			}
			values = append(values, byte(value), byte(value>>8))
		}
	case "DS":
		var size int32
		size, err = asm.evalPositive(instruction, operands)
		if err != nil {
			return
		}
		if asm.pointer+int(size) > cpu.MEMORY_SIZE {
			err = ErrOverflow
			return
		}
		asm.pointer += int(size)
		return
	}

	return asm.emit(line, values)
}

// emit stores bytes at the current address and records the statement.
func (asm *Assembler) emit(line string, codes []byte) (err error) {
	if asm.pointer+len(codes) > cpu.MEMORY_SIZE {
		err = ErrOverflow
		return
	}

	copy(asm.memory[asm.pointer:], codes)
	asm.statements = append(asm.statements, Statement{
		LineNo: asm.lineNo,
		Addr:   asm.pointer,
		Size:   len(codes),
		Text:   line,
		Macro:  asm.scope.Macro,
	})
	asm.pointer += len(codes)

	return
}

// evalNow evaluates an expression that must be resolvable immediately.
func (asm *Assembler) evalNow(text string) (value int32, err error) {
	return Evaluate(text, int32(asm.pointer), asm.Symbols.Resolver(asm.scope))
}

// evalPositive evaluates the single, immediately resolvable, non-negative
// operand of ORG or DS.
func (asm *Assembler) evalPositive(instruction string, operands []string) (value int32, err error) {
	err = expectOperands(instruction, operands, 1)
	if err != nil {
		return
	}

	value, err = asm.evalNow(operands[0])
	if err != nil {
		return
	}

	if value < 0 {
		err = &ErrInvalidToken{Token: operands[0], Kind: TOKEN_OPERAND, Err: ErrOperandNegative}
		return
	}

	return
}

// evalDeferred evaluates an operand expression, queueing it for the end
// of the source if it refers to a symbol that is not yet defined.
func (asm *Assembler) evalDeferred(text string, offset int, width int) (value int32, ok bool, err error) {
	expr, err := ParseExpr(text, int32(asm.pointer))
	if err != nil {
		return
	}

	value, err = expr.Eval(asm.Symbols.Resolver(asm.scope))
	var eu *ErrUndefined
	if errors.As(err, &eu) {
		asm.pending = append(asm.pending, pending{
			addr:   asm.pointer + offset,
			width:  width,
			expr:   expr,
			scope:  asm.scope,
			lineNo: asm.lineNo,
			line:   asm.line,
		})
		value = 0
		err = nil
		return
	}
	if err != nil {
		return
	}

	ok = true
	return
}

// operand8 evaluates an 8-bit operand located 'offset' bytes into the
// statement.
func (asm *Assembler) operand8(text string, offset int) (b byte, err error) {
	value, ok, err := asm.evalDeferred(text, offset, 1)
	if err != nil || !ok {
		return
	}

	return narrow8(value, text)
}

// operand16 evaluates a 16-bit operand located 'offset' bytes into the
// statement.
func (asm *Assembler) operand16(text string, offset int) (w uint16, err error) {
	value, ok, err := asm.evalDeferred(text, offset, 2)
	if err != nil || !ok {
		return
	}

	return narrow16(value, text)
}
