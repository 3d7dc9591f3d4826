package asm

import (
	"errors"

	"github.com/ezrec/i8080/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrOverflow = errors.New(f("memory overflow"))

	// Expression errors
	ErrExprMissingParen = errors.New(f("missing ')'"))
	ErrExprExpected     = errors.New(f("expected expression"))
	ErrExprTrailing     = errors.New(f("unexpected token at end of expression"))
	ErrDivideByZero     = errors.New(f("division by zero"))

	// Operand errors
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperandExtra       = errors.New(f("excessive operands"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrOperandNegative    = errors.New(f("operand must not be negative"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrRegisterPair       = errors.New(f("register pair invalid"))
	ErrRestartInvalid     = errors.New(f("restart vector must be 0 through 7"))
	ErrStringUnterminated = errors.New(f("unterminated string"))
	ErrNonAscii           = errors.New(f("non-ASCII character"))

	// Statement errors
	ErrLabelUnexpected = errors.New(f("label not allowed here"))
	ErrLabelGlobal     = errors.New(f("global label outside of macro"))
	ErrIfLonely        = errors.New(f("IF without ENDIF"))
	ErrEndifLonely     = errors.New(f("ENDIF without IF"))

	// Macro errors
	ErrMacroName       = errors.New(f("MACRO requires a name"))
	ErrMacroNesting    = errors.New(f("MACRO in MACRO prohibited"))
	ErrMacroDuplicate  = errors.New(f("MACRO duplicated"))
	ErrMacroLonely     = errors.New(f("MACRO without ENDM"))
	ErrMacroLonelyEndm = errors.New(f("ENDM without MACRO"))
	ErrMacroArgs       = errors.New(f("macro argument count mismatch"))
	ErrMacroDepth      = errors.New(f("macro expansion too deep"))

	// Symbol errors
	ErrSymbolDuplicate = errors.New(f("symbol already defined"))
	ErrSymbolMacro     = errors.New(f("symbol collides with macro"))
	ErrSymbolReserved  = errors.New(f("symbol is a reserved word"))
	ErrSymbolInvalid   = errors.New(f("symbol name invalid"))
)

//go:generate go tool stringer -linecomment -type=TokenKind

// TokenKind identifies the field of a statement a token came from.
type TokenKind int

const (
	TOKEN_INSTRUCTION = TokenKind(iota) // instruction
	TOKEN_OPERAND                       // operand
	TOKEN_LABEL                         // label
)

// ErrInvalidToken reports a token that could not be interpreted.
type ErrInvalidToken struct {
	Token string
	Kind  TokenKind
	Err   error
}

func (err ErrInvalidToken) Error() string {
	if err.Err == nil {
		return f("invalid %v '%v'", err.Kind, err.Token)
	}
	return f("invalid %v '%v': %v", err.Kind, err.Token, err.Err)
}

func (err ErrInvalidToken) Unwrap() error {
	return err.Err
}

// ErrUndefined reports a symbol that has no value in the current scope.
// It is the only evaluation failure that may be deferred to the end of
// the source.
type ErrUndefined struct {
	Name   string
	Detail string
}

func (err ErrUndefined) Error() string {
	if len(err.Detail) == 0 {
		return f("symbol '%v' is not defined", err.Name)
	}
	return f("symbol '%v' %v", err.Name, err.Detail)
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrSyntax locates an assembly error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrMacro locates an error within a macro expansion.
type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
