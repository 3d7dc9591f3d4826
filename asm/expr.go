package asm

import (
	"errors"
	"strconv"
	"strings"
)

//go:generate go tool stringer -linecomment -type=Operator

// Operator of an expression node.
type Operator int

const (
	OP_OR  = Operator(iota) // OR
	OP_XOR                  // XOR
	OP_AND                  // AND
	OP_NOT                  // NOT
	OP_NEG                  // -
	OP_ADD                  // +
	OP_SUB                  // -
	OP_MUL                  // *
	OP_DIV                  // /
	OP_MOD                  // MOD
	OP_SHL                  // SHL
	OP_SHR                  // SHR
)

// Precedence returns the binding strength of the operator.
func (op Operator) Precedence() int {
	switch op {
	case OP_OR, OP_XOR:
		return 1
	case OP_AND:
		return 2
	case OP_NOT, OP_NEG:
		return 3
	case OP_ADD, OP_SUB:
		return 4
	default:
		return 5
	}
}

// wordOperators are the operators spelled as keywords.
var wordOperators = map[string]Operator{
	"OR":  OP_OR,
	"XOR": OP_XOR,
	"AND": OP_AND,
	"NOT": OP_NOT,
	"MOD": OP_MOD,
	"SHL": OP_SHL,
	"SHR": OP_SHR,
}

// symbolOperators are the single character operators.
var symbolOperators = map[byte]Operator{
	'+': OP_ADD,
	'-': OP_SUB,
	'*': OP_MUL,
	'/': OP_DIV,
}

// Resolver returns the value of a symbol, or an error (typically
// *ErrUndefined) if it has none.
type Resolver func(name string) (value int32, err error)

// Expr is a parsed expression.
type Expr interface {
	Eval(resolve Resolver) (value int32, err error)
	String() string
}

// Value is a constant.
type Value int32

// Symbol is a reference to a named value.
type Symbol string

// Unary is a prefix operator applied to an operand.
type Unary struct {
	Op Operator
	X  Expr
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op   Operator
	X, Y Expr
}

var _ Expr = Value(0)
var _ Expr = Symbol("")
var _ Expr = (*Unary)(nil)
var _ Expr = (*Binary)(nil)

func (v Value) Eval(resolve Resolver) (int32, error) {
	return int32(v), nil
}

func (v Value) String() string {
	return strconv.Itoa(int(v))
}

func (s Symbol) Eval(resolve Resolver) (value int32, err error) {
	if resolve == nil {
		err = &ErrUndefined{Name: string(s)}
		return
	}
	return resolve(string(s))
}

func (s Symbol) String() string {
	return string(s)
}

func (u *Unary) Eval(resolve Resolver) (value int32, err error) {
	value, err = u.X.Eval(resolve)
	if err != nil {
		return
	}

	switch u.Op {
	case OP_NOT:
		value = ^value & 0xffff
	case OP_NEG:
		value = -value
	}

	return
}

func (u *Unary) String() string {
	return "(" + u.Op.String() + " " + u.X.String() + ")"
}

func (b *Binary) Eval(resolve Resolver) (value int32, err error) {
	x, err := b.X.Eval(resolve)
	if err != nil {
		return
	}
	y, err := b.Y.Eval(resolve)
	if err != nil {
		return
	}

	switch b.Op {
	case OP_ADD:
		value = x + y
	case OP_SUB:
		value = x - y
	case OP_MUL:
		value = x * y
	case OP_DIV, OP_MOD:
		if y == 0 {
			err = ErrDivideByZero
			return
		}
		if b.Op == OP_DIV {
			value = x / y
		} else {
			value = x % y
		}
	case OP_AND:
		value = x & y
	case OP_OR:
		value = x | y
	case OP_XOR:
		value = x ^ y
	case OP_SHL:
		value = x << (y & 0xf)
	case OP_SHR:
		value = x >> (y & 0xf)
	}

	value &= 0xffff
	return
}

func (b *Binary) String() string {
	return "(" + b.X.String() + " " + b.Op.String() + " " + b.Y.String() + ")"
}

type exprTokenKind int

const (
	exprNumber = exprTokenKind(iota)
	exprSymbol
	exprOperator
	exprOpen
	exprClose
)

type exprToken struct {
	kind  exprTokenKind
	text  string
	value int32
	op    Operator
}

func isSymbolChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') || c == '_' || c == '@' || c == '?' || c == '.'
}

// tokenize splits an expression into tokens. HERE and $ become the
// value of 'here'.
func tokenize(text string, here int32) (tokens []exprToken, err error) {
	for n := 0; n < len(text); {
		c := text[n]
		switch {
		case c == ' ' || c == '\t':
			n++
		case c == '(':
			tokens = append(tokens, exprToken{kind: exprOpen, text: "("})
			n++
		case c == ')':
			tokens = append(tokens, exprToken{kind: exprClose, text: ")"})
			n++
		case c == '$':
			tokens = append(tokens, exprToken{kind: exprNumber, text: "$", value: here})
			n++
		case c == '\'':
			end := strings.IndexByte(text[n+1:], '\'')
			if end < 0 {
				err = &ErrInvalidToken{Token: text[n:], Kind: TOKEN_OPERAND, Err: ErrStringUnterminated}
				return
			}
			quoted := text[n : n+end+2]
			var value int32
			switch len(quoted) {
			case 2:
				value = 0
			case 3:
				value = int32(quoted[1])
			default:
				err = &ErrInvalidToken{Token: quoted, Kind: TOKEN_OPERAND}
				return
			}
			tokens = append(tokens, exprToken{kind: exprNumber, text: quoted, value: value})
			n += len(quoted)
		default:
			op, ok := symbolOperators[c]
			if ok {
				tokens = append(tokens, exprToken{kind: exprOperator, text: string(c), op: op})
				n++
				continue
			}

			start := n
			for n < len(text) && isSymbolChar(text[n]) {
				n++
			}
			if start == n {
				err = &ErrInvalidToken{Token: text[start:], Kind: TOKEN_OPERAND}
				return
			}

			word := text[start:n]
			upper := strings.ToUpper(word)
			op, ok = wordOperators[upper]
			switch {
			case ok:
				tokens = append(tokens, exprToken{kind: exprOperator, text: word, op: op})
			case upper == "HERE":
				tokens = append(tokens, exprToken{kind: exprNumber, text: word, value: here})
			case isNumberStart(word):
				var value int32
				value, err = ParseNumber(word)
				if err != nil {
					err = &ErrInvalidToken{Token: word, Kind: TOKEN_OPERAND, Err: err}
					return
				}
				tokens = append(tokens, exprToken{kind: exprNumber, text: word, value: value})
			default:
				tokens = append(tokens, exprToken{kind: exprSymbol, text: upper})
			}
		}
	}

	return
}

// exprParser is a precedence climbing parser over expression tokens.
type exprParser struct {
	tokens []exprToken
	pos    int
}

func (p *exprParser) peek() (tok exprToken, ok bool) {
	if p.pos < len(p.tokens) {
		tok = p.tokens[p.pos]
		ok = true
	}
	return
}

func (p *exprParser) next() (tok exprToken, ok bool) {
	tok, ok = p.peek()
	if ok {
		p.pos++
	}
	return
}

func (p *exprParser) parse(minPrec int) (expr Expr, err error) {
	tok, ok := p.next()
	switch {
	case !ok:
		err = ErrExprExpected
		return
	case tok.kind == exprNumber:
		expr = Value(tok.value)
	case tok.kind == exprSymbol:
		expr = Symbol(tok.text)
	case tok.kind == exprOperator && (tok.op == OP_SUB || tok.op == OP_NOT):
		op := tok.op
		if op == OP_SUB {
			op = OP_NEG
		}
		var x Expr
		x, err = p.parse(op.Precedence())
		if err != nil {
			return
		}
		expr = &Unary{Op: op, X: x}
	case tok.kind == exprOpen:
		expr, err = p.parse(0)
		if err != nil {
			return
		}
		tok, ok = p.next()
		if !ok || tok.kind != exprClose {
			err = ErrExprMissingParen
			return
		}
	default:
		err = ErrExprExpected
		return
	}

	for {
		tok, ok = p.peek()
		if !ok || tok.kind != exprOperator || tok.op == OP_NOT {
			break
		}
		prec := tok.op.Precedence()
		if prec < minPrec {
			break
		}
		p.pos++

		var y Expr
		y, err = p.parse(prec + 1)
		if err != nil {
			return
		}
		expr = &Binary{Op: tok.op, X: expr, Y: y}
	}

	return
}

// ParseExpr parses an expression. 'here' is the value of HERE and $.
func ParseExpr(text string, here int32) (expr Expr, err error) {
	defer func() {
		if err != nil {
			var it *ErrInvalidToken
			if !errors.As(err, &it) {
				err = &ErrInvalidToken{Token: text, Kind: TOKEN_OPERAND, Err: err}
			}
		}
	}()

	tokens, err := tokenize(text, here)
	if err != nil {
		return
	}

	p := &exprParser{tokens: tokens}
	expr, err = p.parse(0)
	if err != nil {
		return
	}

	if p.pos != len(p.tokens) {
		err = ErrExprTrailing
		return
	}

	return
}

// Evaluate parses and evaluates an expression in one step.
func Evaluate(text string, here int32, resolve Resolver) (value int32, err error) {
	expr, err := ParseExpr(text, here)
	if err != nil {
		return
	}

	return expr.Eval(resolve)
}
