package compiler

import "github.com/loxbytecode/cloxgo/internal/lexer"

// Precedence is the Pratt parser's binding power, ascending.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is the static per-token-kind table of {prefix, infix, binding
// power}, indexed directly by lexer.TokenKind instead of a virtual-dispatch
// hierarchy.
var rules [int(lexer.EndOfFile) + 1]parseRule

func rule(kind lexer.TokenKind, prefix, infix parseFn, prec Precedence) {
	rules[kind] = parseRule{prefix: prefix, infix: infix, precedence: prec}
}

func init() {
	rule(lexer.LeftParen, (*Compiler).grouping, nil, PrecNone)
	rule(lexer.Minus, (*Compiler).unary, (*Compiler).binary, PrecTerm)
	rule(lexer.Plus, nil, (*Compiler).binary, PrecTerm)
	rule(lexer.Slash, nil, (*Compiler).binary, PrecFactor)
	rule(lexer.Star, nil, (*Compiler).binary, PrecFactor)
	rule(lexer.Bang, (*Compiler).unary, nil, PrecNone)
	rule(lexer.BangEqual, nil, (*Compiler).binary, PrecEquality)
	rule(lexer.EqualEqual, nil, (*Compiler).binary, PrecEquality)
	rule(lexer.Greater, nil, (*Compiler).binary, PrecComparison)
	rule(lexer.GreaterEqual, nil, (*Compiler).binary, PrecComparison)
	rule(lexer.Less, nil, (*Compiler).binary, PrecComparison)
	rule(lexer.LessEqual, nil, (*Compiler).binary, PrecComparison)
	rule(lexer.Identifier, (*Compiler).variable, nil, PrecNone)
	rule(lexer.String, (*Compiler).string, nil, PrecNone)
	rule(lexer.Number, (*Compiler).number, nil, PrecNone)
	rule(lexer.And, nil, (*Compiler).and_, PrecAnd)
	rule(lexer.Or, nil, (*Compiler).or_, PrecOr)
	rule(lexer.False, (*Compiler).literal, nil, PrecNone)
	rule(lexer.True, (*Compiler).literal, nil, PrecNone)
	rule(lexer.Nil, (*Compiler).literal, nil, PrecNone)
}

func getRule(kind lexer.TokenKind) parseRule { return rules[kind] }
