// Package compiler implements the Pratt parser that emits bytecode
// directly into a chunk.Chunk, with lexical-scope resolution for locals.
// There is no separate AST: parsing and code generation are one pass.
package compiler

import (
	"errors"
	"strconv"

	"github.com/loxbytecode/cloxgo/internal/chunk"
	"github.com/loxbytecode/cloxgo/internal/lexer"
	"github.com/loxbytecode/cloxgo/internal/value"
)

// maxLocals bounds the compile-time local stack — a declared local's slot
// index is stored in a single operand byte, so there can be at most 256.
const maxLocals = 256

type local struct {
	name  lexer.Token
	depth int // -1 means declared but not yet initialized
}

// Compiler holds all state for one single-pass compilation.
type Compiler struct {
	scanner *lexer.Scanner
	interns *value.Table
	chunk   *chunk.Chunk

	previous lexer.Token
	current  lexer.Token

	locals     []local
	scopeDepth int

	hadError   bool
	panicMode  bool
	errs       []error
}

// Compile scans and compiles source into a chunk, interning literals and
// identifiers through interns. It returns the chunk only if compilation
// produced no errors; otherwise it returns nil and a joined error
// (errors.Join) with one entry per ParseError encountered, so a single
// compile reports every syntax error it recovered from, not just the first.
func Compile(source string, interns *value.Table) (*chunk.Chunk, error) {
	c := &Compiler{
		scanner: lexer.New(source),
		interns: interns,
		chunk:   chunk.New(),
	}
	c.advance()
	for !c.match(lexer.EndOfFile) {
		c.declaration()
	}
	c.consume(lexer.EndOfFile, "Expect end of expression.")
	c.emitOp(chunk.OpNil)
	c.emitOp(chunk.OpReturn)

	if c.hadError {
		return nil, errors.Join(c.errs...)
	}
	return c.chunk, nil
}

// --- token stream -----------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.NextToken()
		if c.current.Kind != lexer.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(kind lexer.TokenKind) bool { return c.current.Kind == kind }

func (c *Compiler) match(kind lexer.TokenKind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind lexer.TokenKind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) errorAtCurrent(message string) { c.errorAt(c.current, message) }
func (c *Compiler) error(message string)          { c.errorAt(c.previous, message) }

func (c *Compiler) errorAt(tok lexer.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	pe := &ParseError{Line: tok.Line, Message: message}
	if tok.Kind == lexer.EndOfFile {
		pe.AtEnd = true
	} else {
		pe.Lexeme = tok.Lexeme
	}
	c.errs = append(c.errs, pe)
}

// synchronize consumes tokens until a statement boundary: a semicolon just
// passed, or one of class/fun/var/for/if/while/print/return next.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != lexer.EndOfFile {
		if c.previous.Kind == lexer.Semicolon {
			return
		}
		switch c.current.Kind {
		case lexer.Class, lexer.Fun, lexer.Var, lexer.For, lexer.If,
			lexer.While, lexer.Print, lexer.Return:
			return
		}
		c.advance()
	}
}

// --- bytecode emission --------------------------------------------------

func (c *Compiler) line() int { return c.previous.Line }

func (c *Compiler) emitByte(b byte) int { return c.chunk.Write(b, c.line()) }

func (c *Compiler) emitOp(op chunk.OpCode) int { return c.chunk.WriteOp(op, c.line()) }

func (c *Compiler) emitOpByte(op chunk.OpCode, operand byte) {
	c.emitOp(op)
	c.emitByte(operand)
}

func (c *Compiler) makeConstant(v value.Value) byte {
	idx, err := c.chunk.AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(chunk.OpConstant, c.makeConstant(v))
}

// emitJump writes op followed by a 2-byte placeholder, returning the
// offset of the placeholder's first byte for a later patchJump call.
func (c *Compiler) emitJump(op chunk.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk.Len() - 2
}

// patchJump overwrites the placeholder at offset with the distance from the
// byte after the operand to the current end of the chunk.
func (c *Compiler) patchJump(offset int) {
	jump := c.chunk.Len() - offset - 2
	if jump > 0xffff {
		c.error("Too much code to jump over.")
		return
	}
	c.chunk.Code[offset] = byte((jump >> 8) & 0xff)
	c.chunk.Code[offset+1] = byte(jump & 0xff)
}

// emitLoop emits OP_LOOP with a backward offset to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(chunk.OpLoop)
	offset := c.chunk.Len() - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
		return
	}
	c.emitByte(byte((offset >> 8) & 0xff))
	c.emitByte(byte(offset & 0xff))
}

// --- declarations & statements ------------------------------------------

func (c *Compiler) declaration() {
	switch {
	case c.match(lexer.Var):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(lexer.Equal) {
		c.expression()
	} else {
		c.emitOp(chunk.OpNil)
	}
	c.consume(lexer.Semicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

// parseVariable consumes the identifier, declares it as a local if we're
// inside a scope, and otherwise interns its name into the constant pool for
// a later OP_DEFINE_GLOBAL. The returned byte is only meaningful for
// globals (0 is returned, and ignored, for locals).
func (c *Compiler) parseVariable(errMsg string) byte {
	c.consume(lexer.Identifier, errMsg)
	c.declareLocal()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *Compiler) identifierConstant(name lexer.Token) byte {
	return c.makeConstant(value.FromObject(c.interns.Intern(name.Lexeme)))
}

// declareLocal adds the just-consumed identifier (c.previous) as a new
// local in the current scope, or does nothing at global scope.
func (c *Compiler) declareLocal() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name.Lexeme == name.Lexeme {
			c.error("Already a variable with this name in this scope.")
			return
		}
	}
	if len(c.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

func (c *Compiler) markInitialized() {
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(chunk.OpDefineGlobal, global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(lexer.Print):
		c.printStatement()
	case c.match(lexer.If):
		c.ifStatement()
	case c.match(lexer.While):
		c.whileStatement()
	case c.match(lexer.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(lexer.Semicolon, "Expect ';' after value.")
	c.emitOp(chunk.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(lexer.Semicolon, "Expect ';' after expression.")
	c.emitOp(chunk.OpPop)
}

func (c *Compiler) ifStatement() {
	c.consume(lexer.LeftParen, "Expect '(' after 'if'.")
	c.expression()
	c.consume(lexer.RightParen, "Expect ')' after condition.")

	thenJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.statement()

	elseJump := c.emitJump(chunk.OpJump)
	c.patchJump(thenJump)
	c.emitOp(chunk.OpPop)

	if c.match(lexer.Else) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.chunk.Len()
	c.consume(lexer.LeftParen, "Expect '(' after 'while'.")
	c.expression()
	c.consume(lexer.RightParen, "Expect ')' after condition.")

	exitJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(chunk.OpPop)
}

func (c *Compiler) block() {
	for !c.check(lexer.RightBrace) && !c.check(lexer.EndOfFile) {
		c.declaration()
	}
	c.consume(lexer.RightBrace, "Expect '}' after block.")
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope decrements scopeDepth and emits one OP_POP per local that just
// fell out of scope, removing them from the compile-time local stack.
func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitOp(chunk.OpPop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// --- expressions ---------------------------------------------------------

func (c *Compiler) expression() { c.parsePrecedence(PrecAssignment) }

func (c *Compiler) parsePrecedence(minPrec Precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Kind).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := minPrec <= PrecAssignment
	prefixRule(c, canAssign)

	for minPrec <= getRule(c.current.Kind).precedence {
		c.advance()
		infixRule := getRule(c.previous.Kind).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(lexer.Equal) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) number(canAssign bool) {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.Number(n))
}

func (c *Compiler) string(canAssign bool) {
	lexeme := c.previous.Lexeme
	raw := lexeme[1 : len(lexeme)-1] // strip surrounding quotes
	c.emitConstant(value.FromObject(c.interns.Intern(raw)))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Kind {
	case lexer.False:
		c.emitOp(chunk.OpFalse)
	case lexer.True:
		c.emitOp(chunk.OpTrue)
	case lexer.Nil:
		c.emitOp(chunk.OpNil)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(lexer.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(canAssign bool) {
	opKind := c.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch opKind {
	case lexer.Bang:
		c.emitOp(chunk.OpNot)
	case lexer.Minus:
		c.emitOp(chunk.OpNegate)
	}
}

func (c *Compiler) binary(canAssign bool) {
	opKind := c.previous.Kind
	r := getRule(opKind)
	c.parsePrecedence(r.precedence + 1) // left-associative: one level up

	switch opKind {
	case lexer.BangEqual:
		c.emitOp(chunk.OpEqual)
		c.emitOp(chunk.OpNot)
	case lexer.EqualEqual:
		c.emitOp(chunk.OpEqual)
	case lexer.Greater:
		c.emitOp(chunk.OpGreater)
	case lexer.GreaterEqual:
		c.emitOp(chunk.OpLess)
		c.emitOp(chunk.OpNot)
	case lexer.Less:
		c.emitOp(chunk.OpLess)
	case lexer.LessEqual:
		c.emitOp(chunk.OpGreater)
		c.emitOp(chunk.OpNot)
	case lexer.Plus:
		c.emitOp(chunk.OpAdd)
	case lexer.Minus:
		c.emitOp(chunk.OpSubtract)
	case lexer.Star:
		c.emitOp(chunk.OpMultiply)
	case lexer.Slash:
		c.emitOp(chunk.OpDivide)
	}
}

func (c *Compiler) and_(canAssign bool) {
	endJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(canAssign bool) {
	elseJump := c.emitJump(chunk.OpJumpIfFalse)
	endJump := c.emitJump(chunk.OpJump)
	c.patchJump(elseJump)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

// namedVariable resolves name to a local slot (scanning the compile-time
// local stack top to bottom) or falls back to a global, then emits the
// matching GET/SET op.
func (c *Compiler) namedVariable(name lexer.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	slot, ok := c.resolveLocal(name)
	if ok {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else {
		slot = int(c.identifierConstant(name))
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && c.match(lexer.Equal) {
		c.expression()
		c.emitOpByte(setOp, byte(slot))
	} else {
		c.emitOpByte(getOp, byte(slot))
	}
}

// resolveLocal scans the local stack from top to bottom. It reports the
// "read local variable in its own initializer" error for a match whose
// depth is still -1.
func (c *Compiler) resolveLocal(name lexer.Token) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.name.Lexeme == name.Lexeme {
			if l.depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i, true
		}
	}
	return 0, false
}
