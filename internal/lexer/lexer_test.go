package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(src string) []TokenKind {
	s := New(src)
	var kinds []TokenKind
	for {
		tok := s.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EndOfFile {
			return kinds
		}
	}
}

func TestScansOperatorsAndPunctuation(t *testing.T) {
	kinds := tokenKinds("(){},.+-;*!= == <= >= < > =")
	assert.Equal(t, []TokenKind{
		LeftParen, RightParen, LeftBrace, RightBrace, Comma, Dot, Plus, Minus,
		Semicolon, Star, BangEqual, EqualEqual, LessEqual, GreaterEqual,
		Less, Greater, Equal, EndOfFile,
	}, kinds)
}

func TestScansKeywordsAndIdentifiers(t *testing.T) {
	kinds := tokenKinds("var x = nil; print true; while (false) {} if (x) {} else {} and or")
	want := []TokenKind{
		Var, Identifier, Equal, Nil, Semicolon,
		Print, True, Semicolon,
		While, LeftParen, False, RightParen, LeftBrace, RightBrace,
		If, LeftParen, Identifier, RightParen, LeftBrace, RightBrace,
		Else, LeftBrace, RightBrace,
		And, Or, EndOfFile,
	}
	assert.Equal(t, want, kinds)
}

func TestScansNumbers(t *testing.T) {
	s := New("123 4.5")
	tok := s.NextToken()
	require.Equal(t, Number, tok.Kind)
	assert.Equal(t, "123", tok.Lexeme)
	tok = s.NextToken()
	require.Equal(t, Number, tok.Kind)
	assert.Equal(t, "4.5", tok.Lexeme)
}

func TestScansStrings(t *testing.T) {
	s := New(`"hello world"`)
	tok := s.NextToken()
	require.Equal(t, String, tok.Kind)
	assert.Equal(t, `"hello world"`, tok.Lexeme)
}

func TestUnterminatedStringIsErrorToken(t *testing.T) {
	s := New(`"oops`)
	tok := s.NextToken()
	assert.Equal(t, Error, tok.Kind)
	assert.Equal(t, "Unterminated string.", tok.Lexeme)
}

func TestUnexpectedCharacterIsErrorToken(t *testing.T) {
	s := New("@")
	tok := s.NextToken()
	assert.Equal(t, Error, tok.Kind)
	assert.Equal(t, "Unexpected character.", tok.Lexeme)
}

func TestLineCommentsAreSkipped(t *testing.T) {
	s := New("// whole line\nvar x;")
	tok := s.NextToken()
	assert.Equal(t, Var, tok.Kind)
	assert.Equal(t, 2, tok.Line)
}

func TestNewlinesIncrementLineAcrossStrings(t *testing.T) {
	s := New("\"a\nb\" nil")
	tok := s.NextToken()
	require.Equal(t, String, tok.Kind)
	tok = s.NextToken()
	assert.Equal(t, 2, tok.Line)
}

func TestEndOfFileRepeats(t *testing.T) {
	s := New("")
	assert.Equal(t, EndOfFile, s.NextToken().Kind)
	assert.Equal(t, EndOfFile, s.NextToken().Kind)
}

func TestKeywordTrieDoesNotMisfireOnPrefix(t *testing.T) {
	// "forest" shares the 'f' bucket with "for" but must not match it.
	kinds := tokenKinds("forest")
	assert.Equal(t, []TokenKind{Identifier, EndOfFile}, kinds)
}
