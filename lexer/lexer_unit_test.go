// ==============================================================================================
// FILE: lexer/lexer_unit_test.go
// ==============================================================================================
// PURPOSE: Tokenizes representative lumen source fragments and checks the resulting token
//          stream, including the escape-sequence and unterminated-input error paths.
// ==============================================================================================

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/token"
)

func collectKinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := New(1, src)
	var kinds []token.Kind
	for {
		tok, err := l.Next()
		require.Nil(t, err)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func TestLexesCombination(t *testing.T) {
	kinds := collectKinds(t, "(+ 1 2)")
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.Identifier, token.Number, token.Number, token.RightParen, token.EOF,
	}, kinds)
}

func TestLexesQuoteApostrophe(t *testing.T) {
	kinds := collectKinds(t, "'(1 2)")
	assert.Equal(t, []token.Kind{
		token.Apostrophe, token.LeftParen, token.Number, token.Number, token.RightParen, token.EOF,
	}, kinds)
}

func TestLexesBooleans(t *testing.T) {
	kinds := collectKinds(t, "#t #f")
	assert.Equal(t, []token.Kind{token.Boolean, token.Boolean, token.EOF}, kinds)
}

func TestLexesNegativeAndDecimalNumbers(t *testing.T) {
	l := New(1, "-3.5")
	tok, err := l.Next()
	require.Nil(t, err)
	assert.Equal(t, token.Number, tok.Kind)
	assert.Equal(t, "-3.5", tok.Text)
}

func TestLexesDottedPairDot(t *testing.T) {
	kinds := collectKinds(t, "(a . b)")
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.Identifier, token.Dot, token.Identifier, token.RightParen, token.EOF,
	}, kinds)
}

func TestSkipsSemicolonComments(t *testing.T) {
	kinds := collectKinds(t, "; a comment\n(+ 1 2) ; trailing")
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.Identifier, token.Number, token.Number, token.RightParen, token.EOF,
	}, kinds)
}

func TestStringEscapes(t *testing.T) {
	l := New(1, `"a\"b\\c"`)
	tok, err := l.Next()
	require.Nil(t, err)
	assert.Equal(t, token.String, tok.Kind)
	assert.Equal(t, `a"b\c`, tok.Text)
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	l := New(1, `"abc`)
	_, err := l.Next()
	require.NotNil(t, err)
	assert.Equal(t, evalerror.UnterminatedString, err.Kind)
}

func TestUnsupportedEscapeSequenceIsAnError(t *testing.T) {
	l := New(1, `"a\qb"`)
	_, err := l.Next()
	require.NotNil(t, err)
	assert.Equal(t, evalerror.UnsupportedEscapeSequence, err.Kind)
}

func TestHashOtherThanTOrFIsAnError(t *testing.T) {
	l := New(1, "#z")
	_, err := l.Next()
	require.NotNil(t, err)
	assert.Equal(t, evalerror.UnexpectedCharacter, err.Kind)
}
