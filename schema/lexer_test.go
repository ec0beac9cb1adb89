package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/M1tsumi/ZeroProto/errs"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}

	return out
}

func TestLexSimpleMessage(t *testing.T) {
	tokens, err := lex("message User { user_id: u64; }")
	require.NoError(t, err)

	require.Equal(t, []TokenKind{
		TokenKwMessage, TokenIdent, TokenLBrace,
		TokenIdent, TokenColon, TokenIdent, TokenSemicolon,
		TokenRBrace, TokenEOF,
	}, kinds(tokens))

	require.Equal(t, "User", tokens[1].Text)
	require.Equal(t, "user_id", tokens[3].Text)
	require.Equal(t, "u64", tokens[5].Text)
}

func TestLexSpans(t *testing.T) {
	tokens, err := lex("message A {\n  x: u8;\n}")
	require.NoError(t, err)

	// "A" sits at line 1, column 9.
	require.Equal(t, 1, tokens[1].Span.Line)
	require.Equal(t, 9, tokens[1].Span.Column)
	require.Equal(t, 8, tokens[1].Span.Offset)
	require.Equal(t, 1, tokens[1].Span.Length)

	// "x" sits at line 2, column 3.
	require.Equal(t, 2, tokens[3].Span.Line)
	require.Equal(t, 3, tokens[3].Span.Column)
}

func TestLexComments(t *testing.T) {
	src := `
// leading comment
message A { // trailing comment
  /* block
     comment */
  x: u8;
}
`
	tokens, err := lex(src)
	require.NoError(t, err)

	require.Equal(t, []TokenKind{
		TokenKwMessage, TokenIdent, TokenLBrace,
		TokenIdent, TokenColon, TokenIdent, TokenSemicolon,
		TokenRBrace, TokenEOF,
	}, kinds(tokens))
}

func TestLexIntegerLiterals(t *testing.T) {
	tokens, err := lex("Active = 1; Banned = -7;")
	require.NoError(t, err)

	require.Equal(t, TokenInt, tokens[2].Kind)
	require.Equal(t, "1", tokens[2].Text)
	require.Equal(t, TokenInt, tokens[6].Kind)
	require.Equal(t, "-7", tokens[6].Text)
}

func TestLexFloatLiteral(t *testing.T) {
	tokens, err := lex("= 2.75;")
	require.NoError(t, err)

	require.Equal(t, TokenFloat, tokens[1].Kind)
	require.Equal(t, "2.75", tokens[1].Text)
}

func TestLexStringLiteral(t *testing.T) {
	tokens, err := lex(`= "hello \"quoted\"";`)
	require.NoError(t, err)

	require.Equal(t, TokenString, tokens[1].Kind)
	require.Equal(t, `hello \"quoted\"`, tokens[1].Text)
}

func TestLexKeywords(t *testing.T) {
	tokens, err := lex("message enum true false messages")
	require.NoError(t, err)

	require.Equal(t, []TokenKind{
		TokenKwMessage, TokenKwEnum, TokenKwTrue, TokenKwFalse,
		TokenIdent, TokenEOF,
	}, kinds(tokens))
	require.Equal(t, "messages", tokens[4].Text)
}

func TestLexUnexpectedChar(t *testing.T) {
	_, err := lex("message A { x: u8 @ }")
	require.ErrorIs(t, err, errs.ErrUnexpectedChar)

	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	require.Equal(t, 1, d.Span.Line)
	require.Equal(t, 19, d.Span.Column)
	require.Equal(t, 18, d.Span.Offset)
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := lex(`= "no closing quote`)
	require.ErrorIs(t, err, errs.ErrUnexpectedChar)
}

func TestLexBareMinus(t *testing.T) {
	_, err := lex("x - y")
	require.ErrorIs(t, err, errs.ErrUnexpectedChar)
}

func TestLexEmptySource(t *testing.T) {
	tokens, err := lex("")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{TokenEOF}, kinds(tokens))

	tokens, err = lex("   \n\t// just a comment\n")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{TokenEOF}, kinds(tokens))
}
