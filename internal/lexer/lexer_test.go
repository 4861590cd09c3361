package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/lexer"
	"adqlcore/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(src)
	var out []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexSimpleSelect(t *testing.T) {
	toks := scanAll(t, "SELECT colI FROM foo WHERE colI = 3")
	assert.Equal(t, []token.Kind{
		token.SELECT, token.IDENT, token.FROM, token.IDENT, token.WHERE,
		token.IDENT, token.EQ, token.NUMBER, token.EOF,
	}, kinds(toks))
}

func TestLexDelimitedIdentifierWithEscapedQuote(t *testing.T) {
	toks := scanAll(t, `"a""b"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.DELIMITED, toks[0].Kind)
	assert.Equal(t, `"a""b"`, toks[0].Text)
}

func TestLexStringLiteralWithEscapedQuote(t *testing.T) {
	toks := scanAll(t, `'it''s'`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `'it''s'`, toks[0].Text)
}

func TestLexNumberWithExponent(t *testing.T) {
	toks := scanAll(t, "1.5e-10")
	require.Len(t, toks, 2)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, "1.5e-10", toks[0].Text)
}

func TestLexConcatAndComparisonOperators(t *testing.T) {
	toks := scanAll(t, "a || b <> c >= d <= e")
	assert.Equal(t, []token.Kind{
		token.IDENT, token.CONCAT, token.IDENT, token.NEQ, token.IDENT,
		token.GE, token.IDENT, token.LE, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestLexLineCommentIsSkipped(t *testing.T) {
	toks := scanAll(t, "SELECT 1 -- trailing comment\nFROM foo")
	assert.Equal(t, []token.Kind{token.SELECT, token.NUMBER, token.FROM, token.IDENT, token.EOF}, kinds(toks))
}

func TestLexBlockCommentIsSkipped(t *testing.T) {
	toks := scanAll(t, "SELECT /* block */ 1 FROM foo")
	assert.Equal(t, []token.Kind{token.SELECT, token.NUMBER, token.FROM, token.IDENT, token.EOF}, kinds(toks))
}

func TestLexTracksLineAndColumn(t *testing.T) {
	toks := scanAll(t, "SELECT\n  colI")
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[1].Col)
}

func TestLexUnterminatedStringFails(t *testing.T) {
	l := lexer.New("'abc")
	_, err := l.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string")
}

func TestLexUnterminatedDelimitedIdentifierFails(t *testing.T) {
	l := lexer.New(`"abc`)
	_, err := l.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated delimited identifier")
}

func TestLexKeywordsAreCaseInsensitive(t *testing.T) {
	toks := scanAll(t, "select Select SELECT")
	assert.Equal(t, []token.Kind{token.SELECT, token.SELECT, token.SELECT, token.EOF}, kinds(toks))
}
