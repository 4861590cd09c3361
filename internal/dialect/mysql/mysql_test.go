package mysql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adqlcore/internal/dialect"
	"adqlcore/internal/dialect/mysql"
)

func TestDialectName(t *testing.T) {
	d := mysql.New()
	assert.Equal(t, dialect.MySQL, d.Name())
}

func TestQuoteUsesBacktickAndDoublesEmbedded(t *testing.T) {
	d := mysql.New()
	assert.Equal(t, "`a``b`", d.Quote("a`b", true))
}

// QuoteString mirrors the teacher's Generator.QuoteString escaping rule.
func TestQuoteStringEscapesBackslashAndControlChars(t *testing.T) {
	d := mysql.New()
	assert.Equal(t, `'it''s\\a\n\r\0\Z'`, d.QuoteString("it's\\a\n\r\x00\x1A"))
}

func TestConcatUsesConcatFunction(t *testing.T) {
	d := mysql.New()
	assert.Equal(t, "CONCAT(a, b)", d.Concat([]string{"a", "b"}))
}

func TestTrailingLimitRequiresLimitWhenOffsetWithoutTop(t *testing.T) {
	d := mysql.New()
	assert.Equal(t, "LIMIT 18446744073709551615 OFFSET 5", d.TrailingLimit(-1, true, 5))
	assert.Equal(t, "LIMIT 10 OFFSET 5", d.TrailingLimit(10, true, 5))
	assert.Equal(t, "LIMIT 10", d.TrailingLimit(10, false, 0))
}

func TestVerifySyntaxAcceptsValidSelect(t *testing.T) {
	err := mysql.VerifySyntax("SELECT `a` FROM `t` WHERE `a` = 1")
	assert.NoError(t, err)
}

func TestVerifySyntaxRejectsMalformedSQL(t *testing.T) {
	err := mysql.VerifySyntax("SELEC FROM WHERE")
	assert.Error(t, err)
}
