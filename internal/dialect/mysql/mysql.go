// Package mysql implements the MySQL translation target (§4.9): backtick
// identifier quoting, MySQL's backslash-escaping string literal syntax,
// CONCAT(...)-based string concatenation, and a LIMIT/OFFSET trailing
// clause shaped like generic's, except that an OFFSET without TOP is
// rendered as `LIMIT 18446744073709551615 OFFSET m`. QuoteIdentifier/QuoteString are
// carried over verbatim from the teacher's internal/dialect/mysql.
// Generator (its own DDL-quoting helpers), since MySQL's escaping rules
// don't change between "quoting a migration identifier" and "quoting a
// translated ADQL identifier". VerifySyntax runs a translated statement
// through github.com/pingcap/tidb/pkg/parser as a self-check (the
// translator does not call it; callers do) that the emitted SQL actually parses as MySQL (SPEC_FULL.md
// §3's domain-stack wiring for this package).
package mysql

import (
	"fmt"
	"strings"

	tidbparser "github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // registers the literal-value AST driver ParseOneStmt needs

	"adqlcore/internal/dialect"
	"adqlcore/internal/dialect/generic"
	"adqlcore/internal/stc"
	"adqlcore/internal/types"
)

func init() {
	dialect.Register(dialect.MySQL, func() dialect.Dialect { return New() })
}

// Dialect is the MySQL translation target.
type Dialect struct{}

// New builds the MySQL dialect.
func New() *Dialect { return &Dialect{} }

func (d *Dialect) Name() dialect.Type { return dialect.MySQL }

// Quote backtick-quotes name, doubling any embedded backtick, matching
// the teacher's Generator.QuoteIdentifier exactly (§4.9 "MySQL: `x`").
func (d *Dialect) Quote(name string, _ bool) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "`", "``")
	return "`" + name + "`"
}

// QuoteString escapes a string constant the way MySQL's own client
// libraries do: doubled `'`, plus backslash-escapes for backslash, NUL,
// newline, carriage return, and Ctrl+Z. Copied from the teacher's
// Generator.QuoteString (internal/dialect/mysql/mysql.go), which needed
// the identical escaping for embedding literals in generated DDL.
func (d *Dialect) QuoteString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + len(value)/10 + 2)

	b.WriteByte('\'')
	for _, char := range value {
		switch char {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A':
			b.WriteString(`\Z`)
		default:
			b.WriteRune(char)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Concat renders MySQL's CONCAT(...) function, since MySQL's `||` means
// logical OR unless PIPES_AS_CONCAT is set (§4.9 "MySQL: CONCAT(a,b,...)").
func (d *Dialect) Concat(args []string) string {
	return "CONCAT(" + strings.Join(args, ", ") + ")"
}

// MathFn has no MySQL override: every ADQL math function name MySQL
// exposes is already spelled the same way (LOG, LOG10, TRUNCATE, RAND).
func (d *Dialect) MathFn(string, []string) (string, bool) { return "", false }

// GeometryFn has no MySQL override in this implementation; MySQL's own
// spatial extension uses a different function/type vocabulary than
// PgSphere and is out of scope (see DESIGN.md).
func (d *Dialect) GeometryFn(string, []string) (string, bool) { return "", false }

// SelectTopPrefix is empty: MySQL expresses row limiting only via a
// trailing LIMIT clause.
func (d *Dialect) SelectTopPrefix(int, bool) string { return "" }

// TrailingLimit renders MySQL's `LIMIT n` / `LIMIT n OFFSET m` form.
// MySQL requires LIMIT whenever OFFSET is used, so an OFFSET with no TOP
// renders `LIMIT 18446744073709551615 OFFSET m`, the documented MySQL
// idiom for "no limit" (its largest unsigned BIGINT).
func (d *Dialect) TrailingLimit(top int, hasOffset bool, offset int) string {
	if !hasOffset || offset == 0 {
		if top < 0 {
			return ""
		}
		return fmt.Sprintf("LIMIT %d", top)
	}
	if top < 0 {
		return fmt.Sprintf("LIMIT 18446744073709551615 OFFSET %d", offset)
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", top, offset)
}

// NeedsSyntheticOrderBy is false: MySQL's LIMIT/OFFSET needs no ORDER BY.
func (d *Dialect) NeedsSyntheticOrderBy(bool, int) bool { return false }

// ConvertType defers to the shared ANSI-ish mapping; MySQL accepts
// "DOUBLE PRECISION", "VARCHAR", etc. without adjustment.
func (d *Dialect) ConvertType(dt types.DataType) string { return generic.ConvertType(dt) }

// SupportsJoinUsing is true: MySQL supports USING(col_list) directly.
func (d *Dialect) SupportsJoinUsing() bool { return true }

// RequiresCTEColumnList is false: MySQL (8.0+) infers a WITH label's
// columns from its body.
func (d *Dialect) RequiresCTEColumnList() bool { return false }

// FromDB/ToDB: this implementation carries no MySQL spatial-extension
// geometry mapping (see DESIGN.md); both fail explicitly rather than
// silently mis-rendering a region.
func (d *Dialect) FromDB(string) (*stc.Region, error) {
	return nil, fmt.Errorf("mysql dialect has no geometry representation to parse")
}

func (d *Dialect) ToDB(*stc.Region) (string, error) {
	return "", fmt.Errorf("mysql dialect has no geometry representation to render")
}

// VerifySyntax parses stmt with the real MySQL grammar (pingcap/tidb's
// parser) as a translator self-check: a construct that round-trips
// through this package's Translate but doesn't parse as MySQL indicates
// a bug in a MathFn/Concat/TrailingLimit rendering above, not a problem
// with the user's ADQL query. Returns a descriptive error on syntax
// failure, nil otherwise.
func VerifySyntax(stmt string) error {
	p := tidbparser.New()
	if _, _, err := p.Parse(stmt, "", ""); err != nil {
		return fmt.Errorf("mysql: translated statement failed to parse: %w", err)
	}
	return nil
}
