// Package mssql implements the SQL Server translation target (§4.9): the
// only one of the five that differs structurally rather than just
// lexically — row limiting is a `TOP n` prefix (or, once OFFSET is also
// present, a trailing `OFFSET...FETCH NEXT` clause that requires an
// ORDER BY the translator must synthesize if the query lacks one), and
// NATURAL JOIN / JOIN USING have no direct equivalent so the translator
// must rewrite their "usual columns" into an explicit ON conjunction
// (SupportsJoinUsing reports false for exactly that reason).
package mssql

import (
	"fmt"
	"strconv"
	"strings"

	"adqlcore/internal/dialect"
	"adqlcore/internal/dialect/generic"
	"adqlcore/internal/stc"
	"adqlcore/internal/types"
)

func init() {
	dialect.Register(dialect.MSSQL, func() dialect.Dialect { return New() })
}

// Dialect is the SQL Server translation target.
type Dialect struct{}

// New builds the SQL Server dialect.
func New() *Dialect { return &Dialect{} }

func (d *Dialect) Name() dialect.Type { return dialect.MSSQL }

// Quote double-quote-quotes name under ANSI_QUOTES semantics, which is
// also valid unconditionally as a delimited identifier (§4.9 "SQL
// Server: \"x\"").
func (d *Dialect) Quote(name string, _ bool) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString escapes a string constant by doubling embedded `'`.
func (d *Dialect) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Concat renders SQL Server's `+` string concatenation operator (§4.9
// "SQL Server: a + b + ...").
func (d *Dialect) Concat(args []string) string {
	return strings.Join(args, " + ")
}

// MathFn has no SQL Server override: LOG/LOG10/TRUNCATE/RAND all already
// match SQL Server's own built-in names and argument order.
func (d *Dialect) MathFn(string, []string) (string, bool) { return "", false }

// GeometryFn has no SQL Server override in this implementation; its
// spatial type (geography) uses WKT construction rather than positional
// arguments and is out of scope (see DESIGN.md).
func (d *Dialect) GeometryFn(string, []string) (string, bool) { return "", false }

// SelectTopPrefix renders "TOP n " immediately after SELECT [DISTINCT]
// when a row limit applies with no OFFSET (§4.9); once OFFSET is also
// present, SQL Server requires the trailing OFFSET...FETCH form instead,
// so this returns "" and TrailingLimit takes over.
func (d *Dialect) SelectTopPrefix(top int, hasOffset bool) string {
	if top < 0 || hasOffset {
		return ""
	}
	return fmt.Sprintf("TOP %d ", top)
}

// TrailingLimit renders SQL Server's `OFFSET n ROWS [FETCH NEXT m ROWS
// ONLY]` form whenever OFFSET is present (§4.9 `translate_offset`);
// OFFSET 0 is still required here because, unlike the other dialects,
// SQL Server has no trailing form for "TOP without OFFSET" — that case
// is handled entirely by SelectTopPrefix instead, so TrailingLimit
// returns "" when hasOffset is false.
func (d *Dialect) TrailingLimit(top int, hasOffset bool, offset int) string {
	if !hasOffset {
		return ""
	}
	clause := "OFFSET " + strconv.Itoa(offset) + " ROWS"
	if top >= 0 {
		clause += " FETCH NEXT " + strconv.Itoa(top) + " ROWS ONLY"
	}
	return clause
}

// NeedsSyntheticOrderBy is true exactly when OFFSET is present: SQL
// Server's OFFSET...FETCH requires an ORDER BY, which the translator
// must synthesize as `ORDER BY 1 ASC` if the query supplies none (§4.9).
func (d *Dialect) NeedsSyntheticOrderBy(hasOffset bool, _ int) bool { return hasOffset }

// ConvertType defers to the shared ANSI-ish mapping, adjusting only the
// handful of names SQL Server spells differently.
func (d *Dialect) ConvertType(dt types.DataType) string {
	switch dt.Kind {
	case types.CLOB:
		return "VARCHAR(MAX)"
	case types.BLOB:
		return "VARBINARY(MAX)"
	case types.DOUBLE:
		return "FLOAT"
	default:
		return generic.ConvertType(dt)
	}
}

// SupportsJoinUsing is false: SQL Server has no USING(col_list) syntax,
// so the translator must rewrite NATURAL JOIN / JOIN USING into an
// explicit ON conjunction over the usual columns instead.
func (d *Dialect) SupportsJoinUsing() bool { return false }

// RequiresCTEColumnList is false: SQL Server infers a WITH label's
// columns from its body, same as the other dialects.
func (d *Dialect) RequiresCTEColumnList() bool { return false }

// FromDB/ToDB: this implementation carries no SQL Server spatial-type
// geometry mapping (see DESIGN.md); both fail explicitly.
func (d *Dialect) FromDB(string) (*stc.Region, error) {
	return nil, fmt.Errorf("mssql dialect has no geometry representation to parse")
}

func (d *Dialect) ToDB(*stc.Region) (string, error) {
	return "", fmt.Errorf("mssql dialect has no geometry representation to render")
}
