// Package generic implements the baseline "generic JDBC" translation
// target (§4.9/§6): double-quoted identifiers, standard `||` concat, the
// ADQL-like default serialization for every math/geometry function (no
// overrides), and a `LIMIT`/`OFFSET` trailing clause. It plays the role
// the teacher's internal/dialect/mysql.Generator plays for its own
// dialect — a self-registering struct implementing the shared interface —
// but here it is the *default* rather than one specific target, so the
// other dialect subpackages embed it and override only what differs.
package generic

import (
	"fmt"
	"strconv"
	"strings"

	"adqlcore/internal/dialect"
	"adqlcore/internal/errs"
	"adqlcore/internal/stc"
	"adqlcore/internal/types"
)

func init() {
	dialect.Register(dialect.Generic, func() dialect.Dialect { return New() })
}

// Dialect is the baseline translation target; other dialects embed it and
// override the hooks that differ for their database.
type Dialect struct{}

// New builds the generic dialect.
func New() *Dialect { return &Dialect{} }

func (d *Dialect) Name() dialect.Type { return dialect.Generic }

// Quote wraps name in double quotes, doubling any embedded quote (§4.9
// "generic: \"x\"").
func (d *Dialect) Quote(name string, _ bool) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString escapes a string constant by doubling embedded `'` (§4.9).
func (d *Dialect) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Concat renders the standard SQL `||` operator (§4.9).
func (d *Dialect) Concat(args []string) string {
	return strings.Join(args, " || ")
}

// MathFn has no generic override; every ADQL math/aggregate function name
// is already valid generic JDBC SQL syntax.
func (d *Dialect) MathFn(string, []string) (string, bool) { return "", false }

// GeometryFn has no generic override: ADQL geometry functions have no
// portable SQL equivalent outside a spatial extension (PgSphere overrides
// this).
func (d *Dialect) GeometryFn(string, []string) (string, bool) { return "", false }

// SelectTopPrefix is empty: the generic dialect expresses row limiting
// only as a trailing LIMIT clause.
func (d *Dialect) SelectTopPrefix(int, bool) string { return "" }

// TrailingLimit renders `LIMIT n`, `OFFSET n`, or `LIMIT n OFFSET n` (§4.9
// "generic: OFFSET n"; TOP maps to the equally standard LIMIT). OFFSET 0
// is optimised away per §4.9.
func (d *Dialect) TrailingLimit(top int, hasOffset bool, offset int) string {
	var parts []string
	if top >= 0 {
		parts = append(parts, "LIMIT "+strconv.Itoa(top))
	}
	if hasOffset && offset != 0 {
		parts = append(parts, "OFFSET "+strconv.Itoa(offset))
	}
	return strings.Join(parts, " ")
}

// NeedsSyntheticOrderBy is always false: LIMIT/OFFSET are well-defined
// without an ORDER BY in the generic/PostgreSQL/MySQL SQL dialects (only
// SQL Server's OFFSET...FETCH requires one).
func (d *Dialect) NeedsSyntheticOrderBy(bool, int) bool { return false }

// SupportsJoinUsing is true: standard SQL (and every dialect here but SQL
// Server) accepts USING(col_list) directly.
func (d *Dialect) SupportsJoinUsing() bool { return true }

// RequiresCTEColumnList is false: the generic/PostgreSQL/MySQL dialects
// infer a WITH label's columns from its body, no explicit list needed.
func (d *Dialect) RequiresCTEColumnList() bool { return false }

// convertType is the shared ADQL-kind -> ANSI-ish SQL type-name map (§4.9
// `convert_type_to_db`); dialects that diverge override individual cases.
func convertType(dt types.DataType) string {
	switch dt.Kind {
	case types.CHAR:
		return sized("CHAR", dt.Length)
	case types.VARCHAR:
		return sized("VARCHAR", dt.Length)
	case types.CLOB:
		return "CLOB"
	case types.TIMESTAMP:
		return "TIMESTAMP"
	case types.SMALLINT:
		return "SMALLINT"
	case types.INTEGER:
		return "INTEGER"
	case types.BIGINT:
		return "BIGINT"
	case types.REAL:
		return "REAL"
	case types.DOUBLE:
		return "DOUBLE PRECISION"
	case types.BINARY:
		return sized("BINARY", dt.Length)
	case types.VARBINARY:
		return sized("VARBINARY", dt.Length)
	case types.BLOB:
		return "BLOB"
	case types.POINT, types.REGION:
		return "VARCHAR"
	default:
		return "VARCHAR"
	}
}

func sized(base string, length int) string {
	if length > 0 {
		return fmt.Sprintf("%s(%d)", base, length)
	}
	return base
}

func (d *Dialect) ConvertType(dt types.DataType) string { return convertType(dt) }

// FromDB/ToDB have no generic geometry representation: the generic target
// carries geometry values as opaque strings (§4.9 leaves this to a spatial
// extension), so both fail with a Translation-kind error.
func (d *Dialect) FromDB(string) (*stc.Region, error) {
	return nil, errs.Newf(errs.Translation, "generic dialect has no geometry representation to parse")
}

func (d *Dialect) ToDB(*stc.Region) (string, error) {
	return "", errs.Newf(errs.Translation, "generic dialect has no geometry representation to render")
}

// ConvertType is exported standalone too, so PostgreSQL/MySQL/MSSQL can
// call the shared mapping from their own ConvertType override before
// adjusting the handful of cases that differ.
var ConvertType = convertType
