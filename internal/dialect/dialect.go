// Package dialect defines the translator's (C9, §4.9) per-database hook
// interface and a name-keyed registry of implementations, generalizing the
// teacher's dialect.Dialect/dialect.Generator split (internal/dialect/
// dialect.go) from "generate migration DDL" to "translate one checked ADQL
// query into dialect SQL". The registration mechanism — a mutex-guarded
// map populated by each dialect subpackage's init() — is copied unchanged
// from the teacher; only the interface it registers changes shape.
package dialect

import (
	"fmt"
	"sync"

	"adqlcore/internal/stc"
	"adqlcore/internal/types"
)

// Type names one of the translation targets named in §4.9/§6.
type Type string

const (
	Generic    Type = "generic"
	PostgreSQL Type = "postgresql"
	PgSphere   Type = "pgsphere"
	MySQL      Type = "mysql"
	MSSQL      Type = "mssql"
)

// Dialect is the full set of per-target hooks the translator (C9) consults
// while walking a checked AST (§4.9).
type Dialect interface {
	Name() Type

	// Quote renders a case-sensitive-quoted identifier; caseSensitive false
	// lets a dialect emit the name bare when it is already safe to do so.
	Quote(name string, caseSensitive bool) string
	// QuoteString escapes a string constant for this dialect's literal
	// syntax (doubled `'` at minimum, per §4.9).
	QuoteString(s string) string

	// Concat renders the `||` operator over already-translated arguments.
	Concat(args []string) string
	// MathFn renders a call to one of the ADQL built-in math/aggregate
	// functions given its already-translated arguments; ok is false if the
	// dialect has nothing special to say and the default ADQL-like
	// `name(args...)` serialization should be used instead.
	MathFn(name string, args []string) (sql string, ok bool)
	// GeometryFn renders a call to one of the ADQL geometry functions
	// given its already-translated arguments; ok is false for the default
	// serialization, same convention as MathFn.
	GeometryFn(name string, args []string) (sql string, ok bool)

	// SelectTopPrefix renders a "TOP n"-shaped prefix placed immediately
	// after SELECT [DISTINCT] (§4.9). Returns "" for dialects that express
	// row-limiting only as a trailing clause (every dialect but SQL Server,
	// and SQL Server itself once OFFSET is also present).
	SelectTopPrefix(top int, hasOffset bool) string
	// TrailingLimit renders the trailing LIMIT/OFFSET/FETCH clause
	// appended after ORDER BY (§4.9 `translate_offset`). top < 0 means the
	// ADQL TOP clause was absent; OFFSET 0 is optimised away per §4.9.
	TrailingLimit(top int, hasOffset bool, offset int) string
	// NeedsSyntheticOrderBy reports whether, given this combination of TOP/
	// OFFSET, a dialect that requires ORDER BY before its trailing limit
	// clause (SQL Server) must have one synthesized when the query has
	// none of its own.
	NeedsSyntheticOrderBy(hasOffset bool, top int) bool

	// ConvertType maps an ADQL datatype to this dialect's native type name
	// (§4.9 `convert_type_to_db`).
	ConvertType(dt types.DataType) string

	// SupportsJoinUsing reports whether USING(col_list) should be emitted
	// for NATURAL JOIN / JOIN USING columns, or whether the translator
	// must rewrite them as an explicit ON conjunction instead (§4.9, SQL
	// Server rewrites to ON).
	SupportsJoinUsing() bool
	// RequiresCTEColumnList reports whether a WITH-clause label must
	// enumerate its output columns explicitly (§4.9).
	RequiresCTEColumnList() bool

	// FromDB parses a dialect-native geometry value back into an
	// STC-S region (§4.9 `translate_geometry_from_db`).
	FromDB(value string) (*stc.Region, error)
	// ToDB renders a region as a dialect-native geometry literal (§4.9
	// `translate_geometry_to_db`).
	ToDB(r *stc.Region) (string, error)
}

var (
	mu       sync.RWMutex
	registry = map[Type]func() Dialect{}
)

// Register adds a constructor for Type t to the registry. Called from each
// dialect subpackage's init(), mirroring the teacher's RegisterDialect.
func Register(t Type, ctor func() Dialect) {
	mu.Lock()
	defer mu.Unlock()
	registry[t] = ctor
}

// Get builds the registered Dialect for t.
func Get(t Type) (Dialect, error) {
	mu.RLock()
	defer mu.RUnlock()
	ctor, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("dialect %q is not registered", t)
	}
	return ctor(), nil
}
