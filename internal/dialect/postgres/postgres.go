// Package postgres implements the PostgreSQL translation target (§4.9):
// same identifier/string quoting and OFFSET syntax as generic, but with
// PostgreSQL's numeric-function renames (`LOG`->`ln`, `LOG10`->`log(10,x)`,
// `TRUNCATE`->`trunc`, `RAND`->`random()`) and explicit `numeric` casts on
// math arguments. It embeds generic.Dialect the way the teacher's MSSQL/
// PostgreSQL dialects would embed a shared base if one existed — here
// that base is this module's own generic package rather than a teacher
// file, since the teacher only ever implemented MySQL.
package postgres

import (
	"fmt"
	"strings"

	"adqlcore/internal/dialect"
	"adqlcore/internal/dialect/generic"
)

func init() {
	dialect.Register(dialect.PostgreSQL, func() dialect.Dialect { return New() })
}

// Dialect is the PostgreSQL translation target.
type Dialect struct {
	generic.Dialect
}

// New builds the PostgreSQL dialect.
func New() *Dialect { return &Dialect{} }

func (d *Dialect) Name() dialect.Type { return dialect.PostgreSQL }

// castNumeric casts to ::numeric, PostgreSQL's required argument cast for
// several transcendental functions (§4.9 "casts numeric args to numeric").
func castNumeric(arg string) string { return arg + "::numeric" }

// MathFn applies §4.9's literal PostgreSQL renames (`LOG`->`ln`,
// `LOG10`->`log(10,x)`, `TRUNCATE`->`trunc`, `RAND`->`random()`); anything
// else falls back to the default ADQL-like serialization.
func (d *Dialect) MathFn(name string, args []string) (string, bool) {
	switch strings.ToUpper(name) {
	case "RAND":
		return "random()", true
	case "LOG10":
		if len(args) != 1 {
			return "", false
		}
		return fmt.Sprintf("log(10, %s)", castNumeric(args[0])), true
	case "LOG":
		if len(args) != 1 {
			return "", false
		}
		return fmt.Sprintf("ln(%s)", castNumeric(args[0])), true
	case "TRUNCATE":
		if len(args) == 0 {
			return "", false
		}
		casted := make([]string, len(args))
		for i, a := range args {
			casted[i] = castNumeric(a)
		}
		return fmt.Sprintf("trunc(%s)", strings.Join(casted, ", ")), true
	}
	return "", false
}
