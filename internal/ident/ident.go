// Package ident implements ADQL identifier normalization: the
// delimited/undelimited distinction that drives case-sensitivity rules
// throughout the rest of the core (§3/§4.1 of the spec). It plays the role
// the teacher's naming helpers in internal/core/schema.go play for
// snake_case table/column names, generalized to ADQL's quoting rules.
package ident

import (
	"strings"

	"adqlcore/internal/errs"
)

// Identifier is a normalized ADQL name: its canonical ADQL-visible spelling,
// the (possibly identical) name used when talking to the database, and
// whether matching against it must be case-exact.
type Identifier struct {
	adqlName      string
	dbName        string
	caseSensitive bool
}

// New builds an Identifier from raw ADQL source text (e.g. a parsed token
// lexeme), applying the normalization rules in §4.1.
func New(raw string) (*Identifier, error) {
	canonical, caseSensitive, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	return &Identifier{adqlName: canonical, dbName: canonical, caseSensitive: caseSensitive}, nil
}

// NewWithDBName builds an Identifier whose database-facing spelling differs
// from its ADQL-facing one (e.g. a column renamed on ingestion).
func NewWithDBName(raw, dbName string) (*Identifier, error) {
	id, err := New(raw)
	if err != nil {
		return nil, err
	}
	id.dbName = dbName
	return id, nil
}

// ADQLName returns the canonical ADQL-visible spelling.
func (id *Identifier) ADQLName() string { return id.adqlName }

// DBName returns the spelling used when talking to the underlying database.
func (id *Identifier) DBName() string { return id.dbName }

// CaseSensitive reports whether matching against this identifier must be
// octet-exact.
func (id *Identifier) CaseSensitive() bool { return id.caseSensitive }

// SetDBName overrides the database-facing spelling.
func (id *Identifier) SetDBName(name string) { id.dbName = name }

// SetADQLName overrides the canonical spelling in place, keeping the
// case-sensitivity flag fixed; callers that need to re-derive
// case-sensitivity should build a new Identifier with New instead.
func (id *Identifier) SetADQLName(name string) { id.adqlName = name }

// normalize implements §4.1 normalize(input). It trims surrounding
// whitespace, strips matched double-quote delimiters (unescaping doubled
// quotes), and fails on an effectively empty result.
func normalize(raw string) (string, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false, errs.Newf(errs.MissingName, "Missing ADQL name!")
	}

	if isDelimited(trimmed) {
		inner := trimmed[1 : len(trimmed)-1]
		unescaped := strings.ReplaceAll(inner, `""`, `"`)
		if strings.TrimSpace(unescaped) == "" {
			return "", false, errs.Newf(errs.MissingName, "Missing ADQL name!")
		}
		return unescaped, true, nil
	}

	return trimmed, false, nil
}

// isDelimited reports whether s is enclosed in matched, unescaped double
// quotes per §3: it must start and end with `"` and contain no unescaped
// `"` strictly inside (a doubled `""` is the escape for a literal quote).
func isDelimited(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	inner := s[1 : len(s)-1]
	// Walk the inner text; any lone (non-doubled) quote means the outer
	// quotes were not actually matched delimiters.
	for i := 0; i < len(inner); i++ {
		if inner[i] != '"' {
			continue
		}
		if i+1 < len(inner) && inner[i+1] == '"' {
			i++ // doubled quote, escape, skip both
			continue
		}
		return false
	}
	return true
}

// Denormalize renders name for output per §4.1: wrapped in double quotes
// with inner quotes doubled when caseSensitive, emitted verbatim otherwise.
func Denormalize(name string, caseSensitive bool) string {
	if !caseSensitive {
		return name
	}
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(name, `"`, `""`))
	b.WriteByte('"')
	return b.String()
}

// String renders the identifier the way Denormalize would for its ADQL name.
func (id *Identifier) String() string {
	return Denormalize(id.adqlName, id.caseSensitive)
}

// Matches implements the §3 matching rule: octet-exact if either side is
// case-sensitive, case-insensitive otherwise.
func Matches(a string, aCaseSensitive bool, b string, bCaseSensitive bool) bool {
	if aCaseSensitive || bCaseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// MatchesIdentifier compares two Identifiers using the §3 matching rule.
func (id *Identifier) MatchesIdentifier(other *Identifier) bool {
	return Matches(id.adqlName, id.caseSensitive, other.adqlName, other.caseSensitive)
}

// MatchesToken compares this identifier against a raw query-site token: a
// delimited token (tokenCaseSensitive=true) must match octet-exact; an
// undelimited one matches case-insensitively unless this stored identifier
// is itself case-sensitive, in which case an exact comparison against the
// stored canonical spelling is required (§4.8 case rules).
func (id *Identifier) MatchesToken(token string, tokenCaseSensitive bool) bool {
	if tokenCaseSensitive {
		return id.adqlName == token
	}
	if id.caseSensitive {
		return id.adqlName == token
	}
	return strings.EqualFold(id.adqlName, token)
}
