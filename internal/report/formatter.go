// Package report formats the outcomes of cmd/adqlctl's check and
// translate operations for human or machine consumption. It follows the
// teacher's internal/output package: a Format enum, a Formatter
// interface, and a NewFormatter factory switching on a lowercased/trimmed
// format name (internal/output/formatter.go), generalized from "schema
// diff/migration" to "check report/translation result".
package report

import (
	"fmt"
	"strings"

	"adqlcore/internal/errs"
)

// Format is an enum of the output formats cmd/adqlctl supports.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders a check report or a translation result.
type Formatter interface {
	FormatCheck(rep *errs.Report) (string, error)
	FormatTranslation(sql string, rep *errs.Report) (string, error)
}

// NewFormatter builds the Formatter named by name. An empty name defaults
// to text.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatText:
		return textFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("report: unsupported format %q; use 'text', 'json', or 'summary'", name)
	}
}
