package report

import (
	"fmt"
	"strings"

	"adqlcore/internal/errs"
)

type summaryFormatter struct{}

func (summaryFormatter) FormatCheck(rep *errs.Report) (string, error) {
	return summarize(rep), nil
}

func (summaryFormatter) FormatTranslation(_ string, rep *errs.Report) (string, error) {
	return summarize(rep), nil
}

// summarize counts accumulated failures by Kind (§7), one line each,
// ordered the same way errs.Kind's constants are declared.
func summarize(rep *errs.Report) string {
	if rep == nil || !rep.HasErrors() {
		return "OK: no errors\n"
	}

	counts := map[errs.Kind]int{}
	for _, e := range rep.Errors {
		counts[e.Kind]++
	}

	kinds := []errs.Kind{
		errs.MissingName, errs.Syntax, errs.UnresolvedIdentifier,
		errs.TypeMismatch, errs.DisallowedFeature, errs.InvalidMetadata, errs.Translation,
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s)\n", len(rep.Errors))
	for _, k := range kinds {
		if n := counts[k]; n > 0 {
			fmt.Fprintf(&sb, "  %-22s %d\n", k.String()+":", n)
		}
	}
	return sb.String()
}
