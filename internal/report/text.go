package report

import (
	"fmt"
	"strings"

	"adqlcore/internal/errs"
)

type textFormatter struct{}

func (textFormatter) FormatCheck(rep *errs.Report) (string, error) {
	if rep == nil || !rep.HasErrors() {
		return "OK: no errors\n", nil
	}
	return renderErrors(rep), nil
}

func (f textFormatter) FormatTranslation(sql string, rep *errs.Report) (string, error) {
	if rep != nil && rep.HasErrors() {
		return renderErrors(rep), nil
	}
	return strings.TrimRight(sql, "\n") + "\n", nil
}

func renderErrors(rep *errs.Report) string {
	rep.Sort()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n", len(rep.Errors))
	for _, e := range rep.Errors {
		sb.WriteString("  ")
		if pos := e.Pos.String(); pos != "" {
			sb.WriteString(pos)
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s: %s\n", e.Kind, e.Msg)
		for _, c := range e.Candidates {
			fmt.Fprintf(&sb, "      candidate: %s\n", c.Label)
		}
	}
	return sb.String()
}
