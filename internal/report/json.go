package report

import (
	"encoding/json"

	"adqlcore/internal/errs"
)

type jsonFormatter struct{}

type jsonCandidate struct {
	Label string `json:"label"`
}

type jsonError struct {
	Kind       string          `json:"kind"`
	Line       int             `json:"line,omitempty"`
	Col        int             `json:"col,omitempty"`
	Message    string          `json:"message"`
	Candidates []jsonCandidate `json:"candidates,omitempty"`
}

type checkPayload struct {
	Format string      `json:"format"`
	OK     bool        `json:"ok"`
	Errors []jsonError `json:"errors,omitempty"`
}

type translationPayload struct {
	Format string      `json:"format"`
	OK     bool        `json:"ok"`
	SQL    string      `json:"sql,omitempty"`
	Errors []jsonError `json:"errors,omitempty"`
}

type payload interface {
	checkPayload | translationPayload
}

func toJSONErrors(rep *errs.Report) []jsonError {
	if rep == nil || !rep.HasErrors() {
		return nil
	}
	rep.Sort()
	out := make([]jsonError, 0, len(rep.Errors))
	for _, e := range rep.Errors {
		je := jsonError{Kind: e.Kind.String(), Line: e.Pos.Line, Col: e.Pos.Col, Message: e.Msg}
		for _, c := range e.Candidates {
			je.Candidates = append(je.Candidates, jsonCandidate{Label: c.Label})
		}
		out = append(out, je)
	}
	return out
}

func (jsonFormatter) FormatCheck(rep *errs.Report) (string, error) {
	errList := toJSONErrors(rep)
	return marshalJSON(checkPayload{
		Format: string(FormatJSON),
		OK:     len(errList) == 0,
		Errors: errList,
	})
}

func (jsonFormatter) FormatTranslation(sql string, rep *errs.Report) (string, error) {
	errList := toJSONErrors(rep)
	payload := translationPayload{
		Format: string(FormatJSON),
		OK:     len(errList) == 0,
		Errors: errList,
	}
	if payload.OK {
		payload.SQL = sql
	}
	return marshalJSON(payload)
}

func marshalJSON[T payload](p T) (string, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
