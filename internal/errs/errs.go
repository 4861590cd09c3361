// Package errs defines the structured failure values shared by the parser,
// checker, and translator. A plain fmt.Errorf string is enough for most of
// the teacher's schema-migration errors, but the checker (§4.8) must
// accumulate many failures and report them ordered by source position, so
// failures here carry a Kind and an optional Pos instead of being bare
// strings.
package errs

import (
	"fmt"
	"sort"
)

// Kind classifies a failure the way §7 of the spec enumerates them.
type Kind int

const (
	MissingName Kind = iota
	Syntax
	UnresolvedIdentifier
	TypeMismatch
	DisallowedFeature
	InvalidMetadata
	Translation
)

func (k Kind) String() string {
	switch k {
	case MissingName:
		return "MissingName"
	case Syntax:
		return "Syntax"
	case UnresolvedIdentifier:
		return "UnresolvedIdentifier"
	case TypeMismatch:
		return "TypeMismatch"
	case DisallowedFeature:
		return "DisallowedFeature"
	case InvalidMetadata:
		return "InvalidMetadata"
	case Translation:
		return "Translation"
	default:
		return "Unknown"
	}
}

// Pos is a 1-indexed source position. A zero value means "no position
// available" (translator failures, per §6, never carry one).
type Pos struct {
	Line int
	Col  int
}

// Valid reports whether the position was actually set.
func (p Pos) Valid() bool { return p.Line > 0 && p.Col > 0 }

func (p Pos) String() string {
	if !p.Valid() {
		return ""
	}
	return fmt.Sprintf("[l.%d c.%d]", p.Line, p.Col)
}

// Candidate is one of the alternatives considered while resolving an
// identifier, surfaced so unresolved-identifier messages can enumerate them.
type Candidate struct {
	Label string
}

// Error is the structured failure value produced by every component.
// Error() renders the "[l.L c.C] message" form required by §7.
type Error struct {
	Kind       Kind
	Pos        Pos
	Msg        string
	Candidates []Candidate
}

func (e *Error) Error() string {
	prefix := e.Pos.String()
	if prefix == "" {
		return e.Msg
	}
	return prefix + " " + e.Msg
}

// New builds a positioned error.
func New(kind Kind, pos Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Newf builds a position-less error (used by the translator, §6).
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithCandidates attaches the enumerated candidates considered for an
// unresolved-identifier failure, as required by §7.
func (e *Error) WithCandidates(cands []Candidate) *Error {
	e.Candidates = cands
	return e
}

// Report is the accumulated, position-ordered set of checker failures
// described in §4.8/§7 ("UnresolvedIdentifiersException"-shaped report).
type Report struct {
	Errors []*Error
}

// Add appends a failure to the report.
func (r *Report) Add(err *Error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err)
}

// HasErrors reports whether any failure was accumulated.
func (r *Report) HasErrors() bool { return len(r.Errors) > 0 }

// Sort orders the accumulated errors ascending by (begin_line, begin_col),
// as required by §5 "Ordering guarantees". Errors without a position sort
// last, in the order they were appended (stable sort).
func (r *Report) Sort() {
	sort.SliceStable(r.Errors, func(i, j int) bool {
		return less(r.Errors[i], r.Errors[j])
	})
}

func less(a, b *Error) bool {
	if !a.Pos.Valid() && !b.Pos.Valid() {
		return false
	}
	if !a.Pos.Valid() {
		return false
	}
	if !b.Pos.Valid() {
		return true
	}
	if a.Pos.Line != b.Pos.Line {
		return a.Pos.Line < b.Pos.Line
	}
	return a.Pos.Col < b.Pos.Col
}

// Error implements the error interface so a *Report can be returned/wrapped
// like any other Go error.
func (r *Report) Error() string {
	if len(r.Errors) == 0 {
		return "no errors"
	}
	s := fmt.Sprintf("%d error(s):", len(r.Errors))
	for _, e := range r.Errors {
		s += "\n  " + e.Error()
	}
	return s
}
