package udf

import (
	"strconv"
	"strings"

	"adqlcore/internal/errs"
)

// CheckPattern validates a translation pattern against a declared
// parameter count (§4.4). It reports the same class of failures Apply
// would hit at expansion time, so a pattern can be validated once at
// registration instead of on every call site.
func CheckPattern(pattern string, nParams int) error {
	_, err := parsePattern(pattern, nParams)
	return err
}

// ApplyPattern expands pattern for a call whose already-translated
// arguments are args (§4.4/§4.9). declaredParams is the UDF's full
// declared parameter count, which may exceed len(args): a pattern may
// reference $N for an optional trailing parameter the call site omitted,
// guarded by a "$N?{...}{...}" conditional, and such references are valid
// against declaredParams even though they expand to empty against args.
func ApplyPattern(pattern string, declaredParams int, args []string) (string, error) {
	node, err := parsePattern(pattern, declaredParams)
	if err != nil {
		return "", err
	}
	return node.expand(args), nil
}

// patNode is one node of a parsed translation pattern.
type patNode struct {
	kind     patKind
	literal  string
	argIndex int       // for kindArg / kindSplice (1-based)
	cond     *patNode  // for kindTernary
	then     *patNode
	els      *patNode
	children []*patNode // for kindSeq
}

type patKind int

const (
	patLiteral patKind = iota
	patArg
	patSplice
	patTernary
	patSeq
)

// parsePattern parses the whole pattern string into a sequence node,
// validating column-indexed syntax rules from §4.4:
//   - $N: 1 <= N, and N > nParams is forbidden unless the reference sits
//     inside a ternary's cond/then/else (the optional-argument idiom: a
//     pattern may probe for a parameter beyond nParams there, since such a
//     reference only ever fires when the ternary's own guard says the
//     argument is present)
//   - leading zeros are not an escape ($01 == $1, still validated against N)
//   - $N..: splice from N onward
//   - $$: literal $
//   - an unescaped bare $ at end of string, or followed by a non-digit
//     non-$, is an error
//   - unmatched {, }, or ? are errors
func parsePattern(pattern string, nParams int) (*patNode, error) {
	p := &patParser{src: pattern}
	node, err := p.parseSeq(false)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, errs.New(errs.Syntax, errs.Pos{Line: 1, Col: p.pos + 1}, "translation pattern: unexpected %q", string(p.src[p.pos]))
	}
	if err := validateBounds(node, nParams, false); err != nil {
		return nil, err
	}
	return node, nil
}

// validateBounds walks a parsed pattern enforcing "$N exceeds declared
// parameter count" outside of any ternary. Once inside a ternary's
// cond/then/else subtree, out-of-range references are allowed regardless
// of how deeply they are nested, since they can only ever be reached when
// the enclosing ternary's guard condition is non-empty.
func validateBounds(n *patNode, nParams int, guarded bool) error {
	switch n.kind {
	case patArg, patSplice:
		if !guarded && n.argIndex > nParams {
			return errs.Newf(errs.Syntax, "translation pattern: $%d exceeds declared parameter count %d", n.argIndex, nParams)
		}
	case patTernary:
		for _, sub := range []*patNode{n.cond, n.then, n.els} {
			if err := validateBounds(sub, nParams, true); err != nil {
				return err
			}
		}
	case patSeq:
		for _, c := range n.children {
			if err := validateBounds(c, nParams, guarded); err != nil {
				return err
			}
		}
	}
	return nil
}

type patParser struct {
	src string
	pos int
}

func (p *patParser) errAt(col int, format string, args ...any) error {
	return errs.New(errs.Syntax, errs.Pos{Line: 1, Col: col}, format, args...)
}

// parseSeq parses a run of literal/interpolation nodes until end-of-string
// or, if insideBraces, the matching closing '}'.
func (p *patParser) parseSeq(insideBraces bool) (*patNode, error) {
	var children []*patNode
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			children = append(children, &patNode{kind: patLiteral, literal: lit.String()})
			lit.Reset()
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if insideBraces && c == '}' {
			break
		}
		if c == '}' {
			return nil, p.errAt(p.pos+1, "translation pattern: unmatched \"}\"")
		}
		if c == '?' {
			return nil, p.errAt(p.pos+1, "translation pattern: unmatched \"?\"")
		}
		if c != '$' {
			lit.WriteByte(c)
			p.pos++
			continue
		}

		// '$' interpolation.
		start := p.pos
		p.pos++
		if p.pos >= len(p.src) {
			return nil, p.errAt(start+1, "translation pattern: unescaped \"$\" at end of pattern")
		}
		if p.src[p.pos] == '$' {
			lit.WriteByte('$')
			p.pos++
			continue
		}
		if !isDigit(p.src[p.pos]) {
			return nil, p.errAt(start+1, "translation pattern: \"$\" not followed by a digit or \"$\"")
		}

		digitsStart := p.pos
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		numStr := p.src[digitsStart:p.pos]
		num, _ := strconv.Atoi(numStr)

		splice := false
		if p.pos+1 < len(p.src) && p.src[p.pos] == '.' && p.src[p.pos+1] == '.' {
			splice = true
			p.pos += 2
		}

		if num == 0 {
			return nil, p.errAt(start+1, "translation pattern: $0 is forbidden")
		}

		flush()
		if splice {
			children = append(children, &patNode{kind: patSplice, argIndex: num})
		} else {
			children = append(children, &patNode{kind: patArg, argIndex: num})
		}

		// Optional ternary: "<cond-just-parsed> ? { then } { else }" — but
		// the grammar in §4.4 actually keys the ternary off of a
		// sub-pattern, not necessarily a single $N. Here the condition is
		// always the single $N interpolation immediately preceding
		// "?{...}{...}"; a "?" anywhere else is rejected above.
		if p.pos < len(p.src) && p.src[p.pos] == '?' {
			p.pos++
			if p.pos >= len(p.src) || p.src[p.pos] != '{' {
				return nil, p.errAt(p.pos, "translation pattern: expected \"{\" after \"?\"")
			}
			p.pos++
			thenNode, err := p.parseSeq(true)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != '}' {
				return nil, p.errAt(p.pos, "translation pattern: unmatched \"{\"")
			}
			p.pos++

			if p.pos >= len(p.src) || p.src[p.pos] != '{' {
				return nil, p.errAt(p.pos, "translation pattern: expected \"{\" for else branch")
			}
			p.pos++
			elseNode, err := p.parseSeq(true)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != '}' {
				return nil, p.errAt(p.pos, "translation pattern: unmatched \"{\"")
			}
			p.pos++

			cond := children[len(children)-1]
			children = children[:len(children)-1]
			children = append(children, &patNode{kind: patTernary, cond: cond, then: thenNode, els: elseNode})
		}
	}
	flush()

	if insideBraces && (p.pos >= len(p.src) || p.src[p.pos] != '}') {
		return nil, p.errAt(p.pos+1, "translation pattern: unmatched \"{\"")
	}

	return &patNode{kind: patSeq, children: children}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// expand renders the node given the already-translated call arguments.
// args may be shorter than the declared parameter count when trailing
// optional parameters were omitted at the call site; $N for an
// out-of-range N then expands to empty (used inside a "cond" branch of a
// ternary to detect absence).
func (n *patNode) expand(args []string) string {
	switch n.kind {
	case patLiteral:
		return n.literal
	case patArg:
		if n.argIndex-1 < len(args) {
			return args[n.argIndex-1]
		}
		return ""
	case patSplice:
		if n.argIndex-1 >= len(args) {
			return ""
		}
		return strings.Join(args[n.argIndex-1:], ", ")
	case patTernary:
		if n.cond.expand(args) != "" {
			return n.then.expand(args)
		}
		return n.els.expand(args)
	case patSeq:
		var b strings.Builder
		for _, c := range n.children {
			b.WriteString(c.expand(args))
		}
		return b.String()
	default:
		return ""
	}
}
