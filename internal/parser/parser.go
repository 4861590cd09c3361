// Package parser implements the ADQL 2.0/2.1 recursive-descent parser
// (§4.7/C7): it turns a token.Token stream from internal/lexer into an
// internal/ast.Query, tracking source positions throughout. Identifier
// case-sensitivity is derived at parse time from whether the token was
// DELIMITED (§4.7). The overall shape — a Parser struct holding a token
// lookahead buffer over a Lexer, one method per grammar production,
// precedence-climbing for expressions — follows this module's own
// recursive-descent idiom already established by internal/ident,
// internal/udf, and internal/stc, generalized from single-line
// mini-languages to a full statement grammar; the retrieval pack's own
// SQL parsers are built the same way (token-buffer-backed recursive
// descent, e.g. the pranadb command parser among other_examples/), which
// confirms this is the idiomatic Go shape rather than something
// borrowed from a different paradigm.
package parser

import (
	"strings"

	"adqlcore/internal/ast"
	"adqlcore/internal/errs"
	"adqlcore/internal/lexer"
	"adqlcore/internal/token"
)

// Version selects which ADQL grammar is accepted. 2.1 adds WITH and
// OFFSET (§4.7).
type Version int

const (
	Version20 Version = iota
	Version21
)

// geometryFunctions is the fixed set of ADQL geometry function names
// (§4.8 "geometry allow-list" operates over calls the parser has already
// tagged this way).
var geometryFunctions = map[string]bool{
	"POINT": true, "CIRCLE": true, "BOX": true, "POLYGON": true, "REGION": true,
	"CONTAINS": true, "INTERSECTS": true, "CENTROID": true, "COORD1": true,
	"COORD2": true, "COORDSYS": true, "DISTANCE": true, "AREA": true,
}

// Parser holds one token of lookahead over a Lexer and the grammar
// version being accepted.
type Parser struct {
	lex     *lexer.Lexer
	version Version
	cur     token.Token
}

// Parse parses src as a single ADQL query (§4.7). A syntax error aborts
// parsing of the whole statement (§7: "Parser errors abort further
// parsing of the offending statement").
func Parse(src string, version Version) (*ast.Query, error) {
	p := &Parser{lex: lexer.New(src), version: version}
	if err := p.advance(); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == token.SEMICOLON {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind != token.EOF {
		return nil, p.errHere("unexpected %q after query", p.cur.Text)
	}
	return q, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errHere(format string, args ...any) error {
	return errs.New(errs.Syntax, errs.Pos{Line: p.cur.Line, Col: p.cur.Col}, format, args...)
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		return token.Token{}, p.errHere("expected %s, got %q", k, p.cur.Text)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func posFrom(begin ast.TextPosition, end ast.TextPosition) ast.TextPosition {
	return ast.TextPosition{BeginLine: begin.BeginLine, BeginCol: begin.BeginCol, EndLine: end.EndLine, EndCol: end.EndCol}
}

func tokPos(t token.Token) ast.TextPosition {
	return ast.TextPosition{BeginLine: t.Line, BeginCol: t.Col, EndLine: t.EndLine, EndCol: t.EndCol}
}

// parseIdentifier consumes an IDENT or DELIMITED token, producing an
// ast.Identifier whose CaseSensitive flag reflects whether it was
// delimited (§4.7), decoding doubled `""` per §4.1.
func (p *Parser) parseIdentifier() (ast.Identifier, error) {
	tok := p.cur
	switch tok.Kind {
	case token.IDENT:
		if err := p.advance(); err != nil {
			return ast.Identifier{}, err
		}
		return ast.Identifier{Name: tok.Text, CaseSensitive: false, TextPosition: tokPos(tok)}, nil
	case token.DELIMITED:
		if err := p.advance(); err != nil {
			return ast.Identifier{}, err
		}
		inner := tok.Text[1 : len(tok.Text)-1]
		inner = strings.ReplaceAll(inner, `""`, `"`)
		return ast.Identifier{Name: inner, CaseSensitive: true, TextPosition: tokPos(tok)}, nil
	default:
		return ast.Identifier{}, p.errHere("expected an identifier, got %q", tok.Text)
	}
}

// parseQuery parses one SELECT statement, with its optional 2.1 WITH
// prefix and OFFSET suffix (§4.7).
func (p *Parser) parseQuery() (*ast.Query, error) {
	begin := tokPos(p.cur)

	var ctes []*ast.CTE
	if p.cur.Kind == token.WITH {
		if p.version != Version21 {
			return nil, p.errHere("WITH is only available in ADQL 2.1")
		}
		var err error
		ctes, err = p.parseWith()
		if err != nil {
			return nil, err
		}
	}

	selTok, err := p.expect(token.SELECT)
	if err != nil {
		return nil, err
	}
	if ctes == nil {
		begin = tokPos(selTok)
	}

	q := &ast.Query{With: ctes}

	if p.cur.Kind == token.DISTINCT {
		q.Distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind == token.TOP {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.expect(token.NUMBER)
		if err != nil {
			return nil, err
		}
		q.Top = parseIntLiteral(n.Text)
	}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	q.Select = items

	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	from, err := p.parseFromClause()
	if err != nil {
		return nil, err
	}
	q.From = from

	if p.cur.Kind == token.WHERE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		w, err := p.parseBooleanExpr()
		if err != nil {
			return nil, err
		}
		q.Where = w
	}

	if p.cur.Kind == token.GROUP {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		q.GroupBy = exprs
	}

	if p.cur.Kind == token.HAVING {
		if err := p.advance(); err != nil {
			return nil, err
		}
		h, err := p.parseBooleanExpr()
		if err != nil {
			return nil, err
		}
		q.Having = h
	}

	if p.cur.Kind == token.ORDER {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		items, err := p.parseOrderList()
		if err != nil {
			return nil, err
		}
		q.OrderBy = items
	}

	end := tokPos(p.cur)
	if p.cur.Kind == token.OFFSET {
		if p.version != Version21 {
			return nil, p.errHere("OFFSET is only available in ADQL 2.1")
		}
		offTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.expect(token.NUMBER)
		if err != nil {
			return nil, err
		}
		q.Offset = parseIntLiteral(n.Text)
		q.HasOffset = true
		end = tokPos(n)
		_ = offTok
	} else {
		q.Offset = -1
	}

	q.TextPosition = posFrom(begin, end)
	return q, nil
}

func parseIntLiteral(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// parseWith parses the 2.1 `WITH label AS ( query ) (, label AS ( query ))*` clause.
func (p *Parser) parseWith() ([]*ast.CTE, error) {
	if err := p.advance(); err != nil { // consume WITH
		return nil, err
	}
	var ctes []*ast.CTE
	for {
		begin := tokPos(p.cur)
		label, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AS); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		sub, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		ctes = append(ctes, &ast.CTE{Label: label, Query: sub, TextPosition: posFrom(begin, tokPos(closeTok))})
		if p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return ctes, nil
}

// parseSelectList parses the select list: "*" or a comma-separated list
// of `expr [AS alias]` / `table.*`.
func (p *Parser) parseSelectList() ([]*ast.SelectItem, error) {
	var items []*ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseSelectItem() (*ast.SelectItem, error) {
	begin := tokPos(p.cur)
	if p.cur.Kind == token.STAR {
		end := tokPos(p.cur)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.SelectItem{Star: true, TextPosition: posFrom(begin, end)}, nil
	}

	// table.* lookahead: IDENT/DELIMITED "." "*"
	if (p.cur.Kind == token.IDENT || p.cur.Kind == token.DELIMITED) {
		save := *p.lex
		saveCur := p.cur
		prefix, err := p.parseIdentifier()
		if err == nil && p.cur.Kind == token.DOT {
			dotSave := *p.lex
			dotCur := p.cur
			if err := p.advance(); err == nil && p.cur.Kind == token.STAR {
				end := tokPos(p.cur)
				if err := p.advance(); err != nil {
					return nil, err
				}
				return &ast.SelectItem{Star: true, StarPrefix: prefix.Name, TextPosition: posFrom(begin, end)}, nil
			}
			*p.lex = dotSave
			p.cur = dotCur
		}
		*p.lex = save
		p.cur = saveCur
	}

	expr, err := p.parseBooleanExpr()
	if err != nil {
		return nil, err
	}
	end := expr.Pos()
	item := &ast.SelectItem{Expr: expr, TextPosition: posFrom(begin, end)}
	if p.cur.Kind == token.AS {
		if err := p.advance(); err != nil {
			return nil, err
		}
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		item.Alias = &alias
		item.TextPosition = posFrom(begin, alias.TextPosition)
	}
	return item, nil
}

func (p *Parser) parseExprList() ([]ast.Operand, error) {
	var out []ast.Operand
	for {
		e, err := p.parseBooleanExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return out, nil
}

func (p *Parser) parseOrderList() ([]*ast.OrderItem, error) {
	var out []*ast.OrderItem
	for {
		begin := tokPos(p.cur)
		e, err := p.parseConcatExpr()
		if err != nil {
			return nil, err
		}
		item := &ast.OrderItem{Expr: e, TextPosition: posFrom(begin, e.Pos())}
		if p.cur.Kind == token.ASC || p.cur.Kind == token.DESC {
			item.Descending = p.cur.Kind == token.DESC
			end := tokPos(p.cur)
			if err := p.advance(); err != nil {
				return nil, err
			}
			item.TextPosition = posFrom(begin, end)
		}
		out = append(out, item)
		if p.cur.Kind == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return out, nil
}

// parseFromClause parses the FROM item list, left-associating bare
// commas as inner (cross) joins and explicit JOIN keywords as described
// in §4.7/§4.9.
func (p *Parser) parseFromClause() (ast.FromItem, error) {
	left, err := p.parseFromPrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.COMMA:
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseFromPrimary()
			if err != nil {
				return nil, err
			}
			left = &ast.Join{Kind: ast.JoinInner, Left: left, Right: right, TextPosition: posFrom(left.Pos(), right.Pos())}
		case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.NATURAL:
			join, err := p.parseJoinTail(left)
			if err != nil {
				return nil, err
			}
			left = join
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseJoinTail(left ast.FromItem) (ast.FromItem, error) {
	natural := false
	kind := ast.JoinInner
	if p.cur.Kind == token.NATURAL {
		natural = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	switch p.cur.Kind {
	case token.INNER:
		if err := p.advance(); err != nil {
			return nil, err
		}
	case token.LEFT:
		kind = ast.JoinLeft
		if err := p.advance(); err != nil {
			return nil, err
		}
	case token.RIGHT:
		kind = ast.JoinRight
		if err := p.advance(); err != nil {
			return nil, err
		}
	case token.FULL:
		kind = ast.JoinFull
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.JOIN); err != nil {
		return nil, err
	}
	right, err := p.parseFromPrimary()
	if err != nil {
		return nil, err
	}

	j := &ast.Join{Kind: kind, Natural: natural, Left: left, Right: right}

	if natural {
		j.TextPosition = posFrom(left.Pos(), right.Pos())
		return j, nil
	}

	switch p.cur.Kind {
	case token.ON:
		if err := p.advance(); err != nil {
			return nil, err
		}
		cond, err := p.parseBooleanExpr()
		if err != nil {
			return nil, err
		}
		j.On = cond
		j.TextPosition = posFrom(left.Pos(), cond.Pos())
	case token.USING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		var cols []ast.Identifier
		for {
			id, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			cols = append(cols, id)
			if p.cur.Kind == token.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		closeTok, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		j.Using = cols
		j.TextPosition = posFrom(left.Pos(), tokPos(closeTok))
	default:
		return nil, p.errHere("expected ON or USING after JOIN, got %q", p.cur.Text)
	}
	return j, nil
}

func (p *Parser) parseFromPrimary() (ast.FromItem, error) {
	begin := tokPos(p.cur)
	if p.cur.Kind == token.LPAREN {
		if err := p.advance(); err != nil {
			return nil, err
		}
		sub, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AS); err != nil {
			return nil, err
		}
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return &ast.Subquery{Query: sub, Alias: alias, TextPosition: posFrom(begin, alias.TextPosition)}, nil
	}

	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	ref := &ast.TableRef{Table: first}
	if p.cur.Kind == token.DOT {
		if err := p.advance(); err != nil {
			return nil, err
		}
		second, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		ref.Schema = &first
		ref.Table = second
	}
	end := ref.Table.TextPosition
	if p.cur.Kind == token.AS {
		if err := p.advance(); err != nil {
			return nil, err
		}
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		ref.Alias = &alias
		end = alias.TextPosition
	} else if p.cur.Kind == token.IDENT || p.cur.Kind == token.DELIMITED {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		ref.Alias = &alias
		end = alias.TextPosition
	}
	ref.TextPosition = posFrom(begin, end)
	return ref, nil
}

// parseBooleanExpr parses OR, the lowest-precedence operator.
func (p *Parser) parseBooleanExpr() (ast.Operand, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.OR {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Op: "OR", Left: left, Right: right, TextPosition: posFrom(left.Pos(), right.Pos())}
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (ast.Operand, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.AND {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Op: "AND", Left: left, Right: right, TextPosition: posFrom(left.Pos(), right.Pos())}
	}
	return left, nil
}

func (p *Parser) parseNotExpr() (ast.Operand, error) {
	if p.cur.Kind == token.NOT {
		begin := tokPos(p.cur)
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Logical{Op: "NOT", Left: inner, TextPosition: posFrom(begin, inner.Pos())}, nil
	}
	return p.parsePredicate()
}

// parsePredicate parses a concat-level operand, then an optional
// comparison/IS NULL/BETWEEN/IN/LIKE suffix (§4.8 type-inference
// operators are built on top of these node kinds).
func (p *Parser) parsePredicate() (ast.Operand, error) {
	left, err := p.parseConcatExpr()
	if err != nil {
		return nil, err
	}

	switch p.cur.Kind {
	case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseConcatExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{Op: op, Left: left, Right: right, TextPosition: posFrom(left.Pos(), right.Pos())}, nil

	case token.IS:
		if err := p.advance(); err != nil {
			return nil, err
		}
		negated := false
		if p.cur.Kind == token.NOT {
			negated = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		nullTok, err := p.expect(token.NULL)
		if err != nil {
			return nil, err
		}
		return &ast.Predicate{Kind: "IS_NULL", Negated: negated, Expr: left, TextPosition: posFrom(left.Pos(), tokPos(nullTok))}, nil

	case token.NOT:
		save := *p.lex
		saveCur := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.cur.Kind {
		case token.BETWEEN, token.IN, token.LIKE:
			return p.parsePredicateTail(left, true)
		default:
			*p.lex = save
			p.cur = saveCur
			return left, nil
		}

	case token.BETWEEN, token.IN, token.LIKE:
		return p.parsePredicateTail(left, false)
	}

	return left, nil
}

func (p *Parser) parsePredicateTail(left ast.Operand, negated bool) (ast.Operand, error) {
	switch p.cur.Kind {
	case token.BETWEEN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		low, err := p.parseConcatExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AND); err != nil {
			return nil, err
		}
		high, err := p.parseConcatExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Predicate{Kind: "BETWEEN", Negated: negated, Expr: left, Low: low, High: high, TextPosition: posFrom(left.Pos(), high.Pos())}, nil

	case token.IN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.Predicate{Kind: "IN", Negated: negated, Expr: left, List: list, TextPosition: posFrom(left.Pos(), tokPos(closeTok))}, nil

	case token.LIKE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		pattern, err := p.parseConcatExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Predicate{Kind: "LIKE", Negated: negated, Expr: left, Pattern: pattern, TextPosition: posFrom(left.Pos(), pattern.Pos())}, nil
	}
	return nil, p.errHere("expected BETWEEN, IN, or LIKE, got %q", p.cur.Text)
}

// parseConcatExpr parses the `||` concatenation operator, flattening
// a chain of concatenations into a single n-ary Concat node.
func (p *Parser) parseConcatExpr() (ast.Operand, error) {
	first, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.CONCAT {
		return first, nil
	}
	args := []ast.Operand{first}
	for p.cur.Kind == token.CONCAT {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		args = append(args, next)
	}
	return &ast.Concat{Args: args, TextPosition: posFrom(args[0].Pos(), args[len(args)-1].Pos())}, nil
}

func (p *Parser) parseAdditive() (ast.Operand, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.ArithOp{Op: op, Left: left, Right: right, TextPosition: posFrom(left.Pos(), right.Pos())}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Operand, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.STAR || p.cur.Kind == token.SLASH {
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.ArithOp{Op: op, Left: left, Right: right, TextPosition: posFrom(left.Pos(), right.Pos())}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Operand, error) {
	if p.cur.Kind == token.MINUS || p.cur.Kind == token.PLUS {
		op := p.cur.Text
		begin := tokPos(p.cur)
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			return inner, nil
		}
		return &ast.ArithOp{Op: "-", Left: &ast.NumericConstant{Text: "0", TextPosition: begin}, Right: inner, TextPosition: posFrom(begin, inner.Pos())}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Operand, error) {
	begin := tokPos(p.cur)
	switch p.cur.Kind {
	case token.NUMBER:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NumericConstant{Text: tok.Text, TextPosition: tokPos(tok)}, nil

	case token.STRING:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner := tok.Text[1 : len(tok.Text)-1]
		inner = strings.ReplaceAll(inner, `''`, `'`)
		return &ast.StringConstant{Value: inner, TextPosition: tokPos(tok)}, nil

	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseBooleanExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		switch v := inner.(type) {
		case *ast.ArithOp:
			v.TextPosition = posFrom(begin, tokPos(closeTok))
		case *ast.ColumnRef:
			v.TextPosition = posFrom(begin, tokPos(closeTok))
		}
		return inner, nil

	case token.IDENT, token.DELIMITED:
		return p.parseIdentOrCall(begin)

	default:
		return nil, p.errHere("unexpected token %q in expression", p.cur.Text)
	}
}

// parseIdentOrCall parses a column reference (optionally table-qualified)
// or a function call, disambiguating on whether "(" follows the name.
func (p *Parser) parseIdentOrCall(begin ast.TextPosition) (ast.Operand, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == token.LPAREN {
		return p.parseCallArgs(first, begin)
	}

	if p.cur.Kind == token.DOT {
		if err := p.advance(); err != nil {
			return nil, err
		}
		second, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return &ast.ColumnRef{TablePrefix: &first, Name: second, TextPosition: posFrom(begin, second.TextPosition)}, nil
	}

	return &ast.ColumnRef{Name: first, TextPosition: posFrom(begin, first.TextPosition)}, nil
}

func (p *Parser) parseCallArgs(name ast.Identifier, begin ast.TextPosition) (ast.Operand, error) {
	if err := p.advance(); err != nil { // consume "("
		return nil, err
	}
	var args []ast.Operand
	if p.cur.Kind != token.RPAREN {
		var err error
		args, err = p.parseExprList()
		if err != nil {
			return nil, err
		}
	}
	closeTok, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	upper := strings.ToUpper(name.Name)
	return &ast.FunctionCall{
		Name:       name,
		Args:       args,
		IsGeometry: geometryFunctions[upper],
		TextPosition: posFrom(begin, tokPos(closeTok)),
	}, nil
}
