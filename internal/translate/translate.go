// Package translate implements the dialect-aware SQL translator (§4.9/C9):
// given a query already resolved by internal/check (every ColumnRef,
// TableRef, Join, and FunctionCall carries its Resolved link) and a target
// internal/dialect.Dialect, it walks the AST once and renders dialect SQL.
// Unlike the checker, which accumulates every violation before reporting
// (§7), the translator fails fast on the first problem it hits — "one
// construct suffices" per §7 — and the error it returns carries no source
// position, since by this stage the AST has already passed semantic
// checking and any failure here is a translation-target limitation, not a
// user query mistake.
//
// The teacher has no analogous "render one tree to dialect-specific text"
// stage (its Generator produces DDL from a diff, not from a parsed
// statement), so this package's visitor shape follows the pack's other SQL
// ASTs instead, e.g. other_examples/pranadb's recursive "stringify AST
// node, recurse into children" pattern, adapted from its Go sqlparser-style
// tree to this module's own ast package.
package translate

import (
	"fmt"
	"strings"

	"adqlcore/internal/ast"
	"adqlcore/internal/check"
	"adqlcore/internal/dialect"
	"adqlcore/internal/errs"
	"adqlcore/internal/metadata"
	"adqlcore/internal/udf"
)

// Translator renders a checked query as dialect SQL.
type Translator struct {
	dialect  dialect.Dialect
	registry *udf.Registry
}

// New builds a Translator targeting d, resolving UDF translation patterns
// (§4.4 `ApplyPattern`) against reg.
func New(d dialect.Dialect, reg *udf.Registry) *Translator {
	return &Translator{dialect: d, registry: reg}
}

// Translate renders q as a single dialect SQL statement. q must already
// have been returned by check.Checker.Check with no error.
func (t *Translator) Translate(q *ast.Query) (string, error) {
	return t.query(q)
}

func (t *Translator) query(q *ast.Query) (string, error) {
	var b strings.Builder

	if len(q.With) > 0 {
		b.WriteString("WITH ")
		for i, cte := range q.With {
			if i > 0 {
				b.WriteString(", ")
			}
			sub, err := t.query(cte.Query)
			if err != nil {
				return "", err
			}
			b.WriteString(t.dialect.Quote(cte.Label.Name, cte.Label.CaseSensitive))
			if t.dialect.RequiresCTEColumnList() {
				cols, err := cteColumnList(cte.Query)
				if err != nil {
					return "", err
				}
				b.WriteString(" (")
				b.WriteString(cols)
				b.WriteString(")")
			}
			b.WriteString(" AS (")
			b.WriteString(sub)
			b.WriteString(")")
		}
		b.WriteString(" ")
	}

	// §4.9 "optimise away OFFSET 0": an explicit OFFSET 0 is treated as no
	// OFFSET at all everywhere a dialect hook asks whether one is present.
	hasOffset := q.HasOffset && q.Offset != 0

	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	if q.Top > 0 {
		b.WriteString(t.dialect.SelectTopPrefix(q.Top, hasOffset))
	}

	selectList, err := t.selectList(q.Select)
	if err != nil {
		return "", err
	}
	b.WriteString(selectList)

	if q.From != nil {
		fromSQL, err := t.fromItem(q.From)
		if err != nil {
			return "", err
		}
		b.WriteString(" FROM ")
		b.WriteString(fromSQL)
	}

	if q.Where != nil {
		whereSQL, err := t.operand(q.Where)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(whereSQL)
	}

	if len(q.GroupBy) > 0 {
		parts := make([]string, len(q.GroupBy))
		for i, g := range q.GroupBy {
			s, err := t.operand(g)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if q.Having != nil {
		havingSQL, err := t.operand(q.Having)
		if err != nil {
			return "", err
		}
		b.WriteString(" HAVING ")
		b.WriteString(havingSQL)
	}

	orderBy := q.OrderBy
	if len(orderBy) == 0 && hasOffset && t.dialect.NeedsSyntheticOrderBy(hasOffset, topOrAbsent(q)) {
		b.WriteString(" ORDER BY 1 ASC")
	} else if len(orderBy) > 0 {
		parts := make([]string, len(orderBy))
		for i, o := range orderBy {
			s, err := t.operand(o.Expr)
			if err != nil {
				return "", err
			}
			if o.Descending {
				s += " DESC"
			} else {
				s += " ASC"
			}
			parts[i] = s
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if trailing := t.dialect.TrailingLimit(topOrAbsent(q), hasOffset, q.Offset); trailing != "" {
		b.WriteString(" ")
		b.WriteString(trailing)
	}

	return b.String(), nil
}

// topOrAbsent converts the AST's 0-means-absent TOP encoding to the
// dialect hooks' -1-means-absent convention.
func topOrAbsent(q *ast.Query) int {
	if q.Top <= 0 {
		return -1
	}
	return q.Top
}

func (t *Translator) selectList(items []*ast.SelectItem) (string, error) {
	parts := make([]string, len(items))
	for i, item := range items {
		if item.Star {
			if item.StarPrefix != "" {
				parts[i] = t.dialect.Quote(item.StarPrefix, false) + ".*"
			} else {
				parts[i] = "*"
			}
			continue
		}
		expr, err := t.operand(item.Expr)
		if err != nil {
			return "", err
		}
		if item.Alias != nil {
			expr += " AS " + t.dialect.Quote(item.Alias.Name, item.Alias.CaseSensitive)
		}
		parts[i] = expr
	}
	return strings.Join(parts, ", "), nil
}

func (t *Translator) fromItem(item ast.FromItem) (string, error) {
	switch v := item.(type) {
	case *ast.TableRef:
		return t.tableRef(v)
	case *ast.Subquery:
		sub, err := t.query(v.Query)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s) AS %s", sub, t.dialect.Quote(v.Alias.Name, v.Alias.CaseSensitive)), nil
	case *ast.Join:
		return t.join(v)
	}
	return "", errs.Newf(errs.Translation, "unsupported FROM item %T", item)
}

func (t *Translator) tableRef(ref *ast.TableRef) (string, error) {
	alias := ref.Table
	hasAlias := ref.Alias != nil
	if hasAlias {
		alias = *ref.Alias
	}

	var name string
	switch resolved := ref.Resolved.(type) {
	case *metadata.Table:
		var schema string
		if resolved.Schema != nil && resolved.Schema.Identifier != nil {
			schema = t.dialect.Quote(resolved.Schema.Identifier.DBName(), resolved.Schema.Identifier.CaseSensitive()) + "."
		}
		name = schema + t.dialect.Quote(resolved.Identifier.DBName(), resolved.Identifier.CaseSensitive())
	case *check.CTEBinding:
		name = t.dialect.Quote(resolved.Label.Name, resolved.Label.CaseSensitive)
	default:
		return "", errs.Newf(errs.Translation, "table reference %q was never resolved by the checker", ref.Table.Name)
	}

	if hasAlias {
		return name + " AS " + t.dialect.Quote(alias.Name, alias.CaseSensitive), nil
	}
	return name, nil
}

func (t *Translator) join(j *ast.Join) (string, error) {
	left, err := t.fromItem(j.Left)
	if err != nil {
		return "", err
	}
	right, err := t.fromItem(j.Right)
	if err != nil {
		return "", err
	}

	kw := joinKeyword(j.Kind)

	if j.Natural || len(j.Using) > 0 {
		info, ok := j.Resolved.(*check.JoinInfo)
		if !ok {
			return "", errs.Newf(errs.Translation, "join was never resolved by the checker")
		}
		if t.dialect.SupportsJoinUsing() {
			cols := make([]string, len(info.Usual))
			for i, c := range info.Usual {
				cols[i] = t.dialect.Quote(c.Name, c.NameCaseSensitive)
			}
			return fmt.Sprintf("%s %s %s USING (%s)", left, kw, right, strings.Join(cols, ", ")), nil
		}

		leftAlias, err := fromItemAlias(j.Left)
		if err != nil {
			return "", err
		}
		rightAlias, err := fromItemAlias(j.Right)
		if err != nil {
			return "", err
		}
		conds := make([]string, len(info.Usual))
		for i, c := range info.Usual {
			col := t.dialect.Quote(c.Name, c.NameCaseSensitive)
			conds[i] = fmt.Sprintf("%s.%s = %s.%s",
				t.dialect.Quote(leftAlias.Name, leftAlias.CaseSensitive), col,
				t.dialect.Quote(rightAlias.Name, rightAlias.CaseSensitive), col)
		}
		return fmt.Sprintf("%s %s %s ON %s", left, kw, right, strings.Join(conds, " AND ")), nil
	}

	if j.On != nil {
		on, err := t.operand(j.On)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s ON %s", left, kw, right, on), nil
	}

	return fmt.Sprintf("%s %s %s", left, kw, right), nil
}

func joinKeyword(k ast.JoinKind) string {
	switch k {
	case ast.JoinLeft:
		return "LEFT JOIN"
	case ast.JoinRight:
		return "RIGHT JOIN"
	case ast.JoinFull:
		return "FULL JOIN"
	default:
		return "JOIN"
	}
}

// fromItemAlias returns the identifier an ON-rewrite should qualify
// columns with: a table's own alias (or name, if unaliased) or a
// subquery's mandatory alias. Nested joins have no single alias to
// qualify against and are rejected (§9: ADQL constrains NATURAL JOIN/
// USING to simple two-relation joins, so this should not occur for a
// query that passed the checker).
func fromItemAlias(item ast.FromItem) (ast.Identifier, error) {
	switch v := item.(type) {
	case *ast.TableRef:
		if v.Alias != nil {
			return *v.Alias, nil
		}
		return v.Table, nil
	case *ast.Subquery:
		return v.Alias, nil
	default:
		return ast.Identifier{}, errs.Newf(errs.Translation, "cannot rewrite NATURAL/USING join: %T has no single alias", item)
	}
}

// cteColumnList renders the output column names of a CTE body for
// dialects that require an explicit WITH column list.
func cteColumnList(q *ast.Query) (string, error) {
	names := make([]string, 0, len(q.Select))
	for _, item := range q.Select {
		if item.Star {
			return "", errs.Newf(errs.Translation, "cannot enumerate CTE columns through SELECT *")
		}
		if item.Alias != nil {
			names = append(names, item.Alias.Name)
			continue
		}
		if col, ok := item.Expr.(*ast.ColumnRef); ok {
			names = append(names, col.Name.Name)
			continue
		}
		return "", errs.Newf(errs.Translation, "CTE column requires an alias for this dialect")
	}
	return strings.Join(names, ", "), nil
}

func (t *Translator) operand(op ast.Operand) (string, error) {
	switch v := op.(type) {
	case *ast.ColumnRef:
		return t.columnRef(v)
	case *ast.NumericConstant:
		return v.Text, nil
	case *ast.StringConstant:
		return t.dialect.QuoteString(v.Value), nil
	case *ast.ArithOp:
		left, err := t.operand(v.Left)
		if err != nil {
			return "", err
		}
		right, err := t.operand(v.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, v.Op, right), nil
	case *ast.Concat:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			s, err := t.operand(a)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return t.dialect.Concat(args), nil
	case *ast.FunctionCall:
		return t.functionCall(v)
	case *ast.Comparison:
		left, err := t.operand(v.Left)
		if err != nil {
			return "", err
		}
		right, err := t.operand(v.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, v.Op, right), nil
	case *ast.Logical:
		left, err := t.operand(v.Left)
		if err != nil {
			return "", err
		}
		if v.Op == "NOT" {
			return fmt.Sprintf("(NOT %s)", left), nil
		}
		right, err := t.operand(v.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, v.Op, right), nil
	case *ast.Predicate:
		return t.predicate(v)
	}
	return "", errs.Newf(errs.Translation, "unsupported operand %T", op)
}

func (t *Translator) predicate(v *ast.Predicate) (string, error) {
	expr, err := t.operand(v.Expr)
	if err != nil {
		return "", err
	}
	not := ""
	if v.Negated {
		not = "NOT "
	}
	switch v.Kind {
	case "IS_NULL":
		if v.Negated {
			return fmt.Sprintf("(%s IS NOT NULL)", expr), nil
		}
		return fmt.Sprintf("(%s IS NULL)", expr), nil
	case "BETWEEN":
		low, err := t.operand(v.Low)
		if err != nil {
			return "", err
		}
		high, err := t.operand(v.High)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %sBETWEEN %s AND %s)", expr, not, low, high), nil
	case "IN":
		items := make([]string, len(v.List))
		for i, it := range v.List {
			s, err := t.operand(it)
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return fmt.Sprintf("(%s %sIN (%s))", expr, not, strings.Join(items, ", ")), nil
	case "LIKE":
		pattern, err := t.operand(v.Pattern)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %sLIKE %s)", expr, not, pattern), nil
	}
	return "", errs.Newf(errs.Translation, "unsupported predicate kind %q", v.Kind)
}

func (t *Translator) columnRef(ref *ast.ColumnRef) (string, error) {
	name := ref.Name.Name
	caseSensitive := ref.Name.CaseSensitive
	if col, ok := ref.Resolved.(*metadata.Column); ok && col != nil {
		name = col.Identifier.DBName()
		caseSensitive = col.Identifier.CaseSensitive()
	}
	quoted := t.dialect.Quote(name, caseSensitive)
	if ref.TablePrefix != nil {
		return t.dialect.Quote(ref.TablePrefix.Name, ref.TablePrefix.CaseSensitive) + "." + quoted, nil
	}
	return quoted, nil
}

func (t *Translator) functionCall(fn *ast.FunctionCall) (string, error) {
	args := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		s, err := t.operand(a)
		if err != nil {
			return "", err
		}
		args[i] = s
	}

	if fn.IsGeometry {
		if sql, ok := t.dialect.GeometryFn(fn.Name.Name, args); ok {
			return sql, nil
		}
		return fmt.Sprintf("%s(%s)", strings.ToUpper(fn.Name.Name), strings.Join(args, ", ")), nil
	}

	if def, ok := fn.Resolved.(*udf.FunctionDef); ok && def != nil {
		if def.Pattern != "" {
			sql, err := udf.ApplyPattern(def.Pattern, len(def.Params), args)
			if err != nil {
				return "", errs.Newf(errs.Translation, "applying translation pattern for %q: %v", fn.Name.Name, err)
			}
			return sql, nil
		}
		if def.Translator != nil {
			if sql, ok := def.Translator(def, args); ok {
				return sql, nil
			}
		}
		return fmt.Sprintf("%s(%s)", fn.Name.Name, strings.Join(args, ", ")), nil
	}

	if sql, ok := t.dialect.MathFn(fn.Name.Name, args); ok {
		return sql, nil
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(fn.Name.Name), strings.Join(args, ", ")), nil
}
