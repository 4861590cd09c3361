// Package check implements the ADQL semantic checker (§4.8/C8): it walks
// a parsed internal/ast.Query depth-first with a stack of name-resolution
// scopes (outer query, subqueries, CTE bodies), resolving table and column
// references against an internal/metadata.Catalog, resolving function
// calls against the ADQL built-in set, the geometry allow-list, and the
// internal/udf registry, and inferring operand types. Every violation is
// accumulated into an internal/errs.Report rather than aborting the walk,
// per §7 ("Checker errors are accumulated... every violation is collected
// before reporting").
//
// The teacher has no query checker (it validates a static schema graph,
// internal/core/validation.go, not a parsed statement against one), so
// this package's shape is this module's own: a single Checker struct
// holding the catalog, configuration, and accumulating errs.Report,
// mirroring the accumulate-then-report discipline already used by
// internal/tableset and the teacher's own validate-then-collect pattern,
// generalized here from a metadata graph to an AST walk.
package check

import (
	"fmt"
	"strings"

	"adqlcore/internal/ast"
	"adqlcore/internal/errs"
	"adqlcore/internal/ident"
	"adqlcore/internal/metadata"
	"adqlcore/internal/stc"
	"adqlcore/internal/types"
	"adqlcore/internal/udf"
)

// UDFMode selects how calls to undeclared function names are handled
// (§4.8 "UDF resolution").
type UDFMode int

const (
	// DeclaredOnly fails any call whose name/arity/kinds has no matching
	// registered UDF.
	DeclaredOnly UDFMode = iota
	// AllowAny binds a call whose name has no UDF declared at all to a
	// default UDF with UNKNOWN return; a name with some UDFs declared
	// but no matching overload still fails.
	AllowAny
)

// Config configures one checking run.
type Config struct {
	Registry          *udf.Registry
	UDFMode           UDFMode
	GeometryAllowList map[string]bool // nil = all geometry functions allowed; empty = none
	CoosysAllowList   []string        // STC-S coordinate-system patterns; empty = all allowed
}

// ResolvedColumn is one column visible within a FROM scope after
// resolution: either a base-table metadata column or a derived column
// produced by a subquery/CTE's own SELECT list (§4.8 "visible columns...
// from base tables, CTE output columns, and subquery output columns").
type ResolvedColumn struct {
	TableAlias              string
	TableAliasCaseSensitive bool
	Name                    string
	NameCaseSensitive       bool
	Type                    types.DataType
	Source                  *metadata.Column // nil for a derived/expression column
}

// CTEBinding records one WITH-clause entry's exposed output columns under
// its label, consulted when a later FROM item or sibling CTE references it
// (§4.8 "If a CTE with label N is in the active WITH scope, bind to it").
type CTEBinding struct {
	Label   ast.Identifier
	Columns []ResolvedColumn
}

// JoinInfo is stashed on ast.Join.Resolved after checking: the usual
// columns computed for a NATURAL JOIN or JOIN USING (§4.8), which §4.9
// emits unqualified and joined via an equality predicate per side.
type JoinInfo struct {
	Usual []ResolvedColumn
}

// Checker runs one checking pass over one query. Not safe for concurrent
// use (§5: "checker instances are not thread-safe and must be per-query").
type Checker struct {
	catalog *metadata.Catalog
	cfg     Config
	report  errs.Report
}

// New creates a Checker bound to catalog and cfg.
func New(catalog *metadata.Catalog, cfg Config) *Checker {
	return &Checker{catalog: catalog, cfg: cfg}
}

// scopeInfo is the set of columns visible to operand resolution within one
// FROM scope.
type scopeInfo struct {
	columns []ResolvedColumn
}

// Check runs the full depth-first resolution/inference pass over q and
// returns the (mutated in place) query. If any violation was recorded, the
// returned error is the aggregated, position-ordered *errs.Report;
// otherwise nil (§4.8 "terminal state done emits either a fully linked AST
// or the aggregated failure report").
func (c *Checker) Check(q *ast.Query) (*ast.Query, error) {
	c.checkQuery(q, nil)
	c.report.Sort()
	if c.report.HasErrors() {
		rpt := c.report
		return q, &rpt
	}
	return q, nil
}

// checkQuery checks one SELECT (top-level or nested) and returns the
// columns it exposes to an enclosing FROM item (subquery output / CTE
// output columns).
func (c *Checker) checkQuery(q *ast.Query, outerCTEs []CTEBinding) []ResolvedColumn {
	cteBindings := append([]CTEBinding{}, outerCTEs...)
	for _, cte := range q.With {
		cols := c.checkQuery(cte.Query, cteBindings)
		cteBindings = append(cteBindings, CTEBinding{Label: cte.Label, Columns: cols})
	}

	var fromCols []ResolvedColumn
	if q.From != nil {
		fromCols = c.resolveFromItem(q.From, cteBindings)
	}
	scope := &scopeInfo{columns: fromCols}

	outCols := make([]ResolvedColumn, 0, len(q.Select))
	for _, item := range q.Select {
		if item.Star {
			outCols = append(outCols, c.expandStar(fromCols, item.StarPrefix)...)
			continue
		}
		dt := c.checkOperand(scope, item.Expr)
		name, caseSensitive := "", false
		var src *metadata.Column
		if item.Alias != nil {
			name, caseSensitive = item.Alias.Name, item.Alias.CaseSensitive
		} else if ref, ok := item.Expr.(*ast.ColumnRef); ok {
			name, caseSensitive = ref.Name.Name, ref.Name.CaseSensitive
		}
		if ref, ok := item.Expr.(*ast.ColumnRef); ok {
			if rc, ok2 := ref.Resolved.(*metadata.Column); ok2 {
				src = rc
			}
		}
		outCols = append(outCols, ResolvedColumn{Name: name, NameCaseSensitive: caseSensitive, Type: dt, Source: src})
	}

	if q.Where != nil {
		c.checkOperand(scope, q.Where)
	}
	for _, g := range q.GroupBy {
		c.checkOperand(scope, g)
	}
	if q.Having != nil {
		c.checkOperand(scope, q.Having)
	}
	for _, o := range q.OrderBy {
		c.checkOperand(scope, o.Expr)
	}

	return outCols
}

func (c *Checker) expandStar(fromCols []ResolvedColumn, prefix string) []ResolvedColumn {
	var out []ResolvedColumn
	for _, col := range fromCols {
		if prefix != "" {
			if col.TableAlias == "" || !ident.Matches(col.TableAlias, col.TableAliasCaseSensitive, prefix, false) {
				continue
			}
		}
		out = append(out, ResolvedColumn{Name: col.Name, NameCaseSensitive: col.NameCaseSensitive, Type: col.Type, Source: col.Source})
	}
	return out
}

// resolveFromItem resolves one FROM-clause item to its exposed columns.
func (c *Checker) resolveFromItem(item ast.FromItem, cteBindings []CTEBinding) []ResolvedColumn {
	switch v := item.(type) {
	case *ast.TableRef:
		return c.resolveTableRef(v, cteBindings)
	case *ast.Subquery:
		cols := c.checkQuery(v.Query, cteBindings)
		out := make([]ResolvedColumn, len(cols))
		for i, col := range cols {
			out[i] = col
			out[i].TableAlias = v.Alias.Name
			out[i].TableAliasCaseSensitive = v.Alias.CaseSensitive
		}
		return out
	case *ast.Join:
		return c.resolveJoin(v, cteBindings)
	}
	return nil
}

func pos(n ast.Node) errs.Pos {
	tp := n.Pos()
	return errs.Pos{Line: tp.BeginLine, Col: tp.BeginCol}
}

func (c *Checker) resolveTableRef(ref *ast.TableRef, cteBindings []CTEBinding) []ResolvedColumn {
	alias := ref.Table
	if ref.Alias != nil {
		alias = *ref.Alias
	}

	if ref.Schema == nil {
		for i := len(cteBindings) - 1; i >= 0; i-- {
			b := cteBindings[i]
			if ident.Matches(b.Label.Name, b.Label.CaseSensitive, ref.Table.Name, ref.Table.CaseSensitive) {
				ref.Resolved = &b
				out := make([]ResolvedColumn, len(b.Columns))
				for i, col := range b.Columns {
					out[i] = col
					out[i].TableAlias = alias.Name
					out[i].TableAliasCaseSensitive = alias.CaseSensitive
				}
				return out
			}
		}
	}

	table, err := c.resolveTable(ref)
	if err != nil {
		c.report.Add(err.(*errs.Error))
		return nil
	}
	ref.Resolved = table

	cols := make([]ResolvedColumn, 0, len(table.Columns()))
	for _, col := range table.Columns() {
		cols = append(cols, ResolvedColumn{
			TableAlias:              alias.Name,
			TableAliasCaseSensitive: alias.CaseSensitive,
			Name:                    col.Identifier.ADQLName(),
			NameCaseSensitive:       col.Identifier.CaseSensitive(),
			Type:                    *col.Datatype,
			Source:                  col,
		})
	}
	return cols
}

// resolveTable implements §4.8's "Table resolution" bullet: schema-
// qualified names require an exact schema then table match; unqualified
// names search every schema and fail as ambiguous if more than one table
// matches.
func (c *Checker) resolveTable(ref *ast.TableRef) (*metadata.Table, error) {
	if ref.Schema != nil {
		schema := c.catalog.FindSchema(ref.Schema.Name, ref.Schema.CaseSensitive)
		if schema == nil {
			return nil, errs.New(errs.UnresolvedIdentifier, pos(ref.Schema), "Unresolved table: %q", ref.Schema.Name+"."+ref.Table.Name)
		}
		for _, t := range schema.Tables {
			if t.Identifier.MatchesToken(ref.Table.Name, ref.Table.CaseSensitive) {
				return t, nil
			}
		}
		return nil, errs.New(errs.UnresolvedIdentifier, pos(&ref.Table), "Unresolved table: %q", ref.Schema.Name+"."+ref.Table.Name)
	}

	var matches []*metadata.Table
	for _, s := range c.catalog.Schemas {
		for _, t := range s.Tables {
			if t.Identifier.MatchesToken(ref.Table.Name, ref.Table.CaseSensitive) {
				matches = append(matches, t)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, errs.New(errs.UnresolvedIdentifier, pos(&ref.Table), "Unresolved table: %q", ref.Table.Name)
	case 1:
		return matches[0], nil
	default:
		var cands []errs.Candidate
		for _, t := range matches {
			cands = append(cands, errs.Candidate{Label: t.Schema.Identifier.ADQLName() + "." + t.Identifier.ADQLName()})
		}
		return nil, errs.New(errs.UnresolvedIdentifier, pos(&ref.Table), "Unresolved table: %q", ref.Table.Name).WithCandidates(cands)
	}
}

func (c *Checker) resolveJoin(j *ast.Join, cteBindings []CTEBinding) []ResolvedColumn {
	left := c.resolveFromItem(j.Left, cteBindings)
	right := c.resolveFromItem(j.Right, cteBindings)

	if j.Natural {
		usual, leftRemain, rightRemain := c.computeNaturalUsual(left, right, j)
		j.Resolved = &JoinInfo{Usual: usual}
		return concatCols(usual, leftRemain, rightRemain)
	}

	if len(j.Using) > 0 {
		usual, leftRemain, rightRemain := c.computeUsingUsual(left, right, j.Using, j)
		j.Resolved = &JoinInfo{Usual: usual}
		return concatCols(usual, leftRemain, rightRemain)
	}

	if j.On != nil {
		scope := &scopeInfo{columns: concatCols(left, right)}
		c.checkOperand(scope, j.On)
	}
	return concatCols(left, right)
}

func concatCols(groups ...[]ResolvedColumn) []ResolvedColumn {
	var out []ResolvedColumn
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// computeNaturalUsual implements the NATURAL JOIN half of §4.8's "common-
// column set" rule, taking the left side deterministically on ambiguous
// duplicate matches and reporting the duplicate as a checker error, per
// §9's resolution of that open question.
func (c *Checker) computeNaturalUsual(left, right []ResolvedColumn, j *ast.Join) (usual, leftRemain, rightRemain []ResolvedColumn) {
	usedRight := make([]bool, len(right))
	for _, lc := range left {
		matchIdx, dupCount := -1, 0
		for ri, rc := range right {
			if usedRight[ri] {
				continue
			}
			if ident.Matches(lc.Name, lc.NameCaseSensitive, rc.Name, rc.NameCaseSensitive) {
				dupCount++
				if matchIdx == -1 {
					matchIdx = ri
				}
			}
		}
		if dupCount > 1 {
			c.report.Add(errs.New(errs.UnresolvedIdentifier, pos(j), "Unresolved column: ambiguous common column %q in NATURAL JOIN", lc.Name))
		}
		if matchIdx >= 0 {
			usedRight[matchIdx] = true
			usual = append(usual, ResolvedColumn{Name: lc.Name, NameCaseSensitive: lc.NameCaseSensitive, Type: lc.Type, Source: lc.Source})
		} else {
			leftRemain = append(leftRemain, lc)
		}
	}
	for ri, rc := range right {
		if !usedRight[ri] {
			rightRemain = append(rightRemain, rc)
		}
	}
	return usual, leftRemain, rightRemain
}

// computeUsingUsual implements the JOIN ... USING(cols) half of the same
// rule: every named column must resolve on both sides.
func (c *Checker) computeUsingUsual(left, right []ResolvedColumn, using []ast.Identifier, j *ast.Join) (usual, leftRemain, rightRemain []ResolvedColumn) {
	usedLeft := make([]bool, len(left))
	usedRight := make([]bool, len(right))

	for _, name := range using {
		li, ri := -1, -1
		for i, lc := range left {
			if !usedLeft[i] && ident.Matches(lc.Name, lc.NameCaseSensitive, name.Name, name.CaseSensitive) {
				li = i
				break
			}
		}
		for i, rc := range right {
			if !usedRight[i] && ident.Matches(rc.Name, rc.NameCaseSensitive, name.Name, name.CaseSensitive) {
				ri = i
				break
			}
		}
		if li == -1 || ri == -1 {
			c.report.Add(errs.New(errs.UnresolvedIdentifier, pos(j), "Unresolved column in USING clause: %q", name.Name))
			continue
		}
		usedLeft[li] = true
		usedRight[ri] = true
		lc := left[li]
		usual = append(usual, ResolvedColumn{Name: lc.Name, NameCaseSensitive: lc.NameCaseSensitive, Type: lc.Type, Source: lc.Source})
	}
	for i, lc := range left {
		if !usedLeft[i] {
			leftRemain = append(leftRemain, lc)
		}
	}
	for i, rc := range right {
		if !usedRight[i] {
			rightRemain = append(rightRemain, rc)
		}
	}
	return usual, leftRemain, rightRemain
}

// checkOperand recursively checks op, reporting any violation into
// c.report, and returns its inferred type (§4.8 "Type inference"). A
// violation never aborts the walk; the returned type is a safe fallback
// so callers above do not cascade spurious secondary errors.
func (c *Checker) checkOperand(scope *scopeInfo, op ast.Operand) types.DataType {
	switch v := op.(type) {
	case *ast.ColumnRef:
		return c.resolveColumnRef(scope, v)
	case *ast.NumericConstant:
		return types.New(types.DOUBLE)
	case *ast.StringConstant:
		return types.New(types.VARCHAR)
	case *ast.ArithOp:
		lt := c.checkOperand(scope, v.Left)
		rt := c.checkOperand(scope, v.Right)
		if !lt.IsNumeric() {
			c.report.Add(errs.New(errs.TypeMismatch, pos(v.Left), "A numeric value was expected instead of %s", describeOperand(v.Left)))
		}
		if !rt.IsNumeric() {
			c.report.Add(errs.New(errs.TypeMismatch, pos(v.Right), "A numeric value was expected instead of %s", describeOperand(v.Right)))
		}
		return types.New(types.DOUBLE)
	case *ast.Concat:
		for _, a := range v.Args {
			at := c.checkOperand(scope, a)
			if !at.IsString() {
				c.report.Add(errs.New(errs.TypeMismatch, pos(a), "A string value was expected instead of %s", describeOperand(a)))
			}
		}
		return types.New(types.VARCHAR)
	case *ast.FunctionCall:
		return c.resolveFunctionCall(scope, v)
	case *ast.Comparison:
		c.checkOperand(scope, v.Left)
		c.checkOperand(scope, v.Right)
		return types.New(types.INTEGER)
	case *ast.Logical:
		c.checkOperand(scope, v.Left)
		if v.Right != nil {
			c.checkOperand(scope, v.Right)
		}
		return types.New(types.INTEGER)
	case *ast.Predicate:
		c.checkOperand(scope, v.Expr)
		if v.Low != nil {
			c.checkOperand(scope, v.Low)
		}
		if v.High != nil {
			c.checkOperand(scope, v.High)
		}
		for _, item := range v.List {
			c.checkOperand(scope, item)
		}
		if v.Pattern != nil {
			c.checkOperand(scope, v.Pattern)
		}
		return types.New(types.INTEGER)
	}
	return types.New(types.UNKNOWN)
}

// resolveColumnRef implements §4.8's "Column resolution": match by
// optional table prefix and name subject to the case rules, with ≥2
// matches reported as a duplicate/ambiguous error.
func (c *Checker) resolveColumnRef(scope *scopeInfo, ref *ast.ColumnRef) types.DataType {
	var matches []ResolvedColumn
	for _, col := range scope.columns {
		if ref.TablePrefix != nil {
			if col.TableAlias == "" || !ident.Matches(col.TableAlias, col.TableAliasCaseSensitive, ref.TablePrefix.Name, ref.TablePrefix.CaseSensitive) {
				continue
			}
		}
		if ident.Matches(col.Name, col.NameCaseSensitive, ref.Name.Name, ref.Name.CaseSensitive) {
			matches = append(matches, col)
		}
	}
	switch len(matches) {
	case 0:
		c.report.Add(errs.New(errs.UnresolvedIdentifier, pos(ref), "Unresolved column: %q", fullColumnName(ref)))
		return types.New(types.UNKNOWN)
	case 1:
		ref.Resolved = matches[0].Source
		return matches[0].Type
	default:
		var cands []errs.Candidate
		for _, m := range matches {
			label := m.Name
			if m.TableAlias != "" {
				label = m.TableAlias + "." + m.Name
			}
			cands = append(cands, errs.Candidate{Label: label})
		}
		c.report.Add(errs.New(errs.UnresolvedIdentifier, pos(ref), "Unresolved column: %q", fullColumnName(ref)).WithCandidates(cands))
		return types.New(types.UNKNOWN)
	}
}

func fullColumnName(ref *ast.ColumnRef) string {
	if ref.TablePrefix != nil {
		return ref.TablePrefix.Name + "." + ref.Name.Name
	}
	return ref.Name.Name
}

func describeOperand(op ast.Operand) string {
	switch v := op.(type) {
	case *ast.ColumnRef:
		return fmt.Sprintf("%q", v.Name.Name)
	case *ast.NumericConstant:
		return fmt.Sprintf("%q", v.Text)
	case *ast.StringConstant:
		return fmt.Sprintf("%q", v.Value)
	case *ast.FunctionCall:
		return fmt.Sprintf("%q", v.Name.Name)
	default:
		return "expression"
	}
}

// builtinScalarReturn is the non-geometry ADQL built-in function set
// (§4.8 "not in the ADQL built-in set" implicitly excludes these from UDF
// resolution); argument checking for these is limited to recursive
// resolution of their arguments, not arity/kind validation, since the
// spec does not give arity rules for the built-in math/aggregate set.
var builtinScalarReturn = map[string]types.Kind{
	"ABS": types.DOUBLE, "CEILING": types.DOUBLE, "FLOOR": types.DOUBLE,
	"ROUND": types.DOUBLE, "TRUNCATE": types.DOUBLE, "POWER": types.DOUBLE,
	"SQRT": types.DOUBLE, "EXP": types.DOUBLE, "LOG": types.DOUBLE,
	"LOG10": types.DOUBLE, "PI": types.DOUBLE, "RAND": types.DOUBLE,
	"ACOS": types.DOUBLE, "ASIN": types.DOUBLE, "ATAN": types.DOUBLE,
	"ATAN2": types.DOUBLE, "COS": types.DOUBLE, "SIN": types.DOUBLE,
	"TAN": types.DOUBLE, "COT": types.DOUBLE, "DEGREES": types.DOUBLE,
	"RADIANS": types.DOUBLE, "MOD": types.DOUBLE, "SQUARE": types.DOUBLE,
	"COUNT": types.INTEGER, "SUM": types.DOUBLE, "AVG": types.DOUBLE,
	"MAX": types.DOUBLE, "MIN": types.DOUBLE,
}

// builtinGeometryReturn is the ADQL geometry function return-kind map.
var builtinGeometryReturn = map[string]types.Kind{
	"POINT": types.POINT, "CIRCLE": types.REGION, "BOX": types.REGION,
	"POLYGON": types.REGION, "REGION": types.REGION, "CENTROID": types.POINT,
	"CONTAINS": types.INTEGER, "INTERSECTS": types.INTEGER,
	"AREA": types.DOUBLE, "DISTANCE": types.DOUBLE,
	"COORD1": types.DOUBLE, "COORD2": types.DOUBLE, "COORDSYS": types.VARCHAR,
}

// geometryCoosysArgIndex names, for each geometry constructor that takes a
// coordinate-system string as its first argument, the index to check
// against the coosys allow-list (§4.8 "Coordinate-system allow-list").
var geometryCoosysArgIndex = map[string]int{
	"POINT": 0, "CIRCLE": 0, "BOX": 0, "POLYGON": 0, "REGION": 0,
}

func (c *Checker) resolveFunctionCall(scope *scopeInfo, fn *ast.FunctionCall) types.DataType {
	upper := strings.ToUpper(fn.Name.Name)

	if kind, ok := builtinScalarReturn[upper]; ok {
		for _, a := range fn.Args {
			c.checkOperand(scope, a)
		}
		return types.New(kind)
	}

	if fn.IsGeometry {
		return c.resolveGeometryCall(scope, fn, upper)
	}

	argKinds := make([]types.DataType, len(fn.Args))
	for i, a := range fn.Args {
		argKinds[i] = c.checkOperand(scope, a)
	}

	def := c.cfg.Registry.Resolve(fn.Name.Name, argKinds)
	if def != nil {
		fn.Resolved = def
		if def.Return != nil {
			return *def.Return
		}
		return types.New(types.UNKNOWN)
	}

	if c.cfg.UDFMode == AllowAny && !c.cfg.Registry.HasAnyArity(fn.Name.Name) {
		return types.New(types.UNKNOWN)
	}

	labels := make([]string, len(argKinds))
	for i, k := range argKinds {
		labels[i] = kindLabel(k)
	}
	c.report.Add(errs.New(errs.UnresolvedIdentifier, pos(fn),
		"No UDF has been defined or found with the signature: %s(%s)", fn.Name.Name, strings.Join(labels, ", ")))
	return types.New(types.UNKNOWN)
}

func (c *Checker) resolveGeometryCall(scope *scopeInfo, fn *ast.FunctionCall, upper string) types.DataType {
	if c.cfg.GeometryAllowList != nil && !c.cfg.GeometryAllowList[upper] {
		c.report.Add(errs.New(errs.DisallowedFeature, pos(fn), "The geometrical function %q is not available in this implementation!", fn.Name.Name))
	}

	argTypes := make([]types.DataType, len(fn.Args))
	for i, a := range fn.Args {
		argTypes[i] = c.checkOperand(scope, a)
	}

	if idx, ok := geometryCoosysArgIndex[upper]; ok && idx < len(fn.Args) {
		if lit, ok := fn.Args[idx].(*ast.StringConstant); ok {
			c.checkCoosysLiteral(lit)
		}
	}

	if upper == "CONTAINS" || upper == "INTERSECTS" {
		for i, at := range argTypes {
			if !at.IsGeometry() {
				c.report.Add(errs.New(errs.TypeMismatch, pos(fn.Args[i]), "A geometry value was expected instead of %s", describeOperand(fn.Args[i])))
			}
		}
	}

	if kind, ok := builtinGeometryReturn[upper]; ok {
		return types.New(kind)
	}
	return types.New(types.REGION)
}

// checkCoosysLiteral implements the coosys half of §4.8's allow-list:
// only string-literal coosys arguments are checked, per the spec's "Non-
// literal coosys (column, concatenation) is not checked (left to
// runtime)".
func (c *Checker) checkCoosysLiteral(lit *ast.StringConstant) {
	if len(c.cfg.CoosysAllowList) == 0 {
		return
	}
	cs, err := stc.ParseCoordSys(lit.Value)
	if err != nil {
		if se, ok := err.(*errs.Error); ok {
			se.Pos = pos(lit)
			c.report.Add(se)
		}
		return
	}
	for _, pat := range c.cfg.CoosysAllowList {
		if stc.MatchesPattern(cs, pat) {
			return
		}
	}
	c.report.Add(errs.New(errs.DisallowedFeature, pos(lit), "Coordinate system %q is not allowed", lit.Value))
}

func kindLabel(dt types.DataType) string {
	switch {
	case dt.Kind == types.UNKNOWN:
		return "UNKNOWN"
	case dt.IsNumeric():
		return "NUMERIC"
	case dt.IsGeometry():
		return "GEOMETRY"
	case dt.IsString():
		return "STRING"
	default:
		return string(dt.Kind)
	}
}
