package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/ast"
	"adqlcore/internal/parser"
)

func TestParseSimpleSelect(t *testing.T) {
	q, err := parser.Parse(`SELECT ra, dec FROM ivoa.ObsCore WHERE ra > 10`, parser.Version20)
	require.NoError(t, err)
	require.Len(t, q.Select, 2)
	ref, ok := q.Select[0].Expr.(*ast.ColumnRef)
	require.True(t, ok)
	assert.Equal(t, "ra", ref.Name.Name)
	assert.False(t, ref.Name.CaseSensitive)

	tbl, ok := q.From.(*ast.TableRef)
	require.True(t, ok)
	require.NotNil(t, tbl.Schema)
	assert.Equal(t, "ivoa", tbl.Schema.Name)
	assert.Equal(t, "ObsCore", tbl.Table.Name)

	cmp, ok := q.Where.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ">", cmp.Op)
}

func TestParseStarSelect(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM foo`, parser.Version20)
	require.NoError(t, err)
	require.Len(t, q.Select, 1)
	assert.True(t, q.Select[0].Star)
	assert.Equal(t, "", q.Select[0].StarPrefix)
}

func TestParseTableStarSelect(t *testing.T) {
	q, err := parser.Parse(`SELECT t.* FROM foo AS t`, parser.Version20)
	require.NoError(t, err)
	require.Len(t, q.Select, 1)
	assert.True(t, q.Select[0].Star)
	assert.Equal(t, "t", q.Select[0].StarPrefix)
}

func TestParseDistinctTopAndAlias(t *testing.T) {
	q, err := parser.Parse(`SELECT DISTINCT TOP 10 ra AS r FROM foo`, parser.Version20)
	require.NoError(t, err)
	assert.True(t, q.Distinct)
	assert.Equal(t, 10, q.Top)
	require.NotNil(t, q.Select[0].Alias)
	assert.Equal(t, "r", q.Select[0].Alias.Name)
}

func TestParseDelimitedIdentifierIsCaseSensitive(t *testing.T) {
	q, err := parser.Parse(`SELECT "MyCol" FROM foo`, parser.Version20)
	require.NoError(t, err)
	ref := q.Select[0].Expr.(*ast.ColumnRef)
	assert.Equal(t, "MyCol", ref.Name.Name)
	assert.True(t, ref.Name.CaseSensitive)
}

func TestParseFunctionCallTaggedAsGeometry(t *testing.T) {
	q, err := parser.Parse(`SELECT POINT('ICRS', ra, dec) FROM foo`, parser.Version20)
	require.NoError(t, err)
	fn := q.Select[0].Expr.(*ast.FunctionCall)
	assert.Equal(t, "POINT", fn.Name.Name)
	assert.True(t, fn.IsGeometry)
	require.Len(t, fn.Args, 3)
	str, ok := fn.Args[0].(*ast.StringConstant)
	require.True(t, ok)
	assert.Equal(t, "ICRS", str.Value)
}

func TestParseOrdinaryFunctionCallIsNotGeometry(t *testing.T) {
	q, err := parser.Parse(`SELECT ABS(ra) FROM foo`, parser.Version20)
	require.NoError(t, err)
	fn := q.Select[0].Expr.(*ast.FunctionCall)
	assert.False(t, fn.IsGeometry)
}

func TestParseNaturalJoin(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM a NATURAL JOIN b`, parser.Version20)
	require.NoError(t, err)
	j, ok := q.From.(*ast.Join)
	require.True(t, ok)
	assert.True(t, j.Natural)
	assert.Equal(t, ast.JoinInner, j.Kind)
}

func TestParseLeftJoinOn(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM a LEFT JOIN b ON a.id = b.id`, parser.Version20)
	require.NoError(t, err)
	j, ok := q.From.(*ast.Join)
	require.True(t, ok)
	assert.Equal(t, ast.JoinLeft, j.Kind)
	require.NotNil(t, j.On)
}

func TestParseJoinUsing(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM a JOIN b USING (id, name)`, parser.Version20)
	require.NoError(t, err)
	j, ok := q.From.(*ast.Join)
	require.True(t, ok)
	require.Len(t, j.Using, 2)
	assert.Equal(t, "id", j.Using[0].Name)
	assert.Equal(t, "name", j.Using[1].Name)
}

func TestParseImplicitCrossJoinFromComma(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM a, b`, parser.Version20)
	require.NoError(t, err)
	j, ok := q.From.(*ast.Join)
	require.True(t, ok)
	assert.Equal(t, ast.JoinInner, j.Kind)
	assert.False(t, j.Natural)
}

func TestParseSubqueryInFrom(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM (SELECT ra FROM foo) AS sub`, parser.Version20)
	require.NoError(t, err)
	sub, ok := q.From.(*ast.Subquery)
	require.True(t, ok)
	assert.Equal(t, "sub", sub.Alias.Name)
	require.Len(t, sub.Query.Select, 1)
}

func TestParseWhereWithBetweenInLike(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM foo WHERE a BETWEEN 1 AND 10 AND b IN (1, 2, 3) AND c LIKE 'x%' AND d IS NOT NULL`, parser.Version20)
	require.NoError(t, err)
	require.NotNil(t, q.Where)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	q, err := parser.Parse(`SELECT 1 + 2 * 3 FROM foo`, parser.Version20)
	require.NoError(t, err)
	top, ok := q.Select[0].Expr.(*ast.ArithOp)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	right, ok := top.Right.(*ast.ArithOp)
	require.True(t, ok)
	assert.Equal(t, "*", right.Op)
}

func TestParseConcatChainFlattens(t *testing.T) {
	q, err := parser.Parse(`SELECT a || b || c FROM foo`, parser.Version20)
	require.NoError(t, err)
	cat, ok := q.Select[0].Expr.(*ast.Concat)
	require.True(t, ok)
	assert.Len(t, cat.Args, 3)
}

func TestParseGroupByHavingOrderBy(t *testing.T) {
	q, err := parser.Parse(`SELECT a, COUNT(b) FROM foo GROUP BY a HAVING COUNT(b) > 1 ORDER BY a DESC`, parser.Version20)
	require.NoError(t, err)
	require.Len(t, q.GroupBy, 1)
	require.NotNil(t, q.Having)
	require.Len(t, q.OrderBy, 1)
	assert.True(t, q.OrderBy[0].Descending)
}

func TestParseWithClauseRequiresVersion21(t *testing.T) {
	_, err := parser.Parse(`WITH x AS (SELECT a FROM foo) SELECT * FROM x`, parser.Version20)
	require.Error(t, err)

	q, err := parser.Parse(`WITH x AS (SELECT a FROM foo) SELECT * FROM x`, parser.Version21)
	require.NoError(t, err)
	require.Len(t, q.With, 1)
	assert.Equal(t, "x", q.With[0].Label.Name)
}

func TestParseOffsetRequiresVersion21(t *testing.T) {
	_, err := parser.Parse(`SELECT * FROM foo OFFSET 5`, parser.Version20)
	require.Error(t, err)

	q, err := parser.Parse(`SELECT * FROM foo OFFSET 5`, parser.Version21)
	require.NoError(t, err)
	assert.True(t, q.HasOffset)
	assert.Equal(t, 5, q.Offset)
}

func TestParseUnaryMinus(t *testing.T) {
	q, err := parser.Parse(`SELECT -a FROM foo WHERE b = -1`, parser.Version20)
	require.NoError(t, err)
	arith, ok := q.Select[0].Expr.(*ast.ArithOp)
	require.True(t, ok)
	assert.Equal(t, "-", arith.Op)
}

func TestParsePositionSpansWholeJoin(t *testing.T) {
	q, err := parser.Parse(`SELECT * FROM a JOIN b ON a.id = b.id`, parser.Version20)
	require.NoError(t, err)
	j := q.From.(*ast.Join)
	pos := j.Pos()
	assert.Equal(t, 1, pos.BeginLine)
	assert.Greater(t, pos.EndCol, pos.BeginCol)
}

func TestParseSyntaxErrorCarriesPosition(t *testing.T) {
	_, err := parser.Parse(`SELECT FROM foo`, parser.Version20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "l.1")
}

func TestParseMissingFromFails(t *testing.T) {
	_, err := parser.Parse(`SELECT a`, parser.Version20)
	require.Error(t, err)
}

func TestParseContainsComparisonGeometryPredicate(t *testing.T) {
	q, err := parser.Parse(
		`SELECT * FROM foo WHERE CONTAINS(POINT('ICRS', ra, dec), CIRCLE('ICRS', 10, 20, 1)) = 1`,
		parser.Version20,
	)
	require.NoError(t, err)
	cmp, ok := q.Where.(*ast.Comparison)
	require.True(t, ok)
	fn, ok := cmp.Left.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "CONTAINS", fn.Name.Name)
	assert.True(t, fn.IsGeometry)
	inner, ok := fn.Args[0].(*ast.FunctionCall)
	require.True(t, ok)
	assert.True(t, inner.IsGeometry)
}
