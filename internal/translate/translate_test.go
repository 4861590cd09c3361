package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/ast"
	"adqlcore/internal/check"
	"adqlcore/internal/dialect/generic"
	"adqlcore/internal/dialect/mssql"
	"adqlcore/internal/metadata"
	"adqlcore/internal/parser"
	"adqlcore/internal/translate"
	"adqlcore/internal/types"
	"adqlcore/internal/udf"
)

func mustCol(t *testing.T, tbl *metadata.Table, name string, kind types.Kind) {
	t.Helper()
	dt := types.New(kind)
	c, err := metadata.NewColumn(name, &dt)
	require.NoError(t, err)
	tbl.AddColumn(c)
}

func catalogWithAB(t *testing.T) *metadata.Catalog {
	t.Helper()
	cat := metadata.NewCatalog()
	schema, err := metadata.NewSchema("public")
	require.NoError(t, err)
	cat.AddSchema(schema)

	a, err := metadata.NewTable("aTable", metadata.TableKindTable)
	require.NoError(t, err)
	mustCol(t, a, "id", types.INTEGER)
	mustCol(t, a, "name", types.VARCHAR)
	mustCol(t, a, "aColumn", types.INTEGER)
	schema.AddTable(a)

	b, err := metadata.NewTable("bTable", metadata.TableKindTable)
	require.NoError(t, err)
	mustCol(t, b, "id", types.INTEGER)
	mustCol(t, b, "name", types.VARCHAR)
	mustCol(t, b, "bColumn", types.INTEGER)
	schema.AddTable(b)

	return cat
}

func checkedQuery(t *testing.T, cat *metadata.Catalog, src string) *ast.Query {
	t.Helper()
	return checkedQueryVersion(t, cat, src, parser.Version20)
}

func checkedQueryVersion(t *testing.T, cat *metadata.Catalog, src string, version parser.Version) *ast.Query {
	t.Helper()
	q, err := parser.Parse(src, version)
	require.NoError(t, err)
	c := check.New(cat, check.Config{Registry: udf.NewRegistry()})
	checked, err := c.Check(q)
	require.NoError(t, err)
	return checked
}

func TestTranslateSimpleSelectGeneric(t *testing.T) {
	cat := catalogWithAB(t)
	q := checkedQuery(t, cat, `SELECT id, name FROM aTable WHERE id = 1`)

	tr := translate.New(generic.New(), udf.NewRegistry())
	sql, err := tr.Translate(q)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name" FROM "aTable" WHERE ("id" = 1)`, sql)
}

func TestTranslateNaturalJoinEmitsUsingOnGeneric(t *testing.T) {
	cat := catalogWithAB(t)
	q := checkedQuery(t, cat,
		`SELECT aTable.aColumn FROM aTable NATURAL JOIN bTable`)

	tr := translate.New(generic.New(), udf.NewRegistry())
	sql, err := tr.Translate(q)
	require.NoError(t, err)
	assert.Contains(t, sql, `USING ("id", "name")`)
}

func TestTranslateNaturalJoinRewritesToOnForMSSQL(t *testing.T) {
	cat := catalogWithAB(t)
	q := checkedQuery(t, cat,
		`SELECT aTable.aColumn FROM aTable NATURAL JOIN bTable`)

	tr := translate.New(mssql.New(), udf.NewRegistry())
	sql, err := tr.Translate(q)
	require.NoError(t, err)
	assert.Contains(t, sql, `"aTable"."id" = "bTable"."id"`)
	assert.Contains(t, sql, `"aTable"."name" = "bTable"."name"`)
	assert.Contains(t, sql, " ON ")
	assert.NotContains(t, sql, "USING")
}

func TestTranslateTopOffsetMSSQLUsesOffsetFetch(t *testing.T) {
	cat := catalogWithAB(t)
	q := checkedQueryVersion(t, cat, `SELECT TOP 5 id FROM aTable ORDER BY id OFFSET 10`, parser.Version21)

	tr := translate.New(mssql.New(), udf.NewRegistry())
	sql, err := tr.Translate(q)
	require.NoError(t, err)
	assert.Contains(t, sql, "OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY")
}

func TestTranslateTopOnlyMSSQLUsesTopPrefix(t *testing.T) {
	cat := catalogWithAB(t)
	q := checkedQuery(t, cat, `SELECT TOP 5 id FROM aTable`)

	tr := translate.New(mssql.New(), udf.NewRegistry())
	sql, err := tr.Translate(q)
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT TOP 5 ")
}

func TestTranslateConcatUsesDialectRule(t *testing.T) {
	cat := catalogWithAB(t)
	q := checkedQuery(t, cat, `SELECT name || 'x' FROM aTable`)

	tr := translate.New(generic.New(), udf.NewRegistry())
	sql, err := tr.Translate(q)
	require.NoError(t, err)
	assert.Contains(t, sql, `"name" || 'x'`)
}
