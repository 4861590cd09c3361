package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/metadata"
	"adqlcore/internal/types"
)

func mustSchema(t *testing.T, name string) *metadata.Schema {
	t.Helper()
	s, err := metadata.NewSchema(name)
	require.NoError(t, err)
	return s
}

func mustTable(t *testing.T, name string) *metadata.Table {
	t.Helper()
	tbl, err := metadata.NewTable(name, metadata.TableKindTable)
	require.NoError(t, err)
	return tbl
}

func mustColumn(t *testing.T, name string, dt types.Kind) *metadata.Column {
	t.Helper()
	d := types.New(dt)
	c, err := metadata.NewColumn(name, &d)
	require.NoError(t, err)
	return c
}

func TestAddTableSetsBackReference(t *testing.T) {
	s := mustSchema(t, "public")
	tbl := mustTable(t, "foo")
	s.AddTable(tbl)
	assert.Same(t, s, tbl.Schema)
	assert.Contains(t, s.Tables, tbl)
}

func TestAddColumnSetsBackReferenceAndIsIdempotent(t *testing.T) {
	tbl := mustTable(t, "foo")
	col := mustColumn(t, "colA", types.INTEGER)
	tbl.AddColumn(col)
	assert.Same(t, tbl, col.Table)
	assert.Len(t, tbl.Columns(), 1)

	other := mustTable(t, "bar")
	other.AddColumn(col)
	assert.Same(t, other, col.Table)
	assert.Len(t, tbl.Columns(), 0, "column must be removed from its previous table")
	assert.Len(t, other.Columns(), 1)
}

func TestColumnInsertionOrderPreserved(t *testing.T) {
	tbl := mustTable(t, "foo")
	names := []string{"z", "a", "m"}
	for _, n := range names {
		tbl.AddColumn(mustColumn(t, n, types.VARCHAR))
	}
	var got []string
	for _, c := range tbl.Columns() {
		got = append(got, c.Identifier.ADQLName())
	}
	assert.Equal(t, names, got)
}

func TestSchemaPrefixSimplification(t *testing.T) {
	s := mustSchema(t, "public")
	tbl := mustTable(t, "public.foo")
	s.AddTable(tbl)
	assert.Equal(t, "foo", tbl.Identifier.ADQLName())
}

func TestSchemaPrefixSimplificationCaseSensitiveSchema(t *testing.T) {
	s := mustSchema(t, `"Public"`)
	require.True(t, s.Identifier.CaseSensitive())

	exact := mustTable(t, `Public.foo`)
	s.AddTable(exact)
	assert.Equal(t, "foo", exact.Identifier.ADQLName(), "exact-case prefix must be stripped")

	wrongCase := mustTable(t, "public.bar")
	s2 := mustSchema(t, `"Public"`)
	s2.AddTable(wrongCase)
	assert.Equal(t, "public.bar", wrongCase.Identifier.ADQLName(), "mismatched case must not be stripped for a case-sensitive schema")
}

func TestForeignKeyInvariants(t *testing.T) {
	src := mustTable(t, "a")
	src.AddColumn(mustColumn(t, "id", types.INTEGER))

	dst := mustTable(t, "b")
	dst.AddColumn(mustColumn(t, "id", types.INTEGER))

	fk := metadata.NewForeignKey(dst, "", "")
	fk.AddMapping("id", "id")
	require.NoError(t, src.AddForeignKey(fk))

	assert.Same(t, src, fk.FromTable)
	assert.Contains(t, src.ForeignKeys(), fk)

	srcCol := src.FindColumn("id", false)
	assert.Contains(t, srcCol.FKAsSource(), fk)
	dstCol := dst.FindColumn("id", false)
	assert.Contains(t, dstCol.FKAsTarget(), fk)
}

func TestForeignKeyRejectsMissingColumn(t *testing.T) {
	src := mustTable(t, "a")
	src.AddColumn(mustColumn(t, "id", types.INTEGER))
	dst := mustTable(t, "b")
	dst.AddColumn(mustColumn(t, "id", types.INTEGER))

	fk := metadata.NewForeignKey(dst, "", "")
	fk.AddMapping("nope", "id")
	err := src.AddForeignKey(fk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
	assert.Empty(t, src.ForeignKeys(), "a failed install must not leave partial state")
}

func TestRemoveColumnDropsForeignKeyReferences(t *testing.T) {
	src := mustTable(t, "a")
	idCol := mustColumn(t, "id", types.INTEGER)
	src.AddColumn(idCol)
	dst := mustTable(t, "b")
	dst.AddColumn(mustColumn(t, "id", types.INTEGER))

	fk := metadata.NewForeignKey(dst, "", "")
	fk.AddMapping("id", "id")
	require.NoError(t, src.AddForeignKey(fk))

	src.RemoveColumn(idCol)
	assert.Empty(t, fk.Mapping(), "removing the source column must drop it from the FK mapping")
}
