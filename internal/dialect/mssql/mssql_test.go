package mssql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adqlcore/internal/dialect"
	"adqlcore/internal/dialect/mssql"
	"adqlcore/internal/types"
)

func TestDialectName(t *testing.T) {
	d := mssql.New()
	assert.Equal(t, dialect.MSSQL, d.Name())
}

func TestSelectTopPrefixOnlyWithoutOffset(t *testing.T) {
	d := mssql.New()
	assert.Equal(t, "TOP 10 ", d.SelectTopPrefix(10, false))
	assert.Equal(t, "", d.SelectTopPrefix(10, true))
	assert.Equal(t, "", d.SelectTopPrefix(-1, false))
}

func TestTrailingLimitUsesOffsetFetch(t *testing.T) {
	d := mssql.New()
	assert.Equal(t, "", d.TrailingLimit(10, false, 0))
	assert.Equal(t, "OFFSET 5 ROWS", d.TrailingLimit(-1, true, 5))
	assert.Equal(t, "OFFSET 5 ROWS FETCH NEXT 10 ROWS ONLY", d.TrailingLimit(10, true, 5))
}

func TestNeedsSyntheticOrderByExactlyWhenOffsetPresent(t *testing.T) {
	d := mssql.New()
	assert.True(t, d.NeedsSyntheticOrderBy(true, -1))
	assert.False(t, d.NeedsSyntheticOrderBy(false, 10))
}

func TestSupportsJoinUsingIsFalse(t *testing.T) {
	d := mssql.New()
	assert.False(t, d.SupportsJoinUsing())
}

func TestConvertTypeOverridesClobBlobDouble(t *testing.T) {
	d := mssql.New()
	assert.Equal(t, "VARCHAR(MAX)", d.ConvertType(types.New(types.CLOB)))
	assert.Equal(t, "VARBINARY(MAX)", d.ConvertType(types.New(types.BLOB)))
	assert.Equal(t, "FLOAT", d.ConvertType(types.New(types.DOUBLE)))
	assert.Equal(t, "INTEGER", d.ConvertType(types.New(types.INTEGER)))
}

func TestConcatUsesPlusOperator(t *testing.T) {
	d := mssql.New()
	assert.Equal(t, "a + b", d.Concat([]string{"a", "b"}))
}
