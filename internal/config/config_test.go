package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/config"
	"adqlcore/internal/dialect"
)

func TestParseMinimalDocumentDefaultsToGenericDialect(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
[catalog]
tableset_path = "catalog.xml"
`))
	require.NoError(t, err)
	assert.Equal(t, dialect.Generic, cfg.Dialect)
	assert.Equal(t, "catalog.xml", cfg.TablesetPath)
	assert.Nil(t, cfg.Check.GeometryAllowList)
	assert.Empty(t, cfg.Check.CoosysAllowList)
}

func TestParseDialectName(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
[dialect]
name = "mssql"
`))
	require.NoError(t, err)
	assert.Equal(t, dialect.MSSQL, cfg.Dialect)
}

func TestParseRejectsUnknownDialect(t *testing.T) {
	_, err := config.Parse(strings.NewReader(`
[dialect]
name = "oracle"
`))
	assert.Error(t, err)
}

func TestParseRegistersDeclaredUDFs(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
[udfs]
declarations = ["myFunc(a DOUBLE) -> DOUBLE"]
`))
	require.NoError(t, err)
	defs := cfg.Registry.Lookup("myFunc")
	require.Len(t, defs, 1)
	assert.Equal(t, "myFunc", defs[0].Name)
}

func TestParseRejectsMalformedUDFDeclaration(t *testing.T) {
	_, err := config.Parse(strings.NewReader(`
[udfs]
declarations = ["not a valid declaration"]
`))
	assert.Error(t, err)
}

func TestParseGeometryAllowList(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
[allow]
geometry = ["POINT", "CIRCLE"]
coosys = ["ICRS.*"]
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Check.GeometryAllowList)
	assert.True(t, cfg.Check.GeometryAllowList["POINT"])
	assert.False(t, cfg.Check.GeometryAllowList["BOX"])
	assert.Equal(t, []string{"ICRS.*"}, cfg.Check.CoosysAllowList)
}
