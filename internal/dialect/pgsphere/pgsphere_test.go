package pgsphere_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/dialect"
	"adqlcore/internal/dialect/pgsphere"
	"adqlcore/internal/stc"
)

func TestDialectName(t *testing.T) {
	d := pgsphere.New()
	assert.Equal(t, dialect.PgSphere, d.Name())
}

func TestGeometryFnPoint(t *testing.T) {
	d := pgsphere.New()
	sql, ok := d.GeometryFn("POINT", []string{"'ICRS'", "10.5", "20.5"})
	require.True(t, ok)
	assert.Equal(t, "spoint(radians(10.5), radians(20.5))", sql)
}

func TestGeometryFnCircle(t *testing.T) {
	d := pgsphere.New()
	sql, ok := d.GeometryFn("CIRCLE", []string{"'ICRS'", "10.5", "20.5", "1.0"})
	require.True(t, ok)
	assert.Equal(t, "scircle(spoint(radians(10.5), radians(20.5)), radians(1.0))", sql)
}

func TestGeometryFnContains(t *testing.T) {
	d := pgsphere.New()
	sql, ok := d.GeometryFn("CONTAINS", []string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, "(a @ b)", sql)
}

func TestFromDBParsesPositionDegrees(t *testing.T) {
	d := pgsphere.New()
	r, err := d.FromDB("(10.5d,20.5d)")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionPosition, r.Kind)
	assert.InDeltaSlice(t, []float64{10.5, 20.5}, r.Coordinates, 1e-9)
}

func TestFromDBParsesCircleDegrees(t *testing.T) {
	d := pgsphere.New()
	r, err := d.FromDB("<(10.5d,20.5d),1d>")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionCircle, r.Kind)
	assert.InDeltaSlice(t, []float64{10.5, 20.5, 1}, r.Coordinates, 1e-9)
}

func TestToDBRendersPosition(t *testing.T) {
	d := pgsphere.New()
	s, err := d.ToDB(&stc.Region{Kind: stc.RegionPosition, Coordinates: []float64{10.5, 20.5}})
	require.NoError(t, err)
	assert.Equal(t, "(10.5d,20.5d)", s)
}

func TestToDBRejectsUnsupportedKind(t *testing.T) {
	d := pgsphere.New()
	_, err := d.ToDB(&stc.Region{Kind: stc.RegionPolygon, Coordinates: []float64{1, 2, 3, 4, 5, 6}})
	assert.Error(t, err)
}
