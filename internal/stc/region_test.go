package stc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/stc"
)

func TestParseRegionDaliCompactCircle(t *testing.T) {
	r, err := stc.ParseRegion("1 2 3")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionCircle, r.Kind)
	assert.Equal(t, []float64{1, 2, 3}, r.Coordinates)
	assert.True(t, r.CoordSys.IsDefault)
}

func TestParseRegionDaliCompactPosition(t *testing.T) {
	r, err := stc.ParseRegion("10 20")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionPosition, r.Kind)
	assert.Equal(t, []float64{10, 20}, r.Coordinates)
}

func TestParseRegionDaliCompactBox(t *testing.T) {
	r, err := stc.ParseRegion("10 20 5 5")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionBox, r.Kind)
}

func TestParseRegionDaliCompactPolygonWithCoordSys(t *testing.T) {
	r, err := stc.ParseRegion("ICRS 0 0 1 0 1 1")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionPolygon, r.Kind)
	assert.Equal(t, stc.FrameICRS, r.CoordSys.Frame)
	assert.Equal(t, []float64{0, 0, 1, 0, 1, 1}, r.Coordinates)
}

func TestParseRegionKeywordCircle(t *testing.T) {
	r, err := stc.ParseRegion("CIRCLE ICRS GEOCENTER 10.5 20.5 1.0")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionCircle, r.Kind)
	assert.Equal(t, stc.FrameICRS, r.CoordSys.Frame)
	assert.Equal(t, stc.RefPosGeocenter, r.CoordSys.RefPos)
	assert.Equal(t, []float64{10.5, 20.5, 1.0}, r.Coordinates)
}

func TestParseRegionKeywordBoxWrongArity(t *testing.T) {
	_, err := stc.ParseRegion("BOX ICRS 1 2 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOX requires 4")
}

func TestParseRegionPolygonRequiresThreeVertices(t *testing.T) {
	_, err := stc.ParseRegion("POLYGON ICRS 0 0 1 1")
	require.Error(t, err)
}

func TestParseRegionUnion(t *testing.T) {
	r, err := stc.ParseRegion("UNION ICRS ( CIRCLE ICRS 1 2 3 CIRCLE ICRS 4 5 6 )")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionUnion, r.Kind)
	require.Len(t, r.Sub, 2)
	assert.Equal(t, stc.RegionCircle, r.Sub[0].Kind)
	assert.Equal(t, stc.RegionCircle, r.Sub[1].Kind)
}

func TestParseRegionIntersectionRequiresTwoRegions(t *testing.T) {
	_, err := stc.ParseRegion("INTERSECTION ICRS ( CIRCLE ICRS 1 2 3 )")
	require.Error(t, err)
}

func TestParseRegionNot(t *testing.T) {
	r, err := stc.ParseRegion("NOT ( CIRCLE ICRS 1 2 3 )")
	require.NoError(t, err)
	assert.Equal(t, stc.RegionNot, r.Kind)
	require.Len(t, r.Sub, 1)
	assert.Equal(t, stc.RegionCircle, r.Sub[0].Kind)
}

func TestParseRegionRejectsBadToken(t *testing.T) {
	_, err := stc.ParseRegion("CIRCLE ICRS 1 2 notanumber")
	require.Error(t, err)
}

func TestParseRegionRejectsTrailingInput(t *testing.T) {
	_, err := stc.ParseRegion("1 2 3 junk")
	require.Error(t, err)
}
