package interpolate

import (
	"testing"

	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLinear_S6 implements spec §8 scenario S6: a 6-hourly source at values
// [10, 16] over [t0, t0+6h] read at dt=1h with linear interpolation yields
// [10, 11, 12, 13, 14, 15] for the six hours in the half-open interval.
func TestLinear_S6(t *testing.T) {
	nativeRange, err := timeutil.NewTimeRange(0, 6*3600, 6*3600)
	require.NoError(t, err)
	requested, err := timeutil.NewTimeRange(0, 6*3600, 3600)
	require.NoError(t, err)

	out := Interpolate(Linear, nil, []float64{10, 16}, nativeRange, requested, Location{})
	assert.Equal(t, []float64{10, 11, 12, 13, 14, 15}, out)
}

func TestSliceExact_Idempotent(t *testing.T) {
	tr, err := timeutil.NewTimeRange(0, 4*3600, 3600)
	require.NoError(t, err)

	native := []float64{1, 2, 3, 4}
	out := Interpolate(Linear, nil, native, tr, tr, Location{})
	assert.Equal(t, native, out)
}

func TestLinearDegrees_ShortestArc(t *testing.T) {
	nativeRange, err := timeutil.NewTimeRange(0, 2*3600, 3600)
	require.NoError(t, err)
	requested, err := timeutil.NewTimeRange(0, 2*3600, 1800)
	require.NoError(t, err)

	// 350 -> 10 degrees should go through 0/360, not backwards through 180.
	out := Interpolate(LinearDegrees, nil, []float64{350, 10}, nativeRange, requested, Location{})
	require.Len(t, out, 4)
	assert.InDelta(t, 350.0, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-6)
}

func TestHermite_ClampsToBounds(t *testing.T) {
	nativeRange, err := timeutil.NewTimeRange(0, 4*3600, 3600)
	require.NoError(t, err)
	requested, err := timeutil.NewTimeRange(3600, 2*3600, 1800)
	require.NoError(t, err)

	bounds := &Bounds{Min: 0, Max: 100}
	out := Interpolate(Hermite, bounds, []float64{95, 98, 102, 99}, nativeRange, requested, Location{})
	for _, v := range out {
		assert.LessOrEqual(t, v, 100.0)
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestBackwardsReplicate(t *testing.T) {
	nativeRange, err := timeutil.NewTimeRange(0, 2*3600, 3600)
	require.NoError(t, err)
	requested, err := timeutil.NewTimeRange(0, 2*3600, 1800)
	require.NoError(t, err)

	out := Interpolate(Backwards, nil, []float64{5, 9}, nativeRange, requested, Location{})
	assert.Equal(t, []float64{5, 5, 9, 9}, out)
}

func TestBackwardsSum_DisaggregatesUniformly(t *testing.T) {
	nativeRange, err := timeutil.NewTimeRange(0, 3600, 3600)
	require.NoError(t, err)
	requested, err := timeutil.NewTimeRange(0, 3600, 900)
	require.NoError(t, err)

	out := Interpolate(BackwardsSum, nil, []float64{4}, nativeRange, requested, Location{})
	require.Len(t, out, 4)
	for _, v := range out {
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestBackwardsSum_AggregatesBySumming(t *testing.T) {
	nativeRange, err := timeutil.NewTimeRange(0, 4*900, 900)
	require.NoError(t, err)
	requested, err := timeutil.NewTimeRange(0, 4*900, 3600)
	require.NoError(t, err)

	out := Interpolate(BackwardsSum, nil, []float64{1, 1, 1, 1}, nativeRange, requested, Location{})
	require.Len(t, out, 1)
	assert.InDelta(t, 4.0, out[0], 1e-9)
}
