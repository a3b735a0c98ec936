package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeRange_Misaligned(t *testing.T) {
	_, err := NewTimeRange(0, 100, 3600)
	require.Error(t, err)
}

func TestTimeRange_Count(t *testing.T) {
	tr, err := NewTimeRange(0, 12*3600, 3600)
	require.NoError(t, err)
	assert.Equal(t, 12, tr.Count())
	assert.Equal(t, int64(0), tr.At(0))
	assert.Equal(t, int64(3600), tr.At(1))
}

func TestForInterpolationTo_Linear(t *testing.T) {
	// requested hourly window, native dt is 6h, linear padding=1.
	tr, err := NewTimeRange(3600, 5*3600, 3600)
	require.NoError(t, err)

	expanded := tr.ForInterpolationTo(6*3600, Linear)
	assert.Equal(t, int64(6*3600), expanded.Dt)
	assert.Equal(t, int64(0), expanded.Start)
	// ceil(5h,6h)=6h, plus modelDt*padding(1) -> 12h: the extra step carries
	// the "hi" bracket sample a sub-step just under 5h still needs, since
	// TimeRange's End is exclusive.
	assert.Equal(t, int64(12*3600), expanded.End)
}

func TestForInterpolationTo_Hermite_PadsTwoOnEachSide(t *testing.T) {
	tr, err := NewTimeRange(6*3600, 12*3600, 3600)
	require.NoError(t, err)

	expanded := tr.ForInterpolationTo(6*3600, Hermite)
	// floor(6h,6h)=6h, minus modelDt*(2-1)=6h -> 0h
	assert.Equal(t, int64(0), expanded.Start)
	// ceil(12h,6h)=12h, plus modelDt*padding(2)=12h -> 24h
	assert.Equal(t, int64(24*3600), expanded.End)
}

func TestForAggregationTo_BackwardsSum(t *testing.T) {
	// requested dt=3h aggregating a 1h-native backward sum: steps=3.
	tr, err := NewTimeRange(3*3600, 6*3600, 3*3600)
	require.NoError(t, err)

	expanded := tr.ForAggregationTo(3600, BackwardsSum)
	assert.Equal(t, int64(1*3600), expanded.Start)
	assert.Equal(t, int64(6*3600), expanded.End)
	assert.Equal(t, int64(3600), expanded.Dt)
}

func TestForAggregationTo_PointSampling_Unchanged(t *testing.T) {
	tr, err := NewTimeRange(3*3600, 6*3600, 3*3600)
	require.NoError(t, err)

	expanded := tr.ForAggregationTo(3600, Linear)
	assert.Equal(t, int64(3*3600), expanded.Start)
	assert.Equal(t, int64(6*3600), expanded.End)
}

func TestInterpolationKind_Padding(t *testing.T) {
	assert.Equal(t, 1, Linear.Padding())
	assert.Equal(t, 1, LinearDegrees.Padding())
	assert.Equal(t, 2, Hermite.Padding())
	assert.Equal(t, 2, SolarBackwardsAveraged.Padding())
	assert.Equal(t, 2, SolarBackwardsMissingNotAveraged.Padding())
	assert.Equal(t, 1, BackwardsSum.Padding())
	assert.Equal(t, 1, Backwards.Padding())
}
