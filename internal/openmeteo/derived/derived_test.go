package derived

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

// fakeAccessor answers Get for a fixed set of raw variable names with
// pre-seeded data, recording which names it was asked for so tests can
// assert on the exact prerequisite set a derivation fans out to.
type fakeAccessor struct {
	data    map[string][]float64
	fetched map[string]int
}

func newFakeAccessor(data map[string][]float64) *fakeAccessor {
	return &fakeAccessor{data: data, fetched: make(map[string]int)}
}

func (f *fakeAccessor) Get(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) (reader.Result, error) {
	f.fetched[name]++
	d, ok := f.data[name]
	if !ok {
		return reader.Result{}, assert.AnError
	}
	return reader.Result{Data: d}, nil
}

func (f *fakeAccessor) Prefetch(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) {
	f.fetched[name]++
}

func mustRange(t *testing.T, n int) timeutil.TimeRange {
	t.Helper()
	tr, err := timeutil.NewTimeRange(0, int64(n)*3600, 3600)
	require.NoError(t, err)
	return tr
}

func TestGet_WindSpeed_Hypot(t *testing.T) {
	acc := newFakeAccessor(map[string][]float64{
		"wind_u_10m": {3, 0},
		"wind_v_10m": {4, 5},
	})
	res, err := Get(context.Background(), acc, "wind_speed_10m", Location{}, mustRange(t, 2))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, res.Data[0], 1e-9)
	assert.InDelta(t, 5.0, res.Data[1], 1e-9)
}

func TestGet_ApparentTemperature_RecursesThroughWindSpeed(t *testing.T) {
	acc := newFakeAccessor(map[string][]float64{
		"temperature_2m":       {20},
		"relative_humidity_2m": {55},
		"wind_u_10m":           {3},
		"wind_v_10m":           {4},
		"shortwave_radiation":  {200},
	})
	res, err := Get(context.Background(), acc, "apparent_temperature", Location{}, mustRange(t, 1))
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.False(t, math.IsNaN(res.Data[0]))

	// apparent_temperature names relative_humidity_2m directly as a raw
	// prerequisite — unlike wind_speed_10m, it is not recursed through any
	// further derivation.
	assert.Greater(t, acc.fetched["relative_humidity_2m"], 0)
	assert.Equal(t, 0, acc.fetched["dew_point_2m"])
}

// TestS4_ApparentTemperature_PrefetchesExactRawSet locks in spec scenario
// S4: requesting derived apparent_temperature prefetches exactly
// {t2m, u10, v10, rh2m, swrad} and no other raw variable.
func TestS4_ApparentTemperature_PrefetchesExactRawSet(t *testing.T) {
	acc := newFakeAccessor(nil)
	Prefetch(context.Background(), acc, "apparent_temperature", mustRange(t, 1))

	want := []string{"temperature_2m", "relative_humidity_2m", "wind_u_10m", "wind_v_10m", "shortwave_radiation"}
	for _, name := range want {
		assert.Greater(t, acc.fetched[name], 0, "expected %s to be prefetched", name)
	}
	assert.Equal(t, 0, acc.fetched["dew_point_2m"], "dew_point_2m is not a prerequisite of apparent_temperature")
	assert.Len(t, acc.fetched, len(want), "no raw variable beyond the named set should be fetched")
}

func TestGet_CloudCoverLow_MaxesSurfaceAndPressureLevel(t *testing.T) {
	acc := newFakeAccessor(map[string][]float64{
		"cloud_cover":              {30, 80},
		"relative_humidity_850hPa": {90, 65},
	})
	res, err := Get(context.Background(), acc, "cloud_cover_low", Location{}, mustRange(t, 2))
	require.NoError(t, err)
	// index 0: surface 30 vs Slingo(90%) which is well above 30 -> band wins.
	assert.Greater(t, res.Data[0], 30.0)
	// index 1: surface 80 vs Slingo(65%), just above the critical 60% (~1.6% cover) -> surface wins.
	assert.Equal(t, 80.0, res.Data[1])
}

func TestGet_CloudCoverHigh_PassesThroughSingleLevel(t *testing.T) {
	acc := newFakeAccessor(map[string][]float64{
		"relative_humidity_300hPa": {95},
	})
	res, err := Get(context.Background(), acc, "cloud_cover_high", Location{}, mustRange(t, 1))
	require.NoError(t, err)
	assert.InDelta(t, slingoCloudCover(95), res.Data[0], 1e-9)
}

func TestGet_UnknownDerivedVariable(t *testing.T) {
	_, err := Get(context.Background(), newFakeAccessor(nil), "not_a_derived_variable", Location{}, mustRange(t, 1))
	assert.Error(t, err)
}

func TestGet_PropagatesNaNAcrossMismatchedPrerequisite(t *testing.T) {
	acc := newFakeAccessor(map[string][]float64{
		"wind_u_10m": {3, 3},
		"wind_v_10m": {4}, // short by one sample
	})
	res, err := Get(context.Background(), acc, "wind_speed_10m", Location{}, mustRange(t, 2))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(res.Data[0]))
	assert.True(t, math.IsNaN(res.Data[1]))
}

func TestWeatherCode_FirstMatchingRuleWins(t *testing.T) {
	// Heavy snow (>2.5 cm/h) should win over a merely cloudy sky, and
	// freezing rain should take priority over everything else per the
	// rule table's declared order.
	assert.Equal(t, 75.0, weatherCode(90, 0, 5, 0, 0, 0, 0, 10000, 0, 1))
	assert.Equal(t, 67.0, weatherCode(90, 0, 5, 0, 0, 600, -5, 10000, 2, 1))
	assert.Equal(t, 3.0, weatherCode(95, 0, 0, 0, 0, 0, 0, 10000, 0, 1))
	assert.Equal(t, 0.0, weatherCode(5, 0, 0, 0, 0, 0, 0, 10000, 0, 1))
}

func TestWeatherCode_Thunderstorm_RequiresCapeAndLiftedIndex(t *testing.T) {
	assert.Equal(t, 95.0, weatherCode(90, 1, 0, 0, 0, 600, -5, 10000, 0, 1))
	assert.Equal(t, 99.0, weatherCode(90, 10, 0, 0, 0, 600, -5, 10000, 0, 1))
}

func TestWeatherCode_Rain_CoversAllSixRates(t *testing.T) {
	assert.Equal(t, 51.0, weatherCode(90, 0.05, 0, 0, 0, 0, 0, 10000, 0, 1))
	assert.Equal(t, 53.0, weatherCode(90, 0.2, 0, 0, 0, 0, 0, 10000, 0, 1))
	assert.Equal(t, 55.0, weatherCode(90, 0.4, 0, 0, 0, 0, 0, 10000, 0, 1))
	assert.Equal(t, 61.0, weatherCode(90, 1.0, 0, 0, 0, 0, 0, 10000, 0, 1))
	assert.Equal(t, 63.0, weatherCode(90, 5.0, 0, 0, 0, 0, 0, 10000, 0, 1))
	assert.Equal(t, 65.0, weatherCode(90, 10.0, 0, 0, 0, 0, 0, 10000, 0, 1))
}

func TestSlingoCloudCover_ClampedAndMonotonic(t *testing.T) {
	assert.Equal(t, 0.0, slingoCloudCover(40))
	assert.Equal(t, 0.0, slingoCloudCover(60))
	full := slingoCloudCover(100)
	assert.InDelta(t, 100.0, full, 1e-9)
	assert.Less(t, slingoCloudCover(75), slingoCloudCover(90))
}

func TestRelativeHumidityFromDewPoint_EqualAtSaturation(t *testing.T) {
	assert.InDelta(t, 100.0, relativeHumidityFromDewPoint(15, 15), 1e-9)
	assert.Less(t, relativeHumidityFromDewPoint(20, 5), relativeHumidityFromDewPoint(20, 15))
}

func TestDewPointFromMagnus_RoundTripsThroughRelativeHumidity(t *testing.T) {
	const tempC = 18.0
	for _, rh := range []float64{30, 55, 90, 100} {
		td := dewPointFromMagnus(tempC, rh)
		assert.InDelta(t, rh, relativeHumidityFromDewPoint(tempC, td), 1e-6)
	}
	assert.InDelta(t, tempC, dewPointFromMagnus(tempC, 100), 1e-9)
}
