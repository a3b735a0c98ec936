package mixer

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klomgor/open-meteo/internal/openmeteo/archive"
	"github.com/Klomgor/open-meteo/internal/openmeteo/domain"
	"github.com/Klomgor/open-meteo/internal/openmeteo/grid"
	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/Klomgor/open-meteo/internal/openmeteo/units"
)

// fakeMember is a fixed-series stand-in for a reader.Reader, keyed by
// variable name so one fakeMember can stand in for several Get calls
// across a test.
type fakeMember struct {
	series map[string][]float64
	unit   units.Unit
	static map[reader.StaticKind]float64
}

func (f fakeMember) Get(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) (reader.Result, error) {
	d, ok := f.series[name]
	if !ok {
		return reader.Result{}, nil
	}
	return reader.Result{Data: d, Unit: f.unit}, nil
}

func (f fakeMember) Prefetch(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) {}

func (f fakeMember) StaticLookup(kind reader.StaticKind) (float64, bool) {
	v, ok := f.static[kind]
	return v, ok
}

func nan() float64 { return math.NaN() }

func mustRange(t *testing.T, n int) timeutil.TimeRange {
	t.Helper()
	tr, err := timeutil.NewTimeRange(0, int64(n)*3600, 3600)
	require.NoError(t, err)
	return tr
}

func TestMixer_Get_HighestPriorityWinsWhenBothPresent(t *testing.T) {
	low := fakeMember{series: map[string][]float64{"temperature_2m": {1, 1, 1}}}
	high := fakeMember{series: map[string][]float64{"temperature_2m": {9, 9, 9}}}

	mx := New([]Member{{Name: "coarse", Accessor: low}, {Name: "fine", Accessor: high}}, nil)
	res, err := mx.Get(context.Background(), "temperature_2m", 0, 0, mustRange(t, 3))
	require.NoError(t, err)
	for _, v := range res.Data {
		assert.Equal(t, 9.0, v)
	}
}

func TestMixer_Get_FallsBackWhenHighestPriorityIsNaN(t *testing.T) {
	low := fakeMember{series: map[string][]float64{"temperature_2m": {1, 2, 3}}}
	high := fakeMember{series: map[string][]float64{"temperature_2m": {nan(), nan(), 9}}}

	mx := New([]Member{{Name: "coarse", Accessor: low}, {Name: "fine", Accessor: high}}, nil)
	res, err := mx.Get(context.Background(), "temperature_2m", 0, 0, mustRange(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Data[0])
	assert.Equal(t, 2.0, res.Data[1])
	assert.Equal(t, 9.0, res.Data[2])
}

func TestMixer_Get_OffsetCorrectedMix_NoShiftWithoutOverlapAtBoundary(t *testing.T) {
	// snow_depth is registered OffsetCorrectedMix (spec §4.7 bullet 2):
	// when the winning reader changes, a boundary shift keeps the fused
	// series continuous rather than jumping by the two readers' raw
	// difference.
	coarse := fakeMember{series: map[string][]float64{"snow_depth": {10, 12, nan(), nan()}}}
	fine := fakeMember{series: map[string][]float64{"snow_depth": {nan(), nan(), 20, 22}}}

	mx := New([]Member{{Name: "coarse", Accessor: coarse}, {Name: "fine", Accessor: fine}}, nil)
	res, err := mx.Get(context.Background(), "snow_depth", 0, 0, mustRange(t, 4))
	require.NoError(t, err)

	// coarse has no sample at the crossover index i=2, so no shift can be
	// computed and the raw fine values pass through.
	assert.Equal(t, 10.0, res.Data[0])
	assert.Equal(t, 12.0, res.Data[1])
	assert.Equal(t, 20.0, res.Data[2])
	assert.Equal(t, 22.0, res.Data[3])
}

func TestMixer_Get_OffsetCorrectedMix_AppliesShiftWhenBothWinnersOverlap(t *testing.T) {
	coarse := fakeMember{series: map[string][]float64{"snow_depth": {10, 12, 14, nan()}}}
	fine := fakeMember{series: map[string][]float64{"snow_depth": {nan(), nan(), 20, 22}}}

	mx := New([]Member{{Name: "coarse", Accessor: coarse}, {Name: "fine", Accessor: fine}}, nil)
	res, err := mx.Get(context.Background(), "snow_depth", 0, 0, mustRange(t, 4))
	require.NoError(t, err)

	assert.Equal(t, 10.0, res.Data[0])
	assert.Equal(t, 12.0, res.Data[1])
	// crossover at i=2: shift = coarse[2](14) - fine[2](20) = -6, so the
	// corrected value matches the outgoing winner's own trajectory.
	assert.InDelta(t, 14.0, res.Data[2], 1e-9)
	assert.InDelta(t, 16.0, res.Data[3], 1e-9)
}

func TestMixer_Get_EmptyMixerIsOutsideGrid(t *testing.T) {
	mx := New(nil, nil)
	_, err := mx.Get(context.Background(), "temperature_2m", 0, 0, mustRange(t, 1))
	assert.Error(t, err)
}

func TestMixer_New_ProbabilityIsPrependedAsLowestPriority(t *testing.T) {
	prob := Member{Name: "prob", Accessor: fakeMember{series: map[string][]float64{"temperature_2m": {5}}}}
	det := Member{Name: "det", Accessor: fakeMember{series: map[string][]float64{"temperature_2m": {9}}}}

	mx := New([]Member{det}, &prob)
	members := mx.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "prob", members[0].Name)
	assert.Equal(t, "det", members[1].Name)

	res, err := mx.Get(context.Background(), "temperature_2m", 0, 0, mustRange(t, 1))
	require.NoError(t, err)
	assert.Equal(t, 9.0, res.Data[0], "deterministic member outranks the prepended probability member")
}

func TestMixer_StaticLookup_HighestPriorityWithDataWins(t *testing.T) {
	low := fakeMember{static: map[reader.StaticKind]float64{reader.StaticElevation: 100}}
	high := fakeMember{static: map[reader.StaticKind]float64{}}

	mx := New([]Member{{Name: "coarse", Accessor: low}, {Name: "fine", Accessor: high}}, nil)
	v, ok := mx.StaticLookup(reader.StaticElevation)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestNewEnsembleProbability_ComputesMedianAcrossMembers(t *testing.T) {
	const dt = int64(3600)
	root := t.TempDir()
	g := grid.RegularLatLon{Nx: 4, Ny: 4, LatMin: 45, LonMin: 5, Dx: 1, Dy: 1}
	d := &domain.Domain{Name: "ensembledomain", Grid: g, Dt: dt, ChunkLength: dt * 6}

	stores := map[int]*archive.Store{}
	members := []int{0, 1, 2}
	seriesByMember := map[int][]float64{
		0: {10, 20, 30},
		1: {50, 50, 50},
		2: {90, 80, 70},
	}
	for _, m := range members {
		memberRoot := filepath.Join(root, "member", itoaTest(int64(m)))
		writeFixtureChunkTest(t, memberRoot, d.Name, "cape", 0, seriesByMember[m], 10)
		store, err := archive.OpenLocalStore(memberRoot, d.Name, d.ChunkLength, nil, archive.Int16ScaledDecoder{Scale: 10}, archive.NewMetricsForTesting())
		require.NoError(t, err)
		stores[m] = store
	}
	cache := archive.NewChunkCache(stores[0], 1<<20, 2, archive.NewMetricsForTesting())

	r, ok := reader.New(d, cache, stores, 46, 8, 1000, reader.Nearest)
	require.True(t, ok)

	ep := NewEnsembleProbability(r, members, DefaultQuantile)
	res, err := ep.Get(context.Background(), "cape", 0, 0, mustRange(t, 3))
	require.NoError(t, err)
	// median of {10,50,90}, {20,50,80}, {30,50,70} is 50 at every sample.
	for _, v := range res.Data {
		assert.InDelta(t, 50.0, v, 1e-9)
	}
}

func TestNewEnsembleProbability_StaticLookupDelegatesToWrappedReader(t *testing.T) {
	const dt = int64(3600)
	root := t.TempDir()
	g := grid.RegularLatLon{Nx: 4, Ny: 4, LatMin: 45, LonMin: 5, Dx: 1, Dy: 1}
	pt, ok := g.FindPoint(46, 8)
	require.True(t, ok)
	d := &domain.Domain{
		Name: "ensembledomain2", Grid: g, Dt: dt, ChunkLength: dt * 6,
		Elevation: fakeElevationForTest{byPoint: map[grid.Point]float64{pt: 500}},
	}

	store, err := archive.OpenLocalStore(root, d.Name, d.ChunkLength, nil, archive.Int16ScaledDecoder{Scale: 10}, archive.NewMetricsForTesting())
	require.NoError(t, err)
	cache := archive.NewChunkCache(store, 1<<20, 2, archive.NewMetricsForTesting())

	r, ok := reader.New(d, cache, map[int]*archive.Store{0: store}, 46, 8, 1000, reader.Nearest)
	require.True(t, ok)

	ep := NewEnsembleProbability(r, []int{0}, DefaultQuantile)
	v, ok := ep.StaticLookup(reader.StaticElevation)
	require.True(t, ok)
	assert.Equal(t, 500.0, v)
}

type fakeElevationForTest struct {
	byPoint map[grid.Point]float64
}

func (f fakeElevationForTest) Elevation(p grid.Point) (float64, bool) {
	v, ok := f.byPoint[p]
	return v, ok
}

func writeFixtureChunkTest(t *testing.T, root, dom, variable string, chunkIndex int64, samples []float64, scale float64) {
	t.Helper()
	key := filepath.Join(dom, variable, "chunk_"+itoaTest(chunkIndex)+".dat")
	path := filepath.Join(root, key)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, archive.EncodeInt16Scaled(samples, scale), 0o644))
}

func itoaTest(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
