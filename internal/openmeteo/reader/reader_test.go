package reader

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
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

type fakeElevation struct {
	byPoint map[grid.Point]float64
}

func (f fakeElevation) Elevation(p grid.Point) (float64, bool) {
	v, ok := f.byPoint[p]
	return v, ok
}

func writeFixtureChunk(t *testing.T, root, dom, variable string, chunkIndex int64, samples []float64, scale float64) {
	t.Helper()
	key := filepath.Join(dom, variable, "chunk_"+itoa(chunkIndex)+".dat")
	path := filepath.Join(root, key)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, archive.EncodeInt16Scaled(samples, scale), 0o644))
}

func itoa(v int64) string {
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

func testGrid() grid.RegularLatLon {
	return grid.RegularLatLon{Nx: 4, Ny: 4, LatMin: 45, LonMin: 5, Dx: 1, Dy: 1}
}

func newTestDomain(t *testing.T, dt int64) (*domain.Domain, string) {
	t.Helper()
	root := t.TempDir()
	g := testGrid()
	pt, ok := g.FindPoint(46, 8)
	require.True(t, ok)

	d := &domain.Domain{
		Name:        "testdomain",
		Grid:        g,
		Dt:          dt,
		ChunkLength: dt * 6,
		Elevation:   fakeElevation{byPoint: map[grid.Point]float64{pt: 1000}},
	}
	return d, root
}

func newStoreAndCache(t *testing.T, root string, d *domain.Domain) (*archive.Store, *archive.ChunkCache) {
	t.Helper()
	store, err := archive.OpenLocalStore(root, d.Name, d.ChunkLength, nil, archive.Int16ScaledDecoder{Scale: 10}, archive.NewMetricsForTesting())
	require.NoError(t, err)
	cache := archive.NewChunkCache(store, 1<<20, 2, archive.NewMetricsForTesting())
	return store, cache
}

func TestNew_OutsideGridReturnsNotOk(t *testing.T) {
	d, root := newTestDomain(t, 3600)
	_, cache := newStoreAndCache(t, root, d)
	_, ok := New(d, cache, nil, 89, 8, 1000, Nearest)
	assert.False(t, ok)
}

func TestGet_NativeDt_ExactRead(t *testing.T) {
	const dt = int64(3600)
	d, root := newTestDomain(t, dt)
	store, cache := newStoreAndCache(t, root, d)
	writeFixtureChunk(t, root, d.Name, "temperature_2m", 0, []float64{1, 2, 3, 4, 5, 6}, 10)

	r, ok := New(d, cache, map[int]*archive.Store{0: store}, 46, 8, 1000, Nearest)
	require.True(t, ok)

	tr, err := timeutil.NewTimeRange(0, 6*dt, dt)
	require.NoError(t, err)

	res, err := r.Get(context.Background(), "temperature_2m", 0, 0, tr)
	require.NoError(t, err)
	assert.Equal(t, MethodRead, res.Method)
	require.Len(t, res.Data, 6)
}

func TestGet_ElevationCorrection_AddsLapseRateDelta(t *testing.T) {
	const dt = int64(3600)
	d, root := newTestDomain(t, dt)
	store, cache := newStoreAndCache(t, root, d)
	writeFixtureChunk(t, root, d.Name, "temperature_2m", 0, []float64{10, 10, 10, 10, 10, 10}, 10)

	r, ok := New(d, cache, map[int]*archive.Store{0: store}, 46, 8, 0, Nearest) // model elev 1000, target 0
	require.True(t, ok)

	tr, err := timeutil.NewTimeRange(0, 6*dt, dt)
	require.NoError(t, err)

	res, err := r.Get(context.Background(), "temperature_2m", 0, 0, tr)
	require.NoError(t, err)
	// delta = (1000 - 0) * 0.0065 = 6.5
	for _, v := range res.Data {
		assert.InDelta(t, 16.5, v, 1e-9)
	}
}

func TestGet_UnknownVariable(t *testing.T) {
	const dt = int64(3600)
	d, root := newTestDomain(t, dt)
	store, cache := newStoreAndCache(t, root, d)

	r, ok := New(d, cache, map[int]*archive.Store{0: store}, 46, 8, 1000, Nearest)
	require.True(t, ok)

	tr, err := timeutil.NewTimeRange(0, dt, dt)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), "not_a_real_variable", 0, 0, tr)
	assert.Error(t, err)
}

func TestGet_InterpolatedPath_UsesReadAndInterpolate(t *testing.T) {
	const nativeDt = int64(3600)
	d, root := newTestDomain(t, nativeDt)
	store, cache := newStoreAndCache(t, root, d)
	writeFixtureChunk(t, root, d.Name, "surface_pressure", 0, []float64{1000, 1010, 1020, 1030, 1040, 1050}, 10)

	r, ok := New(d, cache, map[int]*archive.Store{0: store}, 46, 8, 1000, Nearest)
	require.True(t, ok)

	tr, err := timeutil.NewTimeRange(0, 2*nativeDt, nativeDt/2)
	require.NoError(t, err)

	res, err := r.Get(context.Background(), "surface_pressure", 0, 0, tr)
	require.NoError(t, err)
	assert.Equal(t, MethodReadAndInterpolate, res.Method)
	// Post-decode conversion Pa -> hPa should have been applied.
	for _, v := range res.Data {
		assert.False(t, math.IsNaN(v))
		assert.Less(t, v, 20.0)
	}
}
