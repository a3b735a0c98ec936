package httpapi

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klomgor/open-meteo/internal/openmeteo/archive"
	"github.com/Klomgor/open-meteo/internal/openmeteo/domain"
	"github.com/Klomgor/open-meteo/internal/openmeteo/grid"
	"github.com/Klomgor/open-meteo/internal/openmeteo/runtime"
)

// newTestRegistry registers one domain ("httpapi_test_domain") with a
// single fixture chunk, matching the seamless package's own
// single-domain-token test setup, so /forecast can be exercised against a
// real, though tiny, archive.
func newTestRegistry(t *testing.T) *runtime.Registry {
	t.Helper()
	root := t.TempDir()
	const dt = int64(3600)
	g := grid.RegularLatLon{Nx: 4, Ny: 4, LatMin: 45, LonMin: 5, Dx: 1, Dy: 1}
	d := &domain.Domain{Name: "httpapi_test_domain", Grid: g, Dt: dt, ChunkLength: dt * 6}
	domain.Register(d)

	path := filepath.Join(root, d.Name, "temperature_2m", "chunk_0.dat")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, archive.EncodeInt16Scaled([]float64{1, 2, 3, 4, 5, 6}, 10), 0o644))

	store, err := archive.OpenLocalStore(root, d.Name, d.ChunkLength, nil, archive.Int16ScaledDecoder{Scale: 10}, archive.NewMetricsForTesting())
	require.NoError(t, err)
	cache := archive.NewChunkCache(store, 1<<20, 2, archive.NewMetricsForTesting())

	registry := runtime.New()
	registry.RegisterDomain(d.Name, cache, map[int]*archive.Store{0: store})
	return registry
}

func TestHandleForecast_MissingVariables_BadRequest(t *testing.T) {
	srv := New(newTestRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/forecast?lat=46&lon=8&model=httpapi_test_domain&start=0&end=21600", nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleForecast_InvalidLatitude_BadRequest(t *testing.T) {
	srv := New(newTestRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/forecast?lat=200&lon=8&variables=temperature_2m&start=0&end=3600", nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleForecast_UnknownModel_NotFound(t *testing.T) {
	srv := New(newTestRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/forecast?lat=46&lon=8&model=does_not_exist&variables=temperature_2m&start=0&end=3600", nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleForecast_ValidRequest_ReturnsData(t *testing.T) {
	srv := New(newTestRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/forecast?lat=46&lon=8&model=httpapi_test_domain&variables=temperature_2m&start=0&end=21600&dt=3600", nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Equal(t, []string{"a", "b"}, splitCSV("a, b"))
	assert.Equal(t, []string{"temperature_2m"}, splitCSV("temperature_2m"))
}
