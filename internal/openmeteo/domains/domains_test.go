package domains

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
)

// domainDirNames mirrors catalog()'s entries. RegisterAll constructs
// exactly one archive.Metrics and registers it with the default Prometheus
// registry, which panics on a second registration within the same process
// — so this file exercises RegisterAll exactly once, across every
// assertion, rather than once per test function.
var domainDirNames = []string{
	"icon_global", "icon_eu", "icon_d2", "icon_d2_15min",
	"gfs_global", "hrrr", "arome", "arpege", "knmi_harmonie",
	"metno_nordic", "jma_msm", "icon_global_probability", "gfs_global_probability",
}

func TestRegisterAll(t *testing.T) {
	root := t.TempDir()
	for _, name := range domainDirNames {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
	}

	registry, err := RegisterAll(context.Background(), root, nil)
	require.NoError(t, err)
	require.NotNil(t, registry)

	t.Run("resolves a known global domain at any coordinate", func(t *testing.T) {
		_, err := registry.OpenReader(context.Background(), "icon_global", 46, 8, nil, reader.Nearest)
		assert.NoError(t, err)
	})

	t.Run("best_match composes the always-included global domains", func(t *testing.T) {
		acc, err := registry.OpenReader(context.Background(), "best_match", 0, 0, nil, reader.Nearest)
		require.NoError(t, err)
		assert.NotNil(t, acc)
	})

	t.Run("unknown model token with no matching domain fails", func(t *testing.T) {
		_, err := registry.OpenReader(context.Background(), "not_a_real_model", 46, 8, nil, reader.Nearest)
		assert.Error(t, err)
	})
}

// TestSelectCatalog exercises the --domains filtering logic directly,
// without constructing a runtime.Registry — RegisterAll itself can only
// run once per test binary (see the comment on domainDirNames above).
func TestSelectCatalog(t *testing.T) {
	all := catalog()

	t.Run("nil selection keeps every entry in catalog order", func(t *testing.T) {
		got, err := selectCatalog(all, nil)
		require.NoError(t, err)
		assert.Equal(t, all, got)
	})

	t.Run("named subset resolves in requested order", func(t *testing.T) {
		got, err := selectCatalog(all, []string{"gfs_global", "icon_global"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "gfs_global", got[0].name)
		assert.Equal(t, "icon_global", got[1].name)
	})

	t.Run("unknown domain name fails fast", func(t *testing.T) {
		_, err := selectCatalog(all, []string{"not_a_domain"})
		assert.Error(t, err)
	})
}
