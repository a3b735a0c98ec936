// Package domains holds the concrete Domain registrations the seamless
// selector's (C8) region and family tables name — icon_global, icon_eu,
// icon_d2, gfs_global, hrrr, and the rest — grounded the way the teacher's
// models/dwd/icon.go and models/noaa/gfs.go hard-code one model's grid and
// archive layout, generalised here to one entry per domain in a table
// instead of one Go file per model family.
package domains

import (
	"context"
	"fmt"
	"time"

	"github.com/Klomgor/open-meteo/internal/openmeteo/archive"
	"github.com/Klomgor/open-meteo/internal/openmeteo/domain"
	"github.com/Klomgor/open-meteo/internal/openmeteo/grid"
	"github.com/Klomgor/open-meteo/internal/openmeteo/logging"
	"github.com/Klomgor/open-meteo/internal/openmeteo/runtime"
)

// spec definitions below give each entry a plausible grid and cadence for
// its real-world namesake; they are illustrative, not a literal
// reproduction of any one provider's published grid description.
const hour3d = int64(3 * 24 * 3600) // 3-day chunk length, seconds

type config struct {
	name          string
	grid          grid.Grid
	dt            int64
	chunkLength   int64
	updateCadence time.Duration
	scale         float64 // Int16ScaledDecoder.Scale for this domain's store
	maxCacheBytes int64
}

func catalog() []config {
	return []config{
		{
			name:          "icon_global",
			grid:          grid.RegularLatLon{Nx: 2880, Ny: 1441, LatMin: -90, LonMin: -180, Dx: 0.125, Dy: 0.125},
			dt:            3600,
			chunkLength:   hour3d,
			updateCadence: 6 * time.Hour,
			scale:         20,
			maxCacheBytes: 512 << 20,
		},
		{
			name:          "icon_eu",
			grid:          grid.Rotated{Nx: 1377, Ny: 657, LatMin: -23.5, LonMin: -30.0, Dx: 0.0625, Dy: 0.0625, PoleLat: -90, PoleLon: -170},
			dt:            3600,
			chunkLength:   hour3d,
			updateCadence: 3 * time.Hour,
			scale:         20,
			maxCacheBytes: 256 << 20,
		},
		{
			name:          "icon_d2",
			grid:          grid.Rotated{Nx: 1215, Ny: 746, LatMin: -6.3, LonMin: -3.9, Dx: 0.02, Dy: 0.02, PoleLat: -90, PoleLon: -170},
			dt:            3600,
			chunkLength:   int64(24 * 3600),
			updateCadence: 3 * time.Hour,
			scale:         20,
			maxCacheBytes: 256 << 20,
		},
		{
			name:          "icon_d2_15min",
			grid:          grid.Rotated{Nx: 1215, Ny: 746, LatMin: -6.3, LonMin: -3.9, Dx: 0.02, Dy: 0.02, PoleLat: -90, PoleLon: -170},
			dt:            900,
			chunkLength:   int64(24 * 3600),
			updateCadence: 3 * time.Hour,
			scale:         20,
			maxCacheBytes: 256 << 20,
		},
		{
			name:          "gfs_global",
			grid:          grid.RegularLatLon{Nx: 1440, Ny: 721, LatMin: -90, LonMin: -180, Dx: 0.25, Dy: 0.25},
			dt:            3600,
			chunkLength:   hour3d,
			updateCadence: 6 * time.Hour,
			scale:         20,
			maxCacheBytes: 512 << 20,
		},
		{
			name: "hrrr",
			grid: grid.NewLambertConformalConic(1799, 1059, 3000, 3000,
				-97.5, 38.5, 38.5, 38.5, 6371229, 899, 529),
			dt:            3600,
			chunkLength:   int64(24 * 3600),
			updateCadence: time.Hour,
			scale:         20,
			maxCacheBytes: 256 << 20,
		},
		{
			name: "arome",
			grid: grid.NewLambertConformalConic(1536, 1536, 1300, 1300,
				2.0, 46.5, 46.5, 46.5, 6371229, 768, 768),
			dt:            3600,
			chunkLength:   int64(24 * 3600),
			updateCadence: 3 * time.Hour,
			scale:         20,
			maxCacheBytes: 256 << 20,
		},
		{
			name:          "arpege",
			grid:          grid.NewReducedGaussian(720, 18, 4),
			dt:            3600,
			chunkLength:   hour3d,
			updateCadence: 6 * time.Hour,
			scale:         20,
			maxCacheBytes: 256 << 20,
		},
		{
			name:          "knmi_harmonie",
			grid:          grid.LambertAzimuthalEqualArea{Nx: 300, Ny: 300, Dx: 2500, Dy: 2500, Lat0: 52.0, Lon0: 5.0, Radius: 6371229, X0: 150, Y0: 150},
			dt:            3600,
			chunkLength:   int64(24 * 3600),
			updateCadence: time.Hour,
			scale:         20,
			maxCacheBytes: 128 << 20,
		},
		{
			name:          "metno_nordic",
			grid:          grid.PolarStereographic{Nx: 737, Ny: 949, Dx: 2500, Dy: 2500, Hemisphere: 1, LonOrigin: -25, TrueScaleLat: 60, Radius: 6371229, X0: 368, Y0: 474},
			dt:            3600,
			chunkLength:   int64(24 * 3600),
			updateCadence: time.Hour,
			scale:         20,
			maxCacheBytes: 128 << 20,
		},
		{
			name:          "jma_msm",
			grid:          grid.RegularLatLon{Nx: 481, Ny: 505, LatMin: 22.4, LonMin: 120.0, Dx: 0.0625, Dy: 0.05},
			dt:            3600,
			chunkLength:   int64(24 * 3600),
			updateCadence: 3 * time.Hour,
			scale:         20,
			maxCacheBytes: 128 << 20,
		},
		{
			name:          "icon_global_probability",
			grid:          grid.RegularLatLon{Nx: 1440, Ny: 721, LatMin: -90, LonMin: -180, Dx: 0.25, Dy: 0.25},
			dt:            3600,
			chunkLength:   hour3d,
			updateCadence: 12 * time.Hour,
			scale:         100, // already a 0..1 probability, finer scale
			maxCacheBytes: 128 << 20,
		},
		{
			name:          "gfs_global_probability",
			grid:          grid.RegularLatLon{Nx: 1440, Ny: 721, LatMin: -90, LonMin: -180, Dx: 0.25, Dy: 0.25},
			dt:            3600,
			chunkLength:   hour3d,
			updateCadence: 12 * time.Hour,
			scale:         100,
			maxCacheBytes: 128 << 20,
		},
	}
}

// numChunkWorkers is the concurrent chunk-fetch worker count each domain's
// ChunkCache runs.
const numChunkWorkers = 8

// selectCatalog filters catalog entries down to the requested domain names,
// preserving catalog order. An empty/nil selected registers every catalog
// entry — the default when --domains is not passed. Each requested name
// must match a catalog entry, so a typo fails fast at startup rather than
// silently registering nothing for it.
func selectCatalog(all []config, selected []string) ([]config, error) {
	if len(selected) == 0 {
		return all, nil
	}

	byName := make(map[string]config, len(all))
	for _, cfg := range all {
		byName[cfg.name] = cfg
	}

	out := make([]config, 0, len(selected))
	for _, name := range selected {
		cfg, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("domains: unknown domain %q", name)
		}
		out = append(out, cfg)
	}
	return out, nil
}

// RegisterAll opens a local Store per domain rooted at rootDir (object keys
// carry the "<domain>/" prefix, so files sit under rootDir/<domain>), loads each
// domain's static elevation/soil-type raster, registers the Domain in the
// process-wide domain registry, and attaches every domain to a fresh
// runtime.Registry. selected restricts registration to those domain names
// (SPEC_FULL.md's --domains flag); nil or empty registers every catalog
// entry. It shares one archive.Metrics across every domain's ChunkCache,
// since prometheus.MustRegister panics on a second registration of the same
// metric name — one counter set accumulates across domains rather than
// per-domain duplicates.
func RegisterAll(ctx context.Context, rootDir string, selected []string) (*runtime.Registry, error) {
	cfgs, err := selectCatalog(catalog(), selected)
	if err != nil {
		return nil, err
	}

	metrics := archive.NewMetrics()
	registry := runtime.New()

	for _, cfg := range cfgs {
		store, err := archive.OpenLocalStore(
			rootDir,
			cfg.name,
			cfg.chunkLength,
			nil,
			archive.Int16ScaledDecoder{Scale: cfg.scale},
			metrics,
		)
		if err != nil {
			return nil, fmt.Errorf("domains: opening store for %s: %w", cfg.name, err)
		}

		d := &domain.Domain{
			Name:          cfg.name,
			Grid:          cfg.grid,
			Dt:            cfg.dt,
			UpdateCadence: cfg.updateCadence,
			ChunkLength:   cfg.chunkLength,
		}

		elevation, err := store.LoadStaticRaster(ctx, d.ElevationObjectKey(), archive.Int16ScaledDecoder{Scale: 1})
		if err != nil {
			return nil, fmt.Errorf("domains: loading elevation for %s: %w", cfg.name, err)
		}
		soilType, err := store.LoadStaticRaster(ctx, d.SoilTypeObjectKey(), archive.Int16ScaledDecoder{Scale: 1})
		if err != nil {
			return nil, fmt.Errorf("domains: loading soil type for %s: %w", cfg.name, err)
		}
		d.Elevation = elevation
		d.SoilType = soilType
		d = domain.Register(d)

		cache := archive.NewChunkCache(store, cfg.maxCacheBytes, numChunkWorkers, metrics)
		registry.RegisterDomain(d.Name, cache, map[int]*archive.Store{0: store})

		logging.Log.Info().Msgf("registered domain %s", d.Name)
	}

	return registry, nil
}
