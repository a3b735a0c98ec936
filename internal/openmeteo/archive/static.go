package archive

import (
	"context"
	"fmt"
	"io"
	"math"

	"gocloud.dev/gcerrors"

	"github.com/Klomgor/open-meteo/internal/openmeteo/apperr"
	"github.com/Klomgor/open-meteo/internal/openmeteo/grid"
)

// StaticRaster is a whole-grid, grid-point-indexed raster loaded once at
// start-up — the static elevation and soil-type files spec §3 lists
// alongside each Domain's grid. It implements grid.ElevationProvider
// directly so a Domain's Elevation/SoilType fields can point at one
// unchanged after load.
type StaticRaster struct {
	values []float64
}

// LoadStaticRaster reads key from s's own bucket in full and decodes it
// with decoder, so a domain's static elevation/soil-type file lives in the
// same bucket as its chunked archive rather than a second, separately
// opened one. A missing object (spec §7 StaticFileMissing) is not an
// error: it returns a StaticRaster with no points, so every Elevation
// lookup against it reports ok=false rather than the caller having to
// special-case a nil raster.
func (s *Store) LoadStaticRaster(ctx context.Context, key string, decoder ChunkDecoder) (*StaticRaster, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return &StaticRaster{}, nil
		}
		return nil, fmt.Errorf("archive: opening static raster %s: %w", key, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("archive: reading static raster %s: %w", key, err)
	}

	values, err := decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: static raster %s: %v", apperr.ErrDecode, key, err)
	}
	return &StaticRaster{values: values}, nil
}

// Elevation implements grid.ElevationProvider.
func (s *StaticRaster) Elevation(p grid.Point) (float64, bool) {
	if s == nil || int(p) < 0 || int(p) >= len(s.values) {
		return 0, false
	}
	v := s.values[p]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

var _ grid.ElevationProvider = (*StaticRaster)(nil)
