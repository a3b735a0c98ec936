package archive

import (
	"context"
	"fmt"
	"math"

	"github.com/Klomgor/open-meteo/internal/openmeteo/apperr"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

// Read implements spec §4.2's `read(variable, location, subLevel,
// timeRange) → [float]`, for a single grid point already resolved by the
// caller (archive has no notion of a grid — see internal/openmeteo/grid
// and internal/openmeteo/reader). It always returns exactly tr.Count()
// samples; missing chunks fill with NaN but never shorten the result
// (spec §4.2 invariant).
func Read(ctx context.Context, cache *ChunkCache, store *Store, variable string, subLevel int, dt int64, tr timeutil.TimeRange) ([]float64, error) {
	out := make([]float64, tr.Count())
	for i := range out {
		out[i] = math.NaN()
	}

	if mr := store.masterRange; mr != nil && mr.Contains(tr.Start) && mr.Contains(tr.Start+int64(tr.Count()-1)*tr.Dt) {
		raw, err := cache.Get(ctx, variable, subLevel, masterChunkIndex)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return out, nil
		}
		samples, err := store.decoder.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: master file for %s/%s: %v", apperr.ErrDecode, store.domain, variable, err)
		}
		scatter(out, samples, mr.Start, dt, tr.Start)
		return out, nil
	}

	lastTs := tr.Start + int64(tr.Count()-1)*tr.Dt
	chunkIdxStart := tr.Start / store.chunkLength
	chunkIdxEnd := lastTs / store.chunkLength
	for ci := chunkIdxStart; ci <= chunkIdxEnd; ci++ {
		raw, err := cache.Get(ctx, variable, subLevel, ci)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			continue // missing chunk: leave this span as NaN.
		}
		samples, err := store.decoder.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d for %s/%s: %v", apperr.ErrDecode, ci, store.domain, variable, err)
		}
		scatter(out, samples, ci*store.chunkLength, dt, tr.Start)
	}
	return out, nil
}

// scatter copies samples (starting at unix time originTs, spaced dt
// seconds apart) into out wherever they fall within [trStart,
// trStart+len(out)*dt).
func scatter(out []float64, samples []float64, originTs, dt, trStart int64) {
	for i, v := range samples {
		ts := originTs + int64(i)*dt
		if ts < trStart {
			continue
		}
		idx := (ts - trStart) / dt
		if idx < 0 || int(idx) >= len(out) {
			continue
		}
		out[idx] = v
	}
}

// Prefetch implements spec §4.2's `willNeed` advisory hint: safe to call
// redundantly, warms the cache without returning data.
func Prefetch(ctx context.Context, cache *ChunkCache, store *Store, variable string, subLevel int, dt int64, tr timeutil.TimeRange) {
	if mr := store.masterRange; mr != nil && mr.Contains(tr.Start) && mr.Contains(tr.Start+int64(tr.Count()-1)*tr.Dt) {
		go func() { _, _ = cache.Get(ctx, variable, subLevel, masterChunkIndex) }()
		return
	}
	lastTs := tr.Start + int64(tr.Count()-1)*tr.Dt
	chunkIdxStart := tr.Start / store.chunkLength
	chunkIdxEnd := lastTs / store.chunkLength
	for ci := chunkIdxStart; ci <= chunkIdxEnd; ci++ {
		ci := ci
		go func() { _, _ = cache.Get(ctx, variable, subLevel, ci) }()
	}
}
