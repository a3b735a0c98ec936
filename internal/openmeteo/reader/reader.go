// Package reader implements component C5 (spec §4.5): combining a domain's
// grid, archive store, and cache behind one fixed coordinate into a
// variable-at-a-time, dt-at-a-time accessor, applying elevation correction
// and the scale/unit post-processing spec §4.4 assigns to the reader rather
// than the decoder.
package reader

import (
	"context"
	"fmt"
	"math"

	"github.com/Klomgor/open-meteo/internal/openmeteo/apperr"
	"github.com/Klomgor/open-meteo/internal/openmeteo/archive"
	"github.com/Klomgor/open-meteo/internal/openmeteo/domain"
	"github.com/Klomgor/open-meteo/internal/openmeteo/grid"
	"github.com/Klomgor/open-meteo/internal/openmeteo/interpolate"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/Klomgor/open-meteo/internal/openmeteo/units"
	"github.com/Klomgor/open-meteo/internal/openmeteo/variable"
)

// lapseRate is the moist/dry-compromise environmental lapse rate spec §4.4
// names explicitly for elevation correction, 0.0065 K/m.
const lapseRate = 0.0065

// PointSelection selects how a coordinate resolves to a grid point (spec
// §4.5 "selection={nearest, terrainOptimised}").
type PointSelection int

const (
	Nearest PointSelection = iota
	TerrainOptimised
)

// Method records which code path Get took for a single call, exposed on
// Result for tests rather than logged per call — the hot path must not
// allocate or emit a log line per element.
type Method int

const (
	MethodRead Method = iota
	MethodReadAndInterpolate
)

func (m Method) String() string {
	if m == MethodReadAndInterpolate {
		return "readAndInterpolate"
	}
	return "read"
}

// Result is what Get returns: the requested-dt sample sequence, its unit,
// and which path produced it.
type Result struct {
	Data   []float64
	Unit   units.Unit
	Method Method
}

// Accessor is the common trait every component that can answer "get this
// variable over this time range" satisfies: a single-domain *Reader
// directly, and mixer.Mixer by delegating across its ordered reader list.
// The derived-variable engine (C6) is written against this interface so it
// never has to know whether it is reading through one domain or a mixed
// stack of them.
type Accessor interface {
	Get(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) (Result, error)
	Prefetch(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange)
}

// StaticKind selects which static raster StaticLookup reads, per spec §6's
// `static_lookup(reader, kind ∈ {elevation, soil_type})`.
type StaticKind int

const (
	StaticElevation StaticKind = iota
	StaticSoilType
)

// neighbourer is implemented by every concrete grid kind's Neighbours3x3
// method (grid.Grid itself does not carry it, since the 3x3 enumeration is
// kind-specific — see internal/openmeteo/grid). Reader type-asserts for it
// only when PointSelection is TerrainOptimised.
type neighbourer interface {
	Neighbours3x3(grid.Point) []grid.Point
}

// Reader is a single-domain, single-coordinate accessor (spec §4.5's
// `init(domain, lat, lon, elevation, selection, options) → Reader | none`).
type Reader struct {
	domain *domain.Domain
	cache  *archive.ChunkCache

	// stores is keyed by ensembleMember; member 0 must always be present.
	// Spec §4.5 "ensembleMember routes to a disjoint file family" — each
	// member beyond 0 is a wholly separate Store rooted at its own archive
	// path, supplied by the caller (domain construction, not this package,
	// owns how member stores are discovered).
	stores map[int]*archive.Store

	point Point

	lat, lon          float64
	modelElevation    float64
	hasModelElevation bool
	targetElevation   float64
}

// Point is exported so callers (the mixer, tests) can see which grid point
// a Reader resolved to without re-running FindPoint themselves.
type Point = grid.Point

// New implements spec §4.5's reader construction. It returns ok=false when
// the coordinate cannot be placed on d.Grid at all.
func New(d *domain.Domain, cache *archive.ChunkCache, stores map[int]*archive.Store, lat, lon, targetElevation float64, selection PointSelection) (*Reader, bool) {
	var point grid.Point
	var modelElev float64
	var hasElev bool
	var resolved bool

	if selection == TerrainOptimised {
		if n, ok := d.Grid.(neighbourer); ok && d.Elevation != nil {
			p, elev, found := grid.FindPointTerrainOptimised(d.Grid, n.Neighbours3x3, d.Elevation, lat, lon, targetElevation)
			if !found {
				return nil, false
			}
			point = p
			resolved = true
			if !math.IsNaN(elev) {
				modelElev, hasElev = elev, true
			}
		}
	}

	if !resolved {
		p, ok := d.Grid.FindPoint(lat, lon)
		if !ok {
			return nil, false
		}
		point = p
		if d.Elevation != nil {
			if e, ok := d.Elevation.Elevation(point); ok {
				modelElev, hasElev = e, true
			}
		}
	}

	return &Reader{
		domain:            d,
		cache:             cache,
		stores:            stores,
		point:             point,
		lat:               lat,
		lon:               lon,
		modelElevation:    modelElev,
		hasModelElevation: hasElev,
		targetElevation:   targetElevation,
	}, true
}

// GridPoint returns the grid point this reader resolved to.
func (r *Reader) GridPoint() grid.Point { return r.point }

// Get implements spec §4.5's `get(variable, timeRange) → (data, unit)`:
// selects read or readAndInterpolate depending on whether timeRange.Dt
// matches the domain's native dt, applies scaling and elevation correction.
func (r *Reader) Get(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) (Result, error) {
	desc, ok := variable.Resolve(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", apperr.ErrUnknownVariable, name)
	}

	store := r.storeFor(ensembleMember)
	if store == nil {
		return Result{}, fmt.Errorf("reader: no store for ensemble member %d", ensembleMember)
	}

	lat, lon := r.lat, r.lon
	loc := interpolate.Location{Latitude: lat, Longitude: lon}

	var data []float64
	var method Method

	if tr.Dt == r.domain.Dt {
		method = MethodRead
		raw, err := archive.Read(ctx, r.cache, store, desc.StorageKey, subLevel, r.domain.Dt, tr)
		if err != nil {
			return Result{}, err
		}
		data = raw
	} else {
		method = MethodReadAndInterpolate
		var nativeRange timeutil.TimeRange
		if desc.Interp.IsAggregating() {
			nativeRange = tr.ForAggregationTo(r.domain.Dt, desc.Interp)
		} else {
			nativeRange = tr.ForInterpolationTo(r.domain.Dt, desc.Interp)
		}
		raw, err := archive.Read(ctx, r.cache, store, desc.StorageKey, subLevel, r.domain.Dt, nativeRange)
		if err != nil {
			return Result{}, err
		}
		data = interpolate.Interpolate(desc.Interp, desc.Bounds, raw, nativeRange, tr, loc)
	}

	if desc.PostDecodeConvert != nil {
		for i, v := range data {
			if !math.IsNaN(v) {
				data[i] = desc.PostDecodeConvert(v)
			}
		}
	}

	if desc.ElevationCorrectable && desc.Unit == units.Celsius {
		r.applyElevationCorrection(data)
	}

	return Result{Data: data, Unit: desc.Unit, Method: method}, nil
}

// applyElevationCorrection implements spec §4.4: "for variables flagged
// isElevationCorrectable and unit Celsius, when both model and target
// elevations are finite and differ, add (modelElevation - targetElevation)
// * 0.0065 K to every sample."
func (r *Reader) applyElevationCorrection(data []float64) {
	if !r.hasModelElevation || math.IsNaN(r.targetElevation) || math.IsNaN(r.modelElevation) {
		return
	}
	if r.modelElevation == r.targetElevation {
		return
	}
	delta := (r.modelElevation - r.targetElevation) * lapseRate
	for i, v := range data {
		if !math.IsNaN(v) {
			data[i] = v + delta
		}
	}
}

// Prefetch implements spec §4.5's `prefetch(variable, timeRange)`: calls
// willNeed with the expanded time range, matching Get's own range
// expansion so a subsequent Get is a cache hit.
func (r *Reader) Prefetch(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) {
	desc, ok := variable.Resolve(name)
	if !ok {
		return
	}
	store := r.storeFor(ensembleMember)
	if store == nil {
		return
	}
	if tr.Dt == r.domain.Dt {
		archive.Prefetch(ctx, r.cache, store, desc.StorageKey, subLevel, r.domain.Dt, tr)
		return
	}
	var nativeRange timeutil.TimeRange
	if desc.Interp.IsAggregating() {
		nativeRange = tr.ForAggregationTo(r.domain.Dt, desc.Interp)
	} else {
		nativeRange = tr.ForInterpolationTo(r.domain.Dt, desc.Interp)
	}
	archive.Prefetch(ctx, r.cache, store, desc.StorageKey, subLevel, r.domain.Dt, nativeRange)
}

// StaticLookup implements spec §6's `static_lookup(reader, kind) -> float|none`.
// A false ok return means the domain carries no file for that kind — spec
// §7 StaticFileMissing: "elevation correction is skipped; static_lookup
// returns none", never an error.
func (r *Reader) StaticLookup(kind StaticKind) (float64, bool) {
	switch kind {
	case StaticElevation:
		if !r.hasModelElevation {
			return 0, false
		}
		return r.modelElevation, true
	case StaticSoilType:
		if r.domain.SoilType == nil {
			return 0, false
		}
		return r.domain.SoilType.Elevation(r.point)
	default:
		return 0, false
	}
}

func (r *Reader) storeFor(ensembleMember int) *archive.Store {
	if s, ok := r.stores[ensembleMember]; ok {
		return s
	}
	return r.stores[0]
}
