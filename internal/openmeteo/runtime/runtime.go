// Package runtime wires components C1-C8 into the four in-process
// operations spec §6 names as the core's external interface: OpenReader,
// Prefetch, Get, StaticLookup. It holds the per-domain ChunkCache and Store
// handles the CLI registers at start-up, mirroring the
// teacher's own single long-lived *IconModel/*GFSModel holding one
// NDFileManager each — generalised here to one Registry holding every
// domain's stores instead of one struct per model family.
package runtime

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/Klomgor/open-meteo/internal/openmeteo/archive"
	"github.com/Klomgor/open-meteo/internal/openmeteo/derived"
	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
	"github.com/Klomgor/open-meteo/internal/openmeteo/seamless"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

// StaticAccessor is satisfied by anything OpenReader returns —
// *mixer.Mixer today, a bare *reader.Reader for callers that bypass
// seamless selection entirely — letting StaticLookup work uniformly over
// either.
type StaticAccessor interface {
	reader.Accessor
	StaticLookup(reader.StaticKind) (float64, bool)
}

// Registry is the process-wide singleton spec §9 calls for ("Global
// registries... become process-wide singletons with explicit construction
// at program start and explicit shutdown"). Construct one per process via
// New; Shutdown drops every registered domain.
//
// archive.ChunkCache binds its fetch processor to one Store at
// construction (see archive.NewChunkCache) — a cache is therefore scoped
// to one domain's one ensemble-member file family, not shared globally
// across domains, so Registry tracks one seamless.DomainBackend per domain
// rather than one cache for the whole process.
type Registry struct {
	mu      sync.RWMutex
	domains map[string]*seamless.DomainBackend
}

// New constructs an empty Registry. Domain registrations themselves live
// in internal/openmeteo/domain and are assumed already populated; callers
// attach each domain's cache/stores via RegisterDomain during start-up.
func New() *Registry {
	return &Registry{domains: make(map[string]*seamless.DomainBackend)}
}

// RegisterDomain attaches a domain's ChunkCache and ensemble-member Store
// family to the registry. Member 0 of stores is the deterministic/primary
// store; spec §4.5 "ensembleMember routes to a disjoint file family" for
// members beyond 0.
func (r *Registry) RegisterDomain(domainName string, cache *archive.ChunkCache, stores map[int]*archive.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.domains[domainName] = &seamless.DomainBackend{Cache: cache, Stores: stores}
}

func (r *Registry) domainsSnapshot() map[string]*seamless.DomainBackend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*seamless.DomainBackend, len(r.domains))
	for k, v := range r.domains {
		out[k] = v
	}
	return out
}

// OpenReader implements spec §6's `open_reader(model_token, lat, lon,
// elevation?, selection) -> Reader | NoData`. elevationOverride, when
// non-nil, becomes the reader's targetElevation; nil means "default to
// modelElevation" (spec §3), signalled down to reader.New as NaN — it
// treats a NaN target the same as an equal-to-model target and skips the
// elevation-correction delta.
func (r *Registry) OpenReader(ctx context.Context, modelToken string, lat, lon float64, elevationOverride *float64, selection reader.PointSelection) (StaticAccessor, error) {
	targetElev := math.NaN()
	if elevationOverride != nil {
		targetElev = *elevationOverride
	}

	mx, err := seamless.Build(ctx, r.domainsSnapshot(), modelToken, lat, lon, targetElev, selection)
	if err != nil {
		return nil, err
	}
	return mx, nil
}

// Prefetch implements spec §6's `prefetch(reader, variable, time_range,
// settings) -> void`, routing through the derived-variable engine (C6)
// when name names a derived variable.
func (r *Registry) Prefetch(ctx context.Context, acc reader.Accessor, name string, tr timeutil.TimeRange) {
	if derived.IsDerived(name) {
		derived.Prefetch(ctx, acc, name, tr)
		return
	}
	acc.Prefetch(ctx, name, 0, 0, tr)
}

// Get implements spec §6's `get(reader, variable, time_range, settings) ->
// (floats, unit)`, routing through C6 for derived variables and straight
// to the accessor (a single Reader or a Mixer) for raw ones.
func (r *Registry) Get(ctx context.Context, acc reader.Accessor, name string, lat, lon float64, tr timeutil.TimeRange) (reader.Result, error) {
	if derived.IsDerived(name) {
		return derived.Get(ctx, acc, name, derived.Location{Latitude: lat, Longitude: lon}, tr)
	}
	res, err := acc.Get(ctx, name, 0, 0, tr)
	if err != nil {
		return reader.Result{}, fmt.Errorf("runtime: get %s: %w", name, err)
	}
	return res, nil
}

// StaticLookup implements spec §6's `static_lookup(reader, kind) ->
// float|none`.
func (r *Registry) StaticLookup(acc StaticAccessor, kind reader.StaticKind) (float64, bool) {
	if acc == nil {
		return 0, false
	}
	return acc.StaticLookup(kind)
}

// Shutdown releases every registered domain's chunk cache, spec §9
// "explicit shutdown (drain in-flight fetches, flush eviction)". Draining
// in-flight fetches themselves is requestcache.Deduplicate's job — it
// completes outstanding requests rather than cancelling them — so Shutdown
// only drops every registered domain backend. RegisterDomain still accepts
// registrations afterwards.
func (r *Registry) Shutdown(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.domains = make(map[string]*seamless.DomainBackend)
	return nil
}
