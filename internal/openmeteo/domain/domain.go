// Package domain implements spec §3's Domain data model and the
// process-wide domain registry spec §9 calls for ("Global registries...
// become process-wide singletons with explicit construction at program
// start and explicit shutdown"). A Domain bundles a grid, native time
// step, update cadence, chunk length, and static-file pointers; once
// registered it is never mutated — readers only ever read through it.
package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Klomgor/open-meteo/internal/openmeteo/grid"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

// Domain is a named model source with a fixed grid, native time step,
// update cadence, chunk length along the time axis, and pointers to
// static files (spec §3).
type Domain struct {
	Name string
	Grid grid.Grid

	Dt            int64 // native time step, seconds (600, 900, 3600, 10800, 21600 typical)
	UpdateCadence time.Duration
	ChunkLength   int64 // L, seconds

	MasterFileRange *timeutil.TimeRange // nil when the domain has no monolithic master file

	Elevation ElevationSet // per-point static elevation, for terrain matching and lapse-rate correction
	SoilType  ElevationSet // per-point static soil-type code, spec §6 static_lookup(kind=soil_type)

	// Clock is overridable in tests; production Domains use
	// clockwork.NewRealClock(), matching the teacher's own
	// jonboulle/clockwork-style time-source indirection (see
	// couchcryptid-storm-data-etl-service/internal/domain/clock.go, the
	// closest pack precedent for this pattern).
	Clock clockwork.Clock
}

// ElevationSet is satisfied by a domain's static elevation file reader; it
// is the grid.ElevationProvider the grid package's
// FindPointTerrainOptimised consumes, kept as its own named interface here
// so domain doesn't need to import the archive package just to spell the
// type it holds a handle to.
type ElevationSet interface {
	grid.ElevationProvider
}

// MostRecentRun returns the start time of the most recently completed
// model run, aligned down to d.UpdateCadence, using d.Clock (or the real
// clock if unset). Spec §3 lists "update cadence" as domain metadata;
// resolving "most recent run" from it is what the mixer/seamless layers
// need before they can pick which run's archive files to read.
func (d *Domain) MostRecentRun() time.Time {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if d.UpdateCadence <= 0 {
		return clock.Now().UTC()
	}
	now := clock.Now().UTC()
	cadence := d.UpdateCadence
	floored := now.Truncate(cadence)
	return floored
}

// ElevationObjectKey and SoilTypeObjectKey follow spec §6's disk layout
// "<root>/<domain-key>/static/HSURF.dat", "soil_type.dat".
func (d *Domain) ElevationObjectKey() string {
	return fmt.Sprintf("%s/static/HSURF.dat", d.Name)
}

func (d *Domain) SoilTypeObjectKey() string {
	return fmt.Sprintf("%s/static/soil_type.dat", d.Name)
}

// registry is the process-wide domain table, populated once at program
// start (spec §9) and read-only thereafter (spec §5 "All domain registry
// entries are read-only after process initialization").
type registry struct {
	mu   sync.RWMutex
	byID map[string]*Domain
}

var global = &registry{byID: make(map[string]*Domain)}

// Register adds a domain to the process-wide registry. Intended to be
// called during program start-up only; registering the same name twice
// replaces the prior entry, which is deliberately allowed so tests can
// re-register fixtures without restarting the process.
func Register(d *Domain) *Domain {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.byID[d.Name] = d
	return d
}

// Get looks up a registered domain by name.
func Get(name string) (*Domain, bool) {
	global.mu.RLock()
	defer global.mu.RUnlock()
	d, ok := global.byID[name]
	return d, ok
}

// All returns every registered domain, for the seamless selector (C8) to
// enumerate when composing a model family's reader hierarchy.
func All() []*Domain {
	global.mu.RLock()
	defer global.mu.RUnlock()
	out := make([]*Domain, 0, len(global.byID))
	for _, d := range global.byID {
		out = append(out, d)
	}
	return out
}
