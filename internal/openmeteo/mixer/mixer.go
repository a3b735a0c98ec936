// Package mixer implements component C7 (spec §4.7): composing an ordered
// list of single-domain readers into one seamless accessor. For each
// requested sample, the highest-priority reader with non-NaN data wins;
// cumulative variables get an additive offset correction at the boundary
// where the winning reader changes, so the fused series stays continuous.
// Mixer satisfies reader.Accessor itself (Get/Prefetch), so it can be
// nested — a "best_match" stack can mix a region's own seamless mixer in
// alongside a single overlay domain — and so the derived-variable engine
// (C6) can compute derived variables directly over the mixed raw series,
// matching spec §2's control-flow note "C8 picks readers → C7 wraps them →
// per variable, C6 decomposes into raw reads".
package mixer

import (
	"context"
	"math"
	"sync"

	"github.com/Klomgor/open-meteo/internal/openmeteo/apperr"
	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/Klomgor/open-meteo/internal/openmeteo/units"
	"github.com/Klomgor/open-meteo/internal/openmeteo/variable"
)

// Member is one entry in a Mixer's ordered reader list.
type Member struct {
	Name     string // domain/reader identity, for diagnostics only
	Accessor reader.Accessor
}

// Mixer holds an ordered tuple of readers, index 0 = lowest priority
// (coarsest/least preferred), last index = highest priority (spec §3
// "Mixer state": "highest-priority last (rightmost overrides)").
type Mixer struct {
	members []Member
}

// New builds a Mixer from members in ascending priority order. Spec §4.7
// bullet 3: a probability reader, when present, is always prepended to the
// head of the list (lowest priority) so it only fills variables the
// deterministic members never answer for.
func New(members []Member, probability *Member) *Mixer {
	ordered := members
	if probability != nil {
		ordered = make([]Member, 0, len(members)+1)
		ordered = append(ordered, *probability)
		ordered = append(ordered, members...)
	}
	return &Mixer{members: ordered}
}

// Members returns the ordered reader list, for the seamless selector (C8)
// and tests to inspect composition without re-deriving it.
func (mx *Mixer) Members() []Member { return mx.members }

// Get implements spec §4.7: for each sample, iterate from highest to
// lowest priority and take the first non-NaN value; apply offset
// correction for cumulative variables at a winner boundary.
func (mx *Mixer) Get(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) (reader.Result, error) {
	if len(mx.members) == 0 {
		return reader.Result{}, apperr.ErrOutsideGrid
	}

	results := make([]reader.Result, len(mx.members))
	errs := make([]error, len(mx.members))
	var wg sync.WaitGroup
	for i, mem := range mx.members {
		wg.Add(1)
		go func(i int, mem Member) {
			defer wg.Done()
			res, err := mem.Accessor.Get(ctx, name, subLevel, ensembleMember, tr)
			results[i] = res
			errs[i] = err
		}(i, mem)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return reader.Result{}, err
		}
	}

	n := tr.Count()
	out := make([]float64, n)
	winner := make([]int, n)
	var unit units.Unit
	for i := 0; i < n; i++ {
		out[i] = math.NaN()
		winner[i] = -1
		for j := len(mx.members) - 1; j >= 0; j-- {
			v := sampleAt(results[j], i)
			if !math.IsNaN(v) {
				out[i] = v
				winner[i] = j
				if unit == "" {
					unit = results[j].Unit
				}
				break
			}
		}
	}
	if unit == "" {
		for _, r := range results {
			if r.Unit != "" {
				unit = r.Unit
				break
			}
		}
	}

	if desc, ok := variable.Resolve(name); ok && desc.OffsetCorrectedMix {
		applyOffsetCorrection(out, winner, results)
	}

	return reader.Result{Data: out, Unit: unit}, nil
}

// Prefetch implements spec §4.7's implied prefetch-through-the-stack:
// forward to every member concurrently so a subsequent Get across the
// whole mixed window is warm everywhere it might win.
func (mx *Mixer) Prefetch(ctx context.Context, name string, subLevel, ensembleMember int, tr timeutil.TimeRange) {
	var wg sync.WaitGroup
	for _, mem := range mx.members {
		wg.Add(1)
		go func(mem Member) {
			defer wg.Done()
			mem.Accessor.Prefetch(ctx, name, subLevel, ensembleMember, tr)
		}(mem)
	}
	wg.Wait()
}

// StaticLookup implements spec §6's static_lookup over a mixed stack: the
// highest-priority member that has the static raster wins, consistent with
// Get's own precedence rule.
func (mx *Mixer) StaticLookup(kind reader.StaticKind) (float64, bool) {
	for j := len(mx.members) - 1; j >= 0; j-- {
		if sl, ok := mx.members[j].Accessor.(interface {
			StaticLookup(reader.StaticKind) (float64, bool)
		}); ok {
			if v, ok := sl.StaticLookup(kind); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func sampleAt(r reader.Result, i int) float64 {
	if i < 0 || i >= len(r.Data) {
		return math.NaN()
	}
	return r.Data[i]
}

// applyOffsetCorrection implements spec §4.7 bullet 2: "when the winning
// reader changes across consecutive timestamps, apply an additive
// correction so that the transition is C⁰: shift = value_prev_winner -
// value_new_winner at the crossover step, applied to all subsequent
// samples from the new winner until its own data ends."
func applyOffsetCorrection(out []float64, winner []int, results []reader.Result) {
	activeWinner := -1
	var shift float64
	for i := 0; i < len(out); i++ {
		w := winner[i]
		if w == -1 {
			activeWinner = -1
			continue
		}
		if i > 0 && winner[i-1] != -1 && winner[i-1] != w {
			prevVal := sampleAt(results[winner[i-1]], i)
			newVal := sampleAt(results[w], i)
			if !math.IsNaN(prevVal) && !math.IsNaN(newVal) {
				shift = prevVal - newVal
				activeWinner = w
			} else {
				activeWinner = -1
			}
		}
		if activeWinner == w {
			out[i] += shift
		}
	}
}
