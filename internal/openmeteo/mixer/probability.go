package mixer

import (
	"context"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

// DefaultQuantile is the quantile an EnsembleProbability reader reports
// when the seamless selector (C8) attaches one without an explicit
// override — the ensemble median, spec §1's "quantile aggregations,
// ensemble probabilities" purpose statement's simplest instance.
const DefaultQuantile = 0.5

// EnsembleProbability is the probability reader spec §4.7 bullet 3
// describes: it wraps one domain's reader.Reader across its ensemble-
// member store family and, per requested sample, reports a quantile of
// the member spread rather than any single member's value. It satisfies
// reader.Accessor, so a mixer.Mixer can carry it as an ordinary (lowest-
// priority) member.
type EnsembleProbability struct {
	reader   *reader.Reader
	members  []int
	quantile float64
}

// NewEnsembleProbability builds an EnsembleProbability over r's ensemble
// members (ensembleMember IDs r.Get/Prefetch already route to distinct
// Store entries for). quantile is clamped to [0,1]; callers needing a
// probability-of-exceedance rather than a quantile compute it themselves
// from repeated calls at different quantiles, or threshold the member
// results directly — this type covers the "aggregate the spread into one
// series" half of spec §1's purpose statement, not a full exceedance API,
// which the core's scope (spec §1 Non-goals) does not call for.
func NewEnsembleProbability(r *reader.Reader, members []int, quantile float64) *EnsembleProbability {
	if quantile < 0 {
		quantile = 0
	}
	if quantile > 1 {
		quantile = 1
	}
	ordered := append([]int{}, members...)
	sort.Ints(ordered)
	return &EnsembleProbability{reader: r, members: ordered, quantile: quantile}
}

// Get fetches name across every ensemble member concurrently, then for
// each output sample computes the configured quantile of the members that
// have data at that sample (gonum's stat.Quantile requires its input
// sorted ascending, hence the per-sample sort below).
func (e *EnsembleProbability) Get(ctx context.Context, name string, subLevel, _ int, tr timeutil.TimeRange) (reader.Result, error) {
	if len(e.members) == 0 {
		return reader.Result{}, nil
	}

	results := make([]reader.Result, len(e.members))
	errs := make([]error, len(e.members))
	var wg sync.WaitGroup
	for i, m := range e.members {
		wg.Add(1)
		go func(i, m int) {
			defer wg.Done()
			res, err := e.reader.Get(ctx, name, subLevel, m, tr)
			results[i] = res
			errs[i] = err
		}(i, m)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return reader.Result{}, err
		}
	}

	n := tr.Count()
	out := make([]float64, n)
	var unit reader.Result
	for _, r := range results {
		if r.Unit != "" {
			unit = r
			break
		}
	}

	sample := make([]float64, 0, len(results))
	for i := 0; i < n; i++ {
		sample = sample[:0]
		for _, r := range results {
			if i < len(r.Data) && !math.IsNaN(r.Data[i]) {
				sample = append(sample, r.Data[i])
			}
		}
		if len(sample) == 0 {
			out[i] = math.NaN()
			continue
		}
		sort.Float64s(sample)
		out[i] = stat.Quantile(e.quantile, stat.Empirical, sample, nil)
	}

	return reader.Result{Data: out, Unit: unit.Unit}, nil
}

// Prefetch forwards to every ensemble member concurrently.
func (e *EnsembleProbability) Prefetch(ctx context.Context, name string, subLevel, _ int, tr timeutil.TimeRange) {
	var wg sync.WaitGroup
	for _, m := range e.members {
		wg.Add(1)
		go func(m int) {
			defer wg.Done()
			e.reader.Prefetch(ctx, name, subLevel, m, tr)
		}(m)
	}
	wg.Wait()
}

// StaticLookup delegates to the wrapped reader — the ensemble members of
// one probability domain share a single grid and static rasters.
func (e *EnsembleProbability) StaticLookup(kind reader.StaticKind) (float64, bool) {
	return e.reader.StaticLookup(kind)
}

var _ reader.Accessor = (*EnsembleProbability)(nil)
