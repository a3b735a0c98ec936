// Package derived implements component C6: a declarative per-variable table
// mapping a derived variable to its raw (or derived) prerequisites and a
// pure compute function, plus the two operations spec §4.6 names,
// Prefetch and Get. Prerequisite reads fan out concurrently through
// golang.org/x/sync/errgroup and join before the compute function runs, so
// the compute function always sees aligned, fully-populated slices.
package derived

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/Klomgor/open-meteo/internal/openmeteo/apperr"
	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/Klomgor/open-meteo/internal/openmeteo/units"
)

// Location carries the coordinate a derivation's compute function needs to
// consult the shared solar-position primitive (is_day and the radiation
// family).
type Location struct {
	Latitude, Longitude float64
}

// ComputeFn evaluates one derived variable from its prerequisite slices, in
// the same order as Definition.Prerequisites, all aligned to tr. It must be
// pure and must not allocate per element beyond the single output slice.
type ComputeFn func(inputs [][]float64, tr timeutil.TimeRange, loc Location) []float64

// Definition is the declarative table entry spec §4.6 calls for: a derived
// variable's prerequisite list, its compute function, and the unit the
// result carries.
type Definition struct {
	Name          string
	Prerequisites []string
	Compute       ComputeFn
	Unit          units.Unit
}

var registry = make(map[string]Definition)

// Register adds a derived-variable definition to the process-wide table.
// Intended for package-level init() calls only, mirroring
// internal/openmeteo/variable.Register's construction discipline.
func Register(d Definition) Definition {
	registry[d.Name] = d
	return d
}

// Lookup returns a derived definition by canonical name.
func Lookup(name string) (Definition, bool) {
	d, ok := registry[name]
	return d, ok
}

// IsDerived reports whether name has a registered derived-variable
// definition, distinguishing a raw Accessor.Get call from a recursive
// derived one.
func IsDerived(name string) bool {
	_, ok := registry[name]
	return ok
}

// Prefetch implements spec §4.6's `prefetch(derived, timeRange)`: enumerates
// the static prerequisite set and forwards prefetches, recursing through
// this same function for prerequisites that are themselves derived (spec
// S4 "requesting derived apparent_temperature... prefetches exactly
// {t2m, u10, v10, rh2m, swrad}; no other raw variable is read").
func Prefetch(ctx context.Context, acc reader.Accessor, name string, tr timeutil.TimeRange) {
	def, ok := registry[name]
	if !ok {
		acc.Prefetch(ctx, name, 0, 0, tr)
		return
	}
	for _, p := range def.Prerequisites {
		if IsDerived(p) {
			Prefetch(ctx, acc, p, tr)
		} else {
			acc.Prefetch(ctx, p, 0, 0, tr)
		}
	}
}

// Get implements spec §4.6's `get(derived, timeRange) → (data, unit)`: reads
// every prerequisite concurrently, joins, then applies the compute function
// element-wise. Spec §5 "within one derived-variable computation, all raw
// prerequisites are fetched concurrently but the compute function only runs
// when all have completed" — that join point is errgroup.Wait.
func Get(ctx context.Context, acc reader.Accessor, name string, loc Location, tr timeutil.TimeRange) (reader.Result, error) {
	def, ok := registry[name]
	if !ok {
		return reader.Result{}, fmt.Errorf("%w: %s", apperr.ErrUnknownVariable, name)
	}

	inputs := make([][]float64, len(def.Prerequisites))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range def.Prerequisites {
		i, p := i, p
		g.Go(func() error {
			if IsDerived(p) {
				res, err := Get(gctx, acc, p, loc, tr)
				if err != nil {
					return err
				}
				inputs[i] = res.Data
				return nil
			}
			res, err := acc.Get(gctx, p, 0, 0, tr)
			if err != nil {
				return err
			}
			inputs[i] = res.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reader.Result{}, err
	}

	return reader.Result{Data: def.Compute(inputs, tr, loc), Unit: def.Unit}, nil
}

// elementwise applies fn to every aligned tuple across inputs, propagating
// NaN whenever any input at that index is NaN — the shared pattern every
// compute function below uses so an upstream read gap degrades one sample
// rather than the whole derivation (spec §7 "one variable's failure must
// not poison other variables").
func elementwise(inputs [][]float64, fn func(vals []float64) float64) []float64 {
	if len(inputs) == 0 {
		return nil
	}
	n := len(inputs[0])
	out := make([]float64, n)
	vals := make([]float64, len(inputs))
	for i := 0; i < n; i++ {
		anyNaN := false
		for j, in := range inputs {
			if i >= len(in) {
				anyNaN = true
				break
			}
			vals[j] = in[i]
			if math.IsNaN(vals[j]) {
				anyNaN = true
			}
		}
		if anyNaN {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(vals)
	}
	return out
}
