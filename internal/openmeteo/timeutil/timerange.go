// Package timeutil implements the time-range algebra described in spec §4.3
// (component C3): describing a read window as (start, end, dt) and expanding
// it to a model's native step for interpolation, aggregation, or
// backward-average semantics. All arithmetic is integer seconds since epoch,
// UTC only — time-zone display is handled outside the core.
package timeutil

import "fmt"

// InterpolationKind mirrors the kinds in spec §4.4. It lives here rather
// than in package interpolate so that TimeRange's padding/step math (which
// only needs to know how many neighbouring native samples a kind consumes,
// not how it blends them) doesn't need to import the interpolation engine.
type InterpolationKind int

const (
	Linear InterpolationKind = iota
	LinearDegrees
	Hermite
	SolarBackwardsAveraged
	SolarBackwardsMissingNotAveraged
	BackwardsSum
	Backwards
)

// Padding returns the number of native samples a kind needs on each side of
// the requested window to interpolate correctly (spec §4.4 "Padding" column).
func (k InterpolationKind) Padding() int {
	switch k {
	case Hermite, SolarBackwardsAveraged, SolarBackwardsMissingNotAveraged:
		return 2
	default:
		return 1
	}
}

// IsAggregating reports whether a kind sums/averages over sub-steps rather
// than point-sampling them. Point-sampling kinds (Linear, LinearDegrees,
// Hermite, Backwards) pass forAggregationTo through unchanged; the
// summing/averaging kinds (BackwardsSum and the solar kinds, which integrate
// over the window) extend the start.
func (k InterpolationKind) IsAggregating() bool {
	switch k {
	case BackwardsSum, SolarBackwardsAveraged, SolarBackwardsMissingNotAveraged:
		return true
	default:
		return false
	}
}

// TimeRange is a closed-start/open-end half-line [Start, End) in
// seconds-since-epoch, aligned to Dt. Count is the number of dt-steps it
// covers.
type TimeRange struct {
	Start int64
	End   int64
	Dt    int64
}

// NewTimeRange checks that dt is positive and that end-start is a whole
// number of dt steps, and constructs a TimeRange covering [start, end) at
// step dt. Start itself is not checked for alignment to dt.
func NewTimeRange(start, end, dt int64) (TimeRange, error) {
	if dt <= 0 {
		return TimeRange{}, fmt.Errorf("timeutil: dt must be positive, got %d", dt)
	}
	if end < start {
		return TimeRange{}, fmt.Errorf("timeutil: end %d before start %d", end, start)
	}
	if (end-start)%dt != 0 {
		return TimeRange{}, fmt.Errorf("timeutil: span %d not a multiple of dt %d", end-start, dt)
	}
	return TimeRange{Start: start, End: end, Dt: dt}, nil
}

// Count returns the number of dt-sized steps in the range.
func (t TimeRange) Count() int {
	if t.Dt == 0 {
		return 0
	}
	return int((t.End - t.Start) / t.Dt)
}

// At returns the timestamp of the i-th step.
func (t TimeRange) At(i int) int64 { return t.Start + int64(i)*t.Dt }

// Contains reports whether timestamp ts falls inside [Start, End).
func (t TimeRange) Contains(ts int64) bool { return ts >= t.Start && ts < t.End }

// floorTo snaps ts down to the nearest multiple of d.
func floorTo(ts, d int64) int64 {
	if ts >= 0 {
		return (ts / d) * d
	}
	return -(((-ts) + d - 1) / d) * d
}

// ceilTo snaps ts up to the nearest multiple of d.
func ceilTo(ts, d int64) int64 {
	f := floorTo(ts, d)
	if f == ts {
		return ts
	}
	return f + d
}

// ForInterpolationTo expands the range to the model's native dt boundaries
// and pads both ends by the interpolation kernel's left/right sample count,
// per spec §4.3.
//
// The end side always gains one extra modelDt step beyond ceil(End) even
// at padding=1: TimeRange's End is exclusive, so the native sample lying
// exactly at the bracket's upper edge (the "hi" neighbour every
// point-sampling kind's bracket() needs, not just the tangent samples
// hermite's padding>1 is for) would otherwise fall just outside the
// returned slice.
//
//	start' = floor(Start, modelDt) - modelDt*(padding-1)
//	end'   = ceil(End, modelDt)    + modelDt*padding
func (t TimeRange) ForInterpolationTo(modelDt int64, kind InterpolationKind) TimeRange {
	padding := int64(kind.Padding())
	start := floorTo(t.Start, modelDt) - modelDt*(padding-1)
	end := ceilTo(t.End, modelDt) + modelDt*padding
	return TimeRange{Start: start, End: end, Dt: modelDt}
}

// ForAggregationTo extends the start backward to cover the sub-steps a
// coarser requested dt aggregates over, per spec §4.3. Point-sampling kinds
// are returned unchanged (still re-aligned to modelDt boundaries).
func (t TimeRange) ForAggregationTo(modelDt int64, kind InterpolationKind) TimeRange {
	start := floorTo(t.Start, modelDt)
	end := ceilTo(t.End, modelDt)
	if !kind.IsAggregating() {
		return TimeRange{Start: start, End: end, Dt: modelDt}
	}
	steps := (t.Dt) / modelDt
	if steps < 1 {
		steps = 1
	}
	start -= modelDt * (steps - 1)
	return TimeRange{Start: start, End: end, Dt: modelDt}
}

// TimerangeDtAndSettings carries a time range plus the ensemble/day settings
// that select which file family or sub-dimension a read comes from (spec
// §3 "Derived objects").
type TimerangeDtAndSettings struct {
	Range              TimeRange
	EnsembleMember     int
	EnsembleMemberLevel int
	PreviousDay        int
}
