// Package interpolate implements component C4 (spec §4.4): converting a
// native-dt sample sequence to a requested-dt sequence according to a
// per-variable interpolation kind.
package interpolate

import (
	"math"

	"github.com/Klomgor/open-meteo/internal/openmeteo/solar"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"gonum.org/v1/gonum/floats"
)

// Kind re-exports timeutil's enum so callers only need one import for the
// common case; timeutil owns the type to keep it dependency-free (see
// DESIGN.md).
type Kind = timeutil.InterpolationKind

const (
	Linear                           = timeutil.Linear
	LinearDegrees                    = timeutil.LinearDegrees
	Hermite                          = timeutil.Hermite
	SolarBackwardsAveraged           = timeutil.SolarBackwardsAveraged
	SolarBackwardsMissingNotAveraged = timeutil.SolarBackwardsMissingNotAveraged
	BackwardsSum                     = timeutil.BackwardsSum
	Backwards                        = timeutil.Backwards
)

// Bounds clamps hermite output, e.g. 0-100 for relative humidity (spec
// §4.4). A nil *Bounds means unbounded.
type Bounds struct {
	Min, Max float64
}

func (b *Bounds) clamp(v float64) float64 {
	if b == nil {
		return v
	}
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Location carries the coordinates the solar kinds need to disaggregate a
// backward-averaged radiation sample.
type Location struct {
	Latitude, Longitude float64
}

// Interpolate converts native (sampled at nativeRange.Dt, starting at
// nativeRange.Start) into a sequence sampled at requested.Dt over
// [requested.Start, requested.End). native must cover every native-dt step
// the requested window brackets, including the interpolation kind's padding
// (spec §4.3 ForInterpolationTo) — callers read exactly that expanded range
// before calling Interpolate. loc is only consulted by the two solar kinds.
func Interpolate(kind Kind, bounds *Bounds, native []float64, nativeRange, requested timeutil.TimeRange, loc Location) []float64 {
	if requested.Dt == nativeRange.Dt {
		return sliceExact(native, nativeRange, requested)
	}

	switch kind {
	case Linear:
		return linear(native, nativeRange, requested, false)
	case LinearDegrees:
		return linear(native, nativeRange, requested, true)
	case Hermite:
		return hermite(native, nativeRange, requested, bounds)
	case SolarBackwardsAveraged:
		return solarBackward(native, nativeRange, requested, loc, false)
	case SolarBackwardsMissingNotAveraged:
		return solarBackward(native, nativeRange, requested, loc, true)
	case BackwardsSum:
		return backwardsSum(native, nativeRange, requested)
	case Backwards:
		return backwardsReplicate(native, nativeRange, requested)
	default:
		return backwardsReplicate(native, nativeRange, requested)
	}
}

// sliceExact is the identity path used when requested.Dt == native's dt:
// spec §8 invariant 4 ("Interpolation idempotence").
func sliceExact(native []float64, nativeRange, requested timeutil.TimeRange) []float64 {
	out := make([]float64, requested.Count())
	for i := range out {
		ts := requested.At(i)
		idx := nativeIndex(nativeRange, ts)
		if idx < 0 || idx >= len(native) {
			out[i] = math.NaN()
			continue
		}
		out[i] = native[idx]
	}
	return out
}

func nativeIndex(nativeRange timeutil.TimeRange, ts int64) int {
	if nativeRange.Dt == 0 {
		return -1
	}
	d := ts - nativeRange.Start
	if d < 0 || d%nativeRange.Dt != 0 {
		return -1
	}
	return int(d / nativeRange.Dt)
}

// bracket returns the native sample indices (lo, hi) bracketing ts, and the
// fractional position frac in [0,1) between them.
func bracket(nativeRange timeutil.TimeRange, ts int64) (lo, hi int, frac float64) {
	d := ts - nativeRange.Start
	step := nativeRange.Dt
	loIdx := d / step
	if d%step != 0 && d < 0 {
		loIdx--
	}
	rem := d - loIdx*step
	frac = float64(rem) / float64(step)
	return int(loIdx), int(loIdx) + 1, frac
}

func at(native []float64, i int) float64 {
	if i < 0 || i >= len(native) {
		return math.NaN()
	}
	return native[i]
}

func linear(native []float64, nativeRange, requested timeutil.TimeRange, degrees bool) []float64 {
	out := make([]float64, requested.Count())
	for i := range out {
		ts := requested.At(i)
		lo, hi, frac := bracket(nativeRange, ts)
		a, b := at(native, lo), at(native, hi)
		if math.IsNaN(a) || math.IsNaN(b) {
			out[i] = math.NaN()
			continue
		}
		if degrees {
			out[i] = lerpDegrees(a, b, frac)
		} else {
			out[i] = a + (b-a)*frac
		}
	}
	return out
}

// lerpDegrees interpolates on a circular 0-360 domain via the shortest arc.
func lerpDegrees(a, b, frac float64) float64 {
	diff := math.Mod(b-a+540, 360) - 180
	result := math.Mod(a+diff*frac+360, 360)
	return result
}

// hermite performs cubic Hermite interpolation on the four consecutive
// native samples bracketing the requested timestamp, clamping to bounds.
func hermite(native []float64, nativeRange, requested timeutil.TimeRange, bounds *Bounds) []float64 {
	out := make([]float64, requested.Count())
	for i := range out {
		ts := requested.At(i)
		i1, i2, frac := bracket(nativeRange, ts)
		i0, i3 := i1-1, i2+1
		p0, p1, p2, p3 := at(native, i0), at(native, i1), at(native, i2), at(native, i3)
		if math.IsNaN(p1) || math.IsNaN(p2) {
			out[i] = math.NaN()
			continue
		}
		// Fall back to linear at the series edges where a neighbour is
		// missing, rather than propagating NaN from an out-of-range tangent.
		if math.IsNaN(p0) {
			p0 = p1
		}
		if math.IsNaN(p3) {
			p3 = p2
		}
		out[i] = bounds.clamp(cubicHermite(p0, p1, p2, p3, frac))
	}
	return out
}

// cubicHermite evaluates the Catmull-Rom-style cubic Hermite basis through
// p1..p2 with tangents estimated from the neighbours p0 and p3.
func cubicHermite(p0, p1, p2, p3, t float64) float64 {
	m1 := (p2 - p0) / 2
	m2 := (p3 - p1) / 2
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*p1 + h10*m1 + h01*p2 + h11*m2
}

// backwardsReplicate covers every requested sub-step with the value of the
// native step that covers it (spec glossary "backwards").
func backwardsReplicate(native []float64, nativeRange, requested timeutil.TimeRange) []float64 {
	out := make([]float64, requested.Count())
	for i := range out {
		ts := requested.At(i)
		idx := coveringIndex(nativeRange, ts)
		out[i] = at(native, idx)
	}
	return out
}

// coveringIndex returns the index of the native step whose half-open
// interval [start, start+dt) contains ts.
func coveringIndex(nativeRange timeutil.TimeRange, ts int64) int {
	d := ts - nativeRange.Start
	step := nativeRange.Dt
	idx := d / step
	if d%step != 0 && d < 0 {
		idx--
	}
	return int(idx)
}

// backwardsSum distributes each native-dt sum uniformly across requested
// sub-steps when disaggregating (requested.Dt < native dt), or sums member
// steps when aggregating to a coarser dt (requested.Dt > native dt).
func backwardsSum(native []float64, nativeRange, requested timeutil.TimeRange) []float64 {
	out := make([]float64, requested.Count())
	if requested.Dt <= nativeRange.Dt {
		ratio := float64(nativeRange.Dt) / float64(requested.Dt)
		for i := range out {
			ts := requested.At(i)
			idx := coveringIndex(nativeRange, ts)
			v := at(native, idx)
			if math.IsNaN(v) {
				out[i] = math.NaN()
				continue
			}
			out[i] = v / ratio
		}
		return out
	}
	// Aggregating: sum the native member-steps covering each requested step.
	membersPerStep := int(requested.Dt / nativeRange.Dt)
	for i := range out {
		start := requested.At(i)
		var sum float64
		any := false
		for j := 0; j < membersPerStep; j++ {
			idx := coveringIndex(nativeRange, start+int64(j)*nativeRange.Dt)
			v := at(native, idx)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			any = true
		}
		if !any {
			out[i] = math.NaN()
		} else {
			out[i] = sum
		}
	}
	return out
}

// solarBackward disaggregates backward-averaged native samples to
// instantaneous clear-sky-shaped values, then re-integrates over the
// requested window (spec §4.4).
func solarBackward(native []float64, nativeRange, requested timeutil.TimeRange, loc Location, missingNotAveraged bool) []float64 {
	// Step 1: disaggregate every native step into instantaneous samples at
	// the requested resolution (or native resolution if finer).
	fineDt := requested.Dt
	if nativeRange.Dt < fineDt {
		fineDt = nativeRange.Dt
	}
	if fineDt <= 0 {
		fineDt = requested.Dt
	}

	instStart := nativeRange.Start
	instEnd := nativeRange.End
	n := int((instEnd - instStart) / fineDt)
	instantaneous := make([]float64, n)
	for i := 0; i < n; i++ {
		ts := instStart + int64(i)*fineDt
		nativeIdx := coveringIndex(nativeRange, ts)
		backward := at(native, nativeIdx)
		if math.IsNaN(backward) {
			instantaneous[i] = math.NaN()
			continue
		}
		instantaneous[i] = solar.InstantaneousFromBackwardAverage(backward, ts+nativeRange.Dt, nativeRange.Dt, loc.Latitude, loc.Longitude, missingNotAveraged)
	}

	// Step 2: re-integrate into the requested dt windows.
	out := make([]float64, requested.Count())
	membersPerStep := int(requested.Dt / fineDt)
	if membersPerStep < 1 {
		membersPerStep = 1
	}
	for i := range out {
		ts := requested.At(i)
		startIdx := int((ts - instStart) / fineDt)
		var window []float64
		for j := 0; j < membersPerStep; j++ {
			idx := startIdx + j
			if idx < 0 || idx >= len(instantaneous) {
				continue
			}
			window = append(window, instantaneous[idx])
		}
		if len(window) == 0 || floats.HasNaN(window) {
			out[i] = math.NaN()
			continue
		}
		out[i] = solar.ReintegrateOverWindow(window, fineDt)
	}
	return out
}
