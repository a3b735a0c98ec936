package derived

// weatherCode implements spec §6's rule table: the first matching rule, in
// the declared order, fires and produces a WMO code. dtHours converts the
// backward-summed amounts (precipitation, snowfall, freezing rain) into
// hourly rates for the threshold comparisons.
func weatherCode(cloudCoverPct, precipMm, snowfallCm, showersMm, windGustsMs, cape, liftedIndex, visibilityM, freezingRainMm, dtHours float64) float64 {
	if dtHours <= 0 {
		dtHours = 1
	}
	precipRate := precipMm / dtHours
	snowRate := snowfallCm / dtHours
	showerRate := showersMm / dtHours
	freezingRate := freezingRainMm / dtHours

	switch {
	case freezingRate > 0:
		if freezingRate >= 1.0 {
			return 67
		}
		return 66
	case cape > 500 && liftedIndex < -4:
		switch {
		case precipRate >= 8:
			return 99
		case precipRate >= 4:
			return 96
		default:
			return 95
		}
	case snowRate > 0:
		switch {
		case snowRate < 1.0:
			return 71
		case snowRate < 2.5:
			return 73
		default:
			return 75
		}
	case showerRate > 0:
		switch {
		case showerRate < 2.5:
			return 80
		case showerRate < 7.6:
			return 81
		default:
			return 82
		}
	case precipRate > 0:
		switch {
		case precipRate < 0.1:
			return 51
		case precipRate < 0.3:
			return 53
		case precipRate < 0.5:
			return 55
		case precipRate < 2.5:
			return 61
		case precipRate < 7.6:
			return 63
		default:
			return 65
		}
	case visibilityM < 1000:
		if visibilityM < 400 {
			return 48
		}
		return 45
	default:
		switch {
		case cloudCoverPct <= 10:
			return 0
		case cloudCoverPct <= 50:
			return 1
		case cloudCoverPct <= 90:
			return 2
		default:
			return 3
		}
	}
}
