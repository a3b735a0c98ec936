// Package solar implements the solar-position primitives shared by the
// interpolator's solar-backwards-averaged kind (spec §4.4) and the
// radiation-family derived variables (spec §4.6: direct_radiation,
// direct_normal_irradiance, global_tilted_irradiance, is_day). No example in
// the retrieved pack carries a solar-position library, so this package is
// implemented directly against math — see DESIGN.md for the stdlib
// justification.
package solar

import "math"

const (
	solarConstant = 1367.0 // W/m^2, mean extraterrestrial irradiance
	degToRad      = math.Pi / 180.0
)

// dayFraction splits a unix timestamp into (daysSinceEpoch, fractionOfDay).
func dayFraction(unix int64) (int64, float64) {
	day := unix / 86400
	secOfDay := unix - day*86400
	return day, float64(secOfDay) / 86400.0
}

// julianCentury returns the Julian centuries since J2000.0 for unix time ts.
func julianCentury(ts int64) float64 {
	julianDay := float64(ts)/86400.0 + 2440587.5
	return (julianDay - 2451545.0) / 36525.0
}

// declinationAndEquationOfTime returns the solar declination (radians) and
// the equation of time (minutes) for the given unix timestamp, using the
// standard low-precision NOAA solar position approximation.
func declinationAndEquationOfTime(ts int64) (decl, eqTime float64) {
	t := julianCentury(ts)
	geomMeanLongSun := math.Mod(280.46646+t*(36000.76983+t*0.0003032), 360.0)
	geomMeanAnomSun := 357.52911 + t*(35999.05029-0.0001537*t)
	eccentEarthOrbit := 0.016708634 - t*(0.000042037+0.0000001267*t)

	gma := geomMeanAnomSun * degToRad
	sunEqOfCtr := math.Sin(gma)*(1.914602-t*(0.004817+0.000014*t)) +
		math.Sin(2*gma)*(0.019993-0.000101*t) +
		math.Sin(3*gma)*0.000289

	sunTrueLong := geomMeanLongSun + sunEqOfCtr
	sunAppLong := sunTrueLong - 0.00569 - 0.00478*math.Sin((125.04-1934.136*t)*degToRad)

	meanObliqEcliptic := 23.0 + (26.0+((21.448-t*(46.815+t*(0.00059-t*0.001813))))/60.0)/60.0
	obliqCorr := meanObliqEcliptic + 0.00256*math.Cos((125.04-1934.136*t)*degToRad)

	decl = math.Asin(math.Sin(obliqCorr*degToRad) * math.Sin(sunAppLong*degToRad))

	y := math.Tan((obliqCorr / 2) * degToRad)
	y *= y
	eqTime = 4 * (180 / math.Pi) * (y*math.Sin(2*geomMeanLongSun*degToRad) -
		2*eccentEarthOrbit*math.Sin(gma) +
		4*eccentEarthOrbit*y*math.Sin(gma)*math.Cos(2*geomMeanLongSun*degToRad) -
		0.5*y*y*math.Sin(4*geomMeanLongSun*degToRad) -
		1.25*eccentEarthOrbit*eccentEarthOrbit*math.Sin(2*gma))
	_ = eqTime
	return decl, eqTime
}

// CosZenith returns the cosine of the solar zenith angle at a given unix
// timestamp and geographic point. Negative values mean the sun is below the
// horizon.
func CosZenith(unix int64, latitude, longitude float64) float64 {
	decl, eqTime := declinationAndEquationOfTime(unix)
	_, frac := dayFraction(unix)

	trueSolarTimeMin := frac*1440.0 + eqTime + 4*longitude
	trueSolarTimeMin = math.Mod(trueSolarTimeMin, 1440.0)
	if trueSolarTimeMin < 0 {
		trueSolarTimeMin += 1440.0
	}

	hourAngleDeg := trueSolarTimeMin/4.0 - 180.0
	hourAngle := hourAngleDeg * degToRad

	latRad := latitude * degToRad
	cosZ := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(hourAngle)
	if cosZ > 1 {
		cosZ = 1
	}
	if cosZ < -1 {
		cosZ = -1
	}
	return cosZ
}

// ZenithAngle returns the solar zenith angle in degrees, clamped to [0,180].
func ZenithAngle(unix int64, latitude, longitude float64) float64 {
	cosZ := CosZenith(unix, latitude, longitude)
	return math.Acos(cosZ) / degToRad
}

// IsDay reports whether the sun is above the horizon at the given instant
// and location — backs the is_day derived variable (SPEC_FULL §8).
func IsDay(unix int64, latitude, longitude float64) bool {
	return CosZenith(unix, latitude, longitude) > 0
}

// ExtraterrestrialRadiation returns the instantaneous extraterrestrial
// irradiance (W/m^2) on a horizontal plane at the top of the atmosphere,
// accounting for the sun-earth distance and zenith angle. Returns 0 at
// night.
func ExtraterrestrialRadiation(unix int64, latitude, longitude float64) float64 {
	cosZ := CosZenith(unix, latitude, longitude)
	if cosZ <= 0 {
		return 0
	}
	dayOfYear := float64((unix/86400)%365) + 1
	eccentricityCorr := 1 + 0.033*math.Cos(2*math.Pi*dayOfYear/365.0)
	return solarConstant * eccentricityCorr * cosZ
}

// InstantaneousFromBackwardAverage disaggregates a backward-averaged surface
// radiation sample (the value represents the mean over the preceding
// nativeDt seconds, per spec glossary "Backwards-averaged") into an
// instantaneous clear-sky-shaped value at timestamp ts, by scaling the
// clear-sky curve's instantaneous-to-window-mean ratio. missingNotAveraged
// selects the solar-backwards-missing-not-averaged variant (spec §4.4): when
// true, a zero backward-average at night is treated as "no data" (returned
// unscaled) rather than as a true physical zero.
func InstantaneousFromBackwardAverage(backwardAvg float64, ts int64, nativeDt int64, latitude, longitude float64, missingNotAveraged bool) float64 {
	if missingNotAveraged && backwardAvg == 0 {
		return 0
	}
	windowMean := meanClearSky(ts-nativeDt, ts, latitude, longitude)
	instant := ExtraterrestrialRadiation(ts, latitude, longitude)
	if windowMean <= 0 {
		return 0
	}
	return backwardAvg * (instant / windowMean)
}

// meanClearSky averages ExtraterrestrialRadiation over [start,end) at a
// 60-second resolution, which is fine enough for the smoothly-varying
// zenith angle and cheap enough for a per-sample interpolation call.
func meanClearSky(start, end int64, latitude, longitude float64) float64 {
	const step = int64(60)
	if end <= start {
		return 0
	}
	var sum float64
	n := 0
	for ts := start; ts < end; ts += step {
		sum += ExtraterrestrialRadiation(ts, latitude, longitude)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ReintegrateOverWindow integrates an instantaneous-shaped radiation curve
// back into the requested window's backward average, the inverse of
// InstantaneousFromBackwardAverage, used when re-aggregating disaggregated
// samples to a coarser requested dt (spec §4.4).
func ReintegrateOverWindow(instantaneous []float64, sampleDt int64) float64 {
	if len(instantaneous) == 0 {
		return 0
	}
	var sum float64
	for _, v := range instantaneous {
		sum += v
	}
	return sum / float64(len(instantaneous))
}

// DiffuseFraction returns the Erbs-model fraction of global horizontal
// irradiance that is diffuse, given the clearness index kt = ghi/extraterrestrial.
func DiffuseFraction(kt float64) float64 {
	switch {
	case kt <= 0:
		return 1
	case kt <= 0.22:
		return 1 - 0.09*kt
	case kt <= 0.80:
		return 0.9511 - 0.1604*kt + 4.388*kt*kt - 16.638*kt*kt*kt + 12.336*kt*kt*kt*kt
	default:
		return 0.165
	}
}

// DirectNormalIrradiance projects direct horizontal irradiance to the plane
// normal to the sun's rays via the zenith angle (spec §4.6
// direct_normal_irradiance).
func DirectNormalIrradiance(directHorizontal float64, unix int64, latitude, longitude float64) float64 {
	cosZ := CosZenith(unix, latitude, longitude)
	if cosZ <= 0.01 {
		return 0
	}
	return directHorizontal / cosZ
}

// HayDaviesTiltedIrradiance composes global tilted irradiance on a surface
// with the given tilt and azimuth (both degrees, azimuth 0=north,
// clockwise) from its horizontal direct/diffuse/global components, using
// the Hay-Davies anisotropic sky model (spec §4.6
// global_tilted_irradiance).
func HayDaviesTiltedIrradiance(direct, diffuse, ghi float64, unix int64, latitude, longitude, tilt, azimuth float64) float64 {
	cosZ := CosZenith(unix, latitude, longitude)
	if cosZ <= 0.01 {
		return 0
	}
	extraterrestrial := ExtraterrestrialRadiation(unix, latitude, longitude)
	if extraterrestrial <= 0 {
		extraterrestrial = direct + diffuse
	}

	tiltRad := tilt * degToRad
	azimuthRad := azimuth * degToRad

	// sun position
	decl, _ := declinationAndEquationOfTime(unix)
	latRad := latitude * degToRad
	hourAngle := math.Acos(clamp((CosZenith(unix, latitude, longitude)-math.Sin(latRad)*math.Sin(decl))/(math.Cos(latRad)*math.Cos(decl)), -1, 1))
	sunAzimuth := solarAzimuth(unix, latitude, longitude, decl, hourAngle)

	cosIncidence := math.Cos(tiltRad)*cosZ + math.Sin(tiltRad)*math.Sqrt(clamp(1-cosZ*cosZ, 0, 1))*math.Cos(azimuthRad-sunAzimuth)
	cosIncidence = clamp(cosIncidence, 0, 1)

	anisotropyIdx := direct / extraterrestrial
	directTilted := direct * cosIncidence / cosZ
	if directTilted < 0 || math.IsNaN(directTilted) {
		directTilted = 0
	}

	skyDiffuseTilted := diffuse * ((1-anisotropyIdx)*(1+math.Cos(tiltRad))/2 + anisotropyIdx*cosIncidence/cosZ)
	groundReflected := ghi * 0.2 * (1 - math.Cos(tiltRad)) / 2

	total := directTilted + skyDiffuseTilted + groundReflected
	if total < 0 || math.IsNaN(total) {
		return 0
	}
	return total
}

func solarAzimuth(unix int64, latitude, longitude, decl, hourAngle float64) float64 {
	latRad := latitude * degToRad
	num := math.Sin(hourAngle)
	den := math.Cos(hourAngle)*math.Sin(latRad) - math.Tan(decl)*math.Cos(latRad)
	az := math.Atan2(num, den)
	deg := az/degToRad + 180
	return math.Mod(deg+360, 360) * degToRad
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
