package derived

import "math"

// saturationVaporPressure is the Magnus approximation of saturation vapour
// pressure over water, in hPa, for a Celsius temperature — the same
// relation spec §4.6 names for dew_point ("f_magnus(temperature_C,
// relative_humidity_percent)"), used here in both directions.
func saturationVaporPressure(tempC float64) float64 {
	return 6.1078 * math.Pow(10, (7.5*tempC)/(237.3+tempC))
}

// relativeHumidityFromDewPoint inverts the Magnus relation: RH is the ratio
// of the saturation vapour pressure at the dew point to the saturation
// vapour pressure at the actual temperature.
func relativeHumidityFromDewPoint(tempC, dewPointC float64) float64 {
	rh := 100 * saturationVaporPressure(dewPointC) / saturationVaporPressure(tempC)
	if rh < 0 {
		return 0
	}
	if rh > 100 {
		return 100
	}
	return rh
}

// dewPointFromMagnus solves the Magnus relation the other direction:
// dew point is the temperature at which the actual vapour pressure
// (saturation vapour pressure at air temperature times RH) equals the
// saturation vapour pressure.
func dewPointFromMagnus(tempC, rhPercent float64) float64 {
	if rhPercent < 0.01 {
		rhPercent = 0.01
	}
	gamma := math.Log10(rhPercent/100) + (7.5*tempC)/(237.3+tempC)
	return 237.3 * gamma / (7.5 - gamma)
}

// steadmanApparentTemperature composes the Steadman apparent-temperature
// family: dry-bulb temperature corrected for humidity (vapour pressure),
// wind chill, and a small downward shortwave-radiation load term.
func steadmanApparentTemperature(tempC, rhPercent, windSpeedMs, shortwaveWm2 float64) float64 {
	vaporPressure := (rhPercent / 100) * saturationVaporPressure(tempC)
	windTerm := 0.70 * windSpeedMs
	radiationTerm := 0.70 * (shortwaveWm2 / (windSpeedMs + 10))
	return tempC + 0.33*vaporPressure - windTerm + radiationTerm - 4.00
}

// vapourPressureDeficit is the difference between the saturation vapour
// pressure at air temperature and the actual vapour pressure, in hPa.
func vapourPressureDeficit(tempC, rhPercent float64) float64 {
	es := saturationVaporPressure(tempC)
	return es * (1 - rhPercent/100)
}

// fao56HourlyET0 is a simplified hourly FAO-56 Penman-Monteith reference
// evapotranspiration, following the form of the reference equation with
// net radiation approximated directly from shortwave radiation (no
// explicit longwave/albedo term) — adequate for the shape of the derived
// output this package needs to expose, not a metrology-grade
// implementation. Inputs: air temperature (°C), relative humidity (%),
// wind speed at 10m (m/s, converted to the 2m reference height via the
// standard logarithmic-profile factor), surface pressure (hPa), shortwave
// radiation (W/m^2, backward-averaged over dtSeconds).
func fao56HourlyET0(tempC, rhPercent, windSpeed10m, pressureHpa, shortwaveWm2 float64, dtSeconds int64) float64 {
	const windProfileFactor = 0.748 // ln(67.8*10-5.42)/4.87 inverse, u2 = u10 * factor
	u2 := windSpeed10m * windProfileFactor

	es := saturationVaporPressure(tempC)
	ea := es * rhPercent / 100

	delta := 4098 * es / math.Pow(tempC+237.3, 2) // hPa/°C (es in hPa), 10x the kPa/°C value; the factor cancels in the ratio below
	gamma := 0.000665 * pressureHpa               // hPa/°C (pressure in hPa), also 10x the kPa/°C value

	rsMJ := shortwaveWm2 * float64(dtSeconds) * 1e-6 // W/m^2 * s -> MJ/m^2
	rn := 0.77 * rsMJ

	esKPa := es / 10
	eaKPa := ea / 10

	numerator := 0.408*delta*rn + gamma*(37.0/(tempC+273))*u2*(esKPa-eaKPa)
	denominator := delta + gamma*(1+0.34*u2)
	if denominator == 0 {
		return 0
	}
	et0 := numerator / denominator
	if et0 < 0 {
		return 0
	}
	return et0
}

// slingoCloudCover approximates Slingo's 1980 relative-humidity/cloud-
// fraction relation for a pressure level, clamped to [0,100]%.
func slingoCloudCover(rhPercent float64) float64 {
	const critical = 60.0
	if rhPercent <= critical {
		return 0
	}
	frac := (rhPercent - critical) / (100 - critical)
	cover := 100 * frac * frac
	if cover > 100 {
		return 100
	}
	return cover
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
