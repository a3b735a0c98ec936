package derived

import (
	"math"

	"github.com/Klomgor/open-meteo/internal/openmeteo/solar"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/Klomgor/open-meteo/internal/openmeteo/units"
)

// defaultTiltDeg/defaultAzimuthDeg are the panel orientation
// global_tilted_irradiance assumes when no per-request tilt/azimuth is
// supplied — south-facing (azimuth 180, north=0, clockwise) at a mid-
// latitude-optimal tilt. A caller wanting a different orientation computes
// it directly from direct_radiation/diffuse_radiation/shortwave_radiation
// and solar.HayDaviesTiltedIrradiance rather than through this canonical
// tag, matching spec §4.6's "(tilt, azimuth)" being request parameters
// rather than archive-stored variables.
const (
	defaultTiltDeg    = 30.0
	defaultAzimuthDeg = 180.0
)

func init() {
	Register(Definition{
		Name:          "wind_speed_10m",
		Prerequisites: []string{"wind_u_10m", "wind_v_10m"},
		Unit:          units.MetersPerSecond,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return math.Hypot(v[0], v[1]) })
		},
	})

	Register(Definition{
		Name:          "wind_direction_10m",
		Prerequisites: []string{"wind_u_10m", "wind_v_10m"},
		Unit:          units.Degrees,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 {
				u, vv := v[0], v[1]
				deg := math.Mod(math.Atan2(u, vv)*180/math.Pi+180, 360)
				if deg < 0 {
					deg += 360
				}
				return deg
			})
		},
	})

	Register(Definition{
		Name:          "dew_point_2m",
		Prerequisites: []string{"temperature_2m", "relative_humidity_2m"},
		Unit:          units.Celsius,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return dewPointFromMagnus(v[0], v[1]) })
		},
	})

	Register(Definition{
		Name:          "vapour_pressure_deficit",
		Prerequisites: []string{"temperature_2m", "relative_humidity_2m"},
		Unit:          units.Hectopascal,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return vapourPressureDeficit(v[0], v[1]) })
		},
	})

	Register(Definition{
		Name:          "apparent_temperature",
		Prerequisites: []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m", "shortwave_radiation"},
		Unit:          units.Celsius,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return steadmanApparentTemperature(v[0], v[1], v[2], v[3]) })
		},
	})

	Register(Definition{
		Name:          "et0_fao_evapotranspiration",
		Prerequisites: []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m", "surface_pressure", "shortwave_radiation"},
		Unit:          units.Millimeter,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			dt := tr.Dt
			return elementwise(in, func(v []float64) float64 {
				return fao56HourlyET0(v[0], v[1], v[2], v[3], v[4], dt)
			})
		},
	})

	Register(Definition{
		Name:          "is_day",
		Prerequisites: nil,
		Unit:          units.Dimensionless,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			out := make([]float64, tr.Count())
			for i := range out {
				if solar.IsDay(tr.At(i), loc.Latitude, loc.Longitude) {
					out[i] = 1
				}
			}
			return out
		},
	})

	Register(Definition{
		Name:          "rain",
		Prerequisites: []string{"precipitation", "temperature_2m"},
		Unit:          units.Millimeter,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 {
				if v[1] >= 0 {
					return v[0]
				}
				return 0
			})
		},
	})

	Register(Definition{
		Name:          "snowfall",
		Prerequisites: []string{"precipitation", "temperature_2m"},
		Unit:          units.Centimeter,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 {
				if v[1] < 0 {
					return v[0] * 0.7
				}
				return 0
			})
		},
	})

	Register(Definition{
		Name:          "diffuse_radiation",
		Prerequisites: []string{"shortwave_radiation"},
		Unit:          units.WattPerM2,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			ghi := in[0]
			out := make([]float64, len(ghi))
			for i, g := range ghi {
				if math.IsNaN(g) {
					out[i] = math.NaN()
					continue
				}
				ts := tr.At(i)
				extra := solar.ExtraterrestrialRadiation(ts, loc.Latitude, loc.Longitude)
				if extra <= 0 {
					out[i] = 0
					continue
				}
				kt := g / extra
				out[i] = g * solar.DiffuseFraction(kt)
			}
			return out
		},
	})

	Register(Definition{
		Name:          "direct_radiation",
		Prerequisites: []string{"shortwave_radiation", "diffuse_radiation"},
		Unit:          units.WattPerM2,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return clampMin(v[0]-v[1], 0) })
		},
	})

	Register(Definition{
		Name:          "direct_normal_irradiance",
		Prerequisites: []string{"direct_radiation"},
		Unit:          units.WattPerM2,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			direct := in[0]
			out := make([]float64, len(direct))
			for i, d := range direct {
				if math.IsNaN(d) {
					out[i] = math.NaN()
					continue
				}
				out[i] = solar.DirectNormalIrradiance(d, tr.At(i), loc.Latitude, loc.Longitude)
			}
			return out
		},
	})

	Register(Definition{
		Name:          "global_tilted_irradiance",
		Prerequisites: []string{"direct_radiation", "diffuse_radiation", "shortwave_radiation"},
		Unit:          units.WattPerM2,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			direct, diffuse, ghi := in[0], in[1], in[2]
			out := make([]float64, len(ghi))
			for i := range out {
				if math.IsNaN(direct[i]) || math.IsNaN(diffuse[i]) || math.IsNaN(ghi[i]) {
					out[i] = math.NaN()
					continue
				}
				out[i] = solar.HayDaviesTiltedIrradiance(direct[i], diffuse[i], ghi[i], tr.At(i), loc.Latitude, loc.Longitude, defaultTiltDeg, defaultAzimuthDeg)
			}
			return out
		},
	})

	Register(Definition{
		Name: "weather_code",
		Prerequisites: []string{
			"cloud_cover", "precipitation", "snowfall", "showers",
			"wind_gusts_10m", "cape", "lifted_index", "visibility", "freezing_rain",
		},
		Unit: units.WMOCode,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			dtHours := float64(tr.Dt) / 3600.0
			return elementwise(in, func(v []float64) float64 {
				return weatherCode(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8], dtHours)
			})
		},
	})

	Register(Definition{
		Name:          "cloud_cover_850hPa",
		Prerequisites: []string{"relative_humidity_850hPa"},
		Unit:          units.Percent,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return slingoCloudCover(v[0]) })
		},
	})

	Register(Definition{
		Name:          "cloud_cover_700hPa",
		Prerequisites: []string{"relative_humidity_700hPa"},
		Unit:          units.Percent,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return slingoCloudCover(v[0]) })
		},
	})

	Register(Definition{
		Name:          "cloud_cover_500hPa",
		Prerequisites: []string{"relative_humidity_500hPa"},
		Unit:          units.Percent,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return slingoCloudCover(v[0]) })
		},
	})

	Register(Definition{
		Name:          "cloud_cover_300hPa",
		Prerequisites: []string{"relative_humidity_300hPa"},
		Unit:          units.Percent,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return slingoCloudCover(v[0]) })
		},
	})

	// cloud_cover_low/mid/high band-aggregate the Slingo-relation
	// pressure-level cloud cover above into the three altitude bands real
	// weather APIs expose: low ~surface-850hPa, mid ~700-500hPa, high
	// ~300hPa and above. Each band takes the highest cover among its
	// member levels, matching how a sky is reported "covered" by a band if
	// any level within it is overcast.
	Register(Definition{
		Name:          "cloud_cover_low",
		Prerequisites: []string{"cloud_cover", "cloud_cover_850hPa"},
		Unit:          units.Percent,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return math.Max(v[0], v[1]) })
		},
	})

	Register(Definition{
		Name:          "cloud_cover_mid",
		Prerequisites: []string{"cloud_cover_700hPa", "cloud_cover_500hPa"},
		Unit:          units.Percent,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return math.Max(v[0], v[1]) })
		},
	})

	Register(Definition{
		Name:          "cloud_cover_high",
		Prerequisites: []string{"cloud_cover_300hPa"},
		Unit:          units.Percent,
		Compute: func(in [][]float64, tr timeutil.TimeRange, loc Location) []float64 {
			return elementwise(in, func(v []float64) float64 { return v[0] })
		},
	})
}
