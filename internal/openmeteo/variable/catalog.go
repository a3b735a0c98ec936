package variable

import (
	"github.com/Klomgor/open-meteo/internal/openmeteo/interpolate"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/Klomgor/open-meteo/internal/openmeteo/units"
)

// catalog is the process-wide canonical variable table, registered once at
// init. It covers every raw variable SPEC_FULL.md's derived-variable and
// mixer sections name as a dependency, plus the handful of raw surface
// variables the original weather-code rule table reads directly.
func init() {
	percentBounds := &interpolate.Bounds{Min: 0, Max: 100}

	raw := []Descriptor{
		{Name: "temperature_2m", Family: Surface, Kind: Raw, StorageKey: "temperature_2m", ScaleFactor: 20, Interp: timeutil.Hermite, Unit: units.Celsius, ElevationCorrectable: true},
		{Name: "relative_humidity_2m", Family: Surface, Kind: Raw, StorageKey: "relative_humidity_2m", ScaleFactor: 1, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "relative_humidity_850hPa", Family: Pressure, Kind: Raw, Level: 850, StorageKey: "relative_humidity_850hPa", ScaleFactor: 1, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "relative_humidity_700hPa", Family: Pressure, Kind: Raw, Level: 700, StorageKey: "relative_humidity_700hPa", ScaleFactor: 1, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "relative_humidity_500hPa", Family: Pressure, Kind: Raw, Level: 500, StorageKey: "relative_humidity_500hPa", ScaleFactor: 1, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "relative_humidity_300hPa", Family: Pressure, Kind: Raw, Level: 300, StorageKey: "relative_humidity_300hPa", ScaleFactor: 1, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "wind_u_10m", Family: Surface, Kind: Raw, StorageKey: "wind_u_10m", ScaleFactor: 10, Interp: timeutil.Linear, Unit: units.MetersPerSecond},
		{Name: "wind_v_10m", Family: Surface, Kind: Raw, StorageKey: "wind_v_10m", ScaleFactor: 10, Interp: timeutil.Linear, Unit: units.MetersPerSecond},
		{Name: "wind_gusts_10m", Family: Surface, Kind: Raw, StorageKey: "wind_gusts_10m", ScaleFactor: 10, Interp: timeutil.Backwards, Unit: units.MetersPerSecond},
		{Name: "surface_pressure", Family: Surface, Kind: Raw, StorageKey: "surface_pressure", ScaleFactor: 10, Interp: timeutil.Linear, Unit: units.Hectopascal, PostDecodeConvert: units.PascalsToHectopascals},
		{Name: "pressure_msl", Family: Surface, Kind: Raw, StorageKey: "pressure_msl", ScaleFactor: 10, Interp: timeutil.Linear, Unit: units.Hectopascal, PostDecodeConvert: units.PascalsToHectopascals},
		{Name: "precipitation", Family: Surface, Kind: Raw, StorageKey: "precipitation", ScaleFactor: 10, Interp: timeutil.BackwardsSum, Unit: units.Millimeter},
		{Name: "shortwave_radiation", Family: Surface, Kind: Raw, StorageKey: "shortwave_radiation", ScaleFactor: 1, Interp: timeutil.SolarBackwardsAveraged, Unit: units.WattPerM2},
		{Name: "cloud_cover", Family: Surface, Kind: Raw, StorageKey: "cloud_cover", ScaleFactor: 1, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "snow_depth", Family: Surface, Kind: Raw, StorageKey: "snow_depth", ScaleFactor: 100, Interp: timeutil.Backwards, Unit: units.Meter, OffsetCorrectedMix: true},
		{Name: "soil_moisture_0_1cm", Family: Surface, Kind: Raw, StorageKey: "soil_moisture_0_1cm", ScaleFactor: 1000, Interp: timeutil.Backwards, Unit: units.KilogramPerM2, OffsetCorrectedMix: true},
		{Name: "cape", Family: Surface, Kind: Raw, StorageKey: "cape", ScaleFactor: 1, Interp: timeutil.Linear, Unit: units.JoulePerKg},
		{Name: "lifted_index", Family: Surface, Kind: Raw, StorageKey: "lifted_index", ScaleFactor: 10, Interp: timeutil.Linear, Unit: units.Dimensionless},
		{Name: "visibility", Family: Surface, Kind: Raw, StorageKey: "visibility", ScaleFactor: 1, Interp: timeutil.Linear, Unit: units.Meter},
		{Name: "freezing_rain", Family: Surface, Kind: Raw, StorageKey: "freezing_rain", ScaleFactor: 100, Interp: timeutil.BackwardsSum, Unit: units.Millimeter},
		{Name: "showers", Family: Surface, Kind: Raw, StorageKey: "showers", ScaleFactor: 10, Interp: timeutil.BackwardsSum, Unit: units.Millimeter},
		{Name: "geopotential_height_500hPa", Family: Pressure, Kind: Raw, Level: 500, StorageKey: "geopotential_500hPa", ScaleFactor: 1, Interp: timeutil.Linear, Unit: units.Meter, PostDecodeConvert: units.GeopotentialToHeight},
	}

	derived := []Descriptor{
		{Name: "wind_speed_10m", Family: Surface, Kind: Derived, Unit: units.MetersPerSecond},
		{Name: "wind_direction_10m", Family: Surface, Kind: Derived, Unit: units.Degrees},
		{Name: "dew_point_2m", Family: Surface, Kind: Derived, Unit: units.Celsius, ElevationCorrectable: true},
		{Name: "apparent_temperature", Family: Surface, Kind: Derived, Unit: units.Celsius, ElevationCorrectable: true},
		{Name: "vapour_pressure_deficit", Family: Surface, Kind: Derived, Unit: units.Hectopascal},
		{Name: "et0_fao_evapotranspiration", Family: Surface, Kind: Derived, Unit: units.Millimeter},
		{Name: "is_day", Family: Surface, Kind: Derived, Unit: units.Dimensionless},
		{Name: "rain", Family: Surface, Kind: Derived, Interp: timeutil.BackwardsSum, Unit: units.Millimeter, OffsetCorrectedMix: true},
		{Name: "snowfall", Family: Surface, Kind: Derived, Interp: timeutil.BackwardsSum, Unit: units.Centimeter, OffsetCorrectedMix: true},
		{Name: "diffuse_radiation", Family: Surface, Kind: Derived, Interp: timeutil.SolarBackwardsAveraged, Unit: units.WattPerM2},
		{Name: "direct_radiation", Family: Surface, Kind: Derived, Interp: timeutil.SolarBackwardsAveraged, Unit: units.WattPerM2},
		{Name: "direct_normal_irradiance", Family: Surface, Kind: Derived, Interp: timeutil.SolarBackwardsAveraged, Unit: units.WattPerM2},
		{Name: "global_tilted_irradiance", Family: Surface, Kind: Derived, Interp: timeutil.SolarBackwardsAveraged, Unit: units.WattPerM2},
		{Name: "weather_code", Family: Surface, Kind: Derived, Unit: units.WMOCode},
		{Name: "cloud_cover_850hPa", Family: Pressure, Kind: Derived, Level: 850, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "cloud_cover_700hPa", Family: Pressure, Kind: Derived, Level: 700, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "cloud_cover_500hPa", Family: Pressure, Kind: Derived, Level: 500, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "cloud_cover_300hPa", Family: Pressure, Kind: Derived, Level: 300, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "cloud_cover_low", Family: Surface, Kind: Derived, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "cloud_cover_mid", Family: Surface, Kind: Derived, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
		{Name: "cloud_cover_high", Family: Surface, Kind: Derived, Interp: timeutil.Hermite, Bounds: percentBounds, Unit: units.Percent},
	}

	for _, d := range raw {
		Register(d)
	}
	for _, d := range derived {
		Register(d)
	}
}
