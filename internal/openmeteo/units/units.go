// Package units names the SI (and near-SI) units the core reads and writes.
// The on-wire archive format always stores compressed values; this package
// only carries the label attached to a decoded float sequence, plus the
// handful of unit-level conversions the reader applies after decompression
// (spec §4.4 "Output scaling").
package units

// Unit is a stable, display-agnostic unit label. HTTP/response formatting
// (out of core scope, spec §1) maps these to whatever string it wants to
// show a client.
type Unit string

const (
	Celsius          Unit = "°C"
	Percent          Unit = "%"
	MetersPerSecond  Unit = "m/s"
	Degrees          Unit = "°"
	Hectopascal      Unit = "hPa"
	Pascal           Unit = "Pa"
	Meter            Unit = "m"
	Millimeter       Unit = "mm"
	Centimeter       Unit = "cm"
	KilogramPerM2    Unit = "kg/m²"
	WattPerM2        Unit = "W/m²"
	JoulePerKg       Unit = "J/kg"
	GeopotentialM2S2 Unit = "m²/s²"
	Dimensionless    Unit = ""
	WMOCode          Unit = "wmo code"
	Fraction         Unit = "fraction"
)

// StandardGravity is used to convert geopotential (m²/s²) to geopotential
// height (m), per spec §4.4.
const StandardGravity = 9.80665

// PascalsToHectopascals returns a pressure sample converted to hPa, the way the
// reader's post-decode scaling step does for every pressure-family variable.
func PascalsToHectopascals(v float64) float64 { return v / 100.0 }

// GeopotentialToHeight converts geopotential (m²/s²) to geopotential height
// in meters.
func GeopotentialToHeight(v float64) float64 { return v / StandardGravity }
