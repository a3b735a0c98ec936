// Package variable implements spec §3's Variable data model: a tagged
// identifier carrying storage metadata, interpolation kind, physical unit,
// and the two correction flags (elevation, mixer offset), partitioned into
// Surface/Pressure/Height families and, orthogonally, raw vs derived. The
// teacher's own common/parameter.go carries the same shape of metadata
// (ParameterID, DisplayName, Unit, InterpolationMethod) inline on one flat
// map; here it is split into Family/Kind tags because SPEC_FULL's variable
// set spans pressure and height levels the teacher's single flat model does
// not need to distinguish.
package variable

import (
	"fmt"
	"strings"

	"github.com/Klomgor/open-meteo/internal/openmeteo/interpolate"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
	"github.com/Klomgor/open-meteo/internal/openmeteo/units"
)

// Family partitions variables by vertical coordinate, spec §3 "Surface,
// Pressure-level, and Height-level families".
type Family int

const (
	Surface Family = iota
	Pressure
	Height
)

func (f Family) String() string {
	switch f {
	case Surface:
		return "surface"
	case Pressure:
		return "pressure"
	case Height:
		return "height"
	default:
		return "unknown"
	}
}

// Kind is the orthogonal raw/derived tag, spec §9 "further split into Raw |
// Derived".
type Kind int

const (
	Raw Kind = iota
	Derived
)

// Descriptor is the immutable, process-wide metadata for one canonical
// variable tag (spec §3's Variable type). Descriptors are constructed once
// by Register and never mutated afterward.
type Descriptor struct {
	Name   string // canonical snake_case name
	Family Family
	Kind   Kind
	Level  int // pressure hPa or height metres; 0 for plain surface variables

	StorageKey  string // stable file-name fragment (spec §3 "storage key")
	ScaleFactor float64
	Interp      timeutil.InterpolationKind
	Bounds      *interpolate.Bounds // clamp bounds for hermite, nil otherwise
	Unit        units.Unit

	ElevationCorrectable bool // true only for Celsius temperature-like variables
	OffsetCorrectedMix   bool // true for cumulative processes at mixer boundaries

	// PostDecodeConvert, when non-nil, is applied element-wise after decode
	// and after interpolation — spec §4.4 "the reader further converts
	// pascals to hectopascals and applies per-variable multiply-add (e.g.,
	// geopotential m²/s² → geopotential-height via ÷9.80665)". Most
	// variables leave this nil; the decoder's scale factor alone recovers
	// the stored physical unit.
	PostDecodeConvert func(float64) float64
}

// registry is the process-wide table of canonical variables plus their
// alias spellings, built once at init time (spec §9 "Global registries...
// become process-wide singletons with explicit construction at program
// start").
type registry struct {
	byName map[string]Descriptor
	alias  map[string]string // alias -> canonical name
}

var global = newRegistry()

func newRegistry() *registry {
	return &registry{byName: make(map[string]Descriptor), alias: make(map[string]string)}
}

// Register adds a canonical variable descriptor to the process-wide
// registry. It is called from this package's catalog init (catalog.go)
// during process initialization, never at request time.
func Register(d Descriptor) Descriptor {
	global.byName[d.Name] = d
	return d
}

// RegisterAlias marks alias as resolving to the same canonical tag as
// canonical, per spec §9 "Alias names... resolve to the same tag at parse
// time; the core sees only canonical tags."
func RegisterAlias(alias, canonical string) {
	global.alias[alias] = canonical
}

// Resolve looks up a variable by name, following alias resolution first.
// Returns ok=false for anything unrecognised — callers should translate
// that into apperr.ErrUnknownVariable.
func Resolve(name string) (Descriptor, bool) {
	if canonical, ok := global.alias[name]; ok {
		name = canonical
	}
	d, ok := global.byName[name]
	return d, ok
}

// MustResolve is Resolve with a panic on failure, for use only in
// process-initialization code (registering derived-variable dependency
// tables) where an unknown name is a programming error, not a runtime
// condition.
func MustResolve(name string) Descriptor {
	d, ok := Resolve(name)
	if !ok {
		panic(fmt.Sprintf("variable: unregistered name %q", name))
	}
	return d
}

func init() {
	registerCanonicalAliases()
}

// registerCanonicalAliases wires the alias spellings spec §4.6 names
// explicitly ("wind_speed_10m and windspeed_10m; dew_point_2m and
// dewpoint_2m; cloud_cover and cloudcover").
func registerCanonicalAliases() {
	aliasPairs := [][2]string{
		{"windspeed_10m", "wind_speed_10m"},
		{"winddirection_10m", "wind_direction_10m"},
		{"dewpoint_2m", "dew_point_2m"},
		{"cloudcover", "cloud_cover"},
		{"cloudcover_low", "cloud_cover_low"},
		{"cloudcover_mid", "cloud_cover_mid"},
		{"cloudcover_high", "cloud_cover_high"},
	}
	for _, p := range aliasPairs {
		RegisterAlias(p[0], p[1])
	}
}

// CanonicalName strips the alias indirection without requiring the
// variable to already be registered, used by parsers that need to
// normalise a name before the full registry is populated (e.g. pressure-
// level variable names carrying a numeric suffix like "cloud_cover_850hPa").
func CanonicalName(name string) string {
	if canonical, ok := global.alias[name]; ok {
		return canonical
	}
	return name
}

// PressureLevelName builds the canonical name for a pressure-level
// variable, e.g. PressureLevelName("temperature", 850) -> "temperature_850hPa".
func PressureLevelName(base string, hPa int) string {
	return fmt.Sprintf("%s_%dhPa", base, hPa)
}

// HeightLevelName builds the canonical name for a height-level variable,
// e.g. HeightLevelName("wind_speed", 120) -> "wind_speed_120m".
func HeightLevelName(base string, metres int) string {
	return fmt.Sprintf("%s_%dm", base, metres)
}

// IsPressureLevel reports whether name carries the pressure-level suffix
// convention.
func IsPressureLevel(name string) bool {
	return strings.Contains(name, "hPa")
}
