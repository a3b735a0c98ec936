// Package seamless implements component C8 (spec §4.8): selecting, as a
// pure function of (model family token, latitude, longitude), the ordered
// list of domains a mixer should compose. The region rules are data
// (region boxes keyed to a domain name), not branches, mirroring the
// teacher's map-of-struct domain registration style
// (models/dwd/icon.go's ParameterLookup, models/noaa/gfs.go's analogous
// table) generalised from "one map per model family" to "one rule table
// for the whole seamless hierarchy".
package seamless

import (
	"context"
	"fmt"

	"github.com/Klomgor/open-meteo/internal/openmeteo/apperr"
	"github.com/Klomgor/open-meteo/internal/openmeteo/archive"
	"github.com/Klomgor/open-meteo/internal/openmeteo/domain"
	"github.com/Klomgor/open-meteo/internal/openmeteo/mixer"
	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
)

// box is a closed lat/lon rectangle used by the region rules below.
type box struct {
	minLat, maxLat, minLon, maxLon float64
}

func (b box) contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}

var (
	westernEurope  = box{minLat: 36, maxLat: 55, minLon: -10, maxLon: 16}
	netherlandsBox = box{minLat: 49.35, maxLat: 53.79, minLon: 2.19, maxLon: 7.66}
	northAmerica   = box{minLat: 15, maxLat: 72, minLon: -170, maxLon: -50}
	japanBox       = box{minLat: 27.4, maxLat: 42.65, minLon: 125, maxLon: 145}
)

const scandinaviaMinLat = 54.9

// regionRule conditionally adds a domain name to a best_match stack when a
// requested coordinate falls inside its box.
type regionRule struct {
	domain string
	in     func(lat, lon float64) bool
}

// bestMatchAlways/bestMatchRegional implement spec §4.8's best_match rule
// verbatim: global domains are always included; regional domains are
// added when the coordinate falls in their declared coverage.
var (
	bestMatchAlways = []string{"icon_global", "gfs_global"}

	bestMatchRegional = []regionRule{
		{"icon_d2", func(lat, lon float64) bool { return true }}, // coverage checked via grid lookup at construction time
		{"arome", func(lat, lon float64) bool { return westernEurope.contains(lat, lon) }},
		{"arpege", func(lat, lon float64) bool { return westernEurope.contains(lat, lon) }},
		{"knmi_harmonie", func(lat, lon float64) bool { return netherlandsBox.contains(lat, lon) }},
		{"metno_nordic", func(lat, lon float64) bool { return lat >= scandinaviaMinLat }},
		{"hrrr", func(lat, lon float64) bool { return northAmerica.contains(lat, lon) }},
		{"jma_msm", func(lat, lon float64) bool { return japanBox.contains(lat, lon) }},
	}

	// probabilityByFamily names the ensemble-probability domain attached
	// to best_match and to each seamless family, spec §4.8 "additionally
	// attach the appropriate ensemble-probability reader".
	probabilityByFamily = map[string]string{
		"best_match":     "icon_global_probability",
		"icon_seamless":  "icon_global_probability",
		"gfs_seamless":   "gfs_global_probability",
	}

	// seamlessFamilies lists each <family>_seamless token's domain
	// hierarchy, coarsest first, spec §4.8 "<family>_seamless: include only
	// that family's hierarchy (e.g., ICON global + EU + D2 + D2-15min)".
	//
	// iconD2Eps falls back to iconD2 per spec §9's preserved open question
	// — see DESIGN.md for the decision — so "icon_d2_eps" below
	// deliberately aliases to the same domain name as "icon_d2" rather than
	// a distinct ensemble archive, carrying the ambiguity forward instead
	// of silently resolving it.
	seamlessFamilies = map[string][]string{
		"icon_seamless": {"icon_global", "icon_eu", "icon_d2", "icon_d2_15min"},
		"gfs_seamless":  {"gfs_global", "hrrr"},
	}

	// domainAlias carries spec §9's preserved open question forward as
	// data instead of silently deciding it: "iconD2 is used as a fallback
	// for iconD2Eps; confirm whether this is intentional aliasing or a
	// transcription slip." DESIGN.md records the decision to keep the
	// alias rather than register a distinct ensemble archive.
	domainAlias = map[string]string{
		"icon_d2_eps": "icon_d2",
	}
)

// Select implements spec §4.8: given a model family token and a
// coordinate, returns the ordered domain name list a Mixer should compose
// (coarsest first) plus the probability domain name, if any. It does not
// touch the registry itself — Build below does that.
func Select(token string, lat, lon float64) (domains []string, probability string) {
	switch token {
	case "best_match":
		domains = append(domains, bestMatchAlways...)
		for _, rule := range bestMatchRegional {
			if rule.in(lat, lon) {
				domains = append(domains, rule.domain)
			}
		}
		return domains, probabilityByFamily["best_match"]
	default:
		if hierarchy, ok := seamlessFamilies[token]; ok {
			return append([]string{}, hierarchy...), probabilityByFamily[token]
		}
		// Explicit single-domain token: spec §4.8 "Explicit single-domain
		// tokens map to exactly one reader."
		return []string{token}, ""
	}
}

// DomainBackend bundles the archive plumbing one domain needs to build a
// reader: its ChunkCache (bound to one Store at construction — see
// archive.NewChunkCache) and its ensemble-member Store family.
type DomainBackend struct {
	Cache  *archive.ChunkCache
	Stores map[int]*archive.Store
}

// Build resolves Select's domain names against the process-wide domain
// registry, constructs a reader per coordinate for each, excludes any
// whose coordinate lookup failed (spec §4.7 "readers whose coordinate
// lookup failed... are excluded before mixing"), and wraps the survivors
// in a mixer.Mixer ordered coarsest-to-finest.
//
// A failure to build any single reader inside best_match/a _seamless
// family is non-fatal (spec §4.8); a failure to build the sole reader for
// an explicit single-domain token surfaces as apperr.ErrOutsideGrid, which
// callers translate into "no data for this location".
func Build(ctx context.Context, backends map[string]*DomainBackend, token string, lat, lon, targetElevation float64, selection reader.PointSelection) (*mixer.Mixer, error) {
	domainNames, probabilityName := Select(token, lat, lon)
	isSingleDomain := len(domainNames) == 1 && probabilityName == "" && !isKnownFamily(token)

	members := make([]mixer.Member, 0, len(domainNames))
	for _, name := range domainNames {
		resolvedName := name
		if aliased, ok := domainAlias[name]; ok {
			resolvedName = aliased
		}
		d, ok := domain.Get(resolvedName)
		if !ok {
			continue
		}
		backend := backends[resolvedName]
		if backend == nil {
			continue
		}
		r, ok := reader.New(d, backend.Cache, backend.Stores, lat, lon, targetElevation, selection)
		if !ok {
			continue
		}
		members = append(members, mixer.Member{Name: name, Accessor: r})
	}

	if len(members) == 0 {
		if isSingleDomain {
			return nil, fmt.Errorf("%w: %s at (%.4f,%.4f)", apperr.ErrOutsideGrid, token, lat, lon)
		}
		return nil, fmt.Errorf("%w: no reader available for %s at (%.4f,%.4f)", apperr.ErrOutsideGrid, token, lat, lon)
	}

	var probability *mixer.Member
	if probabilityName != "" {
		if backend := backends[probabilityName]; backend != nil {
			if d, ok := domain.Get(probabilityName); ok {
				if r, ok := reader.New(d, backend.Cache, backend.Stores, lat, lon, targetElevation, selection); ok {
					members := make([]int, 0, len(backend.Stores))
					for m := range backend.Stores {
						members = append(members, m)
					}
					ep := mixer.NewEnsembleProbability(r, members, mixer.DefaultQuantile)
					probability = &mixer.Member{Name: probabilityName, Accessor: ep}
				}
			}
		}
	}

	return mixer.New(members, probability), nil
}

func isKnownFamily(token string) bool {
	if token == "best_match" {
		return true
	}
	_, ok := seamlessFamilies[token]
	return ok
}
