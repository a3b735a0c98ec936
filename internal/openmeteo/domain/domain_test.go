package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klomgor/open-meteo/internal/openmeteo/grid"
)

func TestRegister_GetRoundTrip(t *testing.T) {
	d := &Domain{Name: "test_domain_register", Dt: 3600, ChunkLength: 86400}
	Register(d)

	got, ok := Get("test_domain_register")
	require.True(t, ok)
	assert.Same(t, d, got)
}

func TestGet_UnknownDomain(t *testing.T) {
	_, ok := Get("not_a_registered_domain")
	assert.False(t, ok)
}

func TestAll_IncludesRegistered(t *testing.T) {
	d := &Domain{Name: "test_domain_all", Dt: 3600}
	Register(d)

	all := All()
	found := false
	for _, e := range all {
		if e.Name == d.Name {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMostRecentRun_FloorsToCadence(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 8, 6, 13, 47, 0, 0, time.UTC))
	d := &Domain{Name: "test_domain_cadence", UpdateCadence: 6 * time.Hour, Clock: fake}

	run := d.MostRecentRun()
	assert.Equal(t, time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC), run)
}

func TestMostRecentRun_ZeroCadenceReturnsNow(t *testing.T) {
	now := time.Date(2026, 8, 6, 13, 47, 31, 0, time.UTC)
	fake := clockwork.NewFakeClockAt(now)
	d := &Domain{Name: "test_domain_nocadence", Clock: fake}

	assert.Equal(t, now, d.MostRecentRun())
}

func TestStaticObjectKeys_MatchDiskLayout(t *testing.T) {
	d := &Domain{Name: "icon_d2"}
	assert.Equal(t, "icon_d2/static/HSURF.dat", d.ElevationObjectKey())
	assert.Equal(t, "icon_d2/static/soil_type.dat", d.SoilTypeObjectKey())
}

type fakeGrid struct{ grid.Grid }

func TestDomain_SatisfiesGridField(t *testing.T) {
	var d Domain
	assert.Nil(t, d.Grid)
}
