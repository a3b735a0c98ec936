package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func unixAt(y int, m time.Month, d, hh, mm int) int64 {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC).Unix()
}

func TestIsDay_NoonVsMidnight(t *testing.T) {
	noon := unixAt(2024, time.June, 21, 12, 0)
	midnight := unixAt(2024, time.June, 21, 0, 0)

	assert.True(t, IsDay(noon, 48.1, 11.6))
	assert.False(t, IsDay(midnight, 48.1, 11.6))
}

func TestExtraterrestrialRadiation_ZeroAtNight(t *testing.T) {
	midnight := unixAt(2024, time.January, 1, 0, 0)
	assert.Equal(t, 0.0, ExtraterrestrialRadiation(midnight, 48.1, 11.6))
}

func TestExtraterrestrialRadiation_PositiveAtNoon(t *testing.T) {
	noon := unixAt(2024, time.June, 21, 12, 0)
	v := ExtraterrestrialRadiation(noon, 48.1, 11.6)
	assert.Greater(t, v, 500.0)
	assert.Less(t, v, 1400.0)
}

func TestDiffuseFraction_Monotonic(t *testing.T) {
	low := DiffuseFraction(0.1)
	mid := DiffuseFraction(0.5)
	assert.Greater(t, low, mid)
}

func TestDirectNormalIrradiance_NightIsZero(t *testing.T) {
	midnight := unixAt(2024, time.January, 1, 0, 0)
	assert.Equal(t, 0.0, DirectNormalIrradiance(100, midnight, 48.1, 11.6))
}
