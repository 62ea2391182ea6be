package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCompute_Empty(t *testing.T) {
	info := Compute(nil, d(2026, 5, 3))
	assert.Equal(t, 0, info.CurrentStreak)
	assert.Equal(t, 0, info.BestStreak)
	assert.Nil(t, info.LastActivityDate)
}

func TestCompute_ActiveStreak(t *testing.T) {
	qualifying := []time.Time{
		d(2026, 5, 1),
		d(2026, 5, 2),
		d(2026, 5, 3),
	}

	info := Compute(qualifying, d(2026, 5, 3))
	assert.Equal(t, 3, info.CurrentStreak)
	assert.Equal(t, 3, info.BestStreak)
	require.NotNil(t, info.LastActivityDate)
	assert.Equal(t, d(2026, 5, 3), *info.LastActivityDate)
}

func TestCompute_YesterdayKeepsStreakAlive(t *testing.T) {
	qualifying := []time.Time{
		d(2026, 5, 1),
		d(2026, 5, 2),
	}

	// Today has not qualified yet, but yesterday did.
	info := Compute(qualifying, d(2026, 5, 3))
	assert.Equal(t, 2, info.CurrentStreak)
}

func TestCompute_GapResetsCurrentNotBest(t *testing.T) {
	qualifying := []time.Time{
		d(2026, 5, 1),
		d(2026, 5, 2),
		d(2026, 5, 3),
	}

	info := Compute(qualifying, d(2026, 5, 5))
	assert.Equal(t, 0, info.CurrentStreak)
	assert.Equal(t, 3, info.BestStreak)
}

func TestCompute_FiveConsecutiveDays(t *testing.T) {
	qualifying := []time.Time{
		d(2024, 5, 1),
		d(2024, 5, 2),
		d(2024, 5, 3),
		d(2024, 5, 4),
		d(2024, 5, 5),
	}

	info := Compute(qualifying, d(2024, 5, 5))
	assert.Equal(t, 5, info.CurrentStreak)
	assert.Equal(t, 5, info.BestStreak)
}

func TestCompute_BestRunInMiddleOfHistory(t *testing.T) {
	qualifying := []time.Time{
		d(2026, 4, 10),
		d(2026, 4, 11),
		d(2026, 4, 12),
		d(2026, 4, 13),
		d(2026, 4, 14),
		d(2026, 5, 2),
		d(2026, 5, 3),
	}

	info := Compute(qualifying, d(2026, 5, 3))
	assert.Equal(t, 2, info.CurrentStreak)
	assert.Equal(t, 5, info.BestStreak)
}

func TestCompute_DuplicatesAndOrderTolerated(t *testing.T) {
	qualifying := []time.Time{
		d(2026, 5, 3),
		d(2026, 5, 1),
		d(2026, 5, 2),
		d(2026, 5, 2),
		d(2026, 5, 1).Add(14 * time.Hour), // same day, different time
	}

	info := Compute(qualifying, d(2026, 5, 3))
	assert.Equal(t, 3, info.CurrentStreak)
	assert.Equal(t, 3, info.BestStreak)
}

func TestCompute_MixedLocations(t *testing.T) {
	// Qualifying dates come back from the database as UTC midnights while
	// today is server-local. A two-day gap must reset the current streak even
	// when the raw instants are less than 48h apart.
	serverZone := time.FixedZone("UTC+3", 3*60*60)
	today := time.Date(2026, 5, 3, 0, 30, 0, 0, serverZone)

	info := Compute([]time.Time{d(2026, 5, 1)}, today)
	assert.Equal(t, 0, info.CurrentStreak)
	assert.Equal(t, 1, info.BestStreak)
}

func TestCompute_OffsetChangeWithinRun(t *testing.T) {
	// A spring-forward makes local midnights only 23h apart; the run must
	// still count as consecutive calendar days.
	standard := time.FixedZone("CET", 1*60*60)
	summer := time.FixedZone("CEST", 2*60*60)
	qualifying := []time.Time{
		time.Date(2026, 3, 28, 0, 0, 0, 0, standard),
		time.Date(2026, 3, 29, 0, 0, 0, 0, standard),
		time.Date(2026, 3, 30, 0, 0, 0, 0, summer),
	}

	info := Compute(qualifying, time.Date(2026, 3, 30, 12, 0, 0, 0, summer))
	assert.Equal(t, 3, info.CurrentStreak)
	assert.Equal(t, 3, info.BestStreak)
}

func TestCompute_SingleDayToday(t *testing.T) {
	info := Compute([]time.Time{d(2026, 5, 3)}, d(2026, 5, 3))
	assert.Equal(t, 1, info.CurrentStreak)
	assert.Equal(t, 1, info.BestStreak)
}

func TestCompute_SingleDayLongAgo(t *testing.T) {
	info := Compute([]time.Time{d(2026, 1, 15)}, d(2026, 5, 3))
	assert.Equal(t, 0, info.CurrentStreak)
	assert.Equal(t, 1, info.BestStreak)
}
