package prayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayTimes(t *testing.T, day time.Time) []PrayerTime {
	t.Helper()

	clocks := map[string]string{
		"Fajr":    "05:00",
		"Sunrise": "06:30",
		"Dhuhr":   "12:30",
		"Asr":     "16:00",
		"Maghrib": "19:00",
		"Isha":    "20:30",
	}

	var times []PrayerTime
	for _, def := range Definitions {
		ts, err := ParseClockTime(clocks[def.Name], day)
		require.NoError(t, err)
		times = append(times, PrayerTime{
			Name:         def.Name,
			ClockTime:    clocks[def.Name],
			Timestamp:    ts,
			IsObligatory: def.IsObligatory,
		})
	}
	return times
}

func TestClassify_Midday(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	times := dayTimes(t, day)

	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	classified := Classify(times, now)

	byName := map[string]Status{}
	for _, pt := range classified {
		byName[pt.Name] = pt.Status
	}

	assert.Equal(t, StatusPassed, byName["Fajr"])
	assert.Equal(t, StatusPassed, byName["Sunrise"])
	assert.Equal(t, StatusCurrent, byName["Dhuhr"])
	assert.Equal(t, StatusUpcoming, byName["Asr"])
	assert.Equal(t, StatusUpcoming, byName["Maghrib"])
	assert.Equal(t, StatusUpcoming, byName["Isha"])
}

func TestClassify_BeforeFajr(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	times := dayTimes(t, day)

	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	classified := Classify(times, now)

	for _, pt := range classified {
		assert.Equal(t, StatusUpcoming, pt.Status, pt.Name)
	}
	assert.Nil(t, CurrentPrayer(classified))

	next := NextPrayer(classified)
	require.NotNil(t, next)
	assert.Equal(t, "Fajr", next.Name)
}

func TestClassify_AfterIsha(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	times := dayTimes(t, day)

	// The last prayer stays current until the end of the day; there is no
	// wraparound to tomorrow's Fajr.
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	classified := Classify(times, now)

	current := CurrentPrayer(classified)
	require.NotNil(t, current)
	assert.Equal(t, "Isha", current.Name)
	assert.Nil(t, NextPrayer(classified))
}

func TestClassify_AtMostOneCurrent(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	times := dayTimes(t, day)

	for hour := 0; hour < 24; hour++ {
		now := time.Date(2026, 3, 10, hour, 17, 0, 0, time.UTC)
		classified := Classify(times, now)

		currentCount := 0
		for _, pt := range classified {
			if pt.Status == StatusCurrent {
				currentCount++
			}
		}
		assert.LessOrEqual(t, currentCount, 1, "hour %d", hour)
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	times := dayTimes(t, day)

	Classify(times, time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC))

	for _, pt := range times {
		assert.Equal(t, Status(""), pt.Status)
	}
}

func TestParseClockTime_StripsTimezoneSuffix(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	ts, err := ParseClockTime("05:00 (EET)", day)
	require.NoError(t, err)
	assert.Equal(t, 5, ts.Hour())
	assert.Equal(t, 0, ts.Minute())
	assert.Equal(t, day.Location(), ts.Location())
}

func TestParseClockTime_Invalid(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := ParseClockTime("25:99", day)
	assert.Error(t, err)

	_, err = ParseClockTime("noon", day)
	assert.Error(t, err)
}

func TestCalculateCountdown(t *testing.T) {
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	target := time.Date(2026, 3, 10, 16, 30, 45, 0, time.UTC)

	c := CalculateCountdown(target, now)
	assert.Equal(t, 3, c.Hours)
	assert.Equal(t, 30, c.Minutes)
	assert.Equal(t, 45, c.Seconds)
	assert.Equal(t, 3*3600+30*60+45, c.TotalSeconds)
	assert.Equal(t, "03:30:45", c.Format())
}

func TestCalculateCountdown_DecreasesTowardZero(t *testing.T) {
	target := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

	previous := -1
	for _, offset := range []time.Duration{-2 * time.Hour, -time.Hour, -time.Minute, -time.Second} {
		c := CalculateCountdown(target, target.Add(offset))
		if previous >= 0 {
			assert.Less(t, c.TotalSeconds, previous)
		}
		previous = c.TotalSeconds
	}

	atTarget := CalculateCountdown(target, target)
	assert.Equal(t, Countdown{}, atTarget)
}

func TestCalculateCountdown_ClampsAtZero(t *testing.T) {
	now := time.Date(2026, 3, 10, 16, 0, 1, 0, time.UTC)
	target := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

	c := CalculateCountdown(target, now)
	assert.Equal(t, 0, c.TotalSeconds)
	assert.Equal(t, "00:00:00", c.Format())
}

func TestUpsertLogRequest_Validate(t *testing.T) {
	valid := UpsertLogRequest{PrayerName: "Fajr", Status: LogCompleted, OnTime: true}
	assert.NoError(t, valid.Validate())

	unknown := UpsertLogRequest{PrayerName: "Tahajjud", Status: LogCompleted}
	assert.Error(t, unknown.Validate())

	badStatus := UpsertLogRequest{PrayerName: "Fajr", Status: "done"}
	assert.Error(t, badStatus.Validate())

	qadaOnTime := UpsertLogRequest{PrayerName: "Fajr", Status: LogQada, OnTime: true}
	assert.Error(t, qadaOnTime.Validate())

	qadaLate := UpsertLogRequest{PrayerName: "Fajr", Status: LogQada, OnTime: false}
	assert.NoError(t, qadaLate.Validate())

	lowConcentration := 0
	badConcentration := UpsertLogRequest{PrayerName: "Fajr", Status: LogCompleted, Concentration: &lowConcentration}
	assert.Error(t, badConcentration.Validate())
}

func TestDefinitions(t *testing.T) {
	obligatory := 0
	for _, d := range Definitions {
		if d.IsObligatory {
			obligatory++
		}
	}
	assert.Equal(t, ObligatoryCount, obligatory)
	assert.False(t, IsObligatory("Sunrise"))
	assert.True(t, IsObligatory("Maghrib"))
}
