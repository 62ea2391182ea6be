package prayer

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusCurrent  Status = "current"
	StatusPassed   Status = "passed"
)

type LogStatus string

const (
	LogCompleted LogStatus = "completed"
	LogMissed    LogStatus = "missed"
	LogQada      LogStatus = "qada"
	LogSkipped   LogStatus = "skipped"
)

// ObligatoryCount is the number of fard prayers a day must have logged as
// completed for that day to qualify toward a streak.
const ObligatoryCount = 5

// Definition is the static reference entry for a tracked prayer.
// Sunrise is tracked for display but is not obligatory.
type Definition struct {
	Name         string `json:"name"`
	ArabicName   string `json:"arabic_name"`
	IsObligatory bool   `json:"is_obligatory"`
}

var Definitions = []Definition{
	{Name: "Fajr", ArabicName: "الفجر", IsObligatory: true},
	{Name: "Sunrise", ArabicName: "الشروق", IsObligatory: false},
	{Name: "Dhuhr", ArabicName: "الظهر", IsObligatory: true},
	{Name: "Asr", ArabicName: "العصر", IsObligatory: true},
	{Name: "Maghrib", ArabicName: "المغرب", IsObligatory: true},
	{Name: "Isha", ArabicName: "العشاء", IsObligatory: true},
}

func DefinitionFor(name string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

func IsObligatory(name string) bool {
	d, ok := DefinitionFor(name)
	return ok && d.IsObligatory
}

// PrayerTime is a single prayer's moment on a given day. It is derived state:
// recomputed on every timings refresh and classification tick, never stored.
type PrayerTime struct {
	Name         string    `json:"name"`
	ClockTime    string    `json:"clock_time"`
	Timestamp    time.Time `json:"timestamp"`
	Status       Status    `json:"status"`
	IsObligatory bool      `json:"is_obligatory"`
}

// ParseClockTime converts a provider "HH:mm" string into a timestamp on the
// given calendar day. The provider may append a timezone suffix like
// "05:00 (EET)"; the suffix is stripped and ignored, so the result is always
// anchored to day's location.
func ParseClockTime(raw string, day time.Time) (time.Time, error) {
	clock := raw
	if i := strings.Index(clock, " ("); i >= 0 {
		clock = clock[:i]
	}
	clock = strings.TrimSpace(clock)

	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", raw, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}

// Classify labels each prayer as upcoming, current, or passed relative to now.
// Input must be sorted ascending by timestamp within one day. A prayer is
// current when its own time has passed and the next prayer's has not; the last
// prayer of the day stays current once its time has passed. At most one entry
// comes back as current. The input slice is not modified.
func Classify(times []PrayerTime, now time.Time) []PrayerTime {
	out := make([]PrayerTime, len(times))
	copy(out, times)

	for i := range out {
		if now.Before(out[i].Timestamp) {
			out[i].Status = StatusUpcoming
			continue
		}
		if i == len(out)-1 || now.Before(out[i+1].Timestamp) {
			out[i].Status = StatusCurrent
		} else {
			out[i].Status = StatusPassed
		}
	}

	return out
}

// NextPrayer returns the first upcoming prayer, or nil when every prayer of
// the day has already started. There is no wraparound to the next day's Fajr.
func NextPrayer(times []PrayerTime) *PrayerTime {
	for i := range times {
		if times[i].Status == StatusUpcoming {
			return &times[i]
		}
	}
	return nil
}

// CurrentPrayer returns the prayer whose window is active, or nil.
func CurrentPrayer(times []PrayerTime) *PrayerTime {
	for i := range times {
		if times[i].Status == StatusCurrent {
			return &times[i]
		}
	}
	return nil
}

type Countdown struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	TotalSeconds int `json:"total_seconds"`
}

// CalculateCountdown decomposes the time remaining until target. Once target
// is reached the countdown clamps at zero; it never goes negative.
func CalculateCountdown(target, now time.Time) Countdown {
	diff := target.Sub(now)
	if diff < 0 {
		diff = 0
	}

	total := int(diff.Seconds())
	return Countdown{
		Hours:        total / 3600,
		Minutes:      (total % 3600) / 60,
		Seconds:      total % 60,
		TotalSeconds: total,
	}
}

// Format renders the countdown as zero-padded HH:MM:SS.
func (c Countdown) Format() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hours, c.Minutes, c.Seconds)
}
