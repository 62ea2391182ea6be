package streak

import (
	"sort"
	"time"
)

// Info is the derived streak aggregate. It is recomputed on demand from the
// full prayer-log history and never stored as its own row.
type Info struct {
	CurrentStreak    int        `json:"current_streak"`
	BestStreak       int        `json:"best_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
}

// dateOnly collapses a moment to its calendar day, normalized to a UTC
// midnight. Dates read back from the database are UTC while "today" is
// server-local; normalizing both sides makes the comparison a calendar-day
// one instead of a 24-hour-span one, and keeps offset changes within a zone
// from splitting a run.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Compute aggregates qualifying days into streak info. A qualifying day is
// one on which all five obligatory prayers were logged completed; the caller
// supplies those dates (any order, duplicates tolerated).
//
// The current streak counts back from the most recent qualifying day, but
// only when that day is today or yesterday; a gap of two or more days resets
// it to zero. The best streak is the longest run of consecutive qualifying
// days anywhere in history, independent of where today falls.
func Compute(qualifying []time.Time, today time.Time) Info {
	if len(qualifying) == 0 {
		return Info{}
	}

	today = dateOnly(today)

	seen := make(map[time.Time]bool, len(qualifying))
	var dates []time.Time
	for _, d := range qualifying {
		day := dateOnly(d)
		if !seen[day] {
			seen[day] = true
			dates = append(dates, day)
		}
	}

	// Most recent first.
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	last := dates[0]
	info := Info{LastActivityDate: &last}

	if daysBetween(last, today) <= 1 {
		info.CurrentStreak = 1
		for i := 1; i < len(dates); i++ {
			if daysBetween(dates[i], dates[i-1]) != 1 {
				break
			}
			info.CurrentStreak++
		}
	}

	run := 1
	info.BestStreak = 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i], dates[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > info.BestStreak {
			info.BestStreak = run
		}
	}

	return info
}

// daysBetween returns the calendar-day difference from earlier to later.
// Both sides must be dateOnly-normalized UTC midnights, so the division is
// exact.
func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier) / (24 * time.Hour))
}
