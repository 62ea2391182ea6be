package prayer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Log is a user's persisted completion record for one prayer on one day.
// At most one row exists per (user, prayer, date); writes go through an
// upsert on that key with last-write-wins semantics.
type Log struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	PrayerName     string    `json:"prayer_name" db:"prayer_name"`
	Date           time.Time `json:"date" db:"date"`
	Status         LogStatus `json:"status" db:"status"`
	OnTime         bool      `json:"on_time" db:"on_time"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	Concentration  *int      `json:"concentration,omitempty" db:"concentration"`
	Location       *string   `json:"location,omitempty" db:"location"`
	EmotionalState *string   `json:"emotional_state,omitempty" db:"emotional_state"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type UpsertLogRequest struct {
	PrayerName     string    `json:"prayer_name"`
	Date           string    `json:"date"` // YYYY-MM-DD, defaults to today
	Status         LogStatus `json:"status"`
	OnTime         bool      `json:"on_time"`
	Notes          *string   `json:"notes,omitempty"`
	Concentration  *int      `json:"concentration,omitempty"`
	Location       *string   `json:"location,omitempty"`
	EmotionalState *string   `json:"emotional_state,omitempty"`
}

// Validate checks the request before it reaches the database. A qada log
// claiming on-time completion is self-contradictory and rejected; the server
// never derives on_time from status.
func (r *UpsertLogRequest) Validate() error {
	if _, ok := DefinitionFor(r.PrayerName); !ok {
		return fmt.Errorf("unknown prayer name %q", r.PrayerName)
	}

	switch r.Status {
	case LogCompleted, LogMissed, LogQada, LogSkipped:
	default:
		return fmt.Errorf("invalid log status %q", r.Status)
	}

	if r.Status == LogQada && r.OnTime {
		return fmt.Errorf("qada log cannot be on time")
	}

	if r.Concentration != nil && (*r.Concentration < 1 || *r.Concentration > 10) {
		return fmt.Errorf("concentration must be between 1 and 10")
	}

	return nil
}
