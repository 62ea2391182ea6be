package adhkar

import (
	"time"

	"github.com/google/uuid"
)

// Dhikr is a static remembrance entry from the reference collection.
type Dhikr struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Arabic          string    `json:"arabic" db:"arabic"`
	Transliteration string    `json:"transliteration" db:"transliteration"`
	Translation     string    `json:"translation" db:"translation"`
	Category        string    `json:"category" db:"category"` // "morning", "evening", "after_prayer"
	Target          int       `json:"target" db:"target"`
}

// Progress is a user's counter for one dhikr on one day, upserted on
// (user_id, dhikr_id, date). Count never exceeds Target; Completed is
// derived server-side.
type Progress struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	DhikrID   uuid.UUID `json:"dhikr_id" db:"dhikr_id"`
	Date      time.Time `json:"date" db:"date"`
	Count     int       `json:"count" db:"count"`
	Target    int       `json:"target" db:"target"`
	Completed bool      `json:"completed" db:"completed"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type IncrementRequest struct {
	DhikrID string `json:"dhikr_id"`
	Amount  int    `json:"amount"`
}
