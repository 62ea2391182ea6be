package reflection

import (
	"time"

	"github.com/google/uuid"
)

// Reflection is a user's journal entry for one day, upserted on
// (user_id, date).
type Reflection struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"date"`
	Text      string    `json:"text" db:"text"`
	Mood      *string   `json:"mood,omitempty" db:"mood"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type UpsertReflectionRequest struct {
	Date string  `json:"date"`
	Text string  `json:"text"`
	Mood *string `json:"mood,omitempty"`
}
