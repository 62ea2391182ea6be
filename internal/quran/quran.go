package quran

import (
	"time"

	"github.com/google/uuid"
)

// ReadingLog is a user's Quran reading record for one day, upserted on
// (user_id, date).
type ReadingLog struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Date            time.Time `json:"date" db:"date"`
	PagesRead       int       `json:"pages_read" db:"pages_read"`
	MinutesRead     int       `json:"minutes_read" db:"minutes_read"`
	SurahsCompleted []int     `json:"surahs_completed" db:"surahs_completed"`
	Completed       bool      `json:"completed" db:"completed"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type UpsertReadingLogRequest struct {
	Date            string `json:"date"`
	PagesRead       int    `json:"pages_read"`
	MinutesRead     int    `json:"minutes_read"`
	SurahsCompleted []int  `json:"surahs_completed"`
	Completed       bool   `json:"completed"`
}

// Bookmark marks a user's reading position, upserted on
// (user_id, surah, ayah).
type Bookmark struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Surah     int       `json:"surah" db:"surah"`
	Ayah      int       `json:"ayah" db:"ayah"`
	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type UpsertBookmarkRequest struct {
	Surah int     `json:"surah"`
	Ayah  int     `json:"ayah"`
	Note  *string `json:"note,omitempty"`
}
