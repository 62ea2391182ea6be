package achievement

import (
	"time"

	"github.com/google/uuid"
)

type CriteriaType string

const (
	CriteriaStreak          CriteriaType = "streak"
	CriteriaBestStreak      CriteriaType = "best_streak"
	CriteriaTotalPrayers    CriteriaType = "total_prayers"
	CriteriaTotalDays       CriteriaType = "total_days"
	CriteriaAdhkarCount     CriteriaType = "adhkar_count"
	CriteriaQuranPages      CriteriaType = "quran_pages"
	CriteriaHadithFavorites CriteriaType = "hadith_favorites"
)

type Achievement struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	Description   string       `json:"description" db:"description"`
	Icon          string       `json:"icon" db:"icon"`
	Category      string       `json:"category" db:"category"`
	CriteriaType  CriteriaType `json:"criteria_type" db:"criteria_type"`
	CriteriaValue int          `json:"criteria_value" db:"criteria_value"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// UserAchievement records a one-way unlock. The (user_id, achievement_id)
// unique constraint makes the fire-and-forget unlock write idempotent.
type UserAchievement struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type AchievementWithProgress struct {
	Achievement
	CurrentValue int        `json:"current_value"`
	Progress     float64    `json:"progress"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedAt   *time.Time `json:"unlocked_at,omitempty"`
}

// Progress returns the percentage toward target, capped at 100.
func Progress(current, target int) float64 {
	if target <= 0 {
		return 100
	}
	p := float64(current) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}
