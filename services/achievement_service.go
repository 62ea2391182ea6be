package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deenTrackAPI/internal/achievement"
	"deenTrackAPI/internal/notification"
	"deenTrackAPI/internal/prayer"
	"deenTrackAPI/internal/streak"
)

type AchievementService struct {
	db       *pgxpool.Pool
	notifier AchievementNotifier
}

// AchievementNotifier delivers the unlock notification. Nil disables
// notifications without changing unlock behavior.
type AchievementNotifier interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

func NewAchievementService(db *pgxpool.Pool, notifier AchievementNotifier) *AchievementService {
	return &AchievementService{db: db, notifier: notifier}
}

// GetAchievements returns the full catalog annotated with the user's unlock
// state and progress toward each target.
func (s *AchievementService) GetAchievements(ctx context.Context, clerkID string) ([]achievement.AchievementWithProgress, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	values, err := s.criteriaValues(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT a.id, a.name, a.description, a.icon, a.category, a.criteria_type, a.criteria_value, a.created_at,
		ua.unlocked_at
	FROM achievements a
	LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
	ORDER BY a.category, a.criteria_value ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	defer rows.Close()

	result := []achievement.AchievementWithProgress{}
	for rows.Next() {
		var item achievement.AchievementWithProgress
		var unlockedAt *time.Time
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Icon,
			&item.Category,
			&item.CriteriaType,
			&item.CriteriaValue,
			&item.CreatedAt,
			&unlockedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}

		item.CurrentValue = values[item.CriteriaType]
		item.Progress = achievement.Progress(item.CurrentValue, item.CriteriaValue)
		item.Unlocked = unlockedAt != nil
		item.UnlockedAt = unlockedAt
		if item.Unlocked {
			item.Progress = 100
		}

		result = append(result, item)
	}

	return result, nil
}

// CheckAndUnlockAchievements evaluates every criterion and inserts unlock
// rows for newly met ones. Safe to call after every log write: the unique
// constraint makes re-unlocks no-ops, and the unlock notification fires only
// when the insert actually created a row.
func (s *AchievementService) CheckAndUnlockAchievements(ctx context.Context, clerkID string) ([]achievement.Achievement, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	values, err := s.criteriaValues(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, icon, category, criteria_type, criteria_value, created_at FROM achievements`)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var catalog []achievement.Achievement
	for rows.Next() {
		var a achievement.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Category, &a.CriteriaType, &a.CriteriaValue, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		catalog = append(catalog, a)
	}
	rows.Close()

	var unlocked []achievement.Achievement
	for _, a := range catalog {
		if values[a.CriteriaType] < a.CriteriaValue {
			continue
		}

		result, err := s.db.Exec(ctx,
			`INSERT INTO user_achievements (id, user_id, achievement_id, unlocked_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (user_id, achievement_id) DO NOTHING`,
			uuid.New(), userID, a.ID,
		)
		if err != nil {
			log.Printf("Failed to unlock achievement %s for %s: %v", a.Name, userID, err)
			continue
		}

		// RowsAffected distinguishes a fresh unlock from an already-held one.
		if result.RowsAffected() == 0 {
			continue
		}

		unlocked = append(unlocked, a)

		if s.notifier != nil {
			_, err := s.notifier.CreateNotification(ctx, &notification.CreateNotificationRequest{
				UserID:  userID,
				Type:    notification.TypeAchievement,
				Title:   "Achievement unlocked",
				Message: a.Name,
				Data: map[string]any{
					"achievement_id": a.ID.String(),
					"icon":           a.Icon,
				},
			})
			if err != nil {
				log.Printf("Failed to send unlock notification for %s: %v", a.Name, err)
			}
		}
	}

	return unlocked, nil
}

// criteriaValues computes the user's current value for every criteria type
// in one pass so unlock checks and progress views agree.
func (s *AchievementService) criteriaValues(ctx context.Context, userID uuid.UUID) (map[achievement.CriteriaType]int, error) {
	values := make(map[achievement.CriteriaType]int)

	query := `
	SELECT
		(SELECT COUNT(*) FROM prayer_logs WHERE user_id = $1 AND status = 'completed'),
		(SELECT COUNT(DISTINCT date) FROM prayer_logs WHERE user_id = $1),
		(SELECT COUNT(*) FROM adhkar_progress WHERE user_id = $1 AND count >= target),
		(SELECT COALESCE(SUM(pages_read), 0) FROM quran_reading_logs WHERE user_id = $1),
		(SELECT COUNT(*) FROM hadith_favorites WHERE user_id = $1)
	`

	var totalPrayers, totalDays, adhkarDone, quranPages, hadithFavs int
	err := s.db.QueryRow(ctx, query, userID).Scan(&totalPrayers, &totalDays, &adhkarDone, &quranPages, &hadithFavs)
	if err != nil {
		return nil, fmt.Errorf("failed to get criteria values: %w", err)
	}

	values[achievement.CriteriaTotalPrayers] = totalPrayers
	values[achievement.CriteriaTotalDays] = totalDays
	values[achievement.CriteriaAdhkarCount] = adhkarDone
	values[achievement.CriteriaQuranPages] = quranPages
	values[achievement.CriteriaHadithFavorites] = hadithFavs

	dateRows, err := s.db.Query(ctx, `
	SELECT date
	FROM prayer_logs
	WHERE user_id = $1
		AND status = 'completed'
		AND prayer_name IN ('Fajr', 'Dhuhr', 'Asr', 'Maghrib', 'Isha')
	GROUP BY date
	HAVING COUNT(DISTINCT prayer_name) >= $2
	`, userID, prayer.ObligatoryCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get qualifying dates: %w", err)
	}
	defer dateRows.Close()

	var dates []time.Time
	for dateRows.Next() {
		var d time.Time
		if err := dateRows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan qualifying date: %w", err)
		}
		dates = append(dates, d)
	}

	info := streak.Compute(dates, time.Now())
	values[achievement.CriteriaStreak] = info.CurrentStreak
	values[achievement.CriteriaBestStreak] = info.BestStreak

	return values, nil
}
