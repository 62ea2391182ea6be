package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deenTrackAPI/internal/hadith"
	"deenTrackAPI/utils"
)

type HadithService struct {
	db *pgxpool.Pool
}

func NewHadithService(db *pgxpool.Pool) *HadithService {
	return &HadithService{db: db}
}

func (s *HadithService) userIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("user not found")
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

// DailyHadith picks the day's hadith deterministically so all users see the
// same one for the whole day.
func (s *HadithService) DailyHadith(ctx context.Context, day time.Time) (*hadith.Hadith, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM hadiths`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count hadiths: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no hadiths available")
	}

	offset := utils.DailyIndex(day, "hadith", count)

	h := &hadith.Hadith{}
	err := s.db.QueryRow(ctx,
		`SELECT id, collection, reference, narrator, text_en, text_ar FROM hadiths ORDER BY id OFFSET $1 LIMIT 1`,
		offset,
	).Scan(&h.ID, &h.Collection, &h.Reference, &h.Narrator, &h.TextEn, &h.TextAr)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily hadith: %w", err)
	}

	return h, nil
}

func (s *HadithService) ListHadiths(ctx context.Context, collection string) ([]hadith.Hadith, error) {
	query := `SELECT id, collection, reference, narrator, text_en, text_ar FROM hadiths`
	args := []any{}
	if collection != "" {
		query += ` WHERE collection = $1`
		args = append(args, collection)
	}
	query += ` ORDER BY collection, reference`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hadiths: %w", err)
	}
	defer rows.Close()

	items := []hadith.Hadith{}
	for rows.Next() {
		var h hadith.Hadith
		if err := rows.Scan(&h.ID, &h.Collection, &h.Reference, &h.Narrator, &h.TextEn, &h.TextAr); err != nil {
			return nil, fmt.Errorf("failed to scan hadith: %w", err)
		}
		items = append(items, h)
	}

	return items, nil
}

// ToggleFavorite adds the hadith to the user's favorites, or removes it if
// already there. Returns whether the hadith is a favorite afterwards.
func (s *HadithService) ToggleFavorite(ctx context.Context, clerkID string, hadithID uuid.UUID) (bool, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return false, err
	}

	result, err := s.db.Exec(ctx,
		`DELETE FROM hadith_favorites WHERE user_id = $1 AND hadith_id = $2`, userID, hadithID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if result.RowsAffected() > 0 {
		return false, nil
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO hadith_favorites (id, user_id, hadith_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, hadith_id) DO NOTHING`,
		uuid.New(), userID, hadithID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	return true, nil
}

func (s *HadithService) GetFavorites(ctx context.Context, clerkID string) ([]hadith.Hadith, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT h.id, h.collection, h.reference, h.narrator, h.text_en, h.text_ar
	FROM hadith_favorites f
	JOIN hadiths h ON h.id = f.hadith_id
	WHERE f.user_id = $1
	ORDER BY f.created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	defer rows.Close()

	items := []hadith.Hadith{}
	for rows.Next() {
		var h hadith.Hadith
		if err := rows.Scan(&h.ID, &h.Collection, &h.Reference, &h.Narrator, &h.TextEn, &h.TextAr); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		items = append(items, h)
	}

	return items, nil
}
