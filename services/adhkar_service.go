package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deenTrackAPI/internal/adhkar"
	"deenTrackAPI/utils"
)

type AdhkarService struct {
	db *pgxpool.Pool
}

func NewAdhkarService(db *pgxpool.Pool) *AdhkarService {
	return &AdhkarService{db: db}
}

func (s *AdhkarService) userIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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

// ListAdhkar returns the reference collection, optionally filtered by
// category.
func (s *AdhkarService) ListAdhkar(ctx context.Context, category string) ([]adhkar.Dhikr, error) {
	query := `SELECT id, arabic, transliteration, translation, category, target FROM adhkar`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list adhkar: %w", err)
	}
	defer rows.Close()

	items := []adhkar.Dhikr{}
	for rows.Next() {
		var d adhkar.Dhikr
		if err := rows.Scan(&d.ID, &d.Arabic, &d.Transliteration, &d.Translation, &d.Category, &d.Target); err != nil {
			return nil, fmt.Errorf("failed to scan dhikr: %w", err)
		}
		items = append(items, d)
	}

	return items, nil
}

// DailyDhikr picks the day's featured dhikr. The pick is deterministic per
// date so every user and every request sees the same one.
func (s *AdhkarService) DailyDhikr(ctx context.Context, day time.Time) (*adhkar.Dhikr, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM adhkar`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count adhkar: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no adhkar available")
	}

	offset := utils.DailyIndex(day, "dhikr", count)

	d := &adhkar.Dhikr{}
	err := s.db.QueryRow(ctx,
		`SELECT id, arabic, transliteration, translation, category, target FROM adhkar ORDER BY id OFFSET $1 LIMIT 1`,
		offset,
	).Scan(&d.ID, &d.Arabic, &d.Transliteration, &d.Translation, &d.Category, &d.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily dhikr: %w", err)
	}

	return d, nil
}

// GetProgress returns the user's counters for one day, including adhkar not
// yet started that day only if they already have a row.
func (s *AdhkarService) GetProgress(ctx context.Context, clerkID string, date time.Time) ([]adhkar.Progress, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT p.id, p.user_id, p.dhikr_id, p.date, p.count, a.target, p.updated_at
	FROM adhkar_progress p
	JOIN adhkar a ON a.id = p.dhikr_id
	WHERE p.user_id = $1 AND p.date = $2
	ORDER BY p.updated_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get adhkar progress: %w", err)
	}
	defer rows.Close()

	items := []adhkar.Progress{}
	for rows.Next() {
		var p adhkar.Progress
		if err := rows.Scan(&p.ID, &p.UserID, &p.DhikrID, &p.Date, &p.Count, &p.Target, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan adhkar progress: %w", err)
		}
		p.Completed = p.Count >= p.Target
		items = append(items, p)
	}

	return items, nil
}

// IncrementProgress bumps today's counter for a dhikr, capped at its target.
// An increment past the cap is accepted and silently clamped.
func (s *AdhkarService) IncrementProgress(ctx context.Context, clerkID string, req *adhkar.IncrementRequest) (*adhkar.Progress, error) {
	dhikrID, err := uuid.Parse(req.DhikrID)
	if err != nil {
		return nil, fmt.Errorf("invalid dhikr id")
	}

	amount := req.Amount
	if amount <= 0 {
		amount = 1
	}

	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var target int
	err = s.db.QueryRow(ctx, `SELECT target FROM adhkar WHERE id = $1`, dhikrID).Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dhikr not found")
		}
		return nil, fmt.Errorf("failed to get dhikr: %w", err)
	}

	query := `
	INSERT INTO adhkar_progress (id, user_id, dhikr_id, date, count, target, updated_at)
	VALUES ($1, $2, $3, CURRENT_DATE, LEAST($4, $5), $5, NOW())
	ON CONFLICT (user_id, dhikr_id, date)
	DO UPDATE SET
		count = LEAST(adhkar_progress.count + $4, $5),
		updated_at = NOW()
	RETURNING id, user_id, dhikr_id, date, count, target, updated_at
	`

	p := &adhkar.Progress{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, dhikrID, amount, target).Scan(
		&p.ID, &p.UserID, &p.DhikrID, &p.Date, &p.Count, &p.Target, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to increment adhkar progress: %w", err)
	}
	p.Completed = p.Count >= p.Target

	return p, nil
}
