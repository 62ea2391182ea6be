package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deenTrackAPI/internal/quran"
)

type QuranService struct {
	db *pgxpool.Pool
}

func NewQuranService(db *pgxpool.Pool) *QuranService {
	return &QuranService{db: db}
}

func (s *QuranService) userIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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

// UpsertReadingLog writes the day's reading record, replacing any previous
// one for the same date.
func (s *QuranService) UpsertReadingLog(ctx context.Context, clerkID string, req *quran.UpsertReadingLogRequest) (*quran.ReadingLog, error) {
	if req.PagesRead < 0 || req.MinutesRead < 0 {
		return nil, fmt.Errorf("pages and minutes cannot be negative")
	}
	for _, surah := range req.SurahsCompleted {
		if surah < 1 || surah > 114 {
			return nil, fmt.Errorf("invalid surah number %d", surah)
		}
	}

	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", req.Date)
		}
	}

	query := `
	INSERT INTO quran_reading_logs (id, user_id, date, pages_read, minutes_read, surahs_completed, completed, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	ON CONFLICT (user_id, date)
	DO UPDATE SET
		pages_read = EXCLUDED.pages_read,
		minutes_read = EXCLUDED.minutes_read,
		surahs_completed = EXCLUDED.surahs_completed,
		completed = EXCLUDED.completed,
		updated_at = NOW()
	RETURNING id, user_id, date, pages_read, minutes_read, surahs_completed, completed, updated_at
	`

	entry := &quran.ReadingLog{}
	err = s.db.QueryRow(ctx, query,
		uuid.New(), userID, date, req.PagesRead, req.MinutesRead, req.SurahsCompleted, req.Completed,
	).Scan(
		&entry.ID, &entry.UserID, &entry.Date, &entry.PagesRead,
		&entry.MinutesRead, &entry.SurahsCompleted, &entry.Completed, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert reading log: %w", err)
	}

	return entry, nil
}

// GetReadingLogs returns the user's reading history between two dates,
// newest first.
func (s *QuranService) GetReadingLogs(ctx context.Context, clerkID string, from, to time.Time) ([]quran.ReadingLog, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, date, pages_read, minutes_read, surahs_completed, completed, updated_at
	FROM quran_reading_logs
	WHERE user_id = $1 AND date >= $2 AND date <= $3
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get reading logs: %w", err)
	}
	defer rows.Close()

	logs := []quran.ReadingLog{}
	for rows.Next() {
		var entry quran.ReadingLog
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Date, &entry.PagesRead,
			&entry.MinutesRead, &entry.SurahsCompleted, &entry.Completed, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, nil
}

// UpsertBookmark saves a reading position. The same (surah, ayah) just
// refreshes the note.
func (s *QuranService) UpsertBookmark(ctx context.Context, clerkID string, req *quran.UpsertBookmarkRequest) (*quran.Bookmark, error) {
	if req.Surah < 1 || req.Surah > 114 {
		return nil, fmt.Errorf("invalid surah number %d", req.Surah)
	}
	if req.Ayah < 1 {
		return nil, fmt.Errorf("invalid ayah number %d", req.Ayah)
	}

	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO quran_bookmarks (id, user_id, surah, ayah, note, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (user_id, surah, ayah)
	DO UPDATE SET note = EXCLUDED.note
	RETURNING id, user_id, surah, ayah, note, created_at
	`

	bookmark := &quran.Bookmark{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, req.Surah, req.Ayah, req.Note).Scan(
		&bookmark.ID, &bookmark.UserID, &bookmark.Surah, &bookmark.Ayah, &bookmark.Note, &bookmark.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert bookmark: %w", err)
	}

	return bookmark, nil
}

func (s *QuranService) GetBookmarks(ctx context.Context, clerkID string) ([]quran.Bookmark, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, surah, ayah, note, created_at FROM quran_bookmarks WHERE user_id = $1 ORDER BY surah, ayah`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []quran.Bookmark{}
	for rows.Next() {
		var b quran.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.Surah, &b.Ayah, &b.Note, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}

	return bookmarks, nil
}

func (s *QuranService) DeleteBookmark(ctx context.Context, clerkID string, bookmarkID uuid.UUID) error {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`DELETE FROM quran_bookmarks WHERE id = $1 AND user_id = $2`, bookmarkID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bookmark not found")
	}

	return nil
}
