package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deenTrackAPI/internal/prayer"
	"deenTrackAPI/internal/stats"
	"deenTrackAPI/internal/streak"
)

type PrayerService struct {
	db *pgxpool.Pool
}

func NewPrayerService(db *pgxpool.Pool) *PrayerService {
	return &PrayerService{db: db}
}

func (s *PrayerService) userIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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

// UpsertPrayerLog writes the log for (user, prayer, date). A second submission
// for the same key replaces the first wholesale; there is no merge.
func (s *PrayerService) UpsertPrayerLog(ctx context.Context, clerkID string, req *prayer.UpsertLogRequest) (*prayer.Log, error) {
	if err := req.Validate(); err != nil {
		return nil, err
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
	INSERT INTO prayer_logs (id, user_id, prayer_name, date, status, on_time, notes, concentration, location, emotional_state, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	ON CONFLICT (user_id, prayer_name, date)
	DO UPDATE SET
		status = EXCLUDED.status,
		on_time = EXCLUDED.on_time,
		notes = EXCLUDED.notes,
		concentration = EXCLUDED.concentration,
		location = EXCLUDED.location,
		emotional_state = EXCLUDED.emotional_state,
		updated_at = NOW()
	RETURNING id, user_id, prayer_name, date, status, on_time, notes, concentration, location, emotional_state, created_at, updated_at
	`

	entry := &prayer.Log{}
	err = s.db.QueryRow(ctx, query,
		uuid.New(), userID, req.PrayerName, date, req.Status, req.OnTime,
		req.Notes, req.Concentration, req.Location, req.EmotionalState,
	).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.PrayerName,
		&entry.Date,
		&entry.Status,
		&entry.OnTime,
		&entry.Notes,
		&entry.Concentration,
		&entry.Location,
		&entry.EmotionalState,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert prayer log: %w", err)
	}

	return entry, nil
}

// GetPrayerLogs returns the user's logs for one calendar day. A day with no
// logs is an empty slice, not an error.
func (s *PrayerService) GetPrayerLogs(ctx context.Context, clerkID string, date time.Time) ([]prayer.Log, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, prayer_name, date, status, on_time, notes, concentration, location, emotional_state, created_at, updated_at
	FROM prayer_logs
	WHERE user_id = $1 AND date = $2
	ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer logs: %w", err)
	}
	defer rows.Close()

	logs := []prayer.Log{}
	for rows.Next() {
		var entry prayer.Log
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.PrayerName,
			&entry.Date,
			&entry.Status,
			&entry.OnTime,
			&entry.Notes,
			&entry.Concentration,
			&entry.Location,
			&entry.EmotionalState,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prayer log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, nil
}

func (s *PrayerService) DeletePrayerLog(ctx context.Context, clerkID string, prayerName string, date time.Time) error {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`DELETE FROM prayer_logs WHERE user_id = $1 AND prayer_name = $2 AND date = $3`,
		userID, prayerName, date,
	)
	if err != nil {
		return fmt.Errorf("failed to delete prayer log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("prayer log not found")
	}

	return nil
}

// qualifyingDates returns every date on which the user logged all five
// obligatory prayers as completed. This is the sole input to streak math.
func (s *PrayerService) qualifyingDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	query := `
	SELECT date
	FROM prayer_logs
	WHERE user_id = $1
		AND status = 'completed'
		AND prayer_name IN ('Fajr', 'Dhuhr', 'Asr', 'Maghrib', 'Isha')
	GROUP BY date
	HAVING COUNT(DISTINCT prayer_name) >= $2
	`

	rows, err := s.db.Query(ctx, query, userID, prayer.ObligatoryCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get qualifying dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan qualifying date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, nil
}

// GetStreaks recomputes the user's streak info from log history.
func (s *PrayerService) GetStreaks(ctx context.Context, clerkID string) (*streak.Info, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	dates, err := s.qualifyingDates(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := streak.Compute(dates, time.Now())
	return &info, nil
}

type CalendarDay struct {
	Date           time.Time `json:"date"`
	PrayersLogged  int       `json:"prayers_logged"`
	CompletedCount int       `json:"completed_count"`
	FullyCompleted bool      `json:"fully_completed"`
}

// GetCalendar returns per-day completion counts for one month, for the
// month-grid view.
func (s *PrayerService) GetCalendar(ctx context.Context, clerkID string, year int, month time.Month) ([]CalendarDay, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
	SELECT date,
		COUNT(*) AS logged,
		COUNT(*) FILTER (WHERE status = 'completed' AND prayer_name IN ('Fajr', 'Dhuhr', 'Asr', 'Maghrib', 'Isha')) AS completed
	FROM prayer_logs
	WHERE user_id = $1 AND date >= $2 AND date < $3
	GROUP BY date
	ORDER BY date ASC
	`

	rows, err := s.db.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	defer rows.Close()

	days := []CalendarDay{}
	for rows.Next() {
		var day CalendarDay
		if err := rows.Scan(&day.Date, &day.PrayersLogged, &day.CompletedCount); err != nil {
			return nil, fmt.Errorf("failed to scan calendar day: %w", err)
		}
		day.FullyCompleted = day.CompletedCount >= prayer.ObligatoryCount
		days = append(days, day)
	}

	return days, nil
}

// GetDaysStat counts qualifying days within a period. Period is one of
// "week", "month", "year", "all_time".
func (s *PrayerService) GetDaysStat(ctx context.Context, clerkID string, period string) (*stats.DaysStat, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var since string
	switch period {
	case "week":
		since = `AND date >= date_trunc('week', CURRENT_DATE)`
	case "month":
		since = `AND date >= date_trunc('month', CURRENT_DATE)`
	case "year":
		since = `AND date >= date_trunc('year', CURRENT_DATE)`
	case "all_time":
		since = ``
	default:
		return nil, fmt.Errorf("invalid period %q", period)
	}

	query := fmt.Sprintf(`
	SELECT COUNT(*) FROM (
		SELECT date
		FROM prayer_logs
		WHERE user_id = $1
			AND status = 'completed'
			AND prayer_name IN ('Fajr', 'Dhuhr', 'Asr', 'Maghrib', 'Isha')
			%s
		GROUP BY date
		HAVING COUNT(DISTINCT prayer_name) >= $2
	) q
	`, since)

	stat := &stats.DaysStat{Period: period}
	err = s.db.QueryRow(ctx, query, userID, prayer.ObligatoryCount).Scan(&stat.DaysCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s stat: %w", period, err)
	}

	now := time.Now()
	switch period {
	case "week":
		stat.TotalDays = 7
	case "month":
		stat.TotalDays = time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	case "year":
		stat.TotalDays = time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC).YearDay()
	}

	return stat, nil
}

// GetUserStats assembles the profile dashboard numbers in one call.
func (s *PrayerService) GetUserStats(ctx context.Context, clerkID string) (*stats.UserStats, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	result := &stats.UserStats{}

	query := `
	SELECT
		COUNT(*) FILTER (WHERE date = CURRENT_DATE AND status = 'completed' AND prayer_name IN ('Fajr', 'Dhuhr', 'Asr', 'Maghrib', 'Isha')),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(DISTINCT date)
	FROM prayer_logs
	WHERE user_id = $1
	`
	err = s.db.QueryRow(ctx, query, userID).Scan(
		&result.PrayersToday,
		&result.TotalPrayersCompleted,
		&result.TotalDaysActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer stats: %w", err)
	}
	result.TodayComplete = result.PrayersToday >= prayer.ObligatoryCount

	dates, err := s.qualifyingDates(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := streak.Compute(dates, time.Now())
	result.CurrentStreak = info.CurrentStreak
	result.BestStreak = info.BestStreak

	now := time.Now()
	weekStart := now.AddDate(0, 0, -int((now.Weekday()+6)%7)) // Monday
	for _, d := range dates {
		if d.Year() == now.Year() {
			result.DaysThisYear++
			if d.Month() == now.Month() {
				result.DaysThisMonth++
			}
		}
		if !d.Before(time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, d.Location())) {
			result.DaysThisWeek++
		}
	}

	sideQuery := `
	SELECT
		(SELECT COUNT(*) FROM user_achievements WHERE user_id = $1),
		(SELECT COUNT(*) FROM adhkar_progress WHERE user_id = $1 AND count >= target),
		(SELECT COALESCE(SUM(pages_read), 0) FROM quran_reading_logs WHERE user_id = $1),
		(SELECT COUNT(*) FROM hadith_favorites WHERE user_id = $1)
	`
	err = s.db.QueryRow(ctx, sideQuery, userID).Scan(
		&result.AchievementsCount,
		&result.AdhkarCompleted,
		&result.QuranPagesRead,
		&result.HadithFavorites,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get side stats: %w", err)
	}

	return result, nil
}

// SunnahLog records an optional practice (sunnah prayers, fasting) on a day.
type SunnahLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Practice  string    `json:"practice"`
	Date      time.Time `json:"date"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *PrayerService) UpsertSunnahLog(ctx context.Context, clerkID string, practice string, date time.Time, notes *string) (*SunnahLog, error) {
	if practice == "" {
		return nil, fmt.Errorf("practice is required")
	}

	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO sunnah_logs (id, user_id, practice, date, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (user_id, practice, date)
	DO UPDATE SET notes = EXCLUDED.notes
	RETURNING id, user_id, practice, date, notes, created_at
	`

	entry := &SunnahLog{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, practice, date, notes).Scan(
		&entry.ID, &entry.UserID, &entry.Practice, &entry.Date, &entry.Notes, &entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert sunnah log: %w", err)
	}

	return entry, nil
}

func (s *PrayerService) GetSunnahLogs(ctx context.Context, clerkID string, date time.Time) ([]SunnahLog, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, practice, date, notes, created_at FROM sunnah_logs WHERE user_id = $1 AND date = $2 ORDER BY created_at ASC`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get sunnah logs: %w", err)
	}
	defer rows.Close()

	logs := []SunnahLog{}
	for rows.Next() {
		var entry SunnahLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Practice, &entry.Date, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sunnah log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, nil
}
