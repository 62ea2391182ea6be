package utils

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"deenTrackAPI/internal/notification"
)

// NotificationCreator is the one method the triggers need from the
// notification service.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

// reminderHour is the local hour after which streak-risk nudges go out.
// After Isha is typically in by then.
const reminderHour = 21

// StreakAtRisk decides whether a user should be nudged: an active streak,
// the day mostly gone, and fewer than five prayers logged completed.
func StreakAtRisk(currentStreak, prayersCompletedToday int, now time.Time) bool {
	if currentStreak == 0 || prayersCompletedToday >= 5 {
		return false
	}
	return now.Hour() >= reminderHour
}

// SendStreakRiskReminders scans for users whose streak would break at
// midnight and creates one streak_risk notification each. Runs from the
// background reminder loop; failures are logged and skipped.
func SendStreakRiskReminders(db *pgxpool.Pool, notifier NotificationCreator, now time.Time) {
	if now.Hour() < reminderHour {
		return
	}

	bgCtx := context.Background()

	// Candidates: at least one completed log yesterday and fewer than five
	// today. Yesterday's count stands in for the streak length; StreakAtRisk
	// makes the actual call per row, and the exact streak is recomputed when
	// the notification is displayed.
	query := `
		SELECT u.id, y.cnt, COALESCE(t.cnt, 0)
		FROM users u
		JOIN (
			SELECT user_id, COUNT(*) AS cnt FROM prayer_logs
			WHERE date = CURRENT_DATE - INTERVAL '1 day' AND status = 'completed'
			GROUP BY user_id
		) y ON y.user_id = u.id
		LEFT JOIN (
			SELECT user_id, COUNT(*) AS cnt FROM prayer_logs
			WHERE date = CURRENT_DATE AND status = 'completed'
			GROUP BY user_id
		) t ON t.user_id = u.id
		WHERE COALESCE(t.cnt, 0) < 5
	`

	rows, err := db.Query(bgCtx, query)
	if err != nil {
		log.Printf("Failed to query streak-risk users: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var userID uuid.UUID
		var completedYesterday, completedToday int
		if err := rows.Scan(&userID, &completedYesterday, &completedToday); err != nil {
			continue
		}

		if !StreakAtRisk(completedYesterday, completedToday, now) {
			continue
		}

		req := &notification.CreateNotificationRequest{
			UserID:  userID,
			Type:    notification.TypeStreakRisk,
			Title:   "Your streak is at risk",
			Message: "You still have prayers left today. Complete them to keep your streak.",
			Data: map[string]any{
				"completed_today": completedToday,
			},
		}

		if _, err := notifier.CreateNotification(bgCtx, req); err != nil {
			log.Printf("Failed to create streak-risk notification for %s: %v", userID, err)
		}
	}
}
