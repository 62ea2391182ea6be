package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deenTrackAPI/internal/notification"
	"deenTrackAPI/internal/prayer"
	"deenTrackAPI/internal/user"
	"deenTrackAPI/services"
	"deenTrackAPI/tests/helpers"
	"deenTrackAPI/utils"
)

func TestSendStreakRiskReminders(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	userService := services.NewUserService(pool)
	prayerService := services.NewPrayerService(pool)
	notificationService := services.NewNotificationService(pool, nil)

	suffix := time.Now().Format("20060102150405")
	atRiskID := "user_risk_" + suffix
	doneID := "user_done_" + suffix

	for _, u := range []struct{ clerkID, email, username string }{
		{atRiskID, "testrisk@example.com", "testrisk"},
		{doneID, "testdone@example.com", "testdone"},
	} {
		_, err := userService.CreateUser(ctx, &user.CreateUserRequest{
			ClerkID:  u.clerkID,
			Email:    u.email,
			Username: u.username,
		})
		require.NoError(t, err)
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	today := time.Now().Format("2006-01-02")

	logAll := func(clerkID, date string, names []string) {
		for _, name := range names {
			_, err := prayerService.UpsertPrayerLog(ctx, clerkID, &prayer.UpsertLogRequest{
				PrayerName: name,
				Date:       date,
				Status:     prayer.LogCompleted,
				OnTime:     true,
			})
			require.NoError(t, err)
		}
	}

	all := []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

	// Both users qualified yesterday; only one is behind today.
	logAll(atRiskID, yesterday, all)
	logAll(atRiskID, today, []string{"Fajr", "Dhuhr"})
	logAll(doneID, yesterday, all)
	logAll(doneID, today, all)

	streakRiskCount := func(clerkID string) int {
		notifs, err := notificationService.GetNotifications(ctx, clerkID, 50)
		require.NoError(t, err)
		count := 0
		for _, n := range notifs {
			if n.Type == notification.TypeStreakRisk {
				count++
			}
		}
		return count
	}

	// Too early in the day: nobody is nudged yet.
	utils.SendStreakRiskReminders(pool, notificationService, time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, streakRiskCount(atRiskID))

	// Late evening: the user behind on prayers gets exactly one reminder,
	// the user who finished the day gets none.
	utils.SendStreakRiskReminders(pool, notificationService, time.Date(2026, 1, 1, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, streakRiskCount(atRiskID))
	assert.Equal(t, 0, streakRiskCount(doneID))
}
