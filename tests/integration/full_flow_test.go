package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deenTrackAPI/internal/prayer"
	"deenTrackAPI/internal/user"
	"deenTrackAPI/services"
	"deenTrackAPI/tests/helpers"
)

// Full tracker flow: log all five prayers for today, watch the streak and
// the stats react, and check upsert semantics along the way.
func TestPrayerTrackingFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	userService := services.NewUserService(pool)
	prayerService := services.NewPrayerService(pool)

	clerkID := "user_flow_" + time.Now().Format("20060102150405")
	_, err := userService.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:   clerkID,
		Email:     "testflow@example.com",
		Username:  "testflow",
		FirstName: "Test",
		LastName:  "Flow",
	})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")

	// Log four of five obligatory prayers.
	for _, name := range []string{"Fajr", "Dhuhr", "Asr", "Maghrib"} {
		_, err := prayerService.UpsertPrayerLog(ctx, clerkID, &prayer.UpsertLogRequest{
			PrayerName: name,
			Date:       today,
			Status:     prayer.LogCompleted,
			OnTime:     true,
		})
		require.NoError(t, err)
	}

	info, err := prayerService.GetStreaks(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 0, info.CurrentStreak, "four prayers do not qualify the day")

	// Isha completes the day.
	_, err = prayerService.UpsertPrayerLog(ctx, clerkID, &prayer.UpsertLogRequest{
		PrayerName: "Isha",
		Date:       today,
		Status:     prayer.LogCompleted,
		OnTime:     true,
	})
	require.NoError(t, err)

	info, err = prayerService.GetStreaks(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 1, info.CurrentStreak)
	assert.Equal(t, 1, info.BestStreak)

	stats, err := prayerService.GetUserStats(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.PrayersToday)
	assert.True(t, stats.TodayComplete)
	assert.Equal(t, 5, stats.TotalPrayersCompleted)

	// Resubmitting Isha as missed replaces the earlier row and drops the day
	// out of the streak.
	_, err = prayerService.UpsertPrayerLog(ctx, clerkID, &prayer.UpsertLogRequest{
		PrayerName: "Isha",
		Date:       today,
		Status:     prayer.LogMissed,
	})
	require.NoError(t, err)

	logs, err := prayerService.GetPrayerLogs(ctx, clerkID, mustParseDate(t, today))
	require.NoError(t, err)
	assert.Len(t, logs, 5, "upsert replaces, never duplicates")

	info, err = prayerService.GetStreaks(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 0, info.CurrentStreak)
}

func TestUpsertPrayerLog_RejectsInvalid(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	userService := services.NewUserService(pool)
	prayerService := services.NewPrayerService(pool)

	clerkID := "user_inv_" + time.Now().Format("20060102150405")
	_, err := userService.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:  clerkID,
		Email:    "testinvalid@example.com",
		Username: "testinvalid",
	})
	require.NoError(t, err)

	_, err = prayerService.UpsertPrayerLog(ctx, clerkID, &prayer.UpsertLogRequest{
		PrayerName: "Tahajjud",
		Status:     prayer.LogCompleted,
	})
	assert.Error(t, err, "unknown prayer name")

	_, err = prayerService.UpsertPrayerLog(ctx, clerkID, &prayer.UpsertLogRequest{
		PrayerName: "Fajr",
		Status:     prayer.LogQada,
		OnTime:     true,
	})
	assert.Error(t, err, "qada cannot be on time")
}

func mustParseDate(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", raw)
	require.NoError(t, err)
	return parsed
}
