package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deenTrackAPI/internal/prayer"
	"deenTrackAPI/internal/user"
	"deenTrackAPI/services"
	"deenTrackAPI/tests/helpers"
)

func TestCheckAndUnlockAchievements_Idempotent(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	userService := services.NewUserService(pool)
	prayerService := services.NewPrayerService(pool)
	achievementService := services.NewAchievementService(pool, nil)

	clerkID := "user_ach_" + time.Now().Format("20060102150405")
	_, err := userService.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:  clerkID,
		Email:    "testach@example.com",
		Username: "testach",
	})
	require.NoError(t, err)

	// Seed a one-prayer achievement so a single log unlocks it.
	achievementID := uuid.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO achievements (id, name, description, icon, category, criteria_type, criteria_value, created_at)
		VALUES ($1, 'First Prayer', 'Log your first completed prayer', 'star', 'prayers', 'total_prayers', 1, NOW())
	`, achievementID)
	require.NoError(t, err)
	defer pool.Exec(ctx, `DELETE FROM achievements WHERE id = $1`, achievementID)

	_, err = prayerService.UpsertPrayerLog(ctx, clerkID, &prayer.UpsertLogRequest{
		PrayerName: "Fajr",
		Status:     prayer.LogCompleted,
		OnTime:     true,
	})
	require.NoError(t, err)

	unlocked, err := achievementService.CheckAndUnlockAchievements(ctx, clerkID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "First Prayer", unlocked[0].Name)

	var firstUnlockedAt time.Time
	err = pool.QueryRow(ctx,
		`SELECT ua.unlocked_at FROM user_achievements ua
		JOIN users u ON u.id = ua.user_id
		WHERE u.clerk_id = $1 AND ua.achievement_id = $2`,
		clerkID, achievementID,
	).Scan(&firstUnlockedAt)
	require.NoError(t, err)

	// Second run with unchanged stats: nothing new, unlock time untouched.
	unlocked, err = achievementService.CheckAndUnlockAchievements(ctx, clerkID)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	var secondUnlockedAt time.Time
	err = pool.QueryRow(ctx,
		`SELECT ua.unlocked_at FROM user_achievements ua
		JOIN users u ON u.id = ua.user_id
		WHERE u.clerk_id = $1 AND ua.achievement_id = $2`,
		clerkID, achievementID,
	).Scan(&secondUnlockedAt)
	require.NoError(t, err)
	assert.Equal(t, firstUnlockedAt, secondUnlockedAt)

	// The progress view reports it unlocked at 100%.
	all, err := achievementService.GetAchievements(ctx, clerkID)
	require.NoError(t, err)

	found := false
	for _, a := range all {
		if a.ID == achievementID {
			found = true
			assert.True(t, a.Unlocked)
			assert.Equal(t, 100.0, a.Progress)
		}
	}
	assert.True(t, found)
}
