package integration

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deenTrackAPI/handlers"
	"deenTrackAPI/services"
	"deenTrackAPI/tests/helpers"
)

func TestClerkWebhook_UserLifecycle(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	// Without CLERK_WEBHOOK_SECRET the handler skips signature verification,
	// which is what we want for this test.
	t.Setenv("CLERK_WEBHOOK_SECRET", "")

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	clerkID := "user_wh_" + time.Now().Format("20060102150405")

	// user.created
	payload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	created, err := userService.GetUserByClerkID(req.Context(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", created.Username)
	assert.Equal(t, "test.user@example.com", created.Email)
	assert.True(t, created.EmailVerified)

	// user.updated
	payload = helpers.MockClerkWebhookPayload("user.updated", clerkID)
	req = httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr = httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	updated, err := userService.GetUserByClerkID(req.Context(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, "updateduser", updated.Username)
	assert.Equal(t, "Updated", updated.FirstName)

	// user.deleted
	payload = helpers.MockClerkWebhookPayload("user.deleted", clerkID)
	req = httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr = httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err = userService.GetUserByClerkID(req.Context(), clerkID)
	assert.Error(t, err)
}

func TestClerkWebhook_InvalidSignatureRejected(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_testsecret")

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	payload := helpers.MockClerkWebhookPayload("user.created", "user_bad_sig")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	req.Header.Set("svix-id", "msg_123")
	req.Header.Set("svix-timestamp", "1700000000")
	req.Header.Set("svix-signature", "v1,notavalidsignature")

	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
