package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"deenTrackAPI/internal/adhkar"
	"deenTrackAPI/middleware"
	"deenTrackAPI/services"
)

type AdhkarHandler struct {
	adhkarService *services.AdhkarService
}

func NewAdhkarHandler(adhkarService *services.AdhkarService) *AdhkarHandler {
	return &AdhkarHandler{
		adhkarService: adhkarService,
	}
}

// ListAdhkar is public; the reference collection needs no account.
func (h *AdhkarHandler) ListAdhkar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.adhkarService.ListAdhkar(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *AdhkarHandler) GetDailyDhikr(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d, err := h.adhkarService.DailyDhikr(ctx, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, d)
}

// GetProgress behind optional auth: anonymous callers see empty progress.
func (h *AdhkarHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithJSON(w, http.StatusOK, []adhkar.Progress{})
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'date', expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	items, err := h.adhkarService.GetProgress(ctx, clerkID, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *AdhkarHandler) IncrementProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req adhkar.IncrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.adhkarService.IncrementProgress(ctx, clerkID, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}
