package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"deenTrackAPI/internal/prayer"
	"deenTrackAPI/internal/streak"
	"deenTrackAPI/middleware"
	"deenTrackAPI/services"
)

type PrayerHandler struct {
	prayerService  *services.PrayerService
	timingsService *services.TimingsService
}

func NewPrayerHandler(prayerService *services.PrayerService, timingsService *services.TimingsService) *PrayerHandler {
	return &PrayerHandler{
		prayerService:  prayerService,
		timingsService: timingsService,
	}
}

// TimingsResponse is the full day view: classified prayer times plus the
// live countdown to the next prayer.
type TimingsResponse struct {
	Date          time.Time           `json:"date"`
	HijriDate     string              `json:"hijri_date"`
	Timezone      string              `json:"timezone"`
	Prayers       []prayer.PrayerTime `json:"prayers"`
	CurrentPrayer *prayer.PrayerTime  `json:"current_prayer,omitempty"`
	NextPrayer    *prayer.PrayerTime  `json:"next_prayer,omitempty"`
	Countdown     *prayer.Countdown   `json:"countdown,omitempty"`
	CountdownText string              `json:"countdown_text,omitempty"`
}

// GetTimings is a public endpoint; no account is needed to see prayer times.
func (h *PrayerHandler) GetTimings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	lat, err := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'latitude' is required")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'longitude' is required")
		return
	}

	method := 2
	if raw := r.URL.Query().Get("method"); raw != "" {
		method, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'method' parameter")
			return
		}
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'date', expected YYYY-MM-DD")
			return
		}
	}

	timings, err := h.timingsService.FetchPrayerTimes(ctx, services.Coordinates{Latitude: lat, Longitude: lon}, day, method)
	if err != nil {
		if errors.Is(err, services.ErrFetch) {
			respondWithError(w, http.StatusBadGateway, "Prayer times are temporarily unavailable, please retry")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	classified := prayer.Classify(timings.Prayers, now)

	resp := TimingsResponse{
		Date:      timings.Date,
		HijriDate: timings.HijriDate,
		Timezone:  timings.Timezone,
		Prayers:   classified,
	}
	resp.CurrentPrayer = prayer.CurrentPrayer(classified)
	if next := prayer.NextPrayer(classified); next != nil {
		resp.NextPrayer = next
		countdown := prayer.CalculateCountdown(next.Timestamp, now)
		resp.Countdown = &countdown
		resp.CountdownText = countdown.Format()
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *PrayerHandler) UpsertLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req prayer.UpsertLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.prayerService.UpsertPrayerLog(ctx, clerkID, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

// GetLogs returns the day's logs; anonymous callers get an empty list so the
// tracker screen renders without an account.
func (h *PrayerHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithJSON(w, http.StatusOK, []prayer.Log{})
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

	logs, err := h.prayerService.GetPrayerLogs(ctx, clerkID, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

func (h *PrayerHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	prayerName := r.URL.Query().Get("prayer_name")
	if prayerName == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'prayer_name' is required")
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

	if err := h.prayerService.DeletePrayerLog(ctx, clerkID, prayerName, date); err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Prayer log deleted"})
}

// GetStreaks degrades to zeroes for anonymous callers; the streak widget is
// visible before sign-in.
func (h *PrayerHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithJSON(w, http.StatusOK, streak.Info{})
		return
	}

	info, err := h.prayerService.GetStreaks(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, info)
}

func (h *PrayerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userStats, err := h.prayerService.GetUserStats(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, userStats)
}

func (h *PrayerHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'year' parameter")
			return
		}
		year = parsed
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'month' parameter")
			return
		}
		month = time.Month(parsed)
	}

	days, err := h.prayerService.GetCalendar(ctx, clerkID, year, month)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, days)
}

func (h *PrayerHandler) GetDaysStat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}

	stat, err := h.prayerService.GetDaysStat(ctx, clerkID, period)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, stat)
}

type upsertSunnahRequest struct {
	Practice string  `json:"practice"`
	Date     string  `json:"date"`
	Notes    *string `json:"notes,omitempty"`
}

func (h *PrayerHandler) UpsertSunnahLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req upsertSunnahRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'date', expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	entry, err := h.prayerService.UpsertSunnahLog(ctx, clerkID, req.Practice, date, req.Notes)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func (h *PrayerHandler) GetSunnahLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
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

	logs, err := h.prayerService.GetSunnahLogs(ctx, clerkID, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}
