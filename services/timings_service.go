package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"deenTrackAPI/internal/prayer"
	"deenTrackAPI/internal/timings"
	"deenTrackAPI/middleware"
)

// ErrFetch is the single error callers see for any provider failure:
// transport, non-2xx, malformed payload, or an application-level error code.
// The distinguishing detail is logged, not returned; the UI only ever offers
// a retry.
var ErrFetch = errors.New("failed to fetch prayer times")

const defaultTimingsBaseURL = "https://api.aladhan.com/v1"

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range", c.Longitude)
	}
	return nil
}

// DayTimings is the parsed result for one day and location. Prayers carry no
// status yet; classification happens against "now" at display time.
type DayTimings struct {
	Date      time.Time           `json:"date"`
	Prayers   []prayer.PrayerTime `json:"prayers"`
	HijriDate string              `json:"hijri_date"`
	Timezone  string              `json:"timezone"`
}

type timingsCacheEntry struct {
	value   *DayTimings
	expires time.Time
}

// TimingsService is the adapter in front of the AlAdhan timings API.
type TimingsService struct {
	client  *http.Client
	baseURL string

	mu    sync.Mutex
	cache map[string]timingsCacheEntry
}

func NewTimingsService() *TimingsService {
	baseURL := os.Getenv("TIMINGS_API_URL")
	if baseURL == "" {
		baseURL = defaultTimingsBaseURL
	}

	return &TimingsService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		cache:   make(map[string]timingsCacheEntry),
	}
}

// FetchPrayerTimes returns the day's prayer timestamps for a coordinate.
// Successful responses are cached for the remainder of the hour. Timestamps
// are anchored to the requested calendar day in its own location; the
// provider's timezone suffix is stripped. The raw zone name is kept on the
// response for display.
func (s *TimingsService) FetchPrayerTimes(ctx context.Context, coords Coordinates, day time.Time, method int) (*DayTimings, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = time.Now()
	}

	key := fmt.Sprintf("%.2f:%.2f:%s:%d", coords.Latitude, coords.Longitude, day.Format("2006-01-02"), method)

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok && time.Now().Before(entry.expires) {
		s.mu.Unlock()
		middleware.CountTimingsFetch("hit")
		return entry.value, nil
	}
	s.mu.Unlock()

	url := fmt.Sprintf("%s/timings/%s?latitude=%f&longitude=%f&method=%d",
		s.baseURL, day.Format("02-01-2006"), coords.Latitude, coords.Longitude, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Timings fetch failed: %v", err)
		middleware.CountTimingsFetch("error")
		return nil, ErrFetch
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Timings provider returned HTTP %d", resp.StatusCode)
		middleware.CountTimingsFetch("error")
		return nil, ErrFetch
	}

	var payload timings.Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("Timings payload malformed: %v", err)
		middleware.CountTimingsFetch("error")
		return nil, ErrFetch
	}

	// The provider signals errors with code != 200 even under HTTP 200.
	if payload.Code != http.StatusOK {
		log.Printf("Timings provider returned application code %d (%s)", payload.Code, payload.Status)
		middleware.CountTimingsFetch("error")
		return nil, ErrFetch
	}

	result, err := buildDayTimings(payload.Data, day)
	if err != nil {
		log.Printf("Timings parse failed: %v", err)
		middleware.CountTimingsFetch("error")
		return nil, ErrFetch
	}

	s.mu.Lock()
	s.cache[key] = timingsCacheEntry{
		value:   result,
		expires: time.Now().Truncate(time.Hour).Add(time.Hour),
	}
	s.mu.Unlock()

	middleware.CountTimingsFetch("fetched")
	return result, nil
}

func buildDayTimings(data timings.Data, day time.Time) (*DayTimings, error) {
	clocks := map[string]string{
		"Fajr":    data.Timings.Fajr,
		"Sunrise": data.Timings.Sunrise,
		"Dhuhr":   data.Timings.Dhuhr,
		"Asr":     data.Timings.Asr,
		"Maghrib": data.Timings.Maghrib,
		"Isha":    data.Timings.Isha,
	}

	var prayers []prayer.PrayerTime
	for _, def := range prayer.Definitions {
		raw, ok := clocks[def.Name]
		if !ok || raw == "" {
			return nil, fmt.Errorf("provider omitted %s", def.Name)
		}

		ts, err := prayer.ParseClockTime(raw, day)
		if err != nil {
			return nil, err
		}

		prayers = append(prayers, prayer.PrayerTime{
			Name:         def.Name,
			ClockTime:    ts.Format("15:04"),
			Timestamp:    ts,
			IsObligatory: def.IsObligatory,
		})
	}

	hijriDate := data.Date.Hijri.Display()
	if hijriDate == "" {
		if fallback, err := timings.FallbackHijri(day); err == nil {
			hijriDate = fallback
		}
	}

	return &DayTimings{
		Date:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
		Prayers:   prayers,
		HijriDate: hijriDate,
		Timezone:  data.Meta.Timezone,
	}, nil
}
