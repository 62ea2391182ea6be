package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTimingsPayload = `{
	"code": 200,
	"status": "OK",
	"data": {
		"timings": {
			"Fajr": "05:02 (EET)",
			"Sunrise": "06:31",
			"Dhuhr": "12:28",
			"Asr": "15:45",
			"Maghrib": "18:15",
			"Isha": "19:38"
		},
		"date": {
			"hijri": {
				"day": "21",
				"month": {"number": 3, "en": "Rabi al-Awwal"},
				"year": "1447"
			}
		},
		"meta": {"timezone": "Africa/Cairo"}
	}
}`

func newTestTimingsService(t *testing.T, handler http.HandlerFunc) (*TimingsService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("TIMINGS_API_URL", server.URL)
	return NewTimingsService(), server
}

func TestFetchPrayerTimes_Success(t *testing.T) {
	svc, _ := newTestTimingsService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("latitude"), "30.04")
		fmt.Fprint(w, validTimingsPayload)
	})

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	result, err := svc.FetchPrayerTimes(context.Background(), Coordinates{Latitude: 30.044, Longitude: 31.235}, day, 5)
	require.NoError(t, err)

	require.Len(t, result.Prayers, 6)
	assert.Equal(t, "Fajr", result.Prayers[0].Name)
	// Timezone suffix stripped, anchored to the requested day.
	assert.Equal(t, "05:02", result.Prayers[0].ClockTime)
	assert.Equal(t, time.Date(2026, 3, 10, 5, 2, 0, 0, time.UTC), result.Prayers[0].Timestamp)
	assert.False(t, result.Prayers[1].IsObligatory, "Sunrise is not obligatory")

	assert.Equal(t, "21 Rabi al-Awwal 1447 AH", result.HijriDate)
	assert.Equal(t, "Africa/Cairo", result.Timezone)
}

func TestFetchPrayerTimes_ApplicationError(t *testing.T) {
	// AlAdhan reports errors with code != 200 under an HTTP 200.
	svc, _ := newTestTimingsService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": 400, "status": "Invalid date", "data": {}}`)
	})

	_, err := svc.FetchPrayerTimes(context.Background(), Coordinates{Latitude: 30, Longitude: 31}, time.Now(), 5)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchPrayerTimes_HTTPError(t *testing.T) {
	svc, _ := newTestTimingsService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := svc.FetchPrayerTimes(context.Background(), Coordinates{Latitude: 30, Longitude: 31}, time.Now(), 5)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchPrayerTimes_MalformedPayload(t *testing.T) {
	svc, _ := newTestTimingsService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": 200, "data": `)
	})

	_, err := svc.FetchPrayerTimes(context.Background(), Coordinates{Latitude: 30, Longitude: 31}, time.Now(), 5)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchPrayerTimes_InvalidCoordinates(t *testing.T) {
	svc, _ := newTestTimingsService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider should not be called for invalid coordinates")
	})

	_, err := svc.FetchPrayerTimes(context.Background(), Coordinates{Latitude: 95, Longitude: 31}, time.Now(), 5)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFetch, "validation errors are the caller's fault, not the provider's")
}

func TestFetchPrayerTimes_CachesWithinHour(t *testing.T) {
	var calls int64
	svc, _ := newTestTimingsService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, validTimingsPayload)
	})

	coords := Coordinates{Latitude: 30.044, Longitude: 31.235}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.FetchPrayerTimes(context.Background(), coords, day, 5)
	require.NoError(t, err)
	_, err = svc.FetchPrayerTimes(context.Background(), coords, day, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// Coordinates that round to the same two decimals share a cache entry.
	_, err = svc.FetchPrayerTimes(context.Background(), Coordinates{Latitude: 30.0441, Longitude: 31.2349}, day, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// A clearly different location is a different key.
	_, err = svc.FetchPrayerTimes(context.Background(), Coordinates{Latitude: 30.50, Longitude: 31.235}, day, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))

	// A different method is a different key.
	_, err = svc.FetchPrayerTimes(context.Background(), coords, day, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestFetchPrayerTimes_ErrorsAreNotCached(t *testing.T) {
	var calls int64
	svc, _ := newTestTimingsService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, validTimingsPayload)
	})

	coords := Coordinates{Latitude: 30, Longitude: 31}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.FetchPrayerTimes(context.Background(), coords, day, 5)
	require.ErrorIs(t, err, ErrFetch)

	result, err := svc.FetchPrayerTimes(context.Background(), coords, day, 5)
	require.NoError(t, err, "retry after a failed fetch goes back to the provider")
	assert.Len(t, result.Prayers, 6)
}
