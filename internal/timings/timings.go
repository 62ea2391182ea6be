package timings

import (
	"fmt"
	"time"

	"github.com/hablullah/go-hijri"
)

// Response is the top-level payload from the AlAdhan timings endpoint.
// The provider signals application errors through Code even when the HTTP
// status is 200.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings holds the clock times as "HH:mm" strings, possibly suffixed with a
// timezone marker like " (EET)" which the adapter strips during parsing.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

type DateInfo struct {
	Readable  string        `json:"readable"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

type HijriDate struct {
	Date  string     `json:"date"`
	Day   string     `json:"day"`
	Month HijriMonth `json:"month"`
	Year  string     `json:"year"`
}

type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
	Ar     string `json:"ar"`
}

// Display returns the Hijri date as "DD MonthName YYYY AH", or "" when the
// provider omitted the block.
func (h HijriDate) Display() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " AH"
}

type GregorianDate struct {
	Date string `json:"date"`
}

type Meta struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

var hijriMonthNames = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Sha'ban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// FallbackHijri converts a Gregorian day locally, for when the provider call
// fails or returns no Hijri block. Tabular conversion can drift a day from
// sighting-based calendars, which is acceptable for display.
func FallbackHijri(day time.Time) (string, error) {
	h, err := hijri.CreateHijriDate(day, hijri.Default)
	if err != nil {
		return "", fmt.Errorf("hijri conversion failed: %w", err)
	}
	if h.Month < 1 || h.Month > 12 {
		return "", fmt.Errorf("hijri conversion produced month %d", h.Month)
	}
	return fmt.Sprintf("%d %s %d AH", h.Day, hijriMonthNames[h.Month-1], h.Year), nil
}
