package timings

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHijriDateDisplay(t *testing.T) {
	h := HijriDate{
		Day:   "15",
		Month: HijriMonth{Number: 9, En: "Ramadan"},
		Year:  "1447",
	}
	assert.Equal(t, "15 Ramadan 1447 AH", h.Display())

	assert.Equal(t, "", HijriDate{}.Display())
}

func TestResponseDecoding(t *testing.T) {
	payload := `{
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
					"date": "21-03-1447",
					"day": "21",
					"month": {"number": 3, "en": "Rabi al-Awwal"},
					"year": "1447"
				}
			},
			"meta": {
				"latitude": 30.04,
				"longitude": 31.23,
				"timezone": "Africa/Cairo"
			}
		}
	}`

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "05:02 (EET)", resp.Data.Timings.Fajr)
	assert.Equal(t, "Africa/Cairo", resp.Data.Meta.Timezone)
	assert.Equal(t, "21 Rabi al-Awwal 1447 AH", resp.Data.Date.Hijri.Display())
}

func TestFallbackHijri(t *testing.T) {
	got, err := FallbackHijri(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, got, "AH")
	assert.Contains(t, got, "144", "year should be in the 1440s")
}
