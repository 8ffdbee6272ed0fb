package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

var bogota = func() *time.Location {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		panic(err)
	}
	return loc
}()

func TestParseSlot(t *testing.T) {
	start, err := ParseSlot("2030-01-07", "09:00", bogota)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 9, start.Hour())

	_, err = ParseSlot("07-01-2030", "09:00", bogota)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))

	_, err = ParseSlot("2030-01-07", "9am", bogota)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

func TestValidateSlot(t *testing.T) {
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, bogota)

	slot := func(date, hour string) time.Time {
		s, err := ParseSlot(date, hour, bogota)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name string
		date string
		hour string
		code string
	}{
		{"monday morning", "2030-01-07", "08:00", ""},
		{"friday last slot", "2030-01-11", "18:00", ""},
		{"saturday", "2030-01-05", "10:00", "outside_business_days"},
		{"sunday", "2030-01-06", "10:00", "outside_business_days"},
		{"lunch hour", "2030-01-07", "13:00", "outside_business_hours"},
		{"half hour", "2030-01-07", "09:30", "outside_business_hours"},
		{"too early", "2030-01-07", "07:00", "outside_business_hours"},
		{"too late", "2030-01-07", "19:00", "outside_business_hours"},
		{"past date", "2029-12-24", "10:00", "date_in_past"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlot(slot(tt.date, tt.hour), now)
			if tt.code == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
			}
		})
	}
}

func TestBaseHours(t *testing.T) {
	hours := BaseHours()
	assert.Len(t, hours, 10)
	assert.NotContains(t, hours, "13:00")

	// Mutating the returned slice must not touch the schedule.
	hours[0] = "00:00"
	assert.Equal(t, "08:00", BaseHours()[0])
}

func TestWithinCancellationWindow(t *testing.T) {
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, bogota)

	assert.True(t, WithinCancellationWindow(start, start.Add(-25*time.Hour)))
	assert.False(t, WithinCancellationWindow(start, start.Add(-24*time.Hour)))
	assert.False(t, WithinCancellationWindow(start, start.Add(-time.Hour)))
}
