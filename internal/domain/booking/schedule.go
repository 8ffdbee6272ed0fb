package booking

import (
	"time"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

// The clinic runs a single fixed schedule: Monday to Friday, hourly slots
// from 08:00 to 18:00 with 13:00 reserved for lunch.

const (
	DateLayout = "2006-01-02"
	HourLayout = "15:04"
)

var baseHours = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// BaseHours returns the bookable hours of a working day.
func BaseHours() []string {
	out := make([]string, len(baseHours))
	copy(out, baseHours)
	return out
}

func IsWorkingDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func isBaseHour(hour string) bool {
	for _, h := range baseHours {
		if h == hour {
			return true
		}
	}
	return false
}

// ParseSlot validates the raw date/hour pair and returns the slot start in loc.
func ParseSlot(date, hour string, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" "+HourLayout, date+" "+hour, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return start, nil
}

// ValidateSlot enforces the schedule window for a new booking:
// working day, base hour, not in the past.
func ValidateSlot(start time.Time, now time.Time) error {
	if !IsWorkingDay(start) {
		return httperr.ErrBusiness("outside_business_days")
	}
	if !isBaseHour(start.Format(HourLayout)) {
		return httperr.ErrBusiness("outside_business_hours")
	}
	if start.Before(now) {
		return httperr.ErrBusiness("date_in_past")
	}
	return nil
}

// WithinCancellationWindow reports whether a client may still cancel a slot
// starting at start, given the 24 hour minimum notice.
func WithinCancellationWindow(start time.Time, now time.Time) bool {
	return now.Before(start.Add(-24 * time.Hour))
}
