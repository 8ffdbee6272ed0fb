package appointment

import (
	"context"

	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	tz   string
}

func NewGetAvailability(repo domain.Repository, tz string) *GetAvailability {
	return &GetAvailability{repo: repo, tz: tz}
}

// Execute returns the free hours of a date. Weekends and past dates have none.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	date string,
) ([]string, error) {

	loc := timezone.Location(uc.tz)
	now := timezone.NowIn(uc.tz)

	day, err := domain.ParseSlot(date, "00:00", loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	if !domain.IsWorkingDay(day) {
		return []string{}, nil
	}
	if date < now.Format(domain.DateLayout) {
		return []string{}, nil
	}

	aps, err := uc.repo.ListAppointmentsForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]bool, len(aps))
	for _, ap := range aps {
		if domain.Status(ap.Status).Active() {
			occupied[ap.Hour] = true
		}
	}

	free := make([]string, 0)
	for _, h := range domain.BaseHours() {
		if !occupied[h] {
			free = append(free, h)
		}
	}

	return free, nil
}
