package appointment

import (
	"context"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/domain/account"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

type CancelAppointmentInput struct {
	AppointmentID uint
	ActorID       uint
	ActorRole     account.Role
	Reason        string
}

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	loc := timezone.Location(uc.tz)
	now := timezone.NowIn(uc.tz)

	isAdmin := in.ActorRole == account.RoleAdmin

	var cancelled *models.Appointment

	err := uc.repo.Atomic(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if !isAdmin && ap.UserID != in.ActorID {
			return httperr.ErrBusiness("not_allowed")
		}

		if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
			return err
		}

		// The 24h minimum notice binds clients only.
		if !isAdmin {
			start, err := domain.ParseSlot(ap.Date, ap.Hour, loc)
			if err != nil {
				return err
			}
			if !domain.WithinCancellationWindow(start, now) {
				return httperr.ErrBusiness("cancellation_window_closed")
			}
		}

		// Restore the consumed session together with the status flip so a
		// failure leaves neither change behind.
		if ap.CreditID != nil {
			cr, err := tx.GetCredit(ctx, *ap.CreditID)
			if err != nil {
				return err
			}
			if err := domain.Restore(cr); err != nil {
				return err
			}
			if err := tx.UpdateCredit(ctx, cr); err != nil {
				return err
			}
		}

		by := domain.CancelledByClient
		if isAdmin {
			by = domain.CancelledByAdmin
		}

		ap.Status = string(domain.StatusCancelled)
		ap.CancelReason = in.Reason
		ap.CancelledBy = string(by)
		ap.CancelledAt = &now

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		cancelled = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &cancelled.ID,
	})

	return cancelled, nil
}
