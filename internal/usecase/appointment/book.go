package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/domain/account"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	RequesterID   uint
	RequesterRole account.Role

	// TargetUserID lets an admin book on behalf of a client. Zero means
	// the requester books for themselves.
	TargetUserID uint

	ServiceID uint
	Date      string
	Hour      string
	Modality  string

	ClientComments string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewBookAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *BookAppointment {
	return &BookAppointment{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	modality, err := domain.ParseModality(in.Modality)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(uc.tz)
	now := timezone.NowIn(uc.tz)

	start, err := domain.ParseSlot(in.Date, in.Hour, loc)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSlot(start, now); err != nil {
		return nil, err
	}

	isAdmin := in.RequesterRole == account.RoleAdmin

	userID := in.RequesterID
	if in.TargetUserID != 0 && in.TargetUserID != in.RequesterID {
		if !isAdmin {
			return nil, httperr.ErrBusiness("not_allowed")
		}
		userID = in.TargetUserID
	}

	if _, err := uc.repo.GetUserByID(ctx, userID); err != nil {
		return nil, httperr.ErrBusiness("user_not_found")
	}

	var created *models.Appointment

	err = uc.repo.Atomic(ctx, func(tx domain.Repository) error {

		svc, err := tx.GetServiceByID(ctx, in.ServiceID)
		if err != nil {
			return httperr.ErrBusiness("service_not_found")
		}

		taken, err := tx.SlotTaken(ctx, in.Date, in.Hour)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("slot_unavailable")
		}

		// Admins book courtesy sessions without consuming a credit.
		var creditID *uint
		if !isAdmin {
			today := now.Format(domain.DateLayout)
			credit, err := tx.FindConsumableCredit(ctx, userID, svc.ID, today)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return httperr.ErrBusiness("no_credit_available")
				}
				return err
			}

			if err := domain.Consume(credit, now); err != nil {
				return err
			}
			if err := tx.UpdateCredit(ctx, credit); err != nil {
				return err
			}
			creditID = &credit.ID
		}

		ap := &models.Appointment{
			UserID:         userID,
			ServiceID:      svc.ID,
			CreditID:       creditID,
			Date:           in.Date,
			Hour:           in.Hour,
			Modality:       string(modality),
			Status:         string(domain.InitialStatus()),
			ClientComments: in.ClientComments,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.RequesterID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &created.ID,
		Metadata: map[string]any{"date": created.Date, "hour": created.Hour},
	})

	return created, nil
}
