package payment

import (
	"context"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/domain/billing"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

type RejectPayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewRejectPayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *RejectPayment {
	return &RejectPayment{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

// No credits are issued on rejection; the admin note records why.
func (uc *RejectPayment) Execute(
	ctx context.Context,
	paymentID uint,
	adminID uint,
	adminNotes string,
) (*models.Payment, error) {

	p, err := uc.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}

	if err := billing.CanResolve(billing.Status(p.Status)); err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.tz)

	p.Status = string(billing.StatusRejected)
	p.ApprovedAt = &now
	p.ApprovedBy = &adminID
	p.AdminNotes = adminNotes

	if err := uc.repo.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "payment_rejected",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}
