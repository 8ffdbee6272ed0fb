package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/domain/billing"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

// Issued credits stay valid for one year.
const creditValidityDays = 365

type ApprovePaymentInput struct {
	PaymentID uint

	// Nil when the approval comes from the payment-provider webhook.
	AdminID *uint

	AdminNotes string

	// Optional explicit service for an individual purchase. Defaults to
	// individual psychotherapy.
	ServiceID *uint
}

type ApprovePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewApprovePayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *ApprovePayment {
	return &ApprovePayment{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

func (uc *ApprovePayment) Execute(
	ctx context.Context,
	in ApprovePaymentInput,
) (*models.Payment, error) {

	now := timezone.NowIn(uc.tz)

	var approved *models.Payment

	err := uc.repo.Atomic(ctx, func(tx domain.Repository) error {

		p, err := tx.GetPayment(ctx, in.PaymentID)
		if err != nil {
			return httperr.ErrBusiness("payment_not_found")
		}

		if err := billing.CanResolve(billing.Status(p.Status)); err != nil {
			return err
		}

		userID, err := resolvePayer(ctx, tx, p)
		if err != nil {
			return err
		}
		p.UserID = &userID

		if err := issueCredits(ctx, tx, p, userID, in.ServiceID, now); err != nil {
			return err
		}

		p.Status = string(billing.StatusApproved)
		p.ApprovedAt = &now
		p.ApprovedBy = in.AdminID
		p.AdminNotes = in.AdminNotes

		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}

		approved = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.AdminID,
		Action:   "payment_approved",
		Entity:   "payment",
		EntityID: &approved.ID,
	})

	return approved, nil
}

// resolvePayer links the payment to an account, falling back to the payer
// email and provisioning an account when none exists.
func resolvePayer(
	ctx context.Context,
	tx domain.Repository,
	p *models.Payment,
) (uint, error) {

	if p.UserID != nil {
		if _, err := tx.GetUserByID(ctx, *p.UserID); err == nil {
			return *p.UserID, nil
		}
	}

	user, err := tx.GetUserByEmail(ctx, p.PayerEmail)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	provisioned, err := provisionPayerAccount(ctx, tx, p.PayerName, p.PayerEmail, p.PayerPhone, p.PayerDocument)
	if err != nil {
		return 0, err
	}
	return provisioned.ID, nil
}

func issueCredits(
	ctx context.Context,
	tx domain.Repository,
	p *models.Payment,
	userID uint,
	serviceID *uint,
	now time.Time,
) error {

	expiry := now.AddDate(0, 0, creditValidityDays)

	if billing.PurchaseType(p.PurchaseType) == billing.PurchasePackage {
		for _, grant := range billing.PackageGrants(p.Amount) {
			svc, err := tx.GetServiceByCode(ctx, grant.ServiceCode)
			if err != nil {
				return httperr.ErrBusiness("package_service_not_found")
			}
			if err := createCredit(ctx, tx, p, userID, svc, grant.Quantity, expiry); err != nil {
				return err
			}
		}
		return nil
	}

	var svc *models.Service
	var err error
	if serviceID != nil {
		svc, err = tx.GetServiceByID(ctx, *serviceID)
	} else {
		svc, err = tx.GetServiceByCode(ctx, billing.CodeIndividualPsychotherapy)
	}
	if err != nil {
		return httperr.ErrBusiness("service_not_found")
	}

	qty, err := billing.IndividualQuantity(p.Amount, svc.Price)
	if err != nil {
		return err
	}

	return createCredit(ctx, tx, p, userID, svc, qty, expiry)
}

func createCredit(
	ctx context.Context,
	tx domain.Repository,
	p *models.Payment,
	userID uint,
	svc *models.Service,
	qty int,
	expiry time.Time,
) error {

	cr := &models.Credit{
		UserID:       userID,
		PaymentID:    &p.ID,
		ServiceID:    svc.ID,
		InitialQty:   qty,
		RemainingQty: qty,
		UnitPrice:    svc.Price,
		ExpiresAt:    &expiry,
		Status:       string(domain.CreditActive),
	}

	return tx.CreateCredit(ctx, cr)
}
