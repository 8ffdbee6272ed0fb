package payment

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/domain/account"
	"github.com/creser-psicologia/creser-api/internal/domain/billing"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/storage"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type SubmitPaymentInput struct {
	PayerName     string
	PayerEmail    string
	PayerPhone    string
	PayerDocument string

	Amount       float64
	Concept      string
	PurchaseType string
	Method       string
	Reference    string

	ProofContentType string
	ProofData        []byte
}

// ======================================================
// USE CASE
// ======================================================

type SubmitPayment struct {
	repo   domain.Repository
	proofs *storage.ProofStore
	audit  *audit.Dispatcher
	tz     string
}

func NewSubmitPayment(
	repo domain.Repository,
	proofs *storage.ProofStore,
	audit *audit.Dispatcher,
	tz string,
) *SubmitPayment {
	return &SubmitPayment{
		repo:   repo,
		proofs: proofs,
		audit:  audit,
		tz:     tz,
	}
}

func (uc *SubmitPayment) Execute(
	ctx context.Context,
	in SubmitPaymentInput,
) (*models.Payment, error) {

	purchaseType, err := billing.ParsePurchaseType(in.PurchaseType)
	if err != nil {
		return nil, err
	}

	method := billing.MethodQR
	if in.Method != "" {
		method, err = billing.ParseMethod(in.Method)
		if err != nil {
			return nil, err
		}
	}

	proofPath, thumbPath, err := uc.proofs.SaveProof(ctx, in.ProofContentType, in.ProofData)
	if err != nil {
		return nil, err
	}

	// Payers without an account get one provisioned right away so credits
	// have somewhere to land on approval.
	var userID *uint
	user, err := uc.repo.GetUserByEmail(ctx, in.PayerEmail)
	switch {
	case err == nil:
		userID = &user.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		provisioned, perr := provisionPayerAccount(ctx, uc.repo, in.PayerName, in.PayerEmail, in.PayerPhone, in.PayerDocument)
		if perr != nil {
			return nil, perr
		}
		userID = &provisioned.ID
	default:
		return nil, err
	}

	now := timezone.NowIn(uc.tz)

	p := &models.Payment{
		UserID:        userID,
		Reference:     in.Reference,
		Amount:        in.Amount,
		Method:        string(method),
		Status:        string(billing.StatusPending),
		Concept:       in.Concept,
		PurchaseType:  string(purchaseType),
		ProofPath:     proofPath,
		ThumbnailPath: thumbPath,
		PayerName:     in.PayerName,
		PayerEmail:    in.PayerEmail,
		PayerPhone:    in.PayerPhone,
		PayerDocument: in.PayerDocument,
		PaidAt:        &now,
	}

	if err := uc.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "payment_submitted",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}

// provisionPayerAccount creates a client account with a temporary password
// derived from the payer's document.
func provisionPayerAccount(
	ctx context.Context,
	repo domain.Repository,
	name, email, phone, document string,
) (*models.User, error) {

	hashed, err := bcrypt.GenerateFromPassword([]byte("CreSer"+document), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Document:     document,
		PasswordHash: string(hashed),
		Role:         string(account.RoleClient),
		Status:       string(account.StatusActive),
	}

	if err := repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
