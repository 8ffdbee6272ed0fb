package booking

import (
	"context"

	"github.com/creser-psicologia/creser-api/internal/models"
)

type Repository interface {
	// Atomic runs fn inside a single database transaction. The Repository
	// handed to fn sees and writes uncommitted state; any error rolls
	// everything back.
	Atomic(ctx context.Context, fn func(Repository) error) error

	// -------- Users --------
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	// -------- Services --------
	GetServiceByID(ctx context.Context, id uint) (*models.Service, error)
	GetServiceByCode(ctx context.Context, code string) (*models.Service, error)

	// -------- Appointments --------
	SlotTaken(ctx context.Context, date string, hour string) (bool, error)

	// CreateAppointment reports slot_unavailable when the active-slot
	// unique index rejects the row.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	ListAppointmentsForDate(ctx context.Context, date string) ([]models.Appointment, error)

	// -------- Credits --------

	// FindConsumableCredit selects (and locks) one active, unexpired credit
	// with remaining sessions for the (user, service) pair.
	FindConsumableCredit(ctx context.Context, userID uint, serviceID uint, today string) (*models.Credit, error)

	GetCredit(ctx context.Context, id uint) (*models.Credit, error)
	CreateCredit(ctx context.Context, cr *models.Credit) error
	UpdateCredit(ctx context.Context, cr *models.Credit) error

	// -------- Payments --------
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)

	// GetPaymentByReference resolves the external reference carried through
	// the checkout provider back to the local payment.
	GetPaymentByReference(ctx context.Context, reference string) (*models.Payment, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	UpdatePayment(ctx context.Context, p *models.Payment) error
}
