// Package bookingtest provides an in-memory booking.Repository for tests.
package bookingtest

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
)

type FakeRepo struct {
	Users        map[uint]*models.User
	Services     map[uint]*models.Service
	Appointments map[uint]*models.Appointment
	Credits      map[uint]*models.Credit
	Payments     map[uint]*models.Payment

	nextID uint
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{
		Users:        map[uint]*models.User{},
		Services:     map[uint]*models.Service{},
		Appointments: map[uint]*models.Appointment{},
		Credits:      map[uint]*models.Credit{},
		Payments:     map[uint]*models.Payment{},
	}
}

func (r *FakeRepo) NextID() uint {
	r.nextID++
	return r.nextID
}

// Atomic runs fn against the same store. Rollback is not simulated; tests
// that care assert on the error instead.
func (r *FakeRepo) Atomic(_ context.Context, fn func(booking.Repository) error) error {
	return fn(r)
}

// -------- Users --------

func (r *FakeRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.Users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *FakeRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeRepo) CreateUser(_ context.Context, u *models.User) error {
	u.ID = r.NextID()
	r.Users[u.ID] = u
	return nil
}

// -------- Services --------

func (r *FakeRepo) GetServiceByID(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.Services[id]
	if !ok || s.Status != "active" {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *FakeRepo) GetServiceByCode(_ context.Context, code string) (*models.Service, error) {
	for _, s := range r.Services {
		if s.Code == code && s.Status == "active" {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// -------- Appointments --------

func (r *FakeRepo) SlotTaken(_ context.Context, date, hour string) (bool, error) {
	for _, ap := range r.Appointments {
		if ap.Date == date && ap.Hour == hour && booking.Status(ap.Status).Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	taken, _ := r.SlotTaken(ctx, ap.Date, ap.Hour)
	if taken {
		return httperr.ErrBusiness("slot_unavailable")
	}
	ap.ID = r.NextID()
	r.Appointments[ap.ID] = ap
	return nil
}

func (r *FakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.Appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ap, nil
}

func (r *FakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.Appointments[ap.ID] = ap
	return nil
}

func (r *FakeRepo) ListAppointmentsForDate(_ context.Context, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.Appointments {
		if ap.Date == date {
			out = append(out, *ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// -------- Credits --------

func (r *FakeRepo) FindConsumableCredit(
	_ context.Context,
	userID uint,
	serviceID uint,
	today string,
) (*models.Credit, error) {

	var candidates []*models.Credit
	for _, cr := range r.Credits {
		if cr.UserID != userID || cr.ServiceID != serviceID {
			continue
		}
		if booking.CreditStatus(cr.Status) != booking.CreditActive || cr.RemainingQty <= 0 {
			continue
		}
		if cr.ExpiresAt != nil && cr.ExpiresAt.Format(booking.DateLayout) < today {
			continue
		}
		candidates = append(candidates, cr)
	}
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	// Oldest first, matching the FIFO order of the real query.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates[0], nil
}

func (r *FakeRepo) GetCredit(_ context.Context, id uint) (*models.Credit, error) {
	cr, ok := r.Credits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cr, nil
}

func (r *FakeRepo) CreateCredit(_ context.Context, cr *models.Credit) error {
	cr.ID = r.NextID()
	r.Credits[cr.ID] = cr
	return nil
}

func (r *FakeRepo) UpdateCredit(_ context.Context, cr *models.Credit) error {
	r.Credits[cr.ID] = cr
	return nil
}

// -------- Payments --------

func (r *FakeRepo) GetPayment(_ context.Context, id uint) (*models.Payment, error) {
	p, ok := r.Payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *FakeRepo) GetPaymentByReference(_ context.Context, reference string) (*models.Payment, error) {
	for _, p := range r.Payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeRepo) CreatePayment(_ context.Context, p *models.Payment) error {
	p.ID = r.NextID()
	r.Payments[p.ID] = p
	return nil
}

func (r *FakeRepo) UpdatePayment(_ context.Context, p *models.Payment) error {
	r.Payments[p.ID] = p
	return nil
}

var _ booking.Repository = (*FakeRepo)(nil)
