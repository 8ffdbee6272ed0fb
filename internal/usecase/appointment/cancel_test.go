package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/domain/account"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/domain/booking/bookingtest"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
)

func seedAppointment(
	repo *bookingtest.FakeRepo,
	userID uint,
	creditID *uint,
	date string,
	status domain.Status,
) *models.Appointment {

	ap := &models.Appointment{
		UserID:   userID,
		CreditID: creditID,
		Date:     date,
		Hour:     "09:00",
		Modality: string(domain.ModalityInPerson),
		Status:   string(status),
	}
	ap.ID = repo.NextID()
	repo.Appointments[ap.ID] = ap
	return ap
}

func TestCancelRestoresCredit(t *testing.T) {
	repo, user, svc := seedRepo()
	cr := seedCredit(repo, user.ID, svc.ID, 3)
	ap := seedAppointment(repo, user.ID, &cr.ID, futureMonday, domain.StatusScheduled)

	uc := NewCancelAppointment(repo, nil, clinicTZ)

	out, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: ap.ID,
		ActorID:       user.ID,
		ActorRole:     account.RoleClient,
		Reason:        "viaje imprevisto",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), out.Status)
	assert.Equal(t, string(domain.CancelledByClient), out.CancelledBy)
	assert.Equal(t, "viaje imprevisto", out.CancelReason)
	require.NotNil(t, out.CancelledAt)
	assert.Equal(t, 4, cr.RemainingQty)
}

func TestCancelWindowClosedForClient(t *testing.T) {
	repo, user, svc := seedRepo()
	cr := seedCredit(repo, user.ID, svc.ID, 3)

	// A slot already in the past is always inside the 24h window.
	ap := seedAppointment(repo, user.ID, &cr.ID, "2020-01-06", domain.StatusScheduled)

	uc := NewCancelAppointment(repo, nil, clinicTZ)

	_, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: ap.ID,
		ActorID:       user.ID,
		ActorRole:     account.RoleClient,
	})
	assert.True(t, httperr.IsBusiness(err, "cancellation_window_closed"))
	assert.Equal(t, 3, cr.RemainingQty)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
}

func TestCancelAdminIgnoresWindow(t *testing.T) {
	repo, user, svc := seedRepo()
	cr := seedCredit(repo, user.ID, svc.ID, 3)
	ap := seedAppointment(repo, user.ID, &cr.ID, "2020-01-06", domain.StatusConfirmed)

	admin := &models.User{Role: string(account.RoleAdmin)}
	_ = repo.CreateUser(context.Background(), admin)

	uc := NewCancelAppointment(repo, nil, clinicTZ)

	out, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: ap.ID,
		ActorID:       admin.ID,
		ActorRole:     account.RoleAdmin,
		Reason:        "terapeuta incapacitada",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), out.Status)
	assert.Equal(t, string(domain.CancelledByAdmin), out.CancelledBy)
	assert.Equal(t, 4, cr.RemainingQty)
}

func TestCancelNotOwner(t *testing.T) {
	repo, user, svc := seedRepo()
	cr := seedCredit(repo, user.ID, svc.ID, 3)
	ap := seedAppointment(repo, user.ID, &cr.ID, futureMonday, domain.StatusScheduled)

	other := &models.User{Role: string(account.RoleClient)}
	_ = repo.CreateUser(context.Background(), other)

	uc := NewCancelAppointment(repo, nil, clinicTZ)

	_, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: ap.ID,
		ActorID:       other.ID,
		ActorRole:     account.RoleClient,
	})
	assert.True(t, httperr.IsBusiness(err, "not_allowed"))
}

func TestCancelTerminalStates(t *testing.T) {
	repo, user, _ := seedRepo()

	for _, status := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow} {
		ap := seedAppointment(repo, user.ID, nil, futureMonday, status)

		uc := NewCancelAppointment(repo, nil, clinicTZ)

		_, err := uc.Execute(context.Background(), CancelAppointmentInput{
			AppointmentID: ap.ID,
			ActorID:       user.ID,
			ActorRole:     account.RoleClient,
		})
		assert.True(t, httperr.IsBusiness(err, "invalid_state"), "status %s", status)
	}
}

func TestCancelAdminBookingHasNoCreditToRestore(t *testing.T) {
	repo, user, _ := seedRepo()
	ap := seedAppointment(repo, user.ID, nil, futureMonday, domain.StatusScheduled)

	uc := NewCancelAppointment(repo, nil, clinicTZ)

	out, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: ap.ID,
		ActorID:       user.ID,
		ActorRole:     account.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), out.Status)
	assert.Empty(t, repo.Credits)
}
