package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/domain/account"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/domain/booking/bookingtest"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
)

const clinicTZ = "America/Bogota"

// A weekday far enough out that the tests never collide with the clock.
const futureMonday = "2030-01-07"

func seedRepo() (*bookingtest.FakeRepo, *models.User, *models.Service) {
	repo := bookingtest.NewFakeRepo()

	user := &models.User{
		Name:   "Laura Gómez",
		Email:  "laura@example.com",
		Role:   string(account.RoleClient),
		Status: string(account.StatusActive),
	}
	_ = repo.CreateUser(context.Background(), user)

	svc := &models.Service{
		Code:   "PSI-IND",
		Name:   "Psicoterapia individual",
		Price:  70000,
		Status: "active",
	}
	svc.ID = repo.NextID()
	repo.Services[svc.ID] = svc

	return repo, user, svc
}

func seedCredit(repo *bookingtest.FakeRepo, userID, serviceID uint, remaining int) *models.Credit {
	expiry := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	cr := &models.Credit{
		UserID:       userID,
		ServiceID:    serviceID,
		InitialQty:   4,
		RemainingQty: remaining,
		ExpiresAt:    &expiry,
		Status:       string(domain.CreditActive),
	}
	_ = repo.CreateCredit(context.Background(), cr)
	return cr
}

func TestBookConsumesCredit(t *testing.T) {
	repo, user, svc := seedRepo()
	cr := seedCredit(repo, user.ID, svc.ID, 4)

	uc := NewBookAppointment(repo, nil, clinicTZ)

	ap, err := uc.Execute(context.Background(), BookAppointmentInput{
		RequesterID:   user.ID,
		RequesterRole: account.RoleClient,
		ServiceID:     svc.ID,
		Date:          futureMonday,
		Hour:          "09:00",
		Modality:      "presencial",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	require.NotNil(t, ap.CreditID)
	assert.Equal(t, cr.ID, *ap.CreditID)
	assert.Equal(t, 3, cr.RemainingQty)
}

func TestBookWithoutCredit(t *testing.T) {
	repo, user, svc := seedRepo()

	uc := NewBookAppointment(repo, nil, clinicTZ)

	_, err := uc.Execute(context.Background(), BookAppointmentInput{
		RequesterID:   user.ID,
		RequesterRole: account.RoleClient,
		ServiceID:     svc.ID,
		Date:          futureMonday,
		Hour:          "09:00",
		Modality:      "virtual",
	})
	assert.True(t, httperr.IsBusiness(err, "no_credit_available"))
	assert.Empty(t, repo.Appointments)
}

func TestBookAdminSkipsCredit(t *testing.T) {
	repo, user, svc := seedRepo()

	admin := &models.User{Role: string(account.RoleAdmin), Status: string(account.StatusActive)}
	_ = repo.CreateUser(context.Background(), admin)

	uc := NewBookAppointment(repo, nil, clinicTZ)

	ap, err := uc.Execute(context.Background(), BookAppointmentInput{
		RequesterID:   admin.ID,
		RequesterRole: account.RoleAdmin,
		TargetUserID:  user.ID,
		ServiceID:     svc.ID,
		Date:          futureMonday,
		Hour:          "10:00",
		Modality:      "presencial",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, ap.UserID)
	assert.Nil(t, ap.CreditID)
}

func TestBookForOtherRequiresAdmin(t *testing.T) {
	repo, user, svc := seedRepo()
	seedCredit(repo, user.ID, svc.ID, 4)

	other := &models.User{Role: string(account.RoleClient), Status: string(account.StatusActive)}
	_ = repo.CreateUser(context.Background(), other)

	uc := NewBookAppointment(repo, nil, clinicTZ)

	_, err := uc.Execute(context.Background(), BookAppointmentInput{
		RequesterID:   user.ID,
		RequesterRole: account.RoleClient,
		TargetUserID:  other.ID,
		ServiceID:     svc.ID,
		Date:          futureMonday,
		Hour:          "09:00",
		Modality:      "presencial",
	})
	assert.True(t, httperr.IsBusiness(err, "not_allowed"))
}

func TestBookSlotTaken(t *testing.T) {
	repo, user, svc := seedRepo()
	cr := seedCredit(repo, user.ID, svc.ID, 4)

	uc := NewBookAppointment(repo, nil, clinicTZ)

	in := BookAppointmentInput{
		RequesterID:   user.ID,
		RequesterRole: account.RoleClient,
		ServiceID:     svc.ID,
		Date:          futureMonday,
		Hour:          "11:00",
		Modality:      "presencial",
	}

	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))

	// Only the first booking consumed a session.
	assert.Equal(t, 3, cr.RemainingQty)
}

func TestBookScheduleValidation(t *testing.T) {
	repo, user, svc := seedRepo()
	seedCredit(repo, user.ID, svc.ID, 4)

	uc := NewBookAppointment(repo, nil, clinicTZ)

	base := BookAppointmentInput{
		RequesterID:   user.ID,
		RequesterRole: account.RoleClient,
		ServiceID:     svc.ID,
		Modality:      "presencial",
	}

	tests := []struct {
		name string
		date string
		hour string
		code string
	}{
		{"saturday", "2030-01-05", "09:00", "outside_business_days"},
		{"lunch hour", futureMonday, "13:00", "outside_business_hours"},
		{"past", "2020-01-06", "09:00", "date_in_past"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Date = tt.date
			in.Hour = tt.hour
			_, err := uc.Execute(context.Background(), in)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}

func TestBookInvalidModality(t *testing.T) {
	repo, user, svc := seedRepo()

	uc := NewBookAppointment(repo, nil, clinicTZ)

	_, err := uc.Execute(context.Background(), BookAppointmentInput{
		RequesterID:   user.ID,
		RequesterRole: account.RoleClient,
		ServiceID:     svc.ID,
		Date:          futureMonday,
		Hour:          "09:00",
		Modality:      "hibrida",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_modality"))
}
