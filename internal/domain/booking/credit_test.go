package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
)

func activeCredit(initial, remaining int, expires *time.Time) *models.Credit {
	return &models.Credit{
		InitialQty:   initial,
		RemainingQty: remaining,
		ExpiresAt:    expires,
		Status:       string(CreditActive),
	}
}

func TestConsumable(t *testing.T) {
	today := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

	future := today.AddDate(0, 0, 30)
	past := today.AddDate(0, 0, -1)

	assert.True(t, Consumable(activeCredit(4, 2, &future), today))
	assert.True(t, Consumable(activeCredit(4, 2, nil), today))
	assert.False(t, Consumable(activeCredit(4, 0, &future), today))
	assert.False(t, Consumable(activeCredit(4, 2, &past), today))

	exhausted := activeCredit(4, 2, &future)
	exhausted.Status = string(CreditExhausted)
	assert.False(t, Consumable(exhausted, today))
}

func TestConsumableOnLastValidDay(t *testing.T) {
	clinic, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// A date-typed column stores the expiry as midnight UTC; late evening in
	// the clinic is already past that instant, but the calendar date matches.
	expiry := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	today := time.Date(2030, 1, 7, 20, 0, 0, 0, clinic)

	cr := activeCredit(4, 2, &expiry)
	assert.True(t, Consumable(cr, today))
	assert.NoError(t, Consume(cr, today))

	// The next calendar day it is gone.
	tomorrow := time.Date(2030, 1, 8, 7, 0, 0, 0, clinic)
	assert.False(t, Consumable(cr, tomorrow))
}

func TestExpired(t *testing.T) {
	expiry := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

	assert.False(t, Expired(nil, time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, Expired(&expiry, time.Date(2030, 1, 7, 23, 0, 0, 0, time.UTC)))
	assert.True(t, Expired(&expiry, time.Date(2030, 1, 8, 0, 0, 0, 0, time.UTC)))
}

func TestConsume(t *testing.T) {
	today := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

	cr := activeCredit(2, 2, nil)

	require.NoError(t, Consume(cr, today))
	assert.Equal(t, 1, cr.RemainingQty)
	assert.Equal(t, string(CreditActive), cr.Status)

	// Last session exhausts the credit.
	require.NoError(t, Consume(cr, today))
	assert.Equal(t, 0, cr.RemainingQty)
	assert.Equal(t, string(CreditExhausted), cr.Status)

	err := Consume(cr, today)
	assert.True(t, httperr.IsBusiness(err, "no_credit_available"))
}

func TestConsumeExpired(t *testing.T) {
	today := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	past := today.AddDate(0, 0, -1)

	cr := activeCredit(4, 4, &past)
	err := Consume(cr, today)
	assert.True(t, httperr.IsBusiness(err, "no_credit_available"))
	assert.Equal(t, 4, cr.RemainingQty)
}

func TestRestore(t *testing.T) {
	cr := activeCredit(4, 3, nil)

	require.NoError(t, Restore(cr))
	assert.Equal(t, 4, cr.RemainingQty)

	// Back at the initial allotment there is nothing to give back.
	err := Restore(cr)
	assert.True(t, httperr.IsBusiness(err, "credit_not_consumed"))
	assert.Equal(t, 4, cr.RemainingQty)
}

func TestRestoreReactivatesExhausted(t *testing.T) {
	cr := activeCredit(2, 0, nil)
	cr.Status = string(CreditExhausted)

	require.NoError(t, Restore(cr))
	assert.Equal(t, 1, cr.RemainingQty)
	assert.Equal(t, string(CreditActive), cr.Status)
}
