package booking

import (
	"time"

	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
)

// ===============================
// Credit Status
// ===============================

type CreditStatus string

const (
	CreditActive    CreditStatus = "active"
	CreditExhausted CreditStatus = "exhausted"
	CreditExpired   CreditStatus = "expired"
)

// ===============================
// Credit rules
// ===============================

// Consumable reports whether the credit can fund a session today. Expiry is
// a calendar-date comparison, so the credit works through the whole of its
// last valid day regardless of the timezone the instants carry.
func Consumable(cr *models.Credit, today time.Time) bool {
	if CreditStatus(cr.Status) != CreditActive || cr.RemainingQty <= 0 {
		return false
	}
	if cr.ExpiresAt != nil && Expired(cr.ExpiresAt, today) {
		return false
	}
	return true
}

// Expired reports whether an expiry date lies strictly before today's
// calendar date.
func Expired(expiresAt *time.Time, today time.Time) bool {
	return expiresAt != nil && expiresAt.Format(DateLayout) < today.Format(DateLayout)
}

// Consume takes one session from the credit, exhausting it at zero.
func Consume(cr *models.Credit, today time.Time) error {
	if !Consumable(cr, today) {
		return httperr.ErrBusiness("no_credit_available")
	}

	cr.RemainingQty--
	if cr.RemainingQty == 0 {
		cr.Status = string(CreditExhausted)
	}
	return nil
}

// Restore gives one session back after a cancellation. The remaining count
// never exceeds the initial allotment.
func Restore(cr *models.Credit) error {
	if cr.RemainingQty >= cr.InitialQty {
		return httperr.ErrBusiness("credit_not_consumed")
	}

	cr.RemainingQty++
	if CreditStatus(cr.Status) == CreditExhausted {
		cr.Status = string(CreditActive)
	}
	return nil
}
