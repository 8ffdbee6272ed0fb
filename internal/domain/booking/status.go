package booking

import "github.com/creser-psicologia/creser-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// Active statuses occupy their slot.
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

func InitialStatus() Status {
	return StatusScheduled
}

// ===============================
// Modality
// ===============================

type Modality string

const (
	ModalityInPerson Modality = "presencial"
	ModalityVirtual  Modality = "virtual"
)

func ParseModality(s string) (Modality, error) {
	switch Modality(s) {
	case ModalityInPerson, ModalityVirtual:
		return Modality(s), nil
	}
	return "", httperr.ErrBusiness("invalid_modality")
}

// ===============================
// Transitions
// ===============================

// CanConfirm: only freshly scheduled appointments can be confirmed.
func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// ===============================
// Cancellation actor
// ===============================

type CancelledBy string

const (
	CancelledByClient CancelledBy = "client"
	CancelledByAdmin  CancelledBy = "admin"
)
