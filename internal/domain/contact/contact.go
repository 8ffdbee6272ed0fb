package contact

import "github.com/creser-psicologia/creser-api/internal/httperr"

// Status of a contact-form message in the admin inbox.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
	StatusArchived Status = "archived"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAnswered, StatusArchived:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}
