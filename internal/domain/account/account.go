package account

import "github.com/creser-psicologia/creser-api/internal/httperr"

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusSuspended:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}
