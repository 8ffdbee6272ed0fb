package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Nil for admin-created bookings, which do not consume a credit.
	CreditID *uint   `json:"credit_id"`
	Credit   *Credit `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"credit,omitempty"`

	// Slot, in the clinic timezone. A partial unique index on (date, hour)
	// for active statuses is created in internal/db.
	Date string `gorm:"size:10;not null;index:idx_appointments_slot" json:"date"`
	Hour string `gorm:"size:5;not null;index:idx_appointments_slot" json:"hour"`

	Modality string `gorm:"size:20;not null" json:"modality"`
	Status   string `gorm:"size:30;default:'scheduled'" json:"status"`

	ClientComments string `gorm:"type:text" json:"client_comments"`
	TherapistNotes string `gorm:"type:text" json:"therapist_notes"`
	VirtualLink    string `gorm:"size:500" json:"virtual_link"`

	CancelReason string     `gorm:"type:text" json:"cancel_reason"`
	CancelledBy  string     `gorm:"size:20" json:"cancelled_by"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
