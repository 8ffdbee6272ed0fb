package models

import "time"

type Credit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	// Nil for credits granted manually by an admin.
	PaymentID *uint `json:"payment_id"`

	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	InitialQty   int     `gorm:"not null" json:"initial_qty"`
	RemainingQty int     `gorm:"not null" json:"remaining_qty"`
	UnitPrice    float64 `gorm:"not null" json:"unit_price"`

	ExpiresAt *time.Time `gorm:"type:date" json:"expires_at"`
	Status    string     `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
