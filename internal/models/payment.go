package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Nil until the payer is matched to (or provisioned with) an account.
	UserID *uint `gorm:"index" json:"user_id"`

	Reference string  `gorm:"size:100;uniqueIndex" json:"reference"`
	Amount    float64 `gorm:"not null" json:"amount"`
	Method    string  `gorm:"size:20;default:'qr'" json:"method"`
	Status    string  `gorm:"size:20;default:'pending'" json:"status"`

	Concept      string `gorm:"size:255;not null" json:"concept"`
	PurchaseType string `gorm:"size:50;not null" json:"purchase_type"`

	ProofPath     string `gorm:"size:500" json:"proof_path"`
	ThumbnailPath string `gorm:"size:500" json:"thumbnail_path"`

	// MercadoPago payment id, when the payment came through checkout.
	ExternalID string `gorm:"size:100;index" json:"external_id"`

	PayerName     string `gorm:"size:100" json:"payer_name"`
	PayerEmail    string `gorm:"size:100;index" json:"payer_email"`
	PayerPhone    string `gorm:"size:20" json:"payer_phone"`
	PayerDocument string `gorm:"size:20" json:"payer_document"`

	PaidAt     *time.Time `json:"paid_at"`
	ApprovedAt *time.Time `json:"approved_at"`
	ApprovedBy *uint      `json:"approved_by"`
	AdminNotes string     `gorm:"type:text" json:"admin_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
