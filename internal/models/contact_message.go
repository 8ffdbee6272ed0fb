package models

import "time"

type ContactMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;not null" json:"email"`
	Phone   string `gorm:"size:20" json:"phone"`
	Subject string `gorm:"size:255;not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`

	InquiryType string `gorm:"size:50;not null" json:"inquiry_type"`
	Status      string `gorm:"size:20;default:'pending'" json:"status"`

	SourceIP  string `gorm:"size:45" json:"source_ip"`
	UserAgent string `gorm:"size:500" json:"user_agent"`

	Read          bool       `gorm:"default:false" json:"read"`
	AnsweredBy    *uint      `json:"answered_by"`
	AnsweredAt    *time.Time `json:"answered_at"`
	InternalNotes string     `gorm:"type:text" json:"internal_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
