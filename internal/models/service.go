package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code        string  `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	DurationMin int     `gorm:"default:60" json:"duration_min"`

	Category string `gorm:"size:20;not null" json:"category"`
	Status   string `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
