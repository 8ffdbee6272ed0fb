package models

import "time"

type NewsArticle struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title      string `gorm:"size:255;not null" json:"title"`
	Slug       string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Summary    string `gorm:"type:text;not null" json:"summary"`
	Content    string `gorm:"type:text;not null" json:"content"`
	CoverImage string `gorm:"size:500" json:"cover_image"`

	Category string `gorm:"size:50;not null" json:"category"`
	Status   string `gorm:"size:20;default:'draft'" json:"status"`

	AuthorID uint `json:"author_id"`

	PublishedAt *time.Time `json:"published_at"`
	Views       int        `gorm:"default:0" json:"views"`
	Featured    bool       `gorm:"default:false" json:"featured"`

	Tags            string `gorm:"size:500" json:"tags"`
	MetaDescription string `gorm:"size:160" json:"meta_description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
