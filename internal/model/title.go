package model

import "github.com/shopspring/decimal"

// Title is a reviewable work.
type Title struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Year        int       `json:"year" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres      []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`

	// Rating is the average review score, filled only by queries that
	// aggregate reviews. It is never stored.
	Rating decimal.NullDecimal `json:"-" gorm:"->;-:migration"`
}
