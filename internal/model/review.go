package model

import "time"

// AuthoredText is the shared shape of user-written entries: body text, the
// author and the publication timestamp.
type AuthoredText struct {
	Text     string    `json:"text" gorm:"type:text;not null"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	PubDate  time.Time `json:"pub_date" gorm:"not null;index;autoCreateTime"`
}

// Review is one author's scored opinion of a title. A title holds at most one
// review per author (unique index idx_reviews_title_author).
type Review struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	TitleID      uint   `json:"title_id" gorm:"not null;index"`
	Title        *Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
	Score        int    `json:"score" gorm:"not null"`
	AuthoredText `gorm:"embedded"`
	Author       *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

// Comment is a reply attached to a review.
type Comment struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	ReviewID     uint    `json:"review_id" gorm:"not null;index"`
	Review       *Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
	AuthoredText `gorm:"embedded"`
	Author       *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}
