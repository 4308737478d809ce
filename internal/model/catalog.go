package model

// NamedSlug is the shared shape of catalog reference entities: a display
// name plus an immutable unique slug used as the natural key.
type NamedSlug struct {
	Name string `json:"name" gorm:"size:256;not null;index"`
	Slug string `json:"slug" gorm:"size:50;not null;uniqueIndex"`
}

// Category groups titles; a title belongs to at most one category.
type Category struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	NamedSlug `gorm:"embedded"`
}

// Genre tags titles; a title may carry many genres.
type Genre struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	NamedSlug `gorm:"embedded"`
}

// TitleGenre is the join row between titles and genres.
type TitleGenre struct {
	TitleID uint `gorm:"primaryKey"`
	GenreID uint `gorm:"primaryKey"`
}

// TableName pins the many-to-many join table name.
func (TitleGenre) TableName() string {
	return "title_genres"
}
