package service

import (
	"reviewhub/internal/model"
)

// TitleInput is the write model of a title. Category and genres are given
// by slug. Nil fields are left unchanged on update; an empty Category
// clears the category.
type TitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// CatalogView is the nested read form of a category or genre.
type CatalogView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TitleView is the read model of a title: nested catalog entries and the
// rating computed from reviews, rounded to two decimals and null when the
// title has no reviews.
type TitleView struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Year        int           `json:"year"`
	Rating      *float64      `json:"rating"`
	Description string        `json:"description"`
	Genre       []CatalogView `json:"genre"`
	Category    *CatalogView  `json:"category"`
}

// NewTitleView maps a loaded title onto its read model.
func NewTitleView(t *model.Title) TitleView {
	view := TitleView{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]CatalogView, 0, len(t.Genres)),
	}
	if t.Rating.Valid {
		rating, _ := t.Rating.Decimal.Round(2).Float64()
		view.Rating = &rating
	}
	for _, g := range t.Genres {
		view.Genre = append(view.Genre, CatalogView{Name: g.Name, Slug: g.Slug})
	}
	if t.Category != nil {
		view.Category = &CatalogView{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	return view
}
