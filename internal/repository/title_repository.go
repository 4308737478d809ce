package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reviewhub/internal/model"
)

// TitleFilter narrows a title listing. Zero fields do not filter.
type TitleFilter struct {
	Name         string
	Year         *int
	CategorySlug string
	GenreSlug    string
}

// TitleRepository persists titles and computes their rating on read.
type TitleRepository interface {
	Create(ctx context.Context, title *model.Title, genreIDs []uint) error
	Update(ctx context.Context, title *model.Title, genreIDs []uint, replaceGenres bool) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Title, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter TitleFilter, page Page) ([]model.Title, int64, error)
}

type titleRepository struct {
	db *gorm.DB
}

// NewTitleRepository creates a new title repository.
func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

// Create inserts the title and links it to genreIDs.
func (r *titleRepository) Create(ctx context.Context, title *model.Title, genreIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(title).Error; err != nil {
			return translate(err)
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

// Update writes the scalar fields and, when replaceGenres is set, swaps the
// genre links for genreIDs.
func (r *titleRepository) Update(ctx context.Context, title *model.Title, genreIDs []uint, replaceGenres bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Title{ID: title.ID}).
			Select("name", "year", "description", "category_id").
			Updates(map[string]interface{}{
				"name":        title.Name,
				"year":        title.Year,
				"description": title.Description,
				"category_id": title.CategoryID,
			})
		if res.Error != nil {
			return translate(res.Error)
		}
		if !replaceGenres {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&model.TitleGenre{}).Error; err != nil {
			return err
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

func linkGenres(tx *gorm.DB, titleID uint, genreIDs []uint) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]model.TitleGenre, 0, len(genreIDs))
	seen := make(map[uint]bool, len(genreIDs))
	for _, id := range genreIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, model.TitleGenre{TitleID: titleID, GenreID: id})
	}
	return translate(tx.Create(&links).Error)
}

// Delete removes the title with its genre links, reviews and their comments.
func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := tx.Model(&model.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviews).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&model.TitleGenre{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Title{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// FindByID loads the title with category, genres and rating.
func (r *titleRepository) FindByID(ctx context.Context, id uint) (*model.Title, error) {
	var title model.Title
	err := r.withRating(r.db.WithContext(ctx)).
		Where("titles.id = ?", id).
		Take(&title).Error
	if err != nil {
		return nil, translate(err)
	}
	return &title, nil
}

func (r *titleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Title{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns titles ordered by name with category, genres and rating.
func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]model.Title, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Title{}).
		Scopes(r.filtered(filter)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var titles []model.Title
	err = r.withRating(r.db.WithContext(ctx)).
		Scopes(r.filtered(filter), page.scope).
		Order("titles.name").Order("titles.id").
		Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

// withRating selects titles with the average score of their reviews as the
// rating column. Titles without reviews get NULL.
func (r *titleRepository) withRating(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Title{}).
		Select("titles.*, AVG(reviews.score) AS rating").
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Group("titles.id").
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name")
		})
}

func (r *titleRepository) filtered(f TitleFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Name != "" {
			db = db.Where("LOWER(titles.name) LIKE ?", containsPattern(strings.ToLower(f.Name)))
		}
		if f.Year != nil {
			db = db.Where("titles.year = ?", *f.Year)
		}
		if f.CategorySlug != "" {
			categories := r.db.Model(&model.Category{}).Select("id").Where("slug = ?", f.CategorySlug)
			db = db.Where("titles.category_id IN (?)", categories)
		}
		if f.GenreSlug != "" {
			linked := r.db.Model(&model.TitleGenre{}).
				Select("title_genres.title_id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug = ?", f.GenreSlug)
			db = db.Where("titles.id IN (?)", linked)
		}
		return db
	}
}
