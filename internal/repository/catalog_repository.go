package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// CatalogEntry is a slug-keyed reference entity.
type CatalogEntry interface {
	model.Category | model.Genre
}

// CatalogRepository persists categories or genres.
type CatalogRepository[T CatalogEntry] interface {
	Create(ctx context.Context, entry *T) error
	FindBySlug(ctx context.Context, slug string) (*T, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]T, error)
	List(ctx context.Context, search string, page Page) ([]T, int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type catalogRepository[T CatalogEntry] struct {
	db *gorm.DB
	// detach releases titles from the entry before it is deleted.
	detach func(tx *gorm.DB, slug string) error
}

// NewCategoryRepository builds a repository for categories. Deleting a
// category leaves its titles without a category.
func NewCategoryRepository(db *gorm.DB) CatalogRepository[model.Category] {
	return &catalogRepository[model.Category]{
		db: db,
		detach: func(tx *gorm.DB, slug string) error {
			ids := tx.Model(&model.Category{}).Select("id").Where("slug = ?", slug)
			return tx.Model(&model.Title{}).
				Where("category_id IN (?)", ids).
				Update("category_id", nil).Error
		},
	}
}

// NewGenreRepository builds a repository for genres. Deleting a genre
// removes it from every title.
func NewGenreRepository(db *gorm.DB) CatalogRepository[model.Genre] {
	return &catalogRepository[model.Genre]{
		db: db,
		detach: func(tx *gorm.DB, slug string) error {
			ids := tx.Model(&model.Genre{}).Select("id").Where("slug = ?", slug)
			return tx.Where("genre_id IN (?)", ids).Delete(&model.TitleGenre{}).Error
		},
	}
}

func (r *catalogRepository[T]) Create(ctx context.Context, entry *T) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *catalogRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	var entry T
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&entry).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// FindBySlugs returns the entries matching slugs; missing slugs are simply
// absent from the result.
func (r *catalogRepository[T]) FindBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	var entries []T
	if len(slugs) == 0 {
		return entries, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("name").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *catalogRepository[T]) List(ctx context.Context, search string, page Page) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", containsPattern(strings.ToLower(search)))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []T
	if err := query.Scopes(page.scope).Order("name").Order("id").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *catalogRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.detach(tx, slug); err != nil {
			return err
		}
		res := tx.Where("slug = ?", slug).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
