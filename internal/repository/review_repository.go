package repository

import (
	"context"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// ReviewRepository persists reviews. Lookups are scoped to the parent title.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uint) error
	Find(ctx context.Context, titleID, reviewID uint) (*model.Review, error)
	ListByTitle(ctx context.Context, titleID uint, page Page) ([]model.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. A second review by the same author on the same
// title fails with ErrDuplicate.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	if err := r.db.WithContext(ctx).Omit("Title", "Author").Create(review).Error; err != nil {
		return translate(err)
	}
	return r.loadAuthor(ctx, review)
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return translate(r.db.WithContext(ctx).Model(&model.Review{ID: review.ID}).
		Select("text", "score").
		Updates(map[string]interface{}{"text": review.Text, "score": review.Score}).Error)
}

// Delete removes the review and its comments.
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Review{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *reviewRepository) Find(ctx context.Context, titleID, reviewID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, titleID).
		First(&review).Error
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

// ListByTitle returns the title's reviews oldest first.
func (r *reviewRepository) ListByTitle(ctx context.Context, titleID uint, page Page) ([]model.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("title_id = ?", titleID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	err := query.Preload("Author").
		Scopes(page.scope).
		Order("pub_date").Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) loadAuthor(ctx context.Context, review *model.Review) error {
	var author model.User
	if err := r.db.WithContext(ctx).First(&author, review.AuthorID).Error; err != nil {
		return translate(err)
	}
	review.Author = &author
	return nil
}
