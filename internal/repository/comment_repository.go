package repository

import (
	"context"

	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// CommentRepository persists comments. Lookups are scoped to the parent review.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uint) error
	Find(ctx context.Context, reviewID, commentID uint) (*model.Comment, error)
	ListByReview(ctx context.Context, reviewID uint, page Page) ([]model.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Review", "Author").Create(comment).Error; err != nil {
		return translate(err)
	}
	var author model.User
	if err := r.db.WithContext(ctx).First(&author, comment.AuthorID).Error; err != nil {
		return translate(err)
	}
	comment.Author = &author
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return translate(r.db.WithContext(ctx).Model(&model.Comment{ID: comment.ID}).
		Update("text", comment.Text).Error)
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) Find(ctx context.Context, reviewID, commentID uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND review_id = ?", commentID, reviewID).
		First(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// ListByReview returns the review's comments oldest first.
func (r *commentRepository) ListByReview(ctx context.Context, reviewID uint, page Page) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("review_id = ?", reviewID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Author").
		Scopes(page.scope).
		Order("pub_date").Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
