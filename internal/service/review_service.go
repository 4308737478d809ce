package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reviewhub/internal/access"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"
)

// ReviewInput carries the writable review fields. Nil fields are left
// unchanged on update.
type ReviewInput struct {
	Text  *string
	Score *int
}

// ReviewService manages reviews under a title. The author and the title are
// always taken from the request context, never from the payload.
type ReviewService interface {
	List(ctx context.Context, titleID uint, page repository.Page) ([]model.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID uint) (*model.Review, error)
	Create(ctx context.Context, requester access.Identity, titleID uint, in ReviewInput) (*model.Review, error)
	Update(ctx context.Context, requester access.Identity, titleID, reviewID uint, in ReviewInput) (*model.Review, error)
	Delete(ctx context.Context, requester access.Identity, titleID, reviewID uint) error
}

type reviewService struct {
	titles  repository.TitleRepository
	reviews repository.ReviewRepository
}

// NewReviewService creates a new review service.
func NewReviewService(titles repository.TitleRepository, reviews repository.ReviewRepository) ReviewService {
	return &reviewService{titles: titles, reviews: reviews}
}

func (s *reviewService) List(ctx context.Context, titleID uint, page repository.Page) ([]model.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page)
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID uint) (*model.Review, error) {
	return findReview(ctx, s.reviews, titleID, reviewID)
}

// Create adds the requester's review of the title. Each author may review a
// title once; the storage unique index makes a second attempt a Conflict.
func (s *reviewService) Create(ctx context.Context, requester access.Identity, titleID uint, in ReviewInput) (*model.Review, error) {
	if err := access.AuthoredPolicy.Allow(requester, access.ActionCreate); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	var errs []*apperrors.Error
	if in.Text == nil {
		errs = append(errs, apperrors.Invalid("text", "this field is required"))
	}
	if in.Score == nil {
		errs = append(errs, apperrors.Invalid("score", "this field is required"))
	}
	errs = append(errs, validateReviewInput(in)...)
	if verr := apperrors.Merge(errs...); verr != nil {
		return nil, verr
	}

	review := &model.Review{
		TitleID:      titleID,
		Score:        *in.Score,
		AuthoredText: model.AuthoredText{Text: *in.Text, AuthorID: requester.UserID},
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("title", "you have already reviewed this title")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, requester access.Identity, titleID, reviewID uint, in ReviewInput) (*model.Review, error) {
	if err := access.AuthoredPolicy.Allow(requester, access.ActionUpdate); err != nil {
		return nil, err
	}
	review, err := findReview(ctx, s.reviews, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthoredPolicy.AllowObject(requester, access.ActionUpdate, review.AuthorID); err != nil {
		return nil, err
	}

	if verr := apperrors.Merge(validateReviewInput(in)...); verr != nil {
		return nil, verr
	}
	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, requester access.Identity, titleID, reviewID uint) error {
	if err := access.AuthoredPolicy.Allow(requester, access.ActionDelete); err != nil {
		return err
	}
	review, err := findReview(ctx, s.reviews, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := access.AuthoredPolicy.AllowObject(requester, access.ActionDelete, review.AuthorID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func (s *reviewService) requireTitle(ctx context.Context, titleID uint) error {
	ok, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return fmt.Errorf("find title: %w", err)
	}
	if !ok {
		return apperrors.NotFound("title not found")
	}
	return nil
}

func findReview(ctx context.Context, reviews repository.ReviewRepository, titleID, reviewID uint) (*model.Review, error) {
	review, err := reviews.Find(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

func validateReviewInput(in ReviewInput) []*apperrors.Error {
	var errs []*apperrors.Error
	if in.Text != nil && strings.TrimSpace(*in.Text) == "" {
		errs = append(errs, apperrors.Invalid("text", "this field may not be blank"))
	}
	if in.Score != nil {
		errs = append(errs, validation.Score(*in.Score))
	}
	return errs
}
