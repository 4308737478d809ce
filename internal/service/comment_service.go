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
)

// CommentService manages comments under a review, which must in turn belong
// to the title named in the path.
type CommentService interface {
	List(ctx context.Context, titleID, reviewID uint, page repository.Page) ([]model.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, commentID uint) (*model.Comment, error)
	Create(ctx context.Context, requester access.Identity, titleID, reviewID uint, text *string) (*model.Comment, error)
	Update(ctx context.Context, requester access.Identity, titleID, reviewID, commentID uint, text *string) (*model.Comment, error)
	Delete(ctx context.Context, requester access.Identity, titleID, reviewID, commentID uint) error
}

type commentService struct {
	reviews  repository.ReviewRepository
	comments repository.CommentRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(reviews repository.ReviewRepository, comments repository.CommentRepository) CommentService {
	return &commentService{reviews: reviews, comments: comments}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID uint, page repository.Page) ([]model.Comment, int64, error) {
	if _, err := findReview(ctx, s.reviews, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, page)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID uint) (*model.Comment, error) {
	if _, err := findReview(ctx, s.reviews, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.find(ctx, reviewID, commentID)
}

func (s *commentService) Create(ctx context.Context, requester access.Identity, titleID, reviewID uint, text *string) (*model.Comment, error) {
	if err := access.AuthoredPolicy.Allow(requester, access.ActionCreate); err != nil {
		return nil, err
	}
	if _, err := findReview(ctx, s.reviews, titleID, reviewID); err != nil {
		return nil, err
	}
	if text == nil {
		return nil, apperrors.Invalid("text", "this field is required")
	}
	if verr := validateCommentText(*text); verr != nil {
		return nil, verr
	}

	comment := &model.Comment{
		ReviewID:     reviewID,
		AuthoredText: model.AuthoredText{Text: *text, AuthorID: requester.UserID},
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, requester access.Identity, titleID, reviewID, commentID uint, text *string) (*model.Comment, error) {
	comment, err := s.authorize(ctx, requester, access.ActionUpdate, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if text == nil {
		return comment, nil
	}
	if verr := validateCommentText(*text); verr != nil {
		return nil, verr
	}
	comment.Text = *text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, requester access.Identity, titleID, reviewID, commentID uint) error {
	comment, err := s.authorize(ctx, requester, access.ActionDelete, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// authorize runs the coarse check, loads the comment and runs the object
// check against its author.
func (s *commentService) authorize(ctx context.Context, requester access.Identity, action access.Action, titleID, reviewID, commentID uint) (*model.Comment, error) {
	if err := access.AuthoredPolicy.Allow(requester, action); err != nil {
		return nil, err
	}
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthoredPolicy.AllowObject(requester, action, comment.AuthorID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) find(ctx context.Context, reviewID, commentID uint) (*model.Comment, error) {
	comment, err := s.comments.Find(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return comment, nil
}

func validateCommentText(text string) *apperrors.Error {
	if strings.TrimSpace(text) == "" {
		return apperrors.Invalid("text", "this field may not be blank")
	}
	return nil
}
