package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	review := &model.Review{ID: 5, TitleID: 1}

	t.Run("review must belong to the title", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		svc := NewCommentService(reviews, new(MockCommentRepository))
		reviews.On("Find", ctx, uint(2), uint(5)).Return(nil, repository.ErrNotFound)

		_, err := svc.Create(ctx, alice, 2, 5, strPtr("hi"))
		domainErr := requireKind(t, err, apperrors.KindNotFound)
		assert.Equal(t, "review not found", domainErr.Message)
	})

	t.Run("blank text", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		svc := NewCommentService(reviews, new(MockCommentRepository))
		reviews.On("Find", ctx, uint(1), uint(5)).Return(review, nil)

		_, err := svc.Create(ctx, alice, 1, 5, strPtr("   "))
		requireKind(t, err, apperrors.KindInvalidInput)
	})

	t.Run("binds author and review", func(t *testing.T) {
		reviews, comments := new(MockReviewRepository), new(MockCommentRepository)
		svc := NewCommentService(reviews, comments)
		reviews.On("Find", ctx, uint(1), uint(5)).Return(review, nil)
		comments.On("Create", ctx, mock.MatchedBy(func(c *model.Comment) bool {
			return c.ReviewID == 5 && c.AuthorID == bob.UserID && c.Text == "agreed"
		})).Return(nil)

		comment, err := svc.Create(ctx, bob, 1, 5, strPtr("agreed"))
		require.NoError(t, err)
		assert.Equal(t, uint(5), comment.ReviewID)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := NewCommentService(new(MockReviewRepository), new(MockCommentRepository))
		_, err := svc.Create(ctx, anonymous, 1, 5, strPtr("hi"))
		requireKind(t, err, apperrors.KindAuthenticationRequired)
	})
}

func TestCommentService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	review := &model.Review{ID: 5, TitleID: 1}
	newDeps := func() (*MockReviewRepository, *MockCommentRepository, CommentService) {
		reviews, comments := new(MockReviewRepository), new(MockCommentRepository)
		reviews.On("Find", ctx, uint(1), uint(5)).Return(review, nil)
		comments.On("Find", ctx, uint(5), uint(9)).Return(&model.Comment{
			ID: 9, ReviewID: 5, AuthoredText: model.AuthoredText{Text: "first", AuthorID: alice.UserID},
		}, nil)
		return reviews, comments, NewCommentService(reviews, comments)
	}

	_, comments, svc := newDeps()
	comments.On("Update", ctx, mock.Anything).Return(nil)
	updated, err := svc.Update(ctx, alice, 1, 5, 9, strPtr("edited"))
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	_, comments, svc = newDeps()
	_, err = svc.Update(ctx, bob, 1, 5, 9, strPtr("hijack"))
	requireKind(t, err, apperrors.KindPermissionDenied)
	comments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	_, comments, svc = newDeps()
	comments.On("Delete", ctx, uint(9)).Return(nil)
	require.NoError(t, svc.Delete(ctx, moderator, 1, 5, 9))
	comments.AssertCalled(t, "Delete", ctx, uint(9))

	_, comments, svc = newDeps()
	comments.On("Find", ctx, uint(5), uint(10)).Return(nil, repository.ErrNotFound)
	_, err = svc.Get(ctx, 1, 5, 10)
	requireKind(t, err, apperrors.KindNotFound)
}
