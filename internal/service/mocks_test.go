package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"reviewhub/internal/mail"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailAndUsername(ctx context.Context, email, username string) (*model.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page repository.Page) ([]model.User, int64, error) {
	args := m.Called(ctx, search, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository[T repository.CatalogEntry] struct {
	mock.Mock
}

func (m *MockCatalogRepository[T]) Create(ctx context.Context, entry *T) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCatalogRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCatalogRepository[T]) FindBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockCatalogRepository[T]) List(ctx context.Context, search string, page repository.Page) ([]T, int64, error) {
	args := m.Called(ctx, search, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]T), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockTitleRepository is a mock implementation of TitleRepository.
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) Create(ctx context.Context, title *model.Title, genreIDs []uint) error {
	args := m.Called(ctx, title, genreIDs)
	return args.Error(0)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *model.Title, genreIDs []uint, replaceGenres bool) error {
	args := m.Called(ctx, title, genreIDs, replaceGenres)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTitleRepository) FindByID(ctx context.Context, id uint) (*model.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Title), args.Error(1)
}

func (m *MockTitleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTitleRepository) List(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]model.Title, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Title), args.Get(1).(int64), args.Error(2)
}

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) Find(ctx context.Context, titleID, reviewID uint) (*model.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByTitle(ctx context.Context, titleID uint, page repository.Page) ([]model.Review, int64, error) {
	args := m.Called(ctx, titleID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Review), args.Get(1).(int64), args.Error(2)
}

// MockCommentRepository is a mock implementation of CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) Find(ctx context.Context, reviewID, commentID uint) (*model.Comment, error) {
	args := m.Called(ctx, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByReview(ctx context.Context, reviewID uint, page repository.Page) ([]model.Comment, int64, error) {
	args := m.Called(ctx, reviewID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Comment), args.Get(1).(int64), args.Error(2)
}

// MockImportRepository is a mock implementation of ImportRepository.
type MockImportRepository struct {
	mock.Mock
}

func (m *MockImportRepository) InsertBatch(ctx context.Context, rows interface{}) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockImportRepository) ResetSequences(ctx context.Context, tables ...string) error {
	args := m.Called(ctx, tables)
	return args.Error(0)
}

// MockSender is a mock implementation of mail.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockCodeIssuer is a mock implementation of CodeIssuer.
type MockCodeIssuer struct {
	mock.Mock
}

func (m *MockCodeIssuer) Make(u *model.User) string {
	args := m.Called(u)
	return args.String(0)
}

func (m *MockCodeIssuer) Check(u *model.User, code string) bool {
	args := m.Called(u, code)
	return args.Bool(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateAccessToken(userID uint, username string) (string, error) {
	args := m.Called(userID, username)
	return args.String(0), args.Error(1)
}
