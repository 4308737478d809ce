package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/access"
	"reviewhub/internal/cache"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"
)

const defaultUserCacheTTL = 5 * time.Minute

// UserInput carries the writable user fields. Nil fields are left unchanged.
type UserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *model.Role
}

// UserService exposes user administration and the self-profile.
type UserService interface {
	List(ctx context.Context, requester access.Identity, search string, page repository.Page) ([]model.User, int64, error)
	Get(ctx context.Context, requester access.Identity, username string) (*model.User, error)
	Create(ctx context.Context, requester access.Identity, in UserInput) (*model.User, error)
	Update(ctx context.Context, requester access.Identity, username string, in UserInput) (*model.User, error)
	Delete(ctx context.Context, requester access.Identity, username string) error
	Me(ctx context.Context, requester access.Identity) (*model.User, error)
	UpdateMe(ctx context.Context, requester access.Identity, in UserInput) (*model.User, error)
	// Identity resolves a token subject to its current privilege level.
	Identity(ctx context.Context, userID uint) (access.Identity, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewUserService builds a UserService with repository and cache. A nil cache
// disables caching.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ttl time.Duration) UserService {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	return &userService{repo: repo, cache: cache, ttl: ttl}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) List(ctx context.Context, requester access.Identity, search string, page repository.Page) ([]model.User, int64, error) {
	if err := access.AdminPolicy.Allow(requester, access.ActionList); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, search, page)
}

func (s *userService) Get(ctx context.Context, requester access.Identity, username string) (*model.User, error) {
	if err := access.AdminPolicy.Allow(requester, access.ActionRetrieve); err != nil {
		return nil, err
	}
	return s.byUsername(ctx, username)
}

func (s *userService) Create(ctx context.Context, requester access.Identity, in UserInput) (*model.User, error) {
	if err := access.AdminPolicy.Allow(requester, access.ActionCreate); err != nil {
		return nil, err
	}

	var missing []*apperrors.Error
	if in.Username == nil || *in.Username == "" {
		missing = append(missing, apperrors.Invalid("username", "this field is required"))
	}
	if in.Email == nil || *in.Email == "" {
		missing = append(missing, apperrors.Invalid("email", "this field is required"))
	}
	if verr := apperrors.Merge(missing...); verr != nil {
		return nil, verr
	}

	user := &model.User{Role: model.RoleUser}
	if verr := applyUserInput(user, in); verr != nil {
		return nil, verr
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, userConflict(ctx, s.repo, user.Email, 0)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, requester access.Identity, username string, in UserInput) (*model.User, error) {
	if err := access.AdminPolicy.Allow(requester, access.ActionUpdate); err != nil {
		return nil, err
	}
	user, err := s.byUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, user, in)
}

func (s *userService) Delete(ctx context.Context, requester access.Identity, username string) error {
	if err := access.AdminPolicy.Allow(requester, access.ActionDelete); err != nil {
		return err
	}
	user, err := s.byUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.cache.Delete(ctx, s.cacheKey(user.ID))
	return nil
}

func (s *userService) Me(ctx context.Context, requester access.Identity) (*model.User, error) {
	if err := access.SelfPolicy.Allow(requester, access.ActionRetrieve); err != nil {
		return nil, err
	}
	return s.byID(ctx, requester.UserID)
}

// UpdateMe edits the caller's own record. The role is read-only here: any
// supplied value is ignored.
func (s *userService) UpdateMe(ctx context.Context, requester access.Identity, in UserInput) (*model.User, error) {
	if err := access.SelfPolicy.Allow(requester, access.ActionUpdate); err != nil {
		return nil, err
	}
	user, err := s.byID(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}
	if err := access.SelfPolicy.AllowObject(requester, access.ActionUpdate, user.ID); err != nil {
		return nil, err
	}
	in.Role = nil
	return s.save(ctx, user, in)
}

func (s *userService) Identity(ctx context.Context, userID uint) (access.Identity, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(userID), &cached) && cached.ID == userID {
		return access.IdentityOf(&cached), nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return access.Anonymous, err
	}
	s.cache.SetJSON(ctx, s.cacheKey(userID), user, s.ttl)
	return access.IdentityOf(user), nil
}

func (s *userService) save(ctx context.Context, user *model.User, in UserInput) (*model.User, error) {
	if verr := applyUserInput(user, in); verr != nil {
		return nil, verr
	}
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, userConflict(ctx, s.repo, user.Email, user.ID)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

func (s *userService) byUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) byID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// applyUserInput validates and copies the supplied fields onto user.
func applyUserInput(user *model.User, in UserInput) *apperrors.Error {
	var errs []*apperrors.Error
	if in.Username != nil {
		if verr := validation.Username(*in.Username); verr != nil {
			errs = append(errs, verr)
		} else {
			user.Username = *in.Username
		}
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			errs = append(errs, apperrors.Invalid("role", fmt.Sprintf("%q is not a valid role", *in.Role)))
		} else {
			user.Role = *in.Role
		}
	}
	if verr := apperrors.Merge(errs...); verr != nil {
		return verr
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	return nil
}
