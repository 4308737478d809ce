package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/mail"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"
)

// CodeIssuer makes and checks confirmation codes bound to user state.
type CodeIssuer interface {
	Make(u *model.User) string
	Check(u *model.User, code string) bool
}

// TokenIssuer issues bearer access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID uint, username string) (string, error)
}

// AuthService runs the two-step signup flow: signup mails a confirmation
// code, token exchange trades that code for an access token. Nothing but the
// user record links the two steps.
type AuthService interface {
	Signup(ctx context.Context, email, username string) (*model.User, error)
	ExchangeToken(ctx context.Context, username, code string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	codes  CodeIssuer
	tokens TokenIssuer
	mailer mail.Sender
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	codes CodeIssuer,
	tokens TokenIssuer,
	mailer mail.Sender,
	log logrus.FieldLogger,
) AuthService {
	return &authService{
		users:  users,
		codes:  codes,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

// Signup gets or creates the user for the (email, username) pair and mails a
// fresh confirmation code. Re-submitting an existing pair resends the code.
func (s *authService) Signup(ctx context.Context, email, username string) (*model.User, error) {
	if verr := validation.Username(username); verr != nil {
		return nil, verr
	}

	user, err := s.getOrCreate(ctx, email, username)
	if err != nil {
		return nil, err
	}

	code := s.codes.Make(user)
	if err := s.mailer.Send(ctx, mail.ConfirmationMessage(user.Email, user.Username, code)); err != nil {
		return nil, fmt.Errorf("send confirmation code: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).
		Info("confirmation code sent")
	return user, nil
}

func (s *authService) getOrCreate(ctx context.Context, email, username string) (*model.User, error) {
	user, err := s.users.FindByEmailAndUsername(ctx, email, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user = &model.User{Email: email, Username: username, Role: model.RoleUser}
	err = s.users.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// A concurrent signup may have created the same pair.
	if existing, findErr := s.users.FindByEmailAndUsername(ctx, email, username); findErr == nil {
		return existing, nil
	}
	return nil, userConflict(ctx, s.users, email, 0)
}

// ExchangeToken verifies the confirmation code and issues an access token.
// A successful exchange records a login, which invalidates the code.
func (s *authService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NotFound("user not found")
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !s.codes.Check(user, code) {
		return "", apperrors.Invalid("confirmation_code", "invalid or expired confirmation code")
	}

	if err := s.users.RecordLogin(ctx, user.ID, s.now()); err != nil {
		return "", fmt.Errorf("record login: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}

// userConflict names the field behind a unique violation on users. The email
// is checked first; otherwise the username must be taken. selfID is the user
// being written, zero for a new one.
func userConflict(ctx context.Context, users repository.UserRepository, email string, selfID uint) error {
	if other, err := users.FindByEmail(ctx, email); err == nil && other.ID != selfID {
		return apperrors.Conflict("email", "a user with this email already exists")
	}
	return apperrors.Conflict("username", "a user with this username already exists")
}
