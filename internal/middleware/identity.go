// Package middleware holds the echo middleware shared by every route:
// caller identity, coarse authorization, error rendering, request logging
// and metrics.
package middleware

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"reviewhub/internal/access"
	"reviewhub/internal/auth"
	"reviewhub/internal/repository"
)

const (
	claimsKey   = "token_claims"
	identityKey = "identity"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// IdentityResolver loads the current privilege level of a token subject.
type IdentityResolver interface {
	Identity(ctx context.Context, userID uint) (access.Identity, error)
}

// Identity resolves the caller of every request. A missing or invalid bearer
// token leaves the request anonymous instead of failing it; whether
// anonymous callers may proceed is decided per route by Authorize.
func Identity(tokens TokenValidator, users IdentityResolver, log logrus.FieldLogger) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.WithError(err).Debug("no usable bearer token, continuing anonymously")
			return nil
		},
		ContinueOnIgnoredError: true,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			c.Set(identityKey, access.Anonymous)

			claims, ok := c.Get(claimsKey).(*auth.Claims)
			if !ok {
				return next(c)
			}
			identity, err := users.Identity(c.Request().Context(), claims.UserID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				// token outlived its user
			case err != nil:
				return err
			default:
				c.Set(identityKey, identity)
			}
			return next(c)
		})
	}
}

// IdentityFrom returns the caller resolved by Identity, anonymous if none.
func IdentityFrom(c echo.Context) access.Identity {
	if id, ok := c.Get(identityKey).(access.Identity); ok {
		return id
	}
	return access.Anonymous
}

// Authorize applies the coarse policy check for the route before the
// handler binds or loads anything. Collection routes pass collection=true.
func Authorize(policy access.Policy, collection bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			action := access.ActionForMethod(c.Request().Method, collection)
			if err := policy.Allow(IdentityFrom(c), action); err != nil {
				return err
			}
			return next(c)
		}
	}
}
