package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/service"
)

// AuthHandler handles the signup and token exchange endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a signup or resend-code request.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150"`
}

// TokenRequest represents a confirmation code exchange.
type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Signup godoc
// @Summary Sign up or resend the confirmation code
// @Description Creates the user for a new (email, username) pair, or reuses the matching one, and mails a confirmation code.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 200 {object} SignupRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SignupRequest{Email: user.Email, Username: user.Username})
}

// Token godoc
// @Summary Exchange a confirmation code for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Username and confirmation code"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req TokenRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	token, err := h.authService.ExchangeToken(c.Request().Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}
