package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/middleware"
	"reviewhub/internal/model"
	"reviewhub/internal/service"
)

// UserHandler bundles user administration and self-profile handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UserRequest is the user payload for create and partial update.
type UserRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

func (r UserRequest) input() service.UserInput {
	in := service.UserInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
	}
	if r.Role != nil {
		role := model.Role(*r.Role)
		in.Role = &role
	}
	return in
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Bio       string     `json:"bio"`
	Role      model.Role `json:"role"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Username substring"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse[UserResponse]
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	users, total, err := h.svc.List(c.Request().Context(), middleware.IdentityFrom(c), c.QueryParam("search"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(users, total, newUserResponse))
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UserRequest true "User payload"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req UserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Create(c.Request().Context(), middleware.IdentityFrom(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newUserResponse(user))
}

// GetUser godoc
// @Summary Get user by username
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context(), middleware.IdentityFrom(c), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateUser godoc
// @Summary Partially update a user, role included
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param user body UserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{username} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req UserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Update(c.Request().Context(), middleware.IdentityFrom(c), c.Param("username"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// DeleteUser godoc
// @Summary Delete a user and everything they wrote
// @Tags users
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), middleware.IdentityFrom(c), c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Get the caller's own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.svc.Me(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateMe godoc
// @Summary Partially update the caller's own profile
// @Description The role field is read-only here and ignored when supplied.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req UserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateMe(c.Request().Context(), middleware.IdentityFrom(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}
