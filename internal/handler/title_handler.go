package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/middleware"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
)

// TitleHandler serves titles.
type TitleHandler struct {
	svc service.TitleService
}

// NewTitleHandler creates the title handlers.
func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

// TitleRequest is the title write payload. Category and genres are slugs.
type TitleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

func (r TitleRequest) input() service.TitleInput {
	return service.TitleInput{
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Category:    r.Category,
		Genres:      r.Genre,
	}
}

// ListTitles godoc
// @Summary List titles
// @Tags titles
// @Produce json
// @Param name query string false "Name substring"
// @Param year query int false "Release year"
// @Param category query string false "Category slug"
// @Param genre query string false "Genre slug"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse[service.TitleView]
// @Failure 400 {object} errors.ErrorResponse
// @Router /titles [get]
func (h *TitleHandler) ListTitles(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := repository.TitleFilter{
		Name:         c.QueryParam("name"),
		CategorySlug: c.QueryParam("category"),
		GenreSlug:    c.QueryParam("genre"),
	}
	if c.QueryParam("year") != "" {
		var year int
		if err := echo.QueryParamsBinder(c).Int("year", &year).BindError(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
		}
		filter.Year = &year
	}

	titles, total, err := h.svc.List(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse[service.TitleView]{Count: total, Results: titles})
}

// CreateTitle godoc
// @Summary Create a title
// @Tags titles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title body TitleRequest true "Title with category and genre slugs"
// @Success 201 {object} service.TitleView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /titles [post]
func (h *TitleHandler) CreateTitle(c echo.Context) error {
	var req TitleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	view, err := h.svc.Create(c.Request().Context(), middleware.IdentityFrom(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// GetTitle godoc
// @Summary Get a title with its rating
// @Tags titles
// @Produce json
// @Param title_id path int true "Title ID"
// @Success 200 {object} service.TitleView
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id} [get]
func (h *TitleHandler) GetTitle(c echo.Context) error {
	id, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	view, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateTitle godoc
// @Summary Partially update a title
// @Tags titles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param title body TitleRequest true "Fields to change"
// @Success 200 {object} service.TitleView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id} [patch]
func (h *TitleHandler) UpdateTitle(c echo.Context) error {
	id, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	var req TitleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	view, err := h.svc.Update(c.Request().Context(), middleware.IdentityFrom(c), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// DeleteTitle godoc
// @Summary Delete a title with its reviews and comments
// @Tags titles
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id} [delete]
func (h *TitleHandler) DeleteTitle(c echo.Context) error {
	id, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.IdentityFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
