package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/middleware"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
)

// CatalogRequest is the payload for creating a category or genre.
type CatalogRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50"`
}

// CatalogHandler serves one kind of catalog entry.
type CatalogHandler[T repository.CatalogEntry] struct {
	svc  service.CatalogService[T]
	view func(*T) service.CatalogView
}

// NewCategoryHandler creates the category handlers.
func NewCategoryHandler(svc service.CatalogService[model.Category]) *CatalogHandler[model.Category] {
	return &CatalogHandler[model.Category]{
		svc:  svc,
		view: func(c *model.Category) service.CatalogView { return service.CatalogView{Name: c.Name, Slug: c.Slug} },
	}
}

// NewGenreHandler creates the genre handlers.
func NewGenreHandler(svc service.CatalogService[model.Genre]) *CatalogHandler[model.Genre] {
	return &CatalogHandler[model.Genre]{
		svc:  svc,
		view: func(g *model.Genre) service.CatalogView { return service.CatalogView{Name: g.Name, Slug: g.Slug} },
	}
}

// List godoc
// @Summary List categories or genres
// @Tags catalog
// @Produce json
// @Param search query string false "Name substring"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse[service.CatalogView]
// @Router /categories [get]
// @Router /genres [get]
func (h *CatalogHandler[T]) List(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	entries, total, err := h.svc.List(c.Request().Context(), c.QueryParam("search"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(entries, total, h.view))
}

// Create godoc
// @Summary Create a category or genre
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body CatalogRequest true "Name and slug"
// @Success 201 {object} service.CatalogView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories [post]
// @Router /genres [post]
func (h *CatalogHandler[T]) Create(c echo.Context) error {
	var req CatalogRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.Create(c.Request().Context(), middleware.IdentityFrom(c), model.NamedSlug{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.view(entry))
}

// Delete godoc
// @Summary Delete a category or genre by slug
// @Tags catalog
// @Security BearerAuth
// @Param slug path string true "Slug"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{slug} [delete]
// @Router /genres/{slug} [delete]
func (h *CatalogHandler[T]) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), middleware.IdentityFrom(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
