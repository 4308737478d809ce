package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/repository"
)

// ListResponse is the envelope of every paginated listing.
type ListResponse[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

func newList[M any, T any](items []M, total int64, view func(*M) T) ListResponse[T] {
	out := ListResponse[T]{Count: total, Results: make([]T, 0, len(items))}
	for i := range items {
		out.Results = append(out.Results, view(&items[i]))
	}
	return out
}

// bindBody decodes and validates the JSON payload.
func bindBody(c echo.Context, dst interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(dst)
}

func pageParams(c echo.Context) (repository.Page, error) {
	var page repository.Page
	err := echo.QueryParamsBinder(c).
		Int("limit", &page.Limit).
		Int("offset", &page.Offset).
		BindError()
	if err != nil {
		return page, echo.NewHTTPError(http.StatusBadRequest, "limit and offset must be integers")
	}
	return page.Normalize(), nil
}

func pathID(c echo.Context, name string) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).MustUint(name, &id).BindError(); err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
