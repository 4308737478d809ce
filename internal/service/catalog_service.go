package service

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/internal/access"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"
)

// CatalogService manages one kind of slug-keyed catalog entry.
type CatalogService[T repository.CatalogEntry] interface {
	List(ctx context.Context, search string, page repository.Page) ([]T, int64, error)
	Create(ctx context.Context, requester access.Identity, entry model.NamedSlug) (*T, error)
	Delete(ctx context.Context, requester access.Identity, slug string) error
}

type catalogService[T repository.CatalogEntry] struct {
	repo repository.CatalogRepository[T]
	noun string
	wrap func(model.NamedSlug) *T
}

// NewCategoryService creates the category service.
func NewCategoryService(repo repository.CatalogRepository[model.Category]) CatalogService[model.Category] {
	return &catalogService[model.Category]{
		repo: repo,
		noun: "category",
		wrap: func(ns model.NamedSlug) *model.Category { return &model.Category{NamedSlug: ns} },
	}
}

// NewGenreService creates the genre service.
func NewGenreService(repo repository.CatalogRepository[model.Genre]) CatalogService[model.Genre] {
	return &catalogService[model.Genre]{
		repo: repo,
		noun: "genre",
		wrap: func(ns model.NamedSlug) *model.Genre { return &model.Genre{NamedSlug: ns} },
	}
}

func (s *catalogService[T]) List(ctx context.Context, search string, page repository.Page) ([]T, int64, error) {
	return s.repo.List(ctx, search, page)
}

func (s *catalogService[T]) Create(ctx context.Context, requester access.Identity, entry model.NamedSlug) (*T, error) {
	if err := access.CatalogPolicy.Allow(requester, access.ActionCreate); err != nil {
		return nil, err
	}

	var errs []*apperrors.Error
	if entry.Name == "" {
		errs = append(errs, apperrors.Invalid("name", "this field is required"))
	}
	errs = append(errs, validation.Slug(entry.Slug))
	if verr := apperrors.Merge(errs...); verr != nil {
		return nil, verr
	}

	created := s.wrap(entry)
	if err := s.repo.Create(ctx, created); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("slug", fmt.Sprintf("%s with this slug already exists", s.noun))
		}
		return nil, fmt.Errorf("create %s: %w", s.noun, err)
	}
	return created, nil
}

func (s *catalogService[T]) Delete(ctx context.Context, requester access.Identity, slug string) error {
	if err := access.CatalogPolicy.Allow(requester, access.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound(s.noun + " not found")
		}
		return fmt.Errorf("delete %s: %w", s.noun, err)
	}
	return nil
}
