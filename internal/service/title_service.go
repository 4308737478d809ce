package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reviewhub/internal/access"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"
)

// TitleService manages titles. Writes take a TitleInput and every operation
// answers with the TitleView read model.
type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]TitleView, int64, error)
	Get(ctx context.Context, id uint) (*TitleView, error)
	Create(ctx context.Context, requester access.Identity, in TitleInput) (*TitleView, error)
	Update(ctx context.Context, requester access.Identity, id uint, in TitleInput) (*TitleView, error)
	Delete(ctx context.Context, requester access.Identity, id uint) error
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CatalogRepository[model.Category]
	genres     repository.CatalogRepository[model.Genre]
	now        func() time.Time
}

// NewTitleService creates a new title service.
func NewTitleService(
	titles repository.TitleRepository,
	categories repository.CatalogRepository[model.Category],
	genres repository.CatalogRepository[model.Genre],
) TitleService {
	return &titleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		now:        time.Now,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]TitleView, int64, error) {
	titles, total, err := s.titles.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	views := make([]TitleView, 0, len(titles))
	for i := range titles {
		views = append(views, NewTitleView(&titles[i]))
	}
	return views, total, nil
}

func (s *titleService) Get(ctx context.Context, id uint) (*TitleView, error) {
	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewTitleView(title)
	return &view, nil
}

func (s *titleService) Create(ctx context.Context, requester access.Identity, in TitleInput) (*TitleView, error) {
	if err := access.CatalogPolicy.Allow(requester, access.ActionCreate); err != nil {
		return nil, err
	}

	var missing []*apperrors.Error
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, apperrors.Invalid("name", "this field is required"))
	}
	if in.Year == nil {
		missing = append(missing, apperrors.Invalid("year", "this field is required"))
	}
	if verr := apperrors.Merge(missing...); verr != nil {
		return nil, verr
	}

	title := &model.Title{}
	genreIDs, _, err := s.apply(ctx, title, in)
	if err != nil {
		return nil, err
	}
	if err := s.titles.Create(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}
	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, requester access.Identity, id uint, in TitleInput) (*TitleView, error) {
	if err := access.CatalogPolicy.Allow(requester, access.ActionUpdate); err != nil {
		return nil, err
	}
	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	genreIDs, replaceGenres, err := s.apply(ctx, title, in)
	if err != nil {
		return nil, err
	}
	if err := s.titles.Update(ctx, title, genreIDs, replaceGenres); err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}
	return s.Get(ctx, title.ID)
}

func (s *titleService) Delete(ctx context.Context, requester access.Identity, id uint) error {
	if err := access.CatalogPolicy.Allow(requester, access.ActionDelete); err != nil {
		return err
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("title not found")
		}
		return fmt.Errorf("delete title: %w", err)
	}
	return nil
}

func (s *titleService) find(ctx context.Context, id uint) (*model.Title, error) {
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("title not found")
		}
		return nil, fmt.Errorf("find title: %w", err)
	}
	return title, nil
}

// apply validates the input, resolves slug references and copies the result
// onto title. It returns the genre ids to link and whether the genre set was
// supplied at all.
func (s *titleService) apply(ctx context.Context, title *model.Title, in TitleInput) ([]uint, bool, error) {
	var errs []*apperrors.Error

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, apperrors.Invalid("name", "this field may not be blank"))
	}
	if in.Year != nil {
		errs = append(errs, validation.Year(*in.Year, s.now()))
	}

	var categoryID *uint
	if in.Category != nil && *in.Category != "" {
		category, err := s.categories.FindBySlug(ctx, *in.Category)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs = append(errs, unresolvedSlug("category", *in.Category))
		case err != nil:
			return nil, false, fmt.Errorf("resolve category: %w", err)
		default:
			categoryID = &category.ID
		}
	}

	var genreIDs []uint
	if in.Genres != nil {
		genres, err := s.genres.FindBySlugs(ctx, *in.Genres)
		if err != nil {
			return nil, false, fmt.Errorf("resolve genres: %w", err)
		}
		known := make(map[string]uint, len(genres))
		for _, g := range genres {
			known[g.Slug] = g.ID
		}
		for _, slug := range *in.Genres {
			id, ok := known[slug]
			if !ok {
				errs = append(errs, unresolvedSlug("genre", slug))
				continue
			}
			genreIDs = append(genreIDs, id)
		}
	}

	if verr := apperrors.Merge(errs...); verr != nil {
		return nil, false, verr
	}

	if in.Name != nil {
		title.Name = strings.TrimSpace(*in.Name)
	}
	if in.Year != nil {
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.Category != nil {
		title.CategoryID = categoryID
	}
	return genreIDs, in.Genres != nil, nil
}

func unresolvedSlug(field, slug string) *apperrors.Error {
	return apperrors.Invalid(field, fmt.Sprintf("object with slug %q does not exist", slug))
}
