package service

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/common"
	"tally/internal/model"
)

// CategoryService manages categories, including seeding the default set.
type CategoryService struct {
	store Store
}

// NewCategoryService creates a category service.
func NewCategoryService(store Store) *CategoryService {
	return &CategoryService{store: store}
}

// EnsureDefaults adds any missing default categories. Datasets created by
// older versions may predate some defaults; this runs once per startup and
// is a no-op when everything is present.
func (s *CategoryService) EnsureDefaults(ctx context.Context) error {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	added := 0
	for _, def := range model.DefaultCategories() {
		if ds.FindCategory(def.Name, def.Type) < 0 {
			ds.Categories = append(ds.Categories, def)
			added++
		}
	}
	if added == 0 {
		return nil
	}

	if err := s.store.Save(ctx, ds); err != nil {
		return err
	}
	slog.Info("seeded missing default categories", "count", added)
	return nil
}

// Create adds a custom category. Names must be unique within their type.
func (s *CategoryService) Create(ctx context.Context, name string, catType model.CategoryType) (*model.Category, error) {
	existing, err := s.store.GetCategory(ctx, name, catType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("category %q already exists for type %s", name, catType),
			common.ErrDuplicateEntry)
	}

	cat := model.NewCategory(name, catType, false)
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Get returns a category by name and type, or nil if absent.
func (s *CategoryService) Get(ctx context.Context, name string, catType model.CategoryType) (*model.Category, error) {
	return s.store.GetCategory(ctx, name, catType)
}

// List returns all categories sorted by name.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

// ListByType returns categories of the given type sorted by name.
func (s *CategoryService) ListByType(ctx context.Context, catType model.CategoryType) ([]model.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Category, 0, len(cats))
	for _, cat := range cats {
		if cat.Type == catType {
			filtered = append(filtered, cat)
		}
	}
	return filtered, nil
}

// Delete removes a custom category. Default categories and categories in
// use by transactions are refused by the repository.
func (s *CategoryService) Delete(ctx context.Context, name string, catType model.CategoryType) error {
	return s.store.DeleteCategory(ctx, name, catType)
}
