package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/storage"
)

type CategoryService struct {
	store *storage.Store
	now   func() time.Time
}

func NewCategoryService(store *storage.Store) *CategoryService {
	return &CategoryService{store: store, now: time.Now}
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID int64, name string) (core.Category, error) {
	name, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, core.Validation(err)
	}

	category, err := s.store.CreateCategory(ctx, userID, name, s.now())
	if errors.Is(err, storage.ErrDuplicate) {
		return core.Category{}, core.Conflict(core.MsgCategoryExists, err)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentCategory).InfoContext(ctx, "Category created",
		applog.FieldCategoryID, category.ID)
	return category, nil
}

// ListCategories returns the user's categories in alphabetical order.
func (s *CategoryService) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	return s.store.ListCategories(ctx, userID)
}
