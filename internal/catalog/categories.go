package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backoffice/pkg/errors"
	"github.com/angelmondragon/storefront-backoffice/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	input = input.normalized()
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	var created *models.Category
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		if err := requireFreeCategoryName(ctx, store, input.Name); err != nil {
			return err
		}

		category := &models.Category{IsActive: true}
		input.apply(category)
		if err := store.CreateCategory(ctx, category); err != nil {
			if errors.Is(err, ErrCategoryNameTaken) {
				return categoryNameConflict(input.Name)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
		}
		created = category
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "category create failed", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "category_id", created.ID.String()), "category created")
	return CategoryFromModel(created), nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := loadCategory(ctx, s.repo, id)
	if err != nil {
		return nil, s.fail(ctx, "category lookup failed", err)
	}
	return CategoryFromModel(category), nil
}

// UpdateCategory rejects any name already present, including the category's own.
func (s *service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*types.Confirmation, error) {
	input.CategoryInput = input.CategoryInput.normalized()
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		category, err := loadCategory(ctx, store, input.ID)
		if err != nil {
			return err
		}
		if err := requireFreeCategoryName(ctx, store, input.Name); err != nil {
			return err
		}

		input.apply(category)
		if err := store.SaveCategory(ctx, category); err != nil {
			if errors.Is(err, ErrCategoryNameTaken) {
				return categoryNameConflict(input.Name)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save category")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "category update failed", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "category_id", input.ID.String()), "category updated")
	return types.Confirm(fmt.Sprintf("Category with id %s updated successfully.", input.ID)), nil
}

// DeleteCategory deactivates the category; products keep referencing it.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) (*types.Confirmation, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		category, err := loadCategory(ctx, store, id)
		if err != nil {
			return err
		}
		category.IsActive = false
		if err := store.SaveCategory(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate category")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "category delete failed", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "category_id", id.String()), "category deactivated")
	return types.Confirm(fmt.Sprintf("Category with id %s deleted successfully.", id)), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, s.fail(ctx, "category list failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories"))
	}
	return CategoriesFromModels(rows), nil
}

func loadCategory(ctx context.Context, store CatalogRepository, id uuid.UUID) (*models.Category, error) {
	category, err := store.FindCategory(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("category with id %s does not exist", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return category, nil
}

func requireFreeCategoryName(ctx context.Context, store CatalogRepository, name string) error {
	taken, err := store.CategoryNameTaken(ctx, name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category name")
	}
	if taken {
		return categoryNameConflict(name)
	}
	return nil
}

func categoryNameConflict(name string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("category with name %s already exists", name))
}
