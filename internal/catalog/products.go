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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var maxDiscountPercentage = decimal.NewFromInt(100)

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	input = input.normalized()
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var created *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		if err := requireFreeProductName(ctx, store, input.Name, "product name already exists"); err != nil {
			return err
		}
		if err := requireCategory(ctx, store, input.CategoryID); err != nil {
			return err
		}

		product := &models.Product{IsAvailable: true}
		input.apply(product)
		if err := store.CreateProduct(ctx, product); err != nil {
			if errors.Is(err, ErrProductNameTaken) {
				return pkgerrors.New(pkgerrors.CodeValidation, "product name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		created = product
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "product create failed", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID.String()), "product created")
	return ProductFromModel(created), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := loadProduct(ctx, s.repo, id)
	if err != nil {
		return nil, s.fail(ctx, "product lookup failed", err)
	}
	return ProductFromModel(product), nil
}

// UpdateProduct rejects any name already present, including the product's own.
func (s *service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*types.Confirmation, error) {
	input.ProductInput = input.ProductInput.normalized()
	if err := validateProductInput(input.ProductInput); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		product, err := loadProduct(ctx, store, input.ID)
		if err != nil {
			return err
		}
		if err := requireFreeProductName(ctx, store, input.Name, "another product with the same name already exists"); err != nil {
			return err
		}
		if err := requireCategory(ctx, store, input.CategoryID); err != nil {
			return err
		}

		input.apply(product)
		if err := store.SaveProduct(ctx, product); err != nil {
			if errors.Is(err, ErrProductNameTaken) {
				return pkgerrors.New(pkgerrors.CodeValidation, "another product with the same name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save product")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "product update failed", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", input.ID.String()), "product updated")
	return types.Confirm(fmt.Sprintf("Product %s was successfully updated", input.Name)), nil
}

// DeleteProduct marks the product unavailable.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) (*types.Confirmation, error) {
	product, err := s.setAvailable(ctx, id, false)
	if err != nil {
		return nil, s.fail(ctx, "product delete failed", err)
	}
	return types.Confirm(fmt.Sprintf("Product %s was successfully deleted", product.Name)), nil
}

func (s *service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*types.Confirmation, error) {
	if _, err := s.setAvailable(ctx, id, available); err != nil {
		return nil, s.fail(ctx, "product availability update failed", err)
	}
	return types.Confirm(fmt.Sprintf("Product with id %s was successfully status updated", id)), nil
}

func (s *service) setAvailable(ctx context.Context, id uuid.UUID, available bool) (*models.Product, error) {
	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		product, err := loadProduct(ctx, store, id)
		if err != nil {
			return err
		}
		product.IsAvailable = available
		if err := store.SaveProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save product availability")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"product_id": id.String(), "is_available": available})
	s.logg.Info(ctx, "product availability changed")
	return updated, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "product list failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products"))
	}
	return ProductsFromModels(rows), nil
}

// ListProductsByCategory returns available products only and treats an empty
// result as NotFound.
func (s *service) ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListAvailableProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, s.fail(ctx, "product list failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products by category"))
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return ProductsFromModels(rows), nil
}

func validateProductInput(in ProductInput) error {
	switch {
	case in.Name == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	case in.CategoryID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	case in.Price.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	case in.StockQuantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must be non-negative")
	case in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(maxDiscountPercentage):
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
	}
	return nil
}

func loadProduct(ctx context.Context, store CatalogRepository, id uuid.UUID) (*models.Product, error) {
	product, err := store.FindProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func requireFreeProductName(ctx context.Context, store CatalogRepository, name, msg string) error {
	taken, err := store.ProductNameTaken(ctx, name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product name")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return nil
}

// requireCategory checks existence only; inactive categories still qualify.
func requireCategory(ctx context.Context, store CatalogRepository, id uuid.UUID) error {
	exists, err := store.CategoryExists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
	}
	return nil
}
