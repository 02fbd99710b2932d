package catalog

import (
	"context"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository defines the persistence surface required by the catalog service.
type CatalogRepository interface {
	WithTx(tx *gorm.DB) CatalogRepository

	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	CategoryNameTaken(ctx context.Context, name string) (bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	SaveCategory(ctx context.Context, category *models.Category) error

	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ProductNameTaken(ctx context.Context, name string) (bool, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListAvailableProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	SaveProduct(ctx context.Context, product *models.Product) error
}
