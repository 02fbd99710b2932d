package catalog

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	"github.com/angelmondragon/storefront-backoffice/pkg/db"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	categoryNameIndex = "categories_name_lower_idx"
	productNameIndex  = "products_name_lower_idx"
)

var (
	// ErrCategoryNameTaken is returned when the store rejects a duplicate category name.
	ErrCategoryNameTaken = errors.New("category name already exists")
	// ErrProductNameTaken is returned when the store rejects a duplicate product name.
	ErrProductNameTaken = errors.New("product name already exists")
)

// Repository wires together category and product persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CatalogRepository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryExists checks for a category in any activity state.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.Exists(ctx, &models.Category{}, "id = ?", id)
}

// CategoryNameTaken checks every category, active or not, ignoring case.
func (r *Repository) CategoryNameTaken(ctx context.Context, name string) (bool, error) {
	return r.Exists(ctx, &models.Category{}, "lower(name) = lower(?)", name)
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows := make([]models.Category, 0)
	if err := r.DB(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return translateUnique(r.DB(ctx).Create(category).Error, categoryNameIndex, ErrCategoryNameTaken)
}

func (r *Repository) SaveCategory(ctx context.Context, category *models.Category) error {
	return translateUnique(r.DB(ctx).Save(category).Error, categoryNameIndex, ErrCategoryNameTaken)
}

func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductNameTaken checks every product, available or not, ignoring case.
func (r *Repository) ProductNameTaken(ctx context.Context, name string) (bool, error) {
	return r.Exists(ctx, &models.Product{}, "lower(name) = lower(?)", name)
}

func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows := make([]models.Product, 0)
	if err := r.DB(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListAvailableProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	rows := make([]models.Product, 0)
	if err := r.DB(ctx).
		Where("category_id = ? AND is_available = ?", categoryID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return translateUnique(r.DB(ctx).Create(product).Error, productNameIndex, ErrProductNameTaken)
}

func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return translateUnique(r.DB(ctx).Save(product).Error, productNameIndex, ErrProductNameTaken)
}

func translateUnique(err error, index string, sentinel error) error {
	if err != nil && db.IsUniqueViolation(err, index) {
		return sentinel
	}
	return err
}
