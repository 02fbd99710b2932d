package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes read access to carts.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// FindOpenByCustomer loads the customer's most recent cart that is not checked
// out, with items and their products.
func (r *Repository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Items.Product").
		Where("customer_id = ? AND is_checked_out = ?", customerID, false).
		Order("created_at DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
