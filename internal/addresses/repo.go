package addresses

import (
	"context"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes address persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an address repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) AddressRepository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

// CustomerExists checks for a customer in any activity state.
func (r *Repository) CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	return r.Exists(ctx, &models.Customer{}, "id = ?", customerID)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.DB(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// FindByIDAndCustomer only matches when the address belongs to customerID.
func (r *Repository) FindByIDAndCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.DB(ctx).Where("id = ? AND customer_id = ?", id, customerID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// ListByCustomer returns the customer's addresses in insertion order.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	rows := make([]models.Address, 0)
	if err := r.DB(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Create(address).Error
}

func (r *Repository) Save(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Save(address).Error
}

// Delete physically removes the row.
func (r *Repository) Delete(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Delete(&models.Address{}, "id = ?", address.ID).Error
}
