package addresses

import (
	"context"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressRepository defines the persistence surface required by the address service.
type AddressRepository interface {
	WithTx(tx *gorm.DB) AddressRepository
	CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	FindByIDAndCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.Address, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Save(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, address *models.Address) error
}
