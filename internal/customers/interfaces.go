package customers

import (
	"context"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository defines the persistence surface required by the customer service.
type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	EmailExistsFold(ctx context.Context, email string) (bool, error)
	EmailUsedByOther(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, customer *models.Customer) error
	Save(ctx context.Context, customer *models.Customer) error
}

// PasswordHasher produces and checks one-way credential hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}
