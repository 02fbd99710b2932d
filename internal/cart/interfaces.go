package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
}
