package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	pkgerrors "github.com/angelmondragon/storefront-backoffice/pkg/errors"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
	"github.com/google/uuid"
)

// Service exposes cart aggregation.
type Service interface {
	GetOpenCart(ctx context.Context, customerID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo CartRepository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds a cart service backed by the provided repository.
func NewService(repo CartRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

// GetOpenCart prices the customer's open cart. A customer without one gets an
// empty cart stamped with the current time rather than NotFound.
func (s *service) GetOpenCart(ctx context.Context, customerID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if repo.IsNotFound(err) {
			return emptyCart(customerID, s.now().UTC()), nil
		}
		wrapped := pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load open cart")
		s.logg.Error(s.logg.WithCustomerID(ctx, customerID.String()), "cart lookup failed", wrapped)
		return nil, wrapped
	}
	return FromModel(record), nil
}
