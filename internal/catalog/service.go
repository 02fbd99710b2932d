package catalog

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-backoffice/pkg/errors"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
	"github.com/angelmondragon/storefront-backoffice/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes category and product operations.
type Service interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*types.Confirmation, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (*types.Confirmation, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*types.Confirmation, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*types.Confirmation, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*types.Confirmation, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]ProductDTO, error)
}

type service struct {
	repo CatalogRepository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo CatalogRepository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) fail(ctx context.Context, msg string, err error) error {
	if pkgerrors.As(err) == nil {
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
	}
	if pkgerrors.HasCode(err, pkgerrors.CodeInternal) {
		s.logg.Error(ctx, msg, err)
	}
	return err
}
