package customers

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	"github.com/angelmondragon/storefront-backoffice/pkg/db"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const emailIndex = "customers_email_lower_idx"

// ErrEmailTaken is returned by Create when the store rejects a duplicate email.
var ErrEmailTaken = errors.New("customer email already exists")

// Repository exposes customer persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CustomerRepository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

// FindByID loads a customer regardless of activity state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindActiveByID loads a customer only while IsActive is set.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("id = ? AND is_active = ?", id, true).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByEmail matches the email exactly as stored.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// EmailExistsFold reports whether any customer, active or not, has email ignoring case.
func (r *Repository) EmailExistsFold(ctx context.Context, email string) (bool, error) {
	return r.Exists(ctx, &models.Customer{}, "lower(email) = lower(?)", email)
}

// EmailUsedByOther reports whether a different customer holds exactly this email.
func (r *Repository) EmailUsedByOther(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return r.Exists(ctx, &models.Customer{}, "email = ? AND id <> ?", email, excludeID)
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.DB(ctx).Create(customer).Error; err != nil {
		if db.IsUniqueViolation(err, emailIndex) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Save persists every column of customer.
func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	if err := r.DB(ctx).Save(customer).Error; err != nil {
		if db.IsUniqueViolation(err, emailIndex) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}
