package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backoffice/pkg/errors"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
	"github.com/angelmondragon/storefront-backoffice/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgLoginSuccessful = "Login Successful"
	dummyPassword      = "storefront-login-timing-equalizer"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes customer identity and credential operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*types.Confirmation, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (*types.Confirmation, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) (*types.Confirmation, error)
}

type service struct {
	repo      CustomerRepository
	tx        txRunner
	hasher    PasswordHasher
	logg      *logger.Logger
	dummyHash func() (string, error)
}

// NewService builds a customer service backed by the provided stack.
func NewService(repo CustomerRepository, tx txRunner, hasher PasswordHasher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:   repo,
		tx:     tx,
		hasher: hasher,
		logg:   logg,
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(dummyPassword)
		}),
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	var created *models.Customer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		exists, err := store.EmailExistsFold(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email uniqueness")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
		}

		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}

		customer := input.toModel(hash)
		if err := store.Create(ctx, customer); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}
		created = customer
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "customer registration failed", err)
	}

	s.logg.Info(s.logg.WithCustomerID(ctx, created.ID.String()), "customer registered")
	return FromModel(created), nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	customer, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if !repo.IsNotFound(err) {
			return nil, s.fail(ctx, "customer login failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer"))
		}
		s.burnVerify(ctx, input.Password)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email")
	}

	ok, err := s.hasher.Verify(input.Password, customer.PasswordHash)
	if err != nil {
		return nil, s.fail(ctx, "customer login failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password"))
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password")
	}

	return &LoginResult{
		Message:      msgLoginSuccessful,
		CustomerID:   customer.ID,
		CustomerName: displayName(customer),
	}, nil
}

// burnVerify spends one hash evaluation so an unknown email costs the same as a wrong password.
func (s *service) burnVerify(ctx context.Context, password string) {
	hash, err := s.dummyHash()
	if err != nil {
		s.logg.Warn(ctx, "dummy password hash unavailable")
		return
	}
	_, _ = s.hasher.Verify(password, hash)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, s.fail(ctx, "customer lookup failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer"))
	}
	return FromModel(customer), nil
}

func (s *service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*types.Confirmation, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		customer, err := s.loadAny(ctx, store, input.CustomerID)
		if err != nil {
			return err
		}

		email := strings.TrimSpace(input.Email)
		if email != customer.Email {
			used, err := store.EmailUsedByOther(ctx, email, customer.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email usage")
			}
			if used {
				return pkgerrors.New(pkgerrors.CodeValidation, "email already in use")
			}
		}

		input.apply(customer)
		if err := store.Save(ctx, customer); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return pkgerrors.New(pkgerrors.CodeValidation, "email already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save customer")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "customer update failed", err)
	}

	s.logg.Info(s.logg.WithCustomerID(ctx, input.CustomerID.String()), "customer profile updated")
	return types.Confirm(fmt.Sprintf("Customer with id %s has been updated.", input.CustomerID)), nil
}

func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) (*types.Confirmation, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		customer, err := s.loadAny(ctx, store, id)
		if err != nil {
			return err
		}

		customer.IsActive = false
		if err := store.Save(ctx, customer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate customer")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "customer delete failed", err)
	}

	s.logg.Info(s.logg.WithCustomerID(ctx, id.String()), "customer deactivated")
	return types.Confirm(fmt.Sprintf("Customer with id %s has been deleted.", id)), nil
}

func (s *service) ChangePassword(ctx context.Context, input ChangePasswordInput) (*types.Confirmation, error) {
	if input.NewPassword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new password is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		customer, err := store.FindActiveByID(ctx, input.CustomerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found or inactive")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
		}

		ok, err := s.hasher.Verify(input.CurrentPassword, customer.PasswordHash)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "current password is invalid")
		}

		hash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		customer.PasswordHash = hash
		if err := store.Save(ctx, customer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save customer")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "password change failed", err)
	}

	s.logg.Info(s.logg.WithCustomerID(ctx, input.CustomerID.String()), "customer password changed")
	return types.Confirm("Password changed successfully."), nil
}

func (s *service) loadAny(ctx context.Context, r CustomerRepository, id uuid.UUID) (*models.Customer, error) {
	customer, err := r.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	return customer, nil
}

// fail logs internal faults and guarantees the returned error carries a code.
func (s *service) fail(ctx context.Context, msg string, err error) error {
	if pkgerrors.As(err) == nil {
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
	}
	if pkgerrors.HasCode(err, pkgerrors.CodeInternal) {
		s.logg.Error(ctx, msg, err)
	}
	return err
}
