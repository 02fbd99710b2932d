package addresses

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backoffice/internal/repo"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backoffice/pkg/errors"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
	"github.com/angelmondragon/storefront-backoffice/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes address operations scoped to an owning customer.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*AddressDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AddressDTO, error)
	Update(ctx context.Context, input UpdateInput) (*types.Confirmation, error)
	Delete(ctx context.Context, input DeleteInput) (*types.Confirmation, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error)
}

type service struct {
	repo AddressRepository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds an address service backed by the provided stack.
func NewService(repo AddressRepository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*AddressDTO, error) {
	var created *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		if err := s.requireCustomer(ctx, store, input.CustomerID); err != nil {
			return err
		}

		address := &models.Address{CustomerID: input.CustomerID}
		input.Fields.apply(address)
		if err := store.Create(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
		}
		created = address
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "address create failed", err)
	}

	ctx = s.logg.WithCustomerID(ctx, input.CustomerID.String())
	s.logg.Info(s.logg.WithField(ctx, "address_id", created.ID.String()), "address created")
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*AddressDTO, error) {
	address, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, s.fail(ctx, "address lookup failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address"))
	}
	return FromModel(address), nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*types.Confirmation, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		address, err := store.FindByIDAndCustomer(ctx, input.AddressID, input.CustomerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
		}

		input.Fields.apply(address)
		if err := store.Save(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save address")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "address update failed", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "address_id", input.AddressID.String()), "address updated")
	return types.Confirm(fmt.Sprintf("Address with id %s has been updated.", input.AddressID)), nil
}

// Delete removes the address by id alone; the supplied customer id is not checked.
func (s *service) Delete(ctx context.Context, input DeleteInput) (*types.Confirmation, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.repo.WithTx(tx)

		address, err := store.FindByID(ctx, input.AddressID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
		}

		if err := store.Delete(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "address delete failed", err)
	}

	s.logg.Info(s.logg.WithField(ctx, "address_id", input.AddressID.String()), "address deleted")
	return types.Confirm(fmt.Sprintf("Address with id %s has been deleted.", input.AddressID)), nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error) {
	if err := s.requireCustomer(ctx, s.repo, customerID); err != nil {
		return nil, s.fail(ctx, "address list failed", err)
	}

	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, s.fail(ctx, "address list failed", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses"))
	}
	return FromModels(rows), nil
}

func (s *service) requireCustomer(ctx context.Context, store AddressRepository, customerID uuid.UUID) error {
	exists, err := store.CustomerExists(ctx, customerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check customer")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
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
