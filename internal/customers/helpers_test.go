package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store unavailable")

// memoryRepo is an in-memory CustomerRepository that hands out copies so the
// service only changes stored state through Save.
type memoryRepo struct {
	rows      []models.Customer
	failReads bool
	createErr error
}

func (m *memoryRepo) WithTx(*gorm.DB) CustomerRepository { return m }

func (m *memoryRepo) find(match func(models.Customer) bool) (*models.Customer, error) {
	if m.failReads {
		return nil, errStoreDown
	}
	for _, row := range m.rows {
		if match(row) {
			c := row
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	return m.find(func(c models.Customer) bool { return c.ID == id })
}

func (m *memoryRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	return m.find(func(c models.Customer) bool { return c.ID == id && c.IsActive })
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	return m.find(func(c models.Customer) bool { return c.Email == email })
}

func (m *memoryRepo) EmailExistsFold(_ context.Context, email string) (bool, error) {
	_, err := m.find(func(c models.Customer) bool { return strings.EqualFold(c.Email, email) })
	return existsResult(err)
}

func (m *memoryRepo) EmailUsedByOther(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	_, err := m.find(func(c models.Customer) bool { return c.Email == email && c.ID != excludeID })
	return existsResult(err)
}

func (m *memoryRepo) Create(_ context.Context, customer *models.Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	m.rows = append(m.rows, *customer)
	return nil
}

func (m *memoryRepo) Save(_ context.Context, customer *models.Customer) error {
	for i := range m.rows {
		if m.rows[i].ID == customer.ID {
			m.rows[i] = *customer
			return nil
		}
	}
	m.rows = append(m.rows, *customer)
	return nil
}

func (m *memoryRepo) get(id uuid.UUID) models.Customer {
	for _, row := range m.rows {
		if row.ID == id {
			return row
		}
	}
	return models.Customer{}
}

func existsResult(err error) (bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func seedCustomer(repo *memoryRepo, email, hash string, active bool) models.Customer {
	c := models.Customer{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: hash,
		IsActive:     active,
	}
	repo.rows = append(repo.rows, c)
	return c
}
