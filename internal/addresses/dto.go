package addresses

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
)

// AddressDTO is the transport shape of an address.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Fields are the mutable postal fields shared by create and update.
type Fields struct {
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
}

type CreateInput struct {
	CustomerID uuid.UUID
	Fields
}

type UpdateInput struct {
	AddressID  uuid.UUID
	CustomerID uuid.UUID
	Fields
}

// DeleteInput names the address to remove. CustomerID is accepted but not
// used for matching.
type DeleteInput struct {
	AddressID  uuid.UUID
	CustomerID uuid.UUID
}

func FromModel(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func FromModels(rows []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (f Fields) apply(a *models.Address) {
	a.Line1 = strings.TrimSpace(f.Line1)
	a.Line2 = trimOptional(f.Line2)
	a.City = strings.TrimSpace(f.City)
	a.State = strings.TrimSpace(f.State)
	a.PostalCode = strings.TrimSpace(f.PostalCode)
	a.Country = strings.TrimSpace(f.Country)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
