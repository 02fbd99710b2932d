package customers

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
)

// CustomerDTO is the public projection of a customer; it never carries the hash.
type CustomerDTO struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	DateOfBirth time.Time `json:"date_of_birth"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
	Password    string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Message      string    `json:"message"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
}

// UpdateProfileInput replaces the mutable profile fields of a customer.
type UpdateProfileInput struct {
	CustomerID  uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	CustomerID      uuid.UUID
	CurrentPassword string
	NewPassword     string
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		DateOfBirth: c.DateOfBirth,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (in RegisterInput) toModel(hash string) *models.Customer {
	return &models.Customer{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		DateOfBirth:  in.DateOfBirth,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func (in UpdateProfileInput) apply(c *models.Customer) {
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Email = strings.TrimSpace(in.Email)
	c.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	c.DateOfBirth = in.DateOfBirth
}

func displayName(c *models.Customer) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", c.FirstName, c.LastName))
}
