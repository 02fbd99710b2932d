package catalog

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	CategoryID         uuid.UUID       `json:"category_id"`
	ImageURL           string          `json:"image_url"`
	StockQuantity      int             `json:"stock_quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	IsAvailable        bool            `json:"is_available"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type CategoryInput struct {
	Name        string
	Description string
}

type UpdateCategoryInput struct {
	ID uuid.UUID
	CategoryInput
}

// ProductInput carries every mutable product field.
type ProductInput struct {
	Name               string
	Description        string
	Price              decimal.Decimal
	CategoryID         uuid.UUID
	ImageURL           string
	StockQuantity      int
	DiscountPercentage decimal.Decimal
}

type UpdateProductInput struct {
	ID uuid.UUID
	ProductInput
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func CategoriesFromModels(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *CategoryFromModel(&rows[i]))
	}
	return out
}

func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		CategoryID:         p.CategoryID,
		ImageURL:           p.ImageURL,
		StockQuantity:      p.StockQuantity,
		DiscountPercentage: p.DiscountPercentage,
		IsAvailable:        p.IsAvailable,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func ProductsFromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ProductFromModel(&rows[i]))
	}
	return out
}

func (in CategoryInput) normalized() CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in CategoryInput) apply(c *models.Category) {
	c.Name = in.Name
	c.Description = in.Description
}

func (in ProductInput) normalized() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.ImageURL = in.ImageURL
	p.StockQuantity = in.StockQuantity
	p.DiscountPercentage = in.DiscountPercentage
}
