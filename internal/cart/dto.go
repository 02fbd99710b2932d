package cart

import (
	"time"

	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartDTO is the priced projection of a customer's open cart.
type CartDTO struct {
	ID           uuid.UUID     `json:"id"`
	CustomerID   uuid.UUID     `json:"customer_id"`
	IsCheckedOut bool          `json:"is_checked_out"`
	Items        []CartItemDTO `json:"items"`
	Totals
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	items := make([]CartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		dto := CartItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Discount:   item.Discount,
			TotalPrice: item.TotalPrice,
		}
		if item.Product != nil {
			dto.ProductName = item.Product.Name
		}
		items = append(items, dto)
	}
	return &CartDTO{
		ID:           c.ID,
		CustomerID:   c.CustomerID,
		IsCheckedOut: c.IsCheckedOut,
		Items:        items,
		Totals:       Summarize(c.Items),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// emptyCart is returned when the customer has no open cart.
func emptyCart(customerID uuid.UUID, now time.Time) *CartDTO {
	return &CartDTO{
		CustomerID: customerID,
		Items:      []CartItemDTO{},
		Totals:     Summarize(nil),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
