package cart

import (
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Totals are the priced aggregates of a cart.
type Totals struct {
	TotalBasePrice decimal.Decimal `json:"total_base_price"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// Summarize reduces items in one pass. The base price sums unit prices per
// line without quantity, the discount is per-unit discount times quantity, and
// the amount trusts each line's stored total.
func Summarize(items []models.CartItem) Totals {
	totals := Totals{
		TotalBasePrice: decimal.Zero,
		TotalDiscount:  decimal.Zero,
		TotalAmount:    decimal.Zero,
	}
	for _, item := range items {
		totals.TotalBasePrice = totals.TotalBasePrice.Add(item.UnitPrice)
		totals.TotalDiscount = totals.TotalDiscount.Add(item.Discount.Mul(decimal.NewFromInt(int64(item.Quantity))))
		totals.TotalAmount = totals.TotalAmount.Add(item.TotalPrice)
	}
	return totals
}
