package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog entry. IsAvailable=false hides it from
// category listings and doubles as the soft-delete marker.
type Product struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name               string          `gorm:"column:name;not null"`
	Description        string          `gorm:"column:description"`
	Price              decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockQuantity      int             `gorm:"column:stock_quantity;not null"`
	ImageURL           string          `gorm:"column:image_url"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	CategoryID         uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index"`
	IsAvailable        bool            `gorm:"column:is_available;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
