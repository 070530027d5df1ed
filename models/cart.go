package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is anonymous and keyed by a random UUID so ids cannot be guessed.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TotalPrice sums quantity * current unit price. Items must have Product loaded.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// CartItem is unique per (cart, product).
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product,priority:1" json:"-"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product,priority:2" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

func (i CartItem) TotalPrice() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
