package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending  = "pending"
	PaymentComplete = "complete"
	PaymentFailed   = "failed"
)

// Order is retained permanently; only PaymentStatus changes after creation.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	RestaurantID  uint        `gorm:"index;not null" json:"restaurant"`
	TableID       uint        `gorm:"index;not null" json:"table"`
	CustomerID    uint        `gorm:"index;not null" json:"customer"`
	PaymentStatus string      `gorm:"type:varchar(10);not null;default:'pending'" json:"payment_status"`
	PlacedAt      time.Time   `gorm:"autoCreateTime" json:"placed_at"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"items"`
}

// OrderItem freezes the unit price at the moment the order was placed.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"-"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}
