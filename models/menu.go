package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection groups products of one restaurant. FeaturedProductID is a weak
// reference; deleting the product clears it.
type Collection struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	RestaurantID      uint   `gorm:"index;not null" json:"restaurant"`
	Title             string `gorm:"type:varchar(255);not null" json:"title"`
	FeaturedProductID *uint  `json:"featured_product,omitempty"`
	ProductsCount     int64  `gorm:"-:migration;->" json:"products_count"`
}

type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"index;not null" json:"restaurant"`
	CollectionID uint            `gorm:"index;not null" json:"collection"`
	Collection   *Collection     `gorm:"foreignKey:CollectionID;constraint:OnDelete:RESTRICT" json:"-"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Slug         string          `gorm:"type:varchar(255);index;not null" json:"slug"`
	Description  string          `gorm:"type:text" json:"description"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LastUpdate   time.Time       `gorm:"autoUpdateTime" json:"last_update"`
}

var taxRate = decimal.RequireFromString("1.1")

// PriceWithTax is the display price including the flat 10% tax.
func (p Product) PriceWithTax() decimal.Decimal {
	return p.UnitPrice.Mul(taxRate).Round(2)
}
