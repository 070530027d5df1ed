package models

import "time"

const (
	RestaurantOpen   = "open"
	RestaurantClosed = "closed"
)

// Restaurant is the tenant. Tables, menu, staff, orders and reservations hang off it.
type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(50);not null" json:"title"`
	Status      string    `gorm:"type:varchar(10);not null;default:'open'" json:"status"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	GridRows    int       `gorm:"not null;default:0" json:"grid_rows"`
	GridColumns int       `gorm:"not null;default:0" json:"grid_columns"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// Owner links one user to exactly one restaurant.
type Owner struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       uint        `gorm:"uniqueIndex;not null" json:"user_id"`
	User         *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RestaurantID uint        `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
}

// Waiter links one user to a restaurant; a restaurant has many waiters.
type Waiter struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       uint        `gorm:"uniqueIndex;not null" json:"user_id"`
	User         *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RestaurantID uint        `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
}
