package models

import "time"

const (
	TableEmpty = "empty"
	TableFull  = "full"
)

// RestaurantTable occupies one cell of the restaurant's grid.
// (restaurant_id, grid_row, grid_column) is unique.
type RestaurantTable struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_table_position,priority:1" json:"restaurant"`
	Seats        int       `gorm:"not null;default:0" json:"seats"`
	Row          int       `gorm:"column:grid_row;not null;uniqueIndex:idx_table_position,priority:2" json:"row"`
	Column       int       `gorm:"column:grid_column;not null;uniqueIndex:idx_table_position,priority:3" json:"column"`
	Status       string    `gorm:"type:varchar(10);not null;default:'empty'" json:"table_status"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
