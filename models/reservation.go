package models

import "time"

// TableReservation books a table for the half-open window [DateTimeFrom, DateTimeTo).
// RestaurantID is copied from the table so reservations can be tenant-scoped
// without a join.
type TableReservation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"index;not null" json:"customer"`
	TableID      uint      `gorm:"not null;uniqueIndex:idx_reservation_slot,priority:1" json:"table"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant"`
	DateTimeFrom time.Time `gorm:"not null;uniqueIndex:idx_reservation_slot,priority:2" json:"date_time_from"`
	DateTimeTo   time.Time `gorm:"not null;uniqueIndex:idx_reservation_slot,priority:3" json:"date_time_to"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
