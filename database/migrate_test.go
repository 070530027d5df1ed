package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gastro-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateCreatesConflictIndexes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.TableReservation{}))
	assert.True(t, db.Migrator().HasIndex(&models.RestaurantTable{}, "idx_table_position"))
	assert.True(t, db.Migrator().HasIndex(&models.TableReservation{}, "idx_reservation_slot"))
	assert.True(t, db.Migrator().HasIndex(&models.CartItem{}, "idx_cart_product"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	assert.NoError(t, Migrate(db))
}
