package database

import (
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Restaurant{},
		&models.Owner{},
		&models.Waiter{},
		&models.Customer{},
		&models.RestaurantTable{},
		&models.Collection{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.TableReservation{},
	}
}

// Migrate creates or updates the schema, including the unique indexes the
// table and reservation conflict checkers depend on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		utils.ErrorLogger.Errorf("AutoMigrate failed: %v", err)
		return err
	}

	for _, idx := range []struct {
		model interface{}
		name  string
	}{
		{&models.RestaurantTable{}, "idx_table_position"},
		{&models.TableReservation{}, "idx_reservation_slot"},
		{&models.CartItem{}, "idx_cart_product"},
	} {
		if !db.Migrator().HasIndex(idx.model, idx.name) {
			utils.ErrorLogger.Warnf("index %s missing after migration", idx.name)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
