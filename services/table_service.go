package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
)

const msgDuplicateTable = "duplicate table position: a table with the same restaurant, row and column already exists"

type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

type CreateTableInput struct {
	RestaurantID *uint
	Seats        int
	Row          int
	Column       int
	Status       string
}

type UpdateTableInput struct {
	Seats  *int
	Row    *int
	Column *int
	Status *string
}

func validTableStatus(s string) bool {
	return s == models.TableEmpty || s == models.TableFull
}

func (s *TableService) List(ctx context.Context, rc RoleContext, restaurant *uint) ([]models.RestaurantTable, error) {
	pred := Scope(rc, KindTables, restaurant)
	tables := []models.RestaurantTable{}
	if pred.Empty() {
		return tables, nil
	}
	err := s.DB.WithContext(ctx).Scopes(pred.Apply).Order("grid_row, grid_column").Find(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, rc RoleContext, id uint, restaurant *uint) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := load(s.DB.WithContext(ctx), &table, id, "table"); err != nil {
		return nil, err
	}
	if !Scope(rc, KindTables, restaurant).Allows(table.RestaurantID, nil) {
		return nil, ErrPermissionDenied("you do not have permission to view this table")
	}
	return &table, nil
}

// CheckPosition is the table conflict checker. It must run inside the same
// transaction as the write it guards. excludeID skips the table being moved.
func (s *TableService) CheckPosition(tx *gorm.DB, restaurantID uint, row, column int, excludeID uint) error {
	q := tx.Model(&models.RestaurantTable{}).
		Where("restaurant_id = ? AND grid_row = ? AND grid_column = ?", restaurantID, row, column)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("check table position: %w", err)
	}
	if n > 0 {
		return ErrConflict(msgDuplicateTable)
	}
	return nil
}

func checkGrid(restaurant models.Restaurant, row, column int) error {
	if row < 1 || column < 1 {
		return ErrValidation("row and column must be at least 1")
	}
	if restaurant.GridRows > 0 && row > restaurant.GridRows {
		return ErrValidation("row %d is outside the restaurant grid of %d rows", row, restaurant.GridRows)
	}
	if restaurant.GridColumns > 0 && column > restaurant.GridColumns {
		return ErrValidation("column %d is outside the restaurant grid of %d columns", column, restaurant.GridColumns)
	}
	return nil
}

func (s *TableService) Create(ctx context.Context, rc RoleContext, in CreateTableInput) (*models.RestaurantTable, error) {
	restaurantID, err := mutationRestaurant(rc, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if in.Seats < 0 {
		return nil, ErrValidation("seats cannot be negative")
	}
	if in.Status == "" {
		in.Status = models.TableEmpty
	}
	if !validTableStatus(in.Status) {
		return nil, ErrValidation("invalid table status %q", in.Status)
	}

	table := models.RestaurantTable{
		RestaurantID: restaurantID,
		Seats:        in.Seats,
		Row:          in.Row,
		Column:       in.Column,
		Status:       in.Status,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := load(tx, &restaurant, restaurantID, "restaurant"); err != nil {
			return err
		}
		if err := checkGrid(restaurant, in.Row, in.Column); err != nil {
			return err
		}
		if err := s.CheckPosition(tx, restaurantID, in.Row, in.Column, 0); err != nil {
			return err
		}
		if err := tx.Create(&table).Error; err != nil {
			if isDuplicate(err) {
				return ErrConflict(msgDuplicateTable)
			}
			return fmt.Errorf("create table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": table.RestaurantID,
		"table_id":      table.ID,
		"row":           table.Row,
		"column":        table.Column,
	}).Info("table created")
	return &table, nil
}

func (s *TableService) Update(ctx context.Context, rc RoleContext, id uint, in UpdateTableInput) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, &table, id, "table"); err != nil {
			return err
		}
		if err := AuthorizeMutation(rc, table.RestaurantID); err != nil {
			return err
		}

		if in.Seats != nil {
			if *in.Seats < 0 {
				return ErrValidation("seats cannot be negative")
			}
			table.Seats = *in.Seats
		}
		if in.Status != nil {
			if !validTableStatus(*in.Status) {
				return ErrValidation("invalid table status %q", *in.Status)
			}
			table.Status = *in.Status
		}

		moved := false
		if in.Row != nil && *in.Row != table.Row {
			table.Row, moved = *in.Row, true
		}
		if in.Column != nil && *in.Column != table.Column {
			table.Column, moved = *in.Column, true
		}
		if moved {
			var restaurant models.Restaurant
			if err := load(tx, &restaurant, table.RestaurantID, "restaurant"); err != nil {
				return err
			}
			if err := checkGrid(restaurant, table.Row, table.Column); err != nil {
				return err
			}
			if err := s.CheckPosition(tx, table.RestaurantID, table.Row, table.Column, table.ID); err != nil {
				return err
			}
		}

		if err := tx.Save(&table).Error; err != nil {
			if isDuplicate(err) {
				return ErrConflict(msgDuplicateTable)
			}
			return fmt.Errorf("update table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// Delete removes a table and its reservations. Tables referenced by orders stay.
func (s *TableService) Delete(ctx context.Context, rc RoleContext, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.RestaurantTable
		if err := load(tx, &table, id, "table"); err != nil {
			return err
		}
		if err := AuthorizeMutation(rc, table.RestaurantID); err != nil {
			return err
		}

		n, err := count(tx, &models.Order{}, "table_id = ?", table.ID)
		if err != nil {
			return fmt.Errorf("count orders for table: %w", err)
		}
		if n > 0 {
			return ErrConflict("table cannot be deleted because it is referenced by %d order(s)", n)
		}

		if err := tx.Where("table_id = ?", table.ID).Delete(&models.TableReservation{}).Error; err != nil {
			return fmt.Errorf("delete table reservations: %w", err)
		}
		if err := tx.Delete(&table).Error; err != nil {
			return fmt.Errorf("delete table: %w", err)
		}
		utils.InfoLogger.WithFields(logrus.Fields{
			"restaurant_id": table.RestaurantID,
			"table_id":      table.ID,
		}).Info("table deleted")
		return nil
	})
}
