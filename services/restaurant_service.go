package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
)

type RestaurantService struct {
	DB *gorm.DB
}

func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{DB: db}
}

type CreateRestaurantInput struct {
	Title       string
	Status      string
	Location    string
	GridRows    int
	GridColumns int
	// OwnerUserID binds the restaurant to its owner account in the same transaction.
	OwnerUserID uint
}

type UpdateRestaurantInput struct {
	Title       *string
	Status      *string
	Location    *string
	GridRows    *int
	GridColumns *int
}

func validRestaurantStatus(s string) bool {
	return s == models.RestaurantOpen || s == models.RestaurantClosed
}

func validGrid(rows, columns int) error {
	if rows < 0 || columns < 0 {
		return ErrValidation("grid dimensions cannot be negative")
	}
	return nil
}

// List is public: restaurants are the entry point for anonymous browsing.
func (s *RestaurantService) List(ctx context.Context) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *RestaurantService) Get(ctx context.Context, id uint) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := load(s.DB.WithContext(ctx), &r, id, "restaurant"); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create is reserved for StaffAdmin. The owner user must not already own or
// wait at a restaurant.
func (s *RestaurantService) Create(ctx context.Context, rc RoleContext, in CreateRestaurantInput) (*models.Restaurant, error) {
	if !rc.StaffAdmin {
		return nil, ErrPermissionDenied("only administrators can create restaurants")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrValidation("title is required")
	}
	if len(title) > 50 {
		return nil, ErrValidation("title cannot be longer than 50 characters")
	}
	if in.Status == "" {
		in.Status = models.RestaurantOpen
	}
	if !validRestaurantStatus(in.Status) {
		return nil, ErrValidation("invalid restaurant status %q", in.Status)
	}
	if err := validGrid(in.GridRows, in.GridColumns); err != nil {
		return nil, err
	}
	if in.OwnerUserID == 0 {
		return nil, ErrValidation("owner is required")
	}

	restaurant := models.Restaurant{
		Title:       title,
		Status:      in.Status,
		Location:    in.Location,
		GridRows:    in.GridRows,
		GridColumns: in.GridColumns,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.User{}, in.OwnerUserID, "user"); err != nil {
			return err
		}
		if err := staffLinkFree(tx, in.OwnerUserID); err != nil {
			return err
		}
		if err := tx.Create(&restaurant).Error; err != nil {
			return fmt.Errorf("create restaurant: %w", err)
		}
		owner := models.Owner{UserID: in.OwnerUserID, RestaurantID: restaurant.ID}
		if err := tx.Create(&owner).Error; err != nil {
			if isDuplicate(err) {
				return ErrConflict("user %d already owns a restaurant", in.OwnerUserID)
			}
			return fmt.Errorf("create owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": restaurant.ID,
		"owner_user_id": in.OwnerUserID,
	}).Info("restaurant created")
	return &restaurant, nil
}

// staffLinkFree rejects users already bound to a restaurant as owner or waiter.
func staffLinkFree(tx *gorm.DB, userID uint) error {
	n, err := count(tx, &models.Owner{}, "user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("check owner link: %w", err)
	}
	if n > 0 {
		return ErrConflict("user %d already owns a restaurant", userID)
	}
	n, err = count(tx, &models.Waiter{}, "user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("check waiter link: %w", err)
	}
	if n > 0 {
		return ErrConflict("user %d is already a waiter", userID)
	}
	return nil
}

// Update is open to the restaurant's owner and StaffAdmin. Waiters cannot
// change restaurant settings.
func (s *RestaurantService) Update(ctx context.Context, rc RoleContext, id uint, in UpdateRestaurantInput) (*models.Restaurant, error) {
	var r models.Restaurant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, &r, id, "restaurant"); err != nil {
			return err
		}
		if !rc.StaffAdmin && (rc.OwnerOf == nil || *rc.OwnerOf != r.ID) {
			return ErrPermissionDenied("only the owner can modify this restaurant")
		}
		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" || len(title) > 50 {
				return ErrValidation("title must be between 1 and 50 characters")
			}
			r.Title = title
		}
		if in.Status != nil {
			if !validRestaurantStatus(*in.Status) {
				return ErrValidation("invalid restaurant status %q", *in.Status)
			}
			r.Status = *in.Status
		}
		if in.Location != nil {
			r.Location = *in.Location
		}
		if in.GridRows != nil {
			r.GridRows = *in.GridRows
		}
		if in.GridColumns != nil {
			r.GridColumns = *in.GridColumns
		}
		if err := validGrid(r.GridRows, r.GridColumns); err != nil {
			return err
		}
		if in.GridRows != nil || in.GridColumns != nil {
			if err := tablesInsideGrid(tx, r); err != nil {
				return err
			}
		}
		if err := tx.Save(&r).Error; err != nil {
			return fmt.Errorf("update restaurant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// tablesInsideGrid rejects a grid that would leave existing tables outside it.
func tablesInsideGrid(tx *gorm.DB, r models.Restaurant) error {
	var conds []string
	var args []interface{}
	if r.GridRows > 0 {
		conds = append(conds, "grid_row > ?")
		args = append(args, r.GridRows)
	}
	if r.GridColumns > 0 {
		conds = append(conds, "grid_column > ?")
		args = append(args, r.GridColumns)
	}
	if len(conds) == 0 {
		return nil
	}
	n, err := count(tx.Where("restaurant_id = ?", r.ID), &models.RestaurantTable{}, strings.Join(conds, " OR "), args...)
	if err != nil {
		return fmt.Errorf("check table positions: %w", err)
	}
	if n > 0 {
		return ErrConflict("%d table(s) lie outside the new grid", n)
	}
	return nil
}

// Delete is reserved for StaffAdmin and refused while orders reference the restaurant.
func (s *RestaurantService) Delete(ctx context.Context, rc RoleContext, id uint) error {
	if !rc.StaffAdmin {
		return ErrPermissionDenied("only administrators can delete restaurants")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Restaurant
		if err := load(tx, &r, id, "restaurant"); err != nil {
			return err
		}
		n, err := count(tx, &models.Order{}, "restaurant_id = ?", r.ID)
		if err != nil {
			return fmt.Errorf("count restaurant orders: %w", err)
		}
		if n > 0 {
			return ErrConflict("restaurant cannot be deleted because it has %d order(s)", n)
		}

		// Children first; products before collections because of the RESTRICT edge.
		children := []struct {
			model interface{}
			what  string
		}{
			{&models.TableReservation{}, "reservations"},
			{&models.RestaurantTable{}, "tables"},
			{&models.Product{}, "products"},
			{&models.Collection{}, "collections"},
			{&models.Waiter{}, "waiters"},
			{&models.Owner{}, "owner"},
		}
		for _, child := range children {
			if err := tx.Where("restaurant_id = ?", r.ID).Delete(child.model).Error; err != nil {
				return fmt.Errorf("delete %s: %w", child.what, err)
			}
		}
		if err := tx.Delete(&r).Error; err != nil {
			return fmt.Errorf("delete restaurant: %w", err)
		}
		utils.InfoLogger.WithFields(logrus.Fields{"restaurant_id": r.ID}).Info("restaurant deleted")
		return nil
	})
}
