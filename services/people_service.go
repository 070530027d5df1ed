package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
)

// PeopleService manages the customer and waiter links of user accounts.
type PeopleService struct {
	DB *gorm.DB
}

func NewPeopleService(db *gorm.DB) *PeopleService {
	return &PeopleService{DB: db}
}

type CreateCustomerInput struct {
	// UserID is honoured only for StaffAdmin; everyone else registers themselves.
	UserID uint
	Phone  string
}

type CreateWaiterInput struct {
	RestaurantID *uint
	UserID       uint
}

func (s *PeopleService) ListCustomers(ctx context.Context, rc RoleContext) ([]models.Customer, error) {
	if !rc.StaffAdmin {
		return nil, ErrPermissionDenied("only administrators can list customers")
	}
	customers := []models.Customer{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// CreateCustomer links a user to a new customer profile.
func (s *PeopleService) CreateCustomer(ctx context.Context, rc RoleContext, in CreateCustomerInput) (*models.Customer, error) {
	if !rc.Principal.Authenticated() {
		return nil, ErrPermissionDenied("authentication required")
	}
	userID := rc.Principal.UserID
	if in.UserID != 0 && in.UserID != userID {
		if !rc.StaffAdmin {
			return nil, ErrPermissionDenied("you can only register yourself as a customer")
		}
		userID = in.UserID
	}

	customer := models.Customer{UserID: userID, Phone: in.Phone}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.User{}, userID, "user"); err != nil {
			return err
		}
		n, err := count(tx, &models.Customer{}, "user_id = ?", userID)
		if err != nil {
			return fmt.Errorf("check customer link: %w", err)
		}
		if n > 0 {
			return ErrValidation("user %d is already a customer", userID)
		}
		if err := tx.Create(&customer).Error; err != nil {
			if isDuplicate(err) {
				return ErrValidation("user %d is already a customer", userID)
			}
			return fmt.Errorf("create customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{"customer_id": customer.ID, "user_id": userID}).Info("customer registered")
	return &customer, nil
}

// Me returns the caller's own customer profile.
func (s *PeopleService) Me(ctx context.Context, rc RoleContext) (*models.Customer, error) {
	if rc.CustomerID == nil {
		return nil, ErrNotFound("customer profile not found")
	}
	var c models.Customer
	if err := load(s.DB.WithContext(ctx), &c, *rc.CustomerID, "customer"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PeopleService) UpdateMe(ctx context.Context, rc RoleContext, phone string) (*models.Customer, error) {
	c, err := s.Me(ctx, rc)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(c).Update("phone", phone).Error; err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	c.Phone = phone
	return c, nil
}

func (s *PeopleService) ListWaiters(ctx context.Context, rc RoleContext, restaurant *uint) ([]models.Waiter, error) {
	pred := Scope(rc, KindWaiters, restaurant)
	waiters := []models.Waiter{}
	if pred.Empty() {
		return waiters, nil
	}
	if err := s.DB.WithContext(ctx).Scopes(pred.Apply).Order("id").Find(&waiters).Error; err != nil {
		return nil, fmt.Errorf("list waiters: %w", err)
	}
	return waiters, nil
}

// CreateWaiter binds a user to the owner's restaurant. Waiters cannot hire.
func (s *PeopleService) CreateWaiter(ctx context.Context, rc RoleContext, in CreateWaiterInput) (*models.Waiter, error) {
	if !rc.StaffAdmin && rc.OwnerOf == nil {
		return nil, ErrPermissionDenied("only restaurant owners can add waiters")
	}
	restaurantID, err := mutationRestaurant(rc, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if in.UserID == 0 {
		return nil, ErrValidation("user is required")
	}

	waiter := models.Waiter{UserID: in.UserID, RestaurantID: restaurantID}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Restaurant{}, restaurantID, "restaurant"); err != nil {
			return err
		}
		if err := exists(tx, &models.User{}, in.UserID, "user"); err != nil {
			return err
		}
		if err := staffLinkFree(tx, in.UserID); err != nil {
			return err
		}
		if err := tx.Create(&waiter).Error; err != nil {
			if isDuplicate(err) {
				return ErrConflict("user %d is already a waiter", in.UserID)
			}
			return fmt.Errorf("create waiter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"waiter_id":     waiter.ID,
		"restaurant_id": restaurantID,
	}).Info("waiter added")
	return &waiter, nil
}

func (s *PeopleService) DeleteWaiter(ctx context.Context, rc RoleContext, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w models.Waiter
		if err := load(tx, &w, id, "waiter"); err != nil {
			return err
		}
		if !rc.StaffAdmin && (rc.OwnerOf == nil || *rc.OwnerOf != w.RestaurantID) {
			return ErrPermissionDenied("only the owner can remove waiters of restaurant %d", w.RestaurantID)
		}
		if err := tx.Delete(&w).Error; err != nil {
			return fmt.Errorf("delete waiter: %w", err)
		}
		return nil
	})
}
