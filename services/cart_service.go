package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yeremiapane/gastro-api/models"
	"gorm.io/gorm"
)

// CartService manages anonymous carts. A cart id is the only credential
// needed to read or change it.
type CartService struct {
	DB *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{DB: db}
}

func (s *CartService) Create(ctx context.Context) (*models.Cart, error) {
	cart := models.Cart{Items: []models.CartItem{}}
	if err := s.DB.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return &cart, nil
}

func loadCart(tx *gorm.DB, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Where("id = ?", id).Take(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("cart not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &cart, nil
}

func (s *CartService) Get(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return loadCart(s.DB.WithContext(ctx), id)
}

func (s *CartService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadCart(tx, id); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Cart{}).Error; err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	})
}

func (s *CartService) Items(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	cart, err := loadCart(s.DB.WithContext(ctx), cartID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// AddItem puts a product in the cart. Adding a product that is already there
// increases its quantity.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrValidation("quantity must be greater than zero")
	}

	var item models.CartItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Cart{}, cartID, "cart"); err != nil {
			if KindOf(err) == KindValidation {
				return ErrNotFound("cart not found")
			}
			return err
		}
		if err := exists(tx, &models.Product{}, productID, "product"); err != nil {
			return err
		}

		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).Take(&item).Error
		switch {
		case err == nil:
			item.Quantity += quantity
			if err := tx.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&item).Error; err != nil {
				if isDuplicate(err) {
					return ErrConflict("product is already in the cart")
				}
				return fmt.Errorf("create cart item: %w", err)
			}
		default:
			return fmt.Errorf("load cart item: %w", err)
		}
		return tx.Preload("Product").Where("id = ?", item.ID).Take(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func loadCartItem(tx *gorm.DB, cartID uuid.UUID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := tx.Preload("Product").Where("id = ? AND cart_id = ?", itemID, cartID).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("cart item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load cart item: %w", err)
	}
	return &item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, cartID uuid.UUID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrValidation("quantity must be greater than zero")
	}
	db := s.DB.WithContext(ctx)
	item, err := loadCartItem(db, cartID, itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uint) error {
	db := s.DB.WithContext(ctx)
	item, err := loadCartItem(db, cartID, itemID)
	if err != nil {
		return err
	}
	if err := db.Delete(item).Error; err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}
