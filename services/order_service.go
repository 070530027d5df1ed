package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
)

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type PlaceOrderInput struct {
	CartID       uuid.UUID
	RestaurantID uint
	TableID      uint
}

// paymentTransitions lists the statuses reachable from each status.
// Complete is terminal.
var paymentTransitions = map[string][]string{
	models.PaymentPending: {models.PaymentComplete, models.PaymentFailed},
	models.PaymentFailed:  {models.PaymentPending, models.PaymentComplete},
}

func canTransition(from, to string) bool {
	for _, s := range paymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func validPaymentStatus(s string) bool {
	return s == models.PaymentPending || s == models.PaymentComplete || s == models.PaymentFailed
}

// PlaceOrder converts a cart into an order. The order, its items and the cart
// deletion commit together or not at all.
func (s *OrderService) PlaceOrder(ctx context.Context, rc RoleContext, in PlaceOrderInput) (*models.Order, error) {
	if rc.CustomerID == nil {
		return nil, ErrPermissionDenied("only customers can place orders")
	}
	if in.CartID == uuid.Nil {
		return nil, ErrValidation("cart not found")
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items.Product").Where("id = ?", in.CartID).Take(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrValidation("cart not found")
		}
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrValidation("cart empty")
		}

		var restaurant models.Restaurant
		if err := load(tx, &restaurant, in.RestaurantID, "restaurant"); err != nil {
			return err
		}
		var table models.RestaurantTable
		if err := load(tx, &table, in.TableID, "table"); err != nil {
			return err
		}
		if table.RestaurantID != restaurant.ID {
			return ErrValidation("table %d does not belong to restaurant %d", table.ID, restaurant.ID)
		}

		order = models.Order{
			RestaurantID:  restaurant.ID,
			TableID:       table.ID,
			CustomerID:    *rc.CustomerID,
			PaymentStatus: models.PaymentPending,
		}
		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			if ci.Product == nil {
				return ErrValidation("cart item %d refers to a missing product", ci.ID)
			}
			if ci.Product.RestaurantID != restaurant.ID {
				return ErrValidation("product %q is not on the menu of restaurant %d", ci.Product.Title, restaurant.ID)
			}
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: ci.Product.UnitPrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		if err := tx.Where("id = ?", cart.ID).Delete(&models.Cart{}).Error; err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
		"table_id":      order.TableID,
		"customer_id":   order.CustomerID,
		"items":         len(order.Items),
	}).Info("order placed")
	return &order, nil
}

func (s *OrderService) List(ctx context.Context, rc RoleContext, restaurant *uint) ([]models.Order, error) {
	pred := Scope(rc, KindOrders, restaurant)
	orders := []models.Order{}
	if pred.Empty() {
		return orders, nil
	}
	err := s.DB.WithContext(ctx).Scopes(pred.Apply).Preload("Items").Order("placed_at DESC, id DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, rc RoleContext, id uint) (*models.Order, error) {
	var order models.Order
	if err := load(s.DB.WithContext(ctx).Preload("Items"), &order, id, "order"); err != nil {
		return nil, err
	}
	if !Scope(rc, KindOrders, nil).Allows(order.RestaurantID, &order.CustomerID) {
		return nil, ErrPermissionDenied("you do not have permission to view this order")
	}
	return &order, nil
}

// UpdatePaymentStatus is the only mutation an order accepts after placement.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, rc RoleContext, id uint, status string) (*models.Order, error) {
	if !validPaymentStatus(status) {
		return nil, ErrValidation("invalid payment status %q", status)
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, &order, id, "order"); err != nil {
			return err
		}
		if err := AuthorizeMutation(rc, order.RestaurantID); err != nil {
			return err
		}
		if order.PaymentStatus == status {
			return nil
		}
		if !canTransition(order.PaymentStatus, status) {
			return ErrConflict("payment status cannot change from %s to %s", order.PaymentStatus, status)
		}

		prev := order.PaymentStatus
		if err := tx.Model(&order).Update("payment_status", status).Error; err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		utils.InfoLogger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"from":     prev,
			"to":       status,
		}).Info("payment status changed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Preload("Items").Where("id = ?", order.ID).Take(&order).Error; err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return &order, nil
}

// Delete always fails: orders are retained permanently.
func (s *OrderService) Delete(ctx context.Context, rc RoleContext, id uint) error {
	var order models.Order
	if err := load(s.DB.WithContext(ctx), &order, id, "order"); err != nil {
		return err
	}
	return ErrConflict("orders are retained and cannot be deleted")
}
