package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Orders: svc}
}

// CreateOrder -> converts a cart into an order for a table
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		CartID     string `json:"cart_id" binding:"required"`
		Restaurant uint   `json:"restaurant" binding:"required"`
		Table      uint   `json:"table" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cart not found"))
		return
	}

	order, err := oc.Orders.PlaceOrder(c.Request.Context(), middlewares.CurrentRoleContext(c), services.PlaceOrderInput{
		CartID:       cartID,
		RestaurantID: req.Restaurant,
		TableID:      req.Table,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
}

func (oc *OrderController) GetAllOrders(c *gin.Context) {
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	orders, err := oc.Orders.List(c.Request.Context(), middlewares.CurrentRoleContext(c), restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), middlewares.CurrentRoleContext(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order details", order)
}

// UpdatePaymentStatus -> the only field of an order that changes after checkout
func (oc *OrderController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := oc.Orders.UpdatePaymentStatus(c.Request.Context(), middlewares.CurrentRoleContext(c), id, req.PaymentStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := oc.Orders.Delete(c.Request.Context(), middlewares.CurrentRoleContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}
