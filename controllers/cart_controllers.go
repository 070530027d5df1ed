package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

// CartController needs no authentication; the cart id is the credential.
type CartController struct {
	Carts *services.CartService
}

func NewCartController(svc *services.CartService) *CartController {
	return &CartController{Carts: svc}
}

type cartItemResponse struct {
	ID         uint            `json:"id"`
	Product    *models.Product `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type cartResponse struct {
	ID         uuid.UUID          `json:"id"`
	Items      []cartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

func cartItemView(i models.CartItem) cartItemResponse {
	return cartItemResponse{ID: i.ID, Product: i.Product, Quantity: i.Quantity, TotalPrice: i.TotalPrice()}
}

func cartView(cart models.Cart) cartResponse {
	out := cartResponse{ID: cart.ID, Items: make([]cartItemResponse, 0, len(cart.Items)), TotalPrice: cart.TotalPrice()}
	for _, item := range cart.Items {
		out.Items = append(out.Items, cartItemView(item))
	}
	return out
}

// cartID parses :cart_id. A value that is not a UUID cannot name a cart.
func cartID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("cart_id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("cart not found"))
		return uuid.Nil, false
	}
	return id, true
}

func (cc *CartController) CreateCart(c *gin.Context) {
	cart, err := cc.Carts.Create(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Cart created", cartView(*cart))
}

func (cc *CartController) GetCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	cart, err := cc.Carts.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart details", cartView(*cart))
}

func (cc *CartController) DeleteCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	if err := cc.Carts.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart deleted", nil)
}

func (cc *CartController) GetItems(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	items, err := cc.Carts.Items(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemView(item))
	}
	utils.RespondJSON(c, http.StatusOK, "Cart items", out)
}

// AddItem -> adding a product already in the cart raises its quantity
func (cc *CartController) AddItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := cc.Carts.AddItem(c.Request.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added to cart", cartItemView(*item))
}

func (cc *CartController) UpdateItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := cc.Carts.UpdateItem(c.Request.Context(), id, itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item updated", cartItemView(*item))
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	if err := cc.Carts.RemoveItem(c.Request.Context(), id, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item removed", nil)
}
