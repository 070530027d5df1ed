package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(svc *services.MenuService) *MenuController {
	return &MenuController{Menu: svc}
}

type productResponse struct {
	models.Product
	PriceWithTax decimal.Decimal `json:"price_with_tax"`
}

func productView(p models.Product) productResponse {
	return productResponse{Product: p, PriceWithTax: p.PriceWithTax()}
}

type collectionRequest struct {
	Restaurant      *uint   `json:"restaurant"`
	Title           *string `json:"title"`
	FeaturedProduct *uint   `json:"featured_product"`
}

func (r collectionRequest) input() services.CollectionInput {
	return services.CollectionInput{
		RestaurantID:      r.Restaurant,
		Title:             r.Title,
		FeaturedProductID: r.FeaturedProduct,
	}
}

type productRequest struct {
	Restaurant  *uint            `json:"restaurant"`
	Collection  *uint            `json:"collection"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

func (r productRequest) input() services.ProductInput {
	return services.ProductInput{
		RestaurantID: r.Restaurant,
		CollectionID: r.Collection,
		Title:        r.Title,
		Description:  r.Description,
		UnitPrice:    r.UnitPrice,
	}
}

// Collections

func (mc *MenuController) GetAllCollections(c *gin.Context) {
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	collections, err := mc.Menu.ListCollections(c.Request.Context(), middlewares.CurrentRoleContext(c), restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of collections", collections)
}

func (mc *MenuController) GetCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	collection, err := mc.Menu.GetCollection(c.Request.Context(), middlewares.CurrentRoleContext(c), id, restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Collection details", collection)
}

func (mc *MenuController) CreateCollection(c *gin.Context) {
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	collection, err := mc.Menu.CreateCollection(c.Request.Context(), middlewares.CurrentRoleContext(c), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Collection created successfully", collection)
}

func (mc *MenuController) UpdateCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	collection, err := mc.Menu.UpdateCollection(c.Request.Context(), middlewares.CurrentRoleContext(c), id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Collection updated", collection)
}

// DeleteCollection -> refused while the collection still has products
func (mc *MenuController) DeleteCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := mc.Menu.DeleteCollection(c.Request.Context(), middlewares.CurrentRoleContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Collection deleted", nil)
}

// Products

// GetAllProducts -> supports ?restaurant= and ?collection=
func (mc *MenuController) GetAllProducts(c *gin.Context) {
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	collection, ok := queryID(c, "collection")
	if !ok {
		return
	}
	products, err := mc.Menu.ListProducts(c.Request.Context(), middlewares.CurrentRoleContext(c), restaurant, collection)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productView(p))
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", out)
}

func (mc *MenuController) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	product, err := mc.Menu.GetProduct(c.Request.Context(), middlewares.CurrentRoleContext(c), id, restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product details", productView(*product))
}

func (mc *MenuController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := mc.Menu.CreateProduct(c.Request.Context(), middlewares.CurrentRoleContext(c), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created successfully", productView(*product))
}

func (mc *MenuController) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := mc.Menu.UpdateProduct(c.Request.Context(), middlewares.CurrentRoleContext(c), id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", productView(*product))
}

// DeleteProduct -> refused once the product appears on an order
func (mc *MenuController) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := mc.Menu.DeleteProduct(c.Request.Context(), middlewares.CurrentRoleContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}
