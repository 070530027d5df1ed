package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

type RestaurantController struct {
	Restaurants *services.RestaurantService
}

func NewRestaurantController(svc *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Restaurants: svc}
}

func (rc *RestaurantController) ListRestaurants(c *gin.Context) {
	restaurants, err := rc.Restaurants.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	restaurant, err := rc.Restaurants.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant details", restaurant)
}

// CreateRestaurant -> admin only; binds the owner user in the same step
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Status      string `json:"status"`
		Location    string `json:"location"`
		GridRows    int    `json:"grid_rows"`
		GridColumns int    `json:"grid_columns"`
		Owner       uint   `json:"owner" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant, err := rc.Restaurants.Create(c.Request.Context(), middlewares.CurrentRoleContext(c), services.CreateRestaurantInput{
		Title:       req.Title,
		Status:      req.Status,
		Location:    req.Location,
		GridRows:    req.GridRows,
		GridColumns: req.GridColumns,
		OwnerUserID: req.Owner,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created successfully", restaurant)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Status      *string `json:"status"`
		Location    *string `json:"location"`
		GridRows    *int    `json:"grid_rows"`
		GridColumns *int    `json:"grid_columns"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant, err := rc.Restaurants.Update(c.Request.Context(), middlewares.CurrentRoleContext(c), id, services.UpdateRestaurantInput{
		Title:       req.Title,
		Status:      req.Status,
		Location:    req.Location,
		GridRows:    req.GridRows,
		GridColumns: req.GridColumns,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := rc.Restaurants.Delete(c.Request.Context(), middlewares.CurrentRoleContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", nil)
}
