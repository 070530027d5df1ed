package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

type WaiterController struct {
	People *services.PeopleService
}

func NewWaiterController(people *services.PeopleService) *WaiterController {
	return &WaiterController{People: people}
}

func (wc *WaiterController) GetAllWaiters(c *gin.Context) {
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	waiters, err := wc.People.ListWaiters(c.Request.Context(), middlewares.CurrentRoleContext(c), restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of waiters", waiters)
}

// CreateWaiter -> links a user to the owner's restaurant as staff
func (wc *WaiterController) CreateWaiter(c *gin.Context) {
	var req struct {
		Restaurant *uint `json:"restaurant"`
		User       uint  `json:"user" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	waiter, err := wc.People.CreateWaiter(c.Request.Context(), middlewares.CurrentRoleContext(c), services.CreateWaiterInput{
		RestaurantID: req.Restaurant,
		UserID:       req.User,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Waiter created successfully", waiter)
}

func (wc *WaiterController) DeleteWaiter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := wc.People.DeleteWaiter(c.Request.Context(), middlewares.CurrentRoleContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter deleted", nil)
}
