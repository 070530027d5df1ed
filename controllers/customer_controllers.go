package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

type CustomerController struct {
	People *services.PeopleService
}

func NewCustomerController(people *services.PeopleService) *CustomerController {
	return &CustomerController{People: people}
}

// GetAllCustomers -> administrators only
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	customers, err := cc.People.ListCustomers(c.Request.Context(), middlewares.CurrentRoleContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// CreateCustomer -> registers the caller as a customer. Administrators may
// pass user_id to register someone else.
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		UserID uint   `json:"user_id"`
		Phone  string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	customer, err := cc.People.CreateCustomer(c.Request.Context(), middlewares.CurrentRoleContext(c), services.CreateCustomerInput{
		UserID: req.UserID,
		Phone:  req.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Customer created successfully", customer)
}

func (cc *CustomerController) GetMe(c *gin.Context) {
	customer, err := cc.People.Me(c.Request.Context(), middlewares.CurrentRoleContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer profile", customer)
}

func (cc *CustomerController) UpdateMe(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	customer, err := cc.People.UpdateMe(c.Request.Context(), middlewares.CurrentRoleContext(c), req.Phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer profile updated", customer)
}
