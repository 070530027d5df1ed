package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(svc *services.TableService) *TableController {
	return &TableController{Tables: svc}
}

// CreateTable -> adds a table to the caller's restaurant
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Restaurant *uint  `json:"restaurant"`
		Seats      int    `json:"seats"`
		Row        int    `json:"row" binding:"required"`
		Column     int    `json:"column" binding:"required"`
		Status     string `json:"table_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Create(c.Request.Context(), middlewares.CurrentRoleContext(c), services.CreateTableInput{
		RestaurantID: req.Restaurant,
		Seats:        req.Seats,
		Row:          req.Row,
		Column:       req.Column,
		Status:       req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> tables visible to the caller, optionally ?restaurant=
func (tc *TableController) GetAllTables(c *gin.Context) {
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	tables, err := tc.Tables.List(c.Request.Context(), middlewares.CurrentRoleContext(c), restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	table, err := tc.Tables.Get(c.Request.Context(), middlewares.CurrentRoleContext(c), id, restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table details", table)
}

// UpdateTable -> seats, status, or a move to another cell
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Seats  *int    `json:"seats"`
		Row    *int    `json:"row"`
		Column *int    `json:"column"`
		Status *string `json:"table_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Update(c.Request.Context(), middlewares.CurrentRoleContext(c), id, services.UpdateTableInput{
		Seats:  req.Seats,
		Row:    req.Row,
		Column: req.Column,
		Status: req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := tc.Tables.Delete(c.Request.Context(), middlewares.CurrentRoleContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}
