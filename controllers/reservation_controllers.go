package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: svc}
}

func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	restaurant, ok := queryID(c, "restaurant")
	if !ok {
		return
	}
	reservations, err := rc.Reservations.List(c.Request.Context(), middlewares.CurrentRoleContext(c), restaurant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reservation, err := rc.Reservations.Get(c.Request.Context(), middlewares.CurrentRoleContext(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation details", reservation)
}

// CreateReservation -> books a table window; times are RFC 3339
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		Table        uint      `json:"table" binding:"required"`
		Customer     *uint     `json:"customer"`
		DateTimeFrom time.Time `json:"date_time_from"`
		DateTimeTo   time.Time `json:"date_time_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	reservation, err := rc.Reservations.Create(c.Request.Context(), middlewares.CurrentRoleContext(c), services.CreateReservationInput{
		TableID:      req.Table,
		CustomerID:   req.Customer,
		DateTimeFrom: req.DateTimeFrom,
		DateTimeTo:   req.DateTimeTo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Table        *uint      `json:"table"`
		DateTimeFrom *time.Time `json:"date_time_from"`
		DateTimeTo   *time.Time `json:"date_time_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	reservation, err := rc.Reservations.Update(c.Request.Context(), middlewares.CurrentRoleContext(c), id, services.UpdateReservationInput{
		TableID:      req.Table,
		DateTimeFrom: req.DateTimeFrom,
		DateTimeTo:   req.DateTimeTo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := rc.Reservations.Cancel(c.Request.Context(), middlewares.CurrentRoleContext(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", nil)
}
