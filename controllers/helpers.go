package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

var errInternal = errors.New("internal server error")

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindPermissionDenied:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the error envelope for a failed service call.
// Storage failures are logged in full and hidden from the client.
func respondServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status := statusFor(kind)
	fields := logrus.Fields{
		"kind":   kind.String(),
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}

	if status == http.StatusInternalServerError {
		utils.ErrorLogger.WithFields(fields).Error(err)
		utils.RespondError(c, status, errInternal)
		return
	}
	utils.ErrorLogger.WithFields(fields).Warn(err.Error())
	utils.RespondError(c, status, err)
}

// pathID reads a numeric path parameter. A malformed id cannot name a row, so
// it is answered with 404.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("resource not found"))
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query parameter such as ?restaurant=3.
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+name+" filter"))
		return nil, false
	}
	v := uint(id)
	return &v, true
}
