package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-pos/engine"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var ErrNegativePrice = errors.New("price must not be negative")

// statusFor maps engine error kinds onto distinct HTTP status codes so
// clients can tell retryable store failures from their own bad requests.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, engine.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondEngineError(c *gin.Context, err error) {
	utils.RespondError(c, statusFor(err), err)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}
