// README: Shared handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"samaha/internal/modules/coupon"
	"samaha/internal/modules/dispatch"
	"samaha/internal/modules/driver"
	"samaha/internal/modules/order"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest),
		errors.Is(err, dispatch.ErrBadRequest),
		errors.Is(err, driver.ErrBadRequest),
		errors.Is(err, coupon.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, dispatch.ErrOrderNotFound),
		errors.Is(err, driver.ErrNotFound),
		errors.Is(err, driver.ErrNoFix):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidState),
		errors.Is(err, order.ErrConflict),
		errors.Is(err, dispatch.ErrDriverBusy),
		errors.Is(err, driver.ErrNotTracking):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
