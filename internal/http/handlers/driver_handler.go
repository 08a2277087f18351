// README: Driver handlers — availability, location reports, and order ETA.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samaha/internal/http/middleware"
	"samaha/internal/modules/driver"
	"samaha/internal/modules/order"
	"samaha/internal/types"
)

type DriverHandler struct {
	driver *driver.Service
	order  *order.Service
}

func NewDriverHandler(driverSvc *driver.Service, orderSvc *order.Service) *DriverHandler {
	return &DriverHandler{driver: driverSvc, order: orderSvc}
}

type availabilityReq struct {
	IsOnline bool `json:"is_online"`
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.driver.SetOnline(c.Request.Context(), middleware.CallerUID(c), req.IsOnline); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"is_online": req.IsOnline})
}

type locationReq struct {
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Heading    float64 `json:"heading"`
	Speed      float64 `json:"speed"`
	Delivering bool    `json:"delivering"`
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	accepted, err := h.driver.ReportLocation(c.Request.Context(), driver.LocationUpdate{
		DriverID:   middleware.CallerUID(c),
		Lat:        req.Lat,
		Lng:        req.Lng,
		Heading:    req.Heading,
		Speed:      req.Speed,
		Delivering: req.Delivering,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"accepted": accepted})
}

// ETA estimates minutes from the assigned driver's last fix to the order's
// delivery address.
func (h *DriverHandler) ETA(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if o.DriverID == "" || o.Delivery.Address == nil {
		writeError(c, http.StatusConflict, "order has no driver or delivery address")
		return
	}
	minutes, err := h.driver.ETAToPoint(c.Request.Context(), o.DriverID, o.Delivery.Address.Point())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"eta_minutes": minutes})
}
