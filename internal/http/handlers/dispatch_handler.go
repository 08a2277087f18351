// README: Dispatch handlers — manual dispatch trigger and direct assignment.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samaha/internal/modules/dispatch"
	"samaha/internal/types"
)

type DispatchHandler struct {
	dispatch *dispatch.Service
}

func NewDispatchHandler(svc *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{dispatch: svc}
}

// Dispatch triggers the auto-dispatch algorithm for one order. "No driver
// found" is a success, mirroring the engine's contract.
func (h *DispatchHandler) Dispatch(c *gin.Context) {
	err := h.dispatch.AutoDispatch(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true})
}

type assignReq struct {
	DriverID string `json:"driver_id"`
}

func (h *DispatchHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driver_id required")
		return
	}
	err := h.dispatch.Assign(c.Request.Context(), types.ID(c.Param("id")), types.ID(req.DriverID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true})
}
