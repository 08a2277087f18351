// README: Coupon validation handler (public, no auth).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samaha/internal/modules/coupon"
)

type CouponHandler struct {
	coupon *coupon.Service
}

func NewCouponHandler(svc *coupon.Service) *CouponHandler {
	return &CouponHandler{coupon: svc}
}

type validateCouponReq struct {
	Code          string `json:"code"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

func (h *CouponHandler) Validate(c *gin.Context) {
	var req validateCouponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.coupon.Validate(c.Request.Context(), req.Code, req.SubtotalCents)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if !res.Valid {
		writeJSON(c, http.StatusOK, gin.H{"valid": false, "message": res.Message})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"valid": true, "discount_cents": res.DiscountCents})
}
