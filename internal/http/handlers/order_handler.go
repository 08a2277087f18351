// README: Order handlers — create, fetch, status updates, cancel, history.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samaha/internal/http/middleware"
	"samaha/internal/modules/order"
	"samaha/internal/types"
)

type OrderHandler struct {
	order        *order.Service
	events       *order.PostgresEventLog
	restaurantID types.ID
}

func NewOrderHandler(svc *order.Service, events *order.PostgresEventLog, restaurantID types.ID) *OrderHandler {
	return &OrderHandler{order: svc, events: events, restaurantID: restaurantID}
}

type selectedOptionReq struct {
	ModifierID      string `json:"modifier_id"`
	ModifierName    string `json:"modifier_name"`
	OptionName      string `json:"option_name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
}

type orderItemReq struct {
	ItemID          string              `json:"item_id"`
	Name            string              `json:"name"`
	Qty             int                 `json:"qty"`
	PriceCents      int64               `json:"price_cents"`
	SelectedOptions []selectedOptionReq `json:"selected_options"`
	Notes           string              `json:"notes"`
}

type addressReq struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Line1 string  `json:"line1"`
	Notes string  `json:"notes"`
}

type createOrderReq struct {
	Items         []orderItemReq `json:"items"`
	DeliveryType  string         `json:"delivery_type"`
	Address       *addressReq    `json:"address"`
	PaymentMethod string         `json:"payment_method"`
	TipCents      int64          `json:"tip_cents"`
	CouponCode    string         `json:"coupon_code"`
	DiscountCents int64          `json:"discount_cents"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		opts := make([]order.SelectedOption, 0, len(it.SelectedOptions))
		for _, o := range it.SelectedOptions {
			opts = append(opts, order.SelectedOption{
				ModifierID:   o.ModifierID,
				ModifierName: o.ModifierName,
				OptionName:   o.OptionName,
				PriceDelta:   types.Money{Amount: o.PriceDeltaCents, Currency: "USD"},
			})
		}
		items = append(items, order.Item{
			ItemID:          types.ID(it.ItemID),
			Name:            it.Name,
			Qty:             it.Qty,
			Price:           types.Money{Amount: it.PriceCents, Currency: "USD"},
			SelectedOptions: opts,
			Notes:           it.Notes,
		})
	}

	cmd := order.CreateCommand{
		CustomerID:    middleware.CallerUID(c),
		RestaurantID:  h.restaurantID,
		Items:         items,
		DeliveryType:  order.DeliveryType(req.DeliveryType),
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		TipCents:      req.TipCents,
		CouponCode:    req.CouponCode,
		DiscountCents: req.DiscountCents,
	}
	if req.Address != nil {
		cmd.Address = &order.Address{
			Lat:   req.Address.Lat,
			Lng:   req.Address.Lng,
			Line1: req.Address.Line1,
			Notes: req.Address.Notes,
		}
	}

	id, err := h.order.Create(c.Request.Context(), cmd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"order_id": id, "status": order.StatusReceived})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		writeError(c, http.StatusBadRequest, "status required")
		return
	}
	err := h.order.UpdateStatus(c.Request.Context(), order.UpdateStatusCommand{
		OrderID: types.ID(c.Param("id")),
		Status:  order.Status(req.Status),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"order_id": c.Param("id"), "status": req.Status})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	err := h.order.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID: types.ID(c.Param("id")),
		Reason:  "user_cancel",
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"order_id": c.Param("id"), "status": order.StatusCancelled})
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.order.ListByCustomer(c.Request.Context(), middleware.CallerUID(c), 30)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// Events returns the audit trail for an order (admin timeline view).
func (h *OrderHandler) Events(c *gin.Context) {
	events, err := h.events.ListByOrder(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"count": len(events), "events": events})
}
