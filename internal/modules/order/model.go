// README: Order aggregate, status chain, and audit event definitions.
package order

import (
	"strings"
	"time"

	"samaha/internal/types"
)

type Status string

const (
	StatusReceived  Status = "RECEIVED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusPickedUp  Status = "PICKED_UP"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// successors is the fixed forward chain. Cancellation is the only bypass and
// is legal from any non-terminal state.
var successors = map[Status]Status{
	StatusReceived:  StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusPickedUp,
	StatusPickedUp:  StatusDelivered,
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// SuccessorOf returns the next stage in the chain, or "" for terminal states.
func SuccessorOf(s Status) Status {
	return successors[s]
}

// CanTransition reports whether from→to is a legal edge. Backward moves and
// stage skips are never legal; any non-terminal state may cancel.
func CanTransition(from, to Status) bool {
	if to == StatusCancelled {
		return !from.Terminal()
	}
	return successors[from] == to
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "CARD"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

type DeliveryType string

const (
	DeliveryToAddress DeliveryType = "delivery"
	DeliveryPickup    DeliveryType = "pickup"
)

type SelectedOption struct {
	ModifierID   string      `firestore:"modifierId" json:"modifierId"`
	ModifierName string      `firestore:"modifierName" json:"modifierName"`
	OptionName   string      `firestore:"optionName" json:"optionName"`
	PriceDelta   types.Money `firestore:"priceDelta" json:"priceDelta"`
}

type Item struct {
	ItemID          types.ID         `firestore:"itemId" json:"itemId"`
	Name            string           `firestore:"name" json:"name"`
	Qty             int              `firestore:"qty" json:"qty"`
	Price           types.Money      `firestore:"price" json:"price"`
	SelectedOptions []SelectedOption `firestore:"selectedOptions" json:"selectedOptions"`
	Notes           string           `firestore:"notes,omitempty" json:"notes,omitempty"`
}

type Address struct {
	Lat   float64 `firestore:"lat" json:"lat"`
	Lng   float64 `firestore:"lng" json:"lng"`
	Line1 string  `firestore:"line1" json:"line1"`
	Notes string  `firestore:"notes,omitempty" json:"notes,omitempty"`
}

func (a *Address) Point() types.Point {
	return types.Point{Lat: a.Lat, Lng: a.Lng}
}

type Delivery struct {
	Type    DeliveryType `firestore:"type" json:"type"`
	Address *Address     `firestore:"address,omitempty" json:"address,omitempty"`
}

// Timestamps records the instant each stage was entered. Each field is written
// exactly once, when its status is entered, and never overwritten.
type Timestamps struct {
	CreatedAt   time.Time  `firestore:"createdAt" json:"createdAt"`
	PreparingAt *time.Time `firestore:"preparingAt,omitempty" json:"preparingAt,omitempty"`
	ReadyAt     *time.Time `firestore:"readyAt,omitempty" json:"readyAt,omitempty"`
	PickedUpAt  *time.Time `firestore:"pickedUpAt,omitempty" json:"pickedUpAt,omitempty"`
	DeliveredAt *time.Time `firestore:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `firestore:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// stampFields maps each post-creation status to its timestamps field name.
var stampFields = map[Status]string{
	StatusPreparing: "preparingAt",
	StatusReady:     "readyAt",
	StatusPickedUp:  "pickedUpAt",
	StatusDelivered: "deliveredAt",
	StatusCancelled: "cancelledAt",
}

func (t *Timestamps) set(status Status, now time.Time) {
	var field **time.Time
	switch status {
	case StatusPreparing:
		field = &t.PreparingAt
	case StatusReady:
		field = &t.ReadyAt
	case StatusPickedUp:
		field = &t.PickedUpAt
	case StatusDelivered:
		field = &t.DeliveredAt
	case StatusCancelled:
		field = &t.CancelledAt
	default:
		return
	}
	if *field == nil {
		v := now
		*field = &v
	}
}

type Order struct {
	ID              types.ID      `firestore:"-" json:"id"`
	RestaurantID    types.ID      `firestore:"restaurantId" json:"restaurantId"`
	CustomerID      types.ID      `firestore:"customerId" json:"customerId"`
	DriverID        types.ID      `firestore:"driverId,omitempty" json:"driverId,omitempty"`
	Items           []Item        `firestore:"items" json:"items"`
	Subtotal        types.Money   `firestore:"subtotal" json:"subtotal"`
	Tax             types.Money   `firestore:"tax" json:"tax"`
	DeliveryFee     types.Money   `firestore:"deliveryFee" json:"deliveryFee"`
	Tip             types.Money   `firestore:"tip" json:"tip"`
	DiscountAmount  types.Money   `firestore:"discountAmount" json:"discountAmount"`
	Total           types.Money   `firestore:"total" json:"total"`
	PaymentMethod   PaymentMethod `firestore:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   PaymentStatus `firestore:"paymentStatus" json:"paymentStatus"`
	CouponCode      string        `firestore:"couponCode,omitempty" json:"couponCode,omitempty"`
	Delivery        Delivery      `firestore:"delivery" json:"delivery"`
	Status          Status        `firestore:"status" json:"status"`
	TrackingEnabled bool          `firestore:"trackingEnabled" json:"trackingEnabled"`
	Timestamps      Timestamps    `firestore:"timestamps" json:"timestamps"`
}

// ShortID is the customer-facing order reference: last 8 id characters,
// upper-cased.
func (o *Order) ShortID() string {
	id := string(o.ID)
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

type EventType string

const (
	EventStatusChange   EventType = "STATUS_CHANGE"
	EventNote           EventType = "NOTE"
	EventDriverAssigned EventType = "DRIVER_ASSIGNED"
)

// Event is an append-only audit record. Events are never updated or deleted.
type Event struct {
	ID        int64     `json:"id"`
	OrderID   types.ID  `json:"orderId"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
