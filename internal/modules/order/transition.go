// README: Pure transition function — mutates an order copy and reports the
// side effects the caller must perform. Keeps the table testable without
// touching storage or messaging.
package order

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNoChange     = errors.New("status unchanged")
	ErrNotFound     = errors.New("order not found")
	ErrConflict     = errors.New("order state conflict")
	ErrBadRequest   = errors.New("bad request")
)

type Notification struct {
	Title string
	Body  string
}

// Effects is everything an accepted transition implies beyond the status
// write itself. The write is authoritative; effects are applied afterwards
// and never roll it back.
type Effects struct {
	// StampField is the timestamps sub-field entered by this transition.
	StampField string
	// EnableTracking flips the customer live-map flag (PICKED_UP only).
	EnableTracking bool
	// ClearDriverSlot releases the driver's activeOrderId (DELIVERED only,
	// and only when a driver is bound).
	ClearDriverSlot bool
	NotifyCustomer  *Notification
	NotifyDriver    *Notification
	AuditMessage    string
}

// ApplyTransition validates from→to, applies the state change to o in place,
// and returns the side-effect set. A request for the current status returns
// ErrNoChange and leaves o untouched; callers treat that as a silent no-op.
func ApplyTransition(o *Order, to Status, now time.Time) (Effects, error) {
	if to == o.Status {
		return Effects{}, ErrNoChange
	}
	if !CanTransition(o.Status, to) {
		return Effects{}, fmt.Errorf("%w: %s -> %s", ErrInvalidState, o.Status, to)
	}

	o.Status = to
	o.Timestamps.set(to, now)

	eff := Effects{
		StampField:   stampFields[to],
		AuditMessage: fmt.Sprintf("Status changed to %s", to),
	}

	switch to {
	case StatusPreparing:
		eff.NotifyCustomer = &Notification{
			Title: "Being Prepared",
			Body:  "Your order is now being prepared!",
		}

	case StatusReady:
		if o.DriverID != "" {
			eff.NotifyDriver = &Notification{
				Title: "Order Ready",
				Body:  fmt.Sprintf("Order #%s is ready for pickup", o.ShortID()),
			}
		}
		eff.NotifyCustomer = &Notification{
			Title: "Order Ready",
			Body:  "Your order is ready and waiting for pickup!",
		}

	case StatusPickedUp:
		o.TrackingEnabled = true
		eff.EnableTracking = true
		eff.NotifyCustomer = &Notification{
			Title: "Driver On the Way",
			Body:  "Your driver has picked up your order. Track them live!",
		}

	case StatusDelivered:
		eff.ClearDriverSlot = o.DriverID != ""
		eff.NotifyCustomer = &Notification{
			Title: "Delivered!",
			Body:  "Your order has been delivered. Enjoy your meal!",
		}

	case StatusCancelled:
		// No driver cleanup on cancellation.
		eff.NotifyCustomer = &Notification{
			Title: "Order Cancelled",
			Body:  "Your order has been cancelled.",
		}
	}

	return eff, nil
}
