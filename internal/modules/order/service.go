// README: Order service — creation with derived totals, status transitions
// with their side effects, and queries.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/juju/clock"

	"samaha/internal/types"
)

const (
	taxRate          = 0.08
	deliveryFeeCents = 200
	currency         = "USD"
)

// Dispatcher triggers driver assignment for a freshly created order.
type Dispatcher interface {
	AutoDispatch(ctx context.Context, orderID types.ID) error
}

// DriverSlots releases a driver's active-order binding after delivery.
type DriverSlots interface {
	ClearActiveOrder(ctx context.Context, driverID types.ID) error
}

// Notifier is the best-effort push fan-out. Calls never fail.
type Notifier interface {
	NotifyUser(ctx context.Context, userID types.ID, title, body string, data map[string]string)
	NotifyAdmins(ctx context.Context, title, body string, data map[string]string)
}

// Settings exposes the restaurant flags the order flow depends on.
type Settings interface {
	AutoDispatchEnabled(ctx context.Context) (bool, error)
}

type Deps struct {
	Store      Store
	Events     EventLog
	Notifier   Notifier
	Drivers    DriverSlots
	Dispatcher Dispatcher
	Settings   Settings
	Clock      clock.Clock
}

type Service struct {
	store      Store
	events     EventLog
	notifier   Notifier
	drivers    DriverSlots
	dispatcher Dispatcher
	settings   Settings
	clock      clock.Clock
}

func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = clock.WallClock
	}
	return &Service{
		store:      deps.Store,
		events:     deps.Events,
		notifier:   deps.Notifier,
		drivers:    deps.Drivers,
		dispatcher: deps.Dispatcher,
		settings:   deps.Settings,
		clock:      deps.Clock,
	}
}

type CreateCommand struct {
	CustomerID     types.ID
	RestaurantID   types.ID
	Items          []Item
	DeliveryType   DeliveryType
	Address        *Address
	PaymentMethod  PaymentMethod
	TipCents       int64
	CouponCode     string
	DiscountCents  int64
}

type UpdateStatusCommand struct {
	OrderID types.ID
	Status  Status
}

type CancelCommand struct {
	OrderID types.ID
	Reason  string
}

// Create derives the totals once, persists the order in RECEIVED, and runs
// the creation side effects: audit event, admin fan-out, optional dispatch.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.CustomerID == "" || len(cmd.Items) == 0 {
		return "", ErrBadRequest
	}
	if cmd.DeliveryType == DeliveryToAddress && cmd.Address == nil {
		return "", fmt.Errorf("%w: delivery order without address", ErrBadRequest)
	}
	for _, it := range cmd.Items {
		if it.Qty <= 0 {
			return "", fmt.Errorf("%w: item %s has qty %d", ErrBadRequest, it.ItemID, it.Qty)
		}
	}

	now := s.clock.Now()
	subtotal := subtotalCents(cmd.Items)
	tax := int64(math.Round(float64(subtotal) * taxRate))
	var fee int64
	if cmd.DeliveryType == DeliveryToAddress {
		fee = deliveryFeeCents
	}
	total := subtotal + tax + fee + cmd.TipCents - cmd.DiscountCents

	o := &Order{
		RestaurantID:   cmd.RestaurantID,
		CustomerID:     cmd.CustomerID,
		Items:          cmd.Items,
		Subtotal:       types.Money{Amount: subtotal, Currency: currency},
		Tax:            types.Money{Amount: tax, Currency: currency},
		DeliveryFee:    types.Money{Amount: fee, Currency: currency},
		Tip:            types.Money{Amount: cmd.TipCents, Currency: currency},
		DiscountAmount: types.Money{Amount: cmd.DiscountCents, Currency: currency},
		Total:          types.Money{Amount: total, Currency: currency},
		PaymentMethod:  cmd.PaymentMethod,
		PaymentStatus:  PaymentUnpaid,
		CouponCode:     cmd.CouponCode,
		Delivery:       Delivery{Type: cmd.DeliveryType, Address: cmd.Address},
		Status:         StatusReceived,
		Timestamps:     Timestamps{CreatedAt: now},
	}

	id, err := s.store.Create(ctx, o)
	if err != nil {
		return "", err
	}

	s.appendEvent(ctx, &Event{
		OrderID:   id,
		Type:      EventStatusChange,
		Message:   "Order received",
		CreatedAt: now,
	})
	s.notifier.NotifyAdmins(ctx, "New Order",
		fmt.Sprintf("Order #%s — %s", o.ShortID(), o.Total),
		map[string]string{"orderId": string(id), "type": "NEW_ORDER"})

	if s.dispatcher != nil {
		enabled, err := s.settings.AutoDispatchEnabled(ctx)
		if err != nil {
			log.Printf("order %s: auto-dispatch flag lookup failed: %v", id, err)
		} else if enabled {
			if err := s.dispatcher.AutoDispatch(ctx, id); err != nil {
				// The order stays RECEIVED and can be dispatched manually.
				log.Printf("order %s: auto-dispatch failed: %v", id, err)
			}
		}
	}

	return id, nil
}

// UpdateStatus applies one transition. The status write is authoritative;
// audit, notifications, and driver-slot cleanup follow best-effort.
func (s *Service) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) error {
	if cmd.OrderID == "" {
		return ErrBadRequest
	}
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}

	from := o.Status
	now := s.clock.Now()
	eff, err := ApplyTransition(o, cmd.Status, now)
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	won, err := s.store.UpdateStatus(ctx, o.ID, from, cmd.Status, eff.StampField, now, eff.EnableTracking)
	if err != nil {
		return err
	}
	if !won {
		return ErrConflict
	}

	s.appendEvent(ctx, &Event{
		OrderID:   o.ID,
		Type:      EventStatusChange,
		Message:   eff.AuditMessage,
		CreatedAt: now,
	})

	data := map[string]string{"orderId": string(o.ID)}
	if eff.NotifyDriver != nil {
		s.notifier.NotifyUser(ctx, o.DriverID, eff.NotifyDriver.Title, eff.NotifyDriver.Body, data)
	}
	if eff.NotifyCustomer != nil {
		s.notifier.NotifyUser(ctx, o.CustomerID, eff.NotifyCustomer.Title, eff.NotifyCustomer.Body, data)
	}
	if eff.ClearDriverSlot {
		if err := s.drivers.ClearActiveOrder(ctx, o.DriverID); err != nil {
			log.Printf("order %s: clearing driver %s slot failed: %v", o.ID, o.DriverID, err)
		}
	}

	return nil
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	return s.UpdateStatus(ctx, UpdateStatusCommand{OrderID: cmd.OrderID, Status: StatusCancelled})
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	return s.store.Get(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID types.ID, limit int) ([]*Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.store.ListByCustomer(ctx, customerID, limit)
}

func (s *Service) appendEvent(ctx context.Context, e *Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, e); err != nil {
		log.Printf("order %s: audit append failed: %v", e.OrderID, err)
	}
}

func subtotalCents(items []Item) int64 {
	var sum int64
	for _, it := range items {
		line := it.Price.Amount
		for _, opt := range it.SelectedOptions {
			line += opt.PriceDelta.Amount
		}
		sum += line * int64(it.Qty)
	}
	return sum
}
