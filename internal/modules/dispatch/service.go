// README: Dispatch service — greedy nearest-available-driver assignment.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/juju/clock"

	"samaha/internal/geo"
	"samaha/internal/modules/driver"
	"samaha/internal/modules/order"
	"samaha/internal/types"
)

// DriverDirectory lists drivers currently online.
type DriverDirectory interface {
	ListOnline(ctx context.Context) ([]*driver.Driver, error)
}

// Locator resolves the restaurant's fixed coordinates.
type Locator interface {
	Location(ctx context.Context) (types.Point, error)
}

// Notifier is the best-effort push fan-out.
type Notifier interface {
	NotifyUser(ctx context.Context, userID types.ID, title, body string, data map[string]string)
}

type Service struct {
	drivers  DriverDirectory
	assigner Assigner
	locator  Locator
	notifier Notifier
	events   order.EventLog
	radiusKm float64
	clock    clock.Clock
}

func NewService(drivers DriverDirectory, assigner Assigner, locator Locator, notifier Notifier, events order.EventLog, radiusKm float64, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Service{
		drivers:  drivers,
		assigner: assigner,
		locator:  locator,
		notifier: notifier,
		events:   events,
		radiusKm: radiusKm,
		clock:    clk,
	}
}

// AutoDispatch selects and binds the nearest available driver within the
// dispatch radius. Finding no candidate is a successful no-op: the order
// stays undispatched and can be retried manually. Only malformed input is an
// error.
func (s *Service) AutoDispatch(ctx context.Context, orderID types.ID) error {
	if orderID == "" {
		return ErrBadRequest
	}

	candidates, err := s.candidates(ctx)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		log.Printf("dispatch: no available drivers within radius for order %s", orderID)
		return nil
	}

	// Nearest first; on a busy conflict fall through to the next candidate.
	for _, c := range candidates {
		err := s.assigner.Assign(ctx, orderID, c.DriverID)
		if errors.Is(err, ErrDriverBusy) {
			continue
		}
		if err != nil {
			return err
		}
		s.bound(ctx, orderID, c.DriverID)
		log.Printf("dispatch: order %s -> driver %s (%.2f km)", orderID, c.DriverID, c.Distance)
		return nil
	}

	log.Printf("dispatch: all candidates busy for order %s", orderID)
	return nil
}

// Assign binds a specific driver to an order (admin manual assignment).
// Unlike AutoDispatch, a busy driver is surfaced to the caller.
func (s *Service) Assign(ctx context.Context, orderID, driverID types.ID) error {
	if orderID == "" || driverID == "" {
		return ErrBadRequest
	}
	if err := s.assigner.Assign(ctx, orderID, driverID); err != nil {
		return err
	}
	s.bound(ctx, orderID, driverID)
	return nil
}

// candidates returns online, available drivers with a known position inside
// the dispatch radius, nearest first. Equal distances keep iteration order;
// the tie-break is deliberately unspecified.
func (s *Service) candidates(ctx context.Context) ([]Candidate, error) {
	origin, err := s.locator.Location(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve restaurant location: %w", err)
	}
	online, err := s.drivers.ListOnline(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, d := range online {
		if !d.Available() || !d.HasFix() {
			continue
		}
		dist := geo.HaversineKm(origin, d.Position())
		if dist > s.radiusKm {
			continue
		}
		candidates = append(candidates, Candidate{DriverID: d.ID, Distance: dist})
	}
	geo.SortByDistance(candidates, func(c Candidate) float64 { return c.Distance })
	return candidates, nil
}

func (s *Service) bound(ctx context.Context, orderID, driverID types.ID) {
	if s.events != nil {
		e := &order.Event{
			OrderID:   orderID,
			Type:      order.EventDriverAssigned,
			Message:   fmt.Sprintf("Driver %s assigned", driverID),
			CreatedAt: s.clock.Now(),
		}
		if err := s.events.Append(ctx, e); err != nil {
			log.Printf("dispatch: audit append failed for order %s: %v", orderID, err)
		}
	}
	s.notifier.NotifyUser(ctx, driverID, "New Delivery",
		fmt.Sprintf("You've been assigned order #%s", shortID(orderID)),
		map[string]string{"orderId": string(orderID)})
}

func shortID(id types.ID) string {
	s := string(id)
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return strings.ToUpper(s)
}
