// README: Driver service — presence toggling, cadence-gated location
// reporting, and ETA lookups.
package driver

import (
	"context"
	"errors"

	"github.com/juju/clock"

	"samaha/internal/geo"
	"samaha/internal/types"
)

var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotTracking = errors.New("driver has no active tracking session")
	ErrNoFix       = errors.New("driver has not reported a position")
)

type Service struct {
	store    Store
	clock    clock.Clock
	sessions *sessionRegistry
}

func NewService(store Store, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Service{
		store:    store,
		clock:    clk,
		sessions: newSessionRegistry(),
	}
}

// SetOnline flips driver availability. Going online opens a tracking session;
// going offline closes it and drops the driver from the live geo index.
func (s *Service) SetOnline(ctx context.Context, id types.ID, online bool) error {
	if id == "" {
		return ErrBadRequest
	}
	now := s.clock.Now()
	if err := s.store.SetOnline(ctx, id, online, now); err != nil {
		return err
	}
	if online {
		s.sessions.start(id, now)
	} else {
		s.sessions.stop(id)
	}
	return nil
}

type LocationUpdate struct {
	DriverID   types.ID
	Lat, Lng   float64
	Heading    float64
	Speed      float64
	Delivering bool
}

// ReportLocation records a position report. Updates arriving faster than the
// session cadence are accepted=false no-ops; the client is expected to keep
// its own timer but the server enforces the floor.
func (s *Service) ReportLocation(ctx context.Context, u LocationUpdate) (accepted bool, err error) {
	if u.DriverID == "" {
		return false, ErrBadRequest
	}
	sess := s.sessions.get(u.DriverID)
	if sess == nil {
		return false, ErrNotTracking
	}
	now := s.clock.Now()
	if !sess.accept(now, u.Delivering) {
		return false, nil
	}
	if err := s.store.UpdateLocation(ctx, u.DriverID, u.Lat, u.Lng, u.Heading, u.Speed, now); err != nil {
		return false, err
	}
	return true, nil
}

// ETAToPoint estimates minutes from the driver's last fix to dest at the
// fixed city average speed.
func (s *Service) ETAToPoint(ctx context.Context, id types.ID, dest types.Point) (int, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !d.HasFix() {
		return 0, ErrNoFix
	}
	distKm := geo.HaversineKm(d.Position(), dest)
	return geo.EstimateETAMinutes(distKm), nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	return s.store.Get(ctx, id)
}

// ListOnline returns all online drivers. Used by the dispatch engine.
func (s *Service) ListOnline(ctx context.Context) ([]*Driver, error) {
	return s.store.ListOnline(ctx)
}

// ClearActiveOrder implements the order module's DriverSlots dependency.
func (s *Service) ClearActiveOrder(ctx context.Context, id types.ID) error {
	return s.store.ClearActiveOrder(ctx, id)
}
