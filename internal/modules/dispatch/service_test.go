package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"samaha/internal/modules/driver"
	"samaha/internal/modules/order"
	"samaha/internal/types"
)

// Restaurant coordinates used across the dispatch tests.
var testOrigin = types.Point{Lat: 25.2048, Lng: 55.2708}

type fakeDirectory struct {
	online []*driver.Driver
	err    error
}

func (d *fakeDirectory) ListOnline(ctx context.Context) ([]*driver.Driver, error) {
	return d.online, d.err
}

type assignment struct {
	orderID  types.ID
	driverID types.ID
}

type fakeAssigner struct {
	mu       sync.Mutex
	busy     map[types.ID]bool
	assigned []assignment
	err      error
}

func (a *fakeAssigner) Assign(ctx context.Context, orderID, driverID types.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	if a.busy[driverID] {
		return ErrDriverBusy
	}
	a.assigned = append(a.assigned, assignment{orderID: orderID, driverID: driverID})
	return nil
}

type fakeLocator struct {
	point types.Point
	err   error
}

func (l *fakeLocator) Location(ctx context.Context) (types.Point, error) {
	return l.point, l.err
}

type push struct {
	userID      types.ID
	title, body string
}

type fakeNotifier struct {
	mu     sync.Mutex
	pushes []push
}

func (n *fakeNotifier) NotifyUser(ctx context.Context, userID types.ID, title, body string, data map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, push{userID: userID, title: title, body: body})
}

type fakeEvents struct {
	mu     sync.Mutex
	events []order.Event
}

func (e *fakeEvents) Append(ctx context.Context, ev *order.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, *ev)
	return nil
}

type dispatchFixture struct {
	svc       *Service
	directory *fakeDirectory
	assigner  *fakeAssigner
	notifier  *fakeNotifier
	events    *fakeEvents
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	f := &dispatchFixture{
		directory: &fakeDirectory{},
		assigner:  &fakeAssigner{busy: make(map[types.ID]bool)},
		notifier:  &fakeNotifier{},
		events:    &fakeEvents{},
	}
	clk := testclock.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	f.svc = NewService(f.directory, f.assigner, &fakeLocator{point: testOrigin}, f.notifier, f.events, 8.0, clk)
	return f
}

func onlineDriver(id types.ID, lat, lng float64) *driver.Driver {
	return &driver.Driver{ID: id, IsOnline: true, Lat: lat, Lng: lng}
}

func TestAutoDispatchPicksNearestDriver(t *testing.T) {
	f := newDispatchFixture(t)
	f.directory.online = []*driver.Driver{
		onlineDriver("far-ish", 25.2400, 55.3000), // ~4.9 km
		onlineDriver("nearest", 25.2100, 55.2750), // ~0.7 km
	}

	if err := f.svc.AutoDispatch(context.Background(), "order-1"); err != nil {
		t.Fatal(err)
	}
	if len(f.assigner.assigned) != 1 {
		t.Fatalf("assignments = %+v", f.assigner.assigned)
	}
	got := f.assigner.assigned[0]
	if got.driverID != "nearest" || got.orderID != "order-1" {
		t.Errorf("assigned %+v, want nearest/order-1", got)
	}

	if len(f.events.events) != 1 || f.events.events[0].Type != order.EventDriverAssigned {
		t.Errorf("events = %+v", f.events.events)
	}
	if len(f.notifier.pushes) != 1 || f.notifier.pushes[0].userID != "nearest" || f.notifier.pushes[0].title != "New Delivery" {
		t.Errorf("pushes = %+v", f.notifier.pushes)
	}
}

func TestAutoDispatchSkipsIneligibleDrivers(t *testing.T) {
	f := newDispatchFixture(t)
	busy := onlineDriver("busy", 25.2050, 55.2710)
	busy.ActiveOrderID = "other-order"
	noFix := onlineDriver("no-fix", 0, 0)
	f.directory.online = []*driver.Driver{
		busy,
		noFix,
		onlineDriver("outside", 25.3500, 55.4000), // ~20 km
		onlineDriver("eligible", 25.2200, 55.2800),
	}

	if err := f.svc.AutoDispatch(context.Background(), "order-1"); err != nil {
		t.Fatal(err)
	}
	if len(f.assigner.assigned) != 1 || f.assigner.assigned[0].driverID != "eligible" {
		t.Errorf("assignments = %+v, want only eligible", f.assigner.assigned)
	}
}

func TestAutoDispatchNoCandidatesIsSuccess(t *testing.T) {
	f := newDispatchFixture(t)
	f.directory.online = []*driver.Driver{
		onlineDriver("outside", 25.3500, 55.4000),
	}

	if err := f.svc.AutoDispatch(context.Background(), "order-1"); err != nil {
		t.Fatal(err)
	}
	if len(f.assigner.assigned) != 0 || len(f.notifier.pushes) != 0 {
		t.Error("no-candidate dispatch produced side effects")
	}
}

func TestAutoDispatchRetriesNextOnBusyConflict(t *testing.T) {
	f := newDispatchFixture(t)
	f.directory.online = []*driver.Driver{
		onlineDriver("nearest", 25.2100, 55.2750),
		onlineDriver("backup", 25.2200, 55.2800),
	}
	// The nearest driver looks free in the directory snapshot but loses the
	// assignment transaction to a concurrent dispatch.
	f.assigner.busy["nearest"] = true

	if err := f.svc.AutoDispatch(context.Background(), "order-1"); err != nil {
		t.Fatal(err)
	}
	if len(f.assigner.assigned) != 1 || f.assigner.assigned[0].driverID != "backup" {
		t.Errorf("assignments = %+v, want backup", f.assigner.assigned)
	}
}

func TestAutoDispatchAllBusyIsSuccess(t *testing.T) {
	f := newDispatchFixture(t)
	f.directory.online = []*driver.Driver{
		onlineDriver("a", 25.2100, 55.2750),
		onlineDriver("b", 25.2200, 55.2800),
	}
	f.assigner.busy["a"] = true
	f.assigner.busy["b"] = true

	if err := f.svc.AutoDispatch(context.Background(), "order-1"); err != nil {
		t.Fatal(err)
	}
	if len(f.assigner.assigned) != 0 {
		t.Errorf("assignments = %+v", f.assigner.assigned)
	}
}

func TestAutoDispatchRequiresOrderID(t *testing.T) {
	f := newDispatchFixture(t)
	if err := f.svc.AutoDispatch(context.Background(), ""); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestAssignSurfacesBusyDriver(t *testing.T) {
	f := newDispatchFixture(t)
	f.assigner.busy["drv-1"] = true

	err := f.svc.Assign(context.Background(), "order-1", "drv-1")
	if !errors.Is(err, ErrDriverBusy) {
		t.Fatalf("err = %v, want ErrDriverBusy", err)
	}
	if len(f.notifier.pushes) != 0 {
		t.Error("failed assignment still notified")
	}
}

func TestAssignNotifiesDriver(t *testing.T) {
	f := newDispatchFixture(t)
	if err := f.svc.Assign(context.Background(), "abcdef123456", "drv-1"); err != nil {
		t.Fatal(err)
	}
	if len(f.notifier.pushes) != 1 {
		t.Fatalf("pushes = %+v", f.notifier.pushes)
	}
	if want := "You've been assigned order #EF123456"; f.notifier.pushes[0].body != want {
		t.Errorf("body = %q, want %q", f.notifier.pushes[0].body, want)
	}
}
