package order

import (
	"context"
	"testing"
	"time"

	"samaha/internal/types"
)

func waitForStatus(t *testing.T, store *fakeStore, id types.ID, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.status(t, id) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("order %s never reached %s (at %s)", id, want, store.status(t, id))
}

func TestSweeperCancelsStaleReceivedOrders(t *testing.T) {
	f := newServiceFixture(t)
	now := f.clock.Now()

	stale := f.seed(t, &Order{CustomerID: "c1", Status: StatusReceived,
		Timestamps: Timestamps{CreatedAt: now.Add(-3 * time.Hour)}})
	fresh := f.seed(t, &Order{CustomerID: "c2", Status: StatusReceived,
		Timestamps: Timestamps{CreatedAt: now.Add(-10 * time.Minute)}})
	preparing := f.seed(t, &Order{CustomerID: "c3", Status: StatusPreparing,
		Timestamps: Timestamps{CreatedAt: now.Add(-5 * time.Hour)}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.svc.RunStaleSweeper(ctx, 30*time.Minute, 2*time.Hour)
	}()

	if err := f.clock.WaitAdvance(30*time.Minute, time.Second, 1); err != nil {
		t.Fatal(err)
	}

	waitForStatus(t, f.store, stale, StatusCancelled)
	if got := f.store.status(t, fresh); got != StatusReceived {
		t.Errorf("fresh order swept: %s", got)
	}
	if got := f.store.status(t, preparing); got != StatusPreparing {
		t.Errorf("in-progress order swept: %s", got)
	}

	cancel()
	<-done
}

func TestSweeperNotifiesOnForcedCancel(t *testing.T) {
	f := newServiceFixture(t)
	now := f.clock.Now()
	stale := f.seed(t, &Order{CustomerID: "c1", Status: StatusReceived,
		Timestamps: Timestamps{CreatedAt: now.Add(-4 * time.Hour)}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.svc.RunStaleSweeper(ctx, 30*time.Minute, 2*time.Hour)
	}()

	if err := f.clock.WaitAdvance(30*time.Minute, time.Second, 1); err != nil {
		t.Fatal(err)
	}
	waitForStatus(t, f.store, stale, StatusCancelled)
	cancel()
	<-done

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	if len(f.notifier.users) != 1 || f.notifier.users[0].title != "Order Cancelled" {
		t.Errorf("user pushes = %+v", f.notifier.users)
	}
}
