// README: Stale-order sweeper — periodically force-cancels orders stuck in
// RECEIVED past the staleness threshold.
package order

import (
	"context"
	"log"
	"time"
)

// RunStaleSweeper cancels stale orders on a fixed period until ctx is
// cancelled. Each order is handled independently: a failed cancellation is
// logged and retried naturally on the next run.
func (s *Service) RunStaleSweeper(ctx context.Context, interval, staleThreshold time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(interval):
			s.sweepOnce(ctx, staleThreshold)
		}
	}
}

func (s *Service) sweepOnce(ctx context.Context, staleThreshold time.Duration) {
	cutoff := s.clock.Now().Add(-staleThreshold)
	stale, err := s.store.ListStale(ctx, cutoff)
	if err != nil {
		log.Printf("sweeper: listing stale orders failed: %v", err)
		return
	}

	cancelled := 0
	for _, o := range stale {
		if err := s.Cancel(ctx, CancelCommand{OrderID: o.ID, Reason: "stale"}); err != nil {
			log.Printf("sweeper: cancelling order %s failed: %v", o.ID, err)
			continue
		}
		cancelled++
	}
	if len(stale) > 0 {
		log.Printf("sweeper: auto-cancelled %d/%d stale orders", cancelled, len(stale))
	}
}
