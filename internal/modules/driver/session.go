// README: Tracking sessions — an owned start/stop resource per online driver
// that enforces the location reporting cadence.
package driver

import (
	"sync"
	"time"

	"samaha/internal/types"
)

const (
	// Reporting cadence: frequent while delivering, battery-saving when idle.
	reportIntervalDelivering = 4 * time.Second
	reportIntervalIdle       = 12 * time.Second
)

// session tracks one online driver's reporting state. It exists from the
// moment the driver goes online until they go offline; updates arriving
// faster than the cadence are dropped as no-ops.
type session struct {
	driverID   types.ID
	startedAt  time.Time
	lastReport time.Time
	delivering bool
}

func (s *session) minInterval() time.Duration {
	if s.delivering {
		return reportIntervalDelivering
	}
	return reportIntervalIdle
}

// accept reports whether an update at now passes the cadence gate, recording
// it if so.
func (s *session) accept(now time.Time, delivering bool) bool {
	s.delivering = delivering
	if !s.lastReport.IsZero() && now.Sub(s.lastReport) < s.minInterval() {
		return false
	}
	s.lastReport = now
	return true
}

// sessionRegistry owns all live tracking sessions.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[types.ID]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[types.ID]*session)}
}

func (r *sessionRegistry) start(id types.ID, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		return
	}
	r.sessions[id] = &session{driverID: id, startedAt: now}
}

func (r *sessionRegistry) stop(id types.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *sessionRegistry) get(id types.ID) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}
