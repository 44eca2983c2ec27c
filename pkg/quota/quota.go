// Package quota bounds how many analyses an identity may run per window.
package quota

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of analyses allowed per window.
	DefaultLimit = 2
	// DefaultWindow is the rolling reset period.
	DefaultWindow = 24 * time.Hour
)

// Status reports an identity's standing within its current window.
type Status struct {
	Allowed   bool
	Used      int
	Remaining int
	Limit     int
}

type record struct {
	count       int
	windowStart time.Time
}

// Tracker is an in-memory, per-identity windowed usage counter. Entries are
// never evicted, only logically expired by timestamp comparison on access.
type Tracker struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	records map[string]*record
	now     func() time.Time
}

// New returns a tracker allowing limit analyses per window. Non-positive
// arguments fall back to the defaults.
func New(limit int, window time.Duration) *Tracker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		limit:   limit,
		window:  window,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Check reports whether the identity may run another analysis. A missing or
// expired record opens a fresh window with full allowance; opening the window
// is Check's only mutation, it never consumes allowance.
func (t *Tracker) Check(identity string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.check(identity)
}

// Record consumes one unit of allowance in the identity's current window,
// opening a fresh window first if the previous one has expired.
func (t *Tracker) Record(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fresh(identity).count++
}

// Acquire atomically performs Check and, when allowed, Record. Callers that
// need strict enforcement under concurrent requests from one identity should
// use Acquire instead of the two-step Check/Record.
func (t *Tracker) Acquire(identity string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := t.check(identity)
	if status.Allowed {
		t.fresh(identity).count++
		status.Used++
		status.Remaining--
	}
	return status
}

// Reset drops the identity's record entirely. Admin use only.
func (t *Tracker) Reset(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, identity)
}

// Used returns the identity's consumed count within the current window.
func (t *Tracker) Used(identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identity]
	if !ok || t.expired(rec) {
		return 0
	}
	return rec.count
}

// Limit returns the per-window allowance.
func (t *Tracker) Limit() int {
	return t.limit
}

func (t *Tracker) check(identity string) Status {
	rec := t.fresh(identity)
	remaining := t.limit - rec.count
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Allowed:   remaining > 0,
		Used:      rec.count,
		Remaining: remaining,
		Limit:     t.limit,
	}
}

// fresh returns the identity's record for the current window, opening a new
// window epoch when there is no record or the existing one has expired.
// Callers must hold t.mu.
func (t *Tracker) fresh(identity string) *record {
	rec, ok := t.records[identity]
	if !ok || t.expired(rec) {
		rec = &record{windowStart: t.now()}
		t.records[identity] = rec
	}
	return rec
}

func (t *Tracker) expired(rec *record) bool {
	return t.now().Sub(rec.windowStart) > t.window
}
