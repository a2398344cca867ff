package gesture

import (
	"sync"
	"time"
)

// DefaultTTL is how long a validation stays displayed before it
// reverts to none.
const DefaultTTL = 5 * time.Second

// Tracker holds the single live validation. Setting a new one replaces
// the current validation and restarts the expiry window; when the
// window lapses the tracker reverts to none and notifies.
type Tracker struct {
	ttl      time.Duration
	onChange func(*Validation)

	mu      sync.Mutex
	current *Validation
	timer   *time.Timer
}

// NewTracker builds a tracker with the given expiry window (DefaultTTL
// when ttl <= 0). onChange fires on every transition, including the
// expiry back to nil; it may be nil.
func NewTracker(ttl time.Duration, onChange func(*Validation)) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{ttl: ttl, onChange: onChange}
}

// Set installs v as the live validation and restarts the expiry timer.
func (t *Tracker) Set(v *Validation) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = v
	t.timer = time.AfterFunc(t.ttl, t.expire)
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(v)
	}
}

// Current returns the live validation, or nil when none.
func (t *Tracker) Current() *Validation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Clear drops the live validation and its timer without notifying.
// Used on session teardown.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.current = nil
}

func (t *Tracker) expire() {
	t.mu.Lock()
	if t.current == nil {
		t.mu.Unlock()
		return
	}
	t.current = nil
	t.timer = nil
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(nil)
	}
}
