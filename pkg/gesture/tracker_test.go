package gesture

import (
	"sync"
	"testing"
	"time"
)

func TestTrackerExpires(t *testing.T) {
	var mu sync.Mutex
	var changes []*Validation
	tr := NewTracker(40*time.Millisecond, func(v *Validation) {
		mu.Lock()
		changes = append(changes, v)
		mu.Unlock()
	})
	defer tr.Clear()

	tr.Set(&Validation{Name: "gyan"})
	if tr.Current() == nil {
		t.Fatal("expected live validation immediately after Set")
	}

	time.Sleep(100 * time.Millisecond)
	if tr.Current() != nil {
		t.Error("validation should have expired")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 2 {
		t.Fatalf("got %d change callbacks, want 2", len(changes))
	}
	if changes[0] == nil || changes[0].Name != "gyan" {
		t.Errorf("first change = %+v, want gyan", changes[0])
	}
	if changes[1] != nil {
		t.Errorf("second change = %+v, want nil (expiry)", changes[1])
	}
}

func TestTrackerReplacementRestartsWindow(t *testing.T) {
	tr := NewTracker(80*time.Millisecond, nil)
	defer tr.Clear()

	tr.Set(&Validation{Name: "anjali"})
	time.Sleep(50 * time.Millisecond)
	tr.Set(&Validation{Name: "dhyana"})
	time.Sleep(50 * time.Millisecond)

	// 100ms after the first Set, but only 50ms after the replacement:
	// the replacement must still be live.
	v := tr.Current()
	if v == nil || v.Name != "dhyana" {
		t.Fatalf("current = %+v, want dhyana still live", v)
	}

	time.Sleep(60 * time.Millisecond)
	if tr.Current() != nil {
		t.Error("replacement should have expired by now")
	}
}

func TestTrackerClearIsSilent(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	tr := NewTracker(time.Hour, func(*Validation) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	tr.Set(&Validation{Name: "prana"})
	tr.Clear()
	if tr.Current() != nil {
		t.Error("Clear should drop the validation")
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("onChange fired %d times, want 1 (Set only)", calls)
	}
}

func TestTrackerDefaultTTL(t *testing.T) {
	tr := NewTracker(0, nil)
	if tr.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", tr.ttl, DefaultTTL)
	}
}
