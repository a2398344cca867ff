// Package playback schedules model audio buffers onto a sink so they
// play back-to-back with no gaps, and supports immediate interruption
// when the model is barged in on.
package playback

import (
	"sync"
	"time"

	"github.com/veyralabs/mudra-live/pkg/audio"
)

// Sink receives PCM at its scheduled start time. Write is called from
// timer goroutines; implementations must be safe for concurrent use.
// Flush discards anything the sink has buffered but not yet played.
type Sink interface {
	Write(pcm []byte) error
	Flush()
}

// Handle tracks one scheduled buffer.
type Handle struct {
	StartAt time.Time
	EndAt   time.Time

	start *time.Timer
	done  *time.Timer
}

// Scheduler lays audio buffers end to end on a single timeline. Each
// buffer starts at the later of "now" and the previous buffer's end,
// so uninterrupted model speech plays gaplessly while a fresh turn
// starts immediately.
type Scheduler struct {
	cfg  audio.Config
	sink Sink
	now  func() time.Time

	mu        sync.Mutex
	nextStart time.Time
	handles   map[*Handle]struct{}
	stopped   bool
}

// NewScheduler builds a scheduler writing cfg-shaped PCM to sink.
func NewScheduler(cfg audio.Config, sink Sink) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		sink:    sink,
		now:     time.Now,
		handles: make(map[*Handle]struct{}),
	}
}

// Schedule queues one PCM buffer for playback. The returned handle
// reports the chosen start and end times. Empty buffers and calls
// after Stop return nil.
func (s *Scheduler) Schedule(pcm []byte) *Handle {
	if len(pcm) == 0 {
		return nil
	}
	d := s.cfg.Duration(len(pcm))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}

	startAt := s.now()
	if s.nextStart.After(startAt) {
		startAt = s.nextStart
	}
	h := &Handle{StartAt: startAt, EndAt: startAt.Add(d)}
	s.nextStart = h.EndAt
	s.handles[h] = struct{}{}

	h.start = time.AfterFunc(startAt.Sub(s.now()), func() {
		s.sink.Write(pcm)
	})
	h.done = time.AfterFunc(h.EndAt.Sub(s.now()), func() {
		s.mu.Lock()
		delete(s.handles, h)
		s.mu.Unlock()
	})
	return h
}

// Interrupt cancels everything queued but not finished, resets the
// timeline to now, and flushes the sink so buffered audio stops
// immediately.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	s.cancelLocked()
	s.nextStart = s.now()
	s.mu.Unlock()
	s.sink.Flush()
}

// Stop interrupts playback and rejects further scheduling. Safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cancelLocked()
	s.mu.Unlock()
	s.sink.Flush()
}

// Pending reports how many buffers are queued or playing and how much
// scheduled audio remains from now until the timeline's end.
func (s *Scheduler) Pending() (int, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.nextStart.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return len(s.handles), remaining
}

func (s *Scheduler) cancelLocked() {
	for h := range s.handles {
		h.start.Stop()
		h.done.Stop()
	}
	s.handles = make(map[*Handle]struct{})
}
