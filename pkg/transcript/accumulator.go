// Package transcript accumulates streaming transcription deltas into
// finalized conversation turns with a bounded history.
package transcript

import (
	"strings"
	"sync"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerModel Speaker = "model"
)

// Turn is one finalized utterance.
type Turn struct {
	Speaker Speaker
	Text    string
}

// DefaultHistoryLimit bounds the retained turn history.
const DefaultHistoryLimit = 10

// Accumulator collects partial transcription text for the in-flight
// turn of each speaker and commits them into history on finalize. Safe
// for concurrent use.
type Accumulator struct {
	mu      sync.Mutex
	user    strings.Builder
	model   strings.Builder
	history []Turn
	limit   int
}

// NewAccumulator returns an accumulator keeping the last
// DefaultHistoryLimit turns.
func NewAccumulator() *Accumulator {
	return &Accumulator{limit: DefaultHistoryLimit}
}

// AddUser appends a user transcription delta verbatim.
func (a *Accumulator) AddUser(text string) {
	a.mu.Lock()
	a.user.WriteString(text)
	a.mu.Unlock()
}

// AddModel appends a model transcription delta verbatim.
func (a *Accumulator) AddModel(text string) {
	a.mu.Lock()
	a.model.WriteString(text)
	a.mu.Unlock()
}

// Finalize commits both in-flight partials as turns, user first, and
// returns the newly committed turns. Partials that trim to empty
// produce no turn. The in-flight state is cleared either way, and the
// history is truncated to its limit, dropping the oldest turns.
func (a *Accumulator) Finalize() []Turn {
	a.mu.Lock()
	defer a.mu.Unlock()

	var committed []Turn
	if text := strings.TrimSpace(a.user.String()); text != "" {
		committed = append(committed, Turn{Speaker: SpeakerUser, Text: text})
	}
	if text := strings.TrimSpace(a.model.String()); text != "" {
		committed = append(committed, Turn{Speaker: SpeakerModel, Text: text})
	}
	a.user.Reset()
	a.model.Reset()

	a.history = append(a.history, committed...)
	if len(a.history) > a.limit {
		a.history = a.history[len(a.history)-a.limit:]
	}
	return committed
}

// History returns a snapshot copy of the retained turns, oldest first.
func (a *Accumulator) History() []Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Turn, len(a.history))
	copy(out, a.history)
	return out
}
