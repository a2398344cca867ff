package live

import (
	"github.com/veyralabs/mudra-live/pkg/gesture"
	"github.com/veyralabs/mudra-live/pkg/transcript"
)

// Event is anything the session surfaces to its consumer: state
// changes, committed turns, gesture updates, and errors.
type Event interface {
	EventType() string
}

// StateChangedEvent reports a lifecycle transition.
type StateChangedEvent struct {
	From State
	To   State
}

func (StateChangedEvent) EventType() string { return "state_changed" }

// SessionStartedEvent fires once the channel is open and capture is
// running.
type SessionStartedEvent struct {
	SessionID string
	Target    string
}

func (SessionStartedEvent) EventType() string { return "session_started" }

// TurnCommittedEvent carries one finalized transcript turn.
type TurnCommittedEvent struct {
	Turn transcript.Turn
}

func (TurnCommittedEvent) EventType() string { return "turn_committed" }

// TranscriptDeltaEvent carries one streamed transcript fragment before
// its turn completes.
type TranscriptDeltaEvent struct {
	Speaker transcript.Speaker
	Text    string
}

func (TranscriptDeltaEvent) EventType() string { return "transcript_delta" }

// GestureChangedEvent reports the live validation changing. Validation
// is nil when the previous one expired.
type GestureChangedEvent struct {
	Validation *gesture.Validation
}

func (GestureChangedEvent) EventType() string { return "gesture_changed" }

// InputLevelEvent reports the RMS level of the latest outbound audio
// chunk.
type InputLevelEvent struct {
	RMS float64
}

func (InputLevelEvent) EventType() string { return "input_level" }

// PlaybackInterruptedEvent fires when the remote cuts off its own
// utterance and queued playback is flushed.
type PlaybackInterruptedEvent struct{}

func (PlaybackInterruptedEvent) EventType() string { return "playback_interrupted" }

// ErrorEvent surfaces a human-readable failure.
type ErrorEvent struct {
	Code    string
	Message string
}

func (ErrorEvent) EventType() string { return "error" }

// CredentialInvalidEvent signals the API key must be re-selected
// before another start can succeed.
type CredentialInvalidEvent struct{}

func (CredentialInvalidEvent) EventType() string { return "credential_invalid" }

// SessionClosedEvent fires when teardown completes and the session is
// back to idle.
type SessionClosedEvent struct {
	Reason string
}

func (SessionClosedEvent) EventType() string { return "session_closed" }
