package live

import "errors"

var (
	// ErrDeviceUnavailable means capture devices could not be acquired.
	ErrDeviceUnavailable = errors.New("capture devices unavailable")

	// ErrChannelOpenFailed means the remote refused the connection.
	ErrChannelOpenFailed = errors.New("channel open failed")

	// ErrAlreadyStarted means Start was called outside the idle state.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNotActive means an operation requires an active session.
	ErrNotActive = errors.New("session not active")

	// ErrStopped means Stop ran while Start was still acquiring
	// devices or opening the channel, so the start was abandoned.
	ErrStopped = errors.New("session stopped during start")
)
