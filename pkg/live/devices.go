package live

import (
	"context"

	"github.com/veyralabs/mudra-live/pkg/audio"
	"github.com/veyralabs/mudra-live/pkg/frames"
)

// Devices is one acquired capture set. Camera may return nil when no
// video source exists; the session then streams audio only.
type Devices interface {
	Mic() audio.BlockSource
	Camera() frames.Source
	Close() error
}

// DeviceProvider acquires capture devices for one session run. Open
// fails when permission is denied or no device is present.
type DeviceProvider interface {
	Open(ctx context.Context) (Devices, error)
}
