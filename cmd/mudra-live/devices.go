package main

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/veyralabs/mudra-live/pkg/audio"
	"github.com/veyralabs/mudra-live/pkg/frames"
	"github.com/veyralabs/mudra-live/pkg/live"
)

// localDevices is one acquired microphone plus the optional
// still-frame camera stand-in.
type localDevices struct {
	malgoCtx *malgo.AllocatedContext
	mic      *micSource
	camera   frames.Source
}

func (d *localDevices) Mic() audio.BlockSource { return d.mic }
func (d *localDevices) Camera() frames.Source  { return d.camera }

func (d *localDevices) Close() error {
	err := d.mic.Close()
	_ = d.malgoCtx.Uninit()
	d.malgoCtx.Free()
	return err
}

// localProvider opens the host microphone and, when framesDir is set,
// a directory-backed frame source.
type localProvider struct {
	captureRate int
	framesDir   string
}

func (p *localProvider) Open(ctx context.Context) (live.Devices, error) {
	malgoConfig := malgo.ContextConfig{}
	malgoConfig.ThreadPriority = malgo.ThreadPriorityRealtime

	malgoCtx, err := malgo.InitContext(nil, malgoConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	mic, err := newMicSource(malgoCtx.Context, p.captureRate)
	if err != nil {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, err
	}

	d := &localDevices{malgoCtx: malgoCtx, mic: mic}
	if p.framesDir != "" {
		camera, err := newFrameDirSource(p.framesDir)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.camera = camera
	}
	return d, nil
}
