// Package frames samples still frames from a video source on a fixed
// timer and emits them as compressed image chunks.
package frames

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log/slog"
	"time"

	"github.com/veyralabs/mudra-live/pkg/media"
)

const (
	DefaultInterval = time.Second
	DefaultQuality  = 60
)

// Source grabs the current frame from a live video device.
type Source interface {
	Grab() (image.Image, error)
}

// Sampler ticks at a fixed interval, grabs one frame, JPEG-compresses
// it, and emits it. A tick that fails to grab or compress is skipped
// silently; the next tick proceeds normally.
type Sampler struct {
	interval time.Duration
	quality  int
	src      Source
	emit     func(media.Chunk)
	onSkip   func()
	logger   *slog.Logger
}

// NewSampler builds a sampler. interval <= 0 and quality <= 0 fall
// back to the defaults. onSkip is optional and fires once per skipped
// tick.
func NewSampler(src Source, interval time.Duration, quality int, emit func(media.Chunk), onSkip func(), logger *slog.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if quality <= 0 {
		quality = DefaultQuality
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		interval: interval,
		quality:  quality,
		src:      src,
		emit:     emit,
		onSkip:   onSkip,
		logger:   logger,
	}
}

// Run ticks until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Sampler) sample() {
	img, err := s.src.Grab()
	if err != nil {
		s.skip("grab", err)
		return
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		s.skip("encode", err)
		return
	}
	s.emit(media.Image(buf.Bytes(), "image/jpeg"))
}

func (s *Sampler) skip(stage string, err error) {
	s.logger.Debug("skipping frame tick", "stage", stage, "error", err)
	if s.onSkip != nil {
		s.onSkip()
	}
}
