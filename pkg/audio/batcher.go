package audio

import (
	"context"
	"log/slog"

	"github.com/veyralabs/mudra-live/pkg/media"
)

// BlockSource delivers capture blocks of mono float32 samples. Blocks
// stops yielding when the source is closed.
type BlockSource interface {
	Blocks() <-chan []float32
	Close() error
}

// Batcher drains a BlockSource, downsamples each block to the send
// rate, encodes it as s16le PCM, and hands the result to the emit
// callback as an audio chunk.
type Batcher struct {
	down    *Downsampler
	emit    func(media.Chunk)
	onLevel func(float64)
	logger  *slog.Logger
}

// NewBatcher wires a capture-to-upstream audio path. onLevel is
// optional; when set it receives the RMS level of every encoded block.
func NewBatcher(down *Downsampler, emit func(media.Chunk), onLevel func(float64), logger *slog.Logger) *Batcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Batcher{down: down, emit: emit, onLevel: onLevel, logger: logger}
}

// Run consumes blocks until ctx is cancelled or the source channel
// closes. Blocks that fail to resample are dropped and logged; the
// stream keeps flowing.
func (b *Batcher) Run(ctx context.Context, src BlockSource) {
	for {
		select {
		case <-ctx.Done():
			return
		case block, ok := <-src.Blocks():
			if !ok {
				return
			}
			b.process(block)
		}
	}
}

func (b *Batcher) process(block []float32) {
	if len(block) == 0 {
		return
	}
	samples, err := b.down.Process(block)
	if err != nil {
		b.logger.Warn("dropping capture block", "error", err)
		return
	}
	if len(samples) == 0 {
		return
	}
	pcm := EncodePCM16(samples)
	if b.onLevel != nil {
		b.onLevel(RMSLevel(pcm))
	}
	b.emit(media.Audio(pcm, b.down.OutputRate()))
}
