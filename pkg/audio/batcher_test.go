package audio

import (
	"context"
	"testing"
	"time"

	"github.com/veyralabs/mudra-live/pkg/media"
)

type chanSource struct {
	ch chan []float32
}

func (s *chanSource) Blocks() <-chan []float32 { return s.ch }
func (s *chanSource) Close() error             { close(s.ch); return nil }

func TestBatcherPassthrough(t *testing.T) {
	down, err := NewDownsampler(16000, 16000)
	if err != nil {
		t.Fatal(err)
	}

	var chunks []media.Chunk
	var levels []float64
	emitted := make(chan struct{}, 4)
	b := NewBatcher(down, func(c media.Chunk) {
		chunks = append(chunks, c)
		emitted <- struct{}{}
	}, func(l float64) {
		levels = append(levels, l)
	}, nil)

	src := &chanSource{ch: make(chan []float32, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		b.Run(ctx, src)
		close(done)
	}()

	src.ch <- []float32{0.5, -0.5, 0.5, -0.5}
	src.ch <- nil // empty block is skipped

	select {
	case <-emitted:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for chunk")
	}
	src.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after source close")
	}

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	c := chunks[0]
	if c.Kind != media.KindAudio {
		t.Errorf("kind = %v, want audio", c.Kind)
	}
	if c.MIMEType != "audio/pcm;rate=16000" {
		t.Errorf("mime = %q", c.MIMEType)
	}
	if len(c.Data) != 8 {
		t.Errorf("data len = %d, want 8", len(c.Data))
	}
	if len(levels) != 1 || levels[0] < 0.45 || levels[0] > 0.55 {
		t.Errorf("levels = %v, want one value near 0.5", levels)
	}
}

func TestBatcherStopsOnCancel(t *testing.T) {
	down, _ := NewDownsampler(16000, 16000)
	b := NewBatcher(down, func(media.Chunk) {}, nil, nil)
	src := &chanSource{ch: make(chan []float32)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx, src)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDownsamplerPassthroughReturnsInput(t *testing.T) {
	down, err := NewDownsampler(24000, 24000)
	if err != nil {
		t.Fatal(err)
	}
	in := []float32{0.1, 0.2}
	out, err := down.Process(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != 0.1 || out[1] != 0.2 {
		t.Errorf("passthrough altered samples: %v", out)
	}
}

func TestNewDownsamplerRejectsBadRates(t *testing.T) {
	if _, err := NewDownsampler(0, 16000); err == nil {
		t.Error("expected error for zero input rate")
	}
	if _, err := NewDownsampler(48000, -1); err == nil {
		t.Error("expected error for negative output rate")
	}
}
