package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/malgo"

	"github.com/veyralabs/mudra-live/pkg/audio"
)

// micSource captures microphone audio via malgo and delivers it in
// fixed-size normalized float32 blocks.
type micSource struct {
	device *malgo.Device

	mu      sync.Mutex
	pending []float32
	blocks  chan []float32
	once    sync.Once
}

func newMicSource(ctx malgo.Context, sampleRate int) (*micSource, error) {
	m := &micSource{
		blocks: make(chan []float32, 8),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			m.push(input)
		},
	}

	device, err := malgo.InitDevice(ctx, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("init microphone: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("start microphone: %w", err)
	}
	m.device = device
	return m, nil
}

// push accumulates raw f32le capture bytes and flushes full blocks.
// Runs on the malgo callback thread; a full channel drops the block
// rather than stalling capture.
func (m *micSource) push(input []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i+4 <= len(input); i += 4 {
		bits := binary.LittleEndian.Uint32(input[i:])
		m.pending = append(m.pending, math.Float32frombits(bits))
	}
	for len(m.pending) >= audio.DefaultBlockSize {
		block := make([]float32, audio.DefaultBlockSize)
		copy(block, m.pending[:audio.DefaultBlockSize])
		m.pending = m.pending[audio.DefaultBlockSize:]
		select {
		case m.blocks <- block:
		default:
		}
	}
}

func (m *micSource) Blocks() <-chan []float32 { return m.blocks }

func (m *micSource) Close() error {
	m.once.Do(func() {
		if m.device != nil {
			_ = m.device.Stop()
			m.device.Uninit()
		}
		close(m.blocks)
	})
	return nil
}

// speakerSink plays scheduled PCM through oto. The player pulls from
// the internal buffer via Read; Flush clears the buffer and resets the
// player so stale audio stops immediately.
type speakerSink struct {
	otoCtx *oto.Context

	mu      sync.Mutex
	player  *oto.Player
	buf     []byte
	cond    *sync.Cond
	playing bool
	closed  bool
}

func newSpeakerSink(cfg audio.Config) (*speakerSink, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   cfg.BytesFor(100 * time.Millisecond), // low latency
	}
	otoCtx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	<-ready

	s := &speakerSink{otoCtx: otoCtx}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

func (s *speakerSink) Write(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("speaker is closed")
	}
	s.buf = append(s.buf, pcm...)
	if !s.playing {
		s.playing = true
		s.player = s.otoCtx.NewPlayer(s)
		s.player.Play()
	}
	s.cond.Signal()
	return nil
}

// Read implements io.Reader for the oto player pull loop.
func (s *speakerSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed && len(s.buf) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

func (s *speakerSink) Flush() {
	s.mu.Lock()
	s.buf = s.buf[:0]
	if s.player != nil && s.playing {
		s.playing = false
		player := s.player
		s.player = nil
		s.mu.Unlock()

		// Pause before Reset so oto's own buffer is discarded too.
		player.Pause()
		player.Reset()
		player.Close()
		return
	}
	s.mu.Unlock()
}

func (s *speakerSink) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	player := s.player
	s.player = nil
	s.mu.Unlock()

	if player != nil {
		player.Close()
	}
}
