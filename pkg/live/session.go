// Package live orchestrates one realtime session: capture devices and
// the frame sampler feed the bidirectional channel, and inbound frames
// drive playback, the transcript, and gesture validation.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/veyralabs/mudra-live/pkg/audio"
	"github.com/veyralabs/mudra-live/pkg/frames"
	"github.com/veyralabs/mudra-live/pkg/gemini"
	"github.com/veyralabs/mudra-live/pkg/gesture"
	"github.com/veyralabs/mudra-live/pkg/media"
	"github.com/veyralabs/mudra-live/pkg/metrics"
	"github.com/veyralabs/mudra-live/pkg/playback"
	"github.com/veyralabs/mudra-live/pkg/transcript"
)

const sendRate = 16000

// Channel is the bidirectional link to the remote model.
type Channel interface {
	Messages() <-chan gemini.ServerMessage
	SendRealtime(chunks ...media.Chunk) error
	SendText(text string) error
	Close() error
	Err() error
}

// ChannelDialer opens a Channel. The default dials the Gemini Live
// endpoint.
type ChannelDialer func(ctx context.Context, cfg gemini.Config) (Channel, error)

func defaultDialer(ctx context.Context, cfg gemini.Config) (Channel, error) {
	return gemini.Connect(ctx, cfg)
}

// run bundles the per-start resources so one teardown path releases
// everything exactly once regardless of who triggers it.
type run struct {
	cancel    context.CancelFunc
	channel   Channel
	devices   Devices
	scheduler *playback.Scheduler
	acc       *transcript.Accumulator
	tracker   *gesture.Tracker
	teardown  sync.Once
}

// Session is the single live session of the application. A stopped
// session returns to idle and can be started again.
type Session struct {
	cfg      *Config
	apiKey   string
	provider DeviceProvider

	dialer  ChannelDialer
	sink    playback.Sink
	logger  *slog.Logger
	metrics *metrics.Metrics

	events chan Event

	mu        sync.Mutex
	state     State
	target    string
	sessionID string
	startGen  uint64
	cur       *run
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithSink sets the playback sink model audio is written to. Without
// it, decoded audio is discarded.
func WithSink(sink playback.Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithMetrics sets the instrumentation set. Without it, metrics land
// on a private registry nothing scrapes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithDialer overrides how the channel is opened, mainly for tests.
func WithDialer(d ChannelDialer) Option {
	return func(s *Session) { s.dialer = d }
}

// NewSession builds an idle session.
func NewSession(cfg *Config, apiKey string, provider DeviceProvider, opts ...Option) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Session{
		cfg:      cfg,
		apiKey:   apiKey,
		provider: provider,
		dialer:   defaultDialer,
		sink:     discardSink{},
		events:   make(chan Event, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	return s
}

// Events yields session events. The channel is never closed; it drops
// events when the consumer falls behind.
func (s *Session) Events() <-chan Event { return s.events }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Target returns the active challenge target, if one was supplied to
// Start.
func (s *Session) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// History returns the committed transcript turns of the current run,
// oldest first. Empty when idle.
func (s *Session) History() []transcript.Turn {
	s.mu.Lock()
	r := s.cur
	s.mu.Unlock()
	if r == nil {
		return nil
	}
	return r.acc.History()
}

// CurrentGesture returns the live validation, or nil.
func (s *Session) CurrentGesture() *gesture.Validation {
	s.mu.Lock()
	r := s.cur
	s.mu.Unlock()
	if r == nil {
		return nil
	}
	return r.tracker.Current()
}

// Start acquires devices, opens the channel, and begins streaming.
// Valid only from idle. target optionally labels the challenge the
// user is attempting; it is recorded, not enforced.
func (s *Session) Start(ctx context.Context, target string) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.startGen++
	gen := s.startGen
	s.setStateLocked(StateConnecting)
	s.mu.Unlock()

	devices, err := s.provider.Open(ctx)
	if err != nil {
		s.failStart("device_unavailable", err.Error())
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	channel, err := s.dialer(ctx, gemini.Config{
		APIKey:            s.apiKey,
		Model:             s.cfg.Model,
		Voice:             s.cfg.Voice,
		SystemInstruction: s.cfg.Persona,
		Logger:            s.logger,
	})
	if err != nil {
		_ = devices.Close()
		if gemini.IsCredentialError(err) {
			s.emit(CredentialInvalidEvent{})
		}
		s.failStart("channel_open_failed", err.Error())
		return fmt.Errorf("%w: %v", ErrChannelOpenFailed, err)
	}

	down, err := audio.NewDownsampler(s.cfg.CaptureRate, sendRate)
	if err != nil {
		_ = channel.Close()
		_ = devices.Close()
		s.failStart("device_unavailable", err.Error())
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &run{
		cancel:    cancel,
		channel:   channel,
		devices:   devices,
		scheduler: playback.NewScheduler(audio.DefaultPlaybackConfig(), s.sink),
		acc:       transcript.NewAccumulator(),
	}
	r.tracker = gesture.NewTracker(gesture.DefaultTTL, func(v *gesture.Validation) {
		s.emit(GestureChangedEvent{Validation: v})
	})

	batcher := audio.NewBatcher(down, func(c media.Chunk) {
		if err := channel.SendRealtime(c); err != nil {
			s.logger.Warn("dropping audio chunk", "error", err)
			return
		}
		s.metrics.AudioChunksSent.Inc()
	}, func(level float64) {
		s.metrics.InputLevel.Set(level)
		s.emit(InputLevelEvent{RMS: level})
	}, s.logger)

	var sampler *frames.Sampler
	if cam := devices.Camera(); cam != nil {
		sampler = frames.NewSampler(cam, s.cfg.FrameInterval(), s.cfg.JPEGQuality, func(c media.Chunk) {
			if err := channel.SendRealtime(c); err != nil {
				s.logger.Warn("dropping frame", "error", err)
				return
			}
			s.metrics.FramesSent.Inc()
		}, s.metrics.FramesSkipped.Inc, s.logger)
	}

	s.mu.Lock()
	// Stop may have run while Open or the dialer was in flight, in
	// which case this start is dead: release what it acquired and
	// leave the session idle instead of resurrecting it.
	if s.state != StateConnecting || s.startGen != gen {
		s.mu.Unlock()
		cancel()
		r.tracker.Clear()
		_ = channel.Close()
		_ = devices.Close()
		return ErrStopped
	}
	s.cur = r
	s.target = target
	s.sessionID = uuid.NewString()
	id := s.sessionID
	s.setStateLocked(StateActive)
	s.mu.Unlock()

	go batcher.Run(runCtx, devices.Mic())
	if sampler != nil {
		go sampler.Run(runCtx)
	}
	go s.dispatchLoop(runCtx, r)

	s.logger.Info("session started", "session_id", id, "target", target, "model", s.cfg.Model)
	s.emit(SessionStartedEvent{SessionID: id, Target: target})
	return nil
}

// SendPrompt enqueues a typed user message. Valid only while active.
func (s *Session) SendPrompt(text string) error {
	s.mu.Lock()
	r := s.cur
	active := s.state == StateActive
	s.mu.Unlock()
	if !active || r == nil {
		return ErrNotActive
	}
	return r.channel.SendText(text)
}

// Stop tears the session down and returns it to idle. Calling it
// while already idle is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	r := s.cur
	s.setStateLocked(StateClosing)
	s.mu.Unlock()
	s.teardown(r, "stopped")
}

// failStart reverts a failed Start back to idle.
func (s *Session) failStart(code, msg string) {
	s.mu.Lock()
	s.setStateLocked(StateIdle)
	s.mu.Unlock()
	s.emit(ErrorEvent{Code: code, Message: msg})
}

// teardown is the single converging cleanup path for stop, remote
// close, and fatal errors. Idempotent per run.
func (s *Session) teardown(r *run, reason string) {
	if r == nil {
		s.mu.Lock()
		s.target = ""
		s.sessionID = ""
		s.setStateLocked(StateIdle)
		s.mu.Unlock()
		s.logger.Info("session closed", "reason", reason)
		s.emit(SessionClosedEvent{Reason: reason})
		return
	}
	r.teardown.Do(func() {
		r.cancel()
		_ = r.channel.Close()
		r.scheduler.Stop()
		r.tracker.Clear()
		_ = r.devices.Close()

		s.mu.Lock()
		if s.cur == r {
			s.cur = nil
			s.target = ""
			s.sessionID = ""
		}
		s.setStateLocked(StateIdle)
		s.mu.Unlock()

		s.logger.Info("session closed", "reason", reason)
		s.emit(SessionClosedEvent{Reason: reason})
	})
}

func (s *Session) dispatchLoop(ctx context.Context, r *run) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-r.channel.Messages():
			if !ok {
				s.handleDisconnect(r)
				return
			}
			s.handleMessage(r, msg)
		}
	}
}

func (s *Session) handleMessage(r *run, msg gemini.ServerMessage) {
	if msg.GoAway != nil {
		s.logger.Warn("server announced disconnect", "time_left", msg.GoAway.TimeLeft)
		return
	}
	sc := msg.ServerContent
	if sc == nil {
		return
	}

	if pcm, err := sc.Audio(); err != nil {
		s.logger.Warn("dropping audio frame", "error", err)
	} else if len(pcm) > 0 {
		if r.scheduler.Schedule(pcm) != nil {
			s.metrics.BuffersScheduled.Inc()
		}
		n, _ := r.scheduler.Pending()
		s.metrics.PendingPlayback.Set(float64(n))
	}

	if sc.Interrupted {
		r.scheduler.Interrupt()
		s.metrics.Interrupts.Inc()
		s.metrics.PendingPlayback.Set(0)
		s.emit(PlaybackInterruptedEvent{})
	}

	if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
		r.acc.AddUser(sc.InputTranscription.Text)
		s.emit(TranscriptDeltaEvent{Speaker: transcript.SpeakerUser, Text: sc.InputTranscription.Text})
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		r.acc.AddModel(sc.OutputTranscription.Text)
		s.emit(TranscriptDeltaEvent{Speaker: transcript.SpeakerModel, Text: sc.OutputTranscription.Text})
	}

	if sc.TurnComplete {
		turns := r.acc.Finalize()
		for _, turn := range turns {
			s.metrics.TurnsFinalized.Inc()
			s.emit(TurnCommittedEvent{Turn: turn})
			if turn.Speaker == transcript.SpeakerModel {
				if v := gesture.Validate(turn.Text); v != nil {
					s.metrics.GesturesValidated.Inc()
					r.tracker.Set(v)
				}
			}
		}
	}
}

// handleDisconnect runs when the message channel closes underneath an
// active session: a clean remote close goes straight to teardown, a
// transport failure additionally surfaces an error.
func (s *Session) handleDisconnect(r *run) {
	err := r.channel.Err()
	if err == nil {
		s.mu.Lock()
		if s.state == StateActive {
			s.setStateLocked(StateClosing)
		}
		s.mu.Unlock()
		s.teardown(r, "remote_closed")
		return
	}

	s.mu.Lock()
	if s.state == StateActive {
		s.setStateLocked(StateErrorClosing)
	}
	s.mu.Unlock()

	s.metrics.TransportErrors.Inc()
	if gemini.IsCredentialError(err) {
		s.emit(CredentialInvalidEvent{})
		s.emit(ErrorEvent{Code: "credential_invalid", Message: err.Error()})
	} else {
		s.emit(ErrorEvent{Code: "transport_error", Message: err.Error()})
	}
	s.teardown(r, "transport_error")
}

// setStateLocked requires s.mu held.
func (s *Session) setStateLocked(to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	s.logger.Debug("state changed", "from", from, "to", to)
	s.emit(StateChangedEvent{From: from, To: to})
}

// emit never blocks: a slow consumer loses events rather than stalling
// the pipeline.
func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
	}
}

type discardSink struct{}

func (discardSink) Write([]byte) error { return nil }
func (discardSink) Flush()             {}
