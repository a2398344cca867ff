// Package gemini implements the realtime bidirectional channel to the
// Gemini Live API over a websocket.
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veyralabs/mudra-live/pkg/media"
)

const (
	// DefaultEndpoint is the Gemini Live websocket endpoint; the API
	// key is appended as a query parameter.
	DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	defaultConnectTimeout = 15 * time.Second
)

// Config describes one live connection.
type Config struct {
	APIKey            string
	Model             string
	Voice             string
	SystemInstruction string

	// Endpoint overrides DefaultEndpoint, mainly for tests.
	Endpoint string
	Logger   *slog.Logger
}

// Session is an open live channel. Inbound frames are delivered on
// Messages; the channel closes when the connection ends, after which
// Err reports the terminal error, if any.
type Session struct {
	conn   *websocket.Conn
	logger *slog.Logger

	messages chan ServerMessage
	done     chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool

	errMu sync.Mutex
	err   error
}

// Connect dials the live endpoint, sends the setup message, and waits
// for the setup acknowledgment before returning an active session.
func Connect(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key must not be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model must not be empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	wsURL := endpoint + "?key=" + cfg.APIKey

	dialer := websocket.DefaultDialer
	if dialer == nil {
		dialer = &websocket.Dialer{}
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		dialCtx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	conn, resp, err := dialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		if resp != nil {
			// The rejection body carries the API error detail, e.g.
			// "API key not valid", which credential classification
			// needs downstream.
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			dialErr := fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
			if detail := strings.TrimSpace(string(snippet)); detail != "" {
				dialErr = fmt.Errorf("%w: %s", dialErr, detail)
			}
			return nil, &TransportError{Op: "GET", URL: wsURL, Err: dialErr}
		}
		return nil, &TransportError{Op: "GET", URL: wsURL, Err: err}
	}

	if err := conn.WriteJSON(buildSetup(cfg)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send setup: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(defaultConnectTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read setup ack: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	var first ServerMessage
	if err := json.Unmarshal(payload, &first); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("decode setup ack: %w", err)
	}
	if first.SetupComplete == nil {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected first frame: %s", payload)
	}

	s := &Session{
		conn:     conn,
		logger:   logger,
		messages: make(chan ServerMessage, 256),
		done:     make(chan struct{}),
	}
	go s.readLoop()
	logger.Debug("live channel open", "model", cfg.Model)
	return s, nil
}

func buildSetup(cfg Config) setupMessage {
	msg := setupMessage{Setup: setup{
		Model: cfg.Model,
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		InputAudioTranscription:  &transcriptionConfig{},
		OutputAudioTranscription: &transcriptionConfig{},
	}}
	if cfg.Voice != "" {
		msg.Setup.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: voiceConfig{
				PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	if cfg.SystemInstruction != "" {
		msg.Setup.SystemInstruction = &Content{
			Parts: []Part{{Text: cfg.SystemInstruction}},
		}
	}
	return msg
}

// Messages yields inbound server frames. The channel closes when the
// connection ends.
func (s *Session) Messages() <-chan ServerMessage {
	if s == nil {
		return nil
	}
	return s.messages
}

// SendRealtime ships audio and image chunks as realtime input. Text
// chunks are rejected; use SendText.
func (s *Session) SendRealtime(chunks ...media.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	blobs := make([]Blob, 0, len(chunks))
	for _, c := range chunks {
		if c.Kind == media.KindText {
			return fmt.Errorf("text chunks are not realtime input")
		}
		blobs = append(blobs, Blob{
			MIMEType: c.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(c.Data),
		})
	}
	return s.sendJSON(realtimeInputMessage{RealtimeInput: realtimeInput{MediaChunks: blobs}})
}

// SendText ships a typed user message as a completed client turn.
func (s *Session) SendText(text string) error {
	return s.sendJSON(clientContentMessage{ClientContent: clientContent{
		Turns: []Content{{
			Role:  "user",
			Parts: []Part{{Text: text}},
		}},
		TurnComplete: true,
	}})
}

func (s *Session) sendJSON(v any) error {
	if s == nil {
		return fmt.Errorf("session must not be nil")
	}
	if s.closed.Load() {
		return fmt.Errorf("live channel is closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Close closes the websocket and waits for the read loop to drain.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	<-s.done
	return nil
}

// Err returns the terminal session error, if any. Blocks until the
// connection has ended.
func (s *Session) Err() error {
	if s == nil {
		return nil
	}
	<-s.done
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) setErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *Session) readLoop() {
	defer close(s.done)
	defer close(s.messages)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.setErr(err)
			return
		}

		var msg ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("skipping undecodable frame", "error", err)
			continue
		}
		s.emit(msg)
	}
}

// emit never blocks the read loop: when the consumer falls behind the
// frame is dropped.
func (s *Session) emit(msg ServerMessage) {
	select {
	case s.messages <- msg:
	default:
		s.logger.Warn("dropping server frame, consumer too slow")
	}
}
