package gemini

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/veyralabs/mudra-live/pkg/media"
)

func TestBuildSetupShape(t *testing.T) {
	msg := buildSetup(Config{
		Model:             "models/gemini-2.0-flash-exp",
		Voice:             "Aoede",
		SystemInstruction: "You are a guide.",
	})
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)
	for _, want := range []string{
		`"setup"`,
		`"model":"models/gemini-2.0-flash-exp"`,
		`"responseModalities":["AUDIO"]`,
		`"voiceName":"Aoede"`,
		`"inputAudioTranscription":{}`,
		`"outputAudioTranscription":{}`,
		`"You are a guide."`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("setup json missing %s:\n%s", want, got)
		}
	}
}

func TestBuildSetupOmitsEmptyOptionals(t *testing.T) {
	raw, err := json.Marshal(buildSetup(Config{Model: "m"}))
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)
	if strings.Contains(got, "speechConfig") {
		t.Errorf("speechConfig should be omitted without a voice:\n%s", got)
	}
	if strings.Contains(got, "systemInstruction") {
		t.Errorf("systemInstruction should be omitted when empty:\n%s", got)
	}
}

func TestRealtimeInputEncoding(t *testing.T) {
	chunk := media.Audio([]byte{1, 2, 3, 4}, 16000)
	msg := realtimeInputMessage{RealtimeInput: realtimeInput{MediaChunks: []Blob{{
		MIMEType: chunk.MIMEType,
		Data:     base64.StdEncoding.EncodeToString(chunk.Data),
	}}}}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)
	if !strings.Contains(got, `"mimeType":"audio/pcm;rate=16000"`) {
		t.Errorf("missing mime type:\n%s", got)
	}
	if !strings.Contains(got, `"mediaChunks"`) {
		t.Errorf("missing mediaChunks:\n%s", got)
	}
}

func TestParseServerContent(t *testing.T) {
	pcm := []byte{0, 1, 2, 3}
	frame := fmt.Sprintf(`{
		"serverContent": {
			"modelTurn": {"parts": [{"inlineData": {"mimeType": "audio/pcm;rate=24000", "data": %q}}]},
			"inputTranscription": {"text": "hello "},
			"outputTranscription": {"text": "I hear you"},
			"turnComplete": true
		}
	}`, base64.StdEncoding.EncodeToString(pcm))

	var msg ServerMessage
	if err := json.Unmarshal([]byte(frame), &msg); err != nil {
		t.Fatal(err)
	}
	sc := msg.ServerContent
	if sc == nil {
		t.Fatal("serverContent not parsed")
	}
	audio, err := sc.Audio()
	if err != nil {
		t.Fatal(err)
	}
	if string(audio) != string(pcm) {
		t.Errorf("audio = %v, want %v", audio, pcm)
	}
	if sc.InputTranscription.Text != "hello " {
		t.Errorf("input transcription = %q", sc.InputTranscription.Text)
	}
	if sc.OutputTranscription.Text != "I hear you" {
		t.Errorf("output transcription = %q", sc.OutputTranscription.Text)
	}
	if !sc.TurnComplete {
		t.Error("turnComplete not parsed")
	}
}

func TestAudioAbsent(t *testing.T) {
	var sc *ServerContent
	if pcm, err := sc.Audio(); pcm != nil || err != nil {
		t.Errorf("nil receiver: got %v, %v", pcm, err)
	}
	sc = &ServerContent{Interrupted: true}
	if pcm, err := sc.Audio(); pcm != nil || err != nil {
		t.Errorf("no model turn: got %v, %v", pcm, err)
	}
}

func TestAudioRejectsBadBase64(t *testing.T) {
	sc := &ServerContent{ModelTurn: &Content{Parts: []Part{{InlineData: &Blob{Data: "!!not-base64!!"}}}}}
	if _, err := sc.Audio(); err == nil {
		t.Error("expected decode error")
	}
}

func TestIsCredentialError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain transport", errors.New("connection reset by peer"), false},
		{"http 403", &TransportError{Op: "GET", Err: errors.New("websocket dial failed (status 403): bad handshake")}, true},
		{"key invalid", errors.New("API key not valid. Please pass a valid API key."), true},
		{"permission denied", errors.New("PERMISSION_DENIED: caller lacks access"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCredentialError(tt.err); got != tt.want {
				t.Errorf("IsCredentialError = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportErrorRedactsQuery(t *testing.T) {
	err := &TransportError{Op: "GET", URL: "wss://example.com/ws?key=secret", Err: errors.New("boom")}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error message leaks the key: %s", err.Error())
	}
}
