package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConnectRejectedHandshakeSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "API key not valid. Please pass a valid API key.", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Connect(context.Background(), Config{
		APIKey:   "bad-key",
		Model:    "models/test",
		Endpoint: "ws" + strings.TrimPrefix(srv.URL, "http"),
	})
	if err == nil {
		t.Fatal("expected dial error")
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %T, want *TransportError", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "status 403") {
		t.Errorf("message missing status: %s", msg)
	}
	if !strings.Contains(msg, "API key not valid") {
		t.Errorf("message missing rejection body: %s", msg)
	}
	if !IsCredentialError(err) {
		t.Error("rejection should classify as a credential error")
	}
	if strings.Contains(msg, "bad-key") {
		t.Errorf("message leaks the key: %s", msg)
	}
}

func TestConnectValidatesConfig(t *testing.T) {
	if _, err := Connect(context.Background(), Config{Model: "m"}); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := Connect(context.Background(), Config{APIKey: "k"}); err == nil {
		t.Error("expected error for missing model")
	}
}
