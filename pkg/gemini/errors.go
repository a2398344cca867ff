package gemini

import (
	"fmt"
	"net/url"
	"strings"
)

// TransportError represents websocket transport-level failures (DNS,
// timeouts, connection reset, TLS handshake, refused upgrade) while
// talking to the live endpoint.
//
// Use errors.As(err, &TransportError{}) to distinguish transport
// failures from protocol-level errors.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Op != "" && e.URL != "":
		return fmt.Sprintf("transport error during %s %s: %v", e.Op, redactURLQuery(e.URL), e.Err)
	case e.Op != "":
		return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("transport error: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// The API key travels in the query string, so drop the query before
// the URL appears in any error message.
func redactURLQuery(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	parsed.RawQuery = ""
	parsed.User = nil
	return parsed.String()
}

// IsCredentialError reports whether err indicates the API key is
// invalid, expired, or lacking permission, meaning a retry with the
// same credential cannot succeed.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"status 401",
		"status 403",
		"API key not valid",
		"API_KEY_INVALID",
		"PERMISSION_DENIED",
		"credential expired",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
