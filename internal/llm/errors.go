package llm

import "fmt"

// FailureClass buckets transport failures for user-facing rendering.
type FailureClass string

const (
	FailureAuth      FailureClass = "auth"
	FailureRateLimit FailureClass = "rate-limit"
	FailureServer    FailureClass = "server"
	FailureOffline   FailureClass = "offline"
)

// TransportError is returned when a model call fails at the HTTP layer.
// StatusCode is 0 for network-level failures (no response at all).
type TransportError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Class maps the status code to a failure class.
func (e *TransportError) Class() FailureClass {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return FailureAuth
	case e.StatusCode == 429:
		return FailureRateLimit
	case e.StatusCode >= 500:
		return FailureServer
	default:
		return FailureOffline
	}
}

// UserMessage renders the failure as a message suitable for an error turn.
func (e *TransportError) UserMessage() string {
	switch e.Class() {
	case FailureAuth:
		return "Authentication failed. Please check the API configuration."
	case FailureRateLimit:
		return "Too many requests. Please wait a moment and try again."
	case FailureServer:
		return "Server error. The AI service is temporarily unavailable."
	default:
		return "I'm having trouble connecting right now. Please try again."
	}
}
