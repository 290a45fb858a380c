package action

import (
	"errors"
	"fmt"
)

// Sentinel errors for dispatcher-side validation. Both fail the dispatch
// before any network call.
var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrMissingParameter = errors.New("missing required parameter")
)

// ProviderError normalizes a capability failure into a single shape
// carrying the provider's message.
type ProviderError struct {
	Action  string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}
