// Package action implements the capability provider registry and the
// dispatcher that routes action directives to providers. Each capability
// bundles its own validate/invoke/format triple; the dispatcher is a
// lookup table, not a switch.
package action

import (
	"context"
	"fmt"
	"sort"

	"github.com/soyeahso/arise/internal/logging"
)

// Capability is one external side-effecting operation the agent can run.
type Capability interface {
	// Name returns the fixed action identifier.
	Name() string

	// Validate checks that required parameters are present. It must not
	// perform any network call; a failure wraps ErrMissingParameter.
	Validate(params map[string]any) error

	// Invoke performs at most one outbound call and returns a
	// JSON-serializable payload. Provider-reported failures come back as
	// errors, never as panics.
	Invoke(ctx context.Context, params map[string]any) (any, error)

	// Format renders a success payload as a human-readable sentence.
	// Returns false to fall back to the generic template.
	Format(result any) (string, bool)
}

// Dispatcher routes actions to registered capabilities.
type Dispatcher struct {
	caps map[string]Capability
	log  *logging.Logger
}

// NewDispatcher creates a dispatcher over the given capabilities.
func NewDispatcher(log *logging.Logger, caps ...Capability) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	d := &Dispatcher{
		caps: make(map[string]Capability, len(caps)),
		log:  log.Sub("action"),
	}
	for _, c := range caps {
		d.caps[c.Name()] = c
	}
	return d
}

// Register adds a capability, replacing any existing one with the same name.
func (d *Dispatcher) Register(c Capability) {
	d.caps[c.Name()] = c
}

// Actions returns the registered action identifiers, sorted.
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(d.caps))
	for n := range d.caps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch validates and invokes the named action. Unknown actions fail
// with ErrUnknownAction and missing parameters with ErrMissingParameter,
// both before any network call. Provider failures are normalized into a
// ProviderError carrying the provider's message. Exactly one outbound
// call per dispatch; retry is the caller's decision.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, params map[string]any) (any, error) {
	c, ok := d.caps[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err := c.Validate(params); err != nil {
		return nil, err
	}

	d.log.Debug().Str("action", action).Msg("dispatching")
	result, err := c.Invoke(ctx, params)
	if err != nil {
		d.log.Warn().Err(err).Str("action", action).Msg("provider failed")
		return nil, &ProviderError{Action: action, Message: err.Error()}
	}
	return result, nil
}
