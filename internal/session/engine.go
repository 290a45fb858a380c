// Package session orchestrates one conversation: it owns the ordered
// turn log, drives the model call, classifies replies, and executes
// action directives against the dispatcher while the tracker makes
// progress observable.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/soyeahso/arise/internal/action"
	"github.com/soyeahso/arise/internal/directive"
	"github.com/soyeahso/arise/internal/domain"
	"github.com/soyeahso/arise/internal/llm"
	"github.com/soyeahso/arise/internal/logging"
	"github.com/soyeahso/arise/internal/speech"
	"github.com/soyeahso/arise/internal/store"
	"github.com/soyeahso/arise/internal/task"
)

// ErrEmptyInput is returned when Send receives blank text. No state
// changes on this path.
var ErrEmptyInput = errors.New("empty input")

const defaultMaxTokens = 1024

// TurnListener observes every appended turn.
type TurnListener func(turn domain.Turn)

// Config wires an Engine's collaborators. Client, Dispatcher, Tracker
// and Turns are required; Voice is optional.
type Config struct {
	SessionID    string
	Client       llm.Client
	Dispatcher   *action.Dispatcher
	Tracker      *task.Tracker
	Turns        store.TurnStore
	Voice        *speech.Manager
	SpeakReplies bool
	MaxTokens    int
	Temperature  *float64
	Log          *logging.Logger
}

// Engine is the conversation aggregate root. Sends are serialized: two
// concurrent Send calls never interleave their turns.
type Engine struct {
	mu    sync.Mutex
	id    string
	turns []domain.Turn

	client     llm.Client
	dispatcher *action.Dispatcher
	tracker    *task.Tracker
	store      store.TurnStore
	voice      *speech.Manager
	speak      bool

	maxTokens   int
	temperature *float64

	onTurn TurnListener
	log    *logging.Logger
}

// NewEngine loads (or seeds) the session's turn history and returns a
// ready engine.
func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Client == nil || cfg.Dispatcher == nil || cfg.Tracker == nil || cfg.Turns == nil {
		return nil, errors.New("session: client, dispatcher, tracker and turn store are required")
	}
	if cfg.SessionID == "" {
		cfg.SessionID = "default"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	log := cfg.Log
	if log == nil {
		log = logging.Nop()
	}

	turns, err := cfg.Turns.Load(ctx, cfg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", cfg.SessionID, err)
	}

	return &Engine{
		id:          cfg.SessionID,
		turns:       turns,
		client:      cfg.Client,
		dispatcher:  cfg.Dispatcher,
		tracker:     cfg.Tracker,
		store:       cfg.Turns,
		voice:       cfg.Voice,
		speak:       cfg.SpeakReplies,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		log:         log.Sub("session"),
	}, nil
}

// ID returns the session identifier.
func (e *Engine) ID() string { return e.id }

// OnTurn registers the turn listener. Only one listener is supported;
// later calls replace earlier ones.
func (e *Engine) OnTurn(fn TurnListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTurn = fn
}

// History returns a copy of the session's turns in append order.
func (e *Engine) History() []domain.Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Turn, len(e.turns))
	copy(out, e.turns)
	return out
}

// Send runs one conversational exchange. The user turn is appended
// before the model call, every failure path ends in exactly one error
// turn, and nothing escapes as a panic or unhandled error. Only blank
// input is rejected, with no state change.
func (e *Engine) Send(ctx context.Context, userText string) error {
	if strings.TrimSpace(userText) == "" {
		return ErrEmptyInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.append(ctx, domain.NewTurn(domain.RoleUser, userText))

	resp, err := e.client.Complete(ctx, e.completionRequest())
	if err != nil {
		e.append(ctx, domain.NewTurn(domain.RoleError, transportMessage(err)))
		return nil
	}

	reply := directive.Classify(resp.Content)
	if reply.Ambiguous {
		e.log.Debug().Str("reply", resp.Content).Msg("directive-shaped reply treated as text")
	}
	if !reply.IsDirective() {
		e.append(ctx, domain.NewTurn(domain.RoleAssistant, reply.Text))
		e.maybeSpeak(reply.Text)
		return nil
	}

	e.execute(ctx, *reply.Directive)
	return nil
}

// execute runs a directive: intent turn, observable task lifecycle,
// dispatch, then a result or error turn.
func (e *Engine) execute(ctx context.Context, dir domain.ActionDirective) {
	display := strings.ReplaceAll(dir.Action, "_", " ")
	e.append(ctx, domain.NewTurn(domain.RoleSystemIntent, fmt.Sprintf("Executing: %s...", display)))

	t := e.tracker.Create(dir.Action, dir.Params)
	e.tracker.MarkRunning(t.ID)

	result, err := e.dispatcher.Dispatch(ctx, dir.Action, dir.Params)
	if err != nil {
		msg := dispatchMessage(err)
		e.tracker.Fail(t.ID, msg)
		e.append(ctx, domain.NewTurn(domain.RoleError,
			fmt.Sprintf("Failed to execute %s: %s", dir.Action, msg)))
		return
	}

	e.tracker.Complete(t.ID, result)
	// Action results are read, not spoken; only plain assistant
	// replies go through the voice path.
	e.append(ctx, domain.NewTurn(domain.RoleActionResult, e.dispatcher.Format(dir.Action, result)))
}

// append records a turn in memory, persists it, and notifies the
// listener. Persistence failures are logged, not fatal: the in-memory
// log stays authoritative for this process.
func (e *Engine) append(ctx context.Context, turn domain.Turn) {
	e.turns = append(e.turns, turn)
	if err := e.store.Append(ctx, e.id, turn); err != nil {
		e.log.Error().Err(err).Str("turnId", turn.ID).Msg("failed to persist turn")
	}
	if e.onTurn != nil {
		e.onTurn(turn)
	}
}

// completionRequest flattens the turn log into model messages. Action,
// intent and error turns read as assistant context.
func (e *Engine) completionRequest() llm.CompletionRequest {
	msgs := make([]llm.Message, 0, len(e.turns))
	for _, turn := range e.turns {
		role := llm.RoleAssistant
		if turn.Role == domain.RoleUser {
			role = llm.RoleUser
		}
		msgs = append(msgs, llm.Message{Role: role, Content: turn.Text})
	}
	return llm.CompletionRequest{
		System:      llm.SystemPrompt,
		Messages:    msgs,
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	}
}

func (e *Engine) maybeSpeak(text string) {
	if e.voice == nil || !e.speak {
		return
	}
	if !speech.ShouldSpeak(text) {
		return
	}
	e.voice.Speak(speech.FormatForSpeech(text), speech.SpeakOptions{})
}

// transportMessage picks the error-turn text for a failed model call.
func transportMessage(err error) string {
	var te *llm.TransportError
	if errors.As(err, &te) {
		return te.UserMessage()
	}
	return err.Error()
}

// dispatchMessage strips the normalization wrapper so the error turn
// carries the provider's own words.
func dispatchMessage(err error) string {
	var pe *action.ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
