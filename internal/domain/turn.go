package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role classifies a conversation turn.
type Role string

const (
	RoleUser         Role = "user"
	RoleAssistant    Role = "assistant"
	RoleSystemIntent Role = "system-intent"
	RoleActionResult Role = "action-result"
	RoleError        Role = "error"
)

// Turn is one message in a conversation. Turns are append-only: once
// created, a turn is never mutated. Ordering is by append order, not by
// timestamp, so clock skew can never reorder history.
type Turn struct {
	ID             string    `json:"id"`
	Role           Role      `json:"role"`
	Text           string    `json:"text"`
	IsError        bool      `json:"isError,omitempty"`
	IsActionResult bool      `json:"isActionResult,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewTurn creates a turn with a fresh id and timestamp.
func NewTurn(role Role, text string) Turn {
	t := Turn{
		ID:        NewTurnID(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
	switch role {
	case RoleError:
		t.IsError = true
	case RoleActionResult:
		t.IsActionResult = true
	}
	return t
}

// NewTurnID returns a sortable-enough unique id: millisecond timestamp
// plus a short random discriminator.
func NewTurnID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

// WelcomeText greets a fresh session before any user input.
const WelcomeText = "Welcome! I'm your assistant. I can fetch GitHub repository stats, " +
	"check the weather, create todos, send email, search the web, tell the time, " +
	"and run quick calculations. What would you like to do?"

// NewWelcomeTurn creates the single assistant turn a new session starts
// with. The id is prefixed so it is recognizable in a persisted log.
func NewWelcomeTurn() Turn {
	return Turn{
		ID:        fmt.Sprintf("welcome-%d", time.Now().UnixMilli()),
		Role:      RoleAssistant,
		Text:      WelcomeText,
		CreatedAt: time.Now(),
	}
}
