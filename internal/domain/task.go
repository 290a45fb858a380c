package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of an action task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// ActionTask records one invocation of a capability as an observable
// state machine: pending → running → completed|failed. A task never
// skips running, and terminal states are frozen.
type ActionTask struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Params    map[string]any `json:"params,omitempty"`
	Status    TaskStatus     `json:"status"`
	Result    any            `json:"result,omitempty"` // success payload or {"error": "..."} once terminal
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewActionTask creates a pending task for the given action.
func NewActionTask(action string, params map[string]any) ActionTask {
	now := time.Now()
	return ActionTask{
		ID:        uuid.New().String(),
		Action:    action,
		Params:    params,
		Status:    TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
