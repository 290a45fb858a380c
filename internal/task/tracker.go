// Package task tracks action invocations as observable state machines.
package task

import (
	"sync"
	"time"

	"github.com/soyeahso/arise/internal/domain"
	"github.com/soyeahso/arise/internal/logging"
)

// Listener is notified after every task transition, including creation.
// Called synchronously on the transitioning goroutine, so a UI observer
// sees "running" before the provider call resolves.
type Listener func(task domain.ActionTask)

// Tracker maintains the lifecycle of action tasks:
// pending → running → completed|failed. Terminal states are frozen and
// transitions on unknown or terminal ids are no-ops. Task bookkeeping is
// best-effort observability, never a crash source.
type Tracker struct {
	mu       sync.Mutex
	tasks    map[string]domain.ActionTask
	order    []string
	listener Listener
	log      *logging.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(log *logging.Logger) *Tracker {
	if log == nil {
		log = logging.Nop()
	}
	return &Tracker{
		tasks: make(map[string]domain.ActionTask),
		log:   log.Sub("task"),
	}
}

// OnTransition registers the transition listener. Only one listener is
// supported; later calls replace earlier ones.
func (t *Tracker) OnTransition(fn Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = fn
}

// Create registers a new pending task and returns it.
func (t *Tracker) Create(action string, params map[string]any) domain.ActionTask {
	task := domain.NewActionTask(action, params)

	t.mu.Lock()
	t.tasks[task.ID] = task
	t.order = append(t.order, task.ID)
	fn := t.listener
	t.mu.Unlock()

	t.log.Debug().Str("taskId", task.ID).Str("action", action).Msg("task created")
	if fn != nil {
		fn(task)
	}
	return task
}

// MarkRunning transitions a pending task to running.
func (t *Tracker) MarkRunning(id string) {
	t.transition(id, domain.TaskPending, domain.TaskRunning, nil)
}

// Complete transitions a running task to completed with its result.
func (t *Tracker) Complete(id string, result any) {
	t.transition(id, domain.TaskRunning, domain.TaskCompleted, result)
}

// Fail transitions a running task to failed with an error payload.
func (t *Tracker) Fail(id string, errMsg string) {
	t.transition(id, domain.TaskRunning, domain.TaskFailed, map[string]any{"error": errMsg})
}

// transition replaces the task record if the current status matches from.
// Everything else (unknown id, terminal task, wrong source state) is a
// logged no-op.
func (t *Tracker) transition(id string, from, to domain.TaskStatus, result any) {
	t.mu.Lock()
	task, ok := t.tasks[id]
	if !ok || task.Status != from {
		t.mu.Unlock()
		if ok {
			t.log.Debug().
				Str("taskId", id).
				Str("from", string(task.Status)).
				Str("to", string(to)).
				Msg("ignoring invalid transition")
		}
		return
	}

	task.Status = to
	task.UpdatedAt = time.Now()
	if to.Terminal() {
		task.Result = result
	}
	t.tasks[id] = task
	fn := t.listener
	t.mu.Unlock()

	t.log.Debug().Str("taskId", id).Str("status", string(to)).Msg("task transition")
	if fn != nil {
		fn(task)
	}
}

// Get returns a snapshot of a task by id.
func (t *Tracker) Get(id string) (domain.ActionTask, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	task, ok := t.tasks[id]
	return task, ok
}

// List returns all tasks in creation order.
func (t *Tracker) List() []domain.ActionTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.ActionTask, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.tasks[id])
	}
	return out
}
