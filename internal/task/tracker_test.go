package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/arise/internal/domain"
	"github.com/soyeahso/arise/internal/logging"
)

func newTracker() *Tracker {
	return NewTracker(logging.Nop())
}

func TestCreate(t *testing.T) {
	tr := newTracker()
	task := tr.Create("get_time", map[string]any{"timezone": "UTC"})

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.TaskPending, task.Status)

	got, ok := tr.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, task.ID, got.ID)
}

func TestHappyPath(t *testing.T) {
	tr := newTracker()
	task := tr.Create("calculate", nil)

	tr.MarkRunning(task.ID)
	got, _ := tr.Get(task.ID)
	assert.Equal(t, domain.TaskRunning, got.Status)

	tr.Complete(task.ID, map[string]any{"result": 4})
	got, _ = tr.Get(task.ID)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Equal(t, map[string]any{"result": 4}, got.Result)
}

func TestFailPath(t *testing.T) {
	tr := newTracker()
	task := tr.Create("search_web", nil)
	tr.MarkRunning(task.ID)
	tr.Fail(task.ID, "boom")

	got, _ := tr.Get(task.ID)
	assert.Equal(t, domain.TaskFailed, got.Status)
	assert.Equal(t, map[string]any{"error": "boom"}, got.Result)
}

func TestNoPendingToTerminalShortcut(t *testing.T) {
	tr := newTracker()
	task := tr.Create("get_time", nil)

	// Completing a task that never ran must be a no-op.
	tr.Complete(task.ID, map[string]any{"result": 1})
	got, _ := tr.Get(task.ID)
	assert.Equal(t, domain.TaskPending, got.Status)
	assert.Nil(t, got.Result)

	tr.Fail(task.ID, "boom")
	got, _ = tr.Get(task.ID)
	assert.Equal(t, domain.TaskPending, got.Status)
}

func TestTerminalStatesFrozen(t *testing.T) {
	tr := newTracker()
	task := tr.Create("get_time", nil)
	tr.MarkRunning(task.ID)
	tr.Complete(task.ID, map[string]any{"result": 1})

	tr.Fail(task.ID, "late failure")
	got, _ := tr.Get(task.ID)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Equal(t, map[string]any{"result": 1}, got.Result)

	tr.MarkRunning(task.ID)
	got, _ = tr.Get(task.ID)
	assert.Equal(t, domain.TaskCompleted, got.Status)
}

func TestUnknownIDIsNoOp(t *testing.T) {
	tr := newTracker()
	assert.NotPanics(t, func() {
		tr.MarkRunning("nope")
		tr.Complete("nope", nil)
		tr.Fail("nope", "boom")
	})
}

func TestStatusSequenceObservable(t *testing.T) {
	tr := newTracker()
	var seen []domain.TaskStatus
	tr.OnTransition(func(task domain.ActionTask) {
		seen = append(seen, task.Status)
	})

	task := tr.Create("calculate", nil)
	tr.MarkRunning(task.ID)
	tr.Complete(task.ID, map[string]any{"result": 4})

	assert.Equal(t, []domain.TaskStatus{
		domain.TaskPending, domain.TaskRunning, domain.TaskCompleted,
	}, seen)
}

func TestListCreationOrder(t *testing.T) {
	tr := newTracker()
	a := tr.Create("get_time", nil)
	b := tr.Create("calculate", nil)
	c := tr.Create("search_web", nil)

	list := tr.List()
	require.Len(t, list, 3)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
	assert.Equal(t, c.ID, list[2].ID)
}

func TestNilLoggerTolerated(t *testing.T) {
	tr := NewTracker(nil)
	task := tr.Create("get_time", nil)
	tr.MarkRunning(task.ID)
	got, _ := tr.Get(task.ID)
	assert.Equal(t, domain.TaskRunning, got.Status)
}
