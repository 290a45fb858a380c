package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/arise/internal/action"
	"github.com/soyeahso/arise/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRunsMigrations(t *testing.T) {
	db := openTestDB(t)

	var count int
	err := db.SQL().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)

	// Reapplying against the same connection is a no-op.
	require.NoError(t, db.migrate())
}

func TestTurnStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTurnStore(db)
	ctx := context.Background()

	appended := []domain.Turn{
		domain.NewTurn(domain.RoleUser, "what time is it?"),
		domain.NewTurn(domain.RoleSystemIntent, "Action detected: get_time"),
		domain.NewTurn(domain.RoleActionResult, "Current time: 3:00 PM"),
		domain.NewTurn(domain.RoleError, "something broke"),
	}
	for _, turn := range appended {
		require.NoError(t, s.Append(ctx, "sess-1", turn))
	}

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded, len(appended))

	for i, want := range appended {
		got := loaded[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Role, got.Role)
		assert.Equal(t, want.Text, got.Text)
		assert.Equal(t, want.IsError, got.IsError)
		assert.Equal(t, want.IsActionResult, got.IsActionResult)
	}
}

func TestTurnStoreOrderIsAppendOrder(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTurnStore(db)
	ctx := context.Background()

	// Backdated timestamp must not reorder the log.
	old := domain.NewTurn(domain.RoleUser, "first")
	newer := domain.NewTurn(domain.RoleAssistant, "second")
	newer.CreatedAt = old.CreatedAt.Add(-time.Hour)

	require.NoError(t, s.Append(ctx, "sess-1", old))
	require.NoError(t, s.Append(ctx, "sess-1", newer))

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "first", loaded[0].Text)
	assert.Equal(t, "second", loaded[1].Text)
}

func TestTurnStoreSeedsWelcome(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTurnStore(db)
	ctx := context.Background()

	loaded, err := s.Load(ctx, "fresh")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, domain.RoleAssistant, loaded[0].Role)
	assert.Equal(t, domain.WelcomeText, loaded[0].Text)
	assert.True(t, strings.HasPrefix(loaded[0].ID, "welcome-"))

	// The welcome turn is persisted, so a reload keeps its id.
	again, err := s.Load(ctx, "fresh")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, loaded[0].ID, again[0].ID)
}

func TestTurnStoreSessionsIsolated(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTurnStore(db)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", domain.NewTurn(domain.RoleUser, "hello a")))
	require.NoError(t, s.Append(ctx, "b", domain.NewTurn(domain.RoleUser, "hello b")))

	a, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, "hello a", a[0].Text)
}

func TestTaskStoreUpsert(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTaskStore(db)
	ctx := context.Background()

	task := domain.NewActionTask("get_time", map[string]any{"timezone": "UTC"})
	s.Save(task)

	task.Status = domain.TaskRunning
	task.UpdatedAt = time.Now()
	s.Save(task)

	task.Status = domain.TaskCompleted
	task.Result = map[string]any{"time": "3:00 PM"}
	task.UpdatedAt = time.Now()
	s.Save(task)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1, "updates go to the same row")

	got := tasks[0]
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "get_time", got.Action)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Equal(t, map[string]any{"timezone": "UTC"}, got.Params)
	assert.Equal(t, map[string]any{"time": "3:00 PM"}, got.Result)
}

func TestTaskStoreAsTrackerListener(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTaskStore(db)

	task := domain.NewActionTask("calculate", nil)
	// The tracker hands the listener every transition; Save must not
	// fail or panic on any of them.
	for _, status := range []domain.TaskStatus{domain.TaskPending, domain.TaskRunning, domain.TaskFailed} {
		task.Status = status
		s.Save(task)
	}

	tasks, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskFailed, tasks[0].Status)
}

func TestTodoStoreCRUD(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTodoStore(db)
	ctx := context.Background()

	created, err := s.Create(ctx, domain.Todo{Title: "buy milk", Priority: "high"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "high", created.Priority)

	todos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Title)

	created.Completed = true
	updated, err := s.Update(ctx, created)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	require.NoError(t, s.Delete(ctx, created.ID))
	todos, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestTodoStoreUnknownID(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTodoStore(db)
	ctx := context.Background()

	_, err := s.Update(ctx, domain.Todo{ID: "nope", Title: "x"})
	assert.ErrorIs(t, err, ErrTodoNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrTodoNotFound)
}

func TestTodoStoreClampsPriority(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteTodoStore(db)

	created, err := s.Create(context.Background(), domain.Todo{Title: "x", Priority: "urgent"})
	require.NoError(t, err)
	assert.Equal(t, "medium", created.Priority)
}

func TestMemoryTurnStoreMatchesSQLiteContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]TurnStore{
		"memory": NewMemoryTurnStore(),
		"sqlite": NewSQLiteTurnStore(openTestDB(t)),
	} {
		t.Run(name, func(t *testing.T) {
			first, err := s.Load(ctx, "s")
			require.NoError(t, err)
			require.Len(t, first, 1)
			assert.Equal(t, domain.WelcomeText, first[0].Text)

			turn := domain.NewTurn(domain.RoleUser, "hi")
			require.NoError(t, s.Append(ctx, "s", turn))

			loaded, err := s.Load(ctx, "s")
			require.NoError(t, err)
			require.Len(t, loaded, 2)
			assert.Equal(t, first[0].ID, loaded[0].ID)
			assert.Equal(t, turn.ID, loaded[1].ID)
		})
	}
}

func TestMemoryTodoStore(t *testing.T) {
	var s action.TodoStore = NewMemoryTodoStore()
	ctx := context.Background()

	created, err := s.Create(ctx, domain.Todo{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "medium", created.Priority)

	created.Title = "y"
	updated, err := s.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "y", updated.Title)

	require.NoError(t, s.Delete(ctx, created.ID))
	_, err = s.Update(ctx, created)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}
