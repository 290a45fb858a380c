package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/arise/internal/action"
	"github.com/soyeahso/arise/internal/domain"
)

var _ action.TodoStore = (*SQLiteTodoStore)(nil)

// ErrTodoNotFound is returned for updates or deletes on unknown ids.
var ErrTodoNotFound = errors.New("todo not found")

// SQLiteTodoStore implements the create_todo capability's storage on the
// shared database.
type SQLiteTodoStore struct {
	db *DB
}

// NewSQLiteTodoStore creates a todo store using the given database.
func NewSQLiteTodoStore(db *DB) *SQLiteTodoStore {
	return &SQLiteTodoStore{db: db}
}

func (s *SQLiteTodoStore) List(ctx context.Context) ([]domain.Todo, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, title, description, priority, completed, created_at
		 FROM todos ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var (
			todo      domain.Todo
			completed int
			createdAt string
		)
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Priority, &completed, &createdAt); err != nil {
			return nil, err
		}
		todo.Completed = completed != 0
		todo.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (s *SQLiteTodoStore) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now()
	}
	todo.Priority = domain.NormalizePriority(todo.Priority)

	_, err := s.db.sql.ExecContext(ctx,
		`INSERT INTO todos (id, title, description, priority, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.Title, todo.Description, todo.Priority,
		boolToInt(todo.Completed), todo.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	return todo, nil
}

func (s *SQLiteTodoStore) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	todo.Priority = domain.NormalizePriority(todo.Priority)

	res, err := s.db.sql.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, priority = ?, completed = ?
		 WHERE id = ?`,
		todo.Title, todo.Description, todo.Priority, boolToInt(todo.Completed), todo.ID,
	)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("updating todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Todo{}, fmt.Errorf("%w: %s", ErrTodoNotFound, todo.ID)
	}

	var createdAt string
	err = s.db.sql.QueryRowContext(ctx,
		`SELECT created_at FROM todos WHERE id = ?`, todo.ID).Scan(&createdAt)
	if err == nil {
		todo.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	}
	return todo, nil
}

func (s *SQLiteTodoStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.sql.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	return nil
}
