package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/soyeahso/arise/internal/domain"
)

// SQLiteTaskStore records task transitions. It is an observability log:
// write failures are logged and swallowed, never surfaced to the
// conversation flow.
type SQLiteTaskStore struct {
	db *DB
}

// NewSQLiteTaskStore creates a task store using the given database.
func NewSQLiteTaskStore(db *DB) *SQLiteTaskStore {
	return &SQLiteTaskStore{db: db}
}

// Save upserts the task row, updating status and result in place.
func (s *SQLiteTaskStore) Save(task domain.ActionTask) {
	params := jsonOrNull(task.Params)
	result := jsonOrNull(task.Result)

	_, err := s.db.sql.Exec(
		`INSERT INTO tasks (id, action, params, status, result, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   result = excluded.result,
		   updated_at = excluded.updated_at`,
		task.ID, task.Action, params, string(task.Status), result,
		task.CreatedAt.UTC().Format(time.RFC3339Nano),
		task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("taskId", task.ID).Msg("failed to save task")
	}
}

// List returns all recorded tasks, oldest first.
func (s *SQLiteTaskStore) List(ctx context.Context) ([]domain.ActionTask, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, action, params, status, result, created_at, updated_at
		 FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.ActionTask
	for rows.Next() {
		var (
			t                    domain.ActionTask
			status               string
			params, result       sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(&t.ID, &t.Action, &params, &status, &result, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.TaskStatus(status)
		if params.Valid && params.String != "" {
			_ = json.Unmarshal([]byte(params.String), &t.Params)
		}
		if result.Valid && result.String != "" {
			var v any
			if json.Unmarshal([]byte(result.String), &v) == nil {
				t.Result = v
			}
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func jsonOrNull(v any) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(data), Valid: true}
}
