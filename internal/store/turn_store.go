package store

import (
	"context"
	"fmt"
	"time"

	"github.com/soyeahso/arise/internal/domain"
)

// TurnStore persists conversation turns. Turns are append-only and
// ordered by append sequence, never by timestamp.
type TurnStore interface {
	// Append adds one turn to a session's log.
	Append(ctx context.Context, sessionID string, turn domain.Turn) error

	// Load returns a session's turns in append order. Loading a session
	// with no stored turns seeds and persists the single welcome turn,
	// so its id is stable across reloads.
	Load(ctx context.Context, sessionID string) ([]domain.Turn, error)
}

// SQLiteTurnStore implements TurnStore on the shared database.
type SQLiteTurnStore struct {
	db *DB
}

var _ TurnStore = (*SQLiteTurnStore)(nil)

// NewSQLiteTurnStore creates a turn store using the given database.
func NewSQLiteTurnStore(db *DB) *SQLiteTurnStore {
	return &SQLiteTurnStore{db: db}
}

func (s *SQLiteTurnStore) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	_, err := s.db.sql.ExecContext(ctx,
		`INSERT INTO turns (session_id, turn_id, role, text, is_error, is_action, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, turn.ID, string(turn.Role), turn.Text,
		boolToInt(turn.IsError), boolToInt(turn.IsActionResult),
		turn.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("appending turn: %w", err)
	}
	return nil
}

func (s *SQLiteTurnStore) Load(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT turn_id, role, text, is_error, is_action, created_at
		 FROM turns WHERE session_id = ? ORDER BY seq`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var (
			turn              domain.Turn
			role, createdAt   string
			isError, isAction int
		)
		if err := rows.Scan(&turn.ID, &role, &turn.Text, &isError, &isAction, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turn.Role = domain.Role(role)
		turn.IsError = isError != 0
		turn.IsActionResult = isAction != 0
		turn.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading turns: %w", err)
	}

	if len(turns) == 0 {
		welcome := domain.NewWelcomeTurn()
		if err := s.Append(ctx, sessionID, welcome); err != nil {
			return nil, err
		}
		s.db.log.Debug().Str("session", sessionID).Msg("seeded welcome turn")
		return []domain.Turn{welcome}, nil
	}
	return turns, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
