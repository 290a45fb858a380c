package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create turns and tasks",
		SQL: `
			CREATE TABLE turns (
				seq         INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id  TEXT NOT NULL,
				turn_id     TEXT NOT NULL,
				role        TEXT NOT NULL,
				text        TEXT NOT NULL,
				is_error    INTEGER NOT NULL DEFAULT 0,
				is_action   INTEGER NOT NULL DEFAULT 0,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE UNIQUE INDEX idx_turns_session_turn ON turns (session_id, turn_id);
			CREATE INDEX idx_turns_session ON turns (session_id, seq);

			CREATE TABLE tasks (
				id          TEXT PRIMARY KEY,
				action      TEXT NOT NULL,
				params      TEXT,
				status      TEXT NOT NULL,
				result      TEXT,
				created_at  TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_tasks_status ON tasks (status);
		`,
	},
	{
		Version: 2,
		Name:    "create todos",
		SQL: `
			CREATE TABLE todos (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				priority    TEXT NOT NULL DEFAULT 'medium',
				completed   INTEGER NOT NULL DEFAULT 0,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_todos_completed ON todos (completed, created_at);
		`,
	},
}
