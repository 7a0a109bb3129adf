// Package history implements the optional persisted editor history:
// per-file last cursor position, and recency-ordered command/search
// history, backed by the pure-Go modernc.org/sqlite driver (schema-on-
// open, parameterized Exec/Query) so the rest of the module can stay
// free of cgo.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists editor history across sessions.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS file_cursor (
	path TEXT PRIMARY KEY,
	row INTEGER NOT NULL,
	col INTEGER NOT NULL,
	opened_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS command_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	command TEXT NOT NULL,
	executed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS search_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	pattern TEXT NOT NULL,
	searched_at TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// RecordCursor remembers where the cursor was in path, for restoring
// on next open.
func (s *Store) RecordCursor(path string, row, col int) error {
	_, err := s.db.Exec(`
		INSERT INTO file_cursor (path, row, col, opened_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET row = excluded.row, col = excluded.col, opened_at = excluded.opened_at
	`, path, row, col, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record cursor: %w", err)
	}
	return nil
}

// LastCursor returns the last recorded cursor position for path, if
// any.
func (s *Store) LastCursor(path string) (row, col int, ok bool, err error) {
	err = s.db.QueryRow(`SELECT row, col FROM file_cursor WHERE path = ?`, path).Scan(&row, &col)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("query cursor: %w", err)
	}
	return row, col, true, nil
}

// AppendCommand records an executed `:`-command.
func (s *Store) AppendCommand(cmd string) error {
	_, err := s.db.Exec(`INSERT INTO command_history (command, executed_at) VALUES (?, ?)`,
		cmd, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append command history: %w", err)
	}
	return nil
}

// RecentCommands returns up to limit most-recently-executed commands,
// newest first.
func (s *Store) RecentCommands(limit int) ([]string, error) {
	return s.recent("command_history", "command", limit)
}

// AppendSearch records an executed search pattern.
func (s *Store) AppendSearch(pattern string) error {
	_, err := s.db.Exec(`INSERT INTO search_history (pattern, searched_at) VALUES (?, ?)`,
		pattern, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append search history: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit most-recently-executed search
// patterns, newest first.
func (s *Store) RecentSearches(limit int) ([]string, error) {
	return s.recent("search_history", "pattern", limit)
}

func (s *Store) recent(table, column string, limit int) ([]string, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC LIMIT ?`, column, table), limit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
