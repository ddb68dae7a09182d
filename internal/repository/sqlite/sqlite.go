// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go driver, so the binary needs no C
// toolchain and tests can run against ":memory:" databases.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and implements repository.UserRepository and
// repository.WorkoutRepository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests), configures it,
// and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			google_id     TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'runner',
			coach_id      TEXT REFERENCES users(id),
			avatar_url    TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			weight_kg     REAL,
			height_cm     REAL,
			experience    TEXT,
			goals         TEXT,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_coach_id ON users(coach_id);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS training_sessions (
			id                   TEXT PRIMARY KEY,
			coach_id             TEXT NOT NULL REFERENCES users(id),
			runner_id            TEXT NOT NULL REFERENCES users(id),
			planned_distance_km  REAL NOT NULL DEFAULT 0,
			planned_duration_min INTEGER NOT NULL DEFAULT 0,
			workout_type         TEXT NOT NULL DEFAULT '',
			intensity            TEXT NOT NULL DEFAULT '',
			notes                TEXT NOT NULL DEFAULT '',
			scheduled_for        DATETIME NOT NULL,
			created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_runner_id ON training_sessions(runner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating training_sessions table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS workout_logs (
			id                  TEXT PRIMARY KEY,
			session_id          TEXT NOT NULL REFERENCES training_sessions(id),
			runner_id           TEXT NOT NULL REFERENCES users(id),
			status              TEXT NOT NULL DEFAULT 'pending',
			actual_distance_km  REAL NOT NULL DEFAULT 0,
			actual_duration_min INTEGER NOT NULL DEFAULT 0,
			feeling             TEXT NOT NULL DEFAULT '',
			notes               TEXT NOT NULL DEFAULT '',
			external_links      TEXT NOT NULL DEFAULT '',
			injuries            TEXT NOT NULL DEFAULT '',
			created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_logs_runner_id ON workout_logs(runner_id);
		CREATE INDEX IF NOT EXISTS idx_logs_created_at ON workout_logs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating workout_logs table: %w", err)
	}

	return nil
}
