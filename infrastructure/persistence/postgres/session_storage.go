package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/patrimonia/portal/pkg/backend"
)

// Store keeps session storage in Postgres for deployments that already run
// one and do not want a Redis dependency. One row per (session, key).
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS portal_sessions (
			session_id TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (session_id, key)
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to ensure sessions table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Namespace(sessionID string) backend.Storage {
	return &namespace{store: s, sessionID: sessionID}
}

// PurgeIdle removes rows untouched since the cutoff; paired with the session
// manager's sweeper.
func (s *Store) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge idle sessions: %w", err)
	}
	return res.RowsAffected()
}

type namespace struct {
	store     *Store
	sessionID string
}

func (n *namespace) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := n.store.db.QueryRowContext(ctx, `
		SELECT value FROM portal_sessions WHERE session_id = $1 AND key = $2
	`, n.sessionID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %q: %w", key, err)
	}
	return value, nil
}

func (n *namespace) SetItem(ctx context.Context, key, value string) error {
	_, err := n.store.db.ExecContext(ctx, `
		INSERT INTO portal_sessions (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, n.sessionID, key, value)
	if err != nil {
		return fmt.Errorf("failed to write session key %q: %w", key, err)
	}
	return nil
}

func (n *namespace) RemoveItem(ctx context.Context, key string) error {
	_, err := n.store.db.ExecContext(ctx, `
		DELETE FROM portal_sessions WHERE session_id = $1 AND key = $2
	`, n.sessionID, key)
	if err != nil {
		return fmt.Errorf("failed to remove session key %q: %w", key, err)
	}
	return nil
}
