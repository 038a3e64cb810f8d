// internal/state/sqlite.go
package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/sessionboard/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS auth_sessions (
	id            TEXT PRIMARY KEY,
	authenticated INTEGER NOT NULL,
	user_id       TEXT NOT NULL,
	token         TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	expires_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_auth_sessions_expires ON auth_sessions(expires_at);
`

// SQLiteStore is an auth-session store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session database ping failed: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, session *types.AuthSession) error {
	authenticated := 0
	if session.Authenticated {
		authenticated = 1
	}
	var expiresAt int64
	if !session.ExpiresAt.IsZero() {
		expiresAt = session.ExpiresAt.Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (id, authenticated, user_id, token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			authenticated = excluded.authenticated,
			user_id       = excluded.user_id,
			token         = excluded.token,
			expires_at    = excluded.expires_at`,
		string(session.ID), authenticated, session.UserID, session.Token,
		session.CreatedAt.Unix(), expiresAt)
	if err != nil {
		return fmt.Errorf("store auth session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id types.AuthSessionID) (*types.AuthSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, authenticated, user_id, token, created_at, expires_at
		FROM auth_sessions WHERE id = ?`, string(id))

	var (
		sid           string
		authenticated int
		userID        string
		token         string
		createdAt     int64
		expiresAt     int64
	)
	if err := row.Scan(&sid, &authenticated, &userID, &token, &createdAt, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load auth session: %w", err)
	}

	sess := &types.AuthSession{
		ID:            types.AuthSessionID(sid),
		Authenticated: authenticated != 0,
		UserID:        userID,
		Token:         token,
		CreatedAt:     time.Unix(createdAt, 0),
	}
	if expiresAt != 0 {
		sess.ExpiresAt = time.Unix(expiresAt, 0)
	}
	if sess.Expired(time.Now()) {
		return nil, nil
	}
	return sess, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id types.AuthSessionID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete auth session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM auth_sessions WHERE expires_at > 0 AND expires_at < ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune auth sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune auth sessions: %w", err)
	}
	return int(n), nil
}
