// Package sqlite persists session tokens in a local SQLite file so a later
// process can restore its session without logging in again.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/huddlehq/huddle/pkg/cmsdk"
)

// Storage is a durable cmsdk.TokenStorage. Tokens live in a single-row kv
// table under the SDK's fixed key.
type Storage struct {
	db *sql.DB
}

var _ cmsdk.TokenStorage = (*Storage)(nil)

func NewStorage(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Waiting beats "database is locked" when two commands overlap.
	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error { return s.db.Close() }

func (s *Storage) Load(ctx context.Context) (*cmsdk.AuthData, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, expires_at
		FROM auth_state WHERE key = ?`,
		cmsdk.StorageKey,
	)

	var data cmsdk.AuthData
	var expiresAt int64
	err := row.Scan(&data.AccessToken, &data.RefreshToken, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if expiresAt > 0 {
		data.ExpiresAt = time.Unix(expiresAt, 0)
	}
	return &data, nil
}

func (s *Storage) Save(ctx context.Context, data *cmsdk.AuthData) error {
	var expiresAt int64
	if !data.ExpiresAt.IsZero() {
		expiresAt = data.ExpiresAt.Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_state (key, access_token, refresh_token, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at`,
		cmsdk.StorageKey, data.AccessToken, data.RefreshToken, expiresAt,
	)
	return err
}

func (s *Storage) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_state WHERE key = ?`, cmsdk.StorageKey)
	return err
}
