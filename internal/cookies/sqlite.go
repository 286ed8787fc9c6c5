package cookies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mccwk.com/shortener/internal/database"
)

// SQLiteStore keeps cookies in the cookies table of the local database.
type SQLiteStore struct {
	db  *database.Database
	now func() time.Time
}

func NewSQLiteStore(db *database.Database) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (string, bool, error) {
	var (
		value   string
		expires int64
	)
	err := s.db.Conn.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cookies WHERE name = ?`, name,
	).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cookie %q: %w", name, err)
	}

	if !s.now().Before(time.Unix(expires, 0)) {
		if _, err := s.db.Conn.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name); err != nil {
			return "", false, fmt.Errorf("failed to drop expired cookie %q: %w", name, err)
		}
		return "", false, nil
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, name, value string, expires time.Time) error {
	_, err := s.db.Conn.ExecContext(ctx, `
		INSERT INTO cookies (name, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		name, value, expires.Unix(), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cookie %q: %w", name, err)
	}
	return nil
}
