package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Schema creates the table PostgresKV reads and writes.
const Schema = `CREATE TABLE IF NOT EXISTS wave_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at TIMESTAMPTZ NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresKV stores keys in the wave_kv table.
type PostgresKV struct {
	db *sql.DB
}

func NewPostgresKV(db *sql.DB) *PostgresKV { return &PostgresKV{db: db} }

// EnsureSchema creates wave_kv when missing.
func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return unavailable("migrate", "wave_kv", err)
	}
	return nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM wave_kv
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMiss
		}
		return "", unavailable("get", key, err)
	}
	return value, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	var expires sql.NullTime
	if ttl > 0 {
		expires = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO wave_kv (key, value, expires_at, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (key) DO UPDATE SET
		   value = EXCLUDED.value,
		   expires_at = EXCLUDED.expires_at,
		   updated_at = now()`,
		key, value, expires,
	)
	if err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM wave_kv WHERE key = $1`, key); err != nil {
		return unavailable("delete", key, err)
	}
	return nil
}
