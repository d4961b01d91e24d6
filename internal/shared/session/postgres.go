package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/cookie"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is the subset of *pgxpool.Pool the backend needs.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresBackend stores one row per key in browser_sessions, keyed by the cookie's session id.
type PostgresBackend struct {
	db    dbtx
	codec *cookie.Codec
	now   func() time.Time
}

func NewPostgresBackend(pool *pgxpool.Pool, codec *cookie.Codec) *PostgresBackend {
	return newPostgresBackend(pool, codec)
}

func newPostgresBackend(db dbtx, codec *cookie.Codec) *PostgresBackend {
	return &PostgresBackend{db: db, codec: codec, now: time.Now}
}

func (b *PostgresBackend) Open(w http.ResponseWriter, r *http.Request) Storage {
	return &postgresStorage{backend: b, w: w, sid: readSessionID(b.codec, r)}
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

type postgresStorage struct {
	backend *PostgresBackend
	w       http.ResponseWriter
	sid     string
}

func (s *postgresStorage) Get(ctx context.Context, key string) (string, error) {
	if s.sid == "" {
		return "", nil
	}

	stmt := `
	SELECT value
	FROM browser_sessions
	WHERE id = $1 AND key = $2 AND expires_at > now()`

	var value string
	err := s.backend.db.QueryRow(ctx, stmt, s.sid, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select session value: %w", err)
	}
	return value, nil
}

// Set writes values under a freshly minted session id and drops the previous
// record together with every expired row, all in one statement.
func (s *postgresStorage) Set(ctx context.Context, values map[string]string) error {
	var previous any
	if s.sid != "" {
		previous = s.sid
	}
	sid := uuid.NewString()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = values[k]
	}
	expires := Expiry(values[KeyToken], s.backend.now())

	stmt := `
	WITH purged AS (
		DELETE FROM browser_sessions
		WHERE id = $5::uuid OR expires_at < now()
	)
	INSERT INTO browser_sessions (id, key, value, expires_at)
	SELECT $1, k, v, $4
	FROM unnest($2::text[], $3::text[]) AS t(k, v)
	ON CONFLICT (id, key) DO UPDATE
	SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	if _, err := s.backend.db.Exec(ctx, stmt, sid, keys, vals, expires, previous); err != nil {
		return fmt.Errorf("upsert session values: %w", err)
	}

	s.sid = sid
	return s.backend.codec.Write(s.w, s.sid, expires)
}

// Delete removes keys and clears the cookie once the record holds nothing else.
func (s *postgresStorage) Delete(ctx context.Context, keys ...string) error {
	if s.sid == "" {
		return nil
	}

	stmt := `
	WITH deleted AS (
		DELETE FROM browser_sessions WHERE id = $1 AND key = ANY($2)
	)
	SELECT count(*)
	FROM browser_sessions
	WHERE id = $1 AND NOT (key = ANY($2)) AND expires_at > now()`

	var remaining int
	if err := s.backend.db.QueryRow(ctx, stmt, s.sid, keys).Scan(&remaining); err != nil {
		return fmt.Errorf("delete session values: %w", err)
	}

	if remaining == 0 {
		s.backend.codec.Clear(s.w)
		s.sid = ""
	}
	return nil
}
