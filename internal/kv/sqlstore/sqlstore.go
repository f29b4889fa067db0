// Package sqlstore implements kv.Store on a relational database, for sites
// that already run PostgreSQL or want a single-file SQLite deployment.
//
// Values live in kv_entries with an optional expiry stored as Unix
// milliseconds; lists live in kv_list_items where the head of the list is
// the row with the highest seq, a database-generated identity. The schema is applied with goose from
// embedded migrations.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/dmitrijs2005/yardcms/internal/kv/sqlstore/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var (
	_ kv.Store         = (*Store)(nil)
	_ kv.ExpiredPurger = (*Store)(nil)
)

const sqliteBusyTimeoutMs = 10000

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to the database named by dsn, checks the connection and
// applies migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if d.singleWriter {
		// SQLite allows one writer; a single connection queues writers in
		// the pool instead of failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", sqliteBusyTimeoutMs)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db pragma error: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := New(db, d)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database. Migrate must be called before first use unless
// the schema is managed elsewhere.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d, now: time.Now}
}

// WithClock replaces the time source used for expiry checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Migrate applies the embedded migrations for the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(s.dialect.GooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, s.db, s.dialect.MigrationsDir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("sql %s: %w: %w", op, common.ErrStore, err)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT kv_value FROM kv_entries
		WHERE kv_key = $1 AND (expires_at IS NULL OR expires_at > $2)
	`
	var value []byte
	if err := s.db.QueryRowContext(ctx, s.q(query), key, s.nowMillis()).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, storeErr("get", err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO kv_entries (kv_key, kv_value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (kv_key) DO UPDATE SET kv_value = excluded.kv_value, expires_at = excluded.expires_at
	`
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: s.now().Add(ttl).UnixMilli(), Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, s.q(query), key, value, expires); err != nil {
		return storeErr("set", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := withTx(ctx, s.db, func(ctx context.Context, tx querier) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM kv_entries WHERE kv_key = $1`), key); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM kv_list_items WHERE kv_key = $1`), key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr("delete", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM kv_entries WHERE kv_key = $1 AND (expires_at IS NULL OR expires_at > $2)) +
			(SELECT COUNT(*) FROM kv_list_items WHERE kv_key = $3)
	`
	var n int64
	if err := s.db.QueryRowContext(ctx, s.q(query), key, s.nowMillis(), key).Scan(&n); err != nil {
		return false, storeErr("exists", err)
	}
	return n > 0, nil
}

func (s *Store) LPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	// seq is assigned by the database, so concurrent pushes never collide.
	query := `INSERT INTO kv_list_items (kv_key, kv_value) VALUES ($1, $2)`
	err := withTx(ctx, s.db, func(ctx context.Context, tx querier) error {
		for _, v := range values {
			if _, err := tx.ExecContext(ctx, s.q(query), key, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr("lpush", err)
	}
	return nil
}

func (s *Store) listLen(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM kv_list_items WHERE kv_key = $1`), key).Scan(&n)
	return n, err
}

func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	n, err := s.listLen(ctx, key)
	if err != nil {
		return nil, storeErr("lrange", err)
	}
	lo, hi, ok := kv.NormalizeRange(start, stop, n)
	if !ok {
		return []string{}, nil
	}

	query := `
		SELECT kv_value FROM kv_list_items
		WHERE kv_key = $1
		ORDER BY seq DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, s.q(query), key, hi-lo, lo)
	if err != nil {
		return nil, storeErr("lrange", err)
	}
	defer rows.Close()

	values := make([]string, 0, hi-lo)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, storeErr("lrange", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("lrange", err)
	}
	return values, nil
}

func (s *Store) LTrim(ctx context.Context, key string, start, stop int64) error {
	n, err := s.listLen(ctx, key)
	if err != nil {
		return storeErr("ltrim", err)
	}
	if n == 0 {
		return nil
	}

	lo, hi, ok := kv.NormalizeRange(start, stop, n)
	if !ok {
		if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM kv_list_items WHERE kv_key = $1`), key); err != nil {
			return storeErr("ltrim", err)
		}
		return nil
	}

	query := `
		DELETE FROM kv_list_items
		WHERE kv_key = $1 AND seq NOT IN (
			SELECT seq FROM kv_list_items WHERE kv_key = $2 ORDER BY seq DESC LIMIT $3 OFFSET $4
		)
	`
	if _, err := s.db.ExecContext(ctx, s.q(query), key, key, hi-lo, lo); err != nil {
		return storeErr("ltrim", err)
	}
	return nil
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) Scan(ctx context.Context, prefix string) ([]string, error) {
	pattern := likeReplacer.Replace(prefix) + "%"
	query := `
		SELECT kv_key FROM kv_entries
		WHERE kv_key LIKE $1 ESCAPE '\' AND (expires_at IS NULL OR expires_at > $2)
		UNION
		SELECT kv_key FROM kv_list_items WHERE kv_key LIKE $3 ESCAPE '\'
		ORDER BY kv_key
	`
	rows, err := s.db.QueryContext(ctx, s.q(query), pattern, s.nowMillis(), pattern)
	if err != nil {
		return nil, storeErr("scan", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, storeErr("scan", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("scan", err)
	}
	return keys, nil
}

// DeleteExpired removes values whose TTL has passed. Expired rows are already
// invisible to readers; this only reclaims space.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= $1`
	res, err := s.db.ExecContext(ctx, s.q(query), s.nowMillis())
	if err != nil {
		return 0, storeErr("delete expired", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete expired", err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
