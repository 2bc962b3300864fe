package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"service_directory/internal/adapters/observability"
)

// Store keeps key-value pairs in a single SQL table.
type Store struct {
	db      *sqlx.DB
	dialect string
	get     string
	upsert  string
	del     string
}

// driverNames maps configured dialects to registered database/sql drivers.
var driverNames = map[string]string{
	"sqlite":   "sqlite",
	"mysql":    "mysql",
	"postgres": "pgx",
}

// Open connects and creates the kv table if needed.
func Open(ctx context.Context, dialect, dsn string) (*Store, error) {
	driver, ok := driverNames[dialect]
	if !ok {
		return nil, fmt.Errorf("sqlkv: unsupported dialect %q", dialect)
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlkv: connect %s: %w", dialect, err)
	}
	if dialect == "sqlite" {
		// single writer; avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}
	s := New(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func New(db *sqlx.DB, dialect string) *Store {
	upsert := upsertSQL
	if dialect == "mysql" {
		upsert = upsertMySQL
	}
	return &Store{
		db:      db,
		dialect: dialect,
		get:     db.Rebind(getSQL),
		upsert:  db.Rebind(upsert),
		del:     db.Rebind(deleteSQL),
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	ddl := createTableSQL
	if s.dialect == "mysql" {
		ddl = createTableMySQL
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlkv: create table: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	if err := s.db.GetContext(ctx, &v, s.get, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			observability.ObserveStorage(s.dialect, "get", "miss")
			return "", false, nil
		}
		observability.ObserveStorage(s.dialect, "get", "error")
		return "", false, fmt.Errorf("sqlkv: get %s: %w", key, err)
	}
	observability.ObserveStorage(s.dialect, "get", "ok")
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.upsert, key, value)
	observability.ObserveStorage(s.dialect, "set", observability.ResultLabel(err))
	if err != nil {
		return fmt.Errorf("sqlkv: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.del, key)
	observability.ObserveStorage(s.dialect, "del", observability.ResultLabel(err))
	if err != nil {
		return fmt.Errorf("sqlkv: remove %s: %w", key, err)
	}
	return nil
}
