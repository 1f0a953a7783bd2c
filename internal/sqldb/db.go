// Package sqldb opens the target database and exposes the two operations the
// question pipeline needs from it: describing the schema and running a query.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectDuckDB   Dialect = "duckdb"
)

// DisplayName is the name used when telling the model which SQL flavour to write.
func (d Dialect) DisplayName() string {
	switch d {
	case DialectSQLite:
		return "SQLite"
	case DialectPostgres:
		return "PostgreSQL"
	case DialectDuckDB:
		return "DuckDB"
	default:
		return string(d)
	}
}

type DBConfig struct {
	URL              string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxIdleTime  time.Duration
	ConnMaxLifetime  time.Duration
	SchemaSampleRows int
}

// Target is a parsed connection URL.
type Target struct {
	Dialect    Dialect
	DriverName string
	DSN        string
}

// ParseURL maps a connection URL onto a database/sql driver.
//
//	postgres://..., postgresql://...   pgx
//	sqlite:///relative.db, sqlite:////abs.db, sqlite://   modernc sqlite (empty path is in-memory)
//	duckdb:///path.duckdb, duckdb://   go-duckdb (empty path is in-memory)
//	*.db, *.sqlite, *.sqlite3, file:...   modernc sqlite
func ParseURL(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("database url is required")
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		if _, err := url.Parse(raw); err != nil {
			return Target{}, fmt.Errorf("parse postgres url: %w", err)
		}
		return Target{Dialect: DialectPostgres, DriverName: "pgx", DSN: raw}, nil
	case strings.HasPrefix(lower, "sqlite:"):
		path := stripScheme(raw, "sqlite:")
		if path == "" {
			path = ":memory:"
		}
		return Target{Dialect: DialectSQLite, DriverName: "sqlite", DSN: path}, nil
	case strings.HasPrefix(lower, "duckdb:"):
		path := stripScheme(raw, "duckdb:")
		if path == ":memory:" {
			path = ""
		}
		return Target{Dialect: DialectDuckDB, DriverName: "duckdb", DSN: path}, nil
	case strings.HasPrefix(lower, "file:"),
		strings.HasSuffix(lower, ".db"),
		strings.HasSuffix(lower, ".sqlite"),
		strings.HasSuffix(lower, ".sqlite3"):
		return Target{Dialect: DialectSQLite, DriverName: "sqlite", DSN: raw}, nil
	default:
		return Target{}, fmt.Errorf("unsupported database url %q", redact(raw))
	}
}

// PrivatePerConnection reports whether each new driver connection would see a
// different database: a sqlite in-memory DSN without a shared cache.
func (t Target) PrivatePerConnection() bool {
	if t.Dialect != DialectSQLite {
		return false
	}
	dsn := strings.ToLower(t.DSN)
	if strings.Contains(dsn, "cache=shared") {
		return false
	}
	return dsn == ":memory:" ||
		strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}

// stripScheme follows the SQLAlchemy convention: three slashes precede a
// relative path, four an absolute one.
func stripScheme(raw, scheme string) string {
	rest := raw[len(scheme):]
	rest = strings.TrimPrefix(rest, "//")
	return strings.TrimPrefix(rest, "/")
}

func redact(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	return parsed.Redacted()
}

// DB is the process-wide connection pool. Requests borrow a Session from it.
type DB struct {
	pool       *sql.DB
	dialect    Dialect
	sampleRows int
}

func Open(ctx context.Context, cfg DBConfig) (*DB, error) {
	target, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	pool, err := sql.Open(target.DriverName, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", target.Dialect, err)
	}

	if target.PrivatePerConnection() {
		// Every sqlite connection to :memory: gets its own empty database, so
		// the pool is pinned to one connection that is never recycled.
		pool.SetMaxOpenConns(1)
		pool.SetMaxIdleConns(1)
		pool.SetConnMaxIdleTime(0)
		pool.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			pool.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			pool.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxIdleTime > 0 {
			pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
		}
		if cfg.ConnMaxLifetime > 0 {
			pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s db: %w", target.Dialect, err)
	}

	return New(pool, target.Dialect, cfg.SchemaSampleRows), nil
}

// New wraps an already opened pool.
func New(pool *sql.DB, dialect Dialect, sampleRows int) *DB {
	if sampleRows < 0 {
		sampleRows = 0
	}
	return &DB{pool: pool, dialect: dialect, sampleRows: sampleRows}
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Acquire takes one connection out of the pool for the caller's exclusive use
// until Session.Close. It blocks while the pool is exhausted.
func (d *DB) Acquire(ctx context.Context) (*Session, error) {
	conn, err := d.pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Session{conn: conn, dialect: d.dialect, sampleRows: d.sampleRows}, nil
}

func (d *DB) HealthCheck(ctx context.Context) error {
	if err := d.pool.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.pool.Close()
}

// Session is a single pooled connection bound to one request.
type Session struct {
	conn       *sql.Conn
	dialect    Dialect
	sampleRows int
}

func (s *Session) DescribeSchema(ctx context.Context) (string, error) {
	return DescribeSchema(ctx, s.conn, s.dialect, s.sampleRows)
}

func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	return ListTables(ctx, s.conn, s.dialect)
}

func (s *Session) Run(ctx context.Context, query string) (Result, error) {
	return Run(ctx, s.conn, query)
}

func (s *Session) Preview(ctx context.Context, table string, limit int) (Result, error) {
	return Preview(ctx, s.conn, s.dialect, table, limit)
}

func (s *Session) Close() error {
	return s.conn.Close()
}

// Introspector describes the schema of the database behind it.
type Introspector interface {
	DescribeSchema(ctx context.Context) (string, error)
}

// Runner executes one SQL statement.
type Runner interface {
	Run(ctx context.Context, query string) (Result, error)
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
