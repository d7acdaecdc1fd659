// Package sqlite implements store.Store on top of a single SQLite database
// file (§6), using modernc.org/sqlite's pure-Go driver so the binary needs
// no cgo toolchain. Schema migrations run through goose (§10) against an
// embedded set of .sql files, the same tool and layout the teacher used
// for its Postgres schema.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/YiniRuohong/wordflow/internal/platform/logger"
	"github.com/YiniRuohong/wordflow/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the SQLite-backed implementation of store.Store. A Store value
// is safe for concurrent use: per-wordbook write serialization is handled
// internally by wordbookLock, and reads go straight to the pool.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	locks sync.Map // map[int]*sync.Mutex, one per wordbook id
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database file at dsn, runs
// any pending migrations, and configures the connection for a single-writer
// workload (WAL journal mode, foreign keys on, a busy timeout so concurrent
// readers never see SQLITE_BUSY under normal load).
func Open(ctx context.Context, dsn string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "sqlite_store"))

	connDSN := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dsn)
	db, err := sql.Open("sqlite", connDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single-writer database file is only ever safely hammered by one
	// connection at a time for writes; modernc.org/sqlite serializes at
	// the driver level, but capping the pool avoids needless contention.
	db.SetMaxOpenConns(8)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := runMigrations(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, logger: log}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func runMigrations(db *sql.DB, log *slog.Logger) error {
	goose.SetLogger(&gooseSlogLogger{log: log})
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// gooseSlogLogger adapts our structured logger to goose's Printf/Fatalf
// logger interface.
type gooseSlogLogger struct {
	log *slog.Logger
}

func (l *gooseSlogLogger) Printf(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l *gooseSlogLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

// wordbookLock returns the mutex serializing writes to the given wordbook's
// words/cards/srs_state, creating it on first use (§5).
func (s *Store) wordbookLock(wordbookID int) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(wordbookID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *Store) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}
