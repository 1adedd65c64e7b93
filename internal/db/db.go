package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/avast/retry-go/v4"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/yigit/skillshare/internal/config"
	"github.com/yigit/skillshare/internal/pkg/dberrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
	"github.com/yigit/skillshare/internal/pkg/logger"
)

const defaultTransactionTimeout = 30 * time.Second

// DB is the SQL handle shared by all repositories. The same queries run on
// PostgreSQL (pgx) and SQLite (modernc); only the placeholder format differs.
type DB struct {
	*sqlx.DB
	Driver       string
	Builder      squirrel.StatementBuilderType
	QueryTimeout time.Duration
}

// Open connects using the configured driver and probes the connection with bounded retries.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	var (
		database *DB
		err      error
	)
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		database, err = openSQLite(cfg.Database.Path)
	default:
		database, err = openPostgres(cfg)
	}
	if err != nil {
		return nil, err
	}
	database.QueryTimeout = helpers.ParseDuration(cfg.Database.QueryTimeout, 5*time.Second)

	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return database.PingContext(pingCtx)
		},
		retry.Attempts(uint(cfg.Database.ConnectAttempts)),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(5*time.Second),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).Uint("attempt", n+1).Str("driver", database.Driver).Msg("Database not reachable yet, retrying")
		}),
	)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", dberrors.Translate(err))
	}

	return database, nil
}

func openPostgres(cfg *config.Config) (*DB, error) {
	conn, err := sqlx.Open("pgx", cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection pool: %w", err)
	}

	conn.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	conn.SetConnMaxLifetime(helpers.ParseDuration(cfg.Database.ConnMaxLifetime, time.Hour))

	return &DB{
		DB:      conn,
		Driver:  config.DriverPostgres,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// OpenSQLite opens (creating if needed) a SQLite database file in WAL mode.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	database, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return database, nil
}

func openSQLite(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)" +
		"&_time_format=sqlite"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer; one connection serializes access.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	return &DB{
		DB:      conn,
		Driver:  config.DriverSQLite,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Bound applies the per-call query timeout. An earlier deadline on ctx still wins.
func (db *DB) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.QueryTimeout)
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sqlx.Tx) error

// WithTransaction runs a function within a transaction
func (db *DB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTransactionTimeout)
		defer cancel()
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", dberrors.Translate(err))
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", dberrors.Translate(err))
	}

	return nil
}
