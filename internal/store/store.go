package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-service/internal/errs"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Store struct {
	db     *sqlx.DB
	driver string
}

// NewStore creates a new database store
func NewStore(driver, databaseURL string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows one writer; a single connection keeps transactions serialized.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Driver returns the database driver name
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the schema if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaFor(s.driver) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// forUpdate returns the row lock clause for the current driver. SQLite
// locks the whole database for the writing transaction instead.
func (s *Store) forUpdate() string {
	if s.driver == DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// withTx runs fn in a transaction and commits if it returns nil
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr(op+": begin", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return wrapErr(op, err)
	}

	if err := tx.Commit(); err != nil {
		return wrapErr(op+": commit", err)
	}
	return nil
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx
type execer interface {
	sqlx.ExecerContext
	Rebind(query string) string
}

// deleteByID removes the row with id from table, NotFound when there is none
func deleteByID(ctx context.Context, e execer, table, entity string, id int64) error {
	res, err := e.ExecContext(ctx, e.Rebind("DELETE FROM "+table+" WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}

// rejectIfReferenced fails with a malformed request when any row of table
// still points at id through column
func rejectIfReferenced(ctx context.Context, tx *sqlx.Tx, table, column string, id int64, reason string) error {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		tx.Rebind("SELECT EXISTS(SELECT 1 FROM "+table+" WHERE "+column+" = ?)"), id)
	if err != nil {
		return err
	}
	if exists {
		return errs.Malformed("id", reason)
	}
	return nil
}

func wrapErr(op string, err error) error {
	if errs.KindOf(err) != errs.KindInternal {
		return err
	}
	return &errs.PersistenceError{Op: op, Err: err, Retryable: isRetryable(err)}
}

// isRetryable reports serialization failures, deadlocks and lock timeouts
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

func now() time.Time {
	return time.Now().UTC()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
