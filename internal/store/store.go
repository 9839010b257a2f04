package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
)

// Postgres error codes the store turns into client errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// DBTX is the part of *pgxpool.Pool the store needs. Each call checks a
// connection out of the pool and returns it before the call completes;
// Begin holds one until the transaction commits or rolls back.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store runs every SQL statement of the application.
type Store struct {
	db  DBTX
	now func() time.Time
}

func New(db DBTX) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock replaces the time source used for unlock checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// WithTx runs fn inside a transaction. fn's effects are committed only if it
// returns nil; any error or panic rolls everything back and releases the
// connection.
func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return persistence("store.WithTx.Begin", err)
	}

	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	finished = true
	if err != nil {
		return persistence("store.WithTx.Commit", err)
	}
	return nil
}

// ErrUnknownUser is returned when the acting user's ID has no row, which a
// token for a deleted or never created account can produce.
var ErrUnknownUser = apperr.Unauthorized("Unauthorized - unknown user")

type scanner interface {
	Scan(dest ...any) error
}

func persistence(op string, err error) error {
	return apperr.Persistence(errors.Wrap(err, op))
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func pgConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
