package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	codeUniqueViolation = "23505"
	codeUndefinedColumn = "42703"
	codeUndefinedTable  = "42P01"
)

// translate maps driver errors onto the domain error kinds.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, pgErr.ConstraintName)
		case codeUndefinedColumn, codeUndefinedTable:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrSchemaDrift, pgErr.Message)
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
