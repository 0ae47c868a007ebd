package base

import (
	"context"
	"errors"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Коды ошибок Postgres
const (
	codeInvalidTextRepresentation = "22P02"
	codeForeignKeyViolation       = "23503"
	codeUniqueViolation           = "23505"
	codeCheckViolation            = "23514"
)

// Repository общая основа репозиториев
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func (r *Repository) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return r.pool.QueryRow(ctx, query, args...)
}

func (r *Repository) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return r.pool.Query(ctx, query, args...)
}

// ExecAffected выполняет команду и возвращает число затронутых строк
func (r *Repository) ExecAffected(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsMalformedID сообщает, что Postgres не принял id (например, не uuid)
func IsMalformedID(err error) bool {
	return pgCode(err) == codeInvalidTextRepresentation
}

// Translate переводит ошибки драйвера в коды apperr, остальные возвращает как есть
func Translate(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case IsNotFound(err), IsMalformedID(err):
		return apperr.NotFound(notFoundMsg)
	}

	switch pgCode(err) {
	case codeForeignKeyViolation:
		return apperr.NotFound("referenced user not found").WithCause(err)
	case codeUniqueViolation:
		return apperr.Conflict("already exists").WithCause(err)
	case codeCheckViolation:
		return apperr.InvalidInput("value out of range").WithCause(err)
	}
	return err
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
