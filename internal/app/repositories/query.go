package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/dberrors"
)

// store carries the handle a repository runs its statements on: the pool, or a transaction
// when the repository was obtained through WithTx.
type store struct {
	db *db.DB
	q  sqlx.ExtContext
}

func newStore(database *db.DB) store {
	return store{db: database, q: database.DB}
}

func (s store) withTx(tx *sqlx.Tx) store {
	return store{db: s.db, q: tx}
}

func (s store) sb() squirrel.StatementBuilderType {
	return s.db.Builder
}

// get scans a single row into dest. A missing row is returned as notFound.
func (s store) get(ctx context.Context, dest interface{}, stmt squirrel.Sqlizer, notFound error) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	if err := sqlx.GetContext(ctx, s.q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) && notFound != nil {
			return notFound
		}
		return dberrors.Translate(err)
	}
	return nil
}

// selectAll scans every row into dest, which must be a pointer to a slice.
func (s store) selectAll(ctx context.Context, dest interface{}, stmt squirrel.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	return dberrors.Translate(sqlx.SelectContext(ctx, s.q, dest, query, args...))
}

// exec runs a write statement and reports the number of affected rows.
func (s store) exec(ctx context.Context, stmt squirrel.Sqlizer) (int64, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dberrors.Translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dberrors.Translate(err)
	}
	return n, nil
}
