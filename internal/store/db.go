package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Knetic/go-namedParameterQuery"
	"github.com/go-sql-driver/mysql"
	"github.com/globelend/waitlist-manager/internal/dependency"
	gerr "github.com/globelend/waitlist-manager/internal/errors"
	"github.com/jmoiron/sqlx"
)

// mysqlErrDuplicateEntry is ER_DUP_ENTRY.
const mysqlErrDuplicateEntry = 1062

// uniqueKeys maps the constraint names from the migrations to the field they protect.
var uniqueKeys = map[string]gerr.UniqueField{
	"uq_waitlist_spot_index":       gerr.UniqueSpotIndex,
	"uq_waitlist_wallet_address":   gerr.UniqueWalletAddress,
	"uq_waitlist_external_user_id": gerr.UniqueExternalUserId,
}

// DB returns the handle queries run on.
func (ms *MYSQLStore) DB() dependency.DB {
	return ms.db
}

// Now returns the store clock.
func (ms *MYSQLStore) Now() time.Time {
	return ms.now()
}

func (ms *MYSQLStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, ms.queryTimeout)
}

// unavailable marks err as a store failure that callers must not expose.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, gerr.ErrStoreUnavailable, err)
}

// uniqueViolation returns a *gerr.UniqueViolationError when err is a MySQL
// duplicate entry error on one of the waitlist unique keys, nil otherwise.
func uniqueViolation(err error) *gerr.UniqueViolationError {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlErrDuplicateEntry {
		return nil
	}
	for key, field := range uniqueKeys {
		if strings.Contains(me.Message, key) {
			return &gerr.UniqueViolationError{Field: field, Err: err}
		}
	}
	return nil
}

// bindNamed rewrites :name parameters into positional ones and expands
// slice values for IN clauses.
func bindNamed(query string, params map[string]any) (string, []any, error) {
	nq := namedParameterQuery.NewNamedParameterQuery(query)
	nq.SetValuesFromMap(params)
	q, args, err := sqlx.In(nq.GetParsedQuery(), nq.GetParsedParameters()...)
	if err != nil {
		return "", nil, fmt.Errorf("bind named: %w", err)
	}
	return q, args, nil
}

// QueryListNamed scans every row of query into a T.
func QueryListNamed[T any](ctx context.Context, conn dependency.DB, query string, params map[string]any) ([]T, error) {
	q, args, err := bindNamed(query, params)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var t T
		if err := rows.StructScan(&t); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// QueryNamedOne scans a single row into a T. sql.ErrNoRows is kept in the chain.
func QueryNamedOne[T any](ctx context.Context, conn dependency.DB, query string, params map[string]any) (T, error) {
	var out T
	q, args, err := bindNamed(query, params)
	if err != nil {
		return out, err
	}
	if err := conn.QueryRowxContext(ctx, q, args...).StructScan(&out); err != nil {
		return out, fmt.Errorf("scan row: %w", err)
	}
	return out, nil
}

// QueryCountNamed runs a single-column integer query.
func QueryCountNamed(ctx context.Context, conn dependency.DB, query string, params map[string]any) (int, error) {
	q, args, err := bindNamed(query, params)
	if err != nil {
		return 0, err
	}
	var n int
	if err := conn.QueryRowxContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return n, nil
}

// ExecNamed runs a statement that returns no rows.
func ExecNamed(ctx context.Context, conn dependency.DB, query string, params map[string]any) error {
	q, args, err := bindNamed(query, params)
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}
