package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes the storage layer's atomic scope. Callers that
// need several dependent writes applied as one all-or-nothing unit begin a
// scope here; the WithTx repository variants expose it alongside their reads
// and writes.
type TransactionManager interface {
	// Begin starts a new atomic scope.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit applies all writes made within the scope.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback discards the scope. Safe to call after Commit.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
