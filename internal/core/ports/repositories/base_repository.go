package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager is implemented by repositories whose multi-row flows
// (order recalculation, transaction posting) must share one database
// transaction. Callers pair Begin with a deferred Rollback; Rollback after a
// successful Commit is a no-op.
type TransactionManager interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits the given transaction.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back the given transaction if it is still open.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
