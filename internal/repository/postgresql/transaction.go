package postgresql

import (
	"context"

	"github.com/paycore-labs/payroll-backend-go/internal/pkg/database"
)

// GetQuerier returns the transaction riding the context, or the pool.
// Repositories call this so the same method works inside and outside
// database.WithTx.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}
