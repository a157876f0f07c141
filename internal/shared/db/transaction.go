// Package db carries the transaction plumbing shared by repositories and use
// cases.
package db

import (
	"context"

	"gorm.io/gorm"
)

// txKey carries the open transaction through a context.
type txKey struct{}

// TransactionManager runs multi-repository units of work atomically.
// Repositories stay transaction-agnostic: they pull the open transaction out
// of the context via GetTxFromContext and fall back to the base connection.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn atomically. An error from fn rolls everything
// back. When the context already carries an open transaction the unit joins
// it (gorm nests via savepoints), so a use case composed of transactional use
// cases still commits or rolls back as one.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	conn := tm.db.WithContext(ctx)
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		conn = tx
	}
	return conn.Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTx returns the open transaction from the context, or the base
// connection.
func (tm *TransactionManager) GetTx(ctx context.Context) *gorm.DB {
	return GetTxFromContext(ctx, tm.db)
}

// GetTxFromContext is the repository-side accessor for the open transaction;
// outside a transaction it returns defaultDB bound to ctx.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
