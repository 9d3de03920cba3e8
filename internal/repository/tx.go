package repository

import (
	"context"
	"errors"

	"github.com/solucionesrptech/pasteleria-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// TxManager is the scoped atomic unit of work: every read/write inside fn
// goes through the provided tx handle and either all commit or none do.
// GORM rolls back on error return and on panic, so every exit path releases
// the transaction.
type TxManager interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) TxManager { return &gormTxManager{db: db} }

func (m *gormTxManager) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// ErrStockGuard is returned by DecrementStockTx when the guarded UPDATE
// matched no row. Under the row lock this means the product vanished or a
// concurrent writer got there first; callers surface it as a transient
// conflict.
var ErrStockGuard = errors.New("stock guard rejected decrement")

// Postgres SQLSTATE codes that indicate a lost race rather than a fault:
// serialization failure, deadlock detected, lock not available.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// ClassifyError maps an error escaping a transaction into the domain
// taxonomy. Domain errors pass through unmodified in kind; driver-level
// concurrency errors become TransientConflict; everything else from the
// storage layer is a StorageFault.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var derr domain.Error
	if errors.As(err, &derr) {
		return derr
	}
	if errors.Is(err, ErrStockGuard) {
		return &domain.TransientConflictError{Cause: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return &domain.TransientConflictError{Cause: err}
		}
	}
	return &domain.StorageFaultError{Cause: err}
}
