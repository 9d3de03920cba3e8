package repository

import (
	"context"

	"github.com/solucionesrptech/pasteleria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementListLimit caps how many ledger entries a listing returns.
const MovementListLimit = 100

type MovementRepository interface {
	// CreateTx appends a ledger row inside the transaction that performs
	// the matching stock write.
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error

	// List returns movements newest first, optionally filtered by product,
	// capped at MovementListLimit entries. The ledger is append-only: there
	// is deliberately no update or delete.
	List(ctx context.Context, productID *uuid.UUID) ([]model.InventoryMovement, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) List(ctx context.Context, productID *uuid.UUID) ([]model.InventoryMovement, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).Preload("Product")
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}

	var movements []model.InventoryMovement
	err := q.Order("created_at DESC").Limit(MovementListLimit).Find(&movements).Error
	return movements, err
}
