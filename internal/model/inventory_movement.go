package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. OUT rows carry the positive number of units removed;
// ADJUST rows carry the signed delta as entered by the operator.
const (
	MovementIn     = "IN"
	MovementOut    = "OUT"
	MovementAdjust = "ADJUST"
)

// InventoryMovement is one audited stock change. Append-only: rows are never
// updated or deleted. Written in the same transaction as the stock change it
// describes — the two are never observable independently.
type InventoryMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"` // IN | OUT | ADJUST
	Quantity    int       `gorm:"not null"`
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	UserID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (InventoryMovement) TableName() string { return "inventory_movements" }
