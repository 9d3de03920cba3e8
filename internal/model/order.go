package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. CREADO exists only inside the creation transaction: the
// mocked payment always succeeds, so every persisted order is observed PAGADO.
const (
	OrderStatusCreado = "CREADO"
	OrderStatusPagado = "PAGADO"
)

// Fulfillment types.
const (
	FulfillmentDelivery = "DELIVERY"
	FulfillmentPickup   = "PICKUP"
)

// Order is a customer purchase. Immutable after creation except for the
// status transition. PublicToken allows unauthenticated lookup and must be
// unguessable (128 bits of randomness, hex-encoded).
type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName    string    `gorm:"not null"`
	CustomerEmail   string    `gorm:"not null"`
	CustomerPhone   string    `gorm:"not null"`
	FulfillmentType string    `gorm:"not null"` // DELIVERY | PICKUP
	DeliveryAddress *string
	Zone            *string
	TotalCLP        int    `gorm:"not null"`
	Status          string `gorm:"not null;default:'CREADO'"`
	PublicToken     string `gorm:"uniqueIndex;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items   []OrderItem `gorm:"foreignKey:OrderID"`
	Payment *Payment    `gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the product price at order time; it is never
// recomputed from the catalog afterwards.
type OrderItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity     int       `gorm:"not null"`
	UnitPriceCLP int       `gorm:"not null"`
	LineTotalCLP int       `gorm:"not null"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
