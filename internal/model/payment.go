package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentProviderMock = "MOCK"
	PaymentStatusPaid   = "PAID"
)

// Payment records the settlement outcome for an order. Created atomically
// with the order; only the mocked provider exists for now.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Provider  string    `gorm:"not null"`
	Status    string    `gorm:"not null"`
	AmountCLP int       `gorm:"not null"`
	CreatedAt time.Time
}
