package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. PriceCLP is an integer amount of Chilean pesos
// (CLP has no decimal subdivision). Stock is mutated only inside a
// transaction that also writes the matching InventoryMovement row.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	PriceCLP    int `gorm:"not null;check:price_clp >= 0"`
	// stock >= 0 is enforced in the adjustment/order paths; the DB check is a
	// last fence against a bug sneaking a negative value past them.
	Stock     int     `gorm:"not null;default:0;check:stock >= 0"`
	ImageURL  *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
