package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument represents a tradable synthetic asset with a mutable current price.
type Instrument struct {
	// ID is the unique identifier for the instrument.
	ID uint `gorm:"primaryKey"`

	// Name identifies the instrument. It must be unique.
	Name string `gorm:"uniqueIndex;size:20;not null"`

	// Price is the current price per unit. Always positive; mutated in place
	// by the price updater.
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	// CreatedAt is the timestamp when the instrument was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the instrument was last updated.
	UpdatedAt time.Time
}
