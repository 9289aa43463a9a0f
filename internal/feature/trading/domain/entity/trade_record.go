package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is the immutable history entry for one completed trade.
// Rows are append-only: insertion order is chronological order, and Price
// is a snapshot of the instrument price at execution time, never a live
// reference.
type TradeRecord struct {
	// ID is the unique identifier for the record. Ascending IDs give the
	// chronological order of the history.
	ID uint `gorm:"primaryKey"`

	UserID       uint `gorm:"not null;index"`
	OperationID  uint `gorm:"not null"`
	InstrumentID uint `gorm:"not null"`

	// Quantity is the traded quantity. Always positive.
	Quantity int64 `gorm:"not null"`

	// Price is the instrument price at the moment of execution.
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	// Operation and Instrument are preloaded for history views.
	Operation  Operation
	Instrument Instrument

	// CreatedAt is the timestamp when the trade was executed.
	CreatedAt time.Time
}
