// Package entity defines the domain entities owned by the trading ledger.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitialBalance is the cash balance granted to every newly created user.
var InitialBalance = decimal.New(100000, -2) // 1000.00

// User represents an account holder on the venue.
// It owns a cash balance, a set of holdings and a trade history.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Login is the user's login name. It must be unique across all users.
	Login string `gorm:"uniqueIndex;size:20;not null"`

	// Balance is the user's cash balance. It is never negative.
	Balance decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
