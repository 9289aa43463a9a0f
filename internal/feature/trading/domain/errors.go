// Package domain defines domain-level errors for the trading feature.
package domain

import "errors"

// Business errors for ledger operations.
// These errors represent recoverable business rule failures and are returned
// as values; infrastructure faults propagate separately and abort the
// enclosing transaction.
var (
	// ErrInvalidQuantity indicates that a trade quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidPrice indicates that an instrument price does not parse as a
	// positive decimal.
	ErrInvalidPrice = errors.New("price must be a positive decimal")

	// ErrUserAlreadyExists indicates that a user with the given login already exists.
	ErrUserAlreadyExists = errors.New("user with this login already exists")

	// ErrInstrumentAlreadyExists indicates that an instrument with the given
	// name already exists.
	ErrInstrumentAlreadyExists = errors.New("instrument with this name already exists")

	// ErrUserNotFound indicates that no user was found with the given login.
	ErrUserNotFound = errors.New("user not found")

	// ErrInstrumentNotFound indicates that no instrument was found with the
	// given name.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrInsufficientFunds indicates that a buy would cost more than the
	// user's cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoHolding indicates a sell of an instrument the user does not hold.
	ErrNoHolding = errors.New("user does not hold this instrument")

	// ErrInsufficientHolding indicates a sell of more units than the user holds.
	ErrInsufficientHolding = errors.New("insufficient holding")

	// ErrPageOutOfRange indicates a history page number outside the valid range.
	ErrPageOutOfRange = errors.New("page number out of range")
)
