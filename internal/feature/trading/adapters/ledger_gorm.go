// Package adapters provides the GORM-backed repository for the trading feature.
package adapters

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crypto_backend/internal/feature/trading/domain"
	"crypto_backend/internal/feature/trading/domain/entity"
	"crypto_backend/internal/feature/trading/usecase"
)

// ledgerGorm implements the LedgerRepository interface on a gorm.DB.
// Requires the connection to be opened with TranslateError so duplicate-key
// violations surface as gorm.ErrDuplicatedKey on both Postgres and SQLite.
type ledgerGorm struct {
	db *gorm.DB
}

// Compile-time check that ledgerGorm implements LedgerRepository.
var _ usecase.LedgerRepository = (*ledgerGorm)(nil)

// NewLedgerGorm creates a new ledgerGorm on the given gorm.DB connection.
func NewLedgerGorm(db *gorm.DB) *ledgerGorm {
	return &ledgerGorm{db: db}
}

// Transact runs fn against a transaction-scoped store. The transaction
// commits when fn returns nil and rolls back on any error, so every failure
// leaves the ledger untouched.
func (r *ledgerGorm) Transact(ctx context.Context, fn func(store usecase.LedgerStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerGorm{db: tx})
	})
}

// CreateUser inserts a user row.
// Returns domain.ErrUserAlreadyExists when the login is already taken.
func (r *ledgerGorm) CreateUser(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindUserByLogin retrieves a user by login.
// Returns domain.ErrUserNotFound when absent.
func (r *ledgerGorm) FindUserByLogin(ctx context.Context, login string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DebitUserBalance subtracts amount from one user's balance with a single
// guarded UPDATE. The sufficient-funds condition is part of the statement's
// WHERE clause, so under READ COMMITTED a concurrent debit that drained the
// balance after our read still cannot overdraw it: the re-evaluated
// condition matches no row and domain.ErrInsufficientFunds is returned.
func (r *ledgerGorm) DebitUserBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// CreditUserBalance adds amount to one user's balance with a single relative
// UPDATE, never overwriting a concurrently changed value.
func (r *ledgerGorm) CreditUserBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// CreateInstrument inserts an instrument row.
// Returns domain.ErrInstrumentAlreadyExists when the name is already taken.
func (r *ledgerGorm) CreateInstrument(ctx context.Context, instrument *entity.Instrument) error {
	if err := r.db.WithContext(ctx).Create(instrument).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrInstrumentAlreadyExists
		}
		return err
	}
	return nil
}

// FindInstrumentByName retrieves an instrument by name.
// Returns domain.ErrInstrumentNotFound when absent.
func (r *ledgerGorm) FindInstrumentByName(ctx context.Context, name string) (*entity.Instrument, error) {
	var inst entity.Instrument
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInstrumentNotFound
		}
		return nil, err
	}
	return &inst, nil
}

// ListInstruments returns all instruments in creation order.
func (r *ledgerGorm) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	var instruments []entity.Instrument
	if err := r.db.WithContext(ctx).Order("id").Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

// FindHolding retrieves the holding row for one (user, instrument) pair.
// Returns (nil, nil) when no row exists.
func (r *ledgerGorm) FindHolding(ctx context.Context, userID, instrumentID uint) (*entity.Holding, error) {
	var h entity.Holding
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND instrument_id = ?", userID, instrumentID).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// AddHoldingUnits adds quantity units to one holding, inserting the row on
// the first buy. The ON CONFLICT upsert makes two concurrent first buys
// merge instead of one of them failing on the composite key.
func (r *ledgerGorm) AddHoldingUnits(ctx context.Context, userID, instrumentID uint, quantity int64) error {
	holding := entity.Holding{UserID: userID, InstrumentID: instrumentID, Quantity: quantity}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "instrument_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", quantity),
			}),
		}).
		Create(&holding).Error
}

// RemoveHoldingUnits subtracts quantity units from one holding with a single
// guarded UPDATE. As with DebitUserBalance, the held-quantity condition is
// re-evaluated on the locked row, so stale reads cannot let two sells
// consume the same units.
func (r *ledgerGorm) RemoveHoldingUnits(ctx context.Context, userID, instrumentID uint, quantity int64) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Holding{}).
		Where("user_id = ? AND instrument_id = ? AND quantity >= ?", userID, instrumentID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientHolding
	}
	return nil
}

// ListHoldings returns all holdings of one user with instruments preloaded.
func (r *ledgerGorm) ListHoldings(ctx context.Context, userID uint) ([]entity.Holding, error) {
	var holdings []entity.Holding
	err := r.db.WithContext(ctx).
		Preload("Instrument").
		Where("user_id = ?", userID).
		Order("instrument_id").
		Find(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// AppendTrade inserts one history row. Rows are never updated or deleted.
func (r *ledgerGorm) AppendTrade(ctx context.Context, record *entity.TradeRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// ListTradesByUser returns a user's history ordered by insertion, which is
// the chronological order of execution.
func (r *ledgerGorm) ListTradesByUser(ctx context.Context, userID uint) ([]entity.TradeRecord, error) {
	var records []entity.TradeRecord
	err := r.db.WithContext(ctx).
		Preload("Operation").
		Preload("Instrument").
		Where("user_id = ?", userID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindOperationByName retrieves an operation kind by name.
func (r *ledgerGorm) FindOperationByName(ctx context.Context, name string) (*entity.Operation, error) {
	var op entity.Operation
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}
