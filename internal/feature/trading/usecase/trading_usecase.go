// Package usecase implements the trading ledger business logic.
package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"crypto_backend/internal/feature/trading/domain"
	"crypto_backend/internal/feature/trading/domain/entity"
)

// LedgerStore abstracts the persistence operations the ledger needs.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type LedgerStore interface {
	// CreateUser persists a new user. Returns domain.ErrUserAlreadyExists
	// when the login is already taken.
	CreateUser(ctx context.Context, user *entity.User) error

	// FindUserByLogin retrieves a user by login. Returns
	// domain.ErrUserNotFound when absent.
	FindUserByLogin(ctx context.Context, login string) (*entity.User, error)

	// DebitUserBalance atomically subtracts amount from a user's balance.
	// The debit only applies when the current balance covers it; otherwise
	// nothing is written and domain.ErrInsufficientFunds is returned. The
	// check and the subtraction happen in one statement, so a concurrent
	// debit can never overdraw the balance.
	DebitUserBalance(ctx context.Context, userID uint, amount decimal.Decimal) error

	// CreditUserBalance atomically adds amount to a user's balance.
	CreditUserBalance(ctx context.Context, userID uint, amount decimal.Decimal) error

	// CreateInstrument persists a new instrument. Returns
	// domain.ErrInstrumentAlreadyExists when the name is already taken.
	CreateInstrument(ctx context.Context, instrument *entity.Instrument) error

	// FindInstrumentByName retrieves an instrument by name. Returns
	// domain.ErrInstrumentNotFound when absent.
	FindInstrumentByName(ctx context.Context, name string) (*entity.Instrument, error)

	// ListInstruments returns all instruments with their current prices.
	ListInstruments(ctx context.Context) ([]entity.Instrument, error)

	// FindHolding retrieves the holding for one (user, instrument) pair.
	// Returns (nil, nil) when no row exists; absence is a normal case.
	FindHolding(ctx context.Context, userID, instrumentID uint) (*entity.Holding, error)

	// AddHoldingUnits atomically adds quantity units to a holding, creating
	// the row when the user holds none of the instrument yet.
	AddHoldingUnits(ctx context.Context, userID, instrumentID uint, quantity int64) error

	// RemoveHoldingUnits atomically subtracts quantity units from a holding.
	// The removal only applies when the held quantity covers it; otherwise
	// nothing is written and domain.ErrInsufficientHolding is returned.
	RemoveHoldingUnits(ctx context.Context, userID, instrumentID uint, quantity int64) error

	// ListHoldings returns all holdings of one user with instruments preloaded.
	ListHoldings(ctx context.Context, userID uint) ([]entity.Holding, error)

	// AppendTrade appends one immutable trade record to the history.
	AppendTrade(ctx context.Context, record *entity.TradeRecord) error

	// ListTradesByUser returns a user's trade history in chronological
	// order with operations and instruments preloaded.
	ListTradesByUser(ctx context.Context, userID uint) ([]entity.TradeRecord, error)

	// FindOperationByName retrieves an operation kind by name.
	FindOperationByName(ctx context.Context, name string) (*entity.Operation, error)
}

// LedgerRepository is a LedgerStore that can also scope a group of store
// calls into one atomic unit: the callback's store commits when it returns
// nil and rolls back, leaving no partial effect, when it returns an error.
type LedgerRepository interface {
	LedgerStore
	Transact(ctx context.Context, fn func(store LedgerStore) error) error
}

// PortfolioItem is one non-zero holding in a user's portfolio view.
type PortfolioItem struct {
	Quantity   int64
	Instrument string
}

// Trade is one entry of a user's history view.
type Trade struct {
	Operation  string
	Instrument string
	Quantity   int64
	Price      decimal.Decimal
}

// InstrumentQuote is one instrument with its current price.
type InstrumentQuote struct {
	Name  string
	Price decimal.Decimal
}

// TradingUsecase implements the ledger engine: it enforces the balance and
// holding invariants and records the immutable trade history.
type TradingUsecase struct {
	ledger LedgerRepository
}

// NewTradingUsecase creates a new TradingUsecase with the given repository.
func NewTradingUsecase(ledger LedgerRepository) *TradingUsecase {
	return &TradingUsecase{ledger: ledger}
}

// CreateUser creates a user with the initial cash balance.
// Returns domain.ErrUserAlreadyExists when the login is taken.
func (u *TradingUsecase) CreateUser(ctx context.Context, login string) error {
	user := &entity.User{Login: login, Balance: entity.InitialBalance}
	if err := u.ledger.CreateUser(ctx, user); err != nil {
		return err
	}
	slog.Info("user created", "login", login, "balance", user.Balance)
	return nil
}

// UserExists reports whether a user with the given login exists.
func (u *TradingUsecase) UserExists(ctx context.Context, login string) (bool, error) {
	if _, err := u.ledger.FindUserByLogin(ctx, login); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateInstrument creates an instrument priced at the given decimal string.
// Returns domain.ErrInvalidPrice when the price does not parse as a positive
// decimal and domain.ErrInstrumentAlreadyExists when the name is taken.
func (u *TradingUsecase) CreateInstrument(ctx context.Context, name, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil || !p.IsPositive() {
		slog.Warn("rejected instrument price", "name", name, "price", price)
		return domain.ErrInvalidPrice
	}
	instrument := &entity.Instrument{Name: name, Price: p}
	if err := u.ledger.CreateInstrument(ctx, instrument); err != nil {
		return err
	}
	slog.Info("instrument created", "name", name, "price", p)
	return nil
}

// Buy purchases quantity units of an instrument at its current price.
// The price is read once, inside the same transaction that debits the
// balance and appends the history entry, so a concurrent price update can
// never make the charged price diverge from the recorded one. The debit
// itself is a guarded relative update: two concurrent buys against the same
// balance can both pass a read-side check, but only debits the balance
// still covers are written.
func (u *TradingUsecase) Buy(ctx context.Context, login, instrumentName string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	slog.Info("buy requested", "login", login, "instrument", instrumentName, "quantity", quantity)

	return u.ledger.Transact(ctx, func(store LedgerStore) error {
		user, err := store.FindUserByLogin(ctx, login)
		if err != nil {
			return err
		}
		instrument, err := store.FindInstrumentByName(ctx, instrumentName)
		if err != nil {
			return err
		}

		cost := instrument.Price.Mul(decimal.NewFromInt(quantity))
		if err := store.DebitUserBalance(ctx, user.ID, cost); err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				slog.Warn("buy rejected: insufficient funds",
					"login", login, "balance", user.Balance, "cost", cost)
			}
			return err
		}
		if err := store.AddHoldingUnits(ctx, user.ID, instrument.ID, quantity); err != nil {
			return err
		}

		if err := u.appendTrade(ctx, store, entity.OperationBuy, user, instrument, quantity); err != nil {
			return err
		}
		slog.Info("buy executed", "login", login, "instrument", instrumentName,
			"quantity", quantity, "price", instrument.Price, "cost", cost)
		return nil
	})
}

// Sell sells quantity units of an instrument at its current price.
// Fails with domain.ErrNoHolding when the user holds none of the instrument
// and domain.ErrInsufficientHolding when the held quantity is too small.
// The held-quantity check the decrement relies on is part of the decrement
// statement itself, so two concurrent sells cannot both consume the same
// units no matter what the preceding reads observed.
func (u *TradingUsecase) Sell(ctx context.Context, login, instrumentName string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	slog.Info("sell requested", "login", login, "instrument", instrumentName, "quantity", quantity)

	return u.ledger.Transact(ctx, func(store LedgerStore) error {
		user, err := store.FindUserByLogin(ctx, login)
		if err != nil {
			return err
		}
		instrument, err := store.FindInstrumentByName(ctx, instrumentName)
		if err != nil {
			return err
		}

		holding, err := store.FindHolding(ctx, user.ID, instrument.ID)
		if err != nil {
			return err
		}
		if holding == nil || holding.Quantity == 0 {
			slog.Warn("sell rejected: no holding", "login", login, "instrument", instrumentName)
			return domain.ErrNoHolding
		}

		if err := store.RemoveHoldingUnits(ctx, user.ID, instrument.ID, quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientHolding) {
				slog.Warn("sell rejected: insufficient holding",
					"login", login, "instrument", instrumentName,
					"held", holding.Quantity, "requested", quantity)
			}
			return err
		}
		proceeds := instrument.Price.Mul(decimal.NewFromInt(quantity))
		if err := store.CreditUserBalance(ctx, user.ID, proceeds); err != nil {
			return err
		}

		if err := u.appendTrade(ctx, store, entity.OperationSell, user, instrument, quantity); err != nil {
			return err
		}
		slog.Info("sell executed", "login", login, "instrument", instrumentName,
			"quantity", quantity, "price", instrument.Price, "proceeds", proceeds)
		return nil
	})
}

// appendTrade records one history entry with the execution-time price snapshot.
func (u *TradingUsecase) appendTrade(ctx context.Context, store LedgerStore,
	operation string, user *entity.User, instrument *entity.Instrument, quantity int64) error {
	op, err := store.FindOperationByName(ctx, operation)
	if err != nil {
		return err
	}
	return store.AppendTrade(ctx, &entity.TradeRecord{
		UserID:       user.ID,
		OperationID:  op.ID,
		InstrumentID: instrument.ID,
		Quantity:     quantity,
		Price:        instrument.Price,
	})
}

// GetBalance returns a user's cash balance.
func (u *TradingUsecase) GetBalance(ctx context.Context, login string) (decimal.Decimal, error) {
	user, err := u.ledger.FindUserByLogin(ctx, login)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return user.Balance, nil
}

// GetPortfolio returns a user's non-zero holdings.
func (u *TradingUsecase) GetPortfolio(ctx context.Context, login string) ([]PortfolioItem, error) {
	user, err := u.ledger.FindUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	holdings, err := u.ledger.ListHoldings(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	items := make([]PortfolioItem, 0, len(holdings))
	for _, h := range holdings {
		if h.Quantity == 0 {
			continue
		}
		items = append(items, PortfolioItem{Quantity: h.Quantity, Instrument: h.Instrument.Name})
	}
	return items, nil
}

// GetHistory returns a user's full trade history, oldest first.
func (u *TradingUsecase) GetHistory(ctx context.Context, login string) ([]Trade, error) {
	user, err := u.ledger.FindUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	records, err := u.ledger.ListTradesByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	trades := make([]Trade, 0, len(records))
	for _, r := range records {
		trades = append(trades, Trade{
			Operation:  r.Operation.Name,
			Instrument: r.Instrument.Name,
			Quantity:   r.Quantity,
			Price:      r.Price,
		})
	}
	return trades, nil
}

// GetInstrumentPrice returns an instrument's current price.
func (u *TradingUsecase) GetInstrumentPrice(ctx context.Context, name string) (decimal.Decimal, error) {
	instrument, err := u.ledger.FindInstrumentByName(ctx, name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return instrument.Price, nil
}

// ListInstruments returns all instruments with their current prices.
func (u *TradingUsecase) ListInstruments(ctx context.Context) ([]InstrumentQuote, error) {
	instruments, err := u.ledger.ListInstruments(ctx)
	if err != nil {
		return nil, err
	}
	quotes := make([]InstrumentQuote, 0, len(instruments))
	for _, inst := range instruments {
		quotes = append(quotes, InstrumentQuote{Name: inst.Name, Price: inst.Price})
	}
	return quotes, nil
}
