package usecase

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"crypto_backend/internal/feature/trading/domain/entity"
)

// Percentage delta bounds for one price move, inclusive.
const (
	deltaMin = -10
	deltaMax = 10
)

var hundred = decimal.NewFromInt(100)

// PriceStore abstracts the persistence operations the updater needs.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type PriceStore interface {
	// ListInstruments returns all instruments with their current prices.
	ListInstruments(ctx context.Context) ([]entity.Instrument, error)

	// UpdatePrice atomically sets one instrument's price.
	UpdatePrice(ctx context.Context, instrumentID uint, price decimal.Decimal) error
}

// PriceUpdater perturbs every instrument's price on a fixed period. It has
// exclusive mutation rights over instrument prices; each per-instrument
// write is a single atomic UPDATE, so a concurrent trade observes either the
// old or the new price, never a torn value.
type PriceUpdater struct {
	store    PriceStore
	interval time.Duration
	seed     *int64
	rng      *rand.Rand
}

// NewPriceUpdater creates a new PriceUpdater with the given store and config.
func NewPriceUpdater(store PriceStore, cfg Config) *PriceUpdater {
	return &PriceUpdater{
		store:    store,
		interval: cfg.Interval,
		seed:     cfg.Seed,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// nextDelta draws the percentage delta for one instrument. With a fixed seed
// configured, the source is reseeded immediately before every draw, which
// makes the resulting price sequence reproducible (and gives every
// instrument the same delta within a cycle).
func (p *PriceUpdater) nextDelta() int64 {
	if p.seed != nil {
		p.rng = rand.New(rand.NewSource(*p.seed))
	}
	return int64(p.rng.Intn(deltaMax-deltaMin+1) + deltaMin)
}

// Perturb applies one delta to a price: round(price + price*delta/100, 2).
// Ties round half to even, so an exact half-cent lands on the even cent.
func Perturb(price decimal.Decimal, delta int64) decimal.Decimal {
	return price.Add(price.Mul(decimal.NewFromInt(delta)).Div(hundred)).RoundBank(2)
}

// UpdatePrices runs one update cycle over all instruments.
func (p *PriceUpdater) UpdatePrices(ctx context.Context) error {
	instruments, err := p.store.ListInstruments(ctx)
	if err != nil {
		return err
	}
	for _, inst := range instruments {
		newPrice := Perturb(inst.Price, p.nextDelta())
		if err := p.store.UpdatePrice(ctx, inst.ID, newPrice); err != nil {
			// Keep going: one failed instrument must not stall the others.
			slog.Error("failed to update price", "instrument", inst.Name, "error", err)
			continue
		}
		slog.Info("price updated", "instrument", inst.Name,
			"old", inst.Price, "new", newPrice)
	}
	return nil
}

// Run executes update cycles every interval until ctx is cancelled.
// It is meant to run on its own goroutine for the process lifetime.
func (p *PriceUpdater) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("price updater started", "interval", p.interval, "seeded", p.seed != nil)
	for {
		select {
		case <-ctx.Done():
			slog.Info("price updater stopped")
			return
		case <-ticker.C:
			if err := p.UpdatePrices(ctx); err != nil {
				slog.Error("price update cycle failed", "error", err)
			}
		}
	}
}
