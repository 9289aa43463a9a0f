// Package adapters provides the GORM-backed price store for the pricing feature.
package adapters

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"crypto_backend/internal/feature/pricing/usecase"
	"crypto_backend/internal/feature/trading/domain/entity"
)

// priceGorm implements the PriceStore interface on a gorm.DB.
type priceGorm struct {
	db *gorm.DB
}

// Compile-time check that priceGorm implements PriceStore.
var _ usecase.PriceStore = (*priceGorm)(nil)

// NewPriceGorm creates a new priceGorm on the given gorm.DB connection.
func NewPriceGorm(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// ListInstruments returns all instruments in creation order.
func (r *priceGorm) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	var instruments []entity.Instrument
	if err := r.db.WithContext(ctx).Order("id").Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

// UpdatePrice sets one instrument's price with a single UPDATE statement.
func (r *priceGorm) UpdatePrice(ctx context.Context, instrumentID uint, price decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&entity.Instrument{}).
		Where("id = ?", instrumentID).
		Update("price", price).Error
}
