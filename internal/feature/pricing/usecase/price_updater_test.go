package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_backend/internal/feature/trading/domain/entity"
)

// mockPriceStore is a mock implementation of the PriceStore interface.
type mockPriceStore struct {
	mu          sync.Mutex
	instruments []entity.Instrument
	listErr     error
	updateErr   map[uint]error
	listCalls   int
}

func newMockPriceStore(prices map[string]string) *mockPriceStore {
	store := &mockPriceStore{}
	var id uint
	for _, name := range []string{"crypto_1", "crypto_2", "crypto_3", "crypto_4", "crypto_5"} {
		price, ok := prices[name]
		if !ok {
			continue
		}
		id++
		store.instruments = append(store.instruments, entity.Instrument{
			ID:    id,
			Name:  name,
			Price: decimal.RequireFromString(price),
		})
	}
	return store
}

func (m *mockPriceStore) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]entity.Instrument, len(m.instruments))
	copy(out, m.instruments)
	return out, nil
}

func (m *mockPriceStore) UpdatePrice(ctx context.Context, instrumentID uint, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.updateErr[instrumentID]; err != nil {
		return err
	}
	for i := range m.instruments {
		if m.instruments[i].ID == instrumentID {
			m.instruments[i].Price = price
			return nil
		}
	}
	return errors.New("instrument not found")
}

func (m *mockPriceStore) price(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.instruments {
		if inst.Name == name {
			return inst.Price.StringFixed(2)
		}
	}
	return ""
}

func seedConfig(seed int64) Config {
	return Config{Interval: time.Second, Seed: &seed}
}

func TestPerturb(t *testing.T) {
	tests := []struct {
		name  string
		price string
		delta int64
		want  string
	}{
		{name: "positive delta rounds the tail away", price: "123.43", delta: 7, want: "132.07"},
		{name: "negative ten percent", price: "100", delta: -10, want: "90.00"},
		{name: "negative delta", price: "17.67", delta: -7, want: "16.43"},
		{name: "zero delta keeps the price", price: "123.23", delta: 0, want: "123.23"},
		{name: "small price stays positive", price: "3.3", delta: 3, want: "3.40"},
		{name: "half-cent tie rounds to the even cent", price: "1.50", delta: 1, want: "1.52"},
		{name: "half-cent tie rounds down to even", price: "1.75", delta: 2, want: "1.78"},
		{name: "half-cent tie rounds up to even", price: "2.25", delta: 2, want: "2.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Perturb(decimal.RequireFromString(tt.price), tt.delta)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestPriceUpdater_UpdatePrices_Seeded(t *testing.T) {
	t.Run("seeded cycle applies the seed's delta to every instrument", func(t *testing.T) {
		const seed int64 = 42
		store := newMockPriceStore(map[string]string{
			"crypto_1": "123.43",
			"crypto_2": "3.3",
			"crypto_3": "17.67",
		})
		updater := NewPriceUpdater(store, seedConfig(seed))

		require.NoError(t, updater.UpdatePrices(context.Background()))

		// The source is reseeded before every draw, so each instrument gets
		// the seed's first delta.
		delta := int64(rand.New(rand.NewSource(seed)).Intn(deltaMax-deltaMin+1) + deltaMin)
		assert.Equal(t, Perturb(decimal.RequireFromString("123.43"), delta).StringFixed(2), store.price("crypto_1"))
		assert.Equal(t, Perturb(decimal.RequireFromString("3.3"), delta).StringFixed(2), store.price("crypto_2"))
		assert.Equal(t, Perturb(decimal.RequireFromString("17.67"), delta).StringFixed(2), store.price("crypto_3"))
	})

	t.Run("same seed and start produce the same sequence", func(t *testing.T) {
		start := map[string]string{"crypto_1": "123.43", "crypto_2": "143.8"}
		a := newMockPriceStore(start)
		b := newMockPriceStore(start)
		ua := NewPriceUpdater(a, seedConfig(7))
		ub := NewPriceUpdater(b, seedConfig(7))

		for i := 0; i < 5; i++ {
			require.NoError(t, ua.UpdatePrices(context.Background()))
			require.NoError(t, ub.UpdatePrices(context.Background()))
		}

		assert.Equal(t, a.price("crypto_1"), b.price("crypto_1"))
		assert.Equal(t, a.price("crypto_2"), b.price("crypto_2"))
	})
}

func TestPriceUpdater_UpdatePrices_Bounds(t *testing.T) {
	store := newMockPriceStore(map[string]string{"crypto_1": "100.00"})
	updater := NewPriceUpdater(store, Config{Interval: time.Second})

	for i := 0; i < 20; i++ {
		before := decimal.RequireFromString(store.price("crypto_1"))
		require.NoError(t, updater.UpdatePrices(context.Background()))
		after := decimal.RequireFromString(store.price("crypto_1"))

		low := Perturb(before, deltaMin)
		high := Perturb(before, deltaMax)
		assert.True(t, after.GreaterThanOrEqual(low), "price %s fell below -10%% of %s", after, before)
		assert.True(t, after.LessThanOrEqual(high), "price %s rose above +10%% of %s", after, before)
		assert.True(t, after.IsPositive(), "price must stay positive")
	}
}

func TestPriceUpdater_UpdatePrices_Errors(t *testing.T) {
	t.Run("list failure aborts the cycle", func(t *testing.T) {
		store := newMockPriceStore(nil)
		store.listErr = errors.New("connection lost")
		updater := NewPriceUpdater(store, Config{Interval: time.Second})

		err := updater.UpdatePrices(context.Background())
		assert.ErrorIs(t, err, store.listErr)
	})

	t.Run("one failing instrument does not stall the others", func(t *testing.T) {
		store := newMockPriceStore(map[string]string{"crypto_1": "100.00", "crypto_2": "50.00"})
		store.updateErr = map[uint]error{1: errors.New("row locked")}
		updater := NewPriceUpdater(store, seedConfig(42))

		require.NoError(t, updater.UpdatePrices(context.Background()))

		assert.Equal(t, "100.00", store.price("crypto_1"), "failed instrument keeps its price")
		assert.NotEqual(t, "50.00", store.price("crypto_2"), "other instruments must still update")
	})
}

func TestPriceUpdater_Run(t *testing.T) {
	store := newMockPriceStore(map[string]string{"crypto_1": "100.00"})
	updater := NewPriceUpdater(store, Config{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		updater.Run(ctx)
		close(done)
	}()

	// Let a few cycles run, then stop the loop.
	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.listCalls >= 2
	}, time.Second, time.Millisecond, "updater should run cycles on its ticker")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("updater did not stop on context cancellation")
	}
}
