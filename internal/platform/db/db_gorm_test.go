package db

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"crypto_backend/internal/feature/trading/domain/entity"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gdb
}

func TestMigrate_SeedsOperations(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, Migrate(gdb))

	var ops []entity.Operation
	require.NoError(t, gdb.Order("id").Find(&ops).Error)
	require.Len(t, ops, 2)
	assert.Equal(t, entity.OperationBuy, ops[0].Name)
	assert.Equal(t, entity.OperationSell, ops[1].Name)
}

func TestMigrate_Idempotent(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, Migrate(gdb))
	require.NoError(t, Migrate(gdb))

	var count int64
	require.NoError(t, gdb.Model(&entity.Operation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestMigrate_SeedInstruments(t *testing.T) {
	t.Setenv("SEED_INSTRUMENTS", "true")
	gdb := openTestDB(t)

	require.NoError(t, Migrate(gdb))

	var instruments []entity.Instrument
	require.NoError(t, gdb.Find(&instruments).Error)
	require.Len(t, instruments, len(demoInstruments))
	for _, inst := range instruments {
		want, ok := demoInstruments[inst.Name]
		require.True(t, ok, "unexpected instrument %q", inst.Name)
		assert.True(t, inst.Price.Equal(decimal.RequireFromString(want)),
			"instrument %q: got price %s, want %s", inst.Name, inst.Price, want)
	}

	// Running again must not duplicate the set.
	require.NoError(t, Migrate(gdb))
	var count int64
	require.NoError(t, gdb.Model(&entity.Instrument{}).Count(&count).Error)
	assert.Equal(t, int64(len(demoInstruments)), count)
}

func TestMigrate_NoSeedByDefault(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, Migrate(gdb))

	var count int64
	require.NoError(t, gdb.Model(&entity.Instrument{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
