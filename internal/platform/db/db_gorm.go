// Package db opens and prepares the application database.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	authadapters "crypto_backend/internal/feature/auth/adapters"
	"crypto_backend/internal/feature/trading/domain/entity"
)

// demoInstruments are the instruments seeded when SEED_INSTRUMENTS=true.
var demoInstruments = map[string]string{
	"crypto_1": "123.43",
	"crypto_2": "3.3",
	"crypto_3": "17.67",
	"crypto_4": "65",
	"crypto_5": "143.8",
}

// OpenDB connects to Postgres using DB_* environment variables, retrying for
// up to 60 seconds, and runs migrations when RUN_MIGRATIONS=true.
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey.
func OpenDB() *gorm.DB {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, pass, name)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := Migrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

// Migrate creates the schema and the Buy/Sell operation reference rows.
// Seeding is idempotent, so it is safe on every start. SEED_INSTRUMENTS=true
// additionally seeds a demo instrument set.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Instrument{},
		&entity.Operation{},
		&entity.Holding{},
		&entity.TradeRecord{},
		&authadapters.SessionModel{},
	); err != nil {
		return err
	}

	for _, name := range []string{entity.OperationBuy, entity.OperationSell} {
		op := entity.Operation{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&op).Error; err != nil {
			return err
		}
	}

	if os.Getenv("SEED_INSTRUMENTS") == "true" {
		if err := seedInstruments(db); err != nil {
			return err
		}
	}
	return nil
}

// seedInstruments inserts the demo instruments when they are not present yet.
func seedInstruments(db *gorm.DB) error {
	for name, price := range demoInstruments {
		p, err := decimal.NewFromString(price)
		if err != nil {
			return err
		}
		inst := entity.Instrument{Name: name, Price: p}
		if err := db.Where("name = ?", name).FirstOrCreate(&inst).Error; err != nil {
			return err
		}
	}
	return nil
}
