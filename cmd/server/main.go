package main

import (
	"context"
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"crypto_backend/internal/app/di"
	"crypto_backend/internal/app/router"
	authhandler "crypto_backend/internal/feature/auth/transport/handler"
	authusecase "crypto_backend/internal/feature/auth/usecase"
	pricingadapters "crypto_backend/internal/feature/pricing/adapters"
	pricingusecase "crypto_backend/internal/feature/pricing/usecase"
	tradingadapters "crypto_backend/internal/feature/trading/adapters"
	tradinghandler "crypto_backend/internal/feature/trading/transport/handler"
	tradingusecase "crypto_backend/internal/feature/trading/usecase"
	infradb "crypto_backend/internal/platform/db"
	infraredis "crypto_backend/internal/platform/redis"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Sessions fall back to the database.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	ledgerRepo := tradingadapters.NewLedgerGorm(db)
	priceRepo := pricingadapters.NewPriceGorm(db)
	sessionRepo := di.NewSessionRepository(rdb, db)

	// Usecase
	tradingUC := tradingusecase.NewTradingUsecase(ledgerRepo)
	authUC := authusecase.NewAuthUsecase(tradingUC, sessionRepo)

	// Background price updater, stopped on process shutdown
	updater := pricingusecase.NewPriceUpdater(priceRepo, pricingusecase.LoadConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go updater.Run(ctx)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	tradingH := tradinghandler.NewTradingHandler(tradingUC)

	r := router.NewRouter(authH, tradingH, authUC)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
