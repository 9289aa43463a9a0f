// Package router wires the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"

	authtransport "crypto_backend/internal/feature/auth/transport"
	authhandler "crypto_backend/internal/feature/auth/transport/handler"
	tradinghandler "crypto_backend/internal/feature/trading/transport/handler"
	"crypto_backend/internal/platform/http/handler"
)

// NewRouter builds the gin engine with the public and session-guarded routes.
func NewRouter(auth *authhandler.AuthHandler, trading *tradinghandler.TradingHandler,
	sessions authtransport.LoginResolver) *gin.Engine {
	r := gin.Default()

	// No session required
	r.GET("/healthz", handler.Health)
	// Login creates the user on first use and issues a session token
	r.POST("/login", auth.Login)
	// The instrument board with current prices is public
	r.GET("/instruments", trading.ListInstruments)

	// Session-guarded routes
	guarded := r.Group("/")
	guarded.Use(authtransport.SessionRequired(sessions))
	{
		guarded.POST("/logout", auth.Logout)
		guarded.POST("/instruments", trading.CreateInstrument)
		guarded.POST("/instruments/:name/buy", trading.Buy)
		guarded.POST("/instruments/:name/sell", trading.Sell)
		guarded.GET("/balance", trading.GetBalance)
		guarded.GET("/portfolio", trading.GetPortfolio)
		guarded.GET("/history", trading.GetHistory)
	}

	return r
}
