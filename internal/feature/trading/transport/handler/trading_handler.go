// Package handler provides HTTP handlers for the trading feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	authtransport "crypto_backend/internal/feature/auth/transport"
	"crypto_backend/internal/feature/trading/domain"
	"crypto_backend/internal/feature/trading/transport/http/dto"
	"crypto_backend/internal/feature/trading/usecase"
)

// TradingUsecase defines the ledger operations the handler needs.
// Following Go convention: interfaces are defined by the consumer (handler),
// not the provider (usecase).
type TradingUsecase interface {
	CreateInstrument(ctx context.Context, name, price string) error
	Buy(ctx context.Context, login, instrumentName string, quantity int64) error
	Sell(ctx context.Context, login, instrumentName string, quantity int64) error
	GetBalance(ctx context.Context, login string) (decimal.Decimal, error)
	GetPortfolio(ctx context.Context, login string) ([]usecase.PortfolioItem, error)
	GetHistory(ctx context.Context, login string) ([]usecase.Trade, error)
	ListInstruments(ctx context.Context) ([]usecase.InstrumentQuote, error)
}

// TradingHandler handles HTTP requests for ledger operations.
type TradingHandler struct {
	uc TradingUsecase
}

// NewTradingHandler creates a new TradingHandler.
func NewTradingHandler(uc TradingUsecase) *TradingHandler {
	return &TradingHandler{uc: uc}
}

// statusForError maps a ledger business error to an HTTP status code.
// Anything outside the taxonomy is an infrastructure fault and maps to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserAlreadyExists), errors.Is(err, domain.ErrInstrumentAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInstrumentNotFound),
		errors.Is(err, domain.ErrPageOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrNoHolding),
		errors.Is(err, domain.ErrInsufficientHolding):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error payload for a failed operation.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		slog.Error("ledger operation failed", "error", err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ListInstruments returns all instruments with their current prices.
func (h *TradingHandler) ListInstruments(c *gin.Context) {
	quotes, err := h.uc.ListInstruments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.InstrumentItem, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, dto.InstrumentItem{Name: q.Name, Price: q.Price.StringFixed(2)})
	}
	c.JSON(http.StatusOK, out)
}

// CreateInstrument adds a new instrument at the given price.
func (h *TradingHandler) CreateInstrument(c *gin.Context) {
	var req dto.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.uc.CreateInstrument(c.Request.Context(), req.Name, req.Price); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ok"})
}

// Buy purchases units of the instrument named in the path for the session user.
func (h *TradingHandler) Buy(c *gin.Context) {
	h.trade(c, h.uc.Buy)
}

// Sell sells units of the instrument named in the path for the session user.
func (h *TradingHandler) Sell(c *gin.Context) {
	h.trade(c, h.uc.Sell)
}

// trade runs one buy or sell for the session user.
func (h *TradingHandler) trade(c *gin.Context,
	op func(ctx context.Context, login, instrumentName string, quantity int64) error) {
	login, ok := authtransport.LoginFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := op(c.Request.Context(), login, c.Param("name"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// GetBalance returns the session user's cash balance.
func (h *TradingHandler) GetBalance(c *gin.Context) {
	login, ok := authtransport.LoginFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	balance, err := h.uc.GetBalance(c.Request.Context(), login)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance.StringFixed(2)})
}

// GetPortfolio returns the session user's non-zero holdings.
func (h *TradingHandler) GetPortfolio(c *gin.Context) {
	login, ok := authtransport.LoginFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	items, err := h.uc.GetPortfolio(c.Request.Context(), login)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.PortfolioItem, 0, len(items))
	for _, item := range items {
		out = append(out, dto.PortfolioItem{Instrument: item.Instrument, Quantity: item.Quantity})
	}
	c.JSON(http.StatusOK, out)
}

// GetHistory returns one page of the session user's trade history.
// The page query parameter is 1-based and defaults to 1; a page outside the
// valid range is a 404, like any other missing resource.
func (h *TradingHandler) GetHistory(c *gin.Context) {
	login, ok := authtransport.LoginFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid page number"})
		return
	}

	trades, err := h.uc.GetHistory(c.Request.Context(), login)
	if err != nil {
		respondError(c, err)
		return
	}
	pageOut, err := usecase.PaginateHistory(trades, page, usecase.DefaultPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]dto.HistoryEntry, 0, len(pageOut.Entries))
	for _, t := range pageOut.Entries {
		entries = append(entries, dto.HistoryEntry{
			Operation:  t.Operation,
			Instrument: t.Instrument,
			Quantity:   t.Quantity,
			Price:      t.Price.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{
		Entries: entries,
		Prev:    pageOut.Prev,
		Next:    pageOut.Next,
	})
}
