// Package dto defines data transfer objects for the trading HTTP API.
package dto

// InstrumentItem is one instrument in the listing response.
// Price is a fixed-point decimal string with two fractional digits.
type InstrumentItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// CreateInstrumentRequest is the JSON body for adding an instrument.
// Price is kept as a string so the ledger can validate it as an exact decimal.
type CreateInstrumentRequest struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
}

// TradeRequest is the JSON body of a buy or sell request.
type TradeRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

// BalanceResponse carries a user's cash balance.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// PortfolioItem is one non-zero holding in the portfolio response.
type PortfolioItem struct {
	Instrument string `json:"instrument"`
	Quantity   int64  `json:"quantity"`
}

// HistoryEntry is one trade in the history response.
type HistoryEntry struct {
	Operation  string `json:"operation"`
	Instrument string `json:"instrument"`
	Quantity   int64  `json:"quantity"`
	Price      string `json:"price"`
}

// HistoryResponse is one page of a user's trade history with optional
// adjacent page numbers.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Prev    *int           `json:"prev,omitempty"`
	Next    *int           `json:"next,omitempty"`
}
