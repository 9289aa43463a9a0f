package usecase

import "crypto_backend/internal/feature/trading/domain"

// DefaultPageSize is the number of history entries shown per page.
const DefaultPageSize = 5

// HistoryPage is one page of a user's trade history. Prev and Next hold the
// adjacent page numbers and are nil when no such page exists.
type HistoryPage struct {
	Entries []Trade
	Prev    *int
	Next    *int
}

// PaginateHistory slices a chronological history into 1-based fixed-size
// pages. The maximum page is ceil(len/pageSize) floored at 1, so page 1 of
// an empty history is valid and yields an empty page. A page outside
// [1, maxPage] fails with domain.ErrPageOutOfRange.
func PaginateHistory(entries []Trade, page, pageSize int) (HistoryPage, error) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	maxPage := (len(entries) + pageSize - 1) / pageSize
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 || page > maxPage {
		return HistoryPage{}, domain.ErrPageOutOfRange
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}

	result := HistoryPage{Entries: entries[start:end]}
	if prev := page - 1; prev >= 1 {
		result.Prev = &prev
	}
	if next := page + 1; next <= maxPage {
		result.Next = &next
	}
	return result, nil
}
