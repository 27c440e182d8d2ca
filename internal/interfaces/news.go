package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

// NewsFetcher returns recent news for a ticker, newest first, at most topK
// items. An empty slice is a valid result.
type NewsFetcher interface {
	Fetch(ctx context.Context, ticker string, lookbackDays, topK int) ([]types.NewsItem, error)
}

// Snapshotter produces a best-effort plain-text news snapshot for a ticker.
// It never fails: an unavailable or broken source yields an empty string.
type Snapshotter interface {
	Snapshot(ctx context.Context, ticker string) string
}
