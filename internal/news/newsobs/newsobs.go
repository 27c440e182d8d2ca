package newsobs

import (
	"context"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

// observableFetcher wraps a NewsFetcher with observability (logging & tracing)
type observableFetcher struct {
	fetcher interfaces.NewsFetcher
}

// Compile-time interface check
var _ interfaces.NewsFetcher = (*observableFetcher)(nil)

// Wrap wraps a news fetcher with observability middleware
func Wrap(fetcher interfaces.NewsFetcher) interfaces.NewsFetcher {
	return &observableFetcher{fetcher: fetcher}
}

func (of *observableFetcher) Fetch(ctx context.Context, ticker string, lookbackDays, topK int) ([]types.NewsItem, error) {
	ctx, span := trace.StartSpan(ctx, "news.Fetch")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching news",
		"ticker", ticker,
		"lookback_days", lookbackDays,
		"top_k", topK,
	)

	items, err := of.fetcher.Fetch(ctx, ticker, lookbackDays, topK)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch news", err, "ticker", ticker)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "News fetched", "ticker", ticker, "items", len(items))
	return items, nil
}
