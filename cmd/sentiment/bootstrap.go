package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/llm"
	"market-sentiment/internal/llm/llmobs"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/news"
	"market-sentiment/internal/news/newsobs"
	"market-sentiment/internal/pipeline"
	"market-sentiment/internal/store"
	"market-sentiment/internal/ticker"
	"market-sentiment/internal/ticker/tickerobs"
	"market-sentiment/internal/trace"
)

// initializeSystem loads environment variables and initializes the logger
// and tracer. The returned function shuts the tracer down.
func initializeSystem(ctx context.Context) (func(context.Context), error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return func(ctx context.Context) {
		if err := trace.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "Failed to shut down tracer", "error", err)
		}
	}, nil
}

// loadConfig loads and validates the process configuration. Validation
// failures (missing credential, unsupported backend toggle) are fatal.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// buildPipeline constructs the three stages, each wrapped with its
// observability middleware, and wires them into the pipeline.
func buildPipeline(ctx context.Context, cfg *store.Config) (*pipeline.Pipeline, error) {
	var resolver interfaces.Resolver = ticker.NewResolver(ticker.NewYahooSearcher(cfg), cfg.Search.PreferEquity)
	resolver = tickerobs.Wrap(resolver)

	var fetcher interfaces.NewsFetcher = news.NewFetcher(news.NewYahooProvider(cfg))
	fetcher = newsobs.Wrap(fetcher)

	snapshotter := news.NewPageSnapshotter(15*time.Second, cfg.Search.UserAgent)

	analyzer, err := llm.NewGeminiAnalyzer(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize analyzer", err)
		return nil, err
	}

	return pipeline.New(cfg, resolver, fetcher, snapshotter, llmobs.Wrap(analyzer)), nil
}
