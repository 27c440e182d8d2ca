// Package pipeline sequences ticker resolution, news fetching, and
// sentiment analysis into one observable run.
package pipeline

import (
	"context"
	"fmt"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/llm"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/news"
	"market-sentiment/internal/obs"
	"market-sentiment/internal/store"
	"market-sentiment/internal/types"
)

// Pipeline wires the three stages together. Snapshotter is optional; a nil
// value means the capability is absent, which callers cannot distinguish
// from an empty snapshot.
type Pipeline struct {
	cfg         *store.Config
	resolver    interfaces.Resolver
	fetcher     interfaces.NewsFetcher
	snapshotter interfaces.Snapshotter
	analyzer    interfaces.Analyzer
}

// New creates a pipeline from its stage implementations.
func New(cfg *store.Config, resolver interfaces.Resolver, fetcher interfaces.NewsFetcher, snapshotter interfaces.Snapshotter, analyzer interfaces.Analyzer) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		resolver:    resolver,
		fetcher:     fetcher,
		snapshotter: snapshotter,
		analyzer:    analyzer,
	}
}

// Run executes one company analysis: resolve -> fetch -> render -> analyze.
// Every stage runs inside a named span whose bookkeeping closes before any
// error propagates; a failed stage aborts the run with no partial result.
func (p *Pipeline) Run(ctx context.Context, companyName string) (types.SentimentResult, error) {
	run, err := obs.StartRun(ctx, p.cfg.Obs.RunDir, "analyze:"+companyName)
	if err != nil {
		return types.SentimentResult{}, err
	}
	defer run.End()
	ctx = run.Context()

	// 1) Ticker resolution. A nil candidate is not an error: the raw input
	// doubles as the ticker.
	sctx, end := run.Span(ctx, "ticker", map[string]string{"company_name": companyName})
	cand, err := p.resolver.Resolve(sctx, companyName)
	end(err)
	if err != nil {
		return types.SentimentResult{}, err
	}

	ticker := companyName
	if cand != nil {
		ticker = cand.Symbol
		exchange := cand.ExchDisp
		if exchange == "" {
			exchange = cand.Exchange
		}
		run.LogParams(map[string]string{
			"ticker.symbol":       cand.Symbol,
			"ticker.exchange":     exchange,
			"ticker.display_name": cand.DisplayName(),
		})
	} else {
		run.LogParams(map[string]string{
			"ticker.symbol":   ticker,
			"ticker.exchange": "",
		})
	}

	// 2) News fetch and digest rendering.
	sctx, end = run.Span(ctx, "news", map[string]string{
		"ticker":        ticker,
		"lookback_days": fmt.Sprint(p.cfg.News.LookbackDays),
		"top_k":         fmt.Sprint(p.cfg.News.TopK),
	})
	items, err := p.fetcher.Fetch(sctx, ticker, p.cfg.News.LookbackDays, p.cfg.News.TopK)
	var digest, snapshot string
	if err == nil {
		digest = news.RenderDigest(items)
		p.logNewsArtifacts(sctx, run, ticker, items, digest)
		if p.snapshotter != nil {
			if snapshot = p.snapshotter.Snapshot(sctx, ticker); snapshot != "" {
				p.logArtifactText(sctx, run, "news/yahoo_tool_snapshot.txt", snapshot)
			}
		}
	}
	end(err)
	if err != nil {
		return types.SentimentResult{}, err
	}

	// 3) Sentiment analysis.
	sctx, end = run.Span(ctx, "sentiment", map[string]string{"model": p.cfg.LLM.Model})
	p.logArtifactText(sctx, run, "sentiment/prompt.txt", llm.PromptText(companyName, ticker, digest))
	result, err := p.analyzer.Analyze(sctx, companyName, ticker, digest)
	if err == nil {
		if aerr := run.LogDict("sentiment/sentiment.json", result); aerr != nil {
			logger.Warn(sctx, "Failed to write artifact", "error", aerr)
		}
		run.LogMetric("confidence_score", float64(result.ConfidenceScore))
	}
	end(err)
	if err != nil {
		return types.SentimentResult{}, err
	}

	logger.Verdict(ctx, companyName, ticker, result.Sentiment, float64(result.ConfidenceScore))
	return result, nil
}

func (p *Pipeline) logNewsArtifacts(ctx context.Context, run *obs.Run, ticker string, items []types.NewsItem, digest string) {
	content := digest
	if content == "" {
		content = llm.NoNewsPlaceholder
	}
	p.logArtifactText(ctx, run, "news/newsdesc.txt", content)
	if err := run.LogDict("news/news_items.json", map[string]any{
		"ticker": ticker,
		"items":  items,
	}); err != nil {
		logger.Warn(ctx, "Failed to write artifact", "error", err)
	}
}

func (p *Pipeline) logArtifactText(ctx context.Context, run *obs.Run, path, content string) {
	if err := run.LogText(path, content); err != nil {
		logger.Warn(ctx, "Failed to write artifact", "path", path, "error", err)
	}
}
