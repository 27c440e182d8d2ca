package llmobs

import (
	"context"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

// observableAnalyzer wraps an Analyzer with observability (logging & tracing)
type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

// Compile-time interface check
var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

// Wrap wraps an analyzer with observability middleware
func Wrap(analyzer interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{analyzer: analyzer}
}

func (oa *observableAnalyzer) Analyze(ctx context.Context, companyName, stockCode, newsDesc string) (types.SentimentResult, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Analyze")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting sentiment assessment",
		"company", companyName,
		"ticker", stockCode,
		"digest_len", len(newsDesc),
	)

	result, err := oa.analyzer.Analyze(ctx, companyName, stockCode, newsDesc)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get sentiment assessment", err,
			"company", companyName,
			"ticker", stockCode,
		)
		return types.SentimentResult{}, err
	}

	logger.InfoSkip(ctx, 1, "Sentiment assessment received",
		"company", companyName,
		"ticker", stockCode,
		"sentiment", result.Sentiment,
		"confidence", float64(result.ConfidenceScore),
	)
	return result, nil
}
