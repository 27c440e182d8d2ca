package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

// Analyzer turns a company, its ticker, and a rendered news digest into a
// structured sentiment assessment.
type Analyzer interface {
	Analyze(ctx context.Context, companyName, stockCode, newsDesc string) (types.SentimentResult, error)
}
