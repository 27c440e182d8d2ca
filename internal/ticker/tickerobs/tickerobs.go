package tickerobs

import (
	"context"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

// observableResolver wraps a Resolver with observability (logging & tracing)
type observableResolver struct {
	resolver interfaces.Resolver
}

// Compile-time interface check
var _ interfaces.Resolver = (*observableResolver)(nil)

// Wrap wraps a resolver with observability middleware
func Wrap(resolver interfaces.Resolver) interfaces.Resolver {
	return &observableResolver{resolver: resolver}
}

func (or *observableResolver) Resolve(ctx context.Context, companyName string) (*types.TickerCandidate, error) {
	ctx, span := trace.StartSpan(ctx, "ticker.Resolve")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Resolving company name", "company", companyName)

	cand, err := or.resolver.Resolve(ctx, companyName)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to resolve ticker", err, "company", companyName)
		return nil, err
	}

	if cand == nil {
		logger.InfoSkip(ctx, 1, "No ticker candidates found", "company", companyName)
		return nil, nil
	}

	logger.InfoSkip(ctx, 1, "Ticker resolved",
		"company", companyName,
		"symbol", cand.Symbol,
		"exchange", cand.ExchDisp,
		"score", cand.Score,
	)
	return cand, nil
}
