package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

// Resolver maps a free-text company name to the most likely listed ticker.
// A nil candidate with a nil error means the search found nothing; callers
// fall back to the raw input string.
type Resolver interface {
	Resolve(ctx context.Context, companyName string) (*types.TickerCandidate, error)
}
