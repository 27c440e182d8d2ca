// Package ticker resolves a free-text company name to a likely stock symbol:
// curated table first, then the Yahoo Finance search endpoint with a simple
// boost-based re-ranking of the returned candidates.
package ticker

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"market-sentiment/internal/api"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/store"
	"market-sentiment/internal/types"
)

const yahooSearchURL = "https://query2.finance.yahoo.com/v1/finance/search"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// normalize lowercases, collapses non-alphanumeric runs to single spaces,
// and trims. Used for curated lookups and name-token matching.
func normalize(s string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(s), " "))
}

// Searcher is the external fuzzy-search dependency of the resolver.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.TickerCandidate, error)
}

// YahooSearcher queries the Yahoo Finance search API.
type YahooSearcher struct {
	client  *api.Client
	baseURL string
	count   int
	lang    string
	region  string
	retry   *api.RetryConfig
	headers map[string]string
}

// NewYahooSearcher builds a searcher from the process configuration.
func NewYahooSearcher(cfg *store.Config) *YahooSearcher {
	headers := api.YahooFinanceHeaders()
	if cfg.Search.UserAgent != "" {
		headers["User-Agent"] = cfg.Search.UserAgent
	}
	return &YahooSearcher{
		client:  api.NewClient(api.WithTimeout(10*time.Second), api.WithLogging(true)),
		baseURL: yahooSearchURL,
		count:   cfg.Search.Count,
		lang:    cfg.Search.Lang,
		region:  cfg.Search.Region,
		retry:   api.DefaultRetryConfig(),
		headers: headers,
	}
}

// yahooQuote mirrors one entry of the search response's quotes array.
type yahooQuote struct {
	Symbol    string  `json:"symbol"`
	ShortName string  `json:"shortname"`
	LongName  string  `json:"longname"`
	Exchange  string  `json:"exchange"`
	Score     float64 `json:"score"`
	TypeDisp  string  `json:"typeDisp"`
	ExchDisp  string  `json:"exchDisp"`
}

// Search calls the search endpoint and converts the quotes into candidates.
// Transient failures are retried per the client's retry policy; the final
// error propagates to the caller.
func (s *YahooSearcher) Search(ctx context.Context, query string) ([]types.TickerCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(s.count))
	params.Set("newsCount", "0")
	params.Set("lang", s.lang)
	params.Set("region", s.region)

	resp, err := s.client.GETWithRetry(ctx, s.baseURL+"?"+params.Encode(), s.retry, s.headers)
	if err != nil {
		return nil, fmt.Errorf("ticker search failed: %w", err)
	}

	var body struct {
		Quotes []yahooQuote `json:"quotes"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		return nil, err
	}

	out := make([]types.TickerCandidate, 0, len(body.Quotes))
	for _, q := range body.Quotes {
		shortname := q.ShortName
		if shortname == "" {
			shortname = q.LongName
		}
		out = append(out, types.TickerCandidate{
			Symbol:    q.Symbol,
			ShortName: shortname,
			LongName:  q.LongName,
			Exchange:  q.Exchange,
			Score:     q.Score,
			TypeDisp:  q.TypeDisp,
			ExchDisp:  q.ExchDisp,
		})
	}
	return out, nil
}

// Resolver maps company names to ticker candidates.
type Resolver struct {
	searcher     Searcher
	preferEquity bool
}

var _ interfaces.Resolver = (*Resolver)(nil)

// NewResolver creates a resolver backed by the given searcher.
func NewResolver(searcher Searcher, preferEquity bool) *Resolver {
	return &Resolver{searcher: searcher, preferEquity: preferEquity}
}

// Resolve returns the best ticker candidate for the company name, or nil
// when the search produced no candidates. Curated names short-circuit with
// score 1.0 and no external call.
func (r *Resolver) Resolve(ctx context.Context, companyName string) (*types.TickerCandidate, error) {
	key := normalize(companyName)
	if e, ok := curated[key]; ok {
		logger.Debug(ctx, "Resolved from curated table", "company", companyName, "symbol", e.Symbol)
		return &types.TickerCandidate{
			Symbol:    e.Symbol,
			ShortName: e.Name,
			LongName:  e.Name,
			Exchange:  e.Exchange,
			Score:     1.0,
			TypeDisp:  "EQUITY",
			ExchDisp:  e.Exchange,
		}, nil
	}

	candidates, err := r.searcher.Search(ctx, companyName)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	bestScore := r.boostScore(best, key)
	for _, c := range candidates[1:] {
		if score := r.boostScore(c, key); score > bestScore {
			best, bestScore = c, score
		}
	}
	best.Score = bestScore
	return &best, nil
}

// boostScore re-ranks a provider candidate: equity-like instruments get
// +1.5 (when preferEquity) and candidates whose combined name contains
// every token of the target get +1.0.
func (r *Resolver) boostScore(c types.TickerCandidate, targetNorm string) float64 {
	score := c.Score
	if r.preferEquity {
		switch strings.ToUpper(c.TypeDisp) {
		case "EQUITY", "COMMON STOCK", "ETF":
			score += 1.5
		}
	}
	combined := normalize(c.ShortName + " " + c.LongName)
	allContained := true
	for _, tok := range strings.Fields(targetNorm) {
		if !strings.Contains(combined, tok) {
			allContained = false
			break
		}
	}
	if allContained && targetNorm != "" {
		score += 1.0
	}
	return score
}
