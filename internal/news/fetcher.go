// Package news retrieves recent company news from Yahoo Finance, normalizes
// the provider's heterogeneous record shapes, and renders the digest the
// sentiment stage consumes.
package news

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-sentiment/internal/api"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/store"
	"market-sentiment/internal/types"
)

const yahooNewsURL = "https://query2.finance.yahoo.com/v1/finance/search"

// record is one raw provider news entry. Field layout varies between flat
// fields and a nested content object, so every field goes through an
// ordered list of extractors.
type record map[string]any

// Provider is the external news source dependency of the fetcher.
type Provider interface {
	RecentNews(ctx context.Context, ticker string) ([]record, error)
}

// YahooProvider fetches raw news records from the Yahoo Finance search API.
type YahooProvider struct {
	client  *api.Client
	baseURL string
	count   int
	lang    string
	region  string
	retry   *api.RetryConfig
	headers map[string]string
}

// NewYahooProvider builds a provider from the process configuration.
func NewYahooProvider(cfg *store.Config) *YahooProvider {
	headers := api.YahooFinanceHeaders()
	if cfg.Search.UserAgent != "" {
		headers["User-Agent"] = cfg.Search.UserAgent
	}
	return &YahooProvider{
		client:  api.NewClient(api.WithTimeout(10*time.Second), api.WithLogging(true)),
		baseURL: yahooNewsURL,
		count:   25,
		lang:    cfg.Search.Lang,
		region:  cfg.Search.Region,
		retry:   api.DefaultRetryConfig(),
		headers: headers,
	}
}

// RecentNews returns the provider's raw records for the ticker. An empty
// list is a valid, non-error result. Transient failures are retried per the
// retry policy, then the error propagates.
func (p *YahooProvider) RecentNews(ctx context.Context, ticker string) ([]record, error) {
	params := url.Values{}
	params.Set("q", ticker)
	params.Set("quotesCount", "0")
	params.Set("newsCount", strconv.Itoa(p.count))
	params.Set("lang", p.lang)
	params.Set("region", p.region)

	resp, err := p.client.GETWithRetry(ctx, p.baseURL+"?"+params.Encode(), p.retry, p.headers)
	if err != nil {
		return nil, fmt.Errorf("news fetch failed: %w", err)
	}

	var body struct {
		News []record `json:"news"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		return nil, err
	}
	return body.News, nil
}

// Fetcher filters, sorts, and truncates raw news records into NewsItems.
type Fetcher struct {
	provider Provider
	now      func() time.Time
}

var _ interfaces.NewsFetcher = (*Fetcher)(nil)

// NewFetcher creates a fetcher backed by the given provider.
func NewFetcher(provider Provider) *Fetcher {
	return &Fetcher{provider: provider, now: time.Now}
}

// Fetch returns the ticker's news within the lookback window, newest first,
// truncated to topK. Records missing a title, link, or usable timestamp are
// dropped.
func (f *Fetcher) Fetch(ctx context.Context, ticker string, lookbackDays, topK int) ([]types.NewsItem, error) {
	raw, err := f.provider.RecentNews(ctx, ticker)
	if err != nil {
		return nil, err
	}

	cutoff := f.now().UTC().AddDate(0, 0, -lookbackDays)
	items := make([]types.NewsItem, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(extractFirst(r, titleExtractors))
		link := extractFirst(r, linkExtractors)
		if title == "" || link == "" {
			continue
		}
		dt := extractPublished(r)
		if dt == nil || dt.Before(cutoff) {
			continue
		}
		items = append(items, types.NewsItem{
			Title:          title,
			Link:           link,
			Publisher:      extractFirst(r, publisherExtractors),
			PublishedAt:    isoUTC(*dt),
			RelatedTickers: stringSlice(r["relatedTickers"]),
		})
	}

	// Newest first. Lexicographic order on the published_at strings is
	// chronological because isoUTC emits fixed-width zero-padded UTC
	// timestamps for every item.
	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt > items[j].PublishedAt
	})

	if topK < 0 {
		topK = 0
	}
	if len(items) > topK {
		items = items[:topK]
	}

	logger.Debug(ctx, "News fetched", "ticker", ticker, "raw", len(raw), "kept", len(items))
	return items, nil
}

// isoUTC is the single production point for published_at strings: UTC,
// RFC3339, second precision, fixed width.
func isoUTC(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// extractFirst tries each extractor in priority order; first non-empty wins.
func extractFirst(r record, extractors []func(record) string) string {
	for _, ex := range extractors {
		if v := ex(r); v != "" {
			return v
		}
	}
	return ""
}

var titleExtractors = []func(record) string{
	func(r record) string { return str(r["title"]) },
	func(r record) string { return str(dig(r, "content", "title")) },
}

// Link priority: top-level link, then the nested canonical URL, then the
// nested click-through URL.
var linkExtractors = []func(record) string{
	func(r record) string { return str(r["link"]) },
	func(r record) string { return str(dig(r, "content", "canonicalUrl", "url")) },
	func(r record) string { return str(dig(r, "content", "clickThroughUrl", "url")) },
}

var publisherExtractors = []func(record) string{
	func(r record) string { return str(r["publisher"]) },
	func(r record) string { return str(dig(r, "content", "provider", "displayName")) },
}

var publishedExtractors = []func(record) *time.Time{
	func(r record) *time.Time { return epochToTime(r["providerPublishTime"]) },
	func(r record) *time.Time { return isoToTime(str(dig(r, "content", "pubDate"))) },
	func(r record) *time.Time { return epochToTime(r["timePublished"]) },
}

func extractPublished(r record) *time.Time {
	for _, ex := range publishedExtractors {
		if t := ex(r); t != nil {
			return t
		}
	}
	return nil
}

// dig walks nested map fields, returning nil as soon as a step is missing.
func dig(r record, keys ...string) any {
	var cur any = map[string]any(r)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[k]
		if !ok {
			return nil
		}
	}
	return cur
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// epochToTime accepts epoch seconds as a JSON number or numeric string.
func epochToTime(v any) *time.Time {
	var secs float64
	switch n := v.(type) {
	case float64:
		secs = n
	case int64:
		secs = float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		secs = f
	default:
		return nil
	}
	t := time.Unix(int64(secs), 0).UTC()
	return &t
}

func isoToTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
