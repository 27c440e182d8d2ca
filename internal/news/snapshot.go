package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
)

// PageSnapshotter scrapes the Yahoo Finance quote news page into a short
// human-readable headline snapshot. It is strictly best-effort: scrape
// failures and empty pages both yield an empty string, so callers cannot
// tell a broken source from an absent one.
type PageSnapshotter struct {
	timeout      time.Duration
	userAgent    string
	maxHeadlines int
}

var _ interfaces.Snapshotter = (*PageSnapshotter)(nil)

// NewPageSnapshotter creates a snapshotter. An empty userAgent falls back
// to a browser UA.
func NewPageSnapshotter(timeout time.Duration, userAgent string) *PageSnapshotter {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	return &PageSnapshotter{
		timeout:      timeout,
		userAgent:    userAgent,
		maxHeadlines: 10,
	}
}

// Snapshot returns a bullet list of headline texts, or "" when nothing
// could be scraped.
func (s *PageSnapshotter) Snapshot(ctx context.Context, ticker string) string {
	c := colly.NewCollector(
		colly.AllowedDomains("finance.yahoo.com"),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", s.userAgent)
	})

	var headlines []string
	seen := make(map[string]bool)
	c.OnHTML("h3", func(e *colly.HTMLElement) {
		if len(headlines) >= s.maxHeadlines {
			return
		}
		title := headlineText(e.DOM)
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		headlines = append(headlines, "- "+title)
	})

	url := fmt.Sprintf("https://finance.yahoo.com/quote/%s/news", ticker)
	if err := c.Visit(url); err != nil {
		logger.Debug(ctx, "News snapshot unavailable", "ticker", ticker, "error", err)
		return ""
	}
	c.Wait()

	if len(headlines) == 0 {
		return ""
	}
	return strings.Join(headlines, "\n")
}

// headlineText extracts and collapses the text of a headline node.
func headlineText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
