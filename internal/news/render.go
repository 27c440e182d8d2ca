package news

import (
	"fmt"
	"strings"

	"market-sentiment/internal/types"
)

// RenderDigest turns an ordered sequence of news items into the bullet-list
// digest fed to the sentiment prompt: one `- YYYY-MM-DD [publisher]: title
// (link)` line per item, the publisher bracket omitted when absent.
func RenderDigest(items []types.NewsItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		date := it.PublishedAt
		if len(date) > 10 {
			date = date[:10]
		}
		pub := ""
		if it.Publisher != "" {
			pub = fmt.Sprintf(" [%s]", it.Publisher)
		}
		lines = append(lines, fmt.Sprintf("- %s%s: %s (%s)", date, pub, it.Title, it.Link))
	}
	return strings.Join(lines, "\n")
}
