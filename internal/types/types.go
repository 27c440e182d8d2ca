package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TickerCandidate is one search result from the ticker resolution step.
// Score is the provider relevance score, possibly boosted during re-ranking.
type TickerCandidate struct {
	Symbol    string  `json:"symbol"`
	ShortName string  `json:"shortname"`
	LongName  string  `json:"longname,omitempty"`
	Exchange  string  `json:"exchange,omitempty"`
	Score     float64 `json:"score"`
	TypeDisp  string  `json:"typeDisp,omitempty"`
	ExchDisp  string  `json:"exchDisp,omitempty"`
}

// DisplayName returns the best human-readable name for the candidate.
func (c TickerCandidate) DisplayName() string {
	if c.ShortName != "" {
		return c.ShortName
	}
	if c.LongName != "" {
		return c.LongName
	}
	return c.Symbol
}

// NewsItem is a normalized news record. Title and Link are always non-empty;
// records that fail extraction are dropped before a NewsItem is built.
// PublishedAt is a fixed-width UTC RFC3339 string (or empty when unknown).
type NewsItem struct {
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	Publisher      string   `json:"publisher,omitempty"`
	PublishedAt    string   `json:"published_at"`
	RelatedTickers []string `json:"related_tickers"`
}

// Confidence tolerates non-numeric JSON values: numbers are taken as-is,
// numeric strings are parsed, anything else falls back to 0.5. Range
// clamping happens later in SentimentResult.Normalize.
type Confidence float64

func (c *Confidence) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*c = Confidence(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*c = Confidence(f)
			return nil
		}
	}
	*c = 0.5
	return nil
}

// SentimentResult is the structured assessment produced once per run.
type SentimentResult struct {
	CompanyName            string     `json:"company_name" validate:"required"`
	StockCode              string     `json:"stock_code" validate:"required"`
	NewsDesc               string     `json:"newsdesc" validate:"required"`
	Sentiment              string     `json:"sentiment" validate:"required,oneof=Positive Negative Neutral"`
	PeopleNames            []string   `json:"people_names"`
	PlacesNames            []string   `json:"places_names"`
	OtherCompaniesReferred []string   `json:"other_companies_referred"`
	RelatedIndustries      []string   `json:"related_industries"`
	MarketImplications     string     `json:"market_implications"`
	ConfidenceScore        Confidence `json:"confidence_score"`
}

// Normalize clamps the confidence into [0,1] and replaces nil entity slices
// with empty ones so the serialized result always carries arrays.
func (r *SentimentResult) Normalize() {
	if r.ConfidenceScore < 0 {
		r.ConfidenceScore = 0
	}
	if r.ConfidenceScore > 1 {
		r.ConfidenceScore = 1
	}
	if r.PeopleNames == nil {
		r.PeopleNames = []string{}
	}
	if r.PlacesNames == nil {
		r.PlacesNames = []string{}
	}
	if r.OtherCompaniesReferred == nil {
		r.OtherCompaniesReferred = []string{}
	}
	if r.RelatedIndustries == nil {
		r.RelatedIndustries = []string{}
	}
}
