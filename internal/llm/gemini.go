// Package llm produces the structured market-sentiment assessment via
// Gemini with schema-constrained JSON output, plus the deterministic
// neutral fallback used when there is no news to assess.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/store"
	"market-sentiment/internal/types"
)

var validate = validator.New()

// GeminiAnalyzer calls the Google GenAI API for sentiment analysis.
type GeminiAnalyzer struct {
	client      *genai.Client
	model       string
	temperature float32
}

var _ interfaces.Analyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer initializes the genai client against the public Gemini
// API backend. The Vertex backend is rejected earlier, at config validation.
func NewGeminiAnalyzer(ctx context.Context, cfg *store.Config) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}
	return &GeminiAnalyzer{
		client:      client,
		model:       cfg.LLM.Model,
		temperature: cfg.LLM.Temperature,
	}, nil
}

// Analyze returns a structured sentiment assessment. An empty or
// whitespace-only digest short-circuits into the neutral fallback without
// any LLM call. Invocation errors are not recovered here; they propagate
// to the orchestrator.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, companyName, stockCode, newsDesc string) (types.SentimentResult, error) {
	if strings.TrimSpace(newsDesc) == "" {
		logger.Debug(ctx, "Empty digest, using neutral fallback", "company", companyName)
		return neutralFallback(companyName, stockCode), nil
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(a.temperature),
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    sentimentSchema(),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(HumanPrompt(companyName, stockCode, newsDesc), genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("gemini call failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return types.SentimentResult{}, fmt.Errorf("empty response from gemini")
	}
	text := resp.Text()
	if text == "" {
		return types.SentimentResult{}, fmt.Errorf("empty text in gemini response")
	}

	return decodeResult(text)
}

// decodeResult parses the model output against the strict result schema:
// unknown fields are rejected, structural violations surface as errors,
// and the confidence is clamped into range afterwards.
func decodeResult(text string) (types.SentimentResult, error) {
	var result types.SentimentResult
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return types.SentimentResult{}, fmt.Errorf("sentiment result does not match schema: %w", err)
	}
	if err := validate.Struct(&result); err != nil {
		return types.SentimentResult{}, fmt.Errorf("sentiment result failed validation: %w", err)
	}
	result.Normalize()
	return result, nil
}

// neutralFallback is the deterministic no-news result: Neutral with low
// confidence and a canned implications sentence.
func neutralFallback(companyName, stockCode string) types.SentimentResult {
	r := types.SentimentResult{
		CompanyName:        companyName,
		StockCode:          stockCode,
		NewsDesc:           NoNewsPlaceholder,
		Sentiment:          "Neutral",
		MarketImplications: "Insufficient recent coverage; no clear directional signal.",
		ConfidenceScore:    0.2,
	}
	r.Normalize()
	return r
}

// sentimentSchema constrains the model output to exactly the result shape.
func sentimentSchema() *genai.Schema {
	stringArray := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: desc,
		}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"company_name": {Type: genai.TypeString, Description: "Canonical name of the company being analyzed."},
			"stock_code":   {Type: genai.TypeString, Description: "Resolved stock ticker/symbol."},
			"newsdesc":     {Type: genai.TypeString, Description: "Short bullet list of recent headlines with links."},
			"sentiment": {
				Type:        genai.TypeString,
				Enum:        []string{"Positive", "Negative", "Neutral"},
				Description: "Overall market sentiment.",
			},
			"people_names":             stringArray("People referenced in the news."),
			"places_names":             stringArray("Places referenced."),
			"other_companies_referred": stringArray("Other companies mentioned."),
			"related_industries":       stringArray("Related industries/sectors."),
			"market_implications":      {Type: genai.TypeString, Description: "Short analyst-style implications for the market."},
			"confidence_score":         {Type: genai.TypeNumber, Description: "0.0-1.0 confidence in the sentiment assessment."},
		},
		Required: []string{
			"company_name", "stock_code", "newsdesc", "sentiment",
			"people_names", "places_names", "other_companies_referred",
			"related_industries", "market_implications", "confidence_score",
		},
	}
}
