package llm

import "fmt"

// NoNewsPlaceholder stands in for the digest when no recent articles were
// found. It appears both in prompts and in the fallback result.
const NoNewsPlaceholder = "(no recent articles found)"

// SystemPrompt frames the model as an analyst and pins down the output
// expectations; the structured schema is enforced separately by the
// response-schema config.
const SystemPrompt = `You are a senior market analyst.
Given a company name, its stock code, and a short list of recent headlines, produce a structured assessment.

Instructions:
- Read the bullets carefully; use only the given context (do not fabricate).
- Determine one overall sentiment: Positive, Negative, or Neutral.
- Extract named entities (people, places, other companies), and related industries.
- Write a concise, plain-English 'market_implications' (1-3 sentences).
- Provide a numeric confidence between 0.0 and 1.0 (be honest, not always high).
- If news is sparse or mixed, favor Neutral with lower confidence.

Output will be validated against a strict schema by the application.`

const humanTemplate = `Company: %s
Ticker: %s

Recent news (most recent first):
%s

Return ONLY the structured object. Do not add commentary outside fields.`

// HumanPrompt renders the per-run user message. An empty digest is replaced
// by the placeholder so the model never sees a blank section.
func HumanPrompt(companyName, stockCode, newsDesc string) string {
	if newsDesc == "" {
		newsDesc = NoNewsPlaceholder
	}
	return fmt.Sprintf(humanTemplate, companyName, stockCode, newsDesc)
}

// PromptText is the full prompt as logged to the run artifacts.
func PromptText(companyName, stockCode, newsDesc string) string {
	return SystemPrompt + "\n\n" + HumanPrompt(companyName, stockCode, newsDesc)
}
