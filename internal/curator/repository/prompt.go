package repository

import (
	"fmt"
	"strings"

	"pure-price-press/internal/entity"
)

// BuildScreeningPrompt builds the relevance screening prompt for a batch of
// merged headlines. Items are numbered from 1 and the model is asked to echo
// the number back as "index".
func BuildScreeningPrompt(items []entity.MergedNews) string {
	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. [%s / %s] %s\n", i+1, item.Source, item.Region, item.Title))
		if item.Summary != "" {
			sb.WriteString(fmt.Sprintf("   Summary: %s\n", item.Summary))
		}
	}

	return fmt.Sprintf(`You are a financial news screener for a stock investor.
Rate each headline below for investment relevance on a 0-10 scale and assign a category.

Categories: earnings, macro, policy, m&a, technology, commodities, market, other

Headlines:
%s
A headline passes screening when its relevance score is 5.0 or higher.

Respond with JSON only, no markdown fences, in this exact format:
{
  "results": [
    {
      "index": 1,
      "relevance_score": 7.5,
      "category": "earnings",
      "passed": true,
      "brief_reason": "short reason"
    }
  ]
}
Return one entry per headline, keeping the same index numbers.`, sb.String())
}

// BuildDeepAnalysisPrompt builds the impact analysis prompt for one article.
func BuildDeepAnalysisPrompt(item entity.MergedNews, watchSymbols []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title: %s\n", item.Title))
	sb.WriteString(fmt.Sprintf("Source: %s (corroborated by %d sources)\n", item.Source, item.SourceCount))
	sb.WriteString(fmt.Sprintf("Region: %s\n", item.Region))
	sb.WriteString(fmt.Sprintf("Published: %s\n", item.PublishedAt.Format("2006-01-02 15:04 MST")))
	if item.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", item.Summary))
	}

	watchList := "none"
	if len(watchSymbols) > 0 {
		watchList = strings.Join(watchSymbols, ", ")
	}

	return fmt.Sprintf(`You are a senior equity analyst. Analyze the market impact of this news article.

%s
Investor watch-list symbols (prioritize these in your analysis): %s

Consider direct impact, supply chain effects, and competitor effects.

Respond with JSON only, no markdown fences, in this exact format:
{
  "importance_score": 8.5,
  "ai_summary": "2-3 sentence summary of the news and its market significance",
  "affected_symbols": ["AAPL", "7203.T"],
  "symbol_impacts": {
    "AAPL": {"direction": "positive", "analysis": "why this symbol is affected"}
  },
  "predicted_impact": "expected market reaction",
  "impact_direction": "positive",
  "supply_chain_analysis": "upstream/downstream effects, or empty string",
  "competitor_analysis": "competitor effects, or empty string",
  "key_points": ["point 1", "point 2"]
}
importance_score is 1-10. impact_direction is one of: positive, negative, mixed, uncertain.`, sb.String(), watchList)
}

// BuildTranslationPrompt builds the prompt that translates display texts into
// Japanese. Texts already in Japanese must come back unchanged.
func BuildTranslationPrompt(texts []string) string {
	var sb strings.Builder
	for i, text := range texts {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, text))
	}

	return fmt.Sprintf(`Translate the following texts into natural Japanese suitable for a financial news digest.
If a text is already in Japanese, return it unchanged. Keep company names, tickers, and numbers as-is.

Texts:
%s
Respond with JSON only, no markdown fences, in this exact format:
{
  "translations": ["translated text 1", "translated text 2"]
}
Return exactly one translation per input, in the same order.`, sb.String())
}
