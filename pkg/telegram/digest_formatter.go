package telegram

import (
	"fmt"
	"strings"
)

// DigestSummary carries the per-run counts shown in the daily notification.
type DigestSummary struct {
	DigestDate            string
	Status                string
	TotalRaw              int
	TotalMerged           int
	TotalCurated          int
	ContinuousFound       int
	ProcessingTimeSeconds float64
	TopHeadlines          []string
	ErrorMessage          string
}

// FormatDigestForTelegram renders a completed (or failed) batch run as a
// Markdown message.
func FormatDigestForTelegram(d DigestSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📰 *Daily News Digest — %s*\n\n", d.DigestDate))

	var statusIcon string
	switch strings.ToLower(d.Status) {
	case "completed":
		statusIcon = "✅"
	case "failed":
		statusIcon = "❌"
	default:
		statusIcon = "⏳"
	}
	b.WriteString(fmt.Sprintf("%s *Status:* %s\n", statusIcon, d.Status))
	b.WriteString(fmt.Sprintf("📥 *Collected:* %d\n", d.TotalRaw))
	b.WriteString(fmt.Sprintf("🔀 *Merged:* %d\n", d.TotalMerged))
	b.WriteString(fmt.Sprintf("⭐ *Curated:* %d\n", d.TotalCurated))
	if d.ContinuousFound > 0 {
		b.WriteString(fmt.Sprintf("🔁 *Continuing stories:* %d\n", d.ContinuousFound))
	}
	b.WriteString(fmt.Sprintf("⏱ *Processing time:* %.1fs\n", d.ProcessingTimeSeconds))

	if len(d.TopHeadlines) > 0 {
		b.WriteString("\n*Top headlines:*\n")
		for i, h := range d.TopHeadlines {
			if i >= 5 {
				break
			}
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, h))
		}
	}

	if d.ErrorMessage != "" {
		b.WriteString(fmt.Sprintf("\n⚠️ *Error:* %s\n", d.ErrorMessage))
	}

	return b.String()
}
