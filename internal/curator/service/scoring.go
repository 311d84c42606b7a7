package service

import (
	"time"

	"pure-price-press/pkg/utils"
)

// Display window lengths in days by effective score tier.
const (
	displayWindowMustSee   = 7
	displayWindowImportant = 3
	displayWindowReference = 1
)

// ImportanceBoost returns the deduplication boost for a cluster of the given
// source count: 1.0 / 1.2 / 1.4 / 1.6 at counts 1 / 2 / 3 / 4+.
func ImportanceBoost(sourceCount int) float64 {
	switch {
	case sourceCount >= 4:
		return 1.6
	case sourceCount == 3:
		return 1.4
	case sourceCount == 2:
		return 1.2
	default:
		return 1.0
	}
}

// SourceBoost returns the additive score bonus for multi-source corroboration.
func SourceBoost(sourceCount int) float64 {
	switch {
	case sourceCount >= 4:
		return 0.6
	case sourceCount == 3:
		return 0.4
	case sourceCount == 2:
		return 0.2
	default:
		return 0
	}
}

// ReportingBoost returns the additive bonus for continuous coverage,
// 0.3 per day beyond the first, capped at 1.0.
func ReportingBoost(reportingDays int) float64 {
	if reportingDays <= 1 {
		return 0
	}
	boost := 0.3 * float64(reportingDays-1)
	if boost > 1.0 {
		return 1.0
	}
	return boost
}

// TimeDecay returns the score penalty for article age. Pinned items skip
// decay entirely; callers handle that in EffectiveScore.
func TimeDecay(firstSeenAt, now time.Time) float64 {
	age := now.Sub(firstSeenAt)
	switch {
	case age <= 24*time.Hour:
		return 0
	case age <= 48*time.Hour:
		return 0.5
	case age <= 72*time.Hour:
		return 1.0
	default:
		return 1.5
	}
}

// EffectiveScore combines base score, corroboration boost, reporting boost,
// and time decay. Never negative; pinned items never decay.
func EffectiveScore(baseScore float64, sourceCount, reportingDays int, firstSeenAt time.Time, isPinned bool, now time.Time) float64 {
	score := baseScore + SourceBoost(sourceCount) + ReportingBoost(reportingDays)
	if !isPinned {
		score -= TimeDecay(firstSeenAt, now)
	}
	if score < 0 {
		return 0
	}
	return score
}

// DisplayWindowDays maps an effective score to a display window length.
// Zero means never shown.
func DisplayWindowDays(effectiveScore float64) int {
	switch {
	case effectiveScore >= 8.0:
		return displayWindowMustSee
	case effectiveScore >= 6.0:
		return displayWindowImportant
	case effectiveScore >= 4.0:
		return displayWindowReference
	default:
		return 0
	}
}

// ShouldDisplay reports whether an item is still within its display window.
// Pinned items display indefinitely.
func ShouldDisplay(firstSeenAt time.Time, effectiveScore float64, isPinned bool, now time.Time) bool {
	if isPinned {
		return true
	}
	window := DisplayWindowDays(effectiveScore)
	if window == 0 {
		return false
	}
	return utils.AgeInWholeDays(firstSeenAt, now) < window
}

// RemainingDisplayTime returns how long an item stays displayable. The second
// return is false for pinned items, whose window is unlimited.
func RemainingDisplayTime(firstSeenAt time.Time, effectiveScore float64, isPinned bool, now time.Time) (time.Duration, bool) {
	if isPinned {
		return 0, false
	}
	window := DisplayWindowDays(effectiveScore)
	if window == 0 {
		return 0, true
	}
	expiry := firstSeenAt.Add(time.Duration(window) * 24 * time.Hour)
	remaining := expiry.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// ScoreLabel returns a human-readable label and display color for a score.
func ScoreLabel(score float64) (string, string) {
	switch {
	case score >= 8.0:
		return "must-see", "red"
	case score >= 6.0:
		return "important", "orange"
	case score >= 4.0:
		return "reference", "blue"
	default:
		return "low-priority", "gray"
	}
}
