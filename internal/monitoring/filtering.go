package monitoring

import (
	"strings"

	"github.com/ringside/wrestling-pulse/internal/analytics"
	"github.com/ringside/wrestling-pulse/internal/models"
)

// Social searches for "Raw" or "Impact" pull in plenty of unrelated posts
var offTopicIndicators = []string{
	"raw food", "raw milk", "raw vegan", "raw denim", "raw footage", "raw data",
	"impact investing", "impact factor", "collision repair", "car collision",
	"stock market", "crypto", "nft",
}

var wrestlingIndicators = []string{
	"wrestl", "title match", "championship", "promo", "heel", "babyface",
	"pay-per-view", "ppv", "tag team", "booker", "kayfabe",
}

func filterRelevant(records []models.TextRecord, roster []string) []models.TextRecord {
	var filtered []models.TextRecord
	for _, rec := range records {
		if isRelevantRecord(rec, roster) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// isRelevantRecord keeps news feed items as-is and requires social posts to be
// about wrestling
func isRelevantRecord(rec models.TextRecord, roster []string) bool {
	if rec.SourceType == models.SourceNews {
		return true
	}

	text := rec.Text()
	for _, name := range roster {
		if analytics.IsWrestlerMentioned(name, text) {
			return true
		}
	}

	content := strings.ToLower(text)
	if strings.Contains(content, "wrestl") {
		return true
	}
	for _, indicator := range offTopicIndicators {
		if strings.Contains(content, indicator) {
			return false
		}
	}

	if analytics.DetectPromotion(text) != analytics.UnknownLabel {
		return true
	}
	for _, indicator := range wrestlingIndicators {
		if strings.Contains(content, indicator) {
			return true
		}
	}
	return false
}
