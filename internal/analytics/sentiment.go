package analytics

import (
	"strings"

	"github.com/ringside/wrestling-pulse/internal/models"
)

const neutralSentiment = 0.5

var positiveWords = []string{
	"champion", "victory", "win", "amazing", "incredible", "awesome", "great", "best",
	"push", "return", "classic", "epic", "legendary", "love", "banger",
}

var negativeWords = []string{
	"lost", "loss", "injury", "injured", "buried", "fired", "released", "boring",
	"terrible", "worst", "awful", "hate", "suspended", "botch",
}

// AnalyzeSentiment scores text by counting positive and negative keyword occurrences.
// The score is 0.5 when the counts are equal and moves toward 0.1 or 0.9 as one side dominates.
func AnalyzeSentiment(text string) models.SentimentResult {
	content := strings.ToLower(text)
	words := len(strings.Fields(content))
	if words == 0 {
		return models.SentimentResult{Score: neutralSentiment}
	}

	var matched []string
	positiveCount := 0
	for _, word := range positiveWords {
		if n := strings.Count(content, word); n > 0 {
			positiveCount += n
			matched = append(matched, word)
		}
	}

	negativeCount := 0
	for _, word := range negativeWords {
		if n := strings.Count(content, word); n > 0 {
			negativeCount += n
			matched = append(matched, word)
		}
	}

	score := neutralSentiment
	total := float64(positiveCount + negativeCount)
	if positiveCount > negativeCount {
		score = neutralSentiment + float64(positiveCount)/total*0.4
	} else if negativeCount > positiveCount {
		score = neutralSentiment - float64(negativeCount)/total*0.4
	}

	return models.SentimentResult{
		Score:           clamp(score, 0, 1),
		Magnitude:       clamp(total/float64(words), 0, 1),
		MatchedKeywords: matched,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
