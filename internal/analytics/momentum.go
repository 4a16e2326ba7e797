package analytics

import (
	"sort"
	"strings"

	"github.com/ringside/wrestling-pulse/internal/models"
)

const (
	neutralPushScore = 5.0
	positiveTrendAt  = 6.5
	negativeTrendAt  = 4.5
	maxEvidence      = 3
)

var pushSignals = []keywordDelta{
	{words: []string{"champion", "title"}, delta: 2},
	{words: []string{"main event", "headline"}, delta: 1.5},
	{words: []string{"win", "victory"}, delta: 1},
	{words: []string{"return", "comeback"}, delta: 1.5},
	{words: []string{"push", "elevated"}, delta: 2},
	{words: []string{"lose", "loss", "defeat"}, delta: -1},
	{words: []string{"injury", "injured"}, delta: -1.5},
	{words: []string{"buried", "jobber"}, delta: -2},
	{words: []string{"release", "fired"}, delta: -3},
	{words: []string{"suspended"}, delta: -2},
}

// CalculateWrestlerMomentum classifies each rostered wrestler as being pushed
// or buried. Records are applied oldest first; each one pulls the score halfway
// toward its own signal.
func (a *Analyzer) CalculateWrestlerMomentum(records []models.TextRecord) []models.WrestlerMomentum {
	ordered := append([]models.TextRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var out []models.WrestlerMomentum
	for _, name := range a.roster {
		m := models.WrestlerMomentum{
			WrestlerName:    name,
			PushBurialScore: neutralPushScore,
			ContractStatus:  models.ContractUnknown,
		}

		for _, rec := range ordered {
			text := rec.Text()
			if !IsWrestlerMentioned(name, text) {
				continue
			}
			content := strings.ToLower(text)

			m.MentionsCount++
			push := pushScore(content)
			m.PushBurialScore = clamp((m.PushBurialScore+push+5)/2, 0, maxScore)
			if push != 0 && len(m.Evidence) < maxEvidence {
				m.Evidence = append(m.Evidence, rec.Title)
			}
			if status, ok := contractStatus(content); ok {
				m.ContractStatus = status
			}
		}

		if m.MentionsCount == 0 {
			continue
		}
		m.SentimentTrend = trendFor(m.PushBurialScore)
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MentionsCount != out[j].MentionsCount {
			return out[i].MentionsCount > out[j].MentionsCount
		}
		return out[i].WrestlerName < out[j].WrestlerName
	})
	return out
}

func pushScore(content string) float64 {
	var score float64
	for _, s := range pushSignals {
		if containsAny(content, s.words...) {
			score += s.delta
		}
	}
	return score
}

func trendFor(score float64) models.SentimentTrend {
	switch {
	case score > positiveTrendAt:
		return models.TrendPositive
	case score < negativeTrendAt:
		return models.TrendNegative
	}
	return models.TrendNeutral
}

// contractStatus reads contract language; expiring and negotiating are more
// specific than a generic new deal, so they are checked first.
func contractStatus(content string) (models.ContractStatus, bool) {
	switch {
	case containsAny(content, "expires", "expiring"):
		return models.ContractExpiring, true
	case containsAny(content, "negotiat", "talks"):
		return models.ContractNegotiating, true
	case containsAny(content, "contract", "signing", "deal") && containsAny(content, "new", "signed"):
		return models.ContractActive, true
	}
	return "", false
}
