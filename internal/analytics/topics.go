package analytics

import (
	"sort"
	"strings"

	"github.com/ringside/wrestling-pulse/internal/models"
)

const (
	topicGrowthPerHit   = 5.0
	maxRelatedWrestlers = 5
)

type topicEntry struct {
	keywords []string
	title    string
}

var topicTaxonomy = []topicEntry{
	{keywords: []string{"championship", "title", "belt", "champion"}, title: "Championship Scene"},
	{keywords: []string{"feud", "rivalry", "storyline", "grudge"}, title: "Feuds & Rivalries"},
	{keywords: []string{"injury", "injured", "surgery", "medical"}, title: "Injury Report"},
	{keywords: []string{"contract", "signed", "signing", "free agent", "released"}, title: "Contracts & Signings"},
	{keywords: []string{"return", "debut", "comeback", "surprise"}, title: "Returns & Debuts"},
	{keywords: []string{"wrestlemania", "summerslam", "royal rumble", "all in", "premium live event", "ppv"}, title: "Premium Live Events"},
	{keywords: []string{"backstage", "creative", "booking", "tony khan", "triple h"}, title: "Backstage News"},
	{keywords: []string{"heel turn", "face turn", "betray"}, title: "Character Turns"},
	{keywords: []string{"cm punk"}, title: "CM Punk"},
	{keywords: []string{"roman reigns", "bloodline", "tribal chief"}, title: "Roman Reigns"},
	{keywords: []string{"cody rhodes", "american nightmare"}, title: "Cody Rhodes"},
	{keywords: []string{"aew", "dynamite", "collision"}, title: "AEW"},
	{keywords: []string{"nxt"}, title: "NXT"},
}

// GenerateTrendingTopics buckets records into the fixed topic taxonomy. One
// record can count toward several topics.
func (a *Analyzer) GenerateTrendingTopics(records []models.TextRecord) []models.TrendingTopic {
	topics := make([]*models.TrendingTopic, len(topicTaxonomy))

	for _, rec := range records {
		text := rec.Text()
		content := strings.ToLower(text)

		var score float64
		var names []string
		scored := false

		for i, entry := range topicTaxonomy {
			if !containsAny(content, entry.keywords...) {
				continue
			}
			if !scored {
				score = AnalyzeSentiment(text).Score
				names = ExtractCapitalizedNames(text)
				scored = true
			}

			t := topics[i]
			if t == nil {
				t = &models.TrendingTopic{Title: entry.title, Sentiment: score}
				topics[i] = t
			} else {
				t.Sentiment = (t.Sentiment + score) / 2
			}
			t.Mentions++
			t.GrowthRate += topicGrowthPerHit
			t.RelatedWrestlers = appendCapped(t.RelatedWrestlers, names, maxRelatedWrestlers)
		}
	}

	var out []models.TrendingTopic
	for _, t := range topics {
		if t != nil {
			if t.RelatedWrestlers == nil {
				t.RelatedWrestlers = []string{}
			}
			out = append(out, *t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mentions > out[j].Mentions
	})

	if len(out) > a.opts.MaxTopics {
		out = out[:a.opts.MaxTopics]
	}
	return out
}

func appendCapped(existing, add []string, limit int) []string {
	for _, name := range add {
		if len(existing) >= limit {
			break
		}
		dup := false
		for _, e := range existing {
			if e == name {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, name)
		}
	}
	return existing
}
