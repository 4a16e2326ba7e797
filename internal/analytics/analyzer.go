// Package analytics turns fetched wrestling coverage into sentiment, storyline,
// trend, topic and push/burial signals. Every function is a pure pass over an
// in-memory batch of records: nothing blocks, nothing is shared between calls.
package analytics

import (
	"strings"
	"time"

	"github.com/ringside/wrestling-pulse/internal/models"
)

// DefaultRoster is used when no roster is configured
var DefaultRoster = []string{
	"Cody Rhodes", "Roman Reigns", "CM Punk", "Seth Rollins", "Drew McIntyre",
	"Gunther", "Jey Uso", "Randy Orton", "Kevin Owens", "Sami Zayn",
	"LA Knight", "Damian Priest", "Logan Paul", "John Cena", "Rhea Ripley",
	"Bianca Belair", "Liv Morgan", "Iyo Sky", "Tiffany Stratton", "Jade Cargill",
	"Jon Moxley", "Kenny Omega", "Will Ospreay", "Swerve Strickland", "Hangman Page",
	"Darby Allin", "Orange Cassidy", "Adam Cole", "Bryan Danielson", "Mercedes Mone",
	"Toni Storm", "Mariah May", "Kazuchika Okada", "Zack Sabre", "Bron Breakker",
	"Oba Femi", "Trick Williams", "Joe Hendry", "Nic Nemeth", "Goldberg",
}

// Options caps the length of the ranked outputs. Now sets the clock that
// windows and timestamps are measured against; nil means time.Now.
type Options struct {
	MaxStorylines int
	MaxTrends     int
	MaxTopics     int
	Now           func() time.Time
}

// DefaultOptions returns the caps the dashboard widgets display
func DefaultOptions() Options {
	return Options{
		MaxStorylines: 15,
		MaxTrends:     10,
		MaxTopics:     10,
	}
}

// Analyzer runs the pipeline for a fixed roster of tracked wrestlers
type Analyzer struct {
	roster []string
	opts   Options
	now    func() time.Time
}

// NewAnalyzer creates an analyzer; an empty roster falls back to DefaultRoster
func NewAnalyzer(roster []string, opts Options) *Analyzer {
	cleaned := make([]string, 0, len(roster))
	seen := make(map[string]bool)
	for _, name := range roster {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultRoster...)
	}

	defaults := DefaultOptions()
	if opts.MaxStorylines <= 0 {
		opts.MaxStorylines = defaults.MaxStorylines
	}
	if opts.MaxTrends <= 0 {
		opts.MaxTrends = defaults.MaxTrends
	}
	if opts.MaxTopics <= 0 {
		opts.MaxTopics = defaults.MaxTopics
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Analyzer{
		roster: cleaned,
		opts:   opts,
		now:    now,
	}
}

// Roster returns the tracked names
func (a *Analyzer) Roster() []string {
	return append([]string(nil), a.roster...)
}

// Analyze runs every stage over records and assembles the dashboard
func (a *Analyzer) Analyze(records []models.TextRecord, timeframe models.Timeframe) models.Dashboard {
	now := a.now().UTC()

	trends := a.AnalyzeWrestlerTrends(records, timeframe)
	storylineMomentum := a.TrackStorylineMomentum(records)

	alerts := GenerateTrendAlerts(trends, now)
	alerts = append(alerts, GenerateStorylineAlerts(storylineMomentum, now)...)

	return models.Dashboard{
		GeneratedAt:       now,
		Timeframe:         timeframe,
		RecordCount:       len(records),
		Trends:            trends,
		Emerging:          a.EmergingWrestlers(records, timeframe),
		Alerts:            alerts,
		Storylines:        a.DetectStorylines(records),
		StorylineMomentum: storylineMomentum,
		Topics:            a.GenerateTrendingTopics(records),
		Momentum:          a.CalculateWrestlerMomentum(records),
	}
}

// Mentions lists every roster mention in records with its sentiment
func (a *Analyzer) Mentions(records []models.TextRecord) []models.WrestlerMention {
	var mentions []models.WrestlerMention
	for _, rec := range records {
		text := rec.Text()
		names := ExtractMentions(text, a.roster)
		if len(names) == 0 {
			continue
		}
		score := AnalyzeSentiment(text).Score
		for _, name := range names {
			mentions = append(mentions, models.WrestlerMention{
				WrestlerName: name,
				RecordID:     rec.ID,
				Sentiment:    score,
				Timestamp:    rec.Timestamp,
			})
		}
	}
	return mentions
}

// containsAny reports whether any of words is a substring of content
func containsAny(content string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(content, w) {
			return true
		}
	}
	return false
}
