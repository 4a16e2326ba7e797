package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringside/wrestling-pulse/internal/models"
)

func TestNewAnalyzer(t *testing.T) {
	t.Run("Empty roster falls back to default", func(t *testing.T) {
		a := NewAnalyzer(nil, Options{})
		assert.Equal(t, DefaultRoster, a.Roster())
		assert.Equal(t, DefaultOptions(), a.opts)
	})

	t.Run("Roster is trimmed and deduplicated", func(t *testing.T) {
		a := NewAnalyzer([]string{" Gunther ", "gunther", "", "Jey Uso"}, Options{MaxTrends: 3})
		assert.Equal(t, []string{"Gunther", "Jey Uso"}, a.Roster())
		assert.Equal(t, 3, a.opts.MaxTrends)
		assert.Equal(t, DefaultOptions().MaxTopics, a.opts.MaxTopics)
	})

	t.Run("Roster copy is isolated", func(t *testing.T) {
		a := NewAnalyzer([]string{"Gunther"}, Options{})
		roster := a.Roster()
		roster[0] = "Someone Else"
		assert.Equal(t, []string{"Gunther"}, a.Roster())
	})
}

func TestNewAnalyzer_Clock(t *testing.T) {
	fixed := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	a := NewAnalyzer([]string{"Cody Rhodes"}, Options{Now: func() time.Time { return fixed }})

	d := a.Analyze([]models.TextRecord{
		{ID: "x", Title: "Cody Rhodes cuts a promo", Timestamp: fixed.Add(-time.Hour)},
	}, models.Timeframe24h)

	assert.Equal(t, fixed, d.GeneratedAt)
	require.Len(t, d.Emerging, 1)
	assert.Equal(t, "Cody Rhodes", d.Emerging[0].WrestlerName)
}

func TestAnalyze(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes", "Roman Reigns", "CM Punk")

	var records []models.TextRecord
	records = append(records, record("Cody Rhodes spotted", 18*time.Hour))
	records = append(records, repeat("Cody Rhodes and Roman Reigns feud over the championship", 2*time.Hour, 4)...)
	records = append(records, record("CM Punk wins the title in a main event classic", time.Hour))

	dashboard := a.Analyze(records, models.Timeframe24h)

	assert.Equal(t, testNow, dashboard.GeneratedAt)
	assert.Equal(t, models.Timeframe24h, dashboard.Timeframe)
	assert.Equal(t, len(records), dashboard.RecordCount)

	require.Len(t, dashboard.Trends, 1)
	assert.Equal(t, "Cody Rhodes", dashboard.Trends[0].WrestlerName)
	assert.InDelta(t, 300.0, dashboard.Trends[0].ChangePct, 1e-9)

	emerging := make([]string, 0, len(dashboard.Emerging))
	for _, e := range dashboard.Emerging {
		emerging = append(emerging, e.WrestlerName)
	}
	assert.ElementsMatch(t, []string{"Roman Reigns", "CM Punk"}, emerging)

	require.Len(t, dashboard.Storylines, 1)
	assert.Equal(t, "Cody Rhodes vs Roman Reigns", dashboard.Storylines[0].Title)
	assert.Len(t, dashboard.Storylines[0].SourceRecords, 4)

	require.Len(t, dashboard.StorylineMomentum, 1)
	assert.Equal(t, 4, dashboard.StorylineMomentum[0].Mentions)

	assert.NotEmpty(t, dashboard.Topics)
	assert.Len(t, dashboard.Momentum, 3)

	var spike, storyline bool
	for _, alert := range dashboard.Alerts {
		switch alert.Type {
		case models.AlertTrendSpike:
			spike = true
			assert.Equal(t, models.SeverityCritical, alert.Severity)
		case models.AlertStorylineMomentum:
			storyline = true
		}
	}
	assert.True(t, spike)
	assert.True(t, storyline)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := newTestAnalyzer()

	dashboard := a.Analyze(nil, models.Timeframe7d)
	assert.Zero(t, dashboard.RecordCount)
	assert.Empty(t, dashboard.Trends)
	assert.Empty(t, dashboard.Alerts)
	assert.Empty(t, dashboard.Storylines)
	assert.Empty(t, dashboard.Topics)
	assert.Empty(t, dashboard.Momentum)
}

func TestMentions(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes", "Roman Reigns")

	records := []models.TextRecord{
		record("Cody Rhodes and Roman Reigns in an amazing match", time.Hour),
		record("No names here", time.Hour),
	}

	mentions := a.Mentions(records)
	require.Len(t, mentions, 2)
	assert.Equal(t, "Cody Rhodes", mentions[0].WrestlerName)
	assert.Equal(t, "Roman Reigns", mentions[1].WrestlerName)
	assert.Equal(t, records[0].ID, mentions[0].RecordID)
	assert.InDelta(t, 0.9, mentions[0].Sentiment, 1e-9)
}
