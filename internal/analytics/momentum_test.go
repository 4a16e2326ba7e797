package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringside/wrestling-pulse/internal/models"
)

func TestCalculateWrestlerMomentum_AppliesOldestFirst(t *testing.T) {
	a := newTestAnalyzer("CM Punk")

	// newest first on purpose
	records := []models.TextRecord{
		record("CM Punk injured backstage", time.Hour),
		record("CM Punk wins the title in a main event classic", 2*time.Hour),
	}

	momentum := a.CalculateWrestlerMomentum(records)
	require.Len(t, momentum, 1)

	m := momentum[0]
	assert.Equal(t, "CM Punk", m.WrestlerName)
	assert.Equal(t, 2, m.MentionsCount)
	assert.InDelta(t, 5.375, m.PushBurialScore, 1e-9)
	assert.Equal(t, models.TrendNeutral, m.SentimentTrend)
	assert.Equal(t, models.ContractUnknown, m.ContractStatus)
	assert.Equal(t, []string{
		"CM Punk wins the title in a main event classic",
		"CM Punk injured backstage",
	}, m.Evidence)
}

func TestCalculateWrestlerMomentum_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected float64
		trend    models.SentimentTrend
	}{
		{
			name:     "Buried",
			title:    "Seth Rollins buried, released and fired after a loss; injured and suspended",
			expected: 0,
			trend:    models.TrendNegative,
		},
		{
			name:     "Pushed",
			title:    "Seth Rollins wins the title in the main event on his return and gets a massive push",
			expected: 10,
			trend:    models.TrendPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer("Seth Rollins")

			momentum := a.CalculateWrestlerMomentum(repeat(tt.title, time.Hour, 5))
			require.Len(t, momentum, 1)
			assert.InDelta(t, tt.expected, momentum[0].PushBurialScore, 1e-9)
			assert.Equal(t, tt.trend, momentum[0].SentimentTrend)
			assert.Len(t, momentum[0].Evidence, maxEvidence)
		})
	}
}

func TestCalculateWrestlerMomentum_ContractStatus(t *testing.T) {
	tests := []struct {
		name     string
		records  []models.TextRecord
		expected models.ContractStatus
	}{
		{
			name:     "New deal",
			records:  []models.TextRecord{record("Gunther signs a new contract", time.Hour)},
			expected: models.ContractActive,
		},
		{
			name:     "Expiring",
			records:  []models.TextRecord{record("Gunther's contract expires next spring", time.Hour)},
			expected: models.ContractExpiring,
		},
		{
			name:     "Negotiating",
			records:  []models.TextRecord{record("Gunther in talks with AEW", time.Hour)},
			expected: models.ContractNegotiating,
		},
		{
			name: "Latest record wins",
			records: []models.TextRecord{
				record("Gunther signs a new contract", time.Hour),
				record("Gunther's contract expires next spring", 48*time.Hour),
			},
			expected: models.ContractActive,
		},
		{
			name:     "No contract language",
			records:  []models.TextRecord{record("Gunther spotted at the arena", time.Hour)},
			expected: models.ContractUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer("Gunther")

			momentum := a.CalculateWrestlerMomentum(tt.records)
			require.Len(t, momentum, 1)
			assert.Equal(t, tt.expected, momentum[0].ContractStatus)
		})
	}
}

func TestCalculateWrestlerMomentum_Ordering(t *testing.T) {
	a := newTestAnalyzer("Gunther", "Jey Uso", "Bron Breakker", "Rhea Ripley")

	var records []models.TextRecord
	records = append(records, repeat("Jey Uso spotted", time.Hour, 1)...)
	records = append(records, repeat("Bron Breakker spotted", time.Hour, 1)...)
	records = append(records, repeat("Gunther spotted", time.Hour, 3)...)

	momentum := a.CalculateWrestlerMomentum(records)
	require.Len(t, momentum, 3)
	assert.Equal(t, "Gunther", momentum[0].WrestlerName)
	assert.Equal(t, "Bron Breakker", momentum[1].WrestlerName)
	assert.Equal(t, "Jey Uso", momentum[2].WrestlerName)

	for _, m := range momentum {
		assert.InDelta(t, 5.0, m.PushBurialScore, 1e-9)
		assert.Empty(t, m.Evidence)
	}
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, models.TrendPositive, trendFor(6.6))
	assert.Equal(t, models.TrendNeutral, trendFor(6.5))
	assert.Equal(t, models.TrendNeutral, trendFor(4.5))
	assert.Equal(t, models.TrendNegative, trendFor(4.4))
}
