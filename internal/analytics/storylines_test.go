package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringside/wrestling-pulse/internal/models"
)

func TestDetectStorylines_MergesSameParticipants(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes", "Roman Reigns", "CM Punk")

	records := []models.TextRecord{
		record("Cody Rhodes and Roman Reigns feud continues", 3*time.Hour),
		record("Roman Reigns responds to Cody Rhodes in bitter rivalry", 2*time.Hour),
	}

	storylines := a.DetectStorylines(records)
	require.Len(t, storylines, 1)

	story := storylines[0]
	assert.Equal(t, []string{"Cody Rhodes", "Roman Reigns"}, story.Participants)
	assert.Equal(t, "Cody Rhodes vs Roman Reigns", story.Title)
	assert.Equal(t, "WWE", story.Promotion)
	assert.Len(t, story.SourceRecords, 2)
	assert.InDelta(t, 5.4, story.IntensityScore, 1e-9)
	assert.Equal(t, []string{"feud", "rivalry"}, story.Keywords)
	assert.Equal(t, models.StatusBuilding, story.Status)
	assert.Equal(t, nameID("storyline", "Cody Rhodes|Roman Reigns"), story.ID)
}

func TestDetectStorylines_StableID(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes", "Roman Reigns")
	records := []models.TextRecord{record("Cody Rhodes vs Roman Reigns set for WrestleMania", time.Hour)}

	first := a.DetectStorylines(records)
	second := a.DetectStorylines(records)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "WWE", first[0].Promotion)
}

func TestDetectStorylines_OneStorylinePerParticipantSet(t *testing.T) {
	tests := []struct {
		name      string
		roster    []string
		titles    []string
		promotion string
	}{
		{
			name:   "Promotion named once",
			roster: []string{"Cody Rhodes", "Roman Reigns"},
			titles: []string{
				"Cody Rhodes and Roman Reigns feud heats up on WWE Raw",
				"Cody Rhodes vs Roman Reigns rivalry continues",
			},
			promotion: "WWE",
		},
		{
			name:   "Promotion named only by the later record",
			roster: []string{"Cody Rhodes", "Roman Reigns"},
			titles: []string{
				"Cody Rhodes vs Roman Reigns rivalry continues",
				"Cody Rhodes and Roman Reigns feud mocked on Dynamite",
			},
			promotion: "WWE",
		},
		{
			name:   "Unknown wrestlers pick up the first named promotion",
			roster: []string{"Cody Rhodes"},
			titles: []string{
				"Big Bill confronts Ricky Starks in heated rivalry",
				"Big Bill and Ricky Starks feud spills onto Dynamite",
			},
			promotion: "AEW",
		},
		{
			name:   "Conflicting promotions keep the first",
			roster: []string{"Cody Rhodes", "Roman Reigns"},
			titles: []string{
				"Cody Rhodes and Roman Reigns feud heats up on Raw",
				"Cody Rhodes and Roman Reigns feud mocked on Dynamite",
			},
			promotion: "WWE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(tt.roster...)
			var records []models.TextRecord
			for i, title := range tt.titles {
				records = append(records, record(title, time.Duration(len(tt.titles)-i)*time.Hour))
			}

			storylines := a.DetectStorylines(records)
			require.Len(t, storylines, 1)
			assert.Len(t, storylines[0].SourceRecords, len(tt.titles))
			assert.Equal(t, tt.promotion, storylines[0].Promotion)
		})
	}
}

func TestStorylinePromotion(t *testing.T) {
	assert.Equal(t, "AEW", storylinePromotion("Cody Rhodes appears on Dynamite", []string{"Cody Rhodes", "Roman Reigns"}))
	assert.Equal(t, "WWE", storylinePromotion("a heated feud", []string{"Big Bill", "Cody Rhodes"}))
	assert.Equal(t, UnknownLabel, storylinePromotion("a heated feud", []string{"Big Bill", "Ricky Starks"}))
}

func TestDetectStorylines_SkipsRecords(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes", "Roman Reigns")

	tests := []struct {
		name  string
		title string
	}{
		{name: "No storyline keyword", title: "Cody Rhodes and Roman Reigns share a laugh"},
		{name: "Single participant", title: "Cody Rhodes feud heats up"},
		{name: "No participants", title: "a rivalry nobody asked for"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, a.DetectStorylines([]models.TextRecord{record(tt.title, time.Hour)}))
		})
	}
}

func TestDetectStorylines_CapitalizedFallback(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes")

	storylines := a.DetectStorylines([]models.TextRecord{
		record("Big Bill confronts Ricky Starks in heated rivalry", time.Hour),
	})
	require.Len(t, storylines, 1)
	assert.Equal(t, []string{"Big Bill", "Ricky Starks"}, storylines[0].Participants)
}

func TestDetectStorylines_StatusFollowsLatestRecord(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes", "Roman Reigns")

	records := []models.TextRecord{
		record("Cody Rhodes defeats Roman Reigns in title feud", time.Hour),
		record("Cody Rhodes vs Roman Reigns announced for the title", 48*time.Hour),
	}

	storylines := a.DetectStorylines(records)
	require.Len(t, storylines, 1)
	assert.Equal(t, models.StatusConcluded, storylines[0].Status)
}

func TestDetectStorylines_Cooling(t *testing.T) {
	a := newTestAnalyzer("Cody Rhodes", "Roman Reigns", "Seth Rollins", "CM Punk")

	records := []models.TextRecord{
		record("Cody Rhodes vs Roman Reigns announced", 8*24*time.Hour),
		record("Seth Rollins defeats CM Punk to end their feud", 9*24*time.Hour),
	}

	storylines := a.DetectStorylines(records)
	require.Len(t, storylines, 2)

	status := make(map[string]models.StorylineStatus)
	for _, s := range storylines {
		status[s.Title] = s.Status
	}
	assert.Equal(t, models.StatusCooling, status["Cody Rhodes vs Roman Reigns"])
	assert.Equal(t, models.StatusConcluded, status["CM Punk vs Seth Rollins"])
}

func TestDetectStorylines_RankedAndCapped(t *testing.T) {
	a := NewAnalyzer([]string{"Cody Rhodes", "Roman Reigns", "Drew McIntyre", "Seth Rollins"}, Options{MaxStorylines: 1})
	a.now = func() time.Time { return testNow }

	records := []models.TextRecord{
		record("Cody Rhodes and Roman Reigns rivalry", 2*time.Hour),
		record("Drew McIntyre attacks Seth Rollins for the title", time.Hour),
	}

	storylines := a.DetectStorylines(records)
	require.Len(t, storylines, 1)
	assert.Equal(t, "Drew McIntyre vs Seth Rollins", storylines[0].Title)
	assert.InDelta(t, 8.5, storylines[0].IntensityScore, 1e-9)
}

func TestStorylineScores(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		intensity float64
		reception float64
	}{
		{name: "Plain", content: "a feud", intensity: 5, reception: 6},
		{name: "Attack and title", content: "attack over the title", intensity: 8.5, reception: 6},
		{name: "Capped", content: "attack betrayal title return injured", intensity: 10, reception: 6},
		{name: "Loved", content: "an amazing feud", intensity: 5, reception: 8},
		{name: "Disliked", content: "a boring feud", intensity: 5, reception: 4.5},
		{name: "Mixed", content: "an amazing start to a boring feud", intensity: 5, reception: 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.intensity, initialIntensity(tt.content), 1e-9)
			assert.InDelta(t, tt.reception, fanReception(tt.content), 1e-9)
		})
	}
}

func TestStorylineStatus(t *testing.T) {
	tests := []struct {
		content  string
		expected models.StorylineStatus
	}{
		{content: "cody rhodes defeats roman reigns", expected: models.StatusConcluded},
		{content: "the main event tonight", expected: models.StatusClimax},
		{content: "match announced for next week", expected: models.StatusBuilding},
		{content: "they stare each other down", expected: models.StatusBuilding},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.expected, storylineStatus(tt.content))
		})
	}
}

func TestDetectPromotion(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{text: "WWE NXT Deadline results", expected: "NXT"},
		{text: "AEW Dynamite preview", expected: "AEW"},
		{text: "Monday Night Raw recap", expected: "WWE"},
		{text: "Impact Wrestling returns as TNA", expected: "TNA"},
		{text: "New Japan Pro Wrestling tour announced", expected: "NJPW"},
		{text: "Ring of Honor tapings", expected: "ROH"},
		{text: "A documentary about Vietnam", expected: UnknownLabel},
		{text: "The match was drawn out", expected: UnknownLabel},
		{text: "", expected: UnknownLabel},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPromotion(tt.text))
		})
	}
}

func TestHomePromotion(t *testing.T) {
	assert.Equal(t, "WWE", HomePromotion("Cody Rhodes"))
	assert.Equal(t, "AEW", HomePromotion("  kenny omega "))
	assert.Equal(t, "TNA", HomePromotion("Joe Hendry"))
	assert.Equal(t, "AEW", HomePromotion("Mercedes Moné"))
	assert.Equal(t, UnknownLabel, HomePromotion("Local Jobber"))

	for _, name := range DefaultRoster {
		assert.NotEqual(t, UnknownLabel, HomePromotion(name), name)
	}
}

func TestExtractCapitalizedNames(t *testing.T) {
	names := ExtractCapitalizedNames("Breaking News: Cody Rhodes faces Jey Uso while Cody Rhodes watches")
	assert.Equal(t, []string{"Cody Rhodes", "Jey Uso"}, names)

	assert.Empty(t, ExtractCapitalizedNames("all lowercase text here"))
}
