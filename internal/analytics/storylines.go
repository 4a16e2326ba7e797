package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ringside/wrestling-pulse/internal/models"
)

const (
	maxParticipants     = 4
	baseIntensity       = 5.0
	baseFanReception    = 6.0
	repeatIntensityStep = 0.4
	maxScore            = 10.0
	coolingAfter        = 7 * 24 * time.Hour
)

var storylineKeywords = []string{
	"feud", "rivalry", "vs", "versus", "championship", "title", "attack", "betrayal",
	"betray", "alliance", "angle", "confront", "challenge", "heel turn", "showdown",
}

type keywordDelta struct {
	words []string
	delta float64
}

var escalations = []keywordDelta{
	{words: []string{"attack", "assault"}, delta: 2},
	{words: []string{"championship", "title"}, delta: 1.5},
	{words: []string{"betrayal", "betray", "heel turn"}, delta: 2.5},
	{words: []string{"return", "debut"}, delta: 1},
	{words: []string{"injury", "injured", "suspension", "suspended"}, delta: 1.5},
}

var (
	strongPositive = []string{"amazing", "incredible", "epic", "classic", "must-see", "banger", "best"}
	strongNegative = []string{"boring", "terrible", "awful", "worst", "stale", "cringe"}

	concludedWords = []string{"defeated", "defeats", "def.", "wins", "won", "winner", "retained", "retains", "pinned"}
	climaxWords    = []string{"tonight", "this week", "main event"}
	buildingWords  = []string{"announced", "upcoming", "will face", "set for", "next week"}
)

// DetectStorylines groups feud coverage into one storyline per participant set,
// ranked by intensity. The promotion is the first one a record names, or the
// participants' home promotion when coverage never says.
func (a *Analyzer) DetectStorylines(records []models.TextRecord) []models.Storyline {
	byKey := make(map[string]*models.Storyline)
	latest := make(map[string]time.Time)
	var order []string

	for _, rec := range records {
		text := rec.Text()
		content := strings.ToLower(text)

		keywords := matchedWords(content, storylineKeywords)
		if len(keywords) == 0 {
			continue
		}

		participants := a.storylineParticipants(text)
		if len(participants) < 2 {
			continue
		}

		promotion := storylinePromotion(text, participants)
		key := strings.Join(participants, "|")

		story, exists := byKey[key]
		if !exists {
			story = &models.Storyline{
				ID:                nameID("storyline", key),
				Participants:      participants,
				Title:             strings.Join(participants, " vs "),
				Status:            storylineStatus(content),
				IntensityScore:    initialIntensity(content),
				FanReceptionScore: fanReception(content),
				SourceRecords:     []models.TextRecord{rec},
				Keywords:          keywords,
				Promotion:         promotion,
			}
			byKey[key] = story
			latest[key] = rec.Timestamp
			order = append(order, key)
			continue
		}

		if story.Promotion == UnknownLabel {
			story.Promotion = promotion
		}
		story.SourceRecords = append(story.SourceRecords, rec)
		story.IntensityScore = clamp(story.IntensityScore+repeatIntensityStep, 0, maxScore)
		story.Keywords = unionSorted(story.Keywords, keywords)
		if !rec.Timestamp.Before(latest[key]) {
			latest[key] = rec.Timestamp
			story.Status = storylineStatus(content)
		}
	}

	now := a.now()
	storylines := make([]models.Storyline, 0, len(order))
	for _, key := range order {
		story := *byKey[key]
		if story.Status != models.StatusConcluded && now.Sub(latest[key]) > coolingAfter {
			story.Status = models.StatusCooling
		}
		storylines = append(storylines, story)
	}

	sort.SliceStable(storylines, func(i, j int) bool {
		return storylines[i].IntensityScore > storylines[j].IntensityScore
	})

	if len(storylines) > a.opts.MaxStorylines {
		storylines = storylines[:a.opts.MaxStorylines]
	}
	return storylines
}

func storylinePromotion(text string, participants []string) string {
	if p := DetectPromotion(text); p != UnknownLabel {
		return p
	}
	for _, name := range participants {
		if p := HomePromotion(name); p != UnknownLabel {
			return p
		}
	}
	return UnknownLabel
}

// storylineParticipants returns up to four sorted names. Roster matches come
// first; capitalized name pairs fill in only when the roster finds fewer than two.
func (a *Analyzer) storylineParticipants(text string) []string {
	names := ExtractMentions(text, a.roster)

	if len(names) < 2 {
		taken := make(map[string]bool)
		for _, n := range names {
			for _, part := range strings.Fields(strings.ToLower(n)) {
				taken[part] = true
			}
		}
		for _, candidate := range ExtractCapitalizedNames(text) {
			parts := strings.Fields(strings.ToLower(candidate))
			if taken[parts[0]] || taken[parts[1]] {
				continue
			}
			taken[parts[0]], taken[parts[1]] = true, true
			names = append(names, candidate)
		}
	}

	if len(names) > maxParticipants {
		names = names[:maxParticipants]
	}
	sort.Strings(names)
	return names
}

func initialIntensity(content string) float64 {
	score := baseIntensity
	for _, e := range escalations {
		if containsAny(content, e.words...) {
			score += e.delta
		}
	}
	return clamp(score, 0, maxScore)
}

func fanReception(content string) float64 {
	score := baseFanReception
	if containsAny(content, strongPositive...) {
		score += 2
	}
	if containsAny(content, strongNegative...) {
		score -= 1.5
	}
	return clamp(score, 0, maxScore)
}

func storylineStatus(content string) models.StorylineStatus {
	switch {
	case containsAny(content, concludedWords...):
		return models.StatusConcluded
	case containsAny(content, climaxWords...):
		return models.StatusClimax
	case containsAny(content, buildingWords...):
		return models.StatusBuilding
	}
	return models.StatusBuilding
}

func matchedWords(content string, words []string) []string {
	var found []string
	for _, w := range words {
		if strings.Contains(content, w) {
			found = append(found, w)
		}
	}
	sort.Strings(found)
	return found
}

func unionSorted(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		set[s] = true
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// nameID derives a stable ID so the same feud keeps its ID across passes
func nameID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(kind+":"+strings.ToLower(key))).String()
}
