package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ringside/wrestling-pulse/internal/models"
)

const (
	directionThreshold = 15.0

	spikeThreshold    = 50.0
	spikeHigh         = 100.0
	spikeCritical     = 200.0
	shiftThreshold    = 0.15
	shiftHigh         = 0.25
	storylinePeak     = 80.0
	storylineCritical = 95.0
	storylineCool     = 30.0

	storylineWindow = 7 * 24 * time.Hour
)

// ParseTimeframe validates a timeframe string
func ParseTimeframe(s string) (models.Timeframe, error) {
	tf := models.Timeframe(strings.ToLower(strings.TrimSpace(s)))
	if tf.Duration() == 0 {
		return "", fmt.Errorf("unsupported timeframe %q (want 24h, 7d or 30d)", s)
	}
	return tf, nil
}

type periodTally struct {
	current, previous       int
	currentSum, previousSum float64
}

func (p periodTally) currentAvg() float64 {
	if p.current == 0 {
		return neutralSentiment
	}
	return p.currentSum / float64(p.current)
}

func (p periodTally) previousAvg() float64 {
	if p.previous == 0 {
		return neutralSentiment
	}
	return p.previousSum / float64(p.previous)
}

// tallyWindow counts roster mentions in each half of the window ending now
func (a *Analyzer) tallyWindow(records []models.TextRecord, timeframe models.Timeframe) map[string]*periodTally {
	now := a.now()
	cutoff := now.Add(-timeframe.Duration())
	midpoint := cutoff.Add(now.Sub(cutoff) / 2)

	tallies := make(map[string]*periodTally)
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		text := rec.Text()
		names := ExtractMentions(text, a.roster)
		if len(names) == 0 {
			continue
		}
		score := AnalyzeSentiment(text).Score
		current := !rec.Timestamp.Before(midpoint)

		for _, name := range names {
			t, ok := tallies[name]
			if !ok {
				t = &periodTally{}
				tallies[name] = t
			}
			if current {
				t.current++
				t.currentSum += score
			} else {
				t.previous++
				t.previousSum += score
			}
		}
	}
	return tallies
}

// AnalyzeWrestlerTrends compares mention volume and sentiment between the
// earlier and later halves of timeframe. Wrestlers without earlier-half
// mentions are left out; see EmergingWrestlers.
func (a *Analyzer) AnalyzeWrestlerTrends(records []models.TextRecord, timeframe models.Timeframe) []models.WrestlerTrend {
	if timeframe.Duration() == 0 {
		return nil
	}

	tallies := a.tallyWindow(records, timeframe)

	var trends []models.WrestlerTrend
	for _, name := range a.roster {
		t, ok := tallies[name]
		if !ok || t.previous == 0 {
			continue
		}

		changePct := float64(t.current-t.previous) / float64(t.previous) * 100
		sentimentDelta := t.currentAvg() - t.previousAvg()

		trends = append(trends, models.WrestlerTrend{
			WrestlerName:           name,
			CurrentPeriodMentions:  t.current,
			PreviousPeriodMentions: t.previous,
			ChangePct:              changePct,
			SentimentCurrent:       t.currentAvg(),
			SentimentPrevious:      t.previousAvg(),
			TrendingDirection:      directionFor(changePct),
			MomentumScore:          clamp(changePct/2+sentimentDelta*50+50, 0, 100),
			Timeframe:              timeframe,
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return math.Abs(trends[i].ChangePct) > math.Abs(trends[j].ChangePct)
	})

	if len(trends) > a.opts.MaxTrends {
		trends = trends[:a.opts.MaxTrends]
	}
	return trends
}

// EmergingWrestlers returns wrestlers mentioned only in the later half of timeframe
func (a *Analyzer) EmergingWrestlers(records []models.TextRecord, timeframe models.Timeframe) []models.EmergingWrestler {
	if timeframe.Duration() == 0 {
		return nil
	}

	tallies := a.tallyWindow(records, timeframe)

	var emerging []models.EmergingWrestler
	for _, name := range a.roster {
		t, ok := tallies[name]
		if !ok || t.previous > 0 || t.current == 0 {
			continue
		}
		emerging = append(emerging, models.EmergingWrestler{
			WrestlerName:          name,
			CurrentPeriodMentions: t.current,
			SentimentCurrent:      t.currentAvg(),
			Timeframe:             timeframe,
		})
	}

	sort.SliceStable(emerging, func(i, j int) bool {
		return emerging[i].CurrentPeriodMentions > emerging[j].CurrentPeriodMentions
	})
	return emerging
}

func directionFor(changePct float64) models.Direction {
	switch {
	case changePct > directionThreshold:
		return models.DirectionRising
	case changePct < -directionThreshold:
		return models.DirectionFalling
	}
	return models.DirectionStable
}

// GenerateTrendAlerts raises spike and sentiment-shift alerts for trends that
// cross the fixed thresholds.
func GenerateTrendAlerts(trends []models.WrestlerTrend, now time.Time) []models.TrendAlert {
	var alerts []models.TrendAlert

	for _, t := range trends {
		if t.PreviousPeriodMentions == 0 {
			continue
		}

		if change := math.Abs(t.ChangePct); change > spikeThreshold {
			severity := models.SeverityMedium
			switch {
			case change > spikeCritical:
				severity = models.SeverityCritical
			case change > spikeHigh:
				severity = models.SeverityHigh
			}
			alerts = append(alerts, models.TrendAlert{
				ID:           uuid.NewString(),
				Type:         models.AlertTrendSpike,
				Severity:     severity,
				WrestlerName: t.WrestlerName,
				ChangePct:    t.ChangePct,
				Message: fmt.Sprintf("%s mentions %s %.0f%% (%d → %d)",
					t.WrestlerName, verb(t.ChangePct), change, t.PreviousPeriodMentions, t.CurrentPeriodMentions),
				Timestamp: now,
			})
		}

		if delta := t.SentimentDelta(); math.Abs(delta) > shiftThreshold {
			severity := models.SeverityMedium
			if math.Abs(delta) > shiftHigh {
				severity = models.SeverityHigh
			}
			alerts = append(alerts, models.TrendAlert{
				ID:           uuid.NewString(),
				Type:         models.AlertSentimentShift,
				Severity:     severity,
				WrestlerName: t.WrestlerName,
				ChangePct:    t.ChangePct,
				Message: fmt.Sprintf("%s sentiment shifted %+.2f (%.2f → %.2f)",
					t.WrestlerName, delta, t.SentimentPrevious, t.SentimentCurrent),
				Timestamp: now,
			})
		}
	}

	return alerts
}

func verb(changePct float64) string {
	if changePct < 0 {
		return "down"
	}
	return "up"
}

// TrackStorylineMomentum scores groups of two or more roster wrestlers that
// keep getting mentioned together over the past week.
func (a *Analyzer) TrackStorylineMomentum(records []models.TextRecord) []models.StorylineMomentum {
	cutoff := a.now().Add(-storylineWindow)

	type group struct {
		participants []string
		mentions     int
		sentimentSum float64
	}
	groups := make(map[string]*group)
	var order []string

	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		text := rec.Text()
		names := ExtractMentions(text, a.roster)
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		key := strings.Join(names, "|")

		g, ok := groups[key]
		if !ok {
			g = &group{participants: names}
			groups[key] = g
			order = append(order, key)
		}
		g.mentions++
		g.sentimentSum += AnalyzeSentiment(text).Score
	}

	var momenta []models.StorylineMomentum
	for _, key := range order {
		g := groups[key]
		if g.mentions < 2 {
			continue
		}
		avg := g.sentimentSum / float64(g.mentions)
		score := clamp(float64(g.mentions)*10+avg*50, 0, 100)

		direction := models.StorylineBuilding
		switch {
		case score < storylineCool:
			direction = models.StorylineCooling
		case score > storylinePeak:
			direction = models.StorylinePeaked
		}

		momenta = append(momenta, models.StorylineMomentum{
			ID:               nameID("momentum", key),
			Participants:     g.participants,
			Mentions:         g.mentions,
			AverageSentiment: avg,
			MomentumScore:    score,
			Direction:        direction,
		})
	}

	sort.SliceStable(momenta, func(i, j int) bool {
		return momenta[i].MomentumScore > momenta[j].MomentumScore
	})
	return momenta
}

// GenerateStorylineAlerts raises an alert for storylines whose momentum has peaked
func GenerateStorylineAlerts(momenta []models.StorylineMomentum, now time.Time) []models.TrendAlert {
	var alerts []models.TrendAlert
	for _, m := range momenta {
		if m.MomentumScore <= storylinePeak {
			continue
		}
		severity := models.SeverityHigh
		if m.MomentumScore >= storylineCritical {
			severity = models.SeverityCritical
		}
		alerts = append(alerts, models.TrendAlert{
			ID:          uuid.NewString(),
			Type:        models.AlertStorylineMomentum,
			Severity:    severity,
			StorylineID: m.ID,
			Message: fmt.Sprintf("%s storyline momentum at %.0f after %d mentions",
				strings.Join(m.Participants, " vs "), m.MomentumScore, m.Mentions),
			Timestamp: now,
		})
	}
	return alerts
}
