package models

import "time"

// SourceType classifies where a record came from
type SourceType string

const (
	SourceNews   SourceType = "news"
	SourceSocial SourceType = "social"
)

// Engagement holds platform engagement metrics, when the platform reports them
type Engagement struct {
	Score   int `json:"score"`   // upvotes, likes, view-weighted score
	Replies int `json:"replies"` // comments, replies
}

// TextRecord is the normalized unit of content fed to the analytics pipeline
type TextRecord struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Timestamp  time.Time   `json:"timestamp"` // always UTC
	SourceType SourceType  `json:"source_type"`
	SourceName string      `json:"source_name"` // "reddit", "twitter", feed name, etc.
	URL        string      `json:"url,omitempty"`
	Engagement *Engagement `json:"engagement,omitempty"`
}

// Text returns the title and body joined for keyword scanning
func (r TextRecord) Text() string {
	if r.Body == "" {
		return r.Title
	}
	return r.Title + " " + r.Body
}

// SentimentResult is the keyword sentiment of a piece of text
type SentimentResult struct {
	Score           float64  `json:"score"`     // 0..1, 0.5 is neutral
	Magnitude       float64  `json:"magnitude"` // share of words that were sentiment keywords
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// WrestlerMention links a wrestler to the record that mentioned them
type WrestlerMention struct {
	WrestlerName string    `json:"wrestler_name"`
	RecordID     string    `json:"record_id"`
	Sentiment    float64   `json:"sentiment"`
	Timestamp    time.Time `json:"timestamp"`
}

// StorylineStatus is the lifecycle stage of a detected feud
type StorylineStatus string

const (
	StatusBuilding  StorylineStatus = "building"
	StatusClimax    StorylineStatus = "climax"
	StatusCooling   StorylineStatus = "cooling"
	StatusConcluded StorylineStatus = "concluded"
)

// Storyline is a feud detected from records that co-mention the same participants
type Storyline struct {
	ID                string          `json:"id"`
	Participants      []string        `json:"participants"` // sorted, at least two
	Title             string          `json:"title"`
	Status            StorylineStatus `json:"status"`
	IntensityScore    float64         `json:"intensity_score"`     // 0..10
	FanReceptionScore float64         `json:"fan_reception_score"` // 0..10
	SourceRecords     []TextRecord    `json:"source_records"`
	Keywords          []string        `json:"keywords"`
	Promotion         string          `json:"promotion"`
}

// Timeframe is an analysis window
type Timeframe string

const (
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"
	Timeframe30d Timeframe = "30d"
)

// Duration returns the length of the window
func (t Timeframe) Duration() time.Duration {
	switch t {
	case Timeframe24h:
		return 24 * time.Hour
	case Timeframe7d:
		return 7 * 24 * time.Hour
	case Timeframe30d:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Direction is the trending direction of a wrestler
type Direction string

const (
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
	DirectionStable  Direction = "stable"
)

// WrestlerTrend compares a wrestler's mentions between the two halves of a window
type WrestlerTrend struct {
	WrestlerName           string    `json:"wrestler_name"`
	CurrentPeriodMentions  int       `json:"current_period_mentions"`
	PreviousPeriodMentions int       `json:"previous_period_mentions"`
	ChangePct              float64   `json:"change_pct"`
	SentimentCurrent       float64   `json:"sentiment_current"`
	SentimentPrevious      float64   `json:"sentiment_previous"`
	TrendingDirection      Direction `json:"trending_direction"`
	MomentumScore          float64   `json:"momentum_score"` // 0..100
	Timeframe              Timeframe `json:"timeframe"`
}

// SentimentDelta is the change in average sentiment between the halves
func (t WrestlerTrend) SentimentDelta() float64 {
	return t.SentimentCurrent - t.SentimentPrevious
}

// EmergingWrestler is a wrestler with activity only in the later half of a window
type EmergingWrestler struct {
	WrestlerName          string    `json:"wrestler_name"`
	CurrentPeriodMentions int       `json:"current_period_mentions"`
	SentimentCurrent      float64   `json:"sentiment_current"`
	Timeframe             Timeframe `json:"timeframe"`
}

// AlertType classifies a trend alert
type AlertType string

const (
	AlertTrendSpike        AlertType = "trend_spike"
	AlertSentimentShift    AlertType = "sentiment_shift"
	AlertStorylineMomentum AlertType = "storyline_momentum"
)

// Severity of a trend alert
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// TrendAlert is raised when a trend or storyline crosses a fixed threshold
type TrendAlert struct {
	ID           string    `json:"id"`
	Type         AlertType `json:"type"`
	Severity     Severity  `json:"severity"`
	WrestlerName string    `json:"wrestler_name,omitempty"`
	StorylineID  string    `json:"storyline_id,omitempty"`
	ChangePct    float64   `json:"change_pct"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// TrendingTopic tallies records that hit one taxonomy entry
type TrendingTopic struct {
	Title            string   `json:"title"`
	Mentions         int      `json:"mentions"`
	Sentiment        float64  `json:"sentiment"`
	GrowthRate       float64  `json:"growth_rate"`
	RelatedWrestlers []string `json:"related_wrestlers"` // at most five
}

// SentimentTrend is the label derived from a push/burial score
type SentimentTrend string

const (
	TrendPositive SentimentTrend = "positive"
	TrendNegative SentimentTrend = "negative"
	TrendNeutral  SentimentTrend = "neutral"
)

// ContractStatus is inferred from contract language in records
type ContractStatus string

const (
	ContractUnknown     ContractStatus = "unknown"
	ContractActive      ContractStatus = "active"
	ContractExpiring    ContractStatus = "expiring"
	ContractNegotiating ContractStatus = "negotiating"
)

// WrestlerMomentum is the push/burial classification of one rostered wrestler
type WrestlerMomentum struct {
	WrestlerName    string         `json:"wrestler_name"`
	PushBurialScore float64        `json:"push_burial_score"` // 0..10, 5 is neutral
	MentionsCount   int            `json:"mentions_count"`
	SentimentTrend  SentimentTrend `json:"sentiment_trend"`
	ContractStatus  ContractStatus `json:"contract_status"`
	Evidence        []string       `json:"evidence,omitempty"`
}

// StorylineDirection is the momentum stage of a co-mention storyline
type StorylineDirection string

const (
	StorylineBuilding StorylineDirection = "building"
	StorylinePeaked   StorylineDirection = "peaked"
	StorylineCooling  StorylineDirection = "cooling"
)

// StorylineMomentum scores a group of wrestlers repeatedly mentioned together
type StorylineMomentum struct {
	ID               string             `json:"id"`
	Participants     []string           `json:"participants"`
	Mentions         int                `json:"mentions"`
	AverageSentiment float64            `json:"average_sentiment"`
	MomentumScore    float64            `json:"momentum_score"` // 0..100
	Direction        StorylineDirection `json:"direction"`
}

// Dashboard is the full output of one analysis pass
type Dashboard struct {
	GeneratedAt       time.Time           `json:"generated_at"`
	Timeframe         Timeframe           `json:"timeframe"`
	RecordCount       int                 `json:"record_count"`
	Trends            []WrestlerTrend     `json:"trends"`
	Emerging          []EmergingWrestler  `json:"emerging"`
	Alerts            []TrendAlert        `json:"alerts"`
	Storylines        []Storyline         `json:"storylines"`
	StorylineMomentum []StorylineMomentum `json:"storyline_momentum"`
	Topics            []TrendingTopic     `json:"topics"`
	Momentum          []WrestlerMomentum  `json:"momentum"`
}

// Report represents a periodic digest sent through notification channels
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Period      string    `json:"period"` // "daily" or "weekly"
	Dashboard   Dashboard `json:"dashboard"`
}

// Wrestler is a roster entry kept in the roster store
type Wrestler struct {
	Name      string    `json:"name"`
	Promotion string    `json:"promotion"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}
