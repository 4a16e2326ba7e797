package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// TwitterSource implements Twitter/X API source
type TwitterSource struct {
	bearerToken string
	client      *resty.Client
	limiter     *rate.Limiter
	apiURL      string
}

type twitterSearchResponse struct {
	Data []twitterTweet `json:"data"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type twitterTweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		LikeCount    int `json:"like_count"`
		ReplyCount   int `json:"reply_count"`
	} `json:"public_metrics"`
	ReferencedTweets []struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"referenced_tweets"`
}

// NewTwitterSource creates a new Twitter source
func NewTwitterSource(bearerToken string, limiter *rate.Limiter) *TwitterSource {
	return &TwitterSource{
		bearerToken: bearerToken,
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", userAgent),
		limiter: limiter,
		apiURL:  "https://api.twitter.com/2",
	}
}

func (t *TwitterSource) GetName() string {
	return "twitter"
}

func (t *TwitterSource) IsEnabled() bool {
	return t.bearerToken != ""
}

func (t *TwitterSource) FetchRecords(ctx context.Context, keywords []string, since time.Duration) ([]models.RawRecord, error) {
	if !t.IsEnabled() {
		logrus.Debug("Twitter source disabled - missing bearer token")
		return nil, nil
	}

	var all []models.RawRecord

	for _, keyword := range keywords {
		if err := wait(ctx, t.limiter); err != nil {
			return deduplicate(all), err
		}

		records, err := t.searchKeyword(ctx, keyword, since)
		if err != nil {
			logrus.Errorf("Failed to search Twitter for keyword '%s': %v", keyword, err)
			continue
		}

		logrus.Debugf("Found %d tweets for keyword '%s'", len(records), keyword)
		all = append(all, records...)
	}

	deduplicated := deduplicate(all)
	logrus.Infof("Total tweets after deduplication: %d", len(deduplicated))

	return deduplicated, nil
}

func (t *TwitterSource) searchKeyword(ctx context.Context, keyword string, since time.Duration) ([]models.RawRecord, error) {
	startTime := time.Now().Add(-since).UTC().Format(time.RFC3339)

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+t.bearerToken).
		SetQueryParams(map[string]string{
			"query":        buildSearchQuery(keyword),
			"start_time":   startTime,
			"max_results":  "100",
			"tweet.fields": "created_at,author_id,public_metrics,referenced_tweets",
		}).
		Get(t.apiURL + "/tweets/search/recent")

	if err != nil {
		return nil, err
	}

	// Fail fast on rate limiting so the other sources still complete
	if resp.StatusCode() == 429 {
		logrus.Warnf("Twitter API rate limit hit for keyword '%s' (reset at %s) - skipping",
			keyword, resp.Header().Get("x-rate-limit-reset"))
		return []models.RawRecord{}, nil
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("twitter API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse Twitter response: %w", err)
	}

	var records []models.RawRecord

	for _, tweet := range searchResp.Data {
		if isRetweet(tweet) {
			continue
		}

		createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
		if err != nil {
			logrus.Errorf("Failed to parse Twitter timestamp: %v", err)
			continue
		}

		records = append(records, models.SocialRecord{
			Platform:   "twitter",
			ExternalID: tweet.ID,
			Community:  "X.com (Twitter)",
			Text:       tweet.Text,
			Author:     tweet.AuthorID,
			URL:        fmt.Sprintf("https://twitter.com/i/status/%s", tweet.ID),
			CreatedAt:  createdAt,
			Score:      tweet.PublicMetrics.LikeCount,
			Replies:    tweet.PublicMetrics.ReplyCount,
		})
	}

	return records, nil
}

// buildSearchQuery narrows promotion acronyms to wrestling talk
func buildSearchQuery(keyword string) string {
	switch strings.ToLower(keyword) {
	case "aew", "nxt", "tna", "roh":
		return fmt.Sprintf(`"%s" (wrestling OR wrestler OR match OR champion) -is:retweet`, keyword)
	case "wwe":
		return `(WWE OR #WWERaw OR #SmackDown) -is:retweet`
	default:
		return fmt.Sprintf(`"%s" -is:retweet`, keyword)
	}
}

func isRetweet(tweet twitterTweet) bool {
	for _, ref := range tweet.ReferencedTweets {
		if ref.Type == "retweeted" {
			return true
		}
	}
	return false
}
