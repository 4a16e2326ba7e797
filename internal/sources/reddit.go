package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RedditSource reads new posts from wrestling subreddits
type RedditSource struct {
	clientID     string
	clientSecret string
	subreddits   []string
	client       *resty.Client
	limiter      *rate.Limiter
	accessToken  string

	authURL string
	apiURL  string
}

type redditAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type redditListingResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Permalink   string  `json:"permalink"`
	Created     float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Stickied    bool    `json:"stickied"`
}

// NewRedditSource creates a new Reddit source
func NewRedditSource(clientID, clientSecret string, subreddits []string, limiter *rate.Limiter) *RedditSource {
	return &RedditSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		subreddits:   subreddits,
		client:       resty.New().SetTimeout(30 * time.Second),
		limiter:      limiter,
		authURL:      "https://www.reddit.com/api/v1/access_token",
		apiURL:       "https://oauth.reddit.com",
	}
}

func (r *RedditSource) GetName() string {
	return "reddit"
}

func (r *RedditSource) IsEnabled() bool {
	return r.clientID != "" && r.clientSecret != "" && len(r.subreddits) > 0
}

// FetchRecords reads the newest posts of each subreddit. The subreddits are
// wrestling communities, so the listing is read without a keyword query.
func (r *RedditSource) FetchRecords(ctx context.Context, _ []string, since time.Duration) ([]models.RawRecord, error) {
	if !r.IsEnabled() {
		logrus.Debug("Reddit source disabled - missing credentials")
		return nil, nil
	}

	if err := r.authenticate(ctx); err != nil {
		return nil, fmt.Errorf("reddit authentication failed: %w", err)
	}

	var all []models.RawRecord
	for _, subreddit := range r.subreddits {
		if err := wait(ctx, r.limiter); err != nil {
			return deduplicate(all), err
		}

		records, err := r.fetchSubreddit(ctx, subreddit, since)
		if err != nil {
			logrus.Errorf("Failed to read subreddit %s: %v", subreddit, err)
			continue
		}
		all = append(all, records...)
	}

	return deduplicate(all), nil
}

func (r *RedditSource) authenticate(ctx context.Context) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		SetBasicAuth(r.clientID, r.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(r.authURL)

	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("token endpoint returned status %d", resp.StatusCode())
	}

	var authResp redditAuthResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return err
	}
	if authResp.AccessToken == "" {
		return fmt.Errorf("token endpoint returned no access token")
	}

	r.accessToken = authResp.AccessToken
	return nil
}

func (r *RedditSource) fetchSubreddit(ctx context.Context, subreddit string, since time.Duration) ([]models.RawRecord, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+r.accessToken).
		SetHeader("User-Agent", userAgent).
		SetQueryParam("limit", "100").
		Get(fmt.Sprintf("%s/r/%s/new.json", r.apiURL, subreddit))

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d", resp.StatusCode())
	}

	var listing redditListingResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, err
	}

	var records []models.RawRecord
	cutoff := time.Now().Add(-since)

	for _, child := range listing.Data.Children {
		post := child.Data
		createdAt := time.Unix(int64(post.Created), 0)

		// Pinned megathreads are weeks old and keep resurfacing
		if post.Stickied || createdAt.Before(cutoff) {
			continue
		}

		records = append(records, models.SocialRecord{
			Platform:   "reddit",
			ExternalID: post.ID,
			Community:  "r/" + post.Subreddit,
			Title:      post.Title,
			Text:       post.Selftext,
			Author:     post.Author,
			URL:        "https://reddit.com" + post.Permalink,
			CreatedAt:  createdAt,
			Score:      post.Score,
			Replies:    post.NumComments,
		})
	}

	return records, nil
}
