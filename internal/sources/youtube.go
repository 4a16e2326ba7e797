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

// YouTubeSource searches recent wrestling videos through the YouTube Data API
type YouTubeSource struct {
	apiKey  string
	client  *resty.Client
	limiter *rate.Limiter
	apiURL  string
}

type youTubeSearchResponse struct {
	Items []youTubeVideo `json:"items"`
}

type youTubeVideo struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
	} `json:"snippet"`
}

// NewYouTubeSource creates a new YouTube source
func NewYouTubeSource(apiKey string, limiter *rate.Limiter) *YouTubeSource {
	return &YouTubeSource{
		apiKey: apiKey,
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", userAgent),
		limiter: limiter,
		apiURL:  "https://www.googleapis.com/youtube/v3",
	}
}

func (y *YouTubeSource) GetName() string {
	return "youtube"
}

func (y *YouTubeSource) IsEnabled() bool {
	return y.apiKey != ""
}

func (y *YouTubeSource) FetchRecords(ctx context.Context, keywords []string, since time.Duration) ([]models.RawRecord, error) {
	if !y.IsEnabled() {
		logrus.Debug("YouTube source disabled - missing API key")
		return nil, nil
	}

	var all []models.RawRecord

	for _, keyword := range keywords {
		if err := wait(ctx, y.limiter); err != nil {
			return deduplicate(all), err
		}

		records, err := y.searchVideos(ctx, keyword, since)
		if err != nil {
			logrus.Errorf("Failed to search YouTube videos for keyword '%s': %v", keyword, err)
			continue
		}
		all = append(all, records...)
	}

	return deduplicate(all), nil
}

func (y *YouTubeSource) searchVideos(ctx context.Context, keyword string, since time.Duration) ([]models.RawRecord, error) {
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":           "snippet",
			"q":              keyword,
			"type":           "video",
			"order":          "date",
			"publishedAfter": time.Now().Add(-since).UTC().Format(time.RFC3339),
			"maxResults":     "50",
			"key":            y.apiKey,
		}).
		Get(y.apiURL + "/search")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("youtube API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp youTubeSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse YouTube response: %w", err)
	}

	var records []models.RawRecord

	for _, video := range searchResp.Items {
		if video.ID.VideoID == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
		if err != nil {
			logrus.Errorf("Failed to parse YouTube timestamp: %v", err)
			continue
		}

		records = append(records, models.SocialRecord{
			Platform:   "youtube",
			ExternalID: video.ID.VideoID,
			Community:  video.Snippet.ChannelTitle,
			Title:      video.Snippet.Title,
			Text:       video.Snippet.Description,
			Author:     video.Snippet.ChannelTitle,
			URL:        fmt.Sprintf("https://www.youtube.com/watch?v=%s", video.ID.VideoID),
			CreatedAt:  publishedAt,
		})
	}

	return records, nil
}
