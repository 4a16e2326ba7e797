package sources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RSSSource reads wrestling news feeds. Feeds need no credentials and are
// already on-topic, so keywords are not used to filter them.
type RSSSource struct {
	feeds   []string
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

// NewRSSSource creates a source over the given feed URLs
func NewRSSSource(feeds []string, limiter *rate.Limiter) *RSSSource {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: 30 * time.Second}

	return &RSSSource{
		feeds:   feeds,
		parser:  parser,
		limiter: limiter,
	}
}

func (s *RSSSource) GetName() string {
	return "rss"
}

func (s *RSSSource) IsEnabled() bool {
	return len(s.feeds) > 0
}

func (s *RSSSource) FetchRecords(ctx context.Context, _ []string, since time.Duration) ([]models.RawRecord, error) {
	if !s.IsEnabled() {
		logrus.Debug("RSS source disabled - no feeds configured")
		return nil, nil
	}

	var all []models.RawRecord
	failures := 0

	for _, feedURL := range s.feeds {
		if err := wait(ctx, s.limiter); err != nil {
			return deduplicate(all), err
		}

		records, err := s.fetchFeed(ctx, feedURL, since)
		if err != nil {
			logrus.Errorf("Failed to read feed %s: %v", feedURL, err)
			failures++
			continue
		}
		logrus.Debugf("Read %d items from %s", len(records), feedURL)
		all = append(all, records...)
	}

	if failures == len(s.feeds) {
		return nil, fmt.Errorf("all %d feeds failed", failures)
	}

	return deduplicate(all), nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, feedURL string, since time.Duration) ([]models.RawRecord, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	name := feed.Title
	if name == "" {
		name = feedURL
	}

	now := time.Now()
	cutoff := now.Add(-since)

	var records []models.RawRecord
	for _, item := range feed.Items {
		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		if published.Before(cutoff) {
			continue
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		records = append(records, models.NewsRecord{
			GUID:        itemID(item),
			FeedName:    name,
			Title:       item.Title,
			Description: description,
			Link:        item.Link,
			Published:   published,
		})
	}

	return records, nil
}

// itemID prefers the feed GUID, then the link, then the title
func itemID(item *gofeed.Item) string {
	key := item.GUID
	if key == "" {
		key = item.Link
	}
	if key == "" {
		key = item.Title
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8])
}
