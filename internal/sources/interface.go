package sources

import (
	"context"
	"time"

	"github.com/ringside/wrestling-pulse/internal/models"
	"golang.org/x/time/rate"
)

const userAgent = "Wrestling-Pulse/1.0"

// Source interface defines the contract for all data sources
type Source interface {
	GetName() string
	FetchRecords(ctx context.Context, keywords []string, since time.Duration) ([]models.RawRecord, error)
	IsEnabled() bool
}

// NewLimiter returns a limiter allowing perMinute requests with a burst of one
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func recordKey(r models.RawRecord) string {
	switch v := r.(type) {
	case models.NewsRecord:
		return "news_" + v.GUID
	case models.SocialRecord:
		return v.Platform + "_" + v.ExternalID
	}
	return ""
}

func deduplicate(records []models.RawRecord) []models.RawRecord {
	seen := make(map[string]bool)
	var unique []models.RawRecord

	for _, r := range records {
		key := recordKey(r)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, r)
		}
	}

	return unique
}
