package monitoring

import (
	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/sources"
)

// DefaultSources builds every configured source, each with its own rate limiter
func DefaultSources(cfg *config.Config) []sources.Source {
	return []sources.Source{
		sources.NewRSSSource(cfg.NewsFeeds, sources.NewLimiter(cfg.RequestsPerMinute)),
		sources.NewRedditSource(cfg.RedditClientID, cfg.RedditClientSecret, cfg.Subreddits, sources.NewLimiter(cfg.RequestsPerMinute)),
		sources.NewTwitterSource(cfg.TwitterBearerToken, sources.NewLimiter(cfg.RequestsPerMinute)),
		sources.NewYouTubeSource(cfg.YouTubeAPIKey, sources.NewLimiter(cfg.RequestsPerMinute)),
	}
}
