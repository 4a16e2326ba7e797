package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port        string
	Debug       bool
	CORSOrigins []string

	// Schedule configuration
	RefreshSchedule string // cron spec for the analysis refresh
	ReportSchedule  string // "daily" or "weekly"
	TimeZone        string

	// Analysis configuration
	DefaultTimeframe  string
	CacheTTL          time.Duration
	SourceTimeout     time.Duration
	RequestsPerMinute int
	Roster            []string
	RosterDBPath      string
	RosterFile        string

	// Azure Storage configuration
	StorageAccount   string
	StorageContainer string
	SnapshotDir      string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// API Keys and credentials
	RedditClientID     string
	RedditClientSecret string
	TwitterBearerToken string
	YouTubeAPIKey      string

	// Sources to read
	NewsFeeds  []string
	Subreddits []string

	// Search terms for the social sources
	Keywords []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Debug:       getBoolEnv("DEBUG", false),
		CORSOrigins: getSliceEnv("CORS_ORIGINS", []string{"*"}),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "*/15 * * * *"),
		ReportSchedule:  getEnv("REPORT_SCHEDULE", "weekly"),
		TimeZone:        getEnv("TIMEZONE", "UTC"),

		DefaultTimeframe:  getEnv("DEFAULT_TIMEFRAME", "7d"),
		CacheTTL:          getDurationEnv("CACHE_TTL", 10*time.Minute),
		SourceTimeout:     getDurationEnv("SOURCE_TIMEOUT", 45*time.Second),
		RequestsPerMinute: getIntEnv("REQUESTS_PER_MINUTE", 30),
		Roster:            getSliceEnv("ROSTER", nil),
		RosterDBPath:      getEnv("ROSTER_DB_PATH", ""),
		RosterFile:        getEnv("ROSTER_FILE", ""),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "dashboards"),
		SnapshotDir:      getEnv("SNAPSHOT_DIR", "data/snapshots"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),

		NewsFeeds: getSliceEnv("NEWS_FEEDS", []string{
			"https://www.wrestlinginc.com/feed/",
			"https://www.cagesideseats.com/rss/current",
			"https://www.f4wonline.com/feed",
		}),
		Subreddits: getSliceEnv("SUBREDDITS", []string{"SquaredCircle", "WWE", "AEWOfficial"}),

		Keywords: getSliceEnv("KEYWORDS", []string{
			"WWE",
			"AEW",
			"NXT",
			"pro wrestling",
		}),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		return fmt.Errorf("REFRESH_SCHEDULE is not a valid cron spec: %w", err)
	}

	switch c.DefaultTimeframe {
	case "24h", "7d", "30d":
	default:
		return fmt.Errorf("DEFAULT_TIMEFRAME must be '24h', '7d' or '30d'")
	}

	if c.CacheTTL <= 0 || c.SourceTimeout <= 0 {
		return fmt.Errorf("CACHE_TTL and SOURCE_TIMEOUT must be positive durations")
	}

	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("REQUESTS_PER_MINUTE must be positive")
	}

	if c.TeamsWebhookURL == "" && c.NotificationEmail == "" {
		return fmt.Errorf("at least one notification method must be configured (TEAMS_WEBHOOK_URL or NOTIFICATION_EMAIL)")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getSliceEnv splits a comma list, dropping blank entries
func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
