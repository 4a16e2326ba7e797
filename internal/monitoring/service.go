package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ringside/wrestling-pulse/internal/analytics"
	"github.com/ringside/wrestling-pulse/internal/cache"
	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/ringside/wrestling-pulse/internal/notifications"
	"github.com/ringside/wrestling-pulse/internal/sources"
	"github.com/ringside/wrestling-pulse/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	batchKey = "records"

	// snapshots kept per timeframe; four days of 15 minute refreshes
	keepSnapshots = 384

	// the same alert is not pushed twice within this window
	alertCooldown = 6 * time.Hour
)

// retention covers both halves of the longest timeframe
var retention = 2 * models.Timeframe30d.Duration()

// ErrNotReady is returned before the first analysis run has completed
var ErrNotReady = errors.New("no analysis has completed yet")

// RosterProvider lists the wrestlers tracked on top of the configured roster
type RosterProvider interface {
	Names(ctx context.Context) ([]string, error)
}

// Service fetches coverage, runs the analytics pipeline and publishes the results
type Service struct {
	config              *config.Config
	sources             []sources.Source
	roster              RosterProvider
	cache               *cache.Cache[[]models.TextRecord]
	storage             storage.StorageInterface
	notificationService notifications.NotificationInterface
	now                 func() time.Time

	mu        sync.RWMutex
	analyzer  *analytics.Analyzer
	records   []models.TextRecord
	dashboard *models.Dashboard
	notified  map[string]time.Time
	metrics   *Metrics
}

// Metrics holds run metrics
type Metrics struct {
	RecordsFetched  int            `json:"records_fetched"`
	RecordsRetained int            `json:"records_retained"`
	RelevantRecords int            `json:"relevant_records"`
	LastRun         time.Time      `json:"last_run"`
	LastRunDuration string         `json:"last_run_duration"`
	SourceMetrics   map[string]int `json:"source_metrics"`
	SourceErrors    map[string]int `json:"source_errors"`
	ErrorCount      int            `json:"error_count"`
	AlertsSent      int            `json:"alerts_sent"`
	CacheHits       int            `json:"cache_hits"`
	Runs            int            `json:"runs"`
}

// NewService creates a monitoring service. roster, store and notifier may be nil;
// a nil batchCache gets a cache sized from the config.
func NewService(
	cfg *config.Config,
	srcs []sources.Source,
	roster RosterProvider,
	batchCache *cache.Cache[[]models.TextRecord],
	store storage.StorageInterface,
	notifier notifications.NotificationInterface,
) *Service {
	if batchCache == nil {
		batchCache = cache.New[[]models.TextRecord](cfg.CacheTTL)
	}

	return &Service{
		config:              cfg,
		sources:             srcs,
		roster:              roster,
		cache:               batchCache,
		storage:             store,
		notificationService: notifier,
		now:                 time.Now,
		notified:            make(map[string]time.Time),
		metrics: &Metrics{
			SourceMetrics: make(map[string]int),
			SourceErrors:  make(map[string]int),
		},
	}
}

// RunAnalysis performs one refresh: fetch, filter, analyze, archive and alert
func (s *Service) RunAnalysis(ctx context.Context) (*models.Dashboard, error) {
	start := s.now()
	logrus.Info("Starting analysis run")

	timeframe, err := analytics.ParseTimeframe(s.config.DefaultTimeframe)
	if err != nil {
		return nil, err
	}

	analyzer := s.buildAnalyzer(ctx)
	records, fetched := s.collect(ctx, timeframe, analyzer.Roster())

	dashboard := analyzer.Analyze(records, timeframe)
	logrus.Infof("Analyzed %d records: %d trends, %d storylines, %d alerts",
		len(records), len(dashboard.Trends), len(dashboard.Storylines), len(dashboard.Alerts))

	s.mu.Lock()
	s.analyzer = analyzer
	s.dashboard = &dashboard
	s.mu.Unlock()

	var errs []error
	if err := s.archive(ctx, &dashboard); err != nil {
		logrus.Errorf("Failed to archive dashboard: %v", err)
		errs = append(errs, err)
	}

	sent, err := s.pushAlerts(ctx, dashboard.Alerts)
	if err != nil {
		logrus.Errorf("Failed to send alerts: %v", err)
		errs = append(errs, err)
	}

	s.mu.Lock()
	s.metrics.LastRun = start
	s.metrics.LastRunDuration = s.now().Sub(start).String()
	s.metrics.RelevantRecords = len(records)
	s.metrics.AlertsSent += sent
	s.metrics.Runs++
	if fetched >= 0 {
		s.metrics.RecordsFetched = fetched
	}
	s.mu.Unlock()

	logrus.Infof("Analysis run completed in %v", s.now().Sub(start))
	return &dashboard, errors.Join(errs...)
}

// Refresh drops the cached batch so the run fetches from the sources again
func (s *Service) Refresh(ctx context.Context) (*models.Dashboard, error) {
	s.cache.Delete(batchKey)
	return s.RunAnalysis(ctx)
}

// RunReport sends the periodic report for the latest dashboard, running an
// analysis first when none exists yet
func (s *Service) RunReport(ctx context.Context) error {
	if s.notificationService == nil {
		return errors.New("no notification service configured")
	}

	dashboard, ok := s.Dashboard()
	if !ok {
		d, err := s.RunAnalysis(ctx)
		if d == nil {
			return fmt.Errorf("analysis for report: %w", err)
		}
		dashboard = d
	}

	report := &models.Report{
		GeneratedAt: s.now().UTC(),
		Period:      s.config.ReportSchedule,
		Dashboard:   *dashboard,
	}
	if err := s.notificationService.SendReport(ctx, report); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}

	logrus.Infof("Sent %s report covering %d records", report.Period, dashboard.RecordCount)
	return nil
}

// Dashboard returns the dashboard from the latest run
func (s *Service) Dashboard() (*models.Dashboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dashboard == nil {
		return nil, false
	}
	d := *s.dashboard
	return &d, true
}

// Analyze runs the pipeline over the retained records for another timeframe.
// The configured timeframe is served from the latest run.
func (s *Service) Analyze(timeframe string) (*models.Dashboard, error) {
	tf, err := analytics.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	analyzer, records, latest := s.analyzer, s.records, s.dashboard
	s.mu.RUnlock()

	if analyzer == nil {
		return nil, ErrNotReady
	}
	if latest != nil && latest.Timeframe == tf {
		d := *latest
		return &d, nil
	}

	d := analyzer.Analyze(records, tf)
	return &d, nil
}

// Mentions lists roster mentions in the retained records within timeframe,
// newest first. An empty wrestler returns every mention; an empty timeframe
// uses the configured one.
func (s *Service) Mentions(wrestler, timeframe string) ([]models.WrestlerMention, error) {
	if timeframe == "" {
		timeframe = s.config.DefaultTimeframe
	}
	tf, err := analytics.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	analyzer, records := s.analyzer, s.records
	s.mu.RUnlock()

	if analyzer == nil {
		return nil, ErrNotReady
	}

	cutoff := s.now().Add(-tf.Duration())
	var recent []models.TextRecord
	for _, rec := range records {
		if !rec.Timestamp.Before(cutoff) {
			recent = append(recent, rec)
		}
	}

	wrestler = strings.TrimSpace(wrestler)
	var mentions []models.WrestlerMention
	for _, m := range analyzer.Mentions(recent) {
		if wrestler == "" || strings.EqualFold(m.WrestlerName, wrestler) {
			mentions = append(mentions, m)
		}
	}

	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].Timestamp.After(mentions[j].Timestamp)
	})
	return mentions, nil
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}

func (s *Service) buildAnalyzer(ctx context.Context) *analytics.Analyzer {
	names := append([]string(nil), s.config.Roster...)
	if s.roster != nil {
		stored, err := s.roster.Names(ctx)
		if err != nil {
			logrus.Errorf("Failed to load roster, using configured names only: %v", err)
		} else {
			names = append(names, stored...)
		}
	}
	opts := analytics.DefaultOptions()
	opts.Now = s.now
	return analytics.NewAnalyzer(names, opts)
}

// collect returns the retained records, refreshing from the sources when the
// cached batch is stale. fetched is -1 when the cache was used.
func (s *Service) collect(ctx context.Context, timeframe models.Timeframe, roster []string) ([]models.TextRecord, int) {
	if n := s.cache.Purge(); n > 0 {
		logrus.Debugf("Purged %d expired cache entries", n)
	}

	if !s.cache.IsStale(batchKey, s.config.CacheTTL) {
		if cached, ok := s.cache.Get(batchKey); ok {
			storedAt, _ := s.cache.StoredAt(batchKey)
			logrus.Infof("Using %d cached records fetched at %s", len(cached), storedAt.Format(time.RFC3339))
			s.mu.Lock()
			s.metrics.CacheHits++
			s.mu.Unlock()
			return cached, -1
		}
	}

	raw := s.fetchAll(ctx, 2*timeframe.Duration())
	fresh := filterRelevant(normalizeAll(raw), roster)
	logrus.Infof("Kept %d of %d fetched records after relevance filtering", len(fresh), len(raw))

	s.mu.Lock()
	merged := mergeRecords(s.records, fresh, s.now().Add(-retention))
	s.records = merged
	s.metrics.RecordsRetained = len(merged)
	s.mu.Unlock()

	s.cache.Set(batchKey, merged)
	return merged, len(raw)
}

type fetchResult struct {
	source  string
	records []models.RawRecord
	err     error
}

func (s *Service) fetchAll(ctx context.Context, since time.Duration) []models.RawRecord {
	var wg sync.WaitGroup
	results := make(chan fetchResult, len(s.sources))

	logrus.Infof("Fetching from %d sources (window: %v)", len(s.sources), since)

	for _, source := range s.sources {
		if !source.IsEnabled() {
			logrus.Debugf("Skipping disabled source %s", source.GetName())
			continue
		}

		wg.Add(1)
		go func(src sources.Source) {
			defer wg.Done()

			srcCtx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
			defer cancel()

			records, err := src.FetchRecords(srcCtx, s.config.Keywords, since)
			results <- fetchResult{source: src.GetName(), records: records, err: err}
		}(source)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []models.RawRecord
	perSource := make(map[string]int)
	failures := make(map[string]int)
	for r := range results {
		if r.err != nil {
			logrus.Errorf("Error fetching from %s: %v", r.source, r.err)
			failures[r.source]++
			continue
		}
		logrus.Infof("Found %d records from %s", len(r.records), r.source)
		perSource[r.source] = len(r.records)
		all = append(all, r.records...)
	}

	s.mu.Lock()
	s.metrics.SourceMetrics = perSource
	s.metrics.ErrorCount = len(failures)
	for name, n := range failures {
		s.metrics.SourceErrors[name] += n
	}
	s.mu.Unlock()

	return all
}

func normalizeAll(raw []models.RawRecord) []models.TextRecord {
	records := make([]models.TextRecord, 0, len(raw))
	for _, r := range raw {
		rec, err := models.Normalize(r)
		if err != nil {
			logrus.Debugf("Dropping record: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// mergeRecords adds fresh to existing, replacing entries with the same ID and
// dropping anything older than cutoff. A replaced entry keeps the timestamp it
// was first stored with, so undated items do not move forward on every fetch.
// The result is sorted oldest first.
func mergeRecords(existing, fresh []models.TextRecord, cutoff time.Time) []models.TextRecord {
	byID := make(map[string]models.TextRecord, len(existing)+len(fresh))
	for _, rec := range existing {
		byID[rec.ID] = rec
	}
	for _, rec := range fresh {
		if old, ok := byID[rec.ID]; ok {
			rec.Timestamp = old.Timestamp
		}
		byID[rec.ID] = rec
	}

	merged := make([]models.TextRecord, 0, len(byID))
	for _, rec := range byID {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		merged = append(merged, rec)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Timestamp.Equal(merged[j].Timestamp) {
			return merged[i].Timestamp.Before(merged[j].Timestamp)
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

func (s *Service) archive(ctx context.Context, d *models.Dashboard) error {
	if s.storage == nil {
		return nil
	}

	name, err := storage.SaveDashboard(ctx, s.storage, d)
	if err != nil {
		return err
	}
	logrus.Debugf("Archived dashboard as %s", name)

	removed, err := storage.PruneSnapshots(ctx, s.storage, d.Timeframe, keepSnapshots)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	if removed > 0 {
		logrus.Debugf("Pruned %d old snapshots", removed)
	}
	return nil
}

// pushAlerts sends high and critical alerts that were not sent recently
func (s *Service) pushAlerts(ctx context.Context, alerts []models.TrendAlert) (int, error) {
	if s.notificationService == nil {
		return 0, nil
	}

	now := s.now()
	sent := 0
	var errs []error

	for i := range alerts {
		alert := &alerts[i]
		if alert.Severity != models.SeverityHigh && alert.Severity != models.SeverityCritical {
			continue
		}

		key := alertKey(alert)
		s.mu.RLock()
		last, seen := s.notified[key]
		s.mu.RUnlock()
		if seen && now.Sub(last) < alertCooldown {
			logrus.Debugf("Suppressing repeated alert %s", key)
			continue
		}

		if err := s.notificationService.SendAlert(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("alert %s: %w", key, err))
			continue
		}

		s.mu.Lock()
		s.notified[key] = now
		s.mu.Unlock()
		sent++
	}

	if sent > 0 {
		logrus.Infof("Sent %d alerts", sent)
	}
	return sent, errors.Join(errs...)
}

func alertKey(a *models.TrendAlert) string {
	subject := a.WrestlerName
	if subject == "" {
		subject = a.StorylineID
	}
	return fmt.Sprintf("%s:%s:%s", a.Type, subject, a.Severity)
}
