package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) RunAnalysis(ctx context.Context) (*models.Dashboard, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*models.Dashboard)
	return d, args.Error(1)
}

func (m *MockRunner) RunReport(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		RefreshSchedule: "*/15 * * * *",
		ReportSchedule:  "weekly",
		TimeZone:        "UTC",
	}
}

func TestReportSpec(t *testing.T) {
	assert.Equal(t, "0 9 * * *", reportSpec("daily"))
	assert.Equal(t, "0 9 * * MON", reportSpec("weekly"))
	assert.Equal(t, "0 9 * * MON", reportSpec(""))
}

func TestNewService_InvalidTimeZone(t *testing.T) {
	cfg := testConfig()
	cfg.TimeZone = "Mars/Olympus"

	_, err := NewService(cfg, &MockRunner{})
	assert.Error(t, err)
}

func TestStart_RegistersJobsAndRefreshes(t *testing.T) {
	cfg := testConfig()
	cfg.TimeZone = "America/New_York"

	refreshed := make(chan struct{}, 1)
	runner := &MockRunner{}
	runner.On("RunAnalysis", mock.Anything).Return(&models.Dashboard{}, nil).Run(func(mock.Arguments) {
		select {
		case refreshed <- struct{}{}:
		default:
		}
	})

	s, err := NewService(cfg, runner)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.False(t, s.NextRefresh().IsZero())

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("initial refresh did not run")
	}

	// the weekly report lands on a Monday at 9 AM local time
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	local := s.NextReport().In(ny)
	assert.Equal(t, time.Monday, local.Weekday())
	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, 0, local.Minute())
}

func TestStart_InvalidRefreshSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSchedule = "every now and then"

	s, err := NewService(cfg, &MockRunner{})
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestJobsLogFailures(t *testing.T) {
	runner := &MockRunner{}
	runner.On("RunAnalysis", mock.Anything).Return(nil, errors.New("all sources down")).Once()
	runner.On("RunReport", mock.Anything).Return(errors.New("smtp down")).Once()

	s, err := NewService(testConfig(), runner)
	require.NoError(t, err)

	s.refresh()
	s.report()

	runner.AssertExpectations(t)
}
