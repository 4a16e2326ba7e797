package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/ringside/wrestling-pulse/internal/monitoring"
	"github.com/ringside/wrestling-pulse/internal/storage"
	"github.com/sirupsen/logrus"
)

// ConsoleNotification prints what would be sent
type ConsoleNotification struct{}

func (ConsoleNotification) SendReport(_ context.Context, report *models.Report) error {
	d := report.Dashboard
	fmt.Println("\n🎉 REPORT GENERATED!")
	fmt.Printf("📊 Records analyzed: %d (%s)\n", d.RecordCount, d.Timeframe)

	if len(d.Trends) > 0 {
		fmt.Println("📈 Top trends:")
		for i, t := range d.Trends {
			if i >= 3 {
				break
			}
			fmt.Printf("   %d. %s %+.0f%%\n", i+1, t.WrestlerName, t.ChangePct)
		}
	}
	if len(d.Storylines) > 0 {
		fmt.Println("🔥 Top storylines:")
		for i, s := range d.Storylines {
			if i >= 3 {
				break
			}
			fmt.Printf("   %d. %s [%s]\n", i+1, s.Title, s.Status)
		}
	}
	return nil
}

func (ConsoleNotification) SendAlert(_ context.Context, alert *models.TrendAlert) error {
	fmt.Printf("🚨 ALERT [%s]: %s\n", strings.ToUpper(string(alert.Severity)), alert.Message)
	return nil
}

func main() {
	fmt.Println("🧪 Wrestling Pulse - Local Integration Test")
	fmt.Println("===========================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logrus.SetLevel(logrus.WarnLevel)

	dir, err := os.MkdirTemp("", "wrestling-pulse-*")
	if err != nil {
		log.Fatalf("Failed to create snapshot directory: %v", err)
	}
	defer os.RemoveAll(dir)

	snapshots, err := storage.NewLocalStorage(dir)
	if err != nil {
		log.Fatalf("Failed to create snapshot storage: %v", err)
	}

	service := monitoring.NewService(cfg, monitoring.DefaultSources(cfg), nil, nil, snapshots, ConsoleNotification{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("\n📡 Running one refresh against the live sources...")
	start := time.Now()
	dashboard, err := service.RunAnalysis(ctx)
	if err != nil {
		fmt.Printf("⚠️  Refresh finished with errors: %v\n", err)
	}
	if dashboard == nil {
		log.Fatal("Refresh produced no dashboard")
	}
	fmt.Printf("⏱️  Refresh took %v\n", time.Since(start).Round(time.Millisecond))

	if err := service.RunReport(ctx); err != nil {
		log.Fatalf("Report failed: %v", err)
	}

	archived, err := storage.LatestDashboard(ctx, snapshots, dashboard.Timeframe)
	if err != nil {
		log.Fatalf("Snapshot was not archived: %v", err)
	}
	fmt.Printf("\n💾 Snapshot archived (%d records)\n", archived.RecordCount)

	fmt.Println("\n📈 Metrics:")
	fmt.Println(service.GetMetrics())

	fmt.Println("\n✅ Integration test completed!")
}
