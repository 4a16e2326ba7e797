package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/ringside/wrestling-pulse/internal/monitoring"
	"github.com/ringside/wrestling-pulse/internal/sources"
)

func main() {
	fmt.Println("🔍 Wrestling Pulse - Source Connectivity Test")
	fmt.Println("=============================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Println("\n📡 Testing sources...")
	fmt.Println(strings.Repeat("-", 45))

	for _, source := range monitoring.DefaultSources(cfg) {
		testSource(ctx, source, cfg.Keywords)
	}

	fmt.Println("\n✅ Source connectivity test completed!")
	fmt.Println("\n💡 Next steps:")
	fmt.Println("   • Configure missing credentials in .env file")
	fmt.Println("   • Run the service with: make run")
}

func testSource(ctx context.Context, source sources.Source, keywords []string) {
	fmt.Printf("🔸 Testing %s... ", source.GetName())

	if !source.IsEnabled() {
		fmt.Printf("⚠️  DISABLED (missing credentials or feeds)\n")
		return
	}

	records, err := source.FetchRecords(ctx, keywords, 24*time.Hour)
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}

	fmt.Printf("✅ SUCCESS (%d records found)\n", len(records))

	for _, raw := range records {
		rec, err := models.Normalize(raw)
		if err != nil {
			continue
		}
		fmt.Printf("   📝 Sample: %q (%s)\n", rec.Title, rec.Timestamp.Format("2006-01-02 15:04"))
		break
	}
}
