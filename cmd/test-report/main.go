package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ringside/wrestling-pulse/internal/analytics"
	"github.com/ringside/wrestling-pulse/internal/models"
)

const outputDir = "test_output"

func main() {
	fmt.Println("🤼 Wrestling Pulse - Test Report Generator")
	fmt.Println("==========================================")

	records := sampleRecords(time.Now())
	fmt.Printf("\n📊 Analyzing %d sample records...\n", len(records))

	analyzer := analytics.NewAnalyzer(nil, analytics.DefaultOptions())
	dashboard := analyzer.Analyze(records, models.Timeframe7d)

	printDashboard(&dashboard)

	if err := saveDashboard(&dashboard); err != nil {
		fmt.Printf("\n⚠️  Warning: Could not save to file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Test report generation completed!")
	fmt.Println("\n💡 Next steps:")
	fmt.Printf("   • Check the '%s' directory for the saved JSON dashboard\n", outputDir)
	fmt.Println("   • Run 'go test ./internal/analytics -v' for more detailed tests")
	fmt.Println("   • Configure real credentials and run the full service with 'go run ./cmd/bot'")
}

func printDashboard(d *models.Dashboard) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("📊 WRESTLING PULSE DASHBOARD")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("📅 Timeframe: %s\n", d.Timeframe)
	fmt.Printf("🕒 Generated: %s\n", d.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("📈 Records: %d\n", d.RecordCount)

	if len(d.Trends) > 0 {
		fmt.Println("\n📈 Trending Wrestlers:")
		for _, t := range d.Trends {
			fmt.Printf("   • %-20s %-8s %+6.0f%% (%d → %d) momentum %.0f\n",
				t.WrestlerName, t.TrendingDirection, t.ChangePct,
				t.PreviousPeriodMentions, t.CurrentPeriodMentions, t.MomentumScore)
		}
	}

	if len(d.Emerging) > 0 {
		fmt.Println("\n🌱 Emerging:")
		for _, e := range d.Emerging {
			fmt.Printf("   • %-20s %d mentions\n", e.WrestlerName, e.CurrentPeriodMentions)
		}
	}

	if len(d.Storylines) > 0 {
		fmt.Println("\n🔥 Storylines:")
		for _, s := range d.Storylines {
			fmt.Printf("   • %s [%s, %s] intensity %.1f, reception %.1f\n",
				s.Title, s.Promotion, s.Status, s.IntensityScore, s.FanReceptionScore)
		}
	}

	if len(d.Topics) > 0 {
		fmt.Println("\n💬 Topics:")
		for _, t := range d.Topics {
			fmt.Printf("   • %-20s %d mentions, sentiment %.2f (%s)\n",
				t.Title, t.Mentions, t.Sentiment, strings.Join(t.RelatedWrestlers, ", "))
		}
	}

	if len(d.Momentum) > 0 {
		fmt.Println("\n🎢 Push / Burial:")
		for _, m := range d.Momentum {
			fmt.Printf("   • %-20s %.1f/10 %-8s contract: %s\n",
				m.WrestlerName, m.PushBurialScore, m.SentimentTrend, m.ContractStatus)
		}
	}

	if len(d.Alerts) > 0 {
		fmt.Println("\n🚨 Alerts:")
		for _, a := range d.Alerts {
			fmt.Printf("   [%s] %s\n", strings.ToUpper(string(a.Severity)), a.Message)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
}

func saveDashboard(d *models.Dashboard) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	filename := filepath.Join(outputDir, fmt.Sprintf("wrestling_pulse_dashboard_%s.json", d.GeneratedAt.Format("2006-01-02_15-04-05")))
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return err
	}

	fmt.Printf("\n💾 Dashboard saved to: %s\n", filename)
	return nil
}

func sampleRecords(now time.Time) []models.TextRecord {
	type sample struct {
		source   string
		kind     models.SourceType
		title    string
		body     string
		hoursAgo int
	}

	samples := []sample{
		{"wrestlinginc", models.SourceNews, "Cody Rhodes and Roman Reigns set for WrestleMania rematch",
			"The rivalry between Cody Rhodes and Roman Reigns reignites as the feud heads toward a title match.", 130},
		{"reddit", models.SourceSocial, "Cody Rhodes promo was incredible",
			"Best promo of the year, Cody Rhodes is getting a huge push.", 20},
		{"reddit", models.SourceSocial, "Cody Rhodes vs Roman Reigns is the best feud going",
			"Roman Reigns and Cody Rhodes have an epic rivalry, this is legendary.", 10},
		{"twitter", models.SourceSocial, "Cody Rhodes confronts Roman Reigns on SmackDown",
			"Huge face off to close the show.", 5},
		{"cagesideseats", models.SourceNews, "CM Punk injury update",
			"CM Punk suffered an injury and is expected to miss the title match.", 100},
		{"f4wonline", models.SourceNews, "CM Punk contract expiring soon",
			"Sources say the CM Punk contract is expiring this summer.", 30},
		{"youtube", models.SourceSocial, "Rhea Ripley championship victory highlights",
			"Rhea Ripley retains the championship in an amazing match.", 12},
		{"reddit", models.SourceSocial, "Kenny Omega return rumors on AEW Dynamite",
			"Kenny Omega could return soon, fans would love it.", 40},
		{"twitter", models.SourceSocial, "Jey Uso buried again",
			"Jey Uso lost another match, creative keeps burying him. Terrible booking.", 8},
		{"f4wonline", models.SourceNews, "Jey Uso in talks over new deal",
			"Jey Uso is in negotiations with WWE over a contract extension.", 90},
	}

	records := make([]models.TextRecord, 0, len(samples))
	for i, s := range samples {
		records = append(records, models.TextRecord{
			ID:         fmt.Sprintf("sample_%s_%d", s.source, i+1),
			Title:      s.title,
			Body:       s.body,
			Timestamp:  now.Add(-time.Duration(s.hoursAgo) * time.Hour).UTC(),
			SourceType: s.kind,
			SourceName: s.source,
		})
	}
	return records
}
