package analytics

import (
	"fmt"
	"time"

	"github.com/ringside/wrestling-pulse/internal/models"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(roster ...string) *Analyzer {
	a := NewAnalyzer(roster, Options{})
	a.now = func() time.Time { return testNow }
	return a
}

var recordSeq int

// record builds a news record published `ago` before testNow
func record(title string, ago time.Duration) models.TextRecord {
	recordSeq++
	return models.TextRecord{
		ID:         fmt.Sprintf("rec_%d", recordSeq),
		Title:      title,
		Timestamp:  testNow.Add(-ago),
		SourceType: models.SourceNews,
		SourceName: "test",
	}
}

func repeat(title string, ago time.Duration, n int) []models.TextRecord {
	out := make([]models.TextRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, record(title, ago))
	}
	return out
}
