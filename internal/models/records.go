package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// RawRecord is a fetched item before normalization. The concrete type is
// either NewsRecord or SocialRecord.
type RawRecord interface {
	rawRecord()
}

// NewsRecord is an entry from a news RSS or Atom feed
type NewsRecord struct {
	GUID        string
	FeedName    string
	Title       string
	Description string // may contain HTML
	Link        string
	Published   time.Time
}

// SocialRecord is a post from a social platform or forum
type SocialRecord struct {
	Platform   string // "reddit", "twitter", "youtube"
	ExternalID string
	Community  string // subreddit, channel
	Title      string
	Text       string
	Author     string
	URL        string
	CreatedAt  time.Time
	Score      int
	Replies    int
}

func (NewsRecord) rawRecord()   {}
func (SocialRecord) rawRecord() {}

// ErrEmptyRecord is returned for records without any title or text
var ErrEmptyRecord = errors.New("record has no text")

// Normalize converts a fetched record into the common TextRecord shape
func Normalize(raw RawRecord) (TextRecord, error) {
	switch r := raw.(type) {
	case NewsRecord:
		rec := TextRecord{
			ID:         "news_" + r.GUID,
			Title:      strings.TrimSpace(r.Title),
			Body:       StripHTML(r.Description),
			Timestamp:  r.Published.UTC(),
			SourceType: SourceNews,
			SourceName: r.FeedName,
			URL:        r.Link,
		}
		if rec.Title == "" && rec.Body == "" {
			return TextRecord{}, ErrEmptyRecord
		}
		return rec, nil
	case SocialRecord:
		rec := TextRecord{
			ID:         fmt.Sprintf("%s_%s", r.Platform, r.ExternalID),
			Title:      strings.TrimSpace(r.Title),
			Body:       strings.TrimSpace(r.Text),
			Timestamp:  r.CreatedAt.UTC(),
			SourceType: SourceSocial,
			SourceName: r.Platform,
			URL:        r.URL,
			Engagement: &Engagement{Score: r.Score, Replies: r.Replies},
		}
		if rec.Title == "" && rec.Body == "" {
			return TextRecord{}, ErrEmptyRecord
		}
		return rec, nil
	case nil:
		return TextRecord{}, errors.New("nil record")
	default:
		return TextRecord{}, fmt.Errorf("unsupported record type %T", raw)
	}
}

// StripHTML returns the text content of an HTML fragment with whitespace collapsed
func StripHTML(content string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			// keep words on either side of block tags apart
			b.WriteByte(' ')
		}
	}
}
