package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Limit(1), NewLimiter(60).Limit())
	assert.Equal(t, rate.Inf, NewLimiter(0).Limit())
}

func TestSources_GetName(t *testing.T) {
	assert.Equal(t, "rss", NewRSSSource(nil, nil).GetName())
	assert.Equal(t, "reddit", NewRedditSource("id", "secret", nil, nil).GetName())
	assert.Equal(t, "twitter", NewTwitterSource("token", nil).GetName())
	assert.Equal(t, "youtube", NewYouTubeSource("key", nil).GetName())
}

func TestRedditSource_IsEnabled(t *testing.T) {
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		subreddits   []string
		expected     bool
	}{
		{
			name:         "Credentials and subreddits provided",
			clientID:     "client_id",
			clientSecret: "client_secret",
			subreddits:   []string{"SquaredCircle"},
			expected:     true,
		},
		{
			name:         "Missing client ID",
			clientSecret: "client_secret",
			subreddits:   []string{"SquaredCircle"},
			expected:     false,
		},
		{
			name:     "Missing client secret",
			clientID: "client_id",
			expected: false,
		},
		{
			name:         "No subreddits",
			clientID:     "client_id",
			clientSecret: "client_secret",
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewRedditSource(tt.clientID, tt.clientSecret, tt.subreddits, nil)
			assert.Equal(t, tt.expected, source.IsEnabled())
		})
	}
}

func TestSources_IsEnabled(t *testing.T) {
	assert.True(t, NewRSSSource([]string{"https://example.com/feed"}, nil).IsEnabled())
	assert.False(t, NewRSSSource(nil, nil).IsEnabled())
	assert.True(t, NewTwitterSource("token", nil).IsEnabled())
	assert.False(t, NewTwitterSource("", nil).IsEnabled())
	assert.True(t, NewYouTubeSource("key", nil).IsEnabled())
	assert.False(t, NewYouTubeSource("", nil).IsEnabled())
}

func TestDisabledSourcesReturnNothing(t *testing.T) {
	ctx := context.Background()
	for _, source := range []Source{
		NewRSSSource(nil, nil),
		NewRedditSource("", "", nil, nil),
		NewTwitterSource("", nil),
		NewYouTubeSource("", nil),
	} {
		records, err := source.FetchRecords(ctx, []string{"WWE"}, time.Hour)
		assert.NoError(t, err, source.GetName())
		assert.Empty(t, records, source.GetName())
	}
}

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Wrestling Daily</title>
  <item>
    <title>Cody Rhodes retains at Raw</title>
    <guid>wd-1</guid>
    <link>https://example.com/1</link>
    <description>&lt;p&gt;Cody Rhodes &lt;b&gt;retains&lt;/b&gt;&lt;/p&gt;</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Gunther wins again</title>
    <link>https://example.com/2</link>
    <description>Gunther wins</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Old news</title>
    <guid>wd-3</guid>
    <description>From last month</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Cody Rhodes retains at Raw</title>
    <guid>wd-1</guid>
    <description>syndicated twice</description>
    <pubDate>%s</pubDate>
  </item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	now := time.Now()
	body := fmt.Sprintf(rssTemplate,
		now.Add(-time.Hour).Format(time.RFC1123Z),
		now.Add(-2*time.Hour).Format(time.RFC1123Z),
		now.Add(-30*24*time.Hour).Format(time.RFC1123Z),
		now.Add(-time.Hour).Format(time.RFC1123Z),
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRSSSource_FetchRecords(t *testing.T) {
	srv := newFeedServer(t)
	source := NewRSSSource([]string{srv.URL + "/feed", srv.URL + "/missing"}, unlimited())

	records, err := source.FetchRecords(context.Background(), nil, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, ok := records[0].(models.NewsRecord)
	require.True(t, ok)
	assert.Equal(t, "Wrestling Daily", first.FeedName)
	assert.Equal(t, "Cody Rhodes retains at Raw", first.Title)
	assert.Equal(t, "https://example.com/1", first.Link)
	assert.NotEmpty(t, first.GUID)

	second := records[1].(models.NewsRecord)
	assert.Equal(t, "Gunther wins again", second.Title)
	assert.NotEqual(t, first.GUID, second.GUID)

	normalized, err := models.Normalize(first)
	require.NoError(t, err)
	assert.Equal(t, "Cody Rhodes retains", normalized.Body)
}

func TestRSSSource_AllFeedsFail(t *testing.T) {
	srv := newFeedServer(t)
	source := NewRSSSource([]string{srv.URL + "/missing"}, unlimited())

	_, err := source.FetchRecords(context.Background(), nil, time.Hour)
	assert.Error(t, err)
}

func TestRSSSource_CancelledContext(t *testing.T) {
	srv := newFeedServer(t)
	source := NewRSSSource([]string{srv.URL + "/feed"}, rate.NewLimiter(rate.Every(time.Hour), 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.FetchRecords(ctx, nil, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedditSource_FetchRecords(t *testing.T) {
	now := time.Now()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/access_token":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "client_id" || pass != "client_secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
		case "/r/SquaredCircle/new.json":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprintf(w, `{"data":{"children":[
				{"data":{"id":"a1","title":"Roman Reigns returns","selftext":"huge pop","author":"fan","subreddit":"SquaredCircle","permalink":"/r/SquaredCircle/a1","created_utc":%d,"score":420,"num_comments":69}},
				{"data":{"id":"a2","title":"Weekly discussion","subreddit":"SquaredCircle","permalink":"/r/SquaredCircle/a2","created_utc":%d,"stickied":true}},
				{"data":{"id":"a3","title":"Old post","subreddit":"SquaredCircle","permalink":"/r/SquaredCircle/a3","created_utc":%d}}
			]}}`, now.Add(-time.Hour).Unix(), now.Add(-time.Hour).Unix(), now.Add(-72*time.Hour).Unix())
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	source := NewRedditSource("client_id", "client_secret", []string{"SquaredCircle", "private"}, unlimited())
	source.authURL = srv.URL + "/api/v1/access_token"
	source.apiURL = srv.URL

	records, err := source.FetchRecords(context.Background(), nil, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 1)

	post := records[0].(models.SocialRecord)
	assert.Equal(t, "reddit", post.Platform)
	assert.Equal(t, "a1", post.ExternalID)
	assert.Equal(t, "r/SquaredCircle", post.Community)
	assert.Equal(t, "https://reddit.com/r/SquaredCircle/a1", post.URL)
	assert.Equal(t, 420, post.Score)
	assert.Equal(t, 69, post.Replies)
}

func TestRedditSource_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	source := NewRedditSource("client_id", "client_secret", []string{"SquaredCircle"}, unlimited())
	source.authURL = srv.URL

	_, err := source.FetchRecords(context.Background(), nil, time.Hour)
	assert.Error(t, err)
}

func TestTwitterSource_FetchRecords(t *testing.T) {
	created := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		if r.URL.Query().Get("query") == buildSearchQuery("TNA") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprintf(w, `{"data":[
			{"id":"1","text":"CM Punk is the best in the world","author_id":"u1","created_at":%q,"public_metrics":{"like_count":10,"reply_count":2}},
			{"id":"2","text":"RT CM Punk","author_id":"u2","created_at":%q,"referenced_tweets":[{"type":"retweeted","id":"1"}]}
		],"meta":{"result_count":2}}`, created, created)
	}))
	defer srv.Close()

	source := NewTwitterSource("token", unlimited())
	source.apiURL = srv.URL

	records, err := source.FetchRecords(context.Background(), []string{"CM Punk", "WWE", "TNA"}, time.Hour*24)
	require.NoError(t, err)
	require.Len(t, records, 1)

	tweet := records[0].(models.SocialRecord)
	assert.Equal(t, "twitter", tweet.Platform)
	assert.Equal(t, "1", tweet.ExternalID)
	assert.Equal(t, 10, tweet.Score)
	assert.Equal(t, 2, tweet.Replies)
	assert.Equal(t, "https://twitter.com/i/status/1", tweet.URL)
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		keyword  string
		expected string
	}{
		{keyword: "AEW", expected: `"AEW" (wrestling OR wrestler OR match OR champion) -is:retweet`},
		{keyword: "wwe", expected: `(WWE OR #WWERaw OR #SmackDown) -is:retweet`},
		{keyword: "Cody Rhodes", expected: `"Cody Rhodes" -is:retweet`},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildSearchQuery(tt.keyword))
		})
	}
}

func TestYouTubeSource_FetchRecords(t *testing.T) {
	published := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		fmt.Fprintf(w, `{"items":[
			{"id":{"videoId":"v1"},"snippet":{"title":"Gunther vs Jey Uso highlights","description":"Full match","channelTitle":"WWE","publishedAt":%q}},
			{"id":{},"snippet":{"title":"A channel result","publishedAt":%q}},
			{"id":{"videoId":"v2"},"snippet":{"title":"Bad date","publishedAt":"yesterday"}}
		]}`, published, published)
	}))
	defer srv.Close()

	source := NewYouTubeSource("key", unlimited())
	source.apiURL = srv.URL

	records, err := source.FetchRecords(context.Background(), []string{"WWE", "Gunther"}, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 1)

	video := records[0].(models.SocialRecord)
	assert.Equal(t, "youtube", video.Platform)
	assert.Equal(t, "v1", video.ExternalID)
	assert.Equal(t, "WWE", video.Community)
	assert.Equal(t, "https://www.youtube.com/watch?v=v1", video.URL)
}

func TestDeduplicate(t *testing.T) {
	records := []models.RawRecord{
		models.NewsRecord{GUID: "1", Title: "First"},
		models.SocialRecord{Platform: "reddit", ExternalID: "1", Title: "Second"},
		models.NewsRecord{GUID: "1", Title: "Duplicate"},
		models.SocialRecord{Platform: "twitter", ExternalID: "1", Title: "Third"},
	}

	unique := deduplicate(records)

	require.Len(t, unique, 3)
	assert.Equal(t, "First", unique[0].(models.NewsRecord).Title)
	assert.Equal(t, "Second", unique[1].(models.SocialRecord).Title)
	assert.Equal(t, "Third", unique[2].(models.SocialRecord).Title)
}
