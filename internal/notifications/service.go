package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const reportListLimit = 5

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
	send   func(m *gomail.Message) error
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	s := &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		return d.DialAndSend(m)
	}
	return s
}

// SendReport sends a report via configured notification channels
func (s *Service) SendReport(ctx context.Context, report *models.Report) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postToTeams(ctx, s.buildTeamsMessage(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendReportEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SendAlert pushes a single trend alert to every configured channel
func (s *Service) SendAlert(ctx context.Context, alert *models.TrendAlert) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postToTeams(ctx, buildAlertMessage(alert)); err != nil {
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		}
	}

	if s.config.NotificationEmail != "" {
		m := s.newMessage(fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Severity)), alertTitle(alert)))
		m.SetBody("text/plain", fmt.Sprintf("%s\n\nRaised: %s\n", alert.Message, alert.Timestamp.Format("2006-01-02 15:04:05 UTC")))
		if err := s.send(m); err != nil {
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("alert notification errors: %s", strings.Join(errors, "; "))
	}

	logrus.WithFields(logrus.Fields{
		"type":     alert.Type,
		"severity": alert.Severity,
	}).Info("Sent trend alert")
	return nil
}

func (s *Service) postToTeams(ctx context.Context, message *TeamsMessage) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.Report) *TeamsMessage {
	d := report.Dashboard

	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: "D4AF37",
		Title:      fmt.Sprintf("Wrestling Pulse - %s Report", capitalize(report.Period)),
		Text: fmt.Sprintf("%d records analysed over %s, %d alerts raised",
			d.RecordCount, d.Timeframe, len(d.Alerts)),
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts: []TeamsFact{
			{Name: "Records", Value: fmt.Sprintf("%d", d.RecordCount)},
			{Name: "Storylines", Value: fmt.Sprintf("%d", len(d.Storylines))},
			{Name: "Alerts", Value: fmt.Sprintf("%d", len(d.Alerts))},
			{Name: "Generated", Value: report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
		},
		Markdown: true,
	})

	if lines := trendLines(d.Trends); len(lines) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Trending Wrestlers",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	if lines := storylineLines(d.Storylines); len(lines) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Hot Storylines",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	if len(d.Topics) > 0 {
		var facts []TeamsFact
		for i, topic := range d.Topics {
			if i == reportListLimit {
				break
			}
			facts = append(facts, TeamsFact{
				Name:  topic.Title,
				Value: fmt.Sprintf("%d mentions, sentiment %.2f", topic.Mentions, topic.Sentiment),
			})
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Trending Topics",
			Facts:         facts,
		})
	}

	return message
}

func buildAlertMessage(alert *models.TrendAlert) *TeamsMessage {
	return &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: severityColor(alert.Severity),
		Title:      alertTitle(alert),
		Text:       alert.Message,
		Sections: []TeamsSection{{
			Facts: []TeamsFact{
				{Name: "Severity", Value: string(alert.Severity)},
				{Name: "Type", Value: string(alert.Type)},
				{Name: "Raised", Value: alert.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")},
			},
		}},
	}
}

func alertTitle(alert *models.TrendAlert) string {
	switch alert.Type {
	case models.AlertTrendSpike:
		return fmt.Sprintf("Mention spike: %s", alert.WrestlerName)
	case models.AlertSentimentShift:
		return fmt.Sprintf("Sentiment shift: %s", alert.WrestlerName)
	case models.AlertStorylineMomentum:
		return "Storyline heating up"
	}
	return "Trend alert"
}

func severityColor(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "D13438"
	case models.SeverityHigh:
		return "FF8C00"
	case models.SeverityMedium:
		return "FFB900"
	}
	return "605E5C"
}

func trendLines(trends []models.WrestlerTrend) []string {
	var lines []string
	for i, t := range trends {
		if i == reportListLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("**%s** %s %+.0f%% (%d → %d mentions), momentum %.0f",
			t.WrestlerName, t.TrendingDirection, t.ChangePct, t.PreviousPeriodMentions, t.CurrentPeriodMentions, t.MomentumScore))
	}
	return lines
}

func storylineLines(storylines []models.Storyline) []string {
	var lines []string
	for i, s := range storylines {
		if i == reportListLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("**%s** (%s, %s) intensity %.1f, fans %.1f",
			s.Title, s.Promotion, s.Status, s.IntensityScore, s.FanReceptionScore))
	}
	return lines
}

func (s *Service) newMessage(subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	return m
}

func (s *Service) sendReportEmail(report *models.Report) error {
	subject := fmt.Sprintf("Wrestling Pulse - %s Report (%d records)",
		capitalize(report.Period), report.Dashboard.RecordCount)

	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := s.newMessage(subject)
	m.SetBody("text/plain", buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

var emailTemplate = template.Must(template.New("email").Funcs(template.FuncMap{
	"title": capitalize,
	"pct":   func(v float64) string { return fmt.Sprintf("%+.0f%%", v) },
	"score": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"first": func(n int, v any) any { return firstN(n, v) },
}).Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Wrestling Pulse Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #1a1a1a; color: #d4af37; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .item { border-left: 4px solid #d4af37; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .critical { border-left-color: #d13438; }
        .high { border-left-color: #ff8c00; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Wrestling Pulse</h1>
        <p>{{title .Period}} report generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <p><strong>Records analysed:</strong> {{.Dashboard.RecordCount}} ({{.Dashboard.Timeframe}})</p>
        <p><strong>Storylines:</strong> {{len .Dashboard.Storylines}} | <strong>Alerts:</strong> {{len .Dashboard.Alerts}}</p>
    </div>

    {{with .Dashboard.Alerts}}
    <h2>Alerts</h2>
    {{range first 5 .}}
        <div class="item {{.Severity}}">{{.Message}}</div>
    {{end}}
    {{end}}

    {{with .Dashboard.Trends}}
    <h2>Trending Wrestlers</h2>
    {{range first 5 .}}
        <div class="item"><strong>{{.WrestlerName}}</strong> {{.TrendingDirection}} {{pct .ChangePct}}, momentum {{score .MomentumScore}}</div>
    {{end}}
    {{end}}

    {{with .Dashboard.Storylines}}
    <h2>Hot Storylines</h2>
    {{range first 5 .}}
        <div class="item"><strong>{{.Title}}</strong> ({{.Promotion}}, {{.Status}}) intensity {{score .IntensityScore}}</div>
    {{end}}
    {{end}}

    {{with .Dashboard.Momentum}}
    <h2>Push / Burial Watch</h2>
    {{range first 5 .}}
        <div class="item"><strong>{{.WrestlerName}}</strong> {{score .PushBurialScore}}/10 ({{.SentimentTrend}}, contract {{.ContractStatus}})</div>
    {{end}}
    {{end}}

    <hr>
    <p><small>This report was generated automatically by Wrestling Pulse.</small></p>
</body>
</html>
`))

func buildEmailHTML(report *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(report *models.Report) string {
	d := report.Dashboard
	var text strings.Builder

	fmt.Fprintf(&text, "Wrestling Pulse - %s Report\n", capitalize(report.Period))
	fmt.Fprintf(&text, "Generated: %s\n\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	fmt.Fprintf(&text, "Records: %d (%s)\n", d.RecordCount, d.Timeframe)
	fmt.Fprintf(&text, "Storylines: %d\n", len(d.Storylines))
	fmt.Fprintf(&text, "Alerts: %d\n", len(d.Alerts))

	if lines := trendLines(d.Trends); len(lines) > 0 {
		text.WriteString("\nTRENDING WRESTLERS\n")
		text.WriteString("==================\n")
		for _, line := range lines {
			text.WriteString(strings.ReplaceAll(line, "**", "") + "\n")
		}
	}

	if lines := storylineLines(d.Storylines); len(lines) > 0 {
		text.WriteString("\nHOT STORYLINES\n")
		text.WriteString("==============\n")
		for _, line := range lines {
			text.WriteString(strings.ReplaceAll(line, "**", "") + "\n")
		}
	}

	text.WriteString("\n---\nThis report was generated automatically by Wrestling Pulse.\n")

	return text.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstN(n int, v any) any {
	switch items := v.(type) {
	case []models.TrendAlert:
		return items[:min(n, len(items))]
	case []models.WrestlerTrend:
		return items[:min(n, len(items))]
	case []models.Storyline:
		return items[:min(n, len(items))]
	case []models.WrestlerMomentum:
		return items[:min(n, len(items))]
	}
	return v
}
