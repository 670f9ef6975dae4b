// Package mailer sends the channel processing summary email over SMTP.
package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"ytscribe/config"
	"ytscribe/errors"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// VideoResult is one row in the channel summary email.
type VideoResult struct {
	VideoID    string
	VideoURL   string
	Title      string
	Status     string
	Error      string
	Transcript string
}

// Preview returns a truncated transcript for the email body.
func (v VideoResult) Preview() string {
	const max = 200
	if len(v.Transcript) <= max {
		return v.Transcript
	}
	return v.Transcript[:max] + "..."
}

func (v VideoResult) Succeeded() bool {
	return v.Status == "success"
}

// ChannelReport carries everything the summary email needs.
type ChannelReport struct {
	ChannelURL   string
	ChannelName  string
	TotalVideos  int
	SuccessCount int
	FailedCount  int
	Results      []VideoResult
}

func (r ChannelReport) DisplayName() string {
	if r.ChannelName != "" {
		return r.ChannelName
	}
	return r.ChannelURL
}

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`YouTube Channel Processing Results

Channel: {{.DisplayName}}
Channel URL: {{.ChannelURL}}

Summary:
- Total Videos: {{.TotalVideos}}
- Successful: {{.SuccessCount}}
- Failed: {{.FailedCount}}
{{range .Results}}
Video ID: {{.VideoID}}
Title: {{.Title}}
URL: {{.VideoURL}}
Status: {{.Status}}
{{- if .Error}}
Error: {{.Error}}
{{- end}}
{{- if and .Succeeded .Transcript}}
Transcript Preview: {{.Preview}}
{{- end}}
{{end}}`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1>YouTube Channel Processing Complete</h1>
  <p><strong>Channel:</strong> {{.DisplayName}}</p>
  <p><strong>Channel URL:</strong> <a href="{{.ChannelURL}}">{{.ChannelURL}}</a></p>
  <h3>Summary</h3>
  <ul>
    <li>Total Videos: <strong>{{.TotalVideos}}</strong></li>
    <li>Successful: <strong style="color: #28a745;">{{.SuccessCount}}</strong></li>
    <li>Failed: <strong style="color: #dc3545;">{{.FailedCount}}</strong></li>
  </ul>
  <h3>Video Details</h3>
  {{range .Results}}
  <div style="border: 1px solid #ddd; padding: 12px; margin: 8px 0;">
    <p><strong>{{.Title}}</strong></p>
    <p>Video ID: {{.VideoID}}</p>
    <p>URL: <a href="{{.VideoURL}}">{{.VideoURL}}</a></p>
    <p>Status: {{.Status}}</p>
    {{- if .Error}}
    <p style="color: #dc3545;">Error: {{.Error}}</p>
    {{- end}}
    {{- if and .Succeeded .Transcript}}
    <blockquote>{{.Preview}}</blockquote>
    {{- end}}
  </div>
  {{end}}
</body>
</html>`))

// Mailer delivers summary emails through the configured SMTP relay.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Configured reports whether SMTP credentials are present. Callers
// skip email delivery when they are not.
func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// SendChannelReport renders and sends the channel summary to one
// recipient as a multipart text plus HTML message.
func (m *Mailer) SendChannelReport(toEmail string, report ChannelReport) error {
	const op = "Mailer.SendChannelReport"

	if !m.Configured() {
		logrus.Warn("SMTP credentials not configured, skipping email")
		return nil
	}

	var text, html bytes.Buffer
	if err := textBody.Execute(&text, report); err != nil {
		return errors.Internal(op, err, "Failed to render email body")
	}
	if err := htmlBody.Execute(&html, report); err != nil {
		return errors.Internal(op, err, "Failed to render email body")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", fmt.Sprintf("YouTube Channel Processing Complete: %s", report.DisplayName()))
	msg.SetBody("text/plain", text.String())
	msg.AddAlternative("text/html", html.String())

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return errors.Internal(op, err, "Failed to send email")
	}

	logrus.WithField("to", toEmail).Info("Channel report email sent")
	return nil
}
