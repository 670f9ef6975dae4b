package mailer

import (
	"bytes"
	"strings"
	"testing"

	"ytscribe/config"
)

func sampleReport() ChannelReport {
	return ChannelReport{
		ChannelURL:   "https://www.youtube.com/@example",
		ChannelName:  "Example Channel",
		TotalVideos:  2,
		SuccessCount: 1,
		FailedCount:  1,
		Results: []VideoResult{
			{
				VideoID:    "dQw4w9WgXcQ",
				VideoURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Title:      "First video",
				Status:     "success",
				Transcript: "never gonna give you up",
			},
			{
				VideoID:  "aaaaaaaaaaa",
				VideoURL: "https://www.youtube.com/watch?v=aaaaaaaaaaa",
				Title:    "Second video",
				Status:   "failed",
				Error:    "download failed",
			},
		},
	}
}

func TestTextBodyRendering(t *testing.T) {
	var buf bytes.Buffer
	if err := textBody.Execute(&buf, sampleReport()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	body := buf.String()

	for _, want := range []string{
		"Channel: Example Channel",
		"Total Videos: 2",
		"Successful: 1",
		"Failed: 1",
		"Transcript Preview: never gonna give you up",
		"Error: download failed",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("text body missing %q:\n%s", want, body)
		}
	}
}

func TestHTMLBodyEscapesContent(t *testing.T) {
	report := sampleReport()
	report.Results[0].Title = "<script>alert(1)</script>"

	var buf bytes.Buffer
	if err := htmlBody.Execute(&buf, report); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("HTML body did not escape title")
	}
}

func TestPreviewTruncates(t *testing.T) {
	v := VideoResult{Transcript: strings.Repeat("x", 500)}
	preview := v.Preview()
	if len(preview) != 203 {
		t.Errorf("preview length %d, want 203", len(preview))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Error("preview should end with ellipsis")
	}
}

func TestUnconfiguredMailerSkipsSend(t *testing.T) {
	m := New(config.SMTPConfig{})
	if err := m.SendChannelReport("dest@example.com", sampleReport()); err != nil {
		t.Errorf("unconfigured mailer should no-op, got %v", err)
	}
}
