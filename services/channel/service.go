// Package channel crawls a YouTube channel's recent uploads, runs each
// through the transcription pipeline, and optionally emails a summary.
package channel

import (
	"context"

	"ytscribe/downloader"
	"ytscribe/errors"
	"ytscribe/mailer"
	"ytscribe/models"

	"github.com/sirupsen/logrus"
)

// Lister enumerates a channel's uploads. Satisfied by the yt-dlp
// downloader.
type Lister interface {
	ListChannel(ctx context.Context, channelURL string, limit int) (string, []downloader.ChannelVideo, error)
}

// Reporter delivers the summary email. Satisfied by the SMTP mailer.
type Reporter interface {
	Configured() bool
	SendChannelReport(toEmail string, report mailer.ChannelReport) error
}

// Transcriber runs the batch transcription pipeline. Satisfied by the
// video service.
type Transcriber interface {
	TranscribeBatch(ctx context.Context, req models.TranscribeRequest) (*models.BatchResult, error)
}

type Service struct {
	lister   Lister
	videos   Transcriber
	reporter Reporter
}

func NewService(lister Lister, videos Transcriber, reporter Reporter) *Service {
	return &Service{lister: lister, videos: videos, reporter: reporter}
}

// Request controls one crawl run.
type Request struct {
	ChannelURL string
	Limit      int
	Email      string
	APIKey     string
}

// Result is the outcome of one crawl run, mirrored in the summary
// email when one is sent.
type Result struct {
	ChannelName  string                    `json:"channel_name"`
	ChannelURL   string                    `json:"channel_url"`
	TotalVideos  int                       `json:"total_videos"`
	SuccessCount int                       `json:"success_count"`
	FailedCount  int                       `json:"failed_count"`
	Success      []models.TranscriptResult `json:"success"`
	Errors       []models.TranscriptError  `json:"errors"`
}

// Process lists up to Limit recent uploads, transcribes them as one
// batch, and emails the summary when a recipient is set.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	const op = "channel.Service.Process"

	if req.ChannelURL == "" {
		return nil, errors.InvalidInput(op, nil, "Channel URL is required")
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	logger := logrus.WithFields(logrus.Fields{
		"channel": req.ChannelURL,
		"limit":   req.Limit,
	})
	logger.Info("Starting channel crawl")

	name, uploads, err := s.lister.ListChannel(ctx, req.ChannelURL, req.Limit)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, errors.NotFound(op, nil, "No videos found for channel")
	}

	ids := make([]string, 0, len(uploads))
	titles := make(map[string]string, len(uploads))
	for _, upload := range uploads {
		ids = append(ids, upload.ID)
		titles[upload.ID] = upload.Title
	}

	batch, err := s.videos.TranscribeBatch(ctx, models.TranscribeRequest{
		VideoIDs:       ids,
		DeepgramAPIKey: req.APIKey,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		ChannelName:  name,
		ChannelURL:   req.ChannelURL,
		TotalVideos:  len(uploads),
		SuccessCount: len(batch.Success),
		FailedCount:  len(batch.Errors),
		Success:      batch.Success,
		Errors:       batch.Errors,
	}

	logger.WithFields(logrus.Fields{
		"total":   result.TotalVideos,
		"success": result.SuccessCount,
		"failed":  result.FailedCount,
	}).Info("Channel crawl complete")

	if req.Email != "" {
		if err := s.sendReport(req.Email, titles, result); err != nil {
			logger.WithError(err).Warn("Failed to send channel report email")
		}
	}

	return result, nil
}

func (s *Service) sendReport(toEmail string, titles map[string]string, result *Result) error {
	report := mailer.ChannelReport{
		ChannelURL:   result.ChannelURL,
		ChannelName:  result.ChannelName,
		TotalVideos:  result.TotalVideos,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	}

	for _, item := range result.Success {
		report.Results = append(report.Results, mailer.VideoResult{
			VideoID:    item.VideoID,
			VideoURL:   watchURL(item.VideoID, item.VideoURL),
			Title:      titles[item.VideoID],
			Status:     item.Status,
			Transcript: item.Transcript,
		})
	}
	for _, item := range result.Errors {
		report.Results = append(report.Results, mailer.VideoResult{
			VideoID:  item.VideoID,
			VideoURL: watchURL(item.VideoID, item.VideoURL),
			Title:    titles[item.VideoID],
			Status:   item.Status,
			Error:    item.Error,
		})
	}

	return s.reporter.SendChannelReport(toEmail, report)
}

func watchURL(videoID, sourceURL string) string {
	if sourceURL != "" {
		return sourceURL
	}
	return "https://www.youtube.com/watch?v=" + videoID
}
