// Package video implements the batch transcription workflow: resolving
// each requested video against the record store, acquiring or reusing
// audio artifacts, and running the transcription pipeline with per-item
// failure isolation.
package video

import (
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"ytscribe/errors"
	"ytscribe/models"
	"ytscribe/repository"
	"ytscribe/transcriber"
	"ytscribe/videoid"
)

// Acquirer downloads the audio artifact for a video into a directory.
type Acquirer interface {
	Acquire(ctx context.Context, videoID, dir string) (string, error)
}

// Archiver optionally stores completed transcripts in object storage.
type Archiver interface {
	SaveTranscript(ctx context.Context, videoID, text string) error
}

type Config struct {
	// AudioDir is where acquired artifacts are staged. Artifacts of
	// failed items stay here so a later submission can reuse them.
	AudioDir string

	// DefaultAPIKey is used when a request does not carry its own
	// provider credential.
	DefaultAPIKey string
}

type Service struct {
	repo     repository.VideoRepository
	acquirer Acquirer
	provider transcriber.Provider
	archiver Archiver // nil when archiving is not configured
	config   Config

	locks sync.Map
}

func NewService(
	repo repository.VideoRepository,
	acquirer Acquirer,
	provider transcriber.Provider,
	archiver Archiver,
	config Config,
) *Service {
	return &Service{
		repo:     repo,
		acquirer: acquirer,
		provider: provider,
		archiver: archiver,
		config:   config,
	}
}

// TranscribeBatch normalizes the requested references, resolves each
// canonical ID against the record store, and runs the pipeline for the
// items that need work. One item's failure never aborts the batch.
func (s *Service) TranscribeBatch(ctx context.Context, req models.TranscribeRequest) (*models.BatchResult, error) {
	const op = "VideoService.TranscribeBatch"

	items := videoid.NormalizeBatch(req.Videos, req.VideoIDs, req.VideoURLs)
	if len(items) == 0 {
		return nil, errors.InvalidInput(op, nil,
			"At least one of 'videos', 'video_ids', or 'video_urls' must be provided")
	}

	apiKey := req.DeepgramAPIKey
	if apiKey == "" {
		apiKey = s.config.DefaultAPIKey
	}
	if apiKey == "" {
		return nil, errors.InvalidInput(op, nil,
			"Deepgram API key is required. Provide it in the request or set DEEPGRAM_API_KEY.")
	}

	result := &models.BatchResult{
		Success: []models.TranscriptResult{},
		Errors:  []models.TranscriptError{},
	}

	for _, item := range items {
		s.processItem(ctx, item, apiKey, result)
	}

	return result, nil
}

// processItem walks the resolver decision table for one video and, when
// work is needed, runs the acquire→transcribe→persist pipeline.
func (s *Service) processItem(ctx context.Context, item videoid.Item, apiKey string, result *models.BatchResult) {
	logger := logrus.WithField("video_id", item.ID)

	lock := s.lockFor(item.ID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.repo.Get(ctx, item.ID)
	if err != nil && !errors.IsNotFound(err) {
		logger.WithError(err).Error("Failed to read video record")
		result.Errors = append(result.Errors, itemError(item, err.Error()))
		return
	}

	if record != nil {
		// Cached success: no network calls.
		if record.IsSuccess() && record.Transcript != "" {
			logger.Info("Serving transcription from cache")
			result.Success = append(result.Success, models.TranscriptResult{
				VideoID:    item.ID,
				VideoURL:   sourceOf(record, item),
				Transcript: record.Transcript,
				Status:     string(models.StatusSuccess),
				FromCache:  true,
			})
			return
		}

		// Cached failure: terminal, never retried automatically.
		if record.IsFailed() {
			message := record.ErrorMessage
			if message == "" {
				message = "Previous attempt failed"
			}
			logger.WithField("error", message).Info("Returning cached failure")
			result.Errors = append(result.Errors, models.TranscriptError{
				VideoID:  item.ID,
				VideoURL: sourceOf(record, item),
				Error:    message,
				Status:   "error",
			})
			return
		}
	}

	audioPath, err := s.stageArtifact(ctx, record, item)
	if err != nil {
		logger.WithError(err).Error("Audio acquisition failed")
		s.markFailed(ctx, item, err.Error())
		result.Errors = append(result.Errors, itemError(item, err.Error()))
		return
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		logger.WithError(err).Error("Failed to read staged audio")
		s.markFailed(ctx, item, err.Error())
		result.Errors = append(result.Errors, itemError(item, err.Error()))
		return
	}

	transcript, err := s.provider.Transcribe(ctx, audio, transcriber.Options{APIKey: apiKey})
	if err != nil {
		// The artifact stays on disk so a resubmission after reset can
		// reuse it without re-downloading.
		logger.WithError(err).Error("Transcription failed")
		s.markFailed(ctx, item, err.Error())
		result.Errors = append(result.Errors, itemError(item, err.Error()))
		return
	}

	status := models.StatusSuccess
	emptyPath := ""
	if err := s.repo.Update(ctx, item.ID, repository.UpdateFields{
		Status:     &status,
		Transcript: &transcript,
		AudioPath:  &emptyPath,
	}); err != nil {
		logger.WithError(err).Error("Failed to persist transcription")
		result.Errors = append(result.Errors, itemError(item, err.Error()))
		return
	}

	// The artifact is consumed; deletion failure only leaves a stray
	// file behind and does not change the item's outcome.
	if err := os.Remove(audioPath); err != nil {
		logger.WithError(err).WithField("path", audioPath).Warn("Could not delete audio file")
	}

	if s.archiver != nil {
		if err := s.archiver.SaveTranscript(ctx, item.ID, transcript); err != nil {
			logger.WithError(err).Warn("Failed to archive transcript")
		}
	}

	logger.Info("Transcription completed")
	result.Success = append(result.Success, models.TranscriptResult{
		VideoID:    item.ID,
		VideoURL:   item.Source,
		Transcript: transcript,
		Status:     string(models.StatusSuccess),
		FromCache:  false,
	})
}

// stageArtifact reuses a previously staged audio file when it still
// exists, otherwise acquires a fresh one and records its path.
func (s *Service) stageArtifact(ctx context.Context, record *models.VideoRecord, item videoid.Item) (string, error) {
	if record != nil && record.Artifact() == models.ArtifactStaged {
		logrus.WithFields(logrus.Fields{
			"video_id": item.ID,
			"path":     record.AudioPath,
		}).Info("Reusing staged audio artifact")
		return record.AudioPath, nil
	}

	// Idempotent create: a no-op when the record already exists.
	if err := s.repo.Create(ctx, item.ID, item.Source, models.StatusProcessing); err != nil {
		return "", err
	}

	audioPath, err := s.acquirer.Acquire(ctx, item.ID, s.config.AudioDir)
	if err != nil {
		return "", err
	}

	if err := s.repo.Update(ctx, item.ID, repository.UpdateFields{AudioPath: &audioPath}); err != nil {
		return "", err
	}

	return audioPath, nil
}

func (s *Service) markFailed(ctx context.Context, item videoid.Item, message string) {
	// The record may not exist when the failure happened before
	// creation (e.g. a repository error); create is idempotent.
	if err := s.repo.Create(ctx, item.ID, item.Source, models.StatusFailed); err != nil {
		logrus.WithError(err).WithField("video_id", item.ID).Error("Failed to create failure record")
		return
	}

	status := models.StatusFailed
	if err := s.repo.Update(ctx, item.ID, repository.UpdateFields{
		Status:       &status,
		ErrorMessage: &message,
	}); err != nil {
		logrus.WithError(err).WithField("video_id", item.ID).Error("Failed to record failure")
	}
}

// Lookup returns the stored record for an identifier or URL.
func (s *Service) Lookup(ctx context.Context, idOrURL string) (*models.VideoRecord, error) {
	const op = "VideoService.Lookup"

	id := videoid.Extract(idOrURL)
	if id == "" {
		return nil, errors.InvalidInput(op, nil, "Video ID is required")
	}

	return s.repo.Get(ctx, id)
}

// Reset returns a failed record to pending so a resubmission retries
// it. A still-staged artifact is reused by the next run.
func (s *Service) Reset(ctx context.Context, idOrURL string) error {
	id := videoid.Extract(idOrURL)

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.Reset(ctx, id)
}

func (s *Service) lockFor(videoID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(videoID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func sourceOf(record *models.VideoRecord, item videoid.Item) string {
	if record != nil && record.SourceURL != "" {
		return record.SourceURL
	}
	return item.Source
}

func itemError(item videoid.Item, message string) models.TranscriptError {
	return models.TranscriptError{
		VideoID:  item.ID,
		VideoURL: item.Source,
		Error:    message,
		Status:   "error",
	}
}
