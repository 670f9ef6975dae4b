// Package transcriber converts audio artifacts to text through a
// speech-to-text provider.
package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options configure a single transcription call. APIKey overrides the
// client's default credential when set.
type Options struct {
	APIKey   string
	Model    string
	Language string
}

// Provider is the speech-to-text boundary the pipeline runner calls.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, opts Options) (string, error)
}

const defaultBaseURL = "https://api.deepgram.com"

type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Language          string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Deepgram calls the Deepgram pre-recorded listen API.
type Deepgram struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
}

var _ Provider = (*Deepgram)(nil)

func NewDeepgram(cfg Config) *Deepgram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute)/60, 1)
	}

	return &Deepgram{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (d *Deepgram) Transcribe(ctx context.Context, audio []byte, opts Options) (string, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = d.config.APIKey
	}
	if apiKey == "" {
		return "", errors.New("deepgram API key is not configured")
	}

	model := opts.Model
	if model == "" {
		model = d.config.Model
	}
	language := opts.Language
	if language == "" {
		language = d.config.Language
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "rate limiter wait cancelled")
	}

	query := url.Values{}
	query.Set("model", model)
	query.Set("language", language)
	query.Set("smart_format", "true")

	endpoint := d.config.BaseURL + "/v1/listen?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", errors.Wrap(err, "failed to build transcription request")
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Content-Type", "audio/mpeg")

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "transcription request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read transcription response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram returned status %d: %s", resp.StatusCode, body)
	}

	var parsed listenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "failed to parse transcription response")
	}

	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", errors.New("deepgram returned no transcription alternatives")
	}

	logrus.WithFields(logrus.Fields{
		"model":    model,
		"duration": time.Since(start),
		"bytes":    len(audio),
	}).Info("Transcription completed")

	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}
