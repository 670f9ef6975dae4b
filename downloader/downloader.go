// Package downloader acquires audio artifacts for YouTube videos by
// shelling out to yt-dlp.
package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Audio extensions yt-dlp may land depending on the source format and
// whether ffmpeg post-processing succeeded. Probed in order.
var audioExtensions = []string{"mp3", "m4a", "webm", "opus"}

type Config struct {
	BinPath string // path to the yt-dlp executable
	Timeout time.Duration
}

type Downloader struct {
	config Config
}

func New(cfg Config) *Downloader {
	if cfg.BinPath == "" {
		cfg.BinPath = "yt-dlp"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &Downloader{config: cfg}
}

// Acquire downloads the best audio stream for a video, transcoded to
// mp3, into dir. It returns the path of the landed file.
func (d *Downloader) Acquire(ctx context.Context, videoID, dir string) (string, error) {
	url := "https://www.youtube.com/watch?v=" + videoID

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create download directory")
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.config.BinPath,
		"--no-playlist",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-warnings",
		"--quiet",
		"-o", filepath.Join(dir, videoID+".%(ext)s"),
		url,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"dir":      dir,
	}).Info("Downloading audio")

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "yt-dlp failed: %s", stderr.String())
	}

	audioFile, err := FindAudioFile(dir, videoID)
	if err != nil {
		return "", err
	}

	return audioFile, nil
}

// FindAudioFile locates the downloaded artifact for a video ID by
// probing the known extensions.
func FindAudioFile(dir, videoID string) (string, error) {
	for _, ext := range audioExtensions {
		candidate := filepath.Join(dir, videoID+"."+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("audio file not found for video %s", videoID)
}

// ChannelVideo is one entry of a channel's upload list.
type ChannelVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type channelDump struct {
	Channel string         `json:"channel"`
	Title   string         `json:"title"`
	Entries []ChannelVideo `json:"entries"`
}

// ListChannel returns the uploads of a channel without downloading
// anything, using yt-dlp's flat playlist extraction. A limit of 0
// means no limit.
func (d *Downloader) ListChannel(ctx context.Context, channelURL string, limit int) (string, []ChannelVideo, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	args := []string{
		"--flat-playlist",
		"--dump-single-json",
		"--no-warnings",
	}
	if limit > 0 {
		args = append(args, "--playlist-end", fmt.Sprint(limit))
	}
	args = append(args, channelURL)

	cmd := exec.CommandContext(ctx, d.config.BinPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", nil, errors.Wrapf(err, "yt-dlp channel listing failed: %s", stderr.String())
	}

	var dump channelDump
	if err := json.Unmarshal(stdout.Bytes(), &dump); err != nil {
		return "", nil, errors.Wrap(err, "failed to parse yt-dlp channel output")
	}

	name := dump.Channel
	if name == "" {
		name = dump.Title
	}

	return name, dump.Entries, nil
}
