package models

import (
	"os"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// VideoRecord is the persisted row tracking one video's processing state.
// AudioPath is only set while a downloaded artifact is staged on disk;
// a successful transcription clears it.
type VideoRecord struct {
	VideoID      string    `json:"video_id"`
	SourceURL    string    `json:"video_url,omitempty"`
	Status       Status    `json:"status"`
	Transcript   string    `json:"transcript,omitempty"`
	AudioPath    string    `json:"-"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (v *VideoRecord) IsProcessing() bool { return v.Status == StatusProcessing }
func (v *VideoRecord) IsSuccess() bool    { return v.Status == StatusSuccess }
func (v *VideoRecord) IsFailed() bool     { return v.Status == StatusFailed }

// ArtifactState describes the staged audio artifact for a record.
type ArtifactState int

const (
	ArtifactAbsent ArtifactState = iota
	ArtifactStaged
	ArtifactConsumed
)

// Artifact probes the filesystem to classify the record's audio reference.
// A path recorded for a file that no longer exists counts as consumed.
func (v *VideoRecord) Artifact() ArtifactState {
	if v.AudioPath == "" {
		return ArtifactAbsent
	}
	if _, err := os.Stat(v.AudioPath); err != nil {
		return ArtifactConsumed
	}
	return ArtifactStaged
}

// Stats holds per-status record counts for the admin dashboard.
type Stats struct {
	Total      int `json:"total"`
	Success    int `json:"success"`
	Failed     int `json:"failed"`
	Processing int `json:"processing"`
}
