package repository

import (
	"context"

	"ytscribe/models"
)

// UpdateFields lists the mutable columns of a video record. Nil fields
// are left untouched; updated_at is always bumped.
type UpdateFields struct {
	Status       *models.Status
	Transcript   *string
	AudioPath    *string
	ErrorMessage *string
}

// VideoRepository is the record store consulted by the resolver and
// mutated by the pipeline runner.
type VideoRepository interface {
	// Get returns the record for a canonical video ID, or a NotFound
	// error when no record exists.
	Get(ctx context.Context, videoID string) (*models.VideoRecord, error)

	// Create inserts a new record. Creating an ID that already exists
	// is a no-op.
	Create(ctx context.Context, videoID, sourceURL string, status models.Status) error

	// Update applies the non-nil fields to an existing record.
	Update(ctx context.Context, videoID string, fields UpdateFields) error

	// ClearAudioPath removes the staged artifact reference after the
	// file has been deleted from disk.
	ClearAudioPath(ctx context.Context, videoID string) error

	// List returns all records ordered by most recently updated.
	List(ctx context.Context) ([]models.VideoRecord, error)

	// Stats returns per-status record counts.
	Stats(ctx context.Context) (*models.Stats, error)

	// Reset returns a failed record to pending so it can be
	// resubmitted, clearing its error message.
	Reset(ctx context.Context, videoID string) error
}

// UserRepository backs admin credential checks.
type UserRepository interface {
	GetPasswordHash(ctx context.Context, username string) (string, error)

	// CreateUser seeds a credential; an existing username is left as is.
	CreateUser(ctx context.Context, username, passwordHash string) error
}

// SettingRepository is a key/value store for dashboard settings.
type SettingRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Repository bundles the capability set a storage backend must provide.
// The concrete backend is selected once at startup.
type Repository interface {
	VideoRepository
	UserRepository
	SettingRepository

	Close() error
}
