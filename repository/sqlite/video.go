package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"ytscribe/errors"
	"ytscribe/models"
	"ytscribe/repository"
)

type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

func NewRepository(db *sql.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Get(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	const op = "SQLiteRepository.Get"

	video := &models.VideoRecord{}
	var status string

	err := r.db.QueryRowContext(ctx, getVideoQuery, videoID).Scan(
		&video.VideoID,
		&video.SourceURL,
		&status,
		&video.Transcript,
		&video.AudioPath,
		&video.ErrorMessage,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Video not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query video")
	}

	video.Status = models.Status(status)
	return video, nil
}

func (r *Repository) Create(ctx context.Context, videoID, sourceURL string, status models.Status) error {
	const op = "SQLiteRepository.Create"

	now := time.Now()
	err := r.execRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, createVideoQuery, videoID, sourceURL, string(status), now, now)
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to create video record")
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, videoID string, fields repository.UpdateFields) error {
	const op = "SQLiteRepository.Update"

	var sets []string
	var args []interface{}

	if fields.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*fields.Status))
	}
	if fields.Transcript != nil {
		sets = append(sets, "transcript = ?")
		args = append(args, *fields.Transcript)
	}
	if fields.AudioPath != nil {
		sets = append(sets, "audio_path = ?")
		args = append(args, *fields.AudioPath)
	}
	if fields.ErrorMessage != nil {
		sets = append(sets, "error_message = ?")
		args = append(args, *fields.ErrorMessage)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), videoID)

	query := "UPDATE videos SET " + strings.Join(sets, ", ") + " WHERE video_id = ?"

	err := r.execRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to update video record")
	}
	return nil
}

func (r *Repository) ClearAudioPath(ctx context.Context, videoID string) error {
	const op = "SQLiteRepository.ClearAudioPath"

	err := r.execRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, clearAudioPathQuery, time.Now(), videoID)
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to clear audio path")
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]models.VideoRecord, error) {
	const op = "SQLiteRepository.List"

	rows, err := r.db.QueryContext(ctx, listVideosQuery)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to list videos")
	}
	defer rows.Close()

	var videos []models.VideoRecord
	for rows.Next() {
		var video models.VideoRecord
		var status string
		if err := rows.Scan(
			&video.VideoID,
			&video.SourceURL,
			&status,
			&video.Transcript,
			&video.AudioPath,
			&video.ErrorMessage,
			&video.CreatedAt,
			&video.UpdatedAt,
		); err != nil {
			return nil, errors.Internal(op, err, "Failed to scan video row")
		}
		video.Status = models.Status(status)
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate video rows")
	}

	return videos, nil
}

func (r *Repository) Stats(ctx context.Context) (*models.Stats, error) {
	const op = "SQLiteRepository.Stats"

	stats := &models.Stats{}
	err := r.db.QueryRowContext(ctx, statsQuery).Scan(
		&stats.Total,
		&stats.Success,
		&stats.Failed,
		&stats.Processing,
	)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query stats")
	}
	return stats, nil
}

func (r *Repository) Reset(ctx context.Context, videoID string) error {
	const op = "SQLiteRepository.Reset"

	var result sql.Result
	err := r.execRetry(ctx, func() error {
		var err error
		result, err = r.db.ExecContext(ctx, resetVideoQuery,
			string(models.StatusPending), time.Now(), videoID, string(models.StatusFailed))
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to reset video record")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(op, err, "Failed to read reset result")
	}
	if affected == 0 {
		return errors.NotFound(op, nil, "No failed record to reset")
	}
	return nil
}

// execRetry retries writes that hit a transient SQLite lock.
func (r *Repository) execRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i < 3; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !isLockError(err) {
			return err
		}
		select {
		case <-time.After(time.Second * time.Duration(i+1)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
