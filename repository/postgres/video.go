package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ytscribe/errors"
	"ytscribe/models"
	"ytscribe/repository"
)

const (
	createVideoQuery = `
        INSERT INTO videos (video_id, source_url, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (video_id) DO NOTHING
    `

	getVideoQuery = `
        SELECT video_id, source_url, status, transcript, audio_path,
               error_message, created_at, updated_at
        FROM videos WHERE video_id = $1
    `

	listVideosQuery = `
        SELECT video_id, source_url, status, transcript, audio_path,
               error_message, created_at, updated_at
        FROM videos
        ORDER BY updated_at DESC
    `

	clearAudioPathQuery = `
        UPDATE videos SET audio_path = '', updated_at = $1 WHERE video_id = $2
    `

	resetVideoQuery = `
        UPDATE videos SET status = $1, error_message = '', updated_at = $2
        WHERE video_id = $3 AND status = $4
    `

	statsQuery = `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0)
        FROM videos
    `
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
	const op = "PostgresRepository.Get"

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
	const op = "PostgresRepository.Create"

	now := time.Now()
	_, err := r.db.ExecContext(ctx, createVideoQuery, videoID, sourceURL, string(status), now, now)
	if err != nil {
		return errors.Internal(op, err, "Failed to create video record")
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, videoID string, fields repository.UpdateFields) error {
	const op = "PostgresRepository.Update"

	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Status != nil {
		add("status", string(*fields.Status))
	}
	if fields.Transcript != nil {
		add("transcript", *fields.Transcript)
	}
	if fields.AudioPath != nil {
		add("audio_path", *fields.AudioPath)
	}
	if fields.ErrorMessage != nil {
		add("error_message", *fields.ErrorMessage)
	}
	add("updated_at", time.Now())

	args = append(args, videoID)
	query := fmt.Sprintf("UPDATE videos SET %s WHERE video_id = $%d",
		strings.Join(sets, ", "), len(args))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Internal(op, err, "Failed to update video record")
	}
	return nil
}

func (r *Repository) ClearAudioPath(ctx context.Context, videoID string) error {
	const op = "PostgresRepository.ClearAudioPath"

	if _, err := r.db.ExecContext(ctx, clearAudioPathQuery, time.Now(), videoID); err != nil {
		return errors.Internal(op, err, "Failed to clear audio path")
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]models.VideoRecord, error) {
	const op = "PostgresRepository.List"

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
	const op = "PostgresRepository.Stats"

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
	const op = "PostgresRepository.Reset"

	result, err := r.db.ExecContext(ctx, resetVideoQuery,
		string(models.StatusPending), time.Now(), videoID, string(models.StatusFailed))
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
