package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"ytscribe/errors"
	"ytscribe/models"
	"ytscribe/repository"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := InitDB(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository failed: %v", err)
	}
	return repo
}

func TestGetMissingVideo(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "dQw4w9WgXcQ")
	if !errors.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestCreateIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", models.StatusProcessing); err != nil {
		t.Fatal(err)
	}
	// Second create with a different status must not overwrite.
	if err := repo.Create(ctx, "dQw4w9WgXcQ", "other", models.StatusFailed); err != nil {
		t.Fatal(err)
	}

	record, err := repo.Get(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != models.StatusProcessing {
		t.Errorf("got status %s, want processing", record.Status)
	}
	if record.SourceURL != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("got source %q", record.SourceURL)
	}
}

func TestUpdateAppliesOnlyNonNilFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "dQw4w9WgXcQ", "", models.StatusProcessing); err != nil {
		t.Fatal(err)
	}

	path := "/tmp/dQw4w9WgXcQ.mp3"
	if err := repo.Update(ctx, "dQw4w9WgXcQ", repository.UpdateFields{AudioPath: &path}); err != nil {
		t.Fatal(err)
	}

	record, err := repo.Get(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if record.AudioPath != path {
		t.Errorf("got audio path %q", record.AudioPath)
	}
	if record.Status != models.StatusProcessing {
		t.Errorf("status changed unexpectedly: %s", record.Status)
	}

	status := models.StatusSuccess
	transcript := "hello world"
	empty := ""
	if err := repo.Update(ctx, "dQw4w9WgXcQ", repository.UpdateFields{
		Status:     &status,
		Transcript: &transcript,
		AudioPath:  &empty,
	}); err != nil {
		t.Fatal(err)
	}

	record, err = repo.Get(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if !record.IsSuccess() || record.Transcript != "hello world" || record.AudioPath != "" {
		t.Errorf("unexpected record after success update: %+v", record)
	}
}

func TestClearAudioPath(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "dQw4w9WgXcQ", "", models.StatusProcessing); err != nil {
		t.Fatal(err)
	}
	path := "/tmp/dQw4w9WgXcQ.mp3"
	if err := repo.Update(ctx, "dQw4w9WgXcQ", repository.UpdateFields{AudioPath: &path}); err != nil {
		t.Fatal(err)
	}

	if err := repo.ClearAudioPath(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}

	record, err := repo.Get(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if record.AudioPath != "" {
		t.Errorf("audio path not cleared: %q", record.AudioPath)
	}
}

func TestResetOnlyFailedRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "successvid1", "", models.StatusSuccess); err != nil {
		t.Fatal(err)
	}
	if err := repo.Reset(ctx, "successvid1"); !errors.IsNotFound(err) {
		t.Errorf("resetting a success record: expected NotFound, got %v", err)
	}

	if err := repo.Create(ctx, "failedvideo", "", models.StatusFailed); err != nil {
		t.Fatal(err)
	}
	message := "download failed"
	status := models.StatusFailed
	if err := repo.Update(ctx, "failedvideo", repository.UpdateFields{
		Status:       &status,
		ErrorMessage: &message,
	}); err != nil {
		t.Fatal(err)
	}

	if err := repo.Reset(ctx, "failedvideo"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	record, err := repo.Get(ctx, "failedvideo")
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != models.StatusPending || record.ErrorMessage != "" {
		t.Errorf("unexpected record after reset: %+v", record)
	}
}

func TestStatsAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for id, status := range map[string]models.Status{
		"successvid1": models.StatusSuccess,
		"successvid2": models.StatusSuccess,
		"failedvideo": models.StatusFailed,
		"pendingvid1": models.StatusProcessing,
	} {
		if err := repo.Create(ctx, id, "", status); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 4 || stats.Success != 2 || stats.Failed != 1 || stats.Processing != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	videos, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 4 {
		t.Errorf("expected 4 records, got %d", len(videos))
	}
}

func TestSettingsUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSetting(ctx, "theme"); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound for unset key, got %v", err)
	}

	if err := repo.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatal(err)
	}

	value, err := repo.GetSetting(ctx, "theme")
	if err != nil {
		t.Fatal(err)
	}
	if value != "light" {
		t.Errorf("got %q, want light", value)
	}
}

func TestCreateUserIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, "admin", "hash1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateUser(ctx, "admin", "hash2"); err != nil {
		t.Fatal(err)
	}

	hash, err := repo.GetPasswordHash(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if hash != "hash1" {
		t.Errorf("existing user overwritten: got %q", hash)
	}
}
