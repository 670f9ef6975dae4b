package sqlite

import (
	"context"
	"database/sql"
	"time"

	"ytscribe/errors"
)

func (r *Repository) GetPasswordHash(ctx context.Context, username string) (string, error) {
	const op = "SQLiteRepository.GetPasswordHash"

	var hash string
	err := r.db.QueryRowContext(ctx, getPasswordHashQuery, username).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", errors.NotFound(op, nil, "User not found")
	}
	if err != nil {
		return "", errors.Internal(op, err, "Failed to query user")
	}
	return hash, nil
}

func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) error {
	const op = "SQLiteRepository.CreateUser"

	err := r.execRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, createUserQuery, username, passwordHash, time.Now())
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to create user")
	}
	return nil
}

func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	const op = "SQLiteRepository.GetSetting"

	var value string
	err := r.db.QueryRowContext(ctx, getSettingQuery, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", errors.NotFound(op, nil, "Setting not found")
	}
	if err != nil {
		return "", errors.Internal(op, err, "Failed to query setting")
	}
	return value, nil
}

func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	const op = "SQLiteRepository.SetSetting"

	err := r.execRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, setSettingQuery, key, value, time.Now())
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to save setting")
	}
	return nil
}
