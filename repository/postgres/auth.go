package postgres

import (
	"context"
	"database/sql"
	"time"

	"ytscribe/errors"
)

const (
	getPasswordHashQuery = `
        SELECT password_hash FROM admin_users WHERE username = $1
    `

	createUserQuery = `
        INSERT INTO admin_users (username, password_hash, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (username) DO NOTHING
    `

	getSettingQuery = `
        SELECT setting_value FROM settings WHERE setting_key = $1
    `

	setSettingQuery = `
        INSERT INTO settings (setting_key, setting_value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (setting_key) DO UPDATE SET
            setting_value = EXCLUDED.setting_value,
            updated_at = EXCLUDED.updated_at
    `
)

func (r *Repository) GetPasswordHash(ctx context.Context, username string) (string, error) {
	const op = "PostgresRepository.GetPasswordHash"

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
	const op = "PostgresRepository.CreateUser"

	if _, err := r.db.ExecContext(ctx, createUserQuery, username, passwordHash, time.Now()); err != nil {
		return errors.Internal(op, err, "Failed to create user")
	}
	return nil
}

func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	const op = "PostgresRepository.GetSetting"

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
	const op = "PostgresRepository.SetSetting"

	if _, err := r.db.ExecContext(ctx, setSettingQuery, key, value, time.Now()); err != nil {
		return errors.Internal(op, err, "Failed to save setting")
	}
	return nil
}
