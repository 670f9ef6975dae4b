package sqlite

const (
	createVideoQuery = `
        INSERT INTO videos (video_id, source_url, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(video_id) DO NOTHING
    `

	getVideoQuery = `
        SELECT video_id, source_url, status, transcript, audio_path,
               error_message, created_at, updated_at
        FROM videos WHERE video_id = ?
    `

	listVideosQuery = `
        SELECT video_id, source_url, status, transcript, audio_path,
               error_message, created_at, updated_at
        FROM videos
        ORDER BY updated_at DESC
    `

	clearAudioPathQuery = `
        UPDATE videos SET audio_path = '', updated_at = ? WHERE video_id = ?
    `

	resetVideoQuery = `
        UPDATE videos SET status = ?, error_message = '', updated_at = ?
        WHERE video_id = ? AND status = ?
    `

	statsQuery = `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0)
        FROM videos
    `

	getPasswordHashQuery = `
        SELECT password_hash FROM admin_users WHERE username = ?
    `

	createUserQuery = `
        INSERT INTO admin_users (username, password_hash, created_at)
        VALUES (?, ?, ?)
        ON CONFLICT(username) DO NOTHING
    `

	getSettingQuery = `
        SELECT setting_value FROM settings WHERE setting_key = ?
    `

	setSettingQuery = `
        INSERT INTO settings (setting_key, setting_value, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(setting_key) DO UPDATE SET
            setting_value = excluded.setting_value,
            updated_at = excluded.updated_at
    `
)
