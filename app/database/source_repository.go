package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SourceRepository = (*sourceRepository)(nil)

type sourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) GetSource(sourceName string) (*Source, error) {
	var source Source
	var lastRefreshed, nextRefresh sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, name, username, last_refreshed_at, next_refresh_at, created_at, updated_at
		FROM sources
		WHERE name = ?
	`, sourceName).Scan(
		&source.ID, &source.Name, &source.Username,
		&lastRefreshed, &nextRefresh,
		&source.CreatedAt, &source.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	if lastRefreshed.Valid {
		source.LastRefreshedAt = &lastRefreshed.Time
	}
	if nextRefresh.Valid {
		source.NextRefreshAt = &nextRefresh.Time
	}

	return &source, nil
}

func (r *sourceRepository) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sources: %w", err)
	}
	return count, nil
}

func (r *sourceRepository) UpsertSource(sourceName, username string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, username)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			username = excluded.username,
			updated_at = CURRENT_TIMESTAMP
	`, sourceName, username)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}
	return nil
}

func (r *sourceRepository) UpdateRefreshTimes(sourceName string, lastRefreshed, nextRefresh time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_refreshed_at = ?, next_refresh_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, lastRefreshed, nextRefresh, sourceName)
	if err != nil {
		return fmt.Errorf("failed to update refresh times: %w", err)
	}
	return nil
}
