package database

import (
	"time"
)

// Source is a tracked activity stream owner registered from a source
// configuration file.
type Source struct {
	ID              int64
	Name            string // Configuration source identifier derived from filename
	Username        string // Jira username the stream is fetched for
	LastRefreshedAt *time.Time
	NextRefreshAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time // Tracks last successful refresh
}
