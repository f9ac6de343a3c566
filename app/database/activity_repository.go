package database

import (
	"database/sql"
	"fmt"

	"github.com/lysyi3m/jira-comb/app/activity"
)

var _ ActivityRepository = (*activityRepository)(nil)

type activityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) ActivityRepository {
	return &activityRepository{db: db}
}

// UpsertActivity stores one parsed activity. The feed entry id is the
// dedup key: the same entry arriving again from an overlapping window
// fetch overwrites its previous row instead of duplicating it.
func (r *activityRepository) UpsertActivity(sourceName string, a activity.Activity) error {
	var loggedHuman, loggedDescription sql.NullString
	var loggedSeconds sql.NullInt64

	if a.Logged != nil {
		loggedHuman = sql.NullString{String: a.Logged.HumanTime, Valid: true}
		loggedSeconds = sql.NullInt64{Int64: int64(a.Logged.Seconds), Valid: true}
		if a.Logged.Description != "" {
			loggedDescription = sql.NullString{String: a.Logged.Description, Valid: true}
		}
	}

	result, err := r.db.Exec(`
		INSERT INTO activities (
			source_id, entry_id, entry_at, entry_date, action, action_text,
			issue_key, issue_title, logged_human, logged_seconds,
			logged_description, comment_link
		)
		SELECT id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM sources WHERE name = ?
		ON CONFLICT (source_id, entry_id) DO UPDATE SET
			entry_at = excluded.entry_at,
			entry_date = excluded.entry_date,
			action = excluded.action,
			action_text = excluded.action_text,
			issue_key = excluded.issue_key,
			issue_title = excluded.issue_title,
			logged_human = excluded.logged_human,
			logged_seconds = excluded.logged_seconds,
			logged_description = excluded.logged_description,
			comment_link = excluded.comment_link
	`, a.ID, a.EntryAt, a.EntryDate(), string(a.Action), a.ActionText,
		a.IssueKey, a.IssueTitle, loggedHuman, loggedSeconds,
		loggedDescription, a.CommentLink, sourceName)
	if err != nil {
		return fmt.Errorf("failed to upsert activity: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("source %q is not registered", sourceName)
	}

	return nil
}

// GetActivities returns all cached activities for a source in feed
// arrival order (chronological, ties broken by insertion order).
func (r *activityRepository) GetActivities(sourceName string) ([]activity.Activity, error) {
	return r.queryActivities(`
		SELECT a.entry_id, a.entry_at, a.action, a.action_text,
		       a.issue_key, a.issue_title, a.logged_human,
		       a.logged_seconds, a.logged_description, a.comment_link
		FROM activities a
		JOIN sources s ON s.id = a.source_id
		WHERE s.name = ?
		ORDER BY a.entry_at, a.id
	`, sourceName)
}

func (r *activityRepository) GetActivitiesByDate(sourceName, date string) ([]activity.Activity, error) {
	return r.queryActivities(`
		SELECT a.entry_id, a.entry_at, a.action, a.action_text,
		       a.issue_key, a.issue_title, a.logged_human,
		       a.logged_seconds, a.logged_description, a.comment_link
		FROM activities a
		JOIN sources s ON s.id = a.source_id
		WHERE s.name = ? AND a.entry_date = ?
		ORDER BY a.entry_at, a.id
	`, sourceName, date)
}

func (r *activityRepository) GetActivityCount(sourceName string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM activities a
		JOIN sources s ON s.id = a.source_id
		WHERE s.name = ?
	`, sourceName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

func (r *activityRepository) queryActivities(query string, args ...any) ([]activity.Activity, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		var a activity.Activity
		var action string
		var loggedHuman, loggedDescription, commentLink sql.NullString
		var loggedSeconds sql.NullInt64

		err := rows.Scan(
			&a.ID, &a.EntryAt, &action, &a.ActionText,
			&a.IssueKey, &a.IssueTitle, &loggedHuman,
			&loggedSeconds, &loggedDescription, &commentLink,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}

		a.Action = activity.Action(action)
		a.CommentLink = commentLink.String
		if loggedSeconds.Valid && loggedSeconds.Int64 > 0 {
			a.Logged = &activity.Logged{
				HumanTime:   loggedHuman.String,
				Seconds:     int(loggedSeconds.Int64),
				Description: loggedDescription.String,
			}
		}

		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return activities, nil
}
