package database

import (
	"time"

	"github.com/lysyi3m/jira-comb/app/activity"
)

type SourceRepository interface {
	GetSource(sourceName string) (*Source, error)
	GetSourceCount() (int, error)

	UpsertSource(sourceName, username string) error
	UpdateRefreshTimes(sourceName string, lastRefreshed, nextRefresh time.Time) error
}

type ActivityRepository interface {
	GetActivities(sourceName string) ([]activity.Activity, error)
	GetActivitiesByDate(sourceName, date string) ([]activity.Activity, error)
	GetActivityCount(sourceName string) (int, error)

	UpsertActivity(sourceName string, a activity.Activity) error
}
