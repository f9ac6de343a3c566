package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/jira-comb/app/activity"
	"github.com/lysyi3m/jira-comb/app/database"
	"github.com/lysyi3m/jira-comb/app/jira"
)

var _ activity.Fetcher = (*jira.Client)(nil)

// RefreshActivityTask runs one fetch -> parse -> aggregate -> store
// cycle for a source. The sequence itself is synchronous; concurrency
// lives in the scheduler's worker pool, with at most one refresh in
// flight per source.
type RefreshActivityTask struct {
	Task
	SourceConfig *activity.Config
	jiraClient   *jira.Client
	sourceRepo   database.SourceRepository
	activityRepo database.ActivityRepository
}

func NewRefreshActivityTask(sourceName string, sourceConfig *activity.Config, jiraClient *jira.Client,
	sourceRepo database.SourceRepository, activityRepo database.ActivityRepository) *RefreshActivityTask {
	return &RefreshActivityTask{
		Task:         NewTask(TaskTypeRefreshActivity, sourceName),
		SourceConfig: sourceConfig,
		jiraClient:   jiraClient,
		sourceRepo:   sourceRepo,
		activityRepo: activityRepo,
	}
}

func (t *RefreshActivityTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	client := t.jiraClient
	if t.SourceConfig.Settings.MaxResults > 0 {
		client = client.WithMaxResults(t.SourceConfig.Settings.MaxResults)
	}

	parser := activity.NewParserWithOptions(activity.ParserOptions{
		SkipIncomplete: t.SourceConfig.Settings.SkipIncomplete,
	})
	pipeline := activity.NewPipeline(client, parser)

	var start, end *time.Time
	if days := t.SourceConfig.Settings.WindowDays; days > 0 {
		windowEnd := time.Now()
		windowStart := windowEnd.AddDate(0, 0, -days)
		start, end = &windowStart, &windowEnd
	}

	summaries, err := pipeline.Run(timeoutCtx, t.SourceConfig.Username, start, end)
	if err != nil {
		return fmt.Errorf("failed to refresh activity stream: %w", err)
	}

	storedCount := 0
	loggedSeconds := 0
	for _, summary := range summaries {
		for _, a := range summary.Activities {
			if err := t.activityRepo.UpsertActivity(t.SourceName, a); err != nil {
				return fmt.Errorf("failed to store activity: %w", err)
			}
			storedCount++
		}
		loggedSeconds += summary.TotalLoggedSeconds
	}

	now := time.Now().UTC()
	nextRefresh := now.Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)
	if err := t.sourceRepo.UpdateRefreshTimes(t.SourceName, now, nextRefresh); err != nil {
		return fmt.Errorf("failed to update refresh times: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshActivity",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"dates", len(summaries),
		"activities", storedCount,
		"logged", activity.FormatSeconds(loggedSeconds))

	return nil
}
