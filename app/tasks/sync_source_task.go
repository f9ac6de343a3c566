package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/jira-comb/app/activity"
	"github.com/lysyi3m/jira-comb/app/database"
)

// SyncSourceTask registers a source configuration in the database so
// activities and refresh bookkeeping can reference it.
type SyncSourceTask struct {
	Task
	SourceConfig *activity.Config
	sourceRepo   database.SourceRepository
}

func NewSyncSourceTask(sourceName string, sourceConfig *activity.Config, sourceRepo database.SourceRepository) *SyncSourceTask {
	return &SyncSourceTask{
		Task:         NewTask(TaskTypeSyncSource, sourceName),
		SourceConfig: sourceConfig,
		sourceRepo:   sourceRepo,
	}
}

func (t *SyncSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.sourceRepo.UpsertSource(t.SourceName, t.SourceConfig.Username); err != nil {
		return fmt.Errorf("failed to register source: %w", err)
	}

	slog.Debug("Source registered", "source", t.SourceName, "username", t.SourceConfig.Username)

	return nil
}
