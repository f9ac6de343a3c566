package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/jira-comb/app/activity"
	"github.com/lysyi3m/jira-comb/app/cfg"
	"github.com/lysyi3m/jira-comb/app/database"
	"github.com/lysyi3m/jira-comb/app/jira"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache  *activity.ConfigCache
	sourceRepo   database.SourceRepository
	activityRepo database.ActivityRepository
	jiraClient   *jira.Client
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface

	// refreshing tracks sources with a refresh in flight. A re-trigger
	// while one is running is rejected, not queued.
	refreshing   map[string]struct{}
	refreshingMu sync.Mutex
}

func NewScheduler(configCache *activity.ConfigCache, sourceRepo database.SourceRepository,
	activityRepo database.ActivityRepository, jiraClient *jira.Client) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		configCache:  configCache,
		sourceRepo:   sourceRepo,
		activityRepo: activityRepo,
		jiraClient:   jiraClient,
		interval:     time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:  cfg.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 100),
		refreshing:   make(map[string]struct{}),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueRefresh enqueues a refresh for one source, rejecting it when a
// refresh for that source is already in flight.
func (s *Scheduler) EnqueueRefresh(sourceName string) error {
	sourceConfig, err := s.configCache.GetConfig(sourceName)
	if err != nil {
		return err
	}

	if !s.acquireRefresh(sourceName) {
		return fmt.Errorf("refresh for source '%s' is already in progress", sourceName)
	}

	task := NewRefreshActivityTask(sourceName, sourceConfig, s.jiraClient, s.sourceRepo, s.activityRepo)
	if err := s.EnqueueTask(task); err != nil {
		s.releaseRefresh(sourceName)
		return err
	}

	return nil
}

func (s *Scheduler) IsRefreshing(sourceName string) bool {
	s.refreshingMu.Lock()
	defer s.refreshingMu.Unlock()
	_, ok := s.refreshing[sourceName]
	return ok
}

func (s *Scheduler) acquireRefresh(sourceName string) bool {
	s.refreshingMu.Lock()
	defer s.refreshingMu.Unlock()
	if _, ok := s.refreshing[sourceName]; ok {
		return false
	}
	s.refreshing[sourceName] = struct{}{}
	return true
}

func (s *Scheduler) releaseRefresh(sourceName string) {
	s.refreshingMu.Lock()
	defer s.refreshingMu.Unlock()
	delete(s.refreshing, sourceName)
}

func (s *Scheduler) enqueueStartupTasks() {
	sourceConfigs := s.configCache.GetConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		syncTask := NewSyncSourceTask(sourceConfig.Name, sourceConfig, s.sourceRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceTask", "source", sourceConfig.Name, "error", err)
			continue
		}

		if !sourceConfig.Settings.Enabled {
			slog.Debug("Source disabled, skipping refresh", "source", sourceConfig.Name)
			continue
		}

		if err := s.EnqueueRefresh(sourceConfig.Name); err != nil {
			slog.Warn("Failed to enqueue RefreshActivityTask", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	for _, sourceConfig := range sourceConfigs {
		source, err := s.sourceRepo.GetSource(sourceConfig.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", sourceConfig.Name, "error", err)
			continue
		}
		if source == nil {
			slog.Warn("Source not found in database, skipping", "source", sourceConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if source.NextRefreshAt != nil && source.NextRefreshAt.After(now) {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name, "next_refresh_at", source.NextRefreshAt)
			continue
		}

		if err := s.EnqueueRefresh(sourceConfig.Name); err != nil {
			slog.Debug("Refresh not enqueued", "source", sourceConfig.Name, "reason", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err == nil {
		if task.GetType() == TaskTypeRefreshActivity {
			s.releaseRefresh(task.GetSourceName())
		}
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		if task.GetType() == TaskTypeRefreshActivity {
			s.releaseRefresh(task.GetSourceName())
		}
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// The refresh guard stays held across retries so a scheduler tick
	// cannot start a second refresh for the same source in between.
	go func() {
		time.Sleep(retryDelay)
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		default:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				if task.GetType() == TaskTypeRefreshActivity {
					s.releaseRefresh(task.GetSourceName())
				}
			}
		}
	}()
}
