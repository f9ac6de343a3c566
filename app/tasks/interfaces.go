package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The scheduler owns the worker pool, the periodic refresh
// loop and the per-source refresh guard: while a refresh for a source is
// in flight, another one cannot be enqueued.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueRefresh(sourceName string) error
	IsRefreshing(sourceName string) bool
}
