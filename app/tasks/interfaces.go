package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The main application starts and stops the worker pool; the
// HTTP API enqueues on-demand pipeline runs.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
