package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/internal/logging/types"
)

const (
	DefaultMaxWorkers   = 10
	DefaultMaxQueueSize = 100
)

// ExecuteFunc runs one task's work and returns its result data.
type ExecuteFunc func(ctx context.Context) (interface{}, error)

// TaskManager defines the interface for managing background tasks
type TaskManager interface {
	// Start starts the task manager
	Start(ctx context.Context) error

	// Stop stops the task manager gracefully
	Stop(ctx context.Context) error

	// Submit queues a task for background execution
	Submit(ctx context.Context, processID string, taskType TaskType, metadata map[string]interface{}, fn ExecuteFunc) error

	// GetTaskResult retrieves the result of a task by process ID
	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)

	// ListTasks lists all tasks (for monitoring)
	ListTasks(ctx context.Context) ([]*TaskResult, error)

	// IsHealthy checks if the task manager is healthy
	IsHealthy() bool
}

// TaskManagerImpl implements TaskManager with a bounded worker pool over a
// pluggable store (in-memory by default, Redis when configured).
type TaskManagerImpl struct {
	config     *config.Config
	store      TaskStore
	logger     types.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex
	running    bool
	taskChan   chan *taskExecution
	maxWorkers int
}

type taskExecution struct {
	ProcessID   string
	Type        TaskType
	Context     context.Context
	Cancel      context.CancelFunc
	ExecuteFunc ExecuteFunc
}

// NewTaskManager creates a new task manager
func NewTaskManager(cfg *config.Config) *TaskManagerImpl {
	logger := logging.GetGlobalLogger()

	maxWorkers := cfg.BackgroundTasks.MaxConcurrentTasks
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	store := TaskStore(NewInMemoryTaskStore())
	if cfg.Redis.Enabled {
		if redisStore, err := NewRedisTaskStore(cfg); err != nil {
			logger.Warn("Redis task store unavailable, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			store = redisStore
			logger.Info("Using Redis task store", nil)
		}
	}

	return &TaskManagerImpl{
		config:     cfg,
		store:      store,
		logger:     logger,
		maxWorkers: maxWorkers,
		taskChan:   make(chan *taskExecution, DefaultMaxQueueSize),
	}
}

// Start starts the task manager
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.wg.Add(1)
	go tm.cleanupRoutine()

	tm.logger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.maxWorkers,
	})
	return nil
}

// Stop stops the task manager gracefully
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	tm.cancel()
	close(tm.taskChan)

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.logger.Info("Task manager stopped gracefully", nil)
	case <-ctx.Done():
		tm.logger.Warn("Task manager shutdown timed out", nil)
	}

	tm.running = false
	return nil
}

// Submit queues one task. The queue is bounded: a full queue rejects the
// submission rather than blocking the request handler.
func (tm *TaskManagerImpl) Submit(ctx context.Context, processID string, taskType TaskType, metadata map[string]interface{}, fn ExecuteFunc) error {
	if !tm.IsHealthy() {
		return fmt.Errorf("task manager is not healthy")
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      taskType,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	taskCtx, cancelFunc := context.WithTimeout(tm.ctx, tm.config.BackgroundTasks.TaskTimeout)
	execution := &taskExecution{
		ProcessID:   processID,
		Type:        taskType,
		Context:     taskCtx,
		Cancel:      cancelFunc,
		ExecuteFunc: fn,
	}

	select {
	case tm.taskChan <- execution:
		return nil
	case <-ctx.Done():
		cancelFunc()
		return ctx.Err()
	default:
		cancelFunc()
		return fmt.Errorf("task queue is full")
	}
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// ListTasks lists all tasks (for monitoring)
func (tm *TaskManagerImpl) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

// IsHealthy checks if the task manager is healthy
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case task, ok := <-tm.taskChan:
			if !ok {
				return
			}
			tm.processTask(workerID, task)
		}
	}
}

func (tm *TaskManagerImpl) processTask(workerID int, task *taskExecution) {
	defer task.Cancel()
	startTime := time.Now()

	tm.logger.Info("Processing task", map[string]interface{}{
		"worker_id":  workerID,
		"process_id": task.ProcessID,
		"task_type":  string(task.Type),
	})

	if err := tm.updateTaskStatus(task.ProcessID, TaskStatusProcessing); err != nil {
		tm.logger.Error("Failed to mark task processing", map[string]interface{}{
			"process_id": task.ProcessID,
			"error":      err.Error(),
		})
	}

	data, err := task.ExecuteFunc(task.Context)
	processingTime := time.Since(startTime)

	result, getErr := tm.store.Get(task.Context, task.ProcessID)
	if getErr != nil {
		result = &TaskResult{
			ProcessID: task.ProcessID,
			Type:      task.Type,
			CreatedAt: startTime,
		}
	}
	result.ProcessingTime = &processingTime
	completedAt := time.Now()
	result.CompletedAt = &completedAt

	if err != nil {
		result.Status = TaskStatusFailure
		result.Error = err.Error()
		tm.logger.Error("Task execution failed", map[string]interface{}{
			"worker_id":  workerID,
			"process_id": task.ProcessID,
			"task_type":  string(task.Type),
			"duration":   processingTime.String(),
			"error":      err.Error(),
		})
	} else {
		result.Status = TaskStatusSuccess
		result.Data = data
		tm.logger.Info("Task completed", map[string]interface{}{
			"worker_id":  workerID,
			"process_id": task.ProcessID,
			"task_type":  string(task.Type),
			"duration":   processingTime.String(),
		})
	}

	if err := tm.store.Update(context.Background(), result); err != nil {
		tm.logger.Error("Failed to store task result", map[string]interface{}{
			"process_id": task.ProcessID,
			"error":      err.Error(),
		})
	}
}

func (tm *TaskManagerImpl) updateTaskStatus(processID string, status TaskStatus) error {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return err
	}
	result.Status = status
	return tm.store.Update(context.Background(), result)
}

func (tm *TaskManagerImpl) cleanupRoutine() {
	defer tm.wg.Done()

	ticker := time.NewTicker(tm.config.BackgroundTasks.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			if err := tm.store.Cleanup(context.Background(), tm.config.BackgroundTasks.MaxTaskAge); err != nil {
				tm.logger.Error("Failed to clean up task results", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
