package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfill/internal/config"
)

func startedTaskManager(t *testing.T) *TaskManagerImpl {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Redis.Enabled = false

	tm := NewTaskManager(cfg)
	require.NoError(t, tm.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tm.Stop(ctx)
	})
	return tm
}

func waitForStatus(t *testing.T, tm *TaskManagerImpl, processID string, want TaskStatus) *TaskResult {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		result, err := tm.GetTaskResult(context.Background(), processID)
		require.NoError(t, err)
		if result.Status == want {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s never reached status %s", processID, want)
	return nil
}

func TestSubmitAndComplete(t *testing.T) {
	tm := startedTaskManager(t)

	err := tm.Submit(context.Background(), "proc_1", TaskTypeAnalyze, nil, func(ctx context.Context) (interface{}, error) {
		return map[string]int{"forms": 2}, nil
	})
	require.NoError(t, err)

	// Accepted immediately, success once the worker picks it up.
	result, err := tm.GetTaskResult(context.Background(), "proc_1")
	require.NoError(t, err)
	assert.Contains(t, []TaskStatus{TaskStatusAccepted, TaskStatusProcessing, TaskStatusSuccess}, result.Status)

	final := waitForStatus(t, tm, "proc_1", TaskStatusSuccess)
	assert.NotNil(t, final.Data)
	assert.NotNil(t, final.CompletedAt)
	assert.NotNil(t, final.ProcessingTime)
}

func TestSubmitFailure(t *testing.T) {
	tm := startedTaskManager(t)

	err := tm.Submit(context.Background(), "proc_2", TaskTypeFill, nil, func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("profile fetch failed")
	})
	require.NoError(t, err)

	final := waitForStatus(t, tm, "proc_2", TaskStatusFailure)
	assert.Equal(t, "profile fetch failed", final.Error)
}

func TestGetTaskResultUnknown(t *testing.T) {
	tm := startedTaskManager(t)

	_, err := tm.GetTaskResult(context.Background(), "proc_missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestInMemoryStoreCleanup(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", Status: TaskStatusSuccess, CreatedAt: time.Now().Add(-2 * time.Hour)}
	recent := &TaskResult{ProcessID: "recent", Status: TaskStatusSuccess, CreatedAt: time.Now()}
	require.NoError(t, store.Store(ctx, old))
	require.NoError(t, store.Store(ctx, recent))

	require.NoError(t, store.Cleanup(ctx, time.Hour))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = store.Get(ctx, "recent")
	assert.NoError(t, err)
}
