package background

import (
	"context"
	"fmt"
	"time"

	"jobfill/internal/config"
	"jobfill/pkg/utils"
)

const taskKeyPrefix = "jobfill:task:"

// RedisTaskStore implements TaskStore on Redis so async fill and analyze
// results survive restarts and are shared across replicas.
type RedisTaskStore struct {
	client *utils.RedisClient
	maxAge time.Duration
}

// NewRedisTaskStore creates a new Redis-backed task store
func NewRedisTaskStore(cfg *config.Config) (*RedisTaskStore, error) {
	client := utils.NewRedisClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis unavailable: %w", err)
	}

	return &RedisTaskStore{
		client: client,
		maxAge: cfg.BackgroundTasks.MaxTaskAge,
	}, nil
}

// Store stores a task result
func (s *RedisTaskStore) Store(ctx context.Context, result *TaskResult) error {
	return s.client.SetJSON(ctx, taskKeyPrefix+result.ProcessID, result, s.maxAge)
}

// Get retrieves a task result by process ID
func (s *RedisTaskStore) Get(ctx context.Context, processID string) (*TaskResult, error) {
	var result TaskResult
	if err := s.client.GetJSON(ctx, taskKeyPrefix+processID, &result); err != nil {
		if err == utils.ErrKeyNotFound {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Update updates a task result
func (s *RedisTaskStore) Update(ctx context.Context, result *TaskResult) error {
	if _, err := s.Get(ctx, result.ProcessID); err != nil {
		return err
	}
	return s.Store(ctx, result)
}

// Delete removes a task result
func (s *RedisTaskStore) Delete(ctx context.Context, processID string) error {
	return s.client.Delete(ctx, taskKeyPrefix+processID)
}

// Cleanup is a no-op: keys expire via the TTL set at write time.
func (s *RedisTaskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	return nil
}

// List returns all task results (for monitoring)
func (s *RedisTaskStore) List(ctx context.Context) ([]*TaskResult, error) {
	keys, err := s.client.Keys(ctx, taskKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	results := make([]*TaskResult, 0, len(keys))
	for _, key := range keys {
		var result TaskResult
		if err := s.client.GetJSON(ctx, key, &result); err != nil {
			continue // expired between KEYS and GET
		}
		results = append(results, &result)
	}
	return results, nil
}

// Close closes the underlying Redis connection
func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}
