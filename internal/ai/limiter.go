package ai

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
)

// endpointLimiter tracks request flow for one generation endpoint.
type endpointLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
	failures int64
	mu       sync.RWMutex
}

// RateLimiter throttles generation calls per endpoint so a page full of
// essay fields cannot exhaust the platform's generation quota in one click.
type RateLimiter struct {
	config   *config.Config
	limiters map[models.AIEndpoint]*endpointLimiter
	mu       sync.Mutex
	logger   logging.Logger
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		config:   cfg,
		limiters: make(map[models.AIEndpoint]*endpointLimiter),
		logger:   logging.GetGlobalLogger(),
	}
}

// Allow checks if a request to the given endpoint is allowed
func (rl *RateLimiter) Allow(endpoint models.AIEndpoint) bool {
	limiter := rl.getLimiter(endpoint)

	allowed := limiter.limiter.Allow()
	limiter.mu.Lock()
	limiter.lastSeen = time.Now()
	if allowed {
		limiter.requests++
	}
	limiter.mu.Unlock()

	if !allowed {
		rl.logger.Debug("Generation request rejected by rate limiter", map[string]interface{}{
			"endpoint": string(endpoint),
		})
	}
	return allowed
}

// RecordFailure records a failed generation call for the endpoint
func (rl *RateLimiter) RecordFailure(endpoint models.AIEndpoint) {
	limiter := rl.getLimiter(endpoint)
	limiter.mu.Lock()
	limiter.failures++
	limiter.mu.Unlock()
}

// GetStats returns request statistics per endpoint
func (rl *RateLimiter) GetStats() map[string]map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := make(map[string]map[string]interface{})
	for endpoint, limiter := range rl.limiters {
		limiter.mu.RLock()
		stats[string(endpoint)] = map[string]interface{}{
			"requests":  limiter.requests,
			"failures":  limiter.failures,
			"last_seen": limiter.lastSeen,
			"limit":     limiter.limiter.Limit(),
		}
		limiter.mu.RUnlock()
	}
	return stats
}

func (rl *RateLimiter) getLimiter(endpoint models.AIEndpoint) *endpointLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[endpoint]; exists {
		return limiter
	}

	// Configured as requests per minute; bursts cover multi-field fills.
	rps := rate.Limit(float64(rl.config.AI.RateLimit) / 60.0)
	limiter := &endpointLimiter{
		limiter:  rate.NewLimiter(rps, 5),
		lastSeen: time.Now(),
	}
	rl.limiters[endpoint] = limiter

	rl.logger.Info("Created endpoint rate limiter", map[string]interface{}{
		"endpoint": string(endpoint),
		"rate":     float64(rps),
	})
	return limiter
}
