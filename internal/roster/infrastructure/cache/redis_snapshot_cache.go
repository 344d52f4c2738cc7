// Package cache provides Redis-backed caching for planning snapshots.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker guarding Redis calls.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips
	// the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// RedisSnapshotCache stores serialized planning snapshots in Redis, keyed
// by department and selected range. Entries expire after the configured
// TTL; the planner additionally checks snapshot freshness itself, so a TTL
// longer than the freshness window only costs a rebuild, never a stale
// plan. All Redis calls run through a circuit breaker: when Redis is down
// the breaker opens and callers fall back to rebuilding snapshots directly.
type RedisSnapshotCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewRedisSnapshotCache creates a snapshot cache over the given client.
// A non-positive ttl falls back to the snapshot freshness window.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration, cfg BreakerConfig, logger *slog.Logger) *RedisSnapshotCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = domain.SnapshotTTL
	}

	settings := gobreaker.Settings{
		Name:        "snapshot-cache",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"cache", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &RedisSnapshotCache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

// snapshotKey namespaces entries: shiftward:snapshot:{department}:{start}:{end}
func snapshotKey(departmentID uuid.UUID, r domain.DateRange) string {
	return fmt.Sprintf("shiftward:snapshot:%s:%s:%s",
		departmentID.String(),
		r.Start.Format("2006-01-02"),
		r.End.Format("2006-01-02"))
}

// Get returns the cached snapshot for the department and range, or nil on
// a miss.
func (c *RedisSnapshotCache) Get(ctx context.Context, departmentID uuid.UUID, r domain.DateRange) (*domain.PlanningSnapshot, error) {
	key := snapshotKey(departmentID, r)

	payload, err := c.breaker.Execute(func() ([]byte, error) {
		data, err := c.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot cache get: %w", err)
	}
	if payload == nil {
		return nil, nil
	}

	var snapshot domain.PlanningSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		// A corrupt entry is treated as a miss; the next Put overwrites it.
		c.logger.Warn("discarding undecodable cached snapshot", "key", key, "error", err)
		return nil, nil
	}
	return &snapshot, nil
}

// Put stores the snapshot under its department and range with the
// configured TTL as expiry.
func (c *RedisSnapshotCache) Put(ctx context.Context, snapshot *domain.PlanningSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	key := snapshotKey(snapshot.DepartmentID, snapshot.SelectedRange)
	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, payload, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("snapshot cache put: %w", err)
	}
	return nil
}
