package cache

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisSnapshotCache_TTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisSnapshotCache(client, 0, DefaultBreakerConfig(), nil)
	assert.Equal(t, domain.SnapshotTTL, c.ttl)

	c = NewRedisSnapshotCache(client, 90*time.Second, DefaultBreakerConfig(), nil)
	assert.Equal(t, 90*time.Second, c.ttl)
}
