package billing

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator remembers processed provider event ids.
type Deduplicator interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	// Mark records eventID as processed. Call it only after every effect of
	// the event has been applied, so a failed event stays redeliverable.
	Mark(ctx context.Context, eventID string) error
}

const dedupeKeyPrefix = "billing:event:"

// RedisDeduplicator stores processed event ids as expiring Redis keys.
type RedisDeduplicator struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisDeduplicator(client redis.UniversalClient, ttl time.Duration) *RedisDeduplicator {
	if client == nil {
		panic("billing: redis client is required")
	}
	return &RedisDeduplicator{client: client, ttl: ttl}
}

func (d *RedisDeduplicator) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupeKeyPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *RedisDeduplicator) Mark(ctx context.Context, eventID string) error {
	return d.client.SetNX(ctx, dedupeKeyPrefix+eventID, time.Now().UTC().Format(time.RFC3339), d.ttl).Err()
}

// MemoryDeduplicator keeps processed ids in process memory until their ttl
// passes.
type MemoryDeduplicator struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryDeduplicator(ttl time.Duration) *MemoryDeduplicator {
	return &MemoryDeduplicator{seen: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func (d *MemoryDeduplicator) Seen(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expires, ok := d.seen[eventID]
	if !ok {
		return false, nil
	}
	if d.ttl > 0 && d.now().After(expires) {
		delete(d.seen, eventID)
		return false, nil
	}
	return true, nil
}

func (d *MemoryDeduplicator) Mark(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[eventID] = d.now().Add(d.ttl)
	return nil
}
