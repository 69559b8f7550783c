package bookingnum

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyTTL keeps day counters around long enough to survive clock skew across
// instances, then lets Redis reclaim them.
const keyTTL = 48 * time.Hour

// RedisAllocator allocates day-scoped sequence numbers with INCR, which is
// atomic on the Redis side.
type RedisAllocator struct {
	client *redis.Client
}

func NewRedisAllocator(client *redis.Client) *RedisAllocator {
	return &RedisAllocator{client: client}
}

func (a *RedisAllocator) Next(ctx context.Context, day string) (int64, error) {
	key := sequenceKey(day)

	seq, err := a.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if seq == 1 {
		// First allocation of the day sets the expiry.
		_ = a.client.Expire(ctx, key, keyTTL).Err()
	}

	return seq, nil
}

func sequenceKey(day string) string {
	return fmt.Sprintf("seq:bookings:%s", day)
}
