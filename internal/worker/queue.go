package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueEmpty is returned by Queue pops that found nothing.
var ErrQueueEmpty = errors.New("queue empty")

// Queue is a FIFO of raw JSON messages.
type Queue interface {
	// Pop blocks up to timeout for a message.
	Pop(ctx context.Context, timeout time.Duration) (string, error)
	// TryPop returns immediately.
	TryPop(ctx context.Context) (string, error)
	Push(ctx context.Context, raw string) error
}

// RedisQueue is a Queue backed by a Redis list (RPUSH / BLPOP).
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisQueue creates a new RedisQueue over the list at key.
func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

// Pop waits up to timeout for the head of the list (BLPOP).
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (string, error) {
	item, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrQueueEmpty
		}
		return "", err
	}
	if len(item) < 2 {
		return "", ErrQueueEmpty
	}
	return item[1], nil
}

// TryPop takes the head of the list without blocking (LPOP).
func (q *RedisQueue) TryPop(ctx context.Context) (string, error) {
	raw, err := q.rdb.LPop(ctx, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrQueueEmpty
	}
	return raw, err
}

// Push appends raw to the tail of the list (RPUSH).
func (q *RedisQueue) Push(ctx context.Context, raw string) error {
	return q.rdb.RPush(ctx, q.key, raw).Err()
}
