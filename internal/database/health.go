package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports the reachability of the backing stores.
type HealthChecker struct {
	db  Pinger
	rdb redis.Cmdable
}

func NewHealthChecker(pool *pgxpool.Pool, rdb *redis.Client) *HealthChecker {
	return &HealthChecker{db: pool, rdb: rdb}
}

// Check pings every store and returns "ok" or the error text per store,
// plus whether all of them are healthy.
func (h *HealthChecker) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status := map[string]string{"postgres": "ok", "redis": "ok"}
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		status["postgres"] = err.Error()
		healthy = false
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		status["redis"] = err.Error()
		healthy = false
	}
	return status, healthy
}
