package database

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// fakeRedis implements only Ping; any other call panics on the nil embed.
type fakeRedis struct {
	redis.Cmdable
	err error
}

func (r fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if r.err != nil {
		cmd.SetErr(r.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		redisErr error
		healthy  bool
	}{
		{"all up", nil, nil, true},
		{"postgres down", errors.New("connection refused"), nil, false},
		{"redis down", nil, errors.New("i/o timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthChecker{db: fakePinger{tt.dbErr}, rdb: fakeRedis{err: tt.redisErr}}
			status, healthy := h.Check(context.Background())

			if healthy != tt.healthy {
				t.Errorf("healthy = %v, want %v", healthy, tt.healthy)
			}
			if tt.dbErr != nil && status["postgres"] != tt.dbErr.Error() {
				t.Errorf("postgres = %q", status["postgres"])
			}
			if tt.redisErr != nil && status["redis"] != tt.redisErr.Error() {
				t.Errorf("redis = %q", status["redis"])
			}
			if tt.healthy && (status["postgres"] != "ok" || status["redis"] != "ok") {
				t.Errorf("status = %v", status)
			}
		})
	}
}
