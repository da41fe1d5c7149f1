package occurrenceguard

import (
	"context"
	"fmt"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"time"

	"github.com/go-redis/redis/v9"
)

const keyPrefix = "nudgebot::occurrence"

func key(id reminder.ID, scheduledAt time.Time) string {
	return fmt.Sprintf("%s::%d::%d", keyPrefix, id, scheduledAt.Unix())
}

// Redis marks occurrences with SETNX so that a restarted process or
// another replica does not fire the same occurrence again.
type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	ttl         time.Duration
}

func NewRedis(redisClient *redis.Client, log logging.Logger, ttl time.Duration) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if ttl <= 0 {
		panic("ttl must be positive")
	}
	return &Redis{redisClient: redisClient, log: log, ttl: ttl}
}

func (r *Redis) Acquire(ctx context.Context, id reminder.ID, scheduledAt time.Time) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, key(id, scheduledAt), r.ttl.String(), r.ttl).Result()
	if err != nil {
		r.log.Error(
			ctx,
			"Could not acquire reminder occurrence due to Redis client error.",
			logging.Entry("err", err),
			logging.Entry("reminderID", id),
		)
		return false, err
	}
	return ok, nil
}

func (r *Redis) Release(ctx context.Context, id reminder.ID, scheduledAt time.Time) error {
	if err := r.redisClient.Del(ctx, key(id, scheduledAt)).Err(); err != nil {
		r.log.Error(
			ctx,
			"Could not release reminder occurrence due to Redis client error.",
			logging.Entry("err", err),
			logging.Entry("reminderID", id),
		)
		return err
	}
	return nil
}

func (r *Redis) TTL() time.Duration {
	return r.ttl
}
