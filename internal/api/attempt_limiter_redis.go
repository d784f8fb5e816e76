package api

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisLimiterPrefix = "worktrace:login-failures:"

// redisAttemptLimiter keeps one sorted set of failure timestamps per key so
// every server instance shares the same window. Redis errors fail open.
type redisAttemptLimiter struct {
	client redis.Cmdable
	logger *slog.Logger
	limit  int
	window time.Duration
}

func NewRedisLoginLimiter(client redis.Cmdable, logger *slog.Logger) LoginLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisAttemptLimiter{
		client: client,
		logger: logger,
		limit:  loginAttemptLimit,
		window: loginAttemptWindow,
	}
}

func (limiter *redisAttemptLimiter) TooManyRecent(ctx context.Context, key string, now time.Time) bool {
	redisKey := redisLimiterPrefix + key
	var count *redis.IntCmd
	_, err := limiter.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", windowStartScore(now, limiter.window))
		count = pipe.ZCard(ctx, redisKey)
		return nil
	})
	if err != nil {
		limiter.logger.Warn("login limiter unavailable", slog.Any("error", err))
		return false
	}
	return count.Val() >= int64(limiter.limit)
}

func (limiter *redisAttemptLimiter) AddFailure(ctx context.Context, key string, now time.Time) {
	redisKey := redisLimiterPrefix + key
	_, err := limiter.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", windowStartScore(now, limiter.window))
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
		pipe.Expire(ctx, redisKey, limiter.window)
		return nil
	})
	if err != nil {
		limiter.logger.Warn("login limiter failed to record attempt", slog.Any("error", err))
	}
}

func (limiter *redisAttemptLimiter) Reset(ctx context.Context, key string) {
	if err := limiter.client.Del(ctx, redisLimiterPrefix+key).Err(); err != nil {
		limiter.logger.Warn("login limiter failed to reset", slog.Any("error", err))
	}
}

// windowStartScore is inclusive, so an attempt exactly one window old expires.
func windowStartScore(now time.Time, window time.Duration) string {
	return strconv.FormatInt(now.Add(-window).UnixMilli(), 10)
}
