package stats

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultDayTTL = 45 * 24 * time.Hour

// RedisRecorder keeps counters in Redis: one cumulative key per metric that
// never expires, and one key per (metric, day) with a TTL. Errors are logged
// and swallowed so a Redis outage never degrades the API.
type RedisRecorder struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewRedisRecorder creates a recorder writing under the given key prefix.
func NewRedisRecorder(rdb *redis.Client, prefix string, logger zerolog.Logger) *RedisRecorder {
	if prefix == "" {
		prefix = "jobdesk:stats"
	}
	return &RedisRecorder{
		rdb:    rdb,
		prefix: prefix,
		ttl:    defaultDayTTL,
		logger: logger,
		now:    time.Now,
	}
}

func (r *RedisRecorder) totalKey(metric string) string {
	return r.prefix + ":" + metric + ":total"
}

func (r *RedisRecorder) dayBucketKey(metric string, t time.Time) string {
	return r.prefix + ":" + metric + ":day:" + DayKey(t)
}

func (r *RedisRecorder) Incr(ctx context.Context, metric string) {
	now := r.now()
	dayKey := r.dayBucketKey(metric, now)

	pipe := r.rdb.Pipeline()
	pipe.Incr(ctx, r.totalKey(metric))
	pipe.Incr(ctx, dayKey)
	pipe.Expire(ctx, dayKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn().Err(err).Str("metric", metric).Msg("stats increment failed")
	}
}

func (r *RedisRecorder) Totals(ctx context.Context) (map[string]int64, error) {
	metrics := []string{MetricJobsPosted, MetricApplications, MetricQuotaDenied}

	pipe := r.rdb.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(metrics))
	for _, m := range metrics {
		cmds[m] = pipe.Get(ctx, r.totalKey(m))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	out := make(map[string]int64, len(metrics))
	for m, cmd := range cmds {
		n, err := cmd.Int64()
		if err != nil && err != redis.Nil {
			return nil, err
		}
		out[m] = n
	}
	return out, nil
}
