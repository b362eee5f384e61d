package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

// RateLimiter caps requests per customer in fixed hourly windows kept in Redis.
type RateLimiter struct {
	client redis.Cmdable
	limit  int64
	clock  clockwork.Clock
}

func NewRateLimiter(client redis.Cmdable, perHour int, clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RateLimiter{client: client, limit: int64(perHour), clock: clock}
}

// Allow counts one request for customerID and fails with a rate_limited error
// once the hourly allowance is spent.
func (l *RateLimiter) Allow(ctx context.Context, customerID uuid.UUID) error {
	window := l.clock.Now().UTC().Truncate(time.Hour)
	key := fmt.Sprintf("ratelimit:%s:%d", customerID, window.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit counter: %w", err)
	}

	if incr.Val() > l.limit {
		return &domain.Error{
			Kind:    domain.KindRateLimited,
			Message: fmt.Sprintf("rate limit exceeded: %d requests per hour allowed", l.limit),
		}
	}
	return nil
}
