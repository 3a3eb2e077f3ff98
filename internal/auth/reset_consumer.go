package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetTokenConsumer enforces single use of password-reset tokens. The JWT
// itself carries identity and expiry; Redis only remembers which token ids
// have already been spent, with a TTL matching the token lifetime so the set
// cannot grow unbounded.
type ResetTokenConsumer interface {
	Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

type redisResetConsumer struct {
	client *redis.Client
	prefix string
}

// NewRedisResetConsumer builds a Redis-backed consumer.
func NewRedisResetConsumer(client *redis.Client) ResetTokenConsumer {
	return &redisResetConsumer{client: client, prefix: "pwreset:used:"}
}

// Consume marks the token used. It returns false when the token was already
// consumed by an earlier request.
func (r *redisResetConsumer) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	ok, err := r.client.SetNX(ctx, r.prefix+tokenID, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
