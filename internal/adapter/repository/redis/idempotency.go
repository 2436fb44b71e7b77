package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idempotency:"

// claimScript sets KEYS[1] only when absent and otherwise returns the value
// already stored, in one round trip.
var claimScript = redis.NewScript(`
local existing = redis.call("GET", KEYS[1])
if existing then
	return existing
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return false
`)

// IdempotencyStore implements usecase.IdempotencyStore on Redis.
type IdempotencyStore struct {
	client redis.UniversalClient
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client redis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// CheckAndSet claims key, or returns what an earlier request stored there.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, claim []byte, ttl time.Duration) (bool, []byte, error) {
	if len(claim) == 0 {
		return false, nil, errors.New("idempotency claim must not be empty")
	}

	existing, err := claimScript.Run(ctx, s.client, []string{idempotencyPrefix + key}, claim, ttl.Milliseconds()).Text()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil, nil
	case err != nil:
		return false, nil, fmt.Errorf("claim idempotency key: %w", err)
	}

	return true, []byte(existing), nil
}

// Update stores the final response, refreshing the TTL.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, idempotencyPrefix+key, response, ttl).Err()
}

// Release forgets key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyPrefix+key).Err()
}
