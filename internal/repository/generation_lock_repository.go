package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// extendScript pushes the expiry out only while the lock still holds the caller's token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// GenerationLockRepository holds short-lived per-school locks in Redis so
// generation is serialised across replicas.
type GenerationLockRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewGenerationLockRepository constructs the repository.
func NewGenerationLockRepository(client redis.UniversalClient) *GenerationLockRepository {
	return &GenerationLockRepository{client: client, prefix: "lock:timetable:generate:"}
}

// Key returns the Redis key guarding a school.
func (r *GenerationLockRepository) Key(schoolID string) string {
	return r.prefix + schoolID
}

// Acquire tries once to take the lock. It reports false when another holder owns it.
func (r *GenerationLockRepository) Acquire(ctx context.Context, schoolID, token string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.Key(schoolID), token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire generation lock: %w", err)
	}
	return ok, nil
}

// Extend renews the lock for another ttl. It reports false when token no
// longer owns the lock.
func (r *GenerationLockRepository) Extend(ctx context.Context, schoolID, token string, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, r.client, []string{r.Key(schoolID)}, token, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("extend generation lock: %w", err)
	}
	return n == 1, nil
}

// Release frees the lock if token still owns it.
func (r *GenerationLockRepository) Release(ctx context.Context, schoolID, token string) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.Key(schoolID)}, token).Err(); err != nil {
		return fmt.Errorf("release generation lock: %w", err)
	}
	return nil
}
