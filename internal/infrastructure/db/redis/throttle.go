package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// throttleTTL matches the reset-token validity window: while an issued token
// is still redeemable there is no reason to mint another.
const throttleTTL = 10 * time.Minute

// ResetThrottle limits password-reset emails to one per address per token
// window. Key format: reset:<email>
type ResetThrottle struct {
	client *redis.Client
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
func NewResetThrottle(client *redis.Client) *ResetThrottle {
	return &ResetThrottle{client: client}
}

// Reserve claims the reset slot for email. Returns false when a reservation
// is already held and not yet expired.
func (t *ResetThrottle) Reserve(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(email), "1", throttleTTL).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle reserve: %w", err)
	}
	return ok, nil
}

// Release frees the slot early. Used when the reset email could not be sent
// and the token issuance was rolled back.
func (t *ResetThrottle) Release(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		return fmt.Errorf("reset throttle release: %w", err)
	}
	return nil
}

func (t *ResetThrottle) key(email string) string {
	return "reset:" + email
}
