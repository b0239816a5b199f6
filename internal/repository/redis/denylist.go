package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"budong-api/internal/repository"
)

const revokedKeyPrefix = "budong:revoked:"

// Denylist stores revoked token ids until the token would have expired anyway.
type Denylist struct {
	client goredis.Cmdable
	now    func() time.Time
}

func NewDenylist(client goredis.Cmdable) repository.TokenDenylist {
	return &Denylist{client: client, now: time.Now}
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token %s: %w", tokenID, err)
	}
	return n > 0, nil
}
