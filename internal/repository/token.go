package repository

import (
	"context"
	"time"
)

// TokenDenylist records token ids revoked before their expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
