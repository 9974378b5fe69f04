package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./denylist.go -destination=./mocks/denylist_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"condo/shared/timezone"

	goRedis "github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:revoked:"

// Denylist remembers revoked token IDs until the tokens would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, claims *Claims) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisDenylist struct {
	client *goRedis.Client
	now    func() time.Time
}

func NewDenylist(client *goRedis.Client) Denylist {
	return &redisDenylist{client: client, now: timezone.Now}
}

// Revoke is a no-op for tokens that are already past their expiry.
func (d *redisDenylist) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.TokenID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(d.now()) + clockLeeway
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, denylistPrefix+claims.TokenID, claims.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (d *redisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	return n > 0, nil
}
