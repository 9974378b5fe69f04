package jwt_test

import (
	"context"
	"testing"
	"time"

	"condo/infras/jwt"

	"github.com/alicebob/miniredis/v2"
	jwtLib "github.com/golang-jwt/jwt/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDenylist(t *testing.T) (jwt.Denylist, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goRedis.NewClient(&goRedis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return jwt.NewDenylist(client), server
}

func TestDenylist(t *testing.T) {
	denylist, server := newDenylist(t)
	ctx := context.Background()

	claims := &jwt.Claims{
		UserID:  "user-1",
		TokenID: "token-1",
		RegisteredClaims: jwtLib.RegisteredClaims{
			ExpiresAt: jwtLib.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}

	revoked, err := denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, claims))

	revoked, err = denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	server.FastForward(11 * time.Minute)

	revoked, err = denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylist_ExpiredTokenIsNotStored(t *testing.T) {
	denylist, server := newDenylist(t)

	claims := &jwt.Claims{
		TokenID: "token-2",
		RegisteredClaims: jwtLib.RegisteredClaims{
			ExpiresAt: jwtLib.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	require.NoError(t, denylist.Revoke(context.Background(), claims))
	assert.False(t, server.Exists("auth:revoked:token-2"))
	assert.NoError(t, denylist.Revoke(context.Background(), nil))
}
