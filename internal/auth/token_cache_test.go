package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	radix "github.com/mediocregopher/radix/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TammisettiVikram/SentientShop/internal/config"
)

func newTestCache(t *testing.T) (*TokenCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	pool, err := radix.NewPool("tcp", mr.Addr(), 1)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return NewTokenCache(pool, time.Minute), mr
}

func TestTokenCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	claims := &Claims{UserID: 7, Username: "alice", Role: "user"}
	require.NoError(t, cache.Set(ctx, "tok-abc", claims))

	got, ok, err := cache.Get(ctx, "tok-abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 7, got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "user", got.Role)
}

func TestTokenCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, ok, err := cache.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenCacheEntryExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "tok-abc", &Claims{UserID: 7}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "tok-abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenCacheCorruptEntryDropped(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	key := cache.cacheKey("tok-bad")
	require.NoError(t, mr.Set(key, "{not json"))

	_, ok, err := cache.Get(ctx, "tok-bad")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(key), "corrupt entry deleted")
}

func TestTokenCacheNilClientDisabled(t *testing.T) {
	cache := NewTokenCache(nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "tok", &Claims{UserID: 1}))
	_, ok, err := cache.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "secret"}
	token, err := GenerateToken(cfg, 42, "alice", "admin")
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(&config.JWTConfig{Secret: "secret"}, 42, "alice", "user")
	require.NoError(t, err)

	_, err = ParseToken(&config.JWTConfig{Secret: "other"}, token)
	assert.Error(t, err)
}
