package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "lumio-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()
	agencyID := uuid.New()

	pair, err := svc.GenerateTokenPair(Principal{UserID: userID, Email: "jane@example.com", Role: "AGENCY_OWNER", AgencyID: &agencyID})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "AGENCY_OWNER", claims.Role)
	got, ok := claims.AgencyUUID()
	assert.True(t, ok)
	assert.Equal(t, agencyID, got)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role)
	assert.Equal(t, "jane@example.com", refresh.Email)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestJWTService_NoAgency(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(Principal{UserID: uuid.New(), Email: "new@example.com"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	_, ok := claims.AgencyUUID()
	assert.False(t, ok)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(Principal{UserID: uuid.New(), Email: "a@b.co"})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestService()
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := later.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-that-is-32-chars!!", Issuer: "lumio-test", AccessTokenExpiration: time.Minute})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-that-is-at-least-32-chars", Issuer: "someone-else", AccessTokenExpiration: time.Minute})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func testRevoker(t *testing.T, r TokenRevoker) {
	ctx := context.Background()

	require.NoError(t, r.RevokeToken(ctx, "jti-1", time.Hour))
	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	issuedBefore := time.Now().Add(-time.Minute)
	revoked, err = r.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.RevokeUser(ctx, "user-1", time.Hour))
	revoked, err = r.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsUserRevoked(ctx, "user-1", time.Now().Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenRevoker(t *testing.T) {
	testRevoker(t, NewInMemoryTokenRevoker())

	t.Run("expired entries are dropped", func(t *testing.T) {
		r := NewInMemoryTokenRevoker()
		ctx := context.Background()
		require.NoError(t, r.RevokeToken(ctx, "short", time.Millisecond))
		r.now = func() time.Time { return time.Now().Add(time.Second) }
		revoked, err := r.IsRevoked(ctx, "short")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestRedisTokenRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	r := NewRedisTokenRevoker(client)
	testRevoker(t, r)

	mr.FastForward(2 * time.Hour)
	revoked, err := r.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
