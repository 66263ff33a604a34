package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-32-chars"

// fixedClock returns a clock reading *now, so tests can move time by assignment
func fixedClock(now *time.Time) func() time.Time {
	return func() time.Time { return *now }
}

func createTestTokenService(t *testing.T, now *time.Time) TokenService {
	t.Helper()
	svc, err := NewTokenService(24*time.Hour, "studio-api", "studio-admin", false, "", "", testSecret, fixedClock(now))
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		ttl         time.Duration
		useRSAKeys  bool
		privateKey  string
		publicKey   string
		secretKey   string
		expectError bool
	}{
		{name: "valid symmetric key configuration", ttl: time.Hour, secretKey: testSecret},
		{name: "missing secret key", ttl: time.Hour, expectError: true},
		{name: "non-positive ttl", ttl: 0, secretKey: testSecret, expectError: true},
		{name: "rsa without keys", ttl: time.Hour, useRSAKeys: true, expectError: true},
		{name: "rsa with garbage pem", ttl: time.Hour, useRSAKeys: true, privateKey: "nope", publicKey: "nope", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewTokenService(tt.ttl, "", "", tt.useRSAKeys, tt.privateKey, tt.publicKey, tt.secretKey, nil)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ttl, svc.TTL())
		})
	}
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := createTestTokenService(t, &now)

	token, expiresAt, err := svc.GenerateAdminToken("0b6f7c1e-6b7e-4a3c-9d57-1f6a1c2d3e4f", "alice", "super-admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := svc.ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0b6f7c1e-6b7e-4a3c-9d57-1f6a1c2d3e4f", claims.AdminUUID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "super-admin", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))

	t.Run("token ids are unique", func(t *testing.T) {
		other, _, err := svc.GenerateAdminToken("0b6f7c1e-6b7e-4a3c-9d57-1f6a1c2d3e4f", "alice", "super-admin")
		require.NoError(t, err)
		otherClaims, err := svc.ValidateAdminToken(other)
		require.NoError(t, err)
		assert.NotEqual(t, claims.TokenID, otherClaims.TokenID)
	})
}

func TestTokenService_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := issued
	svc := createTestTokenService(t, &now)

	token, _, err := svc.GenerateAdminToken("0b6f7c1e-6b7e-4a3c-9d57-1f6a1c2d3e4f", "alice", "admin")
	require.NoError(t, err)

	t.Run("valid just before ttl", func(t *testing.T) {
		now = issued.Add(24*time.Hour - time.Minute)
		_, err := svc.ValidateAdminToken(token)
		assert.NoError(t, err)
	})

	t.Run("expired just after ttl", func(t *testing.T) {
		now = issued.Add(24*time.Hour + time.Minute)
		_, err := svc.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := createTestTokenService(t, &now)

	t.Run("different secret", func(t *testing.T) {
		other, err := NewTokenService(24*time.Hour, "studio-api", "studio-admin", false, "", "", "another-secret-key-for-jwt-signing-32", fixedClock(&now))
		require.NoError(t, err)
		token, _, err := other.GenerateAdminToken("0b6f7c1e-6b7e-4a3c-9d57-1f6a1c2d3e4f", "mallory", "super-admin")
		require.NoError(t, err)

		_, err = svc.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("different audience", func(t *testing.T) {
		other, err := NewTokenService(24*time.Hour, "studio-api", "someone-else", false, "", "", testSecret, fixedClock(&now))
		require.NoError(t, err)
		token, _, err := other.GenerateAdminToken("0b6f7c1e-6b7e-4a3c-9d57-1f6a1c2d3e4f", "mallory", "admin")
		require.NoError(t, err)

		_, err = svc.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAdminToken("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
