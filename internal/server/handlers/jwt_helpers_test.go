package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret-key"), TokenTTL: time.Hour}

	token, expiresAt, err := GenerateAccessToken(cfg, "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	scope, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", scope)
}

func TestGenerateAccessToken_NoExpiry(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret-key")}

	token, expiresAt, err := GenerateAccessToken(cfg, "alice")
	require.NoError(t, err)
	assert.True(t, expiresAt.IsZero())

	scope, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", scope)
}

func TestGenerateAccessToken_InvalidScope(t *testing.T) {
	_, _, err := GenerateAccessToken(JWTConfig{Secret: []byte("s")}, "a/b")
	assert.Error(t, err)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret-key"), TokenTTL: time.Hour}

	sign := func(claims jwt.RegisteredClaims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	valid := jwt.RegisteredClaims{Subject: "alice", Issuer: Issuer}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	foreign := valid
	foreign.Issuer = "someone-else"
	badSubject := valid
	badSubject.Subject = "../bob"

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: sign(valid, jwt.SigningMethodHS256, []byte("other"))},
		{name: "expired", token: sign(expired, jwt.SigningMethodHS256, cfg.Secret)},
		{name: "foreign issuer", token: sign(foreign, jwt.SigningMethodHS256, cfg.Secret)},
		{name: "bad subject", token: sign(badSubject, jwt.SigningMethodHS256, cfg.Secret)},
		{name: "other algorithm", token: sign(valid, jwt.SigningMethodHS512, cfg.Secret)},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAccessToken(cfg, tt.token)
			assert.Error(t, err)
		})
	}
}
