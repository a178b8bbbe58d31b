package handlers

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/keepsake/internal/validation"
)

// Issuer is the iss claim of tokens minted by the server
const Issuer = "keepsake"

// JWTConfig содержит конфигурацию для JWT
type JWTConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

// GenerateAccessToken создает новый JWT access token для scope.
// A zero TokenTTL mints a token without expiry.
func GenerateAccessToken(cfg JWTConfig, scope string) (string, time.Time, error) {
	if err := validation.ValidateScope(scope); err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   scope,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    Issuer,
	}

	var expiresAt time.Time
	if cfg.TokenTTL > 0 {
		expiresAt = now.Add(cfg.TokenTTL)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAccessToken валидирует JWT access token и возвращает scope из subject
func ValidateAccessToken(cfg JWTConfig, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if err := validation.ValidateScope(claims.Subject); err != nil {
		return "", fmt.Errorf("invalid token subject: %w", err)
	}

	return claims.Subject, nil
}
