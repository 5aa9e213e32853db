package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
)

var (
	// ErrInvalidToken is returned when the token is malformed, badly signed or has no caller id.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

type JWTConfig struct {
	SecretKey string
	// Issuer is checked when non-empty.
	Issuer string
}

// Claims carries the caller id the way the browser client's tokens do
// ("userId"), with the registered subject as a fallback.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// JWTIdentityResolver verifies HS256 bearer tokens.
type JWTIdentityResolver struct {
	config JWTConfig
}

var _ ports.IdentityResolver = (*JWTIdentityResolver)(nil)

func NewJWTIdentityResolver(config JWTConfig) *JWTIdentityResolver {
	return &JWTIdentityResolver{config: config}
}

// ResolveCaller returns the caller id. Every failure wraps domain.ErrUnauthenticated.
func (r *JWTIdentityResolver) ResolveCaller(_ context.Context, token string) (string, error) {
	claims, err := r.validate(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	if claims.UserID != "" {
		return claims.UserID, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", fmt.Errorf("%w: %w", domain.ErrUnauthenticated, ErrInvalidToken)
}

// IssueToken signs a token for userID. The service never hands out tokens
// to end users; this exists for local tooling and tests.
func (r *JWTIdentityResolver) IssueToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    r.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.config.SecretKey))
}

func (r *JWTIdentityResolver) validate(tokenString string) (*Claims, error) {
	var parserOpts []jwt.ParserOption
	parserOpts = append(parserOpts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if r.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(r.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(r.config.SecretKey), nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
