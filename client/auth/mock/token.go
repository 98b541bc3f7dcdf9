package mock

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accessClaims struct {
	Email      string `json:"email"`
	Generation int64  `json:"gen"`
	jwt.RegisteredClaims
}

// issueAccessToken creates a signed access token for acc
func (b *Backend) issueAccessToken(acc *account) (string, error) {
	now := b.now()
	claims := accessClaims{
		Email:      acc.user.Email,
		Generation: b.generation.Load(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.AccessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.Secret)
}

// issueRefreshToken creates an opaque refresh token for acc
func (b *Backend) issueRefreshToken(acc *account) string {
	token := uuid.NewString()
	b.refreshTokens.Put(token, refreshGrant{email: acc.user.Email, expires: b.now().Add(b.RefreshTTL)})
	return token
}

// verifyAccessToken returns the account behind a valid, current access token
func (b *Backend) verifyAccessToken(raw string) (*account, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return b.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Generation != b.generation.Load() {
		return nil, errors.New("token expired")
	}
	acc, ok := b.lookup(claims.Email)
	if !ok {
		return nil, errors.New("unknown user")
	}
	return acc, nil
}

// redeemRefreshToken consumes a refresh token; refresh tokens rotate on every use
func (b *Backend) redeemRefreshToken(token string) (*account, error) {
	grant, ok := b.refreshTokens.Pop(token)
	if !ok {
		return nil, errors.New("unknown refresh token")
	}
	if b.now().After(grant.expires) {
		return nil, errors.New("refresh token expired")
	}
	acc, ok := b.lookup(grant.email)
	if !ok {
		return nil, errors.New("unknown user")
	}
	return acc, nil
}
