// Package auth issues and checks the session tokens that gate the mutating
// endpoints. Tokens are HS256 JWTs carried in the token cookie or an
// Authorization: Bearer header.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the registered claim set plus the operator's username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

const issuer = "yardcms"

// GenerateToken signs a token for username that expires after validity.
func GenerateToken(username string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken verifies tokenString and returns its claims. Expired tokens map
// to common.ErrTokenExpired, anything else that fails to verify to
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Username == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// UsernameFromToken is ParseToken for callers that only need the username.
func UsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
