// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the account identity. ExpiresAt is only set when tokens are
// issued with a positive validity.
type Claims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// GenerateToken signs identity with HS256. validity <= 0 produces a token
// without an exp claim.
func GenerateToken(identity models.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	registered := jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
	}
	if validityDuration > 0 {
		registered.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: registered,
		Username:         identity.Username,
		Email:            identity.Email,
		Role:             identity.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and returns the embedded identity.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// (bad signature, malformed, unknown role) wraps common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, common.ErrTokenExpired
		}
		return models.Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return models.Identity{}, common.ErrInvalidToken
	}

	if !claims.Role.Valid() {
		return models.Identity{}, fmt.Errorf("%w: unknown role %q", common.ErrInvalidToken, claims.Role)
	}

	return models.Identity{Username: claims.Username, Email: claims.Email, Role: claims.Role}, nil
}

// TokenCodec binds a signing key and validity so callers don't pass secrets
// around.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
}

func NewTokenCodec(secretKey string, validityDuration time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secretKey), validity: validityDuration}
}

func (c *TokenCodec) Issue(identity models.Identity) (string, error) {
	return GenerateToken(identity, c.secret, c.validity)
}

func (c *TokenCodec) Verify(tokenString string) (models.Identity, error) {
	return ParseToken(tokenString, c.secret)
}
