// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenTTL is how long issued tokens stay valid; zero means no exp claim.
	tokenTTL time.Duration
)

// ErrNotInitialized is returned when tokens are requested before Init.
var ErrNotInitialized = errors.New("auth: signing keys not initialized")

// Init generates a fresh ed25519 key pair and sets the token lifetime.
func Init(ttl time.Duration) error {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generate ed25519 key pair: %w", err)
	}
	publicKey, privateKey = pub, priv
	tokenTTL = ttl
	return nil
}

// TokenTTL returns the configured token lifetime.
func TokenTTL() time.Duration {
	return tokenTTL
}

// CreateJWT creates a signed token with "sub" = userID.
func CreateJWT(userID string) (string, error) {
	if privateKey == nil {
		return "", ErrNotInitialized
	}
	claims := jwt.MapClaims{"sub": userID}
	if tokenTTL > 0 {
		claims["exp"] = time.Now().Add(tokenTTL).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a token and returns its "sub" claim.
func AuthenticateJWT(tokenString string) (string, error) {
	if publicKey == nil {
		return "", ErrNotInitialized
	}
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid jwt claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("missing sub in jwt")
	}
	return sub, nil
}
