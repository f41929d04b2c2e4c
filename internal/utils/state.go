package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var stateSecret []byte

// SetStateSecret sets the key used to sign OAuth state tokens.
func SetStateSecret(secret string) {
	stateSecret = []byte(secret)
}

// StateClaims is the payload of a signed OAuth state token. Redirect is
// where the frontend resumes after the callback completes.
type StateClaims struct {
	Redirect string `json:"redirect"`
	jwt.RegisteredClaims
}

// GenerateStateToken issues a short-lived signed state token for the OAuth
// authorize/callback round trip.
func GenerateStateToken(redirect string, ttl time.Duration) (string, error) {
	if len(stateSecret) == 0 {
		return "", errors.New("state secret not configured")
	}

	claims := StateClaims{
		Redirect: redirect,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(stateSecret)
}

// ParseStateToken verifies a state token and returns its claims.
func ParseStateToken(tokenString string) (*StateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StateClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return stateSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid state token")
	}
	return claims, nil
}
