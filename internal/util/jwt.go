package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims carry the activated session across requests. A token
// is only ever minted after a successful ledger exchange.
type SessionClaims struct {
	LicenseKey string `json:"license_key"`
	APIKey     string `json:"api_key"`
	jwt.RegisteredClaims
}

// GenerateToken signs session claims for an activated license key.
func GenerateToken(secret, licenseKey, apiKey string, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		LicenseKey: licenseKey,
		APIKey:     apiKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and verifies a session token.
func ValidateToken(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.LicenseKey == "" || claims.APIKey == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
