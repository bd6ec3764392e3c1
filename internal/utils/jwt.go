package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is the verified identity carried by a bearer token.
type TokenClaims struct {
	Username string
	UserID   int
	Role     string
}

// GenerateToken creates a signed HS256 access token.
func GenerateToken(secret, username string, userID int, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"id":   userID,
		"role": role,
		"exp":  time.Now().Add(duration).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and extracts the claims.
// A token with a bad signature, a non-HMAC signing method, a past expiry
// or missing sub/id claims is rejected.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	username, ok1 := claims["sub"].(string)
	id, ok2 := claims["id"].(float64)
	if !ok1 || !ok2 || username == "" {
		return nil, ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return &TokenClaims{
		Username: username,
		UserID:   int(id),
		Role:     role,
	}, nil
}
