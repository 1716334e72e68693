// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claim values for admin bypass tokens.
const (
	TokenTypeBypass = "admin_bypass"
	RoleAdmin       = "admin"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateBypassToken creates a signed admin bypass token for one session.
func GenerateBypassToken(sessionID, jwtSecret string, lifetime time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role":      RoleAdmin,
		"type":      TokenTypeBypass,
		"sessionId": sessionID,
		"iat":       time.Now().UTC().Unix(),
		"exp":       time.Now().UTC().Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// IsBypassClaims reports whether validated claims grant the admin bypass.
func IsBypassClaims(claims jwt.MapClaims) bool {
	if claims == nil {
		return false
	}
	tokenType, _ := claims["type"].(string)
	role, _ := claims["role"].(string)
	return tokenType == TokenTypeBypass && role == RoleAdmin
}
