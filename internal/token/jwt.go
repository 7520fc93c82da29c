// Package token mints and verifies the HS256 bearer tokens the API
// authenticates with. Claims carry the user id and role, nothing else.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Generate creates a signed token for an identity.
func Generate(id domain.Identity, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id.UserID.String(),
		"role": id.Role.String(),
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse validates a token and extracts the caller identity.
func Parse(tokenStr, secret string) (domain.Identity, error) {
	t, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	if !t.Valid {
		return domain.Identity{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, jwt.ErrTokenMalformed
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return domain.Identity{}, jwt.ErrTokenMalformed
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return domain.Identity{}, jwt.ErrTokenMalformed
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return domain.Identity{}, jwt.ErrTokenMalformed
	}
	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return domain.Identity{}, jwt.ErrTokenInvalidClaims
	}

	return domain.Identity{UserID: userID, Role: role}, nil
}

// Extract pulls the bearer token out of the Authorization header, or ""
// when the header is absent or malformed.
func Extract(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
