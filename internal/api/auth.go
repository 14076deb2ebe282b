package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator issues and validates the HS256 tokens that guard the
// mutating endpoints
type Authenticator struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewAuthenticator creates an Authenticator with the given secret key and token TTL
func NewAuthenticator(secretKey string, tokenTTL time.Duration) *Authenticator {
	return &Authenticator{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// GenerateToken generates a token for subject
func (a *Authenticator) GenerateToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(a.tokenTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secretKey))
}

// ValidateToken validates a token and returns its subject
func (a *Authenticator) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Only HS256 is accepted
		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.secretKey), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("invalid token claims")
	}
	return subject, nil
}

// RequireToken rejects requests without a valid bearer token
func (a *Authenticator) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			renderError(w, http.StatusUnauthorized, fmt.Errorf("authorization required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			renderError(w, http.StatusUnauthorized, fmt.Errorf("invalid authorization format"))
			return
		}

		if _, err := a.ValidateToken(parts[1]); err != nil {
			renderError(w, http.StatusUnauthorized, fmt.Errorf("invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
