package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gestionale-magazzino/internal/models"
)

// Claims sono i claim del token di sessione: utente e ruolo.
type Claims struct {
	Username string `json:"username"`
	Ruolo    string `json:"ruolo"`
	jwt.RegisteredClaims
}

// TokenManager emette e verifica i token bearer firmati HS256.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiryHours int) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Genera emette un token per l'utente autenticato.
func (tm *TokenManager) Genera(utente *models.Utente) (string, error) {
	claims := Claims{
		Username: utente.Username,
		Ruolo:    utente.Ruolo,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verifica valida il token e ne ritorna i claim.
func (tm *TokenManager) Verifica(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
