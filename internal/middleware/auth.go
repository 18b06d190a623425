package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gestionale-magazzino/internal/auth"
)

// Chiavi del contesto gin valorizzate dal middleware di autenticazione.
const (
	CtxUser  = "user"
	CtxRuolo = "ruolo"
)

// AuthMiddleware verifica il token bearer e, se indicati, i ruoli ammessi.
// Un ruolo non ammesso è fatale per la richiesta: 403 immediato.
func AuthMiddleware(tm *auth.TokenManager, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Autenticazione richiesta",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tm.Verifica(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token non valido",
			})
			return
		}

		if len(allowedRoles) > 0 {
			ammesso := false
			for _, ruolo := range allowedRoles {
				if claims.Ruolo == ruolo {
					ammesso = true
					break
				}
			}
			if !ammesso {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Operazione non consentita per il ruolo corrente",
				})
				return
			}
		}

		c.Set(CtxUser, claims.Username)
		c.Set(CtxRuolo, claims.Ruolo)
		c.Next()
	}
}
