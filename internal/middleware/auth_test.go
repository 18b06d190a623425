package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestionale-magazzino/internal/auth"
	"gestionale-magazzino/internal/models"
)

func setupRouterTest(tm *auth.TokenManager, allowedRoles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protetta", AuthMiddleware(tm, allowedRoles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"utente": c.GetString(CtxUser),
			"ruolo":  c.GetString(CtxRuolo),
		})
	})
	return router
}

func richiestaCon(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protetta", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareSenzaToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 1)
	router := setupRouterTest(tm)

	w := richiestaCon(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareTokenNonValido(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 1)
	router := setupRouterTest(tm)

	w := richiestaCon(router, "Bearer token-farlocco")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValorizzaIlContesto(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 1)
	router := setupRouterTest(tm)

	token, err := tm.Genera(&models.Utente{Username: "ACME", Ruolo: models.RuoloClient})
	require.NoError(t, err)

	w := richiestaCon(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"utente":"ACME"`)
	assert.Contains(t, w.Body.String(), `"ruolo":"client"`)
}

func TestAuthMiddlewareRuoloNonAmmesso(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 1)
	router := setupRouterTest(tm, models.RuoloAdmin)

	token, err := tm.Genera(&models.Utente{Username: "ACME", Ruolo: models.RuoloClient})
	require.NoError(t, err)

	w := richiestaCon(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareRuoloAmmesso(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 1)
	router := setupRouterTest(tm, models.RuoloAdmin)

	token, err := tm.Genera(&models.Utente{Username: "OPERATORE", Ruolo: models.RuoloAdmin})
	require.NoError(t, err)

	w := richiestaCon(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
