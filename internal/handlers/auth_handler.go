package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/auth"
	"gestionale-magazzino/internal/models"
)

// AuthHandler gestisce il login.
type AuthHandler struct {
	credenziali *auth.Credenziali
	tokens      *auth.TokenManager
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler crea una nuova istanza dell'handler
func NewAuthHandler(credenziali *auth.Credenziali, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		credenziali: credenziali,
		tokens:      tokens,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Login verifica le credenziali e rilascia il token di sessione
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Errore nel formato dei dati",
			"error":   err.Error(),
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Dati di login non validi",
			"error":   err.Error(),
		})
		return
	}

	utente := h.credenziali.Verifica(req.Username, req.Password)
	if utente == nil {
		h.logger.Warn("Tentativo di login fallito", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Credenziali non valide",
		})
		return
	}

	token, err := h.tokens.Genera(utente)
	if err != nil {
		h.logger.Error("Errore generazione token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Errore interno",
		})
		return
	}

	h.logger.Info("Login effettuato",
		zap.String("username", utente.Username),
		zap.String("ruolo", utente.Ruolo))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login effettuato con successo",
		"token":   token,
		"ruolo":   utente.Ruolo,
	})
}
