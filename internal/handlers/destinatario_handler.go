package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/store"
)

// DestinatarioHandler gestisce i profili destinatario usati nei DDT.
type DestinatarioHandler struct {
	destinatari *store.DestinatariStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDestinatarioHandler crea una nuova istanza dell'handler
func NewDestinatarioHandler(destinatari *store.DestinatariStore, logger *zap.Logger) *DestinatarioHandler {
	return &DestinatarioHandler{
		destinatari: destinatari,
		validator:   validator.New(),
		logger:      logger,
	}
}

// List ritorna i profili registrati
func (h *DestinatarioHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"nicknames":   h.destinatari.Nicknames(),
			"destinatari": h.destinatari.All(),
		},
	})
}

// Set crea o sovrascrive un profilo destinatario
func (h *DestinatarioHandler) Set(c *gin.Context) {
	var req models.DestinatarioRequest
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
			"message": "Dati non validi",
			"error":   err.Error(),
		})
		return
	}

	h.destinatari.Set(req.Nickname, models.Destinatario{
		RagioneSociale: req.RagioneSociale,
		Indirizzo:      req.Indirizzo,
		Piva:           req.Piva,
	})

	h.logger.Info("Destinatario salvato", zap.String("nickname", req.Nickname))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Destinatario salvato con successo",
	})
}

// Delete rimuove un profilo destinatario
func (h *DestinatarioHandler) Delete(c *gin.Context) {
	nickname := c.Param("nickname")
	if nickname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nickname mancante"})
		return
	}

	h.destinatari.Delete(nickname)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Destinatario eliminato",
	})
}
