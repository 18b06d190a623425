package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/services"
)

// ArticoloHandler gestisce le richieste HTTP sugli articoli.
type ArticoloHandler struct {
	articoloService services.ArticoloService
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewArticoloHandler crea una nuova istanza dell'handler
func NewArticoloHandler(articoloService services.ArticoloService, logger *zap.Logger) *ArticoloHandler {
	return &ArticoloHandler{
		articoloService: articoloService,
		validator:       validator.New(),
		logger:          logger,
	}
}

// List ritorna gli articoli filtrati dai parametri query, ultimi inseriti primi
func (h *ArticoloHandler) List(c *gin.Context) {
	filtro := filtroDaQuery(c)

	articoli, err := h.articoloService.List(c.Request.Context(), filtro)
	if err != nil {
		h.logger.Error("Errore ricerca articoli", zap.Error(err))
		rispondiErrore(c, err, "Errore durante la ricerca")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totale":    len(articoli),
			"articoli":  articoli,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// Get ritorna un articolo con i suoi allegati
func (h *ArticoloHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID non valido"})
		return
	}

	utente, ruolo := identita(c)
	articolo, err := h.articoloService.Get(c.Request.Context(), id, ruolo, utente)
	if err != nil {
		rispondiErrore(c, err, "Articolo non disponibile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": articolo})
}

// Create inserisce un nuovo articolo dal form
func (h *ArticoloHandler) Create(c *gin.Context) {
	var form models.ArticoloForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Errore nel formato dei dati",
			"error":   err.Error(),
		})
		return
	}

	articolo, err := h.articoloService.Create(c.Request.Context(), form)
	if err != nil {
		h.logger.Error("Errore creazione articolo", zap.Error(err))
		rispondiErrore(c, err, "Errore durante la creazione")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Articolo aggiunto con successo",
		"data":    articolo,
	})
}

// Update applica il form a un articolo esistente
func (h *ArticoloHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID non valido"})
		return
	}

	var form models.ArticoloForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Errore nel formato dei dati",
			"error":   err.Error(),
		})
		return
	}

	articolo, err := h.articoloService.Update(c.Request.Context(), id, form)
	if err != nil {
		rispondiErrore(c, err, "Errore durante l'aggiornamento")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Articolo aggiornato con successo",
		"data":    articolo,
	})
}

// Duplica clona un articolo azzerando i campi di uscita
func (h *ArticoloHandler) Duplica(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID non valido"})
		return
	}

	copia, err := h.articoloService.Duplica(c.Request.Context(), id)
	if err != nil {
		rispondiErrore(c, err, "Errore durante la duplicazione")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Articolo duplicato con successo",
		"data":    copia,
	})
}

// Delete elimina un articolo con i suoi allegati
func (h *ArticoloHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID non valido"})
		return
	}

	if err := h.articoloService.Delete(c.Request.Context(), id); err != nil {
		rispondiErrore(c, err, "Errore durante l'eliminazione")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Articolo eliminato con successo",
	})
}

// BulkEdit applica gli stessi campi a più articoli
func (h *ArticoloHandler) BulkEdit(c *gin.Context) {
	var req models.BulkEditRequest
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

	aggiornati, err := h.articoloService.BulkEdit(c.Request.Context(), &req)
	if err != nil {
		rispondiErrore(c, err, "Errore durante la modifica multipla")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Modifica multipla applicata",
		"aggiornati": aggiornati,
	})
}

// BulkDelete elimina più articoli
func (h *ArticoloHandler) BulkDelete(c *gin.Context) {
	var req models.BulkDeleteRequest
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

	eliminati, err := h.articoloService.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		rispondiErrore(c, err, "Errore durante l'eliminazione multipla")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Articoli eliminati con successo",
		"eliminati": eliminati,
	})
}

// ReportGiacenze ritorna l'aggregato per cliente e mese di ingresso
func (h *ArticoloHandler) ReportGiacenze(c *gin.Context) {
	utente, ruolo := identita(c)

	righe, err := h.articoloService.ReportGiacenze(c.Request.Context(), ruolo, utente)
	if err != nil {
		h.logger.Error("Errore report giacenze", zap.Error(err))
		rispondiErrore(c, err, "Errore durante la generazione del report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"righe":     righe,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}
