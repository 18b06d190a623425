package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/services"
)

// AllegatoHandler gestisce upload, download ed eliminazione degli allegati.
type AllegatoHandler struct {
	articoloService services.ArticoloService
	uploadDir       string
	logger          *zap.Logger
}

// NewAllegatoHandler crea una nuova istanza dell'handler
func NewAllegatoHandler(articoloService services.ArticoloService, uploadDir string, logger *zap.Logger) *AllegatoHandler {
	return &AllegatoHandler{
		articoloService: articoloService,
		uploadDir:       uploadDir,
		logger:          logger,
	}
}

// Upload carica uno o più file come allegati dell'articolo
func (h *AllegatoHandler) Upload(c *gin.Context) {
	articoloID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID non valido"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Errore nel formato della richiesta",
			"error":   err.Error(),
		})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nessun file caricato"})
		return
	}

	caricati := 0
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			rispondiErrore(c, err, "Errore durante il caricamento")
			return
		}

		_, err = h.articoloService.AggiungiAllegato(c.Request.Context(), articoloID, fileHeader.Filename, src)
		src.Close()
		if err != nil {
			h.logger.Error("Errore caricamento allegato",
				zap.Int("articolo_id", articoloID),
				zap.String("filename", fileHeader.Filename),
				zap.Error(err))
			rispondiErrore(c, err, "Errore durante il caricamento")
			return
		}
		caricati++
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Allegati caricati con successo",
		"caricati": caricati,
	})
}

// Download serve il file di un allegato per nome
func (h *AllegatoHandler) Download(c *gin.Context) {
	// filepath.Base impedisce di risalire fuori dalla directory upload
	filename := filepath.Base(c.Param("filename"))
	c.File(filepath.Join(h.uploadDir, filename))
}

// Delete elimina un allegato: file best-effort, metadati sempre
func (h *AllegatoHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID non valido"})
		return
	}

	articoloID, err := h.articoloService.DeleteAllegato(c.Request.Context(), id)
	if err != nil {
		rispondiErrore(c, err, "Errore durante l'eliminazione dell'allegato")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Allegato eliminato",
		"articolo_id": articoloID,
	})
}
