package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/services"
)

const mimePdf = "application/pdf"

// DocumentoHandler gestisce la generazione dei documenti: buono di prelievo,
// DDT, etichetta e invio via email.
type DocumentoHandler struct {
	documentoService services.DocumentoService
	mailService      services.MailService
	validator        *validator.Validate
	logger           *zap.Logger
}

// NewDocumentoHandler crea una nuova istanza dell'handler
func NewDocumentoHandler(documentoService services.DocumentoService, mailService services.MailService, logger *zap.Logger) *DocumentoHandler {
	return &DocumentoHandler{
		documentoService: documentoService,
		mailService:      mailService,
		validator:        validator.New(),
		logger:           logger,
	}
}

// Buono genera il PDF del buono di prelievo per gli articoli selezionati
func (h *DocumentoHandler) Buono(c *gin.Context) {
	var req models.BuonoRequest
	if !h.bindEValida(c, &req) {
		return
	}

	utente, ruolo := identita(c)
	doc, err := h.documentoService.GeneraBuono(c.Request.Context(), req.IDs, ruolo, utente)
	if err != nil {
		rispondiErrore(c, err, "Errore durante la generazione del buono")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="buono_prelievo.pdf"`)
	c.Data(http.StatusOK, mimePdf, doc)
}

// Ddt emette il documento di trasporto: alloca il numero progressivo e timbra
// l'uscita sugli articoli selezionati
func (h *DocumentoHandler) Ddt(c *gin.Context) {
	var req models.DdtRequest
	if !h.bindEValida(c, &req) {
		return
	}

	numero, doc, err := h.documentoService.EmettiDdt(c.Request.Context(), req.IDs, req.Destinatario)
	if err != nil {
		h.logger.Error("Errore emissione DDT", zap.Error(err))
		rispondiErrore(c, err, "Errore durante l'emissione del DDT")
		return
	}

	h.logger.Info("DDT emesso", zap.String("numero", numero), zap.Int("articoli", len(req.IDs)))

	nomeFile := fmt.Sprintf("DDT_%s.pdf", strings.ReplaceAll(numero, "/", "-"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nomeFile))
	c.Header("X-Numero-Ddt", numero)
	c.Data(http.StatusOK, mimePdf, doc)
}

// Etichetta genera l'etichetta colli di un articolo
func (h *DocumentoHandler) Etichetta(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID non valido"})
		return
	}

	utente, ruolo := identita(c)
	doc, err := h.documentoService.GeneraEtichetta(c.Request.Context(), id, ruolo, utente)
	if err != nil {
		rispondiErrore(c, err, "Errore durante la generazione dell'etichetta")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="etichetta_%d.pdf"`, id))
	c.Data(http.StatusOK, mimePdf, doc)
}

// InviaMail genera un documento e lo spedisce via email come allegato.
// L'invio è sincrono: un errore SMTP risale al chiamante.
func (h *DocumentoHandler) InviaMail(c *gin.Context) {
	var req models.InvioMailRequest
	if !h.bindEValida(c, &req) {
		return
	}

	utente, ruolo := identita(c)

	var doc []byte
	var numero, nomeFile, oggetto string
	var err error
	switch req.Tipo {
	case "ddt":
		numero, doc, err = h.documentoService.EmettiDdt(c.Request.Context(), req.IDs, req.Destinatario)
		nomeFile = fmt.Sprintf("DDT_%s.pdf", strings.ReplaceAll(numero, "/", "-"))
		oggetto = "Documento di Trasporto N. " + numero
	default:
		doc, err = h.documentoService.GeneraBuono(c.Request.Context(), req.IDs, ruolo, utente)
		nomeFile = "buono_prelievo.pdf"
		oggetto = "Buono di Prelievo"
	}
	if err != nil {
		rispondiErrore(c, err, "Errore durante la generazione del documento")
		return
	}

	corpo := "In allegato il documento generato dal gestionale magazzino."
	if err := h.mailService.InviaDocumento(req.Email, oggetto, corpo, nomeFile, doc); err != nil {
		// Un DDT a questo punto è già emesso e timbrato: rigenerarlo non è
		// possibile, quindi il documento torna comunque al chiamante invece
		// di andare perso con l'errore SMTP.
		if req.Tipo == "ddt" {
			h.logger.Error("Invio email del DDT fallito, documento restituito al chiamante",
				zap.String("numero", numero),
				zap.Error(err))
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nomeFile))
			c.Header("X-Numero-Ddt", numero)
			c.Header("X-Invio-Mail", "fallito")
			c.Data(http.StatusOK, mimePdf, doc)
			return
		}
		rispondiErrore(c, err, "Invio email fallito")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Documento inviato a " + req.Email,
	})
}

func (h *DocumentoHandler) bindEValida(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Errore nel formato dei dati",
			"error":   err.Error(),
		})
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Dati non validi",
			"error":   err.Error(),
		})
		return false
	}
	return true
}
