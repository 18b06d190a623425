package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/services"
)

const mimeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelHandler gestisce importazione ed esportazione da fogli di calcolo.
type ExcelHandler struct {
	excelService services.ExcelService
	logger       *zap.Logger
}

// NewExcelHandler crea una nuova istanza dell'handler
func NewExcelHandler(excelService services.ExcelService, logger *zap.Logger) *ExcelHandler {
	return &ExcelHandler{
		excelService: excelService,
		logger:       logger,
	}
}

// Profili ritorna i nomi dei profili di importazione disponibili
func (h *ExcelHandler) Profili(c *gin.Context) {
	profili, err := h.excelService.Profili()
	if err != nil {
		h.logger.Error("Errore lettura profili", zap.Error(err))
		rispondiErrore(c, err, "Profili di importazione non disponibili")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profili": profili})
}

// Import importa articoli da un foglio Excel secondo il profilo indicato.
// L'intero batch è una transazione: in caso di errore non resta nulla.
func (h *ExcelHandler) Import(c *gin.Context) {
	profilo := c.PostForm("profilo")
	if profilo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Profilo mancante"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "File mancante"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		rispondiErrore(c, err, "Errore durante l'importazione")
		return
	}
	defer src.Close()

	response, err := h.excelService.Import(c.Request.Context(), src, profilo)
	if err != nil {
		h.logger.Error("Errore importazione Excel",
			zap.String("profilo", profilo),
			zap.Error(err))
		rispondiErrore(c, err, "Errore durante l'importazione")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Export esporta gli articoli in un foglio Excel; con ?ids=1,2,3 esporta solo
// il sottoinsieme indicato.
func (h *ExcelHandler) Export(c *gin.Context) {
	filtro := filtroDaQuery(c)
	delete(filtro.Parametri, "ids")

	var ids []int
	if raw := c.Query("ids"); raw != "" {
		for _, parte := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(parte))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID per esportazione non validi"})
				return
			}
			ids = append(ids, id)
		}
	}

	data, err := h.excelService.Export(c.Request.Context(), filtro, ids)
	if err != nil {
		rispondiErrore(c, err, "Nessun articolo da esportare")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="esportazione_giacenze.xlsx"`)
	c.Data(http.StatusOK, mimeXlsx, data)
}
