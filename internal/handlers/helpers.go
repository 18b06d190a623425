package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestionale-magazzino/internal/middleware"
	"gestionale-magazzino/internal/repository"
	"gestionale-magazzino/internal/services"
)

// identita estrae utente e ruolo messi nel contesto dal middleware di
// autenticazione.
func identita(c *gin.Context) (utente, ruolo string) {
	return c.GetString(middleware.CtxUser), c.GetString(middleware.CtxRuolo)
}

// filtroDaQuery costruisce il filtro di ricerca dai parametri query della
// richiesta più l'identità del chiamante.
func filtroDaQuery(c *gin.Context) *repository.Filtro {
	utente, ruolo := identita(c)
	parametri := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 && values[0] != "" {
			parametri[key] = values[0]
		}
	}
	return &repository.Filtro{Ruolo: ruolo, Utente: utente, Parametri: parametri}
}

// rispondiErrore traduce gli errori sentinella dei service nel codice HTTP
// appropriato.
func rispondiErrore(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNonTrovato):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrNonAutorizzato):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrDateIncoerenti), errors.Is(err, services.ErrGiaUscito):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
