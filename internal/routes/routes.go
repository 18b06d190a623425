package routes

import (
	"github.com/gin-gonic/gin"

	"gestionale-magazzino/internal/auth"
	"gestionale-magazzino/internal/handlers"
	"gestionale-magazzino/internal/middleware"
	"gestionale-magazzino/internal/models"
)

// SetupRoutes configura tutte le rotte dell'applicazione.
// La gerarchia dei gruppi riflette i ruoli: le rotte di consultazione sono
// aperte a entrambi i ruoli, quelle di modifica al solo admin.
func SetupRoutes(
	router *gin.Engine,
	tokens *auth.TokenManager,
	authHandler *handlers.AuthHandler,
	articoloHandler *handlers.ArticoloHandler,
	allegatoHandler *handlers.AllegatoHandler,
	excelHandler *handlers.ExcelHandler,
	documentoHandler *handlers.DocumentoHandler,
	destinatarioHandler *handlers.DestinatarioHandler,
	healthChecker *middleware.HealthChecker,
) {
	// Rotte pubbliche
	router.POST("/api/v1/login", authHandler.Login)
	router.GET("/health", healthChecker.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(tokens))
	{
		// Consultazione: entrambi i ruoli, il filtro cliente è applicato a
		// livello di query per il ruolo client
		articoli := v1.Group("/articoli")
		{
			articoli.GET("", articoloHandler.List)
			articoli.GET("/:id", articoloHandler.Get)
			articoli.GET("/:id/etichetta", documentoHandler.Etichetta)
			articoli.GET("/export", excelHandler.Export)
		}

		v1.POST("/documenti/buono", documentoHandler.Buono)
		v1.GET("/report/giacenze", articoloHandler.ReportGiacenze)
		v1.GET("/allegati/download/:filename", allegatoHandler.Download)
		v1.GET("/destinatari", destinatarioHandler.List)
	}

	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(tokens, models.RuoloAdmin))
	{
		articoli := admin.Group("/articoli")
		{
			articoli.POST("", articoloHandler.Create)
			articoli.PUT("/:id", articoloHandler.Update)
			articoli.POST("/:id/duplica", articoloHandler.Duplica)
			articoli.DELETE("/:id", articoloHandler.Delete)
			articoli.POST("/bulk-edit", articoloHandler.BulkEdit)
			articoli.POST("/bulk-delete", articoloHandler.BulkDelete)
			articoli.POST("/:id/allegati", allegatoHandler.Upload)
			articoli.POST("/import", excelHandler.Import)
		}

		admin.GET("/import/profili", excelHandler.Profili)
		admin.DELETE("/allegati/:id", allegatoHandler.Delete)
		admin.POST("/documenti/ddt", documentoHandler.Ddt)
		admin.POST("/documenti/mail", documentoHandler.InviaMail)
		admin.POST("/destinatari", destinatarioHandler.Set)
		admin.DELETE("/destinatari/:nickname", destinatarioHandler.Delete)
	}

	// Info API sulla radice
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Gestionale Magazzino API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": gin.H{
				"health": "/health",
				"api":    "/api/v1",
				"articoli": gin.H{
					"lista":    "GET /api/v1/articoli",
					"dettagli": "GET /api/v1/articoli/:id",
					"export":   "GET /api/v1/articoli/export",
					"import":   "POST /api/v1/articoli/import",
				},
				"documenti": gin.H{
					"buono":     "POST /api/v1/documenti/buono",
					"ddt":       "POST /api/v1/documenti/ddt",
					"etichetta": "GET /api/v1/articoli/:id/etichetta",
				},
				"report": "GET /api/v1/report/giacenze",
			},
		})
	})
}
