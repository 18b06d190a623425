package main

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gestionale-magazzino/internal/auth"
	"gestionale-magazzino/internal/cache"
	"gestionale-magazzino/internal/config"
	"gestionale-magazzino/internal/database"
	"gestionale-magazzino/internal/handlers"
	"gestionale-magazzino/internal/middleware"
	"gestionale-magazzino/internal/repository"
	"gestionale-magazzino/internal/routes"
	"gestionale-magazzino/internal/services"
	"gestionale-magazzino/internal/store"
)

func main() {
	// 1. Configurazione
	cfg, err := config.Load()
	if err != nil {
		panic("Errore caricamento configurazione: " + err.Error())
	}

	// 2. Logger
	logger, err := nuovoLogger(cfg.Logging.Level)
	if err != nil {
		panic("Errore inizializzazione logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Avvio gestionale magazzino",
		zap.String("port", cfg.Server.Port),
		zap.String("gin_mode", cfg.Server.GinMode))

	// 3. PostgreSQL
	postgresDB, err := database.NewPostgresDB(
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		logger,
	)
	if err != nil {
		logger.Fatal("Errore connessione PostgreSQL", zap.Error(err))
	}
	defer postgresDB.Close()

	if err := database.EnsureSchema(postgresDB.DB); err != nil {
		logger.Fatal("Errore creazione schema", zap.Error(err))
	}

	// 4. Redis
	redisDB, err := database.NewRedisDB(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("Errore connessione Redis", zap.Error(err))
	}
	defer redisDB.Close()

	// 5. Repository
	articoloRepo, err := repository.NewArticoloRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("Errore inizializzazione repository articoli", zap.Error(err))
	}
	allegatoRepo, err := repository.NewAllegatoRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("Errore inizializzazione repository allegati", zap.Error(err))
	}

	// 6. Store su file JSON
	progressivi := store.NewProgressiviStore(filepath.Join(cfg.Storage.ConfigDir, "progressivi_ddt.json"))
	destinatari := store.NewDestinatariStore(filepath.Join(cfg.Storage.ConfigDir, "destinatari.json"), logger)
	mappe := store.NewMappeStore(filepath.Join(cfg.Storage.ConfigDir, "mappe_excel.json"))

	// 7. Cache e service
	reportCache := cache.NewReportCache(redisDB.Client, 5*time.Minute, logger)

	articoloService := services.NewArticoloService(articoloRepo, allegatoRepo, reportCache, cfg.Storage.UploadDir, logger)
	documentoService := services.NewDocumentoService(articoloRepo, progressivi, destinatari, reportCache, logger)
	excelService := services.NewExcelService(articoloRepo, allegatoRepo, mappe, reportCache, logger)
	mailService := services.NewMailService(cfg.SMTP, logger)

	// 8. Autenticazione
	credenziali, err := auth.LoadCredenziali(cfg.Storage.CredenzialiFile)
	if err != nil {
		logger.Fatal("Errore caricamento credenziali",
			zap.String("path", cfg.Storage.CredenzialiFile),
			zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// 9. Handler
	authHandler := handlers.NewAuthHandler(credenziali, tokens, logger)
	articoloHandler := handlers.NewArticoloHandler(articoloService, logger)
	allegatoHandler := handlers.NewAllegatoHandler(articoloService, cfg.Storage.UploadDir, logger)
	excelHandler := handlers.NewExcelHandler(excelService, logger)
	documentoHandler := handlers.NewDocumentoHandler(documentoService, mailService, logger)
	destinatarioHandler := handlers.NewDestinatarioHandler(destinatari, logger)
	healthChecker := middleware.NewHealthChecker(postgresDB, redisDB, logger)

	// 10. Router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	routes.SetupRoutes(
		router,
		tokens,
		authHandler,
		articoloHandler,
		allegatoHandler,
		excelHandler,
		documentoHandler,
		destinatarioHandler,
		healthChecker,
	)

	// 11. Avvio
	logger.Info("Server in ascolto", zap.String("addr", ":"+cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Errore avvio server", zap.Error(err))
	}
}

// nuovoLogger costruisce il logger zap con il livello richiesto dalla
// configurazione.
func nuovoLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapCfg.Build()
}
