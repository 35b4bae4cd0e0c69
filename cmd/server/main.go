package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"versioned-translator/auth"
	"versioned-translator/internal/config"
	"versioned-translator/internal/db"
	"versioned-translator/internal/deepl"
	"versioned-translator/internal/domain"
	"versioned-translator/internal/frappe"
	"versioned-translator/internal/logger"
	"versioned-translator/internal/middleware"
	"versioned-translator/internal/queue"
	"versioned-translator/internal/settings"
	"versioned-translator/internal/store"
	"versioned-translator/internal/translationmap"
	"versioned-translator/internal/translator"
	"versioned-translator/internal/utils"
	"versioned-translator/internal/worker"
	"versioned-translator/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.AppConfig
	log := logger.New(cfg.Environment)

	// Connect to database
	if err := db.ConnectDb(cfg); err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.CloseDb()

	// Migrate database schema
	if err := db.Migrate(db.AppDb); err != nil {
		log.Fatal().Err(err).Msg("Database migration failed")
	}

	rootCtx := context.Background()

	// Seed the settings singleton on first boot
	settingsRepo := settings.NewRepository(db.AppDb)
	created, err := settingsRepo.Seed(rootCtx, domain.TranslationSettings{
		APIKey:                 cfg.SeedAPIKey,
		DefaultSourceLanguage:  cfg.SeedSourceLanguage,
		DefaultTargetLanguages: cfg.SeedTargetLanguages,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding translation settings failed")
	}
	if created {
		log.Info().Msg("Translation settings created from environment")
	}

	if err := utils.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("Registering validators failed")
	}

	// Initialize Redis, nil when unreachable
	redisClient := redis.InitRedis(rootCtx, cfg.RedisAddress, log)

	// Initialize clients
	frappeClient := frappe.New(frappe.Options{
		BaseURL:   cfg.FrappeURL,
		APIKey:    cfg.FrappeAPIKey,
		APISecret: cfg.FrappeAPISecret,
		Timeout:   cfg.FrappeTimeout,
		Cache:     redis.NewCache(redisClient, "versioned_translator:"),
		CacheTTL:  cfg.MetaCacheTTL,
	}, logger.Component(log, "frappe"))
	deeplClient := deepl.New(cfg.DeepLAPIURL, cfg.DeepLTimeout)

	// Initialize repositories
	mapRepo := translationmap.NewRepository(db.AppDb)
	storeRepo := store.NewRepository(db.AppDb)

	// Initialize services
	settingsService := settings.NewService(settingsRepo, logger.Component(log, "settings"))
	discovery := translator.NewFieldDiscovery(frappeClient)
	mapService := translationmap.NewService(mapRepo, discovery, logger.Component(log, "translation_map"))
	storeService := store.NewService(storeRepo)
	runner := translator.NewRunner(frappeClient, settingsService, mapRepo, deeplClient, storeRepo, logger.Component(log, "job"))

	// Background jobs
	pool := worker.NewWorkerPool(cfg.WorkerCount, cfg.WorkerCount*16, logger.Component(log, "worker"))
	consumerCtx, stopConsumer := context.WithCancel(rootCtx)
	consumerDone := make(chan struct{})

	var jobQueue queue.Enqueuer
	if redisClient != nil {
		redisQueue := queue.NewRedisQueue(redisClient, cfg.QueueName, logger.Component(log, "queue"))
		jobQueue = redisQueue
		go func() {
			defer close(consumerDone)
			redisQueue.Consume(consumerCtx, pool, runner.Handle)
		}()
	} else {
		log.Warn().Msg("Using in-process job queue, pending jobs are lost on restart")
		jobQueue = queue.NewLocalQueue(pool, runner.Handle)
		close(consumerDone)
	}
	hooks := translator.NewHooks(settingsService, mapRepo, jobQueue, cfg.JobTimeout, logger.Component(log, "hooks"))

	// Initialize handlers
	settingsHandler := settings.NewHandler(settingsService)
	mapHandler := translationmap.NewHandler(mapService)
	storeHandler := store.NewHandler(storeService)
	translatorHandler := translator.NewHandler(hooks, discovery, jobQueue, cfg.JobTimeout)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Component(log, "http")))
	router.Use(middleware.ErrorHandler(log))

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}
	if cfg.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Only the host's desk calls the API in production
		corsConfig.AllowOrigins = []string{cfg.FrappeURL}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// desk routes
	api := router.Group("/api", auth.AuthMiddleWare(cfg.JWTSecret))
	settingsHandler.RegisterRoutes(api)
	mapHandler.RegisterRoutes(api)
	storeHandler.RegisterRoutes(api)
	translatorHandler.RegisterRoutes(api)

	// internal use routes
	internal := router.Group("/internal", auth.InternalAuthMiddleware(cfg.InternalSecret))
	translatorHandler.RegisterInternalRoutes(internal)

	// Server configuration
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Server listening")
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(rootCtx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	stopConsumer()
	<-consumerDone
	pool.Shutdown()
	if redisClient != nil {
		redisClient.Close()
	}

	log.Info().Msg("Server shutdown complete")
}
