package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ytscribe/auth"
	"ytscribe/config"
	"ytscribe/downloader"
	"ytscribe/handlers"
	"ytscribe/logger"
	"ytscribe/middleware"
	"ytscribe/repository"
	"ytscribe/repository/postgres"
	"ytscribe/repository/sqlite"
	"ytscribe/services/video"
	"ytscribe/storage"
	"ytscribe/transcriber"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logger.Setup(cfg.LogDir, cfg.Debug); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	accessLogConfig, err := logger.NewAccessLogConfig(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize access log: %v", err)
	}

	// Initialize the selected storage backend
	repo, err := openRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	defer repo.Close()

	// Audio acquisition via yt-dlp
	dl := downloader.New(downloader.Config{
		BinPath: cfg.Download.BinPath,
		Timeout: cfg.Download.Timeout,
	})

	// Deepgram transcription provider
	provider := transcriber.NewDeepgram(transcriber.Config{
		APIKey:            cfg.Deepgram.APIKey,
		Model:             cfg.Deepgram.Model,
		Language:          cfg.Deepgram.Language,
		Timeout:           cfg.Deepgram.Timeout,
		RequestsPerMinute: cfg.Deepgram.RequestsPerMinute,
	})

	// Optional transcript archiving to object storage
	var archiver video.Archiver
	if cfg.Spaces.Configured() {
		spaces, err := storage.NewSpacesClient(cfg.Spaces)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		archiver = spaces
		logrus.Info("Transcript archiving enabled")
	}

	// Initialize video service
	videoService := video.NewService(repo, dl, provider, archiver, video.Config{
		AudioDir:      cfg.AudioDir,
		DefaultAPIKey: cfg.Deepgram.APIKey,
	})

	// Admin authentication
	authn := auth.NewAuthenticator(repo, auth.NewSessionStore(cfg.Admin.SessionTTL))
	if err := authn.SeedUser(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: !cfg.Debug,
		AppName:               "ytscribe " + cfg.Version,
	})

	setupMiddleware(app, cfg, accessLogConfig)
	setupRoutes(app, cfg, repo, videoService, authn)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		logrus.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			logrus.WithError(err).Error("Server shutdown error")
		}

		if err := repo.Close(); err != nil {
			logrus.WithError(err).Error("Repository shutdown error")
		}
	}()

	// Start server
	serverAddr := ":" + cfg.ServerPort
	if cfg.Debug {
		logrus.Infof("Server starting on http://localhost%s", serverAddr)
	}

	if err := app.Listen(serverAddr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func openRepository(cfg *config.Config) (repository.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.InitDB(postgres.Config{
			Host:     cfg.Database.PostgresHost,
			Port:     cfg.Database.PostgresPort,
			Database: cfg.Database.PostgresDB,
			User:     cfg.Database.PostgresUser,
			Password: cfg.Database.PostgresPassword,
			SSLMode:  cfg.Database.PostgresSSLMode,
		})
		if err != nil {
			return nil, err
		}
		logrus.Info("Using PostgreSQL storage backend")
		return postgres.NewRepository(db)
	default:
		db, err := sqlite.InitDB(sqlite.DefaultConfig(cfg.Database.Path))
		if err != nil {
			return nil, err
		}
		logrus.WithField("path", cfg.Database.Path).Info("Using SQLite storage backend")
		return sqlite.NewRepository(db)
	}
}

func setupMiddleware(app *fiber.App, cfg *config.Config, logConfig *fiberLogger.Config) {
	if cfg.Middleware.EnableRecover {
		app.Use(recover.New(recover.Config{
			EnableStackTrace: cfg.Debug,
		}))
	}

	if cfg.Middleware.EnableRequestID {
		app.Use(requestid.New(requestid.Config{
			Header: "X-Request-ID",
			Generator: func() string {
				return uuid.New().String()
			},
		}))
	}

	if cfg.Middleware.EnableLogger {
		app.Use(fiberLogger.New(*logConfig))
	}

	if cfg.Middleware.EnableTimeout {
		app.Use(timeout.New(func(c *fiber.Ctx) error {
			return c.Next()
		}, cfg.RequestTimeout))
	}

	if cfg.Middleware.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
			AllowMethods:     strings.Join(cfg.CORS.AllowedMethods, ","),
			AllowHeaders:     strings.Join(cfg.CORS.AllowedHeaders, ","),
			ExposeHeaders:    strings.Join(cfg.CORS.ExposedHeaders, ","),
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}

	if cfg.Middleware.EnableRateLimit && cfg.RateLimit.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.RequestsPerMinute,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded",
				})
			},
		}))
	}

	if cfg.Middleware.EnableCompress {
		app.Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))
	}

	if cfg.Middleware.EnableETag {
		app.Use(etag.New())
	}
}

func setupRoutes(
	app *fiber.App,
	cfg *config.Config,
	repo repository.Repository,
	videoService *video.Service,
	authn *auth.Authenticator,
) {
	videoHandler := handlers.NewVideoHandler(videoService)
	authHandler := handlers.NewAuthHandler(authn)
	adminHandler := handlers.NewAdminHandler(repo, videoService)

	// Public API. The transcribe endpoint optionally requires a shared
	// API key when one is configured.
	app.Post("/api/transcribe", middleware.RequireAPIKey(cfg.Admin.APIKey), videoHandler.Transcribe)
	app.Get("/api/videos/:id", videoHandler.GetVideo)

	app.Post("/api/login", authHandler.Login)
	app.Post("/api/logout", authHandler.Logout)

	// Dashboard endpoints behind the session guard
	admin := app.Group("/api/admin", middleware.RequireSession(authn.Sessions))
	admin.Get("/videos", adminHandler.ListVideos)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/settings/:key", adminHandler.GetSetting)
	admin.Put("/settings/:key", adminHandler.SetSetting)
	admin.Post("/videos/:id/reset", adminHandler.ResetVideo)

	// Health check
	app.Get("/health", handlers.HealthCheck)

	// Static admin dashboard
	app.Static("/", cfg.StaticDir)
}
