package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/schmic75-gasos/fody/internal/config"
	"github.com/schmic75-gasos/fody/internal/domain/photo"
	"github.com/schmic75-gasos/fody/internal/domain/taxonomy"
	"github.com/schmic75-gasos/fody/internal/infrastructure/auth"
	"github.com/schmic75-gasos/fody/internal/infrastructure/database"
	"github.com/schmic75-gasos/fody/internal/infrastructure/imaging"
	"github.com/schmic75-gasos/fody/internal/infrastructure/logger"
	"github.com/schmic75-gasos/fody/internal/infrastructure/observability"
	authorrepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/authors"
	noterepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/notes"
	photorepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/photos"
	tagrepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/tags"
	"github.com/schmic75-gasos/fody/internal/infrastructure/storage"
	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver"
	"github.com/schmic75-gasos/fody/internal/utils/exifmeta"
)

// @title Fody API
// @version 1.0
// @description Photo ingestion and spatial query service
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.Migrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	storageClient, err := provideStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	photoRepository := photorepo.NewRepository(db)
	authorRegistry := authorrepo.NewRepository(db)
	noteStore := noterepo.NewRepository(db)
	tagRepository := tagrepo.NewRepository(db)

	taxonomyService := taxonomy.NewService(tagRepository, log)
	thumbnailDeriver := imaging.NewDeriver(cfg.ThumbnailHeight, log)
	photoService := photo.NewService(cfg, photoRepository, authorRegistry, noteStore, taxonomyService, storageClient, thumbnailDeriver, exifmeta.Extractor{}, log)
	queryService := photo.NewQueryService(photoRepository, authorRegistry, log)

	httpServer := httpserver.New(cfg, log, photoService, queryService, taxonomyService, storageClient, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// provideStorage creates the appropriate storage backend based on configuration.
func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (photo.Storage, error) {
	if cfg.IsLocalStorage() {
		localStorage, err := storage.NewLocalStorage(cfg, log)
		if err != nil {
			return nil, err
		}
		return localStorage, nil
	}

	// Default to S3 storage
	s3Storage, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return s3Storage, nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
