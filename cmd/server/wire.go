//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/schmic75-gasos/fody/internal/config"
	"github.com/schmic75-gasos/fody/internal/domain/photo"
	"github.com/schmic75-gasos/fody/internal/domain/taxonomy"
	"github.com/schmic75-gasos/fody/internal/infrastructure/auth"
	"github.com/schmic75-gasos/fody/internal/infrastructure/database"
	"github.com/schmic75-gasos/fody/internal/infrastructure/imaging"
	"github.com/schmic75-gasos/fody/internal/infrastructure/logger"
	authorrepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/authors"
	noterepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/notes"
	photorepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/photos"
	tagrepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/tags"
	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver"
	"github.com/schmic75-gasos/fody/internal/utils/exifmeta"
)

var photoSet = wire.NewSet(
	photorepo.NewRepository,
	wire.Bind(new(photo.Repository), new(*photorepo.Repository)),
	authorrepo.NewRepository,
	wire.Bind(new(photo.AuthorRegistry), new(*authorrepo.Repository)),
	noterepo.NewRepository,
	wire.Bind(new(photo.NoteStore), new(*noterepo.Repository)),
	tagrepo.NewRepository,
	wire.Bind(new(taxonomy.Repository), new(*tagrepo.Repository)),
	taxonomy.NewService,
	wire.Bind(new(photo.TagCatalog), new(*taxonomy.Service)),
	provideDeriver,
	wire.Bind(new(photo.ThumbnailDeriver), new(*imaging.Deriver)),
	provideExtractor,
	provideStorage,
	photo.NewService,
	photo.NewQueryService,
)

// BuildApplication assembles the service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		photoSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func provideDeriver(cfg *config.Config, log zerolog.Logger) *imaging.Deriver {
	return imaging.NewDeriver(cfg.ThumbnailHeight, log)
}

func provideExtractor() photo.MetadataExtractor {
	return exifmeta.Extractor{}
}
