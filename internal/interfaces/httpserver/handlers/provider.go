package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/config"
	domain "github.com/schmic75-gasos/fody/internal/domain/photo"
	"github.com/schmic75-gasos/fody/internal/domain/taxonomy"
)

// SessionGate resolves the caller's identity. Absence is a normal outcome;
// each handler decides whether it is fatal.
type SessionGate interface {
	Identity(c *gin.Context) (string, bool)
}

// PhotoService is the ingestion side of the photo domain.
type PhotoService interface {
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.Photo, error)
	Relocate(ctx context.Context, req domain.RelocateRequest) error
	Download(ctx context.Context, id uint) (io.ReadCloser, string, error)
	DownloadThumbnail(ctx context.Context, id uint) (io.ReadCloser, string, error)
}

// PhotoQueries is the read side of the photo domain.
type PhotoQueries interface {
	List(ctx context.Context, filter domain.SearchFilter) (domain.FeatureCollection, error)
	Near(ctx context.Context, lat, lon, radiusMeters float64, filter domain.SearchFilter) (domain.FeatureCollection, error)
	Own(ctx context.Context, identity string, filter domain.SearchFilter) (domain.FeatureCollection, error)
}

// TagLister exposes the taxonomy tree.
type TagLister interface {
	ListTree(ctx context.Context) ([]taxonomy.PrimaryTag, error)
}

// Provider wires HTTP handlers.
type Provider struct {
	Photo    *PhotoHandler
	Query    *QueryHandler
	Taxonomy *TaxonomyHandler
	Session  *SessionHandler
}

func NewProvider(cfg *config.Config, service PhotoService, queries PhotoQueries, tags TagLister, gate SessionGate, log zerolog.Logger) *Provider {
	return &Provider{
		Photo:    NewPhotoHandler(cfg, service, gate, log),
		Query:    NewQueryHandler(queries, gate, log),
		Taxonomy: NewTaxonomyHandler(tags, log),
		Session:  NewSessionHandler(gate),
	}
}
