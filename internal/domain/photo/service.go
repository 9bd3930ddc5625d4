package photo

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/config"
	"github.com/schmic75-gasos/fody/internal/utils/geodesy"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// minCaptureYear rejects capture timestamps from cameras with unset clocks.
const minCaptureYear = 2000

// ErrDuplicate is returned by Repository.Create when the content hash
// collides with an existing photo.
var ErrDuplicate = errors.New("photo: duplicate content hash")

// Repository defines persistence operations needed by the service.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*Photo, error)
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id uint) (*Photo, error)
	UpdateLocation(ctx context.Context, id uint, lat, lon float64) error
	Search(ctx context.Context, filter SearchFilter) ([]Photo, error)
}

// AuthorRegistry maps identity names to numeric author ids.
type AuthorRegistry interface {
	GetOrCreate(ctx context.Context, name string) (uint, error)
	Lookup(ctx context.Context, name string) (uint, bool, error)
}

// NoteStore appends free-form uploader comments to photos.
type NoteStore interface {
	Append(ctx context.Context, photoID, authorID uint, body string) error
}

// TagCatalog validates classification against the taxonomy.
type TagCatalog interface {
	IsPrimary(ctx context.Context, name string) (bool, error)
	FilterSecondaries(ctx context.Context, primary string, names []string) ([]string, error)
}

// Storage defines photo storage operations.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Health(ctx context.Context) error
}

// ThumbnailDeriver produces the scaled derivative of an original.
type ThumbnailDeriver interface {
	Derive(ctx context.Context, original []byte) ([]byte, error)
}

// MetadataExtractor reads capture time and GPS position from photo bytes.
type MetadataExtractor interface {
	CaptureTime(data []byte) (time.Time, error)
	Location(data []byte) (float64, float64, error)
}

// Service orchestrates photo ingestion, relocation and retrieval.
type Service struct {
	cfg     *config.Config
	repo    Repository
	authors AuthorRegistry
	notes   NoteStore
	tags    TagCatalog
	storage Storage
	thumbs  ThumbnailDeriver
	meta    MetadataExtractor
	log     zerolog.Logger
}

func NewService(
	cfg *config.Config,
	repo Repository,
	authors AuthorRegistry,
	notes NoteStore,
	tags TagCatalog,
	storage Storage,
	thumbs ThumbnailDeriver,
	meta MetadataExtractor,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		authors: authors,
		notes:   notes,
		tags:    tags,
		storage: storage,
		thumbs:  thumbs,
		meta:    meta,
		log:     log.With().Str("component", "photo-service").Logger(),
	}
}

// Ingest runs one upload through the validation pipeline and stores it.
// The steps short-circuit in a fixed order so clients always get the same
// rejection for the same payload.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*Photo, error) {
	if req.Identity == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "upload requires an authenticated identity", nil, "")
	}

	if req.PrimaryTag == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "primary tag is required", nil, "")
	}
	isPrimary, err := s.tags.IsPrimary(ctx, req.PrimaryTag)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "resolve primary tag", err, "")
	}
	if !isPrimary {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "unknown primary tag", nil, "",
			map[string]any{"tag": req.PrimaryTag})
	}

	authorID, err := s.authors.GetOrCreate(ctx, req.Identity)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "resolve author", err, "")
	}

	size := int64(len(req.Data))
	if size == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUploadFailed, "uploaded file is empty", nil, "")
	}
	if size < s.cfg.PhotoMinBytes {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypePayloadTooSmall,
			fmt.Sprintf("file smaller than %d bytes", s.cfg.PhotoMinBytes), nil, "",
			map[string]any{"bytes": size})
	}
	if size > s.cfg.PhotoMaxBytes {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUploadFailed,
			fmt.Sprintf("file exceeds max size of %d bytes", s.cfg.PhotoMaxBytes), nil, "",
			map[string]any{"bytes": size})
	}

	sum := sha256.Sum256(req.Data)
	hash := fmt.Sprintf("%x", sum[:])

	if existing, err := s.repo.FindByHash(ctx, hash); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "dedup lookup", err, "")
	} else if existing != nil {
		return nil, s.duplicateError(ctx, existing.ID)
	}

	if mime := mimetype.Detect(req.Data); !mime.Is("image/jpeg") {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnsupportedFormat, "only JPEG photos are accepted", nil, "",
			map[string]any{"mime": mime.String()})
	}

	created, err := s.meta.CaptureTime(req.Data)
	if err != nil || created.Year() < minCaptureYear {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeMissingCaptureDate, "photo has no usable capture date", err, "")
	}

	lat, lon := req.Lat, req.Lon
	if lat == 0 && lon == 0 {
		lat, lon, err = s.meta.Location(req.Data)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeMissingCoordinates, "no coordinates supplied and none embedded", err, "")
		}
	}
	if !geodesy.ValidLat(lat) || !geodesy.ValidLon(lon) {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidCoordinates, "coordinates out of range", nil, "",
			map[string]any{"lat": lat, "lon": lon})
	}

	secondaries, err := s.tags.FilterSecondaries(ctx, req.PrimaryTag, req.SecondaryTags)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "resolve secondary tags", err, "")
	}

	p := &Photo{
		AuthorID:   authorID,
		AuthorName: req.Identity,
		FileName:   req.FileName,
		Ref:        SanitizeRef(req.Ref),
		Tags:       TagSet{Primary: req.PrimaryTag, Secondaries: secondaries},
		Created:    created,
		Lat:        lat,
		Lon:        lon,
		Csum:       hash,
		Enabled:    true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the insert race; resolve the winner's id.
			if existing, findErr := s.repo.FindByHash(ctx, hash); findErr == nil && existing != nil {
				return nil, s.duplicateError(ctx, existing.ID)
			}
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeDuplicateContent, "photo already uploaded", err, "")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "insert photo", err, "")
	}

	if err := s.storage.Upload(ctx, OriginalKey(p.ID), bytes.NewReader(req.Data), size, "image/jpeg"); err != nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeStorageFailure, "store original", err, "",
			map[string]any{"photo_id": p.ID})
	}

	s.deriveThumbnail(ctx, p.ID, req.Data)

	if req.Note != "" {
		if err := s.notes.Append(ctx, p.ID, authorID, req.Note); err != nil {
			s.log.Warn().Err(err).Uint("photo_id", p.ID).Msg("append note failed")
		}
	}

	return p, nil
}

// Relocate moves a photo to corrected coordinates. Only the original author
// may relocate.
func (s *Service) Relocate(ctx context.Context, req RelocateRequest) error {
	if req.Identity == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "relocation requires an authenticated identity", nil, "")
	}
	if !geodesy.ValidLat(req.Lat) || !geodesy.ValidLon(req.Lon) {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidCoordinates, "coordinates out of range", nil, "",
			map[string]any{"lat": req.Lat, "lon": req.Lon})
	}

	p, err := s.repo.GetByID(ctx, req.PhotoID)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "load photo", err, "")
	}
	if p == nil {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "photo not found", nil, "",
			map[string]any{"photo_id": req.PhotoID})
	}

	authorID, ok, err := s.authors.Lookup(ctx, req.Identity)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "resolve author", err, "")
	}
	if !ok || authorID != p.AuthorID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "only the original author may relocate a photo", nil, "")
	}

	if err := s.repo.UpdateLocation(ctx, req.PhotoID, req.Lat, req.Lon); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "update location", err, "")
	}

	if req.Note != "" {
		if err := s.notes.Append(ctx, req.PhotoID, authorID, req.Note); err != nil {
			s.log.Warn().Err(err).Uint("photo_id", req.PhotoID).Msg("append note failed")
		}
	}

	return nil
}

// Download fetches the original photo bytes for proxying.
func (s *Service) Download(ctx context.Context, id uint) (io.ReadCloser, string, error) {
	return s.download(ctx, id, OriginalKey(id))
}

// DownloadThumbnail fetches the 250px derivative for proxying.
func (s *Service) DownloadThumbnail(ctx context.Context, id uint) (io.ReadCloser, string, error) {
	return s.download(ctx, id, ThumbnailKey(id))
}

func (s *Service) download(ctx context.Context, id uint, key string) (io.ReadCloser, string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "load photo", err, "")
	}
	if p == nil {
		return nil, "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "photo not found", nil, "",
			map[string]any{"photo_id": id})
	}

	reader, mime, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeStorageFailure, "fetch photo bytes", err, "",
			map[string]any{"photo_id": id})
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return reader, mime, nil
}

func (s *Service) duplicateError(ctx context.Context, existingID uint) *platformerrors.PlatformError {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeDuplicateContent, "photo already uploaded", nil, "",
		map[string]any{"photo_id": existingID})
}

// deriveThumbnail runs under its own bounded deadline; a failed derivative
// never fails the upload.
func (s *Service) deriveThumbnail(ctx context.Context, id uint, data []byte) {
	thumbCtx, cancel := context.WithTimeout(ctx, s.cfg.ThumbnailTimeout)
	defer cancel()

	thumb, err := s.thumbs.Derive(thumbCtx, data)
	if err != nil {
		s.log.Warn().Err(err).Uint("photo_id", id).Msg("thumbnail derivation failed")
		return
	}
	if err := s.storage.Upload(thumbCtx, ThumbnailKey(id), bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
		s.log.Warn().Err(err).Uint("photo_id", id).Msg("thumbnail upload failed")
	}
}
