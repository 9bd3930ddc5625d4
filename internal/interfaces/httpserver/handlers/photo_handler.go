package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/config"
	domain "github.com/schmic75-gasos/fody/internal/domain/photo"
	"github.com/schmic75-gasos/fody/internal/infrastructure/metrics"
	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver/requests"
	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver/responses"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// PhotoHandler exposes the upload, relocation and streaming endpoints.
type PhotoHandler struct {
	cfg     *config.Config
	service PhotoService
	gate    SessionGate
	log     zerolog.Logger
}

func NewPhotoHandler(cfg *config.Config, service PhotoService, gate SessionGate, log zerolog.Logger) *PhotoHandler {
	return &PhotoHandler{
		cfg:     cfg,
		service: service,
		gate:    gate,
		log:     log.With().Str("component", "photo-handler").Logger(),
	}
}

type uploadResponse struct {
	Status int  `json:"status"`
	ID     uint `json:"id"`
}

type relocateResponse struct {
	Status int `json:"status"`
}

// Upload godoc
// @Summary      Upload a photo
// @Description  Accepts a JPEG, validates capture metadata and stores it with its thumbnail.
// @Tags         photos
// @Accept       multipart/form-data
// @Produce      json
// @Param        uploadedfile  formData  file    true   "JPEG photo"
// @Param        lat           formData  number  false  "Latitude; omit to use embedded GPS"
// @Param        lon           formData  number  false  "Longitude; omit to use embedded GPS"
// @Param        gp_type       formData  string  true   "Primary tag"
// @Param        gp_content    formData  []string false "Secondary tags"  collectionFormat(multi)
// @Param        ref           formData  string  false  "Reference code"
// @Param        note          formData  string  false  "Free-form note"
// @Success      200  {object}  uploadResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Failure      415  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/photos [post]
func (h *PhotoHandler) Upload(c *gin.Context) {
	identity, _ := h.gate.Identity(c)

	lat, err := requests.ParseCoordinate(c.PostForm("lat"))
	if err != nil {
		h.rejectUpload(c, platformerrors.ErrorTypeValidation, "lat must be numeric")
		return
	}
	lon, err := requests.ParseCoordinate(c.PostForm("lon"))
	if err != nil {
		h.rejectUpload(c, platformerrors.ErrorTypeValidation, "lon must be numeric")
		return
	}

	file, header, err := c.Request.FormFile("uploadedfile")
	if err != nil {
		h.rejectUpload(c, platformerrors.ErrorTypeUploadFailed, "uploadedfile is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.PhotoMaxBytes+1))
	if err != nil {
		h.rejectUpload(c, platformerrors.ErrorTypeUploadFailed, "failed to read uploaded file")
		return
	}

	req := domain.IngestRequest{
		Identity:      identity,
		FileName:      header.Filename,
		Data:          data,
		Lat:           lat,
		Lon:           lon,
		PrimaryTag:    c.PostForm("gp_type"),
		SecondaryTags: c.PostFormArray("gp_content"),
		Ref:           c.PostForm("ref"),
		Note:          c.PostForm("note"),
	}

	p, err := h.service.Ingest(c.Request.Context(), req)
	if err != nil {
		h.log.Warn().Err(err).Str("identity", identity).Msg("upload rejected")
		metrics.RecordUpload("rejected", rejectionReason(err), 0)
		responses.HandleError(c, err, "upload failed")
		return
	}

	metrics.RecordUpload("success", "", int64(len(data)))
	c.JSON(http.StatusOK, uploadResponse{Status: 1, ID: p.ID})
}

// Relocate godoc
// @Summary      Move a photo
// @Description  Updates the coordinates of an own photo and optionally records a note.
// @Tags         photos
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int     true   "Photo id"
// @Param        lat   formData  number  true   "Corrected latitude"
// @Param        lon   formData  number  true   "Corrected longitude"
// @Param        note  formData  string  false  "Free-form note"
// @Success      200  {object}  relocateResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/photos/{id}/location [post]
func (h *PhotoHandler) Relocate(c *gin.Context) {
	identity, _ := h.gate.Identity(c)

	id, err := parsePhotoID(c)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "id must be a positive integer", "")
		return
	}

	lat, err := strconv.ParseFloat(c.PostForm("lat"), 64)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "lat is required and must be numeric", "")
		return
	}
	lon, err := strconv.ParseFloat(c.PostForm("lon"), 64)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "lon is required and must be numeric", "")
		return
	}

	err = h.service.Relocate(c.Request.Context(), domain.RelocateRequest{
		Identity: identity,
		PhotoID:  id,
		Lat:      lat,
		Lon:      lon,
		Note:     c.PostForm("note"),
	})
	if err != nil {
		h.log.Warn().Err(err).Uint("photo_id", id).Msg("relocation rejected")
		responses.HandleError(c, err, "relocation failed")
		return
	}

	c.JSON(http.StatusOK, relocateResponse{Status: 1})
}

// File godoc
// @Summary      Stream the original photo
// @Tags         photos
// @Produce      jpeg
// @Param        id  path  int  true  "Photo id"
// @Success      200  "binary data"
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/photos/{id}/file [get]
func (h *PhotoHandler) File(c *gin.Context) {
	h.stream(c, h.service.Download)
}

// Thumbnail godoc
// @Summary      Stream the 250px derivative
// @Tags         photos
// @Produce      jpeg
// @Param        id  path  int  true  "Photo id"
// @Success      200  "binary data"
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/photos/{id}/thumbnail [get]
func (h *PhotoHandler) Thumbnail(c *gin.Context) {
	h.stream(c, h.service.DownloadThumbnail)
}

func (h *PhotoHandler) stream(c *gin.Context, fetch func(ctx context.Context, id uint) (io.ReadCloser, string, error)) {
	id, err := parsePhotoID(c)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "id must be a positive integer", "")
		return
	}

	reader, mime, err := fetch(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "photo not available")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", mime)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.log.Error().Err(err).Uint("photo_id", id).Msg("stream error")
	}
}

func parsePhotoID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid photo id")
	}
	return uint(id), nil
}

func (h *PhotoHandler) rejectUpload(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	metrics.RecordUpload("rejected", string(errorType), 0)
	responses.HandleNewError(c, errorType, message, "")
}

func rejectionReason(err error) string {
	var perr *platformerrors.PlatformError
	if errors.As(err, &perr) {
		return string(perr.GetErrorType())
	}
	return string(platformerrors.ErrorTypeInternal)
}
