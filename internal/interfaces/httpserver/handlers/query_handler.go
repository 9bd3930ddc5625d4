package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/infrastructure/metrics"
	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver/requests"
	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver/responses"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// QueryHandler exposes the spatial read endpoints.
type QueryHandler struct {
	queries PhotoQueries
	gate    SessionGate
	log     zerolog.Logger
}

func NewQueryHandler(queries PhotoQueries, gate SessionGate, log zerolog.Logger) *QueryHandler {
	return &QueryHandler{
		queries: queries,
		gate:    gate,
		log:     log.With().Str("component", "query-handler").Logger(),
	}
}

// List godoc
// @Summary      Browse photos
// @Description  Lists photos as a GeoJSON feature collection. Filters (bbox, id, limit) are ANDed; malformed filter values are ignored.
// @Tags         photos
// @Produce      json
// @Param        bbox      query  string  false  "west,south,east,north"
// @Param        id        query  int     false  "Single photo id"
// @Param        limit     query  int     false  "Maximum number of features"
// @Param        disabled  query  bool    false  "Include disabled photos"
// @Success      200  {object}  photo.FeatureCollection
// @Router       /v1/photos [get]
func (h *QueryHandler) List(c *gin.Context) {
	metrics.RecordQuery("list")

	fc, err := h.queries.List(c.Request.Context(), requests.ParseSearchFilter(c))
	if err != nil {
		h.log.Error().Err(err).Msg("list query failed")
		responses.HandleError(c, err, "query failed")
		return
	}
	c.JSON(http.StatusOK, fc)
}

// Own godoc
// @Summary      Browse own photos
// @Description  Like the listing, restricted to the caller's photos. Without a session the collection is empty.
// @Tags         photos
// @Produce      json
// @Param        bbox      query  string  false  "west,south,east,north"
// @Param        limit     query  int     false  "Maximum number of features"
// @Success      200  {object}  photo.FeatureCollection
// @Security     ApiKeyAuth
// @Router       /v1/photos/own [get]
func (h *QueryHandler) Own(c *gin.Context) {
	metrics.RecordQuery("own")

	identity, _ := h.gate.Identity(c)
	fc, err := h.queries.Own(c.Request.Context(), identity, requests.ParseSearchFilter(c))
	if err != nil {
		h.log.Error().Err(err).Msg("own query failed")
		responses.HandleError(c, err, "query failed")
		return
	}
	c.JSON(http.StatusOK, fc)
}

// Close godoc
// @Summary      Find photos near a point
// @Description  Returns photos within the given distance of the center, ordered by ascending distance. Each feature carries its distance in meters.
// @Tags         photos
// @Produce      json
// @Param        lat       query  number  true  "Center latitude"
// @Param        lon       query  number  true  "Center longitude"
// @Param        distance  query  number  true  "Radius in meters"
// @Param        limit     query  int     false "Maximum number of features"
// @Success      200  {object}  photo.FeatureCollection
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/photos/close [get]
func (h *QueryHandler) Close(c *gin.Context) {
	metrics.RecordQuery("close")

	lat, lon, distance, err := requests.ParseCloseArgs(c)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "")
		return
	}

	fc, err := h.queries.Near(c.Request.Context(), lat, lon, distance, requests.ParseSearchFilter(c))
	if err != nil {
		h.log.Error().Err(err).Msg("close query failed")
		responses.HandleError(c, err, "query failed")
		return
	}
	c.JSON(http.StatusOK, fc)
}
