package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver/responses"
)

// TaxonomyHandler serves the tag taxonomy.
type TaxonomyHandler struct {
	tags TagLister
	log  zerolog.Logger
}

func NewTaxonomyHandler(tags TagLister, log zerolog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		tags: tags,
		log:  log.With().Str("component", "taxonomy-handler").Logger(),
	}
}

// List godoc
// @Summary      List the tag taxonomy
// @Description  Returns every primary tag with its secondaries, ordered for display.
// @Tags         tags
// @Produce      json
// @Success      200  {array}  taxonomy.PrimaryTag
// @Router       /v1/tags [get]
func (h *TaxonomyHandler) List(c *gin.Context) {
	tree, err := h.tags.ListTree(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("taxonomy listing failed")
		responses.HandleError(c, err, "taxonomy unavailable")
		return
	}
	c.JSON(http.StatusOK, tree)
}
