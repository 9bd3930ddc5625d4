package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver/responses"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// SessionHandler answers the "who am I" check clients use before uploading.
type SessionHandler struct {
	gate SessionGate
}

func NewSessionHandler(gate SessionGate) *SessionHandler {
	return &SessionHandler{gate: gate}
}

// Check godoc
// @Summary      Check the current session
// @Description  Returns the caller's identity as plain text, or 401 without a valid session.
// @Tags         session
// @Produce      plain
// @Success      200  {string}  string
// @Failure      401  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/session [get]
func (h *SessionHandler) Check(c *gin.Context) {
	identity, ok := h.gate.Identity(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "not authenticated", "")
		return
	}
	c.String(http.StatusOK, identity)
}
