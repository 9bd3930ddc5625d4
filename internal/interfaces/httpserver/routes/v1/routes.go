package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/schmic75-gasos/fody/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")
	group.GET("/photos", r.handlers.Query.List)
	group.GET("/photos/own", r.handlers.Query.Own)
	group.GET("/photos/close", r.handlers.Query.Close)
	group.POST("/photos", r.handlers.Photo.Upload)
	group.POST("/photos/:id/location", r.handlers.Photo.Relocate)
	group.GET("/photos/:id/file", r.handlers.Photo.File)
	group.GET("/photos/:id/thumbnail", r.handlers.Photo.Thumbnail)
	group.GET("/tags", r.handlers.Taxonomy.List)
	group.GET("/session", r.handlers.Session.Check)
}
