package api

import (
	"github.com/gin-gonic/gin"

	"renderbot/jobs"
	"renderbot/render"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(proc *render.Processor, registry jobs.Registry) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	RegisterRenderRoutes(r, proc, registry)
	return r
}
