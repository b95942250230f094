package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"renderbot/jobs"
	"renderbot/render"
	"renderbot/types"
)

// RenderResponse is the immediate acceptance reply; the render itself runs
// asynchronously after it is sent.
type RenderResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}

// RegisterRenderRoutes registers the render submission and status endpoints.
func RegisterRenderRoutes(r *gin.Engine, proc *render.Processor, registry jobs.Registry) {
	r.POST("/render", handleRender(proc))
	r.GET("/render/:id", handleRenderStatus(registry))
}

// handleRender accepts a render request and queues it as a background job.
// POST /render
func handleRender(proc *render.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		// transitions/colorGrade default to enabled when omitted, matching
		// the request contract; both are recorded but not yet wired into
		// the encode step.
		req := types.RenderRequest{Transitions: true, ColorGrade: true}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if len(req.VideoClips) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "videoClips must not be empty"})
			return
		}

		jobID, err := proc.Submit(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept render: " + err.Error()})
			return
		}

		log.Printf("[job %s] accepted render request: %q (%d clips)", jobID, req.Title, len(req.VideoClips))

		c.JSON(http.StatusAccepted, RenderResponse{Status: "processing", JobID: jobID})
	}
}

// handleRenderStatus returns the job record for a previously accepted render.
// GET /render/:id
func handleRenderStatus(registry jobs.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := registry.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, job)
	}
}
