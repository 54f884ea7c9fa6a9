package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"

	"github.com/justsurfingit/lead-scout/internal/dtos"
	"github.com/justsurfingit/lead-scout/internal/mapper"
	"github.com/justsurfingit/lead-scout/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(j *services.JobService) *JobHandler {
	return &JobHandler{JobService: j}
}

// Search is the POST /jobs/search endpoint
func (h *JobHandler) Search(c *gin.Context) {
	var req dtos.JobSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	view, err := h.JobService.Search(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusBadGateway, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// List is the GET /jobs endpoint
func (h *JobHandler) List(c *gin.Context) {
	var q dtos.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.JobService.View(q.Page))
}

// Saved is the GET /jobs/saved endpoint
func (h *JobHandler) Saved(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.JobService.Saved()})
}

// ToggleSaved is the POST /jobs/saved/toggle endpoint
func (h *JobHandler) ToggleSaved(c *gin.Context) {
	var req dtos.ToggleJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if req.ID == "" && req.SourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id or sourceUrl is required"})
		return
	}

	saved, err := h.JobService.ToggleSaved(c.Request.Context(), req.JobListing)
	switch {
	case eris.Is(err, services.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	case eris.Is(err, mapper.ErrInvalidJobLink):
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceUrl must be an http(s) link"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save job: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved, "jobs": h.JobService.Saved()})
}
