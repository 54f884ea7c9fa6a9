package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/dtos"
	"github.com/justsurfingit/lead-scout/internal/export"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/pipeline"
	"github.com/justsurfingit/lead-scout/internal/services"
)

type PipelineHandler struct {
	PipelineService *services.PipelineService
	Now             func() time.Time
}

func NewPipelineHandler(p *services.PipelineService) *PipelineHandler {
	return &PipelineHandler{PipelineService: p, Now: time.Now}
}

// List is the GET /pipeline endpoint. Filters come from the query string.
func (h *PipelineHandler) List(c *gin.Context) {
	var f models.FilterState
	var q dtos.PageQuery
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters: " + err.Error()})
		return
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.PipelineService.List(f, q.Page))
}

// Add is the POST /pipeline endpoint
func (h *PipelineHandler) Add(c *gin.Context) {
	var req dtos.AddLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	var (
		lead  models.CRMLead
		added bool
		err   error
	)
	switch {
	case req.Opportunity != nil:
		lead, added, err = h.PipelineService.Add(c.Request.Context(), *req.Opportunity)
	case req.ID != "":
		lead, added, err = h.PipelineService.AddFromSearch(c.Request.Context(), req.ID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "id or opportunity is required"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"added": added, "lead": lead})
}

// UpdateStatus is the PATCH /pipeline/:id endpoint
func (h *PipelineHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	status, ok := models.ParseLeadStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + req.Status})
		return
	}

	lead, err := h.PipelineService.UpdateStatus(c.Request.Context(), c.Param("id"), status, req.DealAmount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Advance is the POST /pipeline/:id/advance endpoint
func (h *PipelineHandler) Advance(c *gin.Context) {
	lead, err := h.PipelineService.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Delete is the DELETE /pipeline/:id endpoint. It requires ?confirm=true.
func (h *PipelineHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	if err := h.PipelineService.Delete(c.Request.Context(), c.Param("id"), confirmed); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export is the GET /pipeline/export endpoint
func (h *PipelineHandler) Export(c *gin.Context) {
	var q dtos.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(h.Now())+`"`)
	c.Status(http.StatusOK)
	if err := h.PipelineService.Export(c.Writer, q.List()); err != nil {
		zap.L().Error("csv export failed", zap.Error(err))
	}
}

// Stats is the GET /pipeline/stats endpoint
func (h *PipelineHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.PipelineService.Stats())
}

func (h *PipelineHandler) fail(c *gin.Context, err error) {
	switch {
	case eris.Is(err, services.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
	case eris.Is(err, pipeline.ErrConfirmationRequired):
		c.JSON(http.StatusConflict, gin.H{"error": "Deletion must be confirmed with ?confirm=true"})
	case eris.Is(err, pipeline.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		zap.L().Error("pipeline request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pipeline update failed: " + err.Error()})
	}
}
