package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/lead-scout/internal/dtos"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/services"
)

type LeadHandler struct {
	LeadService *services.LeadService
}

func NewLeadHandler(l *services.LeadService) *LeadHandler {
	return &LeadHandler{LeadService: l}
}

// Search is the POST /leads/search endpoint. A provider failure answers
// 502 with the unchanged previous results and a notice.
func (h *LeadHandler) Search(c *gin.Context) {
	var req dtos.LeadSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	view, err := h.LeadService.Search(c.Request.Context(), req.Query, req.Location())
	if err != nil {
		c.JSON(http.StatusBadGateway, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// List is the GET /leads endpoint
func (h *LeadHandler) List(c *gin.Context) {
	var q dtos.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.LeadService.View(q.Page))
}

// SetFilters is the PUT /leads/filters endpoint
func (h *LeadHandler) SetFilters(c *gin.Context) {
	var f models.FilterState
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.LeadService.SetFilters(f))
}
