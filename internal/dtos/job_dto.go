package dtos

import (
	"strings"

	"github.com/justsurfingit/lead-scout/internal/models"
)

type LeadSearchRequest struct {
	Query string `json:"query" binding:"required"`

	// Optional explicit position; overrides the startup geolocation.
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Location returns the explicit position, or nil when either coordinate is
// missing.
func (r LeadSearchRequest) Location() *models.Coordinates {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &models.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type JobSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

type PageQuery struct {
	Page int `form:"page" binding:"min=0"`
}

// AddLeadRequest commits either a current search result by id or a full
// opportunity.
type AddLeadRequest struct {
	ID          string                      `json:"id"`
	Opportunity *models.BusinessOpportunity `json:"opportunity"`
}

type StatusUpdateRequest struct {
	Status     string   `json:"status" binding:"required"`
	DealAmount *float64 `json:"dealAmount" binding:"omitempty,min=0"`
}

// ToggleJobRequest names a job by id or carries the full listing.
type ToggleJobRequest struct {
	models.JobListing
}

type ExportQuery struct {
	IDs string `form:"ids"`
}

// List splits the comma-separated ids, dropping blanks.
func (q ExportQuery) List() []string {
	var out []string
	for _, id := range strings.Split(q.IDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
