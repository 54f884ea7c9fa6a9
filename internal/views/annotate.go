package views

import (
	"strings"

	"github.com/justsurfingit/lead-scout/internal/mapper"
	"github.com/justsurfingit/lead-scout/internal/models"
)

// LeadView is a search result as rendered on a lead card.
type LeadView struct {
	models.BusinessOpportunity
	GapCount     int     `json:"gapCount"`
	GapIntensity string  `json:"gapIntensity"`
	QualityScore float64 `json:"qualityScore"`
	Tier         string  `json:"tier"`
	HasWebsite   bool    `json:"hasWebsite"`
	Saved        bool    `json:"saved"`
}

// AnnotateLead derives the card fields for o against the current pipeline.
func AnnotateLead(o models.BusinessOpportunity, pipeline []models.CRMLead) LeadView {
	gaps := GapCount(o)
	return LeadView{
		BusinessOpportunity: o,
		GapCount:            gaps,
		GapIntensity:        Intensity(gaps),
		QualityScore:        QualityScore(o),
		Tier:                Tier(o),
		HasWebsite:          HasWebsite(o),
		Saved:               IsLeadSaved(pipeline, o),
	}
}

// PipelineLeadView is a pipeline row with its derived fields.
type PipelineLeadView struct {
	models.CRMLead
	GapCount     int     `json:"gapCount"`
	QualityScore float64 `json:"qualityScore"`
	Tier         string  `json:"tier"`
	NextStatus   string  `json:"nextStatus"`
}

func AnnotatePipelineLead(l models.CRMLead) PipelineLeadView {
	return PipelineLeadView{
		CRMLead:      l,
		GapCount:     GapCount(l.BusinessOpportunity),
		QualityScore: QualityScore(l.BusinessOpportunity),
		Tier:         Tier(l.BusinessOpportunity),
		NextStatus:   string(l.Status.Next()),
	}
}

// JobView is a job card with its saved flag.
type JobView struct {
	models.JobListing
	Saved bool `json:"saved"`
}

func AnnotateJob(j models.JobListing, saved []models.JobListing) JobView {
	return JobView{JobListing: j, Saved: IsJobSaved(saved, j)}
}

// HasWebsite reports whether o carries a usable website value.
func HasWebsite(o models.BusinessOpportunity) bool {
	return !mapper.IsUnknown(o.Website)
}

// FormatURL turns a bare host or path into a linkable https URL. Unknown
// values format to the empty string.
func FormatURL(v string) string {
	if mapper.IsUnknown(v) {
		return ""
	}
	v = strings.TrimSpace(v)
	if strings.HasPrefix(strings.ToLower(v), "http") {
		return v
	}
	return "https://" + v
}
