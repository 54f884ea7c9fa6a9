package views

import "github.com/justsurfingit/lead-scout/internal/models"

type StatusCount struct {
	Status models.LeadStatus `json:"status"`
	Count  int               `json:"count"`
}

// PipelineStats summarizes the pipeline for the insights dashboard.
type PipelineStats struct {
	TotalLeads    int           `json:"totalLeads"`
	PipelineValue float64       `json:"pipelineValue"`
	WonValue      float64       `json:"wonValue"`
	WonCount      int           `json:"wonCount"`
	SuccessRate   float64       `json:"successRate"`
	StatusCounts  []StatusCount `json:"statusCounts"`
}

// Summarize computes totals over deal amounts and a per-status breakdown in
// status declaration order. SuccessRate is the percentage of Won leads.
func Summarize(leads []models.CRMLead) PipelineStats {
	counts := make(map[models.LeadStatus]int, len(models.LeadStatuses))
	stats := PipelineStats{TotalLeads: len(leads)}

	for _, l := range leads {
		counts[l.Status]++
		stats.PipelineValue += l.DealAmount
		if l.Status == models.StatusWon {
			stats.WonValue += l.DealAmount
			stats.WonCount++
		}
	}

	if len(leads) > 0 {
		stats.SuccessRate = float64(stats.WonCount) / float64(len(leads)) * 100
	}

	stats.StatusCounts = make([]StatusCount, 0, len(models.LeadStatuses))
	for _, s := range models.LeadStatuses {
		stats.StatusCounts = append(stats.StatusCounts, StatusCount{Status: s, Count: counts[s]})
	}
	return stats
}
