// Package views computes the derived projections the dashboard renders:
// filtered record sets, tiering, pagination windows, saved flags and
// pipeline statistics. Every function is pure.
package views

import (
	"strings"

	"github.com/justsurfingit/lead-scout/internal/models"
)

// Tier thresholds on the quality score.
const (
	TierAThreshold = 15.0
	TierBThreshold = 8.0
)

// GapCount returns the number of digital-presence gaps flagged for o.
func GapCount(o models.BusinessOpportunity) int {
	return o.Needs.Count()
}

// QualityScore is revenue in units of 100k plus two points per gap.
func QualityScore(o models.BusinessOpportunity) float64 {
	return o.EstimatedRevenue/100000 + float64(GapCount(o)*2)
}

// Tier classifies o as A-Tier, B-Tier or C-Tier by quality score.
func Tier(o models.BusinessOpportunity) string {
	qs := QualityScore(o)
	switch {
	case qs >= TierAThreshold:
		return models.TierA
	case qs >= TierBThreshold:
		return models.TierB
	default:
		return models.TierC
	}
}

// MatchesIntensity applies the gap intensity bands:
//
//	High   gapCount >= 3
//	Medium gapCount 2 or 3
//	Low    gapCount <= 1
//
// High and Medium overlap at 3; Low never overlaps Medium.
func MatchesIntensity(gapCount int, intensity string) bool {
	switch intensity {
	case models.IntensityHigh:
		return gapCount >= 3
	case models.IntensityMedium:
		return gapCount >= 2 && gapCount <= 3
	case models.IntensityLow:
		return gapCount <= 1
	}
	return true
}

// Intensity returns the strongest band gapCount falls into.
func Intensity(gapCount int) string {
	switch {
	case gapCount >= 3:
		return models.IntensityHigh
	case gapCount == 2:
		return models.IntensityMedium
	default:
		return models.IntensityLow
	}
}

// Matches reports whether o passes every set clause of f. The status
// clause is ignored here; see MatchesLead.
func Matches(o models.BusinessOpportunity, f models.FilterState) bool {
	if f.MinRevenue > 0 && o.EstimatedRevenue < f.MinRevenue {
		return false
	}

	gaps := GapCount(o)
	if f.GapIntensity != "" && !MatchesIntensity(gaps, f.GapIntensity) {
		return false
	}

	switch f.LeadQuality {
	case models.TierA:
		if QualityScore(o) < TierAThreshold {
			return false
		}
	case models.TierB:
		qs := QualityScore(o)
		if qs < TierBThreshold || qs >= TierAThreshold {
			return false
		}
	}

	if f.Location != "" && !strings.Contains(strings.ToLower(o.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.BusinessSize != "" && o.BusinessSize != f.BusinessSize {
		return false
	}
	return true
}

// MatchesLead is Matches plus the pipeline status clause.
func MatchesLead(l models.CRMLead, f models.FilterState) bool {
	if f.LeadStatus != "" && l.Status != f.LeadStatus {
		return false
	}
	return Matches(l.BusinessOpportunity, f)
}

// Filter returns the opportunities passing f, in input order.
func Filter(opps []models.BusinessOpportunity, f models.FilterState) []models.BusinessOpportunity {
	out := make([]models.BusinessOpportunity, 0, len(opps))
	for _, o := range opps {
		if Matches(o, f) {
			out = append(out, o)
		}
	}
	return out
}

// FilterLeads returns the pipeline leads passing f, in input order.
func FilterLeads(leads []models.CRMLead, f models.FilterState) []models.CRMLead {
	out := make([]models.CRMLead, 0, len(leads))
	for _, l := range leads {
		if MatchesLead(l, f) {
			out = append(out, l)
		}
	}
	return out
}
