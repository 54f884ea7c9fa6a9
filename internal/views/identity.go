package views

import "github.com/justsurfingit/lead-scout/internal/models"

// LeadKey identifies a business across provider calls. It is a heuristic,
// not a primary key: provider ids are not stable between repeated queries,
// so two records are the same business when their ids match OR their
// name and location match exactly. Empty fields never match.
type LeadKey struct {
	ID       string
	Name     string
	Location string
}

func KeyOfLead(o models.BusinessOpportunity) LeadKey {
	return LeadKey{ID: o.ID, Name: o.Name, Location: o.Location}
}

// Same reports whether k and other refer to the same business.
func (k LeadKey) Same(other LeadKey) bool {
	if k.ID != "" && k.ID == other.ID {
		return true
	}
	return k.Name != "" && k.Name == other.Name && k.Location == other.Location
}

// JobKey identifies a job listing by id OR source URL, for the same reason
// as LeadKey.
type JobKey struct {
	ID        string
	SourceURL string
}

func KeyOfJob(j models.JobListing) JobKey {
	return JobKey{ID: j.ID, SourceURL: j.SourceURL}
}

func (k JobKey) Same(other JobKey) bool {
	return (k.ID != "" && k.ID == other.ID) || (k.SourceURL != "" && k.SourceURL == other.SourceURL)
}

// IsLeadSaved reports whether any pipeline lead is the same business as o.
func IsLeadSaved(leads []models.CRMLead, o models.BusinessOpportunity) bool {
	return FindLead(leads, o) >= 0
}

// FindLead returns the index of the first lead matching o, or -1.
func FindLead(leads []models.CRMLead, o models.BusinessOpportunity) int {
	key := KeyOfLead(o)
	for i, l := range leads {
		if KeyOfLead(l.BusinessOpportunity).Same(key) {
			return i
		}
	}
	return -1
}

// IsJobSaved reports whether j is among the saved jobs.
func IsJobSaved(saved []models.JobListing, j models.JobListing) bool {
	return FindJob(saved, j) >= 0
}

// FindJob returns the index of the first saved job matching j, or -1.
func FindJob(saved []models.JobListing, j models.JobListing) int {
	key := KeyOfJob(j)
	for i, s := range saved {
		if KeyOfJob(s).Same(key) {
			return i
		}
	}
	return -1
}
