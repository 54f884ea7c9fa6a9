package services

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/justsurfingit/lead-scout/internal/export"
	"github.com/justsurfingit/lead-scout/internal/mapper"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/pipeline"
	"github.com/justsurfingit/lead-scout/internal/views"
)

// ErrLeadNotFound is returned when an operation names an unknown lead.
var ErrLeadNotFound = eris.New("services: lead not found")

type PipelineService struct {
	store    *pipeline.Store
	leads    *LeadService
	pageSize int
}

func NewPipelineService(store *pipeline.Store, leads *LeadService, pageSize int) *PipelineService {
	if pageSize <= 0 {
		pageSize = views.PageSize
	}
	return &PipelineService{store: store, leads: leads, pageSize: pageSize}
}

// List returns one page of the filtered pipeline.
func (s *PipelineService) List(f models.FilterState, page int) views.Page[views.PipelineLeadView] {
	filtered := views.FilterLeads(s.store.Leads(), f)
	return views.Map(views.Paginate(filtered, page, s.pageSize), views.AnnotatePipelineLead)
}

// Add commits o to the pipeline after completing it like a provider record.
// added is false when it was already there.
func (s *PipelineService) Add(ctx context.Context, o models.BusinessOpportunity) (models.CRMLead, bool, error) {
	return s.store.AddLead(ctx, mapper.Opportunity(o))
}

// AddFromSearch commits the current lead search result with the given id.
func (s *PipelineService) AddFromSearch(ctx context.Context, id string) (models.CRMLead, bool, error) {
	o, ok := s.leads.Result(id)
	if !ok {
		return models.CRMLead{}, false, eris.Wrapf(ErrLeadNotFound, "search result %s", id)
	}
	return s.store.AddLead(ctx, o)
}

func (s *PipelineService) UpdateStatus(ctx context.Context, id string, status models.LeadStatus, amount *float64) (models.CRMLead, error) {
	found, err := s.store.UpdateStatus(ctx, id, status, amount)
	if err != nil {
		return models.CRMLead{}, err
	}
	if !found {
		return models.CRMLead{}, eris.Wrapf(ErrLeadNotFound, "lead %s", id)
	}
	lead, _ := s.store.Lead(id)
	return lead, nil
}

func (s *PipelineService) Advance(ctx context.Context, id string) (models.CRMLead, error) {
	lead, found, err := s.store.AdvanceStatus(ctx, id)
	if err != nil {
		return lead, err
	}
	if !found {
		return models.CRMLead{}, eris.Wrapf(ErrLeadNotFound, "lead %s", id)
	}
	return lead, nil
}

// Delete removes lead id. A missing lead is not an error.
func (s *PipelineService) Delete(ctx context.Context, id string, confirmed bool) error {
	_, err := s.store.DeleteLead(ctx, id, confirmed)
	return err
}

// Export writes the selected leads (all when ids is empty) as CSV.
func (s *PipelineService) Export(w io.Writer, ids []string) error {
	return export.Write(w, export.Select(s.store.Leads(), ids))
}

func (s *PipelineService) Stats() views.PipelineStats {
	return views.Summarize(s.store.Leads())
}
