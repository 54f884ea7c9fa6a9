package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/metrics"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/pipeline"
	"github.com/justsurfingit/lead-scout/internal/state"
	"github.com/justsurfingit/lead-scout/internal/views"
)

// ProviderNotice is the message shown when a search fails upstream.
const ProviderNotice = "The intelligence provider is unavailable right now. Your previous results are unchanged; please try again."

type LeadFinder interface {
	FindLeads(ctx context.Context, query string, loc *models.Coordinates) (*LeadResult, error)
}

// LeadsView is the lead segment as the dashboard renders it.
type LeadsView struct {
	Query   string                     `json:"query"`
	Loading bool                       `json:"loading"`
	Notice  string                     `json:"notice,omitempty"`
	Sources []models.GroundingSource   `json:"sources"`
	Filters models.FilterState         `json:"filters"`
	Results views.Page[views.LeadView] `json:"results"`
}

// LeadService owns the lead search segment.
type LeadService struct {
	finder   LeadFinder
	store    *pipeline.Store
	location *models.Coordinates
	pageSize int

	mu  sync.Mutex
	seg state.Segment[models.BusinessOpportunity]
}

// NewLeadService wires lead search. location is the startup position and
// may be nil.
func NewLeadService(finder LeadFinder, store *pipeline.Store, location *models.Coordinates, pageSize int) *LeadService {
	if pageSize <= 0 {
		pageSize = views.PageSize
	}
	return &LeadService{
		finder:   finder,
		store:    store,
		location: location,
		pageSize: pageSize,
		seg:      state.NewSegment[models.BusinessOpportunity](),
	}
}

// Search runs a lead search. loc overrides the startup position when
// non-nil. A response that arrives after a newer search was submitted is
// discarded, and so is its error. On provider failure the previous results
// stay in place and the error is returned.
func (s *LeadService) Search(ctx context.Context, query string, loc *models.Coordinates) (LeadsView, error) {
	if loc == nil {
		loc = s.location
	}

	s.mu.Lock()
	var ticket state.Ticket
	s.seg, ticket = s.seg.Begin(query)
	s.mu.Unlock()

	res, err := s.finder.FindLeads(ctx, query, loc)

	s.mu.Lock()
	var applied bool
	if err != nil {
		s.seg, applied = s.seg.Fail(ticket, ProviderNotice)
		metrics.Searches.WithLabelValues("leads", "error").Inc()
		zap.L().Error("lead search failed", zap.String("query", query), zap.Error(err))
	} else {
		s.seg, applied = s.seg.Complete(ticket, res.Leads, res.Sources)
		metrics.Searches.WithLabelValues("leads", "ok").Inc()
	}
	if !applied {
		metrics.Searches.WithLabelValues("leads", "stale").Inc()
		zap.L().Info("discarding superseded lead search", zap.String("query", query))
		err = nil
	}
	s.mu.Unlock()

	return s.View(0), err
}

// SetFilters replaces the lead filters and resets the page.
func (s *LeadService) SetFilters(f models.FilterState) LeadsView {
	s.mu.Lock()
	s.seg = s.seg.WithFilters(f)
	s.mu.Unlock()
	return s.View(0)
}

// View renders the current results. page <= 0 keeps the current page.
func (s *LeadService) View(page int) LeadsView {
	saved := s.store.Leads()

	s.mu.Lock()
	defer s.mu.Unlock()

	if page > 0 {
		s.seg = s.seg.WithPage(page)
	}
	filtered := views.Filter(s.seg.Results, s.seg.Filters)
	p := views.Paginate(filtered, s.seg.Page, s.pageSize)
	s.seg = s.seg.WithPage(p.Page)

	return LeadsView{
		Query:   s.seg.Query,
		Loading: s.seg.Loading,
		Notice:  s.seg.Notice,
		Sources: s.seg.Sources,
		Filters: s.seg.Filters,
		Results: views.Map(p, func(o models.BusinessOpportunity) views.LeadView {
			return views.AnnotateLead(o, saved)
		}),
	}
}

// Result returns the current search result with the given id.
func (s *LeadService) Result(id string) (models.BusinessOpportunity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.seg.Results {
		if o.ID == id {
			return o, true
		}
	}
	return models.BusinessOpportunity{}, false
}
