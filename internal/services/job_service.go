package services

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/mapper"
	"github.com/justsurfingit/lead-scout/internal/metrics"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/pipeline"
	"github.com/justsurfingit/lead-scout/internal/state"
	"github.com/justsurfingit/lead-scout/internal/views"
)

// ErrJobNotFound is returned when a job given only by id is neither a
// current result nor saved.
var ErrJobNotFound = eris.New("services: job not found")

type JobFinder interface {
	FindJobs(ctx context.Context, query string) (*JobResult, error)
}

type JobsView struct {
	Query   string                    `json:"query"`
	Loading bool                      `json:"loading"`
	Notice  string                    `json:"notice,omitempty"`
	Sources []models.GroundingSource  `json:"sources"`
	Results views.Page[views.JobView] `json:"results"`
}

// JobService owns the job search segment and the saved job set.
type JobService struct {
	finder   JobFinder
	store    *pipeline.Store
	pageSize int

	mu  sync.Mutex
	seg state.Segment[models.JobListing]
}

func NewJobService(finder JobFinder, store *pipeline.Store, pageSize int) *JobService {
	if pageSize <= 0 {
		pageSize = views.PageSize
	}
	return &JobService{
		finder:   finder,
		store:    store,
		pageSize: pageSize,
		seg:      state.NewSegment[models.JobListing](),
	}
}

// Search runs a job search with the same stale-response and failure rules
// as LeadService.Search.
func (s *JobService) Search(ctx context.Context, query string) (JobsView, error) {
	s.mu.Lock()
	var ticket state.Ticket
	s.seg, ticket = s.seg.Begin(query)
	s.mu.Unlock()

	res, err := s.finder.FindJobs(ctx, query)

	s.mu.Lock()
	var applied bool
	if err != nil {
		s.seg, applied = s.seg.Fail(ticket, ProviderNotice)
		metrics.Searches.WithLabelValues("jobs", "error").Inc()
		zap.L().Error("job search failed", zap.String("query", query), zap.Error(err))
	} else {
		s.seg, applied = s.seg.Complete(ticket, res.Jobs, res.Sources)
		metrics.Searches.WithLabelValues("jobs", "ok").Inc()
	}
	if !applied {
		metrics.Searches.WithLabelValues("jobs", "stale").Inc()
		zap.L().Info("discarding superseded job search", zap.String("query", query))
		err = nil
	}
	s.mu.Unlock()

	return s.View(0), err
}

// View renders the current job results. page <= 0 keeps the current page.
func (s *JobService) View(page int) JobsView {
	saved := s.store.SavedJobs()

	s.mu.Lock()
	defer s.mu.Unlock()

	if page > 0 {
		s.seg = s.seg.WithPage(page)
	}
	p := views.Paginate(s.seg.Results, s.seg.Page, s.pageSize)
	s.seg = s.seg.WithPage(p.Page)

	return JobsView{
		Query:   s.seg.Query,
		Loading: s.seg.Loading,
		Notice:  s.seg.Notice,
		Sources: s.seg.Sources,
		Results: views.Map(p, func(j models.JobListing) views.JobView {
			return views.AnnotateJob(j, saved)
		}),
	}
}

// Saved returns the saved job set annotated as saved.
func (s *JobService) Saved() []views.JobView {
	saved := s.store.SavedJobs()
	out := make([]views.JobView, len(saved))
	for i, j := range saved {
		out[i] = views.JobView{JobListing: j, Saved: true}
	}
	return out
}

// ToggleSaved flips the saved state of a job. A job given only by id is
// looked up in the current results and then in the saved set. The job must
// carry an http(s) sourceUrl and gets an id when it has none.
func (s *JobService) ToggleSaved(ctx context.Context, j models.JobListing) (bool, error) {
	if j.SourceURL == "" {
		found, ok := s.lookup(j.ID)
		if !ok {
			return false, eris.Wrapf(ErrJobNotFound, "job %q", j.ID)
		}
		j = found
	}
	j, err := mapper.Job(j)
	if err != nil {
		return false, err
	}
	return s.store.ToggleSavedJob(ctx, j)
}

func (s *JobService) lookup(id string) (models.JobListing, bool) {
	if id == "" {
		return models.JobListing{}, false
	}
	s.mu.Lock()
	results := s.seg.Results
	s.mu.Unlock()

	for _, list := range [][]models.JobListing{results, s.store.SavedJobs()} {
		for _, j := range list {
			if j.ID == id {
				return j, true
			}
		}
	}
	return models.JobListing{}, false
}
