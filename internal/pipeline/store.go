// Package pipeline owns the two durable collections: the CRM lead pipeline
// and the saved job set. Both are held in memory and rewritten in full
// under their storage key on every mutation.
package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/metrics"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/storage"
	"github.com/justsurfingit/lead-scout/internal/views"
)

var (
	// ErrConfirmationRequired is returned by DeleteLead when the caller has
	// not confirmed the deletion.
	ErrConfirmationRequired = eris.New("pipeline: deletion requires confirmation")
	ErrUnknownStatus        = eris.New("pipeline: unknown lead status")
)

// Keys names the storage keys of the two collections.
type Keys struct {
	Leads string
	Jobs  string
}

var DefaultKeys = Keys{
	Leads: "leadgen_crm_proxima_v1",
	Jobs:  "leadgen_saved_jobs_v1",
}

type Option func(*Store)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	mu      sync.RWMutex
	storage storage.Storage
	keys    Keys
	now     func() time.Time

	leads []models.CRMLead
	jobs  []models.JobListing
}

// Open reads both collections once. A missing key, a read error or corrupt
// JSON leaves that collection empty; Open itself never fails.
func Open(ctx context.Context, st storage.Storage, keys Keys, opts ...Option) *Store {
	s := &Store{
		storage: st,
		keys:    keys,
		now:     time.Now,
		leads:   []models.CRMLead{},
		jobs:    []models.JobListing{},
	}
	for _, opt := range opts {
		opt(s)
	}

	load(ctx, st, keys.Leads, &s.leads)
	load(ctx, st, keys.Jobs, &s.jobs)
	s.observe()

	zap.L().Info("pipeline loaded",
		zap.Int("leads", len(s.leads)),
		zap.Int("saved_jobs", len(s.jobs)),
	)
	return s
}

func load[T any](ctx context.Context, st storage.Storage, key string, into *[]T) {
	raw, ok, err := st.Get(ctx, key)
	if err != nil {
		zap.L().Warn("pipeline: read failed, starting empty", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok || len(raw) == 0 {
		return
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		zap.L().Warn("pipeline: corrupt collection, starting empty", zap.String("key", key), zap.Error(err))
		return
	}
	if items != nil {
		*into = items
	}
}

// Leads returns a copy of the pipeline, most recent first.
func (s *Store) Leads() []models.CRMLead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CRMLead{}, s.leads...)
}

// SavedJobs returns a copy of the saved job set.
func (s *Store) SavedJobs() []models.JobListing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.JobListing{}, s.jobs...)
}

func (s *Store) Lead(id string) (models.CRMLead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.leads[i], true
	}
	return models.CRMLead{}, false
}

// AddLead commits o to the front of the pipeline. When a lead with the same
// identity already exists, nothing changes and the existing lead is
// returned with added=false.
func (s *Store) AddLead(ctx context.Context, o models.BusinessOpportunity) (lead models.CRMLead, added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := views.FindLead(s.leads, o); i >= 0 {
		return s.leads[i], false, nil
	}

	lead = models.CRMLead{
		BusinessOpportunity: o,
		Status:              models.StatusNew,
		Notes:               "",
		CreatedAt:           s.now().UTC(),
		DealAmount:          o.PotentialValue,
	}
	s.leads = append([]models.CRMLead{lead}, s.leads...)
	metrics.PipelineMutations.WithLabelValues("add_lead").Inc()

	return lead, true, s.persistLeads(ctx)
}

// UpdateStatus sets the status of lead id and, when amount is non-nil, its
// deal amount. Any status may follow any other. found is false when no lead
// has that id.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.LeadStatus, amount *float64) (found bool, err error) {
	if _, ok := models.ParseLeadStatus(string(status)); !ok {
		return false, eris.Wrapf(ErrUnknownStatus, "status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.leads[i].Status = status
	if amount != nil {
		s.leads[i].DealAmount = *amount
	}
	metrics.PipelineMutations.WithLabelValues("update_status").Inc()

	return true, s.persistLeads(ctx)
}

// AdvanceStatus moves lead id to the next status, wrapping Lost to New.
func (s *Store) AdvanceStatus(ctx context.Context, id string) (lead models.CRMLead, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.CRMLead{}, false, nil
	}
	s.leads[i].Status = s.leads[i].Status.Next()
	metrics.PipelineMutations.WithLabelValues("advance_status").Inc()

	return s.leads[i], true, s.persistLeads(ctx)
}

// DeleteLead removes lead id. confirmed must be true.
func (s *Store) DeleteLead(ctx context.Context, id string, confirmed bool) (found bool, err error) {
	if !confirmed {
		return false, ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.leads = append(s.leads[:i:i], s.leads[i+1:]...)
	metrics.PipelineMutations.WithLabelValues("delete_lead").Inc()

	return true, s.persistLeads(ctx)
}

// ToggleSavedJob saves j when no saved job shares its id or source URL,
// otherwise removes the match. saved reports the state after the toggle.
func (s *Store) ToggleSavedJob(ctx context.Context, j models.JobListing) (saved bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := views.FindJob(s.jobs, j); i >= 0 {
		s.jobs = append(s.jobs[:i:i], s.jobs[i+1:]...)
		metrics.PipelineMutations.WithLabelValues("unsave_job").Inc()
		return false, s.persistJobs(ctx)
	}

	s.jobs = append(s.jobs, j)
	metrics.PipelineMutations.WithLabelValues("save_job").Inc()
	return true, s.persistJobs(ctx)
}

func (s *Store) indexOf(id string) int {
	for i, l := range s.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLeads(ctx context.Context) error {
	s.observe()
	return s.persist(ctx, s.keys.Leads, s.leads)
}

func (s *Store) persistJobs(ctx context.Context) error {
	s.observe()
	return s.persist(ctx, s.keys.Jobs, s.jobs)
}

// persist rewrites a whole collection. The in-memory state stays
// authoritative when the write fails.
func (s *Store) persist(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "pipeline: encode %s", key)
	}
	if err := s.storage.Set(ctx, key, raw); err != nil {
		zap.L().Error("pipeline: persist failed", zap.String("key", key), zap.Error(err))
		return eris.Wrapf(err, "pipeline: persist %s", key)
	}
	return nil
}

func (s *Store) observe() {
	metrics.PipelineSize.WithLabelValues("leads").Set(float64(len(s.leads)))
	metrics.PipelineSize.WithLabelValues("saved_jobs").Set(float64(len(s.jobs)))
}
