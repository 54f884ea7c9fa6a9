package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/justsurfingit/lead-scout/internal/grounding"
	"github.com/justsurfingit/lead-scout/internal/mapper"
	"github.com/justsurfingit/lead-scout/internal/metrics"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/normalize"
	"github.com/justsurfingit/lead-scout/internal/provider"
)

const discoveryPrompt = `
You are a lead discovery agent for a digital marketing agency.

### QUERY:
"%s"

### TARGET AREA:
%s

### INSTRUCTIONS:
1. Find businesses matching the query across Google Maps, Yelp and industry directories.
2. Prefer businesses with digital vulnerabilities: no website, weak SEO, thin social presence, unmanaged Maps listing.
3. List each business with its name, location and the platform it was discovered on.
`

const enrichmentPrompt = `
You are a lead research agent. Synthesize sales leads from the discovery notes below.
For each business find LinkedIn, Instagram, Facebook and Yelp profiles, missing contact details,
the owner, and a revenue estimate.

### DISCOVERY NOTES:
%s

### OUTPUT:
Return a RAW JSON ARRAY ONLY. Do not wrap it in markdown. Each element must follow this schema:
[{
  "id": "uuid",
  "name": "string",
  "location": "string",
  "phone": "string",
  "ownerPhone": "string",
  "email": "string",
  "website": "string",
  "gmbLink": "string",
  "leadSource": "Google Maps | Yelp | LinkedIn | Instagram | Facebook | Yellow Pages | Direct",
  "socialLinks": {"linkedin": "url", "instagram": "url", "facebook": "url", "yelp": "url"},
  "ownerName": "string",
  "currencySymbol": "$",
  "estimatedRevenue": number,
  "potentialValue": number,
  "businessSize": "Boutique | Growth | Enterprise",
  "needs": {"website": bool, "seo": bool, "socialMedia": bool, "graphicDesign": bool, "gmbIssues": bool},
  "analysis": "short audit of the digital presence",
  "serviceRecommendation": "service to pitch"
}]

### CONSTRAINT:
If a contact detail cannot be found, use "Not Found". Do not invent URLs.
`

const jobSearchPrompt = `
Find 20 or more current job openings for: "%s".

### OUTPUT:
Return a RAW JSON ARRAY ONLY. Each element must follow this schema:
[{
  "id": "string",
  "title": "string",
  "company": "string",
  "location": "string",
  "description": "short summary",
  "source": "LinkedIn | Indeed | Upwork | Freelancer | Other",
  "sourceUrl": "direct https link to the posting",
  "postedDate": "string",
  "estimatedBudget": "string or omit",
  "type": "Freelance | Contract | Full-time"
}]

### CONSTRAINT:
Only include postings with a working http(s) link.
`

// LLMConfig holds the limits applied to every provider call.
type LLMConfig struct {
	Timeout       time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration
	RatePerMinute float64
	JSONMode      bool
}

// LeadResult is the outcome of one lead search.
type LeadResult struct {
	Leads   []models.BusinessOpportunity
	Sources []models.GroundingSource
}

type JobResult struct {
	Jobs    []models.JobListing
	Sources []models.GroundingSource
}

// LLMService runs lead and job searches against the intelligence provider.
type LLMService struct {
	discovery provider.Provider
	enrich    provider.Provider
	limiter   *rate.Limiter
	cfg       LLMConfig
}

// NewLLMService builds the service. enrich runs the enrichment and job
// calls; when nil, discovery is used for every call.
func NewLLMService(discovery, enrich provider.Provider, cfg LLMConfig) *LLMService {
	if enrich == nil {
		enrich = discovery
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Limit(cfg.RatePerMinute / 60)
	}

	return &LLMService{
		discovery: discovery,
		enrich:    enrich,
		limiter:   rate.NewLimiter(limit, 1),
		cfg:       cfg,
	}
}

// FindLeads runs the discovery call, then the enrichment call built from
// the discovery text. Sources are merged map-first.
func (s *LLMService) FindLeads(ctx context.Context, query string, loc *models.Coordinates) (*LeadResult, error) {
	area := "Specified in query"
	if loc != nil {
		area = fmt.Sprintf("Lat %g, Lng %g", loc.Latitude, loc.Longitude)
	}

	found, err := s.call(ctx, s.discovery, "discovery", provider.Request{
		Prompt:    fmt.Sprintf(discoveryPrompt, query, area),
		Location:  loc,
		Grounding: provider.GroundingMaps,
	})
	if err != nil {
		return nil, err
	}

	enriched, err := s.call(ctx, s.enrich, "enrichment", provider.Request{
		Prompt:    fmt.Sprintf(enrichmentPrompt, found.Text),
		Grounding: provider.GroundingSearch,
		JSON:      s.cfg.JSONMode,
	})
	if err != nil {
		return nil, err
	}

	leads := mapper.Opportunities(normalize.Objects(enriched.Text))
	sources := grounding.Merge(
		grounding.Sources(found.Chunks, grounding.KindMap),
		grounding.Sources(enriched.Chunks, grounding.KindWeb),
	)

	zap.L().Info("lead search finished",
		zap.String("query", query),
		zap.Int("leads", len(leads)),
		zap.Int("sources", len(sources)),
	)
	return &LeadResult{Leads: leads, Sources: sources}, nil
}

// FindJobs runs a single grounded search call for job postings.
func (s *LLMService) FindJobs(ctx context.Context, query string) (*JobResult, error) {
	resp, err := s.call(ctx, s.enrich, "jobs", provider.Request{
		Prompt:    fmt.Sprintf(jobSearchPrompt, query),
		Grounding: provider.GroundingSearch,
		JSON:      s.cfg.JSONMode,
	})
	if err != nil {
		return nil, err
	}

	jobs := mapper.Jobs(normalize.Objects(resp.Text))
	sources := grounding.Merge(grounding.Sources(resp.Chunks, grounding.KindWeb))

	zap.L().Info("job search finished",
		zap.String("query", query),
		zap.Int("jobs", len(jobs)),
		zap.Int("sources", len(sources)),
	)
	return &JobResult{Jobs: jobs, Sources: sources}, nil
}

// call runs one rate-limited, retried provider call. An empty provider
// answer is not a failure; it yields an empty response.
func (s *LLMService) call(ctx context.Context, p provider.Provider, name string, req provider.Request) (*provider.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrapf(err, "services: rate limit %s", name)
	}

	start := time.Now()
	var resp *provider.Response
	err := retry(ctx, s.cfg.MaxAttempts, s.cfg.RetryDelay, func(ctx context.Context) error {
		callCtx := ctx
		if s.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
		}
		r, err := p.Generate(callCtx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	metrics.ProviderCallDuration.WithLabelValues(p.Name(), name).Observe(time.Since(start).Seconds())

	if eris.Is(err, provider.ErrEmptyResponse) {
		metrics.ProviderCalls.WithLabelValues(p.Name(), name, "empty").Inc()
		zap.L().Debug("provider returned no text", zap.String("call", name))
		return &provider.Response{}, nil
	}
	if err != nil {
		metrics.ProviderCalls.WithLabelValues(p.Name(), name, "error").Inc()
		return nil, eris.Wrapf(err, "services: %s call", name)
	}

	metrics.ProviderCalls.WithLabelValues(p.Name(), name, "ok").Inc()
	return resp, nil
}
