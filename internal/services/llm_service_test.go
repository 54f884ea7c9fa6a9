package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/lead-scout/internal/grounding"
	"github.com/justsurfingit/lead-scout/internal/models"
	"github.com/justsurfingit/lead-scout/internal/provider"
	"github.com/justsurfingit/lead-scout/internal/provider/mocks"
)

var testLLMConfig = LLMConfig{
	Timeout:     time.Second,
	MaxAttempts: 3,
	RetryDelay:  time.Millisecond,
}

func isDiscovery(req provider.Request) bool { return req.Grounding == provider.GroundingMaps }
func isSearch(req provider.Request) bool    { return req.Grounding == provider.GroundingSearch }

const enrichedJSON = "Here you go:\n```json\n" + `[
 {"id":"l1","name":"Acme Plumbing","location":"Austin, TX","website":"Not Found","estimatedRevenue":"600000",
  "needs":{"website":true,"seo":true,"socialMedia":true}},
 {"name":"Beta LLC","location":"Austin, TX","leadSource":"yelp"}
]` + "\n```"

func TestFindLeads_DiscoveryThenEnrichment(t *testing.T) {
	p := mocks.NewMockProvider(t)
	loc := &models.Coordinates{Latitude: 30.27, Longitude: -97.74}

	p.On("Generate", mock.Anything, mock.MatchedBy(func(req provider.Request) bool {
		return isDiscovery(req) && req.Location == loc &&
			strings.Contains(req.Prompt, `"plumbers in austin"`) &&
			strings.Contains(req.Prompt, "Lat 30.27, Lng -97.74")
	})).Return(&provider.Response{
		Text: "DISCOVERY: Acme Plumbing (Google Maps)",
		Chunks: []grounding.Chunk{
			{Kind: grounding.KindMap, Title: "Acme on Maps", URI: "https://maps.test/acme"},
			{Kind: grounding.KindWeb, Title: "ignored", URI: "https://web.test/ignored"},
		},
	}, nil).Once()

	p.On("Generate", mock.Anything, mock.MatchedBy(func(req provider.Request) bool {
		return isSearch(req) && strings.Contains(req.Prompt, "DISCOVERY: Acme Plumbing (Google Maps)")
	})).Return(&provider.Response{
		Text: enrichedJSON,
		Chunks: []grounding.Chunk{
			{Kind: grounding.KindWeb, Title: "dup", URI: "https://maps.test/acme"},
			{Kind: grounding.KindWeb, Title: "Yelp", URI: "https://yelp.test/acme"},
		},
	}, nil).Once()

	res, err := NewLLMService(p, nil, testLLMConfig).FindLeads(context.Background(), "plumbers in austin", loc)
	require.NoError(t, err)

	require.Len(t, res.Leads, 2)
	assert.Equal(t, "l1", res.Leads[0].ID)
	assert.Empty(t, res.Leads[0].Website)
	assert.Equal(t, 600000.0, res.Leads[0].EstimatedRevenue)
	assert.Equal(t, 3, res.Leads[0].Needs.Count())
	assert.NotEmpty(t, res.Leads[1].ID)
	assert.Equal(t, models.SourceYelp, res.Leads[1].LeadSource)

	assert.Equal(t, []models.GroundingSource{
		{Title: "Acme on Maps", URI: "https://maps.test/acme"},
		{Title: "Yelp", URI: "https://yelp.test/acme"},
	}, res.Sources)
}

func TestFindLeads_SeparateEnrichmentProvider(t *testing.T) {
	discovery := mocks.NewMockProvider(t)
	enrich := mocks.NewMockProvider(t)

	discovery.On("Generate", mock.Anything, mock.MatchedBy(isDiscovery)).
		Return(&provider.Response{Text: "notes"}, nil).Once()
	enrich.On("Generate", mock.Anything, mock.MatchedBy(func(req provider.Request) bool {
		return isSearch(req) && req.JSON && strings.Contains(req.Prompt, "notes")
	})).Return(&provider.Response{Text: `[]`}, nil).Once()

	cfg := testLLMConfig
	cfg.JSONMode = true
	res, err := NewLLMService(discovery, enrich, cfg).FindLeads(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Leads)
	assert.NotNil(t, res.Sources)
}

func TestFindLeads_MalformedOutputIsZeroResults(t *testing.T) {
	p := mocks.NewMockProvider(t)
	p.On("Generate", mock.Anything, mock.MatchedBy(isDiscovery)).
		Return(&provider.Response{Text: "nothing here"}, nil).Once()
	p.On("Generate", mock.Anything, mock.MatchedBy(isSearch)).
		Return(&provider.Response{Text: "Sorry, I could not find any businesses."}, nil).Once()

	res, err := NewLLMService(p, nil, testLLMConfig).FindLeads(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Leads)
	assert.NotNil(t, res.Leads)
}

func TestFindLeads_ProviderFailureIsRetriedThenReturned(t *testing.T) {
	p := mocks.NewMockProvider(t)
	p.On("Generate", mock.Anything, mock.MatchedBy(isDiscovery)).
		Return(nil, errors.New("503 overloaded")).Times(3)

	_, err := NewLLMService(p, nil, testLLMConfig).FindLeads(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discovery")
}

func TestFindLeads_RecoversAfterTransientFailure(t *testing.T) {
	p := mocks.NewMockProvider(t)
	p.On("Generate", mock.Anything, mock.MatchedBy(isDiscovery)).
		Return(nil, errors.New("timeout")).Once()
	p.On("Generate", mock.Anything, mock.MatchedBy(isDiscovery)).
		Return(&provider.Response{Text: "notes"}, nil).Once()
	p.On("Generate", mock.Anything, mock.MatchedBy(isSearch)).
		Return(&provider.Response{Text: `[{"name":"A","location":"B"}]`}, nil).Once()

	res, err := NewLLMService(p, nil, testLLMConfig).FindLeads(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Len(t, res.Leads, 1)
}

func TestFindJobs_EmptyResponseIsNotRetried(t *testing.T) {
	p := mocks.NewMockProvider(t)
	p.On("Generate", mock.Anything, mock.MatchedBy(isSearch)).
		Return(nil, provider.ErrEmptyResponse).Once()

	res, err := NewLLMService(p, nil, testLLMConfig).FindJobs(context.Background(), "go developer")
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)
}

func TestFindJobs_DropsJobsWithoutLinks(t *testing.T) {
	p := mocks.NewMockProvider(t)
	p.On("Generate", mock.Anything, mock.MatchedBy(func(req provider.Request) bool {
		return isSearch(req) && strings.Contains(req.Prompt, `"go developer"`)
	})).Return(&provider.Response{
		Text: `{"jobs":[
			{"id":"j1","title":"Go Dev","sourceUrl":"https://jobs.test/1","source":"indeed","type":"full time"},
			{"id":"j2","title":"No link"},
			{"id":"j3","title":"Bad link","sourceUrl":"ftp://jobs.test/3"}
		]}`,
		Chunks: []grounding.Chunk{{Kind: grounding.KindWeb, Title: "Indeed", URI: "https://indeed.test"}},
	}, nil).Once()

	res, err := NewLLMService(p, nil, testLLMConfig).FindJobs(context.Background(), "go developer")
	require.NoError(t, err)

	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "j1", res.Jobs[0].ID)
	assert.Equal(t, models.JobSourceIndeed, res.Jobs[0].Source)
	assert.Equal(t, models.JobTypeFullTime, res.Jobs[0].Type)
	assert.Equal(t, []models.GroundingSource{{Title: "Indeed", URI: "https://indeed.test"}}, res.Sources)
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, 5, time.Hour, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
