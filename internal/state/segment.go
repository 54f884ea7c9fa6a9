// Package state holds the per-segment search state as plain values updated
// by reducer functions. Leads and jobs each own one Segment.
package state

import "github.com/justsurfingit/lead-scout/internal/models"

// Ticket identifies one submitted search. Tickets increase monotonically
// within a segment.
type Ticket uint64

type Segment[T any] struct {
	Query   string                   `json:"query"`
	Loading bool                     `json:"loading"`
	Results []T                      `json:"results"`
	Sources []models.GroundingSource `json:"sources"`
	Page    int                      `json:"page"`
	Filters models.FilterState       `json:"filters"`
	// Notice is the last user-facing failure message, cleared by the next
	// successful search.
	Notice string `json:"notice,omitempty"`

	latest Ticket
}

func NewSegment[T any]() Segment[T] {
	return Segment[T]{
		Results: []T{},
		Sources: []models.GroundingSource{},
		Page:    1,
	}
}

// Begin records a new submitted search and returns its ticket.
func (s Segment[T]) Begin(query string) (Segment[T], Ticket) {
	s.latest++
	s.Query = query
	s.Loading = true
	return s, s.latest
}

// IsLatest reports whether t belongs to the most recently submitted search.
func (s Segment[T]) IsLatest(t Ticket) bool {
	return t == s.latest
}

// Complete applies a resolved search. Results and sources are replaced
// wholesale and the page resets to 1. A superseded ticket leaves s as is.
func (s Segment[T]) Complete(t Ticket, results []T, sources []models.GroundingSource) (Segment[T], bool) {
	if !s.IsLatest(t) {
		return s, false
	}
	if results == nil {
		results = []T{}
	}
	if sources == nil {
		sources = []models.GroundingSource{}
	}
	s.Loading = false
	s.Results = results
	s.Sources = sources
	s.Page = 1
	s.Notice = ""
	return s, true
}

// Fail clears the loading flag for the latest search and records notice.
// Previous results are kept.
func (s Segment[T]) Fail(t Ticket, notice string) (Segment[T], bool) {
	if !s.IsLatest(t) {
		return s, false
	}
	s.Loading = false
	s.Notice = notice
	return s, true
}

// WithFilters replaces the filter state and resets the page to 1.
func (s Segment[T]) WithFilters(f models.FilterState) Segment[T] {
	s.Filters = f
	s.Page = 1
	return s
}

func (s Segment[T]) WithPage(page int) Segment[T] {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}
