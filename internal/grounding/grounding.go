// Package grounding turns provider citation chunks into grounding sources
// and merges the source lists of consecutive provider calls.
package grounding

import (
	"strings"

	"github.com/justsurfingit/lead-scout/internal/models"
)

// ChunkKind tells whether a citation came from a map listing or a web page.
type ChunkKind string

const (
	KindMap ChunkKind = "map"
	KindWeb ChunkKind = "web"
)

// Chunk is one citation attached to a provider response.
type Chunk struct {
	Kind  ChunkKind
	Title string
	URI   string
}

// Sources returns the chunks of the given kind as grounding sources,
// skipping chunks without a URI.
func Sources(chunks []Chunk, kind ChunkKind) []models.GroundingSource {
	out := make([]models.GroundingSource, 0, len(chunks))
	for _, c := range chunks {
		if c.Kind != kind || strings.TrimSpace(c.URI) == "" {
			continue
		}
		out = append(out, models.GroundingSource{Title: c.Title, URI: c.URI})
	}
	return out
}

// Merge concatenates the lists and keeps the first source seen for each URI.
func Merge(lists ...[]models.GroundingSource) []models.GroundingSource {
	seen := make(map[string]struct{})
	var out []models.GroundingSource
	for _, list := range lists {
		for _, s := range list {
			if _, ok := seen[s.URI]; ok {
				continue
			}
			seen[s.URI] = struct{}{}
			out = append(out, s)
		}
	}
	if out == nil {
		out = []models.GroundingSource{}
	}
	return out
}
