// Package provider is the boundary to the external intelligence provider:
// one prompt in, free text plus citation chunks out.
package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/justsurfingit/lead-scout/internal/grounding"
	"github.com/justsurfingit/lead-scout/internal/models"
)

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = eris.New("provider: empty response")

// GroundingMode selects the citation source a call should be grounded on.
type GroundingMode string

const (
	GroundingNone   GroundingMode = ""
	GroundingMaps   GroundingMode = "maps"
	GroundingSearch GroundingMode = "search"
)

type Request struct {
	Prompt    string
	Location  *models.Coordinates
	Grounding GroundingMode
	// JSON asks the provider to constrain its answer to JSON when it can.
	JSON bool
}

type Response struct {
	Text   string
	Chunks []grounding.Chunk
}

// Provider generates a response for one prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// chunkKind maps a grounding mode to the kind its citations are reported as.
func chunkKind(mode GroundingMode) grounding.ChunkKind {
	if mode == GroundingMaps {
		return grounding.KindMap
	}
	return grounding.KindWeb
}
