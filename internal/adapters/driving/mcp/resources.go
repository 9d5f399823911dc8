package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for sercha-ask resources.
	uriScheme = "sercha-ask://"

	// manifestURI names the manifest of the served artifact.
	manifestURI = uriScheme + "manifest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         manifestURI,
		Name:        "manifest",
		Description: "Manifest of the index being served",
		MIMEType:    "application/json",
	}, s.handleManifestResource)
}

// handleManifestResource returns the served artifact's manifest as JSON.
func (s *Server) handleManifestResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	manifest, err := s.ports.Ask.Stats(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	data, err := json.MarshalIndent(statsOutput(manifest), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling manifest: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
