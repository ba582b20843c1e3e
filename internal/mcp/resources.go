package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/droitfr-mcp/internal/mcp/tools"
	"github.com/usestring/droitfr-mcp/pkg/jsonclean"
	"github.com/usestring/droitfr-mcp/pkg/judilibre"
)

// Supported URIs:
//   legifrance://article/{id}
//   judilibre://decision/{id}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.sdk.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "legifrance://article/{id}",
		Name:        "Légifrance document",
		Description: "Cleaned Légifrance document (article, consolidated text, JORF, convention). Same content as obtenir_article without jq.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceArticle)

	s.sdk.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "judilibre://decision/{id}",
		Name:        "JudiLibre decision",
		Description: "Cleaned JudiLibre decision with references resolved. High context cost for long decisions - obtenir_decision_judilibre returns zone texts and accepts jq.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceDecision)
}

// Resource handlers

func (s *Server) handleResourceArticle(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	id, err := parseResourceURI(req.Params.URI, "legifrance", "article")
	if err != nil {
		return nil, err
	}

	doc, err := s.deps.Legifrance.Article(ctx, id)
	if err != nil {
		return nil, tools.WrapError(err)
	}

	return toResourceResult(req.Params.URI, jsonclean.Clean(doc))
}

func (s *Server) handleResourceDecision(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	id, err := parseResourceURI(req.Params.URI, "judilibre", "decision")
	if err != nil {
		return nil, err
	}

	decision, err := s.deps.Judilibre.Decision(ctx, judilibre.DecisionParams{ID: id, ResolveReferences: true})
	if err != nil {
		return nil, tools.WrapError(err)
	}

	return toResourceResult(req.Params.URI, jsonclean.Clean(decision.Document))
}

// Helper functions

// parseResourceURI extracts the identifier from scheme://kind/{id}.
func parseResourceURI(uri, scheme, kind string) (string, error) {
	prefix := scheme + "://"
	if !strings.HasPrefix(uri, prefix) {
		return "", tools.ErrInvalidInput(fmt.Sprintf("invalid URI scheme: expected %s", prefix))
	}

	parts := strings.Split(strings.TrimPrefix(uri, prefix), "/")
	if len(parts) != 2 || parts[0] != kind || parts[1] == "" {
		return "", tools.ErrInvalidInput(fmt.Sprintf("%s URI must be %s%s/{id}", kind, prefix, kind))
	}
	return parts[1], nil
}

// toResourceResult marshals content to JSON. An empty document is
// rendered as {}.
func toResourceResult(uri string, content *jsonclean.Value) (*sdkmcp.ReadResourceResult, error) {
	if content == nil {
		content = jsonclean.NewObject()
	}
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
