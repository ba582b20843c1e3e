package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/droitfr-mcp/internal/mcp/prompts"
	"github.com/usestring/droitfr-mcp/internal/mcp/tools"
)

// Implementation name and version reported to MCP clients.
const (
	Name    = "droitfr-mcp"
	Version = "1.1.0"
)

// Instructions is sent to clients during initialization.
const Instructions = "Recherche dans le droit français: Légifrance (codes, lois, JORF, CNIL, conventions collectives) " +
	"et JudiLibre (décisions de la Cour de cassation). Le prompt guide_outils décrit les paramètres."

// capability selects which builtin groups are registered.
type capability uint8

const (
	capTools capability = 1 << iota // tools and the article/decision resources
	capPrompts
)

// Server exposes the Légifrance and JudiLibre tools over MCP.
type Server struct {
	sdk    *sdkmcp.Server
	deps   *tools.Deps
	caps   capability
	extras []func(*sdkmcp.Server)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBuiltinTools registers the builtin tools and resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) { s.caps |= capTools }
}

// WithBuiltinPrompts registers the research prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) { s.caps |= capPrompts }
}

// WithCustomRegistration runs fn against the SDK server after the builtins.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) { s.extras = append(s.extras, fn) }
}

// NewServer builds the server. Nothing is registered unless an option asks
// for it.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("mcp: deps with a config are required")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	s.sdk = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: Name, Version: Version},
		&sdkmcp.ServerOptions{Instructions: Instructions},
	)
	s.sdk.AddReceivingMiddleware(LoggingMiddleware())

	if s.caps&capTools != 0 {
		tools.Register(s.sdk, deps)
		s.registerResources()
	}
	if s.caps&capPrompts != 0 {
		prompts.Register(s.sdk, &prompts.Config{
			DefaultPageSize: deps.Config.DefaultPageSize,
			Sandbox:         deps.Config.Sandbox,
		})
	}
	for _, fn := range s.extras {
		fn(s.sdk)
	}
	return s, nil
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.sdk.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the SDK server, for in-process transports.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.sdk
}
