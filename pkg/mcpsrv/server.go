package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/oauth2"

	"github.com/usestring/droitfr-mcp/internal/cache"
	"github.com/usestring/droitfr-mcp/internal/config"
	"github.com/usestring/droitfr-mcp/internal/logging"
	"github.com/usestring/droitfr-mcp/internal/mcp"
	"github.com/usestring/droitfr-mcp/internal/mcp/tools"
	"github.com/usestring/droitfr-mcp/internal/query"
	"github.com/usestring/droitfr-mcp/pkg/judilibre"
	"github.com/usestring/droitfr-mcp/pkg/legifrance"
	"github.com/usestring/droitfr-mcp/pkg/piste"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Server is the Légifrance/JudiLibre MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin tools.
//
// Configuration is read from the environment unless WithConfig is given.
// Missing credentials do not prevent startup: every API call then fails with
// an error naming the variables to set, which tester_connexion_legifrance
// reports.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.config == nil {
		cfg.config = config.Load() // Load defaults from environment
	}

	// Setup logging
	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		Format:     cfg.config.LogFormat,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		_ = logCleanup()
		return nil, err
	}

	// Internal tools use the same values under their own type.
	toolDeps := &tools.Deps{
		Config:     deps.Config,
		Legifrance: deps.Legifrance,
		Judilibre:  deps.Judilibre,
		Tokens:     deps.Tokens,
		Query:      deps.Query,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	// Add custom extension registration callbacks
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Add deferred tool registrations (tools that need Deps access)
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	env := deps.Config.Environment()
	slog.Info("server configured",
		slog.String("environment", env.Name),
		slog.String("api_url", env.APIURL),
		slog.Float64("rate_limit_rps", deps.Config.RateLimitRPS),
	)

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// BuildDeps creates the PISTE token source and API clients described by c,
// without logging setup or MCP registration. Used by the command-line
// subcommands that talk to the APIs directly.
func BuildDeps(c *config.Config, opts ...Option) (*Deps, error) {
	cfg := &serverConfig{config: c}
	for _, opt := range opts {
		opt(cfg)
	}
	return buildDeps(cfg)
}

func buildDeps(cfg *serverConfig) (*Deps, error) {
	c := cfg.config
	if err := validate.Range("DEFAULT_PAGE_SIZE", c.DefaultPageSize, 1, judilibre.MaxPageSize); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	env := c.Environment()

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.HTTPClientTimeout}
	}

	tokens := cfg.tokens
	if tokens == nil {
		tokens = newTokenSource(c, env, httpClient)
	}

	clientOpts := func(baseURL string) []piste.Option {
		return []piste.Option{
			piste.WithBaseURL(baseURL),
			piste.WithHTTPClient(httpClient),
			piste.WithRateLimit(c.RateLimitRPS, c.RateLimitBurst),
		}
	}

	return &Deps{
		Config:     c,
		Legifrance: legifrance.NewClient(piste.NewClient("legifrance", tokens, clientOpts(env.LegifranceURL())...)),
		Judilibre:  judilibre.NewClient(piste.NewClient("judilibre", tokens, clientOpts(env.JudilibreURL())...)),
		Tokens:     tokens,
		Query:      query.NewEngine(),
	}, nil
}

func newTokenSource(c *config.Config, env piste.Environment, httpClient *http.Client) piste.TokenSource {
	provider, err := piste.NewTokenProvider(c.OAuthURL, c.ClientID, c.ClientSecret,
		piste.WithTokenCache(cache.NewTokenCache(c.TokenCacheMaxItems, 0)),
		piste.WithTokenHTTPClient(httpClient),
	)
	if err != nil {
		slog.Warn("PISTE credentials incomplete, API calls will fail",
			slog.String("environment", env.Name),
			slog.String("error", err.Error()),
		)
		return missingCredentials{err: credentialsError(c, err)}
	}
	return provider
}

// missingCredentials is the token source used when the client id or secret
// is not configured.
type missingCredentials struct {
	err error
}

func (m missingCredentials) Token(context.Context) (*oauth2.Token, error) {
	return nil, m.err
}

func credentialsError(c *config.Config, cause error) error {
	idKey, secretKey := "PISTE_CLIENT_ID", "PISTE_CLIENT_SECRET"
	if c.Sandbox {
		idKey, secretKey = "PISTE_SANDBOX_CLIENT_ID", "PISTE_SANDBOX_CLIENT_SECRET"
	}
	// cause is formatted, not wrapped: this is a server configuration problem,
	// not invalid tool input.
	return fmt.Errorf("PISTE credentials missing: set %s and %s (%v)", idKey, secretKey, cause)
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server, for in-process transports.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
