package piste

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/droitfr-mcp/internal/cache"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Token timing defaults.
const (
	// ExpiryMargin is subtracted from the server-reported lifetime so a token
	// is never used in its last minute.
	ExpiryMargin = 60 * time.Second
	// DefaultTokenLifetime applies when the server omits expires_in.
	DefaultTokenLifetime = 3600 * time.Second
	// TokenFetchTimeout bounds a shared token request, which outlives the
	// caller that started it.
	TokenFetchTimeout = 30 * time.Second
)

// Scope requested with every token.
const Scope = "openid"

// TokenSource yields a valid bearer token.
type TokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// TokenProvider obtains client-credentials tokens from the PISTE gateway and
// reuses them until shortly before expiry. Concurrent refreshes for the same
// client share one request. Safe for concurrent use.
type TokenProvider struct {
	cfg        clientcredentials.Config
	key        string
	cache      *cache.TokenCache
	group      singleflight.Group
	httpClient *http.Client
	now        func() time.Time
}

// TokenOption configures a TokenProvider.
type TokenOption func(*TokenProvider)

// WithTokenCache shares a token cache between providers.
func WithTokenCache(c *cache.TokenCache) TokenOption {
	return func(p *TokenProvider) {
		p.cache = c
	}
}

// WithTokenHTTPClient sets the HTTP client used for token requests.
func WithTokenHTTPClient(c *http.Client) TokenOption {
	return func(p *TokenProvider) {
		p.httpClient = c
	}
}

// NewTokenProvider creates a provider for one PISTE application.
func NewTokenProvider(tokenURL, clientID, clientSecret string, opts ...TokenOption) (*TokenProvider, error) {
	if err := validate.Required("client_id", clientID); err != nil {
		return nil, err
	}
	if err := validate.Required("client_secret", clientSecret); err != nil {
		return nil, err
	}
	if err := validate.Required("token_url", tokenURL); err != nil {
		return nil, err
	}

	p := &TokenProvider{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{Scope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		key:        cache.Key(tokenURL, clientID),
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = cache.NewTokenCache(0, 0)
	}
	return p, nil
}

// Token returns a cached token or fetches a new one.
//
// A fetch is shared by every caller waiting on it and is not cancelled when
// one of them gives up; each caller still returns as soon as its own ctx is
// done.
func (p *TokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	if tok, ok := p.cached(); ok {
		return tok, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(p.key, func() (any, error) {
		if tok, ok := p.cached(); ok {
			return tok, nil
		}
		tctx, cancel := context.WithTimeout(fetchCtx, TokenFetchTimeout)
		defer cancel()
		return p.fetch(tctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oauth2.Token), nil
	}
}

// Invalidate forgets the cached token so the next call fetches a new one.
func (p *TokenProvider) Invalidate() {
	p.cache.Invalidate(p.key)
}

func (p *TokenProvider) cached() (*oauth2.Token, bool) {
	tok, ok := p.cache.Get(p.key)
	if !ok {
		return nil, false
	}
	if !p.now().Before(tok.Expiry) {
		p.cache.Invalidate(p.key)
		return nil, false
	}
	return tok, true
}

func (p *TokenProvider) fetch(ctx context.Context) (*oauth2.Token, error) {
	start := time.Now()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.cfg.Token(ctx)
	if err != nil {
		metricTokenFetches.WithLabelValues("error").Inc()
		slog.Debug("token request failed",
			slog.String("token_url", p.cfg.TokenURL),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("obtaining PISTE token: %w", err)
	}
	metricTokenFetches.WithLabelValues("ok").Inc()

	// oauth2 derives Expiry from expires_in; keep a margin before it.
	lifetime := DefaultTokenLifetime
	if !tok.Expiry.IsZero() {
		lifetime = tok.Expiry.Sub(time.Now())
	}
	cached := *tok
	cached.Expiry = p.now().Add(lifetime - ExpiryMargin)
	p.cache.Put(p.key, &cached)

	slog.Debug("token obtained",
		slog.String("token_url", p.cfg.TokenURL),
		slog.Time("expires_at", cached.Expiry),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return &cached, nil
}
