package piste

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/droitfr-mcp/internal/cache"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

type tokenServer struct {
	*httptest.Server
	hits      atomic.Int32
	expiresIn int
	delay     time.Duration
}

func newTokenServer(t *testing.T, expiresIn int) *tokenServer {
	t.Helper()
	ts := &tokenServer{expiresIn: expiresIn}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := ts.hits.Add(1)
		if ts.delay > 0 {
			time.Sleep(ts.delay)
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != "client_credentials" ||
			r.PostForm.Get("client_id") != "id" ||
			r.PostForm.Get("client_secret") != "secret" ||
			r.PostForm.Get("scope") != "openid" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		body := map[string]any{
			"access_token": fmt.Sprintf("tok-%d", n),
			"token_type":   "Bearer",
		}
		if ts.expiresIn > 0 {
			body["expires_in"] = ts.expiresIn
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newProvider(t *testing.T, ts *tokenServer) *TokenProvider {
	t.Helper()
	p, err := NewTokenProvider(ts.URL, "id", "secret", WithTokenCache(cache.NewTokenCache(4, time.Hour)))
	require.NoError(t, err)
	return p
}

func TestNewTokenProvider_MissingCredentials(t *testing.T) {
	_, err := NewTokenProvider("https://oauth.example/token", "", "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, validate.ErrMissingRequiredField)

	_, err = NewTokenProvider("https://oauth.example/token", "id", "  ")
	assert.ErrorIs(t, err, validate.ErrMissingRequiredField)
}

func TestTokenProvider_ReusesToken(t *testing.T) {
	ts := newTokenServer(t, 3600)
	p := newProvider(t, ts)

	first, err := p.Token(context.Background())
	require.NoError(t, err)
	second, err := p.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-1", first.AccessToken)
	assert.Equal(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(1), ts.hits.Load())
	assert.WithinDuration(t, time.Now().Add(3600*time.Second-ExpiryMargin), first.Expiry, 5*time.Second)
}

func TestTokenProvider_DefaultLifetime(t *testing.T) {
	ts := newTokenServer(t, 0)
	p := newProvider(t, ts)

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenLifetime-ExpiryMargin), tok.Expiry, 5*time.Second)
}

func TestTokenProvider_RefreshesInsideMargin(t *testing.T) {
	// 30s lifetime is shorter than the margin, so every call refreshes.
	ts := newTokenServer(t, 30)
	p := newProvider(t, ts)

	first, err := p.Token(context.Background())
	require.NoError(t, err)
	second, err := p.Token(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(2), ts.hits.Load())
}

func TestTokenProvider_ConcurrentCallersShareFetch(t *testing.T) {
	ts := newTokenServer(t, 3600)
	ts.delay = 50 * time.Millisecond
	p := newProvider(t, ts)

	var wg sync.WaitGroup
	tokens := make([]string, 10)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := p.Token(context.Background())
			if assert.NoError(t, err) {
				tokens[i] = tok.AccessToken
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), ts.hits.Load())
	for _, tok := range tokens {
		assert.Equal(t, "tok-1", tok)
	}
}

func TestTokenProvider_CancelledCallerDoesNotFailOthers(t *testing.T) {
	ts := newTokenServer(t, 3600)
	ts.delay = 200 * time.Millisecond
	p := newProvider(t, ts)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Token(ctx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return ts.hits.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan string, 1)
	go func() {
		tok, err := p.Token(context.Background())
		if assert.NoError(t, err) {
			second <- tok.AccessToken
			return
		}
		second <- ""
	}()
	cancel()

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.Equal(t, "tok-1", <-second)
	assert.Equal(t, int32(1), ts.hits.Load())

	// The shared fetch completed and was cached.
	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
}

func TestTokenProvider_SharedCache(t *testing.T) {
	ts := newTokenServer(t, 3600)
	shared := cache.NewTokenCache(4, time.Hour)

	a, err := NewTokenProvider(ts.URL, "id", "secret", WithTokenCache(shared))
	require.NoError(t, err)
	b, err := NewTokenProvider(ts.URL, "id", "secret", WithTokenCache(shared))
	require.NoError(t, err)

	_, err = a.Token(context.Background())
	require.NoError(t, err)
	_, err = b.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), ts.hits.Load())
}

func TestTokenProvider_BadCredentials(t *testing.T) {
	ts := newTokenServer(t, 3600)
	p, err := NewTokenProvider(ts.URL, "id", "wrong")
	require.NoError(t, err)

	_, err = p.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "obtaining PISTE token")
}

func TestClient_PostJSON(t *testing.T) {
	ts := newTokenServer(t, 3600)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/lf/search", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CODE_ETAT", body["fond"])

		_, _ = w.Write([]byte(`{"totalResultNumber":3}`))
	}))
	defer api.Close()

	c := NewClient("legifrance", newProvider(t, ts), WithBaseURL(api.URL+"/lf/"))
	body, err := c.PostJSON(context.Background(), "/search", map[string]string{"fond": "CODE_ETAT"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalResultNumber":3}`, string(body))
}

func TestClient_GetJSONQuery(t *testing.T) {
	ts := newTokenServer(t, 3600)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/decision", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer api.Close()

	c := NewClient("judilibre", newProvider(t, ts), WithBaseURL(api.URL))
	body, err := c.GetJSON(context.Background(), "/decision", map[string][]string{"id": {"abc"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(body))
}

func TestClient_ForbiddenCarriesHint(t *testing.T) {
	ts := newTokenServer(t, 3600)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Access denied"}`))
	}))
	defer api.Close()

	c := NewClient("legifrance", newProvider(t, ts), WithBaseURL(api.URL))
	_, err := c.PostJSON(context.Background(), "/search", struct{}{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Access denied", apiErr.Message)
	assert.Equal(t, SubscriptionHint, apiErr.Hint)
	assert.Contains(t, err.Error(), "piste.gouv.fr")
}

func TestClient_PlainTextError(t *testing.T) {
	ts := newTokenServer(t, 3600)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable\n"))
	}))
	defer api.Close()

	c := NewClient("judilibre", newProvider(t, ts), WithBaseURL(api.URL))
	_, err := c.GetJSON(context.Background(), "/healthcheck", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.Empty(t, apiErr.Hint)
}

func TestClient_UnauthorizedDropsToken(t *testing.T) {
	ts := newTokenServer(t, 3600)

	var calls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer api.Close()

	c := NewClient("legifrance", newProvider(t, ts), WithBaseURL(api.URL))
	_, err := c.PostJSON(context.Background(), "/search", struct{}{})
	require.Error(t, err)

	_, err = c.PostJSON(context.Background(), "/search", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), ts.hits.Load())
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	ts := newTokenServer(t, 3600)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer api.Close()

	c := NewClient("legifrance", newProvider(t, ts), WithBaseURL(api.URL), WithRateLimit(0.001, 1))
	_, err := c.PostJSON(context.Background(), "/search", struct{}{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.PostJSON(ctx, "/search", struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestEnvironmentFor(t *testing.T) {
	assert.Equal(t, "sandbox", EnvironmentFor(true).Name)
	assert.Equal(t, "https://sandbox-api.piste.gouv.fr/dila/legifrance/lf-engine-app", EnvironmentFor(true).LegifranceURL())
	assert.Equal(t, "https://api.piste.gouv.fr/cassation/judilibre/v1.0", EnvironmentFor(false).JudilibreURL())
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "error", statusClass(0))
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}
