// Package cache holds the OAuth access tokens shared by the PISTE clients.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2"
)

// DefaultTokenTTL bounds how long a token stays cached when the server
// reports no expiry.
const DefaultTokenTTL = time.Hour

// TokenCache is a thread-safe, size-bounded token store. Entries also expire
// after a fixed TTL; callers still check the token's own expiry.
type TokenCache struct {
	cache *expirable.LRU[string, *oauth2.Token]
}

// NewTokenCache creates a cache holding at most maxItems tokens for at most ttl.
func NewTokenCache(maxItems int, ttl time.Duration) *TokenCache {
	if maxItems <= 0 {
		maxItems = 8
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCache{cache: expirable.NewLRU[string, *oauth2.Token](maxItems, nil, ttl)}
}

// Key identifies a token by issuer and client.
func Key(tokenURL, clientID string) string {
	return tokenURL + "|" + clientID
}

// Get returns the cached token for key.
func (c *TokenCache) Get(key string) (*oauth2.Token, bool) {
	return c.cache.Get(key)
}

// Put stores a token.
func (c *TokenCache) Put(key string, tok *oauth2.Token) {
	c.cache.Add(key, tok)
}

// Invalidate drops the token for key, e.g. after the API rejected it.
func (c *TokenCache) Invalidate(key string) {
	c.cache.Remove(key)
}

// Len returns the current number of cached tokens.
func (c *TokenCache) Len() int {
	return c.cache.Len()
}
