// Package piste is the transport shared by the Légifrance and JudiLibre
// clients: OAuth2 client-credentials against the PISTE gateway, token reuse,
// rate limiting and JSON calls.
//
// # Quick Start
//
//	env := piste.EnvironmentFor(true) // sandbox
//	tokens, err := piste.NewTokenProvider(env.TokenURL, clientID, clientSecret)
//	if err != nil {
//	    return err
//	}
//	c := piste.NewClient("legifrance", tokens, piste.WithBaseURL(env.LegifranceURL()))
//	body, err := c.PostJSON(ctx, "/search", req)
//
// # Tokens
//
// A TokenProvider caches its token until one minute before the expiry the
// gateway reports (one hour when it reports none). Providers built with the
// same WithTokenCache share tokens, and concurrent callers that find the cache
// empty wait on a single token request.
//
// # Errors
//
// Non-2xx responses are returned as *APIError. A 403 carries a hint pointing
// at the API subscription on the PISTE portal; a 401 also drops the cached
// token so the next call re-authenticates.
package piste
