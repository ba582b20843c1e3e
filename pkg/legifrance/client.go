package legifrance

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/usestring/droitfr-mcp/pkg/jsonclean"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Transport performs authenticated calls against the Légifrance base URL.
// *piste.Client satisfies it.
type Transport interface {
	PostJSON(ctx context.Context, path string, body any) ([]byte, error)
	GetText(ctx context.Context, path string) (string, error)
}

// Client calls the Légifrance search and consult endpoints.
type Client struct {
	api Transport
}

// NewClient creates a Client over api.
func NewClient(api Transport) *Client {
	return &Client{api: api}
}

// SearchResult is a search response in three shapes: counters, the
// flattened summary, and the whole response reduced by jsonclean.
type SearchResult struct {
	TotalResultNumber int
	ExecutionTime     int
	Items             []SummaryItem
	Facets            []Facet
	Cleaned           *jsonclean.Value
}

// Search builds a request from p, validates it and runs it.
func (c *Client) Search(ctx context.Context, p Params) (*SearchResult, error) {
	req, err := p.Request()
	if err != nil {
		return nil, err
	}
	return c.SearchRequest(ctx, req)
}

// SearchRequest validates and runs a request built elsewhere.
func (c *Client) SearchRequest(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	body, err := c.api.PostJSON(ctx, "/search", req)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", req.Fund, err)
	}
	return parseSearchResult(body)
}

func parseSearchResult(body []byte) (*SearchResult, error) {
	cleaned, err := jsonclean.CleanJSON(body)
	if err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return &SearchResult{
		TotalResultNumber: int(gjson.GetBytes(body, "totalResultNumber").Int()),
		ExecutionTime:     int(gjson.GetBytes(body, "executionTime").Int()),
		Items:             Summarize(body),
		Facets:            Facets(body),
		Cleaned:           cleaned,
	}, nil
}

// consultRoute maps an identifier prefix to its consult endpoint and the
// name of the id parameter that endpoint expects.
type consultRoute struct {
	prefix string
	path   string
	param  string
}

var consultRoutes = []consultRoute{
	{"LEGIARTI", "/consult/getArticle", "id"},
	{"LEGITEXT", "/consult/legiPart", "textId"},
	{"JURITEXT", "/consult/juri", "textId"},
	{"CNILTEXT", "/consult/cnil", "textId"},
	{"KALITEXT", "/consult/kaliText", "id"},
	{"KALIARTI", "/consult/kaliArticle", "id"},
	{"ACCOTEXT", "/consult/acco", "id"},
}

// JORF texts are the fallback for unknown prefixes.
var jorfRoute = consultRoute{path: "/consult/jorf", param: "textCid"}

// ConsultEndpoint returns the consult path and request body for id.
func ConsultEndpoint(id string) (string, map[string]string) {
	route := jorfRoute
	for _, r := range consultRoutes {
		if strings.HasPrefix(id, r.prefix) {
			route = r
			break
		}
	}
	return route.path, map[string]string{route.param: id}
}

// Article fetches a document by identifier. The result is the parsed
// response, not yet cleaned.
func (c *Client) Article(ctx context.Context, id string) (*jsonclean.Value, error) {
	id = strings.TrimSpace(id)
	if err := validate.Required("id", id); err != nil {
		return nil, err
	}
	path, params := ConsultEndpoint(id)
	body, err := c.api.PostJSON(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", id, err)
	}
	doc, err := jsonclean.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", id, err)
	}
	return doc, nil
}

// Ping checks that the search endpoint answers; it returns "pong".
func (c *Client) Ping(ctx context.Context) (string, error) {
	return c.api.GetText(ctx, "/search/ping")
}
