// Package judilibre queries the Cour de cassation open-data API (JudiLibre)
// through the PISTE gateway: decision search, full decisions and the
// taxonomies that name search filters.
package judilibre

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/usestring/droitfr-mcp/pkg/jsonclean"
)

// Transport performs authenticated GETs against the JudiLibre base URL.
// *piste.Client satisfies it.
type Transport interface {
	GetJSON(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Client calls the JudiLibre endpoints.
type Client struct {
	api Transport
}

// NewClient creates a Client over api.
func NewClient(api Transport) *Client {
	return &Client{api: api}
}

// SearchPage is one page of search results.
type SearchPage struct {
	Total    int
	Page     int
	PageSize int
	// Results is an array of decision summaries in response order. When the
	// response carries no results key, it holds the whole response.
	Results *jsonclean.Value
}

// Search runs a decision search.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchPage, error) {
	q, err := p.Values()
	if err != nil {
		return nil, err
	}
	body, err := c.api.GetJSON(ctx, "/search", q)
	if err != nil {
		return nil, fmt.Errorf("searching decisions: %w", err)
	}
	doc, err := jsonclean.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := doc.Get("results")
	if results == nil {
		results = jsonclean.NewArray(doc)
	}
	return &SearchPage{
		Total:    int(gjson.GetBytes(body, "total").Int()),
		Page:     int(gjson.GetBytes(body, "page").Int()),
		PageSize: int(gjson.GetBytes(body, "page_size").Int()),
		Results:  results,
	}, nil
}

// Decision is a full decision.
type Decision struct {
	ID string
	// SolutionLabel is the solution upper-cased, e.g. "REJET".
	SolutionLabel string
	// Zones holds the text of each delimited zone, in response order.
	Zones []ZoneText
	// Document is the response as returned by the API.
	Document *jsonclean.Value
}

var upper = cases.Upper(language.French)

// Decision fetches a decision by identifier.
func (c *Client) Decision(ctx context.Context, p DecisionParams) (*Decision, error) {
	q, err := p.Values()
	if err != nil {
		return nil, err
	}
	body, err := c.api.GetJSON(ctx, "/decision", q)
	if err != nil {
		return nil, fmt.Errorf("fetching decision %s: %w", q.Get("id"), err)
	}
	doc, err := jsonclean.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("decoding decision %s: %w", q.Get("id"), err)
	}

	d := &Decision{
		ID:       gjson.GetBytes(body, "id").String(),
		Zones:    ExtractZones(body),
		Document: doc,
	}
	if d.ID == "" {
		d.ID = q.Get("id")
	}
	if s := gjson.GetBytes(body, "solution").String(); s != "" {
		d.SolutionLabel = upper.String(s)
	}
	return d, nil
}

// TaxonomyDescriptions lists the available taxonomies. It is answered
// locally when Taxonomy is called without parameters.
var TaxonomyDescriptions = []struct {
	Key, Description string
}{
	{"type", "Types de décision (arrêt, ordonnance, QPC, etc.)"},
	{"jurisdiction", "Juridictions (Cour de cassation, cours d'appel, tribunaux, etc.)"},
	{"chamber", "Chambres de la Cour de cassation (civile, sociale, criminelle, etc.)"},
	{"formation", "Formations des juridictions"},
	{"publication", "Niveaux de publication (bulletin, rapport, lettre, etc.)"},
	{"theme", "Matières juridiques (nomenclature Cour de cassation)"},
	{"solution", "Types de solution (cassation, rejet, annulation, etc.)"},
	{"field", "Champs et zones de contenu (exposé, moyens, motivations, dispositif, etc.)"},
	{"zones", "Zones de contenu des décisions"},
	{"location", "Codes des sièges de juridiction (cours d'appel, tribunaux)"},
	{"filetype", "Types de documents associés (rapports, avis, communiqués, etc.)"},
}

// Taxonomy looks up a taxonomy, a single entry by key or by value, or,
// with no parameters, the list of taxonomies.
func (c *Client) Taxonomy(ctx context.Context, p TaxonomyParams) (*jsonclean.Value, error) {
	q, err := p.Values()
	if err != nil {
		return nil, err
	}
	if p.IsZero() {
		return taxonomyIndex(), nil
	}

	body, err := c.api.GetJSON(ctx, "/taxonomy", q)
	if err != nil {
		if p.ID != "" {
			return nil, fmt.Errorf("fetching taxonomy %s: %w", p.ID, err)
		}
		return nil, fmt.Errorf("fetching taxonomies: %w", err)
	}
	doc, err := jsonclean.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("decoding taxonomy response: %w", err)
	}
	if result := doc.Get("result"); result != nil {
		return result, nil
	}
	return doc, nil
}

func taxonomyIndex() *jsonclean.Value {
	members := make([]jsonclean.Member, len(TaxonomyDescriptions))
	for i, t := range TaxonomyDescriptions {
		members[i] = jsonclean.Member{Key: t.Key, Value: jsonclean.String(t.Description)}
	}
	return jsonclean.NewObject(members...)
}
