package judilibre

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Paging limits of the search endpoint.
const (
	MaxPageSize     = 50
	DefaultPageSize = 10
)

// Accepted values of the closed search parameters.
var (
	Operators = []string{"or", "and", "exact"}
	Sorts     = []string{"score", "scorepub", "date"}
	Orders    = []string{"asc", "desc"}
)

// ChamberKeys are the Cour de cassation chamber keys accepted by the chamber
// filter, with their labels.
var ChamberKeys = []struct {
	Key, Label string
}{
	{"pl", "Assemblée plénière"},
	{"mi", "Chambre mixte"},
	{"civ1", "Première chambre civile"},
	{"civ2", "Deuxième chambre civile"},
	{"civ3", "Troisième chambre civile"},
	{"comm", "Chambre commerciale financière et économique"},
	{"soc", "Chambre sociale"},
	{"cr", "Chambre criminelle"},
	{"creun", "Chambres réunies"},
	{"ordo", "Première présidence (Ordonnance)"},
	{"allciv", "Toutes les chambres civiles"},
	{"other", "Autre"},
}

// SearchParams are the query parameters of GET /search. Empty lists and
// strings are left out of the request.
type SearchParams struct {
	Query         string
	Fields        []string
	Operator      string
	Types         []string
	Themes        []string
	Chambers      []string
	Formations    []string
	Jurisdictions []string
	Locations     []string
	Publications  []string
	Solutions     []string
	FileTypes     []string
	DateStart     string
	DateEnd       string
	Sort          string
	Order         string
	PageSize      int
	Page          int

	ResolveReferences  bool
	ParticularInterest bool
}

// Values validates p and encodes it as query parameters.
func (p SearchParams) Values() (url.Values, error) {
	if p.Operator == "" {
		p.Operator = "or"
	}
	if p.Sort == "" {
		p.Sort = "scorepub"
	}
	if p.Order == "" {
		p.Order = "desc"
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}

	if err := validate.Enum("operator", p.Operator, Operators); err != nil {
		return nil, err
	}
	if err := validate.Enum("sort", p.Sort, Sorts); err != nil {
		return nil, err
	}
	if err := validate.Enum("order", p.Order, Orders); err != nil {
		return nil, err
	}
	if err := validate.Range("page_size", p.PageSize, 1, MaxPageSize); err != nil {
		return nil, err
	}
	if err := validate.Range("page", p.Page, 0, 0); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("operator", p.Operator)
	q.Set("sort", p.Sort)
	q.Set("order", p.Order)
	q.Set("page_size", strconv.Itoa(p.PageSize))
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("resolve_references", strconv.FormatBool(p.ResolveReferences))
	q.Set("particularInterest", strconv.FormatBool(p.ParticularInterest))

	setIf(q, "query", p.Query)
	setIf(q, "date_start", p.DateStart)
	setIf(q, "date_end", p.DateEnd)

	addAll(q, "field", p.Fields)
	addAll(q, "type", p.Types)
	addAll(q, "theme", p.Themes)
	addAll(q, "chamber", p.Chambers)
	addAll(q, "formation", p.Formations)
	addAll(q, "jurisdiction", p.Jurisdictions)
	addAll(q, "location", p.Locations)
	addAll(q, "publication", p.Publications)
	addAll(q, "solution", p.Solutions)
	addAll(q, "withFileOfType", p.FileTypes)
	return q, nil
}

// DecisionParams are the query parameters of GET /decision.
type DecisionParams struct {
	ID                string
	ResolveReferences bool
	// Query highlights matching terms in the text with <em> tags.
	Query    string
	Operator string
}

// Values validates p and encodes it as query parameters.
func (p DecisionParams) Values() (url.Values, error) {
	if err := validate.Required("id", p.ID); err != nil {
		return nil, err
	}
	if p.Operator == "" {
		p.Operator = "or"
	}
	if err := validate.Enum("operator", p.Operator, Operators); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("id", strings.TrimSpace(p.ID))
	q.Set("resolve_references", strconv.FormatBool(p.ResolveReferences))
	if p.Query != "" {
		q.Set("query", p.Query)
		q.Set("operator", p.Operator)
	}
	return q, nil
}

// TaxonomyParams are the query parameters of GET /taxonomy.
type TaxonomyParams struct {
	ID           string
	Key          string
	Value        string
	ContextValue string
}

// IsZero reports whether no parameter is set.
func (p TaxonomyParams) IsZero() bool {
	return p == TaxonomyParams{}
}

// Values validates p and encodes it as query parameters.
func (p TaxonomyParams) Values() (url.Values, error) {
	if p.Key != "" && p.Value != "" {
		return nil, &validate.ConflictError{Params: []string{"key", "value"}}
	}
	if (p.Key != "" || p.Value != "") && p.ID == "" {
		return nil, &validate.MissingFieldError{Param: "id", Reason: "needed with key or value"}
	}

	q := url.Values{}
	setIf(q, "id", p.ID)
	setIf(q, "key", p.Key)
	setIf(q, "value", p.Value)
	setIf(q, "context_value", p.ContextValue)
	return q, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func addAll(q url.Values, key string, values []string) {
	for _, v := range values {
		if v != "" {
			q.Add(key, v)
		}
	}
}
