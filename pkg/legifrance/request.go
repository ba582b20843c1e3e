package legifrance

import (
	"encoding/json"
	"slices"
)

// SearchRequest is the document POSTed to /search.
type SearchRequest struct {
	Fund   Fund      `json:"fond"`
	Search Recherche `json:"recherche"`
}

// Recherche holds the criteria, filters and paging of a search.
type Recherche struct {
	Fields         []FieldCriterion `json:"champs"`
	Filters        []Filter         `json:"filtres"`
	PageNumber     int              `json:"pageNumber" jsonschema:"minimum=0"`
	PageSize       int              `json:"pageSize" jsonschema:"minimum=1,maximum=100"`
	Operator       Operator         `json:"operateur"`
	Sort           Sort             `json:"sort,omitempty"`
	SecondSort     Sort             `json:"secondSort,omitempty"`
	PaginationType PaginationType   `json:"typePagination"`
	FromAdvanced   *bool            `json:"fromAdvancedRecherche,omitempty"`
}

// FieldCriterion searches one field type with a list of criteria.
type FieldCriterion struct {
	Type     FieldType   `json:"typeChamp"`
	Criteria []Criterion `json:"criteres"`
	Operator Operator    `json:"operateur"`
}

// Criterion is a searched value. Criteria nest without limit.
type Criterion struct {
	Value     string      `json:"valeur"`
	Mode      SearchMode  `json:"typeRecherche"`
	Operator  Operator    `json:"operateur"`
	Proximity *int        `json:"proximite,omitempty" jsonschema:"minimum=0"`
	Criteria  []Criterion `json:"criteres,omitempty"`
}

// Filter restricts results on a facet. Exactly one of Values, Dates or
// SingleDate is set.
type Filter struct {
	Facet      string     `json:"facette"`
	Values     []string   `json:"valeurs,omitempty"`
	Dates      *DateRange `json:"dates,omitempty"`
	SingleDate string     `json:"singleDate,omitempty"`
}

// DateRange bounds a date filter. Dates are passed to the API as given.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FilterKind names the variant held by a Filter.
type FilterKind string

const (
	FilterValues     FilterKind = "values"
	FilterDateRange  FilterKind = "date_range"
	FilterSingleDate FilterKind = "single_date"
)

// Kind reports which variant f holds.
func (f Filter) Kind() FilterKind {
	switch {
	case f.Dates != nil:
		return FilterDateRange
	case f.SingleDate != "":
		return FilterSingleDate
	default:
		return FilterValues
	}
}

// JSON encodes the request, indented when indent is true.
func (r SearchRequest) JSON(indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

func (r SearchRequest) clone() SearchRequest {
	out := r
	out.Search.Fields = make([]FieldCriterion, len(r.Search.Fields))
	for i, f := range r.Search.Fields {
		out.Search.Fields[i] = FieldCriterion{
			Type:     f.Type,
			Criteria: cloneCriteria(f.Criteria),
			Operator: f.Operator,
		}
	}
	out.Search.Filters = make([]Filter, len(r.Search.Filters))
	for i, f := range r.Search.Filters {
		out.Search.Filters[i] = f.clone()
	}
	if r.Search.FromAdvanced != nil {
		v := *r.Search.FromAdvanced
		out.Search.FromAdvanced = &v
	}
	return out
}

func cloneCriteria(in []Criterion) []Criterion {
	if in == nil {
		return nil
	}
	out := make([]Criterion, len(in))
	for i, c := range in {
		out[i] = c.clone()
	}
	return out
}

func (c Criterion) clone() Criterion {
	out := c
	if c.Proximity != nil {
		p := *c.Proximity
		out.Proximity = &p
	}
	out.Criteria = cloneCriteria(c.Criteria)
	return out
}

func (f Filter) clone() Filter {
	out := f
	out.Values = slices.Clone(f.Values)
	if f.Dates != nil {
		d := *f.Dates
		out.Dates = &d
	}
	return out
}
