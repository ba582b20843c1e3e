package legifrance

import (
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Facet used to restrict code searches to a single code.
const FacetCodeName = "TEXT_NOM_CODE"

// DefaultSearchPageSize is the page size used when Params.PageSize is zero.
const DefaultSearchPageSize = 10

// ValueFilter restricts Facet to Values.
type ValueFilter struct {
	Facet  string   `json:"facette" jsonschema:"Facet name, e.g. NOM_CODE, ARTICLE_LEGAL_STATUS, NATURE"`
	Values []string `json:"valeurs" jsonschema:"Accepted values"`
}

// DateFilter restricts a date facet either to [Start, End] or to Date.
type DateFilter struct {
	Facet string `json:"facette" jsonschema:"Date facet, e.g. DATE_SIGNATURE, DATE_VERSION"`
	Start string `json:"start,omitempty" jsonschema:"Range start (YYYY-MM-DD)"`
	End   string `json:"end,omitempty" jsonschema:"Range end (YYYY-MM-DD)"`
	Date  string `json:"date,omitempty" jsonschema:"Single date (YYYY-MM-DD)"`
}

// Params is the flat form of a search: one query on one field, plus filters.
type Params struct {
	Query        string
	Fund         Fund
	FieldType    FieldType
	SearchMode   SearchMode
	CodeName     string
	ValueFilters []ValueFilter
	DateFilters  []DateFilter
	PageNumber   int
	PageSize     int
	Sort         Sort
	Operator     Operator
	Advanced     bool
}

// withDefaults fills zero values with the search defaults.
func (p Params) withDefaults() Params {
	if p.Fund == "" {
		p.Fund = FundCodeEtat
	}
	if p.FieldType == "" {
		p.FieldType = "ALL"
	}
	if p.SearchMode == "" {
		p.SearchMode = ModeAnyWord
	}
	if p.Operator == "" {
		p.Operator = OpAnd
	}
	if p.PageNumber == 0 {
		p.PageNumber = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultSearchPageSize
	}
	return p
}

// Builder assembles a Builder from the flat parameters.
//
// CodeName becomes a TEXT_NOM_CODE filter for code funds and is ignored
// otherwise. A date filter with both Start and End is a range; one with
// only Date is a single date; anything else is skipped.
func (p Params) Builder() (*Builder, error) {
	if err := validate.Required("query", p.Query); err != nil {
		return nil, err
	}
	p = p.withDefaults()

	b := NewBuilder()
	if err := b.SetFund(p.Fund); err != nil {
		return nil, err
	}

	c, err := NewCriterion(p.Query, p.SearchMode)
	if err != nil {
		return nil, err
	}
	if err := b.AddField(p.FieldType, OpAnd, c); err != nil {
		return nil, err
	}

	if p.Fund.IsCode() && p.CodeName != "" {
		b.AddValueFilter(FacetCodeName, p.CodeName)
	}
	for _, f := range p.ValueFilters {
		b.AddValueFilter(f.Facet, f.Values...)
	}
	for _, f := range p.DateFilters {
		switch {
		case f.Start != "" && f.End != "":
			b.AddDateRangeFilter(f.Facet, f.Start, f.End)
		case f.Date != "":
			b.AddSingleDateFilter(f.Facet, f.Date)
		}
	}

	if err := b.SetOperator(p.Operator); err != nil {
		return nil, err
	}
	if p.Advanced {
		b.SetAdvancedSearch(true)
	}
	if err := b.SetPagination(p.PageNumber, p.PageSize); err != nil {
		return nil, err
	}
	if p.Sort != "" {
		if err := b.SetSort(p.Sort, ""); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Request builds the search document for p.
func (p Params) Request() (SearchRequest, error) {
	b, err := p.Builder()
	if err != nil {
		return SearchRequest{}, err
	}
	return b.Build()
}
