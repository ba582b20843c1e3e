package legifrance

import (
	"slices"

	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// MaxPageSize is the largest page the search endpoint serves.
const MaxPageSize = 100

// Defaults applied by a fresh Builder.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 50
)

// Builder assembles a SearchRequest step by step, validating every
// enumerated value as it is set. A Builder is not safe for concurrent use;
// give each search its own or call Reset between searches.
type Builder struct {
	req SearchRequest
}

// NewBuilder returns a builder in its initial state.
func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset returns the builder to its initial state.
func (b *Builder) Reset() {
	b.req = SearchRequest{
		Search: Recherche{
			Fields:         []FieldCriterion{},
			Filters:        []Filter{},
			PageNumber:     DefaultPageNumber,
			PageSize:       DefaultPageSize,
			Operator:       OpAnd,
			Sort:           SortRelevance,
			SecondSort:     SortDateDesc,
			PaginationType: PaginationDefault,
		},
	}
}

// SetFund selects the collection to search.
func (b *Builder) SetFund(f Fund) error {
	fund, err := ParseFund(string(f))
	if err != nil {
		return err
	}
	b.req.Fund = fund
	return nil
}

// Fund returns the selected collection, empty if none.
func (b *Builder) Fund() Fund {
	return b.req.Fund
}

// CriterionOption customizes a Criterion built by NewCriterion.
type CriterionOption func(*Criterion)

// WithCriterionOperator sets how the criterion combines with its siblings.
func WithCriterionOperator(op Operator) CriterionOption {
	return func(c *Criterion) {
		c.Operator = op
	}
}

// WithProximity sets the maximum distance between matched words. Only
// meaningful with ModeAllWords; the API interprets it.
func WithProximity(words int) CriterionOption {
	return func(c *Criterion) {
		c.Proximity = &words
	}
}

// WithSubCriteria nests criteria under this one.
func WithSubCriteria(sub ...Criterion) CriterionOption {
	return func(c *Criterion) {
		c.Criteria = append(c.Criteria, sub...)
	}
}

// NewCriterion builds a search criterion. The operator defaults to ET.
func NewCriterion(value string, mode SearchMode, opts ...CriterionOption) (Criterion, error) {
	m, err := ParseSearchMode(string(mode))
	if err != nil {
		return Criterion{}, err
	}

	c := Criterion{Value: value, Mode: m, Operator: OpAnd}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Operator == "" {
		c.Operator = OpAnd
	}

	if c.Operator, err = ParseOperator(string(c.Operator)); err != nil {
		return Criterion{}, err
	}
	if c.Proximity != nil {
		if err := validate.Range("proximite", *c.Proximity, 0, 0); err != nil {
			return Criterion{}, err
		}
	}
	c.Criteria = cloneCriteria(c.Criteria)
	return c, nil
}

// AddField appends a searched field. An empty operator means ET.
func (b *Builder) AddField(t FieldType, op Operator, criteria ...Criterion) error {
	ft, err := ParseFieldType(string(t))
	if err != nil {
		return err
	}
	if op == "" {
		op = OpAnd
	}
	if op, err = ParseOperator(string(op)); err != nil {
		return err
	}

	b.req.Search.Fields = append(b.req.Search.Fields, FieldCriterion{
		Type:     ft,
		Criteria: cloneCriteria(criteria),
		Operator: op,
	})
	return nil
}

// AddValueFilter restricts a facet to a set of values. Facet names are not
// checked; the API defines them per fund.
func (b *Builder) AddValueFilter(facet string, values ...string) {
	b.req.Search.Filters = append(b.req.Search.Filters, Filter{
		Facet:  facet,
		Values: slices.Clone(values),
	})
}

// AddDateRangeFilter restricts a date facet to [start, end].
func (b *Builder) AddDateRangeFilter(facet, start, end string) {
	b.req.Search.Filters = append(b.req.Search.Filters, Filter{
		Facet: facet,
		Dates: &DateRange{Start: start, End: end},
	})
}

// AddSingleDateFilter restricts a date facet to the version in force on date.
func (b *Builder) AddSingleDateFilter(facet, date string) {
	b.req.Search.Filters = append(b.req.Search.Filters, Filter{
		Facet:      facet,
		SingleDate: date,
	})
}

// SetPagination sets the requested page. Sizes above MaxPageSize are
// rejected rather than clamped.
func (b *Builder) SetPagination(pageNumber, pageSize int) error {
	if err := validate.Range("pageNumber", pageNumber, 0, 0); err != nil {
		return err
	}
	if err := validate.Range("pageSize", pageSize, 1, MaxPageSize); err != nil {
		return err
	}
	b.req.Search.PageNumber = pageNumber
	b.req.Search.PageSize = pageSize
	return nil
}

// SetPaginationType switches between standard and per-article paging.
func (b *Builder) SetPaginationType(t PaginationType) error {
	pt, err := ParsePaginationType(string(t))
	if err != nil {
		return err
	}
	b.req.Search.PaginationType = pt
	return nil
}

// SetOperator sets how fields combine.
func (b *Builder) SetOperator(op Operator) error {
	o, err := ParseOperator(string(op))
	if err != nil {
		return err
	}
	b.req.Search.Operator = o
	return nil
}

// SetSort sets the primary sort and, when secondary is non-empty, the
// tie-breaker.
func (b *Builder) SetSort(primary, secondary Sort) error {
	p, err := ParseSort(string(primary))
	if err != nil {
		return err
	}
	if secondary != "" {
		s, err := ParseSort(string(secondary))
		if err != nil {
			return err
		}
		b.req.Search.SecondSort = s
	}
	b.req.Search.Sort = p
	return nil
}

// SetAdvancedSearch flags the request as an advanced search.
func (b *Builder) SetAdvancedSearch(advanced bool) {
	b.req.Search.FromAdvanced = &advanced
}

// Build returns a snapshot of the request. Later changes to the builder do
// not affect it.
func (b *Builder) Build() (SearchRequest, error) {
	if b.req.Fund == "" {
		return SearchRequest{}, &validate.MissingFieldError{Param: "fond", Reason: "call SetFund before Build"}
	}
	return b.req.clone(), nil
}
