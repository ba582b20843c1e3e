package legifrance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func enumSchema[T ~string](labels []Label[T]) *invopop.Schema {
	enum := make([]any, len(labels))
	for i, l := range labels {
		enum[i] = string(l.Value)
	}
	return &invopop.Schema{Type: "string", Enum: enum}
}

func (Fund) JSONSchema() *invopop.Schema { return enumSchema(Funds) }
func (FieldType) JSONSchema() *invopop.Schema { return enumSchema(FieldTypes) }
func (SearchMode) JSONSchema() *invopop.Schema { return enumSchema(SearchModes) }
func (Operator) JSONSchema() *invopop.Schema { return enumSchema(Operators) }
func (Sort) JSONSchema() *invopop.Schema { return enumSchema(Sorts) }
func (PaginationType) JSONSchema() *invopop.Schema { return enumSchema(PaginationTypes) }

// RequestSchema reflects the JSON Schema of SearchRequest.
func RequestSchema() *invopop.Schema {
	r := &invopop.Reflector{Anonymous: true}
	return r.Reflect(&SearchRequest{})
}

var (
	compileOnce     sync.Once
	compiledRequest *jsonschema.Schema
	compileErr      error
)

func requestValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledRequest, compileErr = compileSchema(RequestSchema())
	})
	return compiledRequest, compileErr
}

func compileSchema(s *invopop.Schema) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("search-request.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("search-request.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return compiled, nil
}

// ValidateRequest checks a request against the search endpoint contract
// before it is sent.
func ValidateRequest(req SearchRequest) error {
	for i, f := range req.Search.Filters {
		if n := f.variants(); n != 1 {
			return fmt.Errorf("filtres[%d] (%s): expected exactly one of valeurs, dates or singleDate, got %d", i, f.Facet, n)
		}
	}

	schema, err := requestValidator()
	if err != nil {
		return fmt.Errorf("loading request schema: %w", err)
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("unmarshaling request: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return &ContractError{Violations: violations(err)}
	}
	return nil
}

// ContractError lists where a request departs from the search contract.
type ContractError struct {
	Violations []string
}

func (e *ContractError) Error() string {
	return "search request does not match contract: " + strings.Join(e.Violations, "; ")
}

var printer = message.NewPrinter(language.English)

// violations flattens a validation error into "path: message" lines.
func violations(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	seen := make(map[string]bool)
	var out []string
	collectViolations(verr, seen, &out)
	sort.Strings(out)
	return out
}

// collectViolations keeps leaf errors only; $ref wrappers carry no detail.
func collectViolations(err *jsonschema.ValidationError, seen map[string]bool, out *[]string) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			line := "/" + strings.Join(err.InstanceLocation, "/") + ": " + msg
			if !seen[line] {
				seen[line] = true
				*out = append(*out, line)
			}
		}
	}
	for _, cause := range err.Causes {
		collectViolations(cause, seen, out)
	}
}

// variants counts the populated variants of f. Empty valeurs are dropped on
// the wire, so an empty slice counts as absent.
func (f Filter) variants() int {
	n := 0
	if len(f.Values) > 0 {
		n++
	}
	if f.Dates != nil {
		n++
	}
	if f.SingleDate != "" {
		n++
	}
	return n
}
