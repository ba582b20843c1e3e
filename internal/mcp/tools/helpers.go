// Package tools contains the MCP tools over Légifrance and JudiLibre.
package tools

import (
	"context"
	"errors"

	"github.com/usestring/droitfr-mcp/internal/query"
	"github.com/usestring/droitfr-mcp/pkg/jsonclean"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// MIME type constant.
const MimeJSON = "application/json"

// valueOrNil keeps a nil *jsonclean.Value from becoming a non-nil interface.
func valueOrNil(v *jsonclean.Value) any {
	if v == nil {
		return nil
	}
	return v
}

// MaxSelectResults caps max_results on the jq parameters of the tools.
const MaxSelectResults = 1000

// selectOptions checks the jq tuning parameters of a tool call.
func selectOptions(maxResults int, dedupe bool) (query.Options, error) {
	if err := validate.Range("max_results", maxResults, 0, MaxSelectResults); err != nil {
		return query.Options{}, err
	}
	return query.Options{Deduplicate: dedupe, MaxResults: maxResults}, nil
}

// Selection is the outcome of an optional jq expression over a document.
type Selection struct {
	Document any      // cleaned document or cleaned selected values
	Errors   []string // jq runtime errors, one per failed output
}

// SelectAndClean runs expr over doc when it is set and cleans what comes
// out. Without an expression the whole document is cleaned, keeping its key
// order, and opts is ignored.
func SelectAndClean(ctx context.Context, engine *query.Engine, doc *jsonclean.Value, expr string, opts query.Options) (*Selection, error) {
	if expr == "" {
		return &Selection{Document: valueOrNil(jsonclean.Clean(doc))}, nil
	}
	if engine == nil {
		engine = query.NewEngine()
	}

	res, err := engine.Select(ctx, doc.Any(), expr, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, ErrInvalidInput(err.Error())
	}

	sel := &Selection{Errors: res.Errors}
	switch len(res.Values) {
	case 0:
	case 1:
		sel.Document = jsonclean.CleanAny(res.Values[0])
	default:
		sel.Document = jsonclean.CleanAny(res.Values)
	}
	return sel, nil
}

// tokenPreview shows the first and last ten characters of a token.
func tokenPreview(tok string) string {
	if len(tok) <= 20 {
		return "***"
	}
	return tok[:10] + "..." + tok[len(tok)-10:]
}
