package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/droitfr-mcp/pkg/jsonclean"
)

// AddTool registers a tool with the server after checking its input and
// output types against the schemas the SDK will infer for them. This catches
// nil-slice and opaque-JSON bugs at startup rather than at runtime.
//
// Panics if a check fails.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckInputSchema[In](t.Name)
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckInputSchema panics when no schema can be inferred for T. The usual
// cause is a struct tag written for another generator, such as
// `jsonschema:"minimum=1"`: the SDK only accepts a plain description there.
func CheckInputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if _, err := jsonschema.ForType(rt, &jsonschema.ForOptions{}); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: cannot infer input schema for %s: %v\n"+
				"  Fix: jsonschema tags on tool inputs must be plain descriptions; keep wire types with validation tags out of tool inputs",
			toolName, rt, err,
		))
	}
}

// CheckOutputSchema validates that the zero value of T passes the JSON schema
// the MCP SDK would infer from it.
//
// Go's json.Marshal serializes nil slices as null, but the SDK infers
// "type": "array" from the Go type, so null fails schema validation. Adding
// omitzero to slice fields or initializing them to empty slices fixes this.
//
// Also rejects fields whose JSON form is unrelated to their Go structure:
// json.RawMessage is inferred as an array of integers, and jsonclean.Value
// as an object with Kind/Scalar/Members/Items fields. Both must be carried
// in fields typed any.
//
// No-ops for the untyped "any" output or if schema inference itself fails
// (the SDK will report those separately).
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	// Follow pointer like the SDK does.
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if paths := findOpaqueFields(elem, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s carries raw JSON at %s\n"+
				"  json.RawMessage and jsonclean.Value marshal to arbitrary JSON, but the schema is inferred from their Go fields\n"+
				"  Fix: declare the field as any and assign the value to it (never a nil *jsonclean.Value)",
			toolName, elem, strings.Join(paths, ", "),
		))
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return // schema inference failed; SDK will report this in AddTool
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return // resolution failed; SDK will report this in AddTool
	}

	zero := reflect.Zero(elem).Interface()
	data, err := json.Marshal(zero)
	if err != nil {
		return
	}

	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of output type %s fails schema validation: %v\n"+
				"  JSON: %s\n"+
				"  Fix: add `omitzero` to nil-defaulting slice fields, or initialize them to empty slices",
			toolName, elem, err, data,
		))
	}
}

var opaqueTypes = map[reflect.Type]bool{
	reflect.TypeFor[json.RawMessage](): true,
	reflect.TypeFor[jsonclean.Value](): true,
}

// findOpaqueFields walks t and returns the paths of fields whose type is
// one of opaqueTypes, directly or through pointers, slices and maps.
func findOpaqueFields(t reflect.Type, path []string, visited map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if opaqueTypes[t] {
		return []string{strings.Join(path, ".")}
	}

	// Prevent infinite recursion on recursive types.
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	var found []string

	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			found = append(found, findOpaqueFields(f.Type, append(path, f.Name), visited)...)
		}

	case reflect.Slice, reflect.Array:
		found = append(found, findOpaqueFields(t.Elem(), append(path, "[]"), visited)...)

	case reflect.Map:
		found = append(found, findOpaqueFields(t.Elem(), append(path, "[value]"), visited)...)
	}

	return found
}
