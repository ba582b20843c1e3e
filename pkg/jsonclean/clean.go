// Package jsonclean prunes Légifrance and JudiLibre responses down to the
// fields worth showing: allow-listed scalars, with empty branches removed,
// bounded by depth.
package jsonclean

import "slices"

// MaxDepth is the recursion ceiling. Anything at or below it is dropped.
const MaxDepth = 8

var allowedKeys = map[string]struct{}{
	"id":                {},
	"title":             {},
	"titre":             {},
	"text":              {},
	"texte":             {},
	"values":            {},
	"datePubli":         {},
	"dateDebut":         {},
	"dateFin":           {},
	"origine":           {},
	"nature":            {},
	"natureJuridiction": {},
	"solution":          {},
	"numeroAffaire":     {},
	"president":         {},
	"avocats":           {},
	"intitule":          {},
	"texteHtml":         {},
	"juridiction":       {},
	"jurisdiction":      {},
	"content":           {},
}

// AllowedKeys returns the sorted allow-list.
func AllowedKeys() []string {
	keys := make([]string, 0, len(allowedKeys))
	for k := range allowedKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// IsAllowed reports whether scalars under key survive cleaning.
func IsAllowed(key string) bool {
	_, ok := allowedKeys[key]
	return ok
}

// Clean returns the pruned tree, or nil when nothing survives.
//
// Objects keep allow-listed scalar members and any container member whose
// cleaned form is non-empty, whatever its key. Arrays made only of strings
// are kept whole. Top-level scalars are returned as they are. The result
// never shares nodes with v.
func Clean(v *Value) *Value {
	return clean(v, 0)
}

// CleanJSON parses data and cleans it.
func CleanJSON(data []byte) (*Value, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Clean(v), nil
}

// CleanAny cleans a decoded JSON value and returns plain Go values.
func CleanAny(x any) any {
	return Clean(FromAny(x)).Any()
}

func clean(v *Value, depth int) *Value {
	if v == nil || depth >= MaxDepth {
		return nil
	}

	switch v.Kind {
	case KindObject:
		return cleanObject(v, depth)
	case KindArray:
		return cleanArray(v, depth)
	default:
		return copyScalar(v)
	}
}

func cleanObject(obj *Value, depth int) *Value {
	out := &Value{Kind: KindObject}
	for _, m := range obj.Members {
		if m.Value.Falsy() {
			continue
		}
		if m.Value.Kind == KindScalar {
			if IsAllowed(m.Key) {
				out.Members = append(out.Members, Member{Key: m.Key, Value: copyScalar(m.Value)})
			}
			continue
		}
		if child := clean(m.Value, depth+1); !child.Falsy() {
			out.Members = append(out.Members, Member{Key: m.Key, Value: child})
		}
	}
	if len(out.Members) == 0 {
		return nil
	}
	return out
}

func cleanArray(arr *Value, depth int) *Value {
	if len(arr.Items) == 0 {
		return nil
	}
	if allStrings(arr.Items) {
		out := &Value{Kind: KindArray, Items: make([]*Value, len(arr.Items))}
		for i, item := range arr.Items {
			out.Items[i] = copyScalar(item)
		}
		return out
	}

	out := &Value{Kind: KindArray}
	for _, item := range arr.Items {
		if child := clean(item, depth+1); !child.Falsy() {
			out.Items = append(out.Items, child)
		}
	}
	if len(out.Items) == 0 {
		return nil
	}
	return out
}

func copyScalar(v *Value) *Value {
	c := *v
	return &c
}

func allStrings(items []*Value) bool {
	for _, item := range items {
		if _, ok := item.Str(); !ok {
			return false
		}
	}
	return true
}
